package md2mail

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2mail/internal/pipeline"
)

// issueKey is the metadata key holding the issue number.
const issueKey = "issue"

// structure parses issue bodies into a block tree. Only the structure is
// used; rendering happens later with the full pipeline converter.
var structure = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseIssue splits a newsletter source document into its issue number,
// preamble, and stories.
//
// The document starts with a "key: value" metadata block holding at least
// "issue: N", then a blank line, a preamble, and one or more stories. Each
// story starts at a top-level "# Heading" (ATX or setext) and ends with a
// line carrying a Markdown link, which becomes the story's Link.
// Headings inside code blocks, block quotes, or lists never split stories.
//
// Heading and body text are returned as Markdown, uninterpreted.
// Every failure is a *ParseError.
func ParseIssue(source string) (*Issue, error) {
	lines := strings.Split(pipeline.NormalizeLineEndings(source), "\n")

	sep := -1
	for i, line := range lines {
		if isBlank(line) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil, parseErr("", ErrNoMetadata)
	}

	number, meta, err := parseMetadata(strings.Join(lines[:sep], "\n"))
	if err != nil {
		return nil, err
	}

	body := []byte(strings.Join(lines[sep+1:], "\n"))
	pctx := parser.NewContext()
	doc := structure.Parser().Parse(text.NewReader(body), parser.WithContext(pctx))

	heads, err := findStoryHeadings(doc, body)
	if err != nil {
		return nil, err
	}

	bodyLines := strings.Split(string(body), "\n")

	preambleEnd := len(bodyLines)
	if len(heads) > 0 {
		preambleEnd = heads[0].first
	}
	preamble := strings.TrimSpace(strings.Join(bodyLines[:preambleEnd], "\n"))
	if preamble == "" {
		return nil, parseErr("", ErrEmptyPreamble)
	}
	if len(heads) == 0 {
		return nil, parseErr("", ErrTooFewSections)
	}

	stories := make([]Story, 0, len(heads))
	for i, h := range heads {
		end := len(bodyLines)
		if i+1 < len(heads) {
			end = heads[i+1].first
		}
		story, err := buildStory(h.title, bodyLines[h.last+1:end], pctx)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return &Issue{
		Number:   number,
		Preamble: preamble,
		Stories:  stories,
		Meta:     meta,
	}, nil
}

// parseMetadata decodes the metadata block and extracts the issue number.
// The returned map holds every other key.
func parseMetadata(block string) (int, map[string]string, error) {
	if strings.TrimSpace(block) == "" {
		return 0, nil, parseErr("", ErrMissingIssueNumber)
	}

	meta, err := parseMetaBlock(block)
	if err != nil {
		return 0, nil, parseErr("", err)
	}

	raw, ok := meta[issueKey]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil, parseErr("", ErrMissingIssueNumber)
	}
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number <= 0 {
		return 0, nil, parseErr("", fmt.Errorf("%w: got %q", ErrInvalidIssueNumber, raw))
	}

	delete(meta, issueKey)
	return number, meta, nil
}

// storyHeading is a top-level level-1 heading and the source lines it spans.
type storyHeading struct {
	title       string
	first, last int
}

// findStoryHeadings returns the top-level level-1 headings of doc in order.
func findStoryHeadings(doc ast.Node, source []byte) ([]storyHeading, error) {
	starts := lineStarts(source)
	lineOf := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	var heads []storyHeading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}

		segs := h.Lines()
		if segs.Len() == 0 {
			return nil, parseErr("", ErrEmptyStoryTitle)
		}

		parts := make([]string, 0, segs.Len())
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
		}
		title := strings.TrimSpace(strings.Join(parts, " "))
		if title == "" {
			return nil, parseErr("", ErrEmptyStoryTitle)
		}

		first := lineOf(segs.At(0).Start)
		last := lineOf(segs.At(segs.Len() - 1).Start)
		if !isATXHeading(source, starts[first]) {
			last++ // setext underline
		}

		heads = append(heads, storyHeading{title: title, first: first, last: last})
	}
	return heads, nil
}

// buildStory turns the lines under a heading into a Story. The last
// non-blank line must hold a link; the lines before it are the body.
func buildStory(title string, lines []string, pctx parser.Context) (Story, error) {
	first, last := 0, len(lines)-1
	for first <= last && isBlank(lines[first]) {
		first++
	}
	for last >= first && isBlank(lines[last]) {
		last--
	}
	if first > last {
		return Story{}, parseErr(title, ErrMissingLink)
	}

	link := extractLink(lines[last], pctx)
	if link == "" {
		return Story{}, parseErr(title, ErrMissingLink)
	}
	if first == last {
		return Story{}, parseErr(title, ErrEmptyStoryBody)
	}

	return Story{
		Title: title,
		Body:  strings.Join(lines[first:last], "\n"),
		Link:  link,
	}, nil
}

// extractLink parses one line of Markdown and returns the destination of its
// first link. The document's parser context is shared so that reference
// links ("[Learn more][site]") resolve against definitions elsewhere.
func extractLink(line string, pctx parser.Context) string {
	src := []byte(strings.TrimSpace(line))
	doc := structure.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	var dest string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			dest = string(v.Destination)
		case *ast.AutoLink:
			dest = string(v.URL(src))
		default:
			return ast.WalkContinue, nil
		}
		if dest == "" {
			return ast.WalkContinue, nil
		}
		return ast.WalkStop, nil
	})
	return dest
}

// lineStarts returns the byte offset at which each line of source begins.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// isATXHeading reports whether the line starting at offset opens an ATX
// heading: up to three spaces, one to six '#', then a space, tab, or end of line.
func isATXHeading(source []byte, offset int) bool {
	i := offset
	for i < len(source) && i < offset+3 && source[i] == ' ' {
		i++
	}
	hashes := 0
	for i < len(source) && source[i] == '#' {
		hashes++
		i++
	}
	if hashes == 0 || hashes > 6 {
		return false
	}
	return i == len(source) || source[i] == ' ' || source[i] == '\t' || source[i] == '\n'
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
