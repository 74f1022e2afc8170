package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer abstracts cleanup of rendered story HTML.
type HTMLSanitizer interface {
	Sanitize(htmlContent string) string
}

// NewsletterSanitizer keeps the tag set a newsletter story can use and drops
// everything else, including scripts, forms, and event handlers.
type NewsletterSanitizer struct {
	policy *bluemonday.Policy
}

// chromaColor matches the color values chroma writes into inline styles.
var chromaColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// NewNewsletterSanitizer builds the sanitizer policy.
func NewNewsletterSanitizer() *NewsletterSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "hr", "em", "strong", "b", "i", "u", "s", "del", "mark",
		"code", "pre", "span", "blockquote", "ul", "ol", "li",
		"h2", "h3", "h4", "sup", "sub", "div", "section",
		"table", "thead", "tbody", "tr", "th", "td",
	)

	p.AllowStandardURLs()
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto", "cid")
	p.AllowAttrs("href", "title").OnElements("a")
	p.RequireNoFollowOnLinks(false)

	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("width", "height").Matching(bluemonday.Integer).OnElements("img")

	p.AllowAttrs("align").Matching(regexp.MustCompile(`^(left|center|right)$`)).OnElements("th", "td")
	p.AllowAttrs("id").OnElements("li", "sup", "div", "section")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^footnote[a-z-]*$`)).OnElements("a", "sup", "div", "section", "li")

	// Inline colors produced by code highlighting.
	p.AllowStyles("color", "background-color").Matching(chromaColor).OnElements("span", "pre")
	p.AllowStyles("font-weight").MatchingEnum("bold", "normal").OnElements("span")
	p.AllowStyles("font-style").MatchingEnum("italic", "normal").OnElements("span")
	p.AllowStyles("text-decoration").MatchingEnum("underline", "none").OnElements("span")
	p.AllowStyles("tab-size").Matching(bluemonday.Integer).OnElements("pre")

	return &NewsletterSanitizer{policy: p}
}

// Sanitize returns htmlContent with disallowed markup removed.
func (s *NewsletterSanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

// Compile-time interface check.
var _ HTMLSanitizer = (*NewsletterSanitizer)(nil)
