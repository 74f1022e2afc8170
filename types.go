package md2mail

import (
	"fmt"
	"net/mail"
	"strings"
)

// Issue is one parsed edition of the newsletter.
type Issue struct {
	Number   int               // Positive issue number from the "issue" metadata key
	Preamble string            // Markdown text before the first story
	Stories  []Story           // Stories in source order
	Meta     map[string]string // Remaining metadata, keys lower-cased
}

// Story is one section of an issue.
type Story struct {
	Title string // Heading text, Markdown
	Body  string // Lines between the heading and the link line, Markdown
	Link  string // Destination of the link on the story's last line
}

// Metadata keys the converter understands besides "issue".
const (
	MetaTitle   = "title"
	MetaSubject = "subject"
	MetaDate    = "date"
)

// Title returns the newsletter title from metadata, or "" if unset.
func (i *Issue) Title() string {
	return strings.TrimSpace(i.Meta[MetaTitle])
}

// Sender identifies the author of the email.
type Sender struct {
	Name  string
	Email string
}

// Validate checks that the sender address is usable in a From header.
// Returns nil if s is nil (nil means no From header).
func (s *Sender) Validate() error {
	if s == nil || s.Email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSender, s.Email, err)
	}
	if strings.ContainsAny(s.Name, "\r\n") {
		return fmt.Errorf("%w: name must be a single line", ErrInvalidSender)
	}
	return nil
}

// Input contains rendering parameters for one issue.
type Input struct {
	Markdown  string  // Issue source (required)
	SourceDir string  // Directory that relative image paths resolve against
	Sender    *Sender // Optional From identity, also exposed to templates
	Subject   string  // Overrides the subject derived from metadata
}

// Result holds a rendered issue.
type Result struct {
	Issue   *Issue
	HTML    string // Styled, CSS-inlined, optionally minified document
	Text    string // Plain-text alternative
	Subject string
}

// EmailResult reports what RenderEmail wrote.
type EmailResult struct {
	*Result
	Images   []InlinedImage // One entry per local <img>, in document order
	Warnings []Warning      // Advisories from image inlining
}

// InlinedImage is a local image moved into the message as a related part.
type InlinedImage struct {
	Data      []byte
	MainType  string // e.g. "image"
	SubType   string // e.g. "png"
	ContentID string // Bare identifier, without angle brackets
	Src       string // Original src attribute value
}

// ContentType returns the MIME type of the image, such as "image/png".
func (img InlinedImage) ContentType() string {
	return img.MainType + "/" + img.SubType
}

// WarningKind classifies a non-fatal advisory.
type WarningKind string

// Advisory kinds reported by InlineImages.
const (
	WarnMissingSrc        WarningKind = "missing-src"
	WarnRemoteImage       WarningKind = "remote-image"
	WarnMissingAlt        WarningKind = "missing-alt"
	WarnMissingDimensions WarningKind = "missing-dimensions"
	WarnNonImageType      WarningKind = "non-image-type"
	WarnContentMismatch   WarningKind = "content-mismatch"
)

// Warning is a non-fatal advisory about one <img> element.
type Warning struct {
	Kind    WarningKind
	Src     string
	Message string
}

func (w Warning) String() string {
	if w.Src == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Src, w.Message)
}
