package md2mail

import (
	"errors"
	"fmt"
)

// Sentinel errors for issue parsing. Every parse failure is a *ParseError
// that unwraps to one of these.
var (
	ErrNoMetadata         = errors.New("missing metadata block (no blank line after it)")
	ErrMissingIssueNumber = errors.New(`metadata has no "issue" key`)
	ErrInvalidIssueNumber = errors.New("issue number must be a positive integer")
	ErrInvalidMetadata    = errors.New("invalid metadata block")
	ErrEmptyPreamble      = errors.New("preamble is empty")
	ErrTooFewSections     = errors.New("issue needs a preamble and at least one story")
	ErrEmptyStoryTitle    = errors.New("story heading is empty")
	ErrMissingLink        = errors.New("story does not end with a link")
	ErrEmptyStoryBody     = errors.New("story has no body text")
)

// Sentinel errors for image inlining.
var (
	ErrNoExtension = errors.New("cannot infer image type: no known file extension")
	ErrReadImage   = errors.New("cannot read image")
)

// Sentinel errors for rendering and message assembly.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrTemplateParse    = errors.New("template parsing failed")
	ErrTemplateRender   = errors.New("template rendering failed")
	ErrMessageBuild     = errors.New("building email message failed")
	ErrInvalidSender    = errors.New("invalid sender address")
	ErrInvalidSubject   = errors.New("subject must be a single line")
	ErrInvalidDomain    = errors.New("invalid content-ID domain")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrNilWriter        = errors.New("output writer cannot be nil")
)

// ParseError reports a structural defect in an issue document.
// Story names the offending story heading when there is one.
type ParseError struct {
	Story string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Story != "" {
		return fmt.Sprintf("parsing issue: story %q: %v", e.Story, e.Err)
	}
	return fmt.Sprintf("parsing issue: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImageError reports a fatal problem with one <img> reference.
type ImageError struct {
	Src string
	Err error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %q: %v", e.Src, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

func parseErr(story string, err error) error {
	return &ParseError{Story: story, Err: err}
}
