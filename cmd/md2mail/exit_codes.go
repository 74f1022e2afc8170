package main

import (
	"errors"
	"os"

	md2mail "github.com/alnah/go-md2mail"
	"github.com/alnah/go-md2mail/internal/assets"
	"github.com/alnah/go-md2mail/internal/config"
	"github.com/alnah/go-md2mail/internal/dateutil"
	"github.com/alnah/go-md2mail/internal/fileutil"
	"github.com/alnah/go-md2mail/internal/hints"
)

// Exit codes for the md2mail CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful render
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or options
	ExitIO       = 3 // File not found, permission denied, write failure
	ExitDocument = 4 // Issue does not parse or an image cannot be inlined
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is and errors.As, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Document errors (exit 4)
	var parseErr *md2mail.ParseError
	var imageErr *md2mail.ImageError
	if errors.As(err, &parseErr) ||
		errors.As(err, &imageErr) ||
		errors.Is(err, md2mail.ErrEmptyMarkdown) {
		return ExitDocument
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadIssue) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrEmptyPath) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, md2mail.ErrStyleNotFound) ||
		errors.Is(err, md2mail.ErrInvalidAssetPath) ||
		errors.Is(err, md2mail.ErrInvalidSender) ||
		errors.Is(err, md2mail.ErrInvalidSubject) ||
		errors.Is(err, md2mail.ErrInvalidDomain) ||
		errors.Is(err, md2mail.ErrTemplateParse) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, assets.ErrInvalidAssetName) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint to print after err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	var parseErr *md2mail.ParseError
	var imageErr *md2mail.ImageError

	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.SearchedPaths)
	case errors.Is(err, md2mail.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	case errors.As(err, &parseErr):
		if errors.Is(err, md2mail.ErrMissingLink) {
			return hints.ForMissingLink(parseErr.Story)
		}
		return hints.ForIssueLayout()
	case errors.As(err, &imageErr) && errors.Is(err, md2mail.ErrNoExtension):
		return hints.ForImageExtension(imageErr.Src)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
