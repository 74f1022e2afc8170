package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanng822/go-premailer/premailer"
)

// ErrCSSInline indicates CSS could not be moved into style attributes.
var ErrCSSInline = errors.New("CSS inlining failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// CSSInliner abstracts moving <style> rules into style attributes.
type CSSInliner interface {
	InlineCSS(ctx context.Context, htmlContent string) (string, error)
}

// PremailerInliner inlines CSS with go-premailer.
type PremailerInliner struct {
	// KeepClasses leaves class attributes in place after inlining.
	KeepClasses bool
}

// InlineCSS applies every <style> rule to matching elements as inline
// style attributes, the way email clients expect it.
func (p *PremailerInliner) InlineCSS(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	opts := premailer.NewOptions()
	opts.RemoveClasses = !p.KeepClasses
	opts.CssToAttributes = true

	prem, err := premailer.NewPremailerFromString(htmlContent, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSSInline, err)
	}
	out, err := prem.Transform()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCSSInline, err)
	}
	return out, nil
}

// Compile-time interface checks.
var (
	_ CSSInjector = (*CSSInjection)(nil)
	_ CSSInliner  = (*PremailerInliner)(nil)
)
