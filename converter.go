package md2mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/alnah/go-md2mail/internal/assets"
	"github.com/alnah/go-md2mail/internal/dateutil"
	"github.com/alnah/go-md2mail/internal/fileutil"
	"github.com/alnah/go-md2mail/internal/pipeline"
)

// defaultTitle names the newsletter when metadata has no "title".
const defaultTitle = "Newsletter"

// Converter renders issues to HTML and MIME email.
// Create with NewConverter. A Converter holds no per-issue state and can be
// reused for any number of sequential renders.
type Converter struct {
	cfg         converterConfig
	assetLoader assets.AssetLoader
	style       string
	templates   *assets.TemplateSet

	markdown  *pipeline.GoldmarkConverter
	sanitizer pipeline.HTMLSanitizer
	injector  pipeline.CSSInjector
	inliner   pipeline.CSSInliner
	minifier  pipeline.HTMLMinifier
	text      pipeline.PlainTextRenderer
}

// NewConverter creates a Converter with the default style and template set.
// Use options to customize behavior (e.g., WithStyle, WithTemplateSet, WithAssetPath).
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			templateSet: assets.DefaultTemplateSetName,
			minify:      true,
			domain:      DefaultContentIDDomain,
			now:         time.Now,
		},
		markdown:  pipeline.NewGoldmarkConverter(),
		sanitizer: pipeline.NewNewsletterSanitizer(),
		injector:  &pipeline.CSSInjection{},
		inliner:   &pipeline.PremailerInliner{},
		minifier:  pipeline.NewEmailMinifier(),
		text:      &pipeline.HTML2TextRenderer{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.domain == "" {
		c.cfg.domain = DefaultContentIDDomain
	}
	if _, err := contentIDDomain(c.cfg.domain); err != nil {
		return nil, err
	}
	if c.cfg.dateFormat != "" {
		if _, err := dateutil.Layout(c.cfg.dateFormat); err != nil {
			return nil, err
		}
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assetLoader = resolver

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.cfg.templateSet == "" {
		c.cfg.templateSet = assets.DefaultTemplateSetName
	}
	c.templates, err = c.assetLoader.LoadTemplateSet(c.cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", c.cfg.templateSet, err)
	}
	// Parse once up front so broken templates fail here, not mid-render.
	if _, err := c.parseHTMLTemplate(context.Background()); err != nil {
		return nil, err
	}
	if _, err := c.parseTextTemplate(context.Background()); err != nil {
		return nil, err
	}

	return c, nil
}

// RenderHTML parses the issue and renders it to a styled HTML document with
// CSS moved into style attributes, plus the plain-text alternative.
// Images keep their original src, which suits a browser preview.
func (c *Converter) RenderHTML(ctx context.Context, input Input) (*Result, error) {
	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	issue, err := ParseIssue(input.Markdown)
	if err != nil {
		return nil, err
	}

	data, err := c.templateData(issue, input)
	if err != nil {
		return nil, err
	}

	htmlDoc, err := c.renderHTMLTemplate(ctx, data)
	if err != nil {
		return nil, err
	}

	htmlDoc = c.injector.InjectCSS(ctx, htmlDoc, c.style)
	htmlDoc, err = c.inliner.InlineCSS(ctx, htmlDoc)
	if err != nil {
		return nil, err
	}

	if c.cfg.minify {
		htmlDoc, err = c.minifier.Minify(htmlDoc)
		if err != nil {
			return nil, err
		}
	}

	text, err := c.renderTextTemplate(ctx, data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Issue:   issue,
		HTML:    htmlDoc,
		Text:    text,
		Subject: data.Subject,
	}, nil
}

// RenderEmail renders the issue, inlines its local images as related parts,
// and writes a complete MIME message to w. Nothing is written to w when any
// step fails.
func (c *Converter) RenderEmail(ctx context.Context, input Input, w io.Writer) (*EmailResult, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	res, err := c.RenderHTML(ctx, input)
	if err != nil {
		return nil, err
	}

	inlined, err := InlineImages(res.HTML, ImageOptions{BaseDir: input.SourceDir, Domain: c.cfg.domain})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg := buildMessage(envelope{
		Sender:  input.Sender,
		Subject: res.Subject,
		Date:    c.cfg.now(),
		Domain:  c.cfg.domain,
	}, res.Text, inlined.HTML, inlined.Images)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMessageBuild, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("writing message: %w", err)
	}

	res.HTML = inlined.HTML
	return &EmailResult{
		Result:   res,
		Images:   inlined.Images,
		Warnings: inlined.Warnings,
	}, nil
}

// Check parses the issue and dry-runs image inlining against the rendered
// HTML without building a message.
func (c *Converter) Check(ctx context.Context, input Input) (*EmailResult, error) {
	res, err := c.RenderHTML(ctx, input)
	if err != nil {
		return nil, err
	}
	inlined, err := InlineImages(res.HTML, ImageOptions{BaseDir: input.SourceDir, Domain: c.cfg.domain})
	if err != nil {
		return nil, err
	}
	return &EmailResult{Result: res, Images: inlined.Images, Warnings: inlined.Warnings}, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	if c.cfg.noStyle {
		return nil
	}

	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.style = string(content)
		return nil
	}

	if strings.Contains(input, "{") {
		c.style = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.style = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is the trust boundary for library users who build Input manually.
// CLI users have config values validated earlier by Config.Validate.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Sender.Validate(); err != nil {
		return err
	}
	if strings.ContainsAny(input.Subject, "\r\n") {
		return ErrInvalidSubject
	}
	return nil
}

// templateData is what email.html and email.txt are executed with.
type templateData struct {
	Subject     string
	Title       string
	Number      int
	Date        string
	Preamble    string
	Stories     []Story
	SenderName  string
	SenderEmail string
	Meta        map[string]string
}

func (c *Converter) templateData(issue *Issue, input Input) (*templateData, error) {
	title := issue.Title()
	if title == "" {
		title = defaultTitle
	}

	date, err := dateutil.Resolve(strings.TrimSpace(issue.Meta[MetaDate]), c.cfg.dateFormat, c.cfg.now())
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%w: date: %v", ErrInvalidMetadata, err)}
	}

	data := &templateData{
		Subject:  subjectFor(issue, input.Subject, title),
		Title:    title,
		Number:   issue.Number,
		Date:     date,
		Preamble: issue.Preamble,
		Stories:  issue.Stories,
		Meta:     issue.Meta,
	}
	if input.Sender != nil {
		data.SenderName = input.Sender.Name
		data.SenderEmail = input.Sender.Email
	}
	return data, nil
}

// subjectFor picks the explicit subject, then the "subject" metadata key,
// then "<title> #<number>".
func subjectFor(issue *Issue, override, title string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	// Metadata values may span lines; headers may not.
	if s := strings.Join(strings.Fields(issue.Meta[MetaSubject]), " "); s != "" {
		return s
	}
	return title + " #" + strconv.Itoa(issue.Number)
}

// renderMarkdown is the "markdown" template filter: Markdown to sanitized HTML.
func (c *Converter) renderMarkdown(ctx context.Context, md string) (string, error) {
	out, err := c.markdown.ToHTML(ctx, md)
	if err != nil {
		return "", err
	}
	return c.sanitizer.Sanitize(out), nil
}

// funcs returns the template filters bound to ctx.
func (c *Converter) funcs(ctx context.Context) map[string]any {
	return map[string]any{
		"markdown": func(md string) (htmltemplate.HTML, error) {
			out, err := c.renderMarkdown(ctx, md)
			return htmltemplate.HTML(out), err // #nosec G203 -- sanitized above
		},
		"markdownInline": func(md string) (htmltemplate.HTML, error) {
			out, err := c.markdown.ToInlineHTML(ctx, md)
			if err != nil {
				return "", err
			}
			return htmltemplate.HTML(c.sanitizer.Sanitize(out)), nil // #nosec G203 -- sanitized
		},
		"sanitize": func(s string) htmltemplate.HTML {
			return htmltemplate.HTML(c.sanitizer.Sanitize(s)) // #nosec G203 -- sanitized
		},
		"plaintext": func(md string) (string, error) {
			out, err := c.renderMarkdown(ctx, md)
			if err != nil {
				return "", err
			}
			return c.text.ToText(out)
		},
	}
}

func (c *Converter) parseHTMLTemplate(ctx context.Context) (*htmltemplate.Template, error) {
	t, err := htmltemplate.New(assets.HTMLTemplateFile).Funcs(c.funcs(ctx)).Parse(c.templates.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrTemplateParse, c.templates.Name, assets.HTMLTemplateFile, err)
	}
	return t, nil
}

func (c *Converter) parseTextTemplate(ctx context.Context) (*texttemplate.Template, error) {
	t, err := texttemplate.New(assets.TextTemplateFile).Funcs(c.funcs(ctx)).Parse(c.templates.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrTemplateParse, c.templates.Name, assets.TextTemplateFile, err)
	}
	return t, nil
}

func (c *Converter) renderHTMLTemplate(ctx context.Context, data *templateData) (string, error) {
	t, err := c.parseHTMLTemplate(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", wrapRenderErr(ctx, err)
	}
	return buf.String(), nil
}

func (c *Converter) renderTextTemplate(ctx context.Context, data *templateData) (string, error) {
	t, err := c.parseTextTemplate(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", wrapRenderErr(ctx, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// wrapRenderErr reports cancellation as such rather than as a template failure.
func wrapRenderErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrTemplateRender, err)
}
