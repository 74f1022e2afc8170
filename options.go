package md2mail

import (
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings applied by options.
type converterConfig struct {
	styleInput  string // style name, CSS file path, or CSS content
	noStyle     bool
	templateSet string
	assetPath   string
	minify      bool
	domain      string
	dateFormat  string
	now         func() time.Time
}

// WithStyle sets the stylesheet injected before CSS inlining. The value may
// be a built-in or custom style name ("plain"), a path to a CSS file
// ("./brand.css"), or CSS content ("p { color: #333 }").
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
		c.cfg.noStyle = false
	}
}

// WithoutStyle disables stylesheet injection. Styles written inline in the
// template are still applied.
func WithoutStyle() Option {
	return func(c *Converter) {
		c.cfg.noStyle = true
	}
}

// WithTemplateSet selects the template set by name.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSet = name
	}
}

// WithAssetPath adds a directory of custom styles and template sets, used
// before the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithMinify turns HTML minification on or off (default on).
func WithMinify(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.minify = enabled
	}
}

// WithDomain sets the domain used in generated Content-IDs and Message-IDs.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.cfg.domain = domain
	}
}

// WithDateFormat sets the format used for "auto" and ISO dates in the
// "date" metadata key. See the dateutil presets and tokens.
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithNow replaces the clock used for the Date header and "auto" dates.
// Panics if now is nil (programmer error).
func WithNow(now func() time.Time) Option {
	if now == nil {
		panic("md2mail: WithNow clock must not be nil")
	}
	return func(c *Converter) {
		c.cfg.now = now
	}
}
