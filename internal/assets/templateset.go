package assets

// TemplateSet holds the two templates that render one issue.
type TemplateSet struct {
	Name string // Identifier (name or directory path)
	HTML string // html/template source for the HTML part and the preview
	Text string // text/template source for the plain-text part
}

// File names inside a template set directory.
const (
	HTMLTemplateFile = "email.html"
	TextTemplateFile = "email.txt"
)

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
