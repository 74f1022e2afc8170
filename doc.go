// Package md2mail turns a Markdown newsletter issue into an HTML preview and
// a multipart MIME email.
//
// # Quick Start
//
//	conv, err := md2mail.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.RenderEmail(ctx, md2mail.Input{
//	    Markdown:  source,
//	    SourceDir: "issues/7",
//	    Sender:    &md2mail.Sender{Name: "Frontiers", Email: "news@example.com"},
//	}, os.Stdout)
//
// RenderHTML returns the styled document for a browser preview without
// touching images.
//
// # Issue Format
//
// An issue starts with a metadata block of "key: value" lines ending at the
// first blank line. "issue" (a positive integer) is required; "title",
// "subject", and "date" are used when present.
//
//	issue: 7
//	title: Frontiers Fortnightly
//	date: auto
//
//	Frontiers Fortnightly will be taking a break until next semester.
//
//	# Security Tip
//	Don't leave your cards in your pocket in a crowded place.
//	[Learn more](http://example.com/something)
//
// Text before the first top-level "# Heading" is the preamble. Each heading
// starts a story whose last line must hold a link.
//
// # Rendering Pipeline
//
//  1. ParseIssue splits the source into preamble and stories
//  2. The template set's email.html and email.txt are executed; the
//     "markdown", "markdownInline", and "plaintext" filters render story text
//     through Goldmark and a sanitizer
//  3. The style is injected and inlined into style attributes
//  4. The document is minified
//  5. For email, InlineImages replaces local images with Content-ID
//     references and the message is assembled with text and HTML
//     alternatives and related image parts
//
// # Custom Assets
//
// Override built-in styles and templates with WithAssetPath:
//
//	assets/
//	├── styles/
//	│   └── brand.css
//	└── templates/
//	    └── brand/
//	        ├── email.html
//	        └── email.txt
package md2mail
