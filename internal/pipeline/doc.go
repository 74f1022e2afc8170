// Package pipeline implements the HTML stages of issue rendering.
//
// The stages are independent and composed by the root md2mail package:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML fragments via Goldmark, with inline-styled code blocks
//   - HTML sanitizing of rendered fragments (bluemonday)
//   - Style injection and CSS inlining into style attributes (go-premailer)
//   - HTML minification (tdewolff/minify)
//   - Plain-text rendering for the text/plain alternative (html2text)
//   - HTML tree parsing and rendering helpers shared with the image inliner
package pipeline
