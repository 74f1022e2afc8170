// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2mail/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2mail") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForIssueLayout reminds the author of the expected document shape.
func ForIssueLayout() string {
	return format(`start with "issue: N", a blank line, a preamble, then "# Title" sections ending with a [link](url) line`)
}

// ForMissingLink explains what the last line of a story must look like.
func ForMissingLink(story string) string {
	if story == "" {
		return format("end each story with a line such as [Learn more](https://example.com)")
	}
	return format("end story " + quote(story) + " with a line such as [Learn more](https://example.com)")
}

// ForImageExtension returns hints for images whose type cannot be inferred.
func ForImageExtension(src string) string {
	return format("rename " + quote(src) + " with an extension such as .png, .jpg or .gif")
}

func quote(s string) string {
	return `"` + s + `"`
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
