// Package dateutil resolves the date shown on an issue.
//
// Dates come from the issue metadata ("date: 2024-05-01"), from the config
// file, or from the CLI. The special value "auto" stands for the day the
// issue is rendered, optionally with a format: "auto:long", "auto:DD/MM/YYYY".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// isoLayout is the layout accepted for literal dates that can be reformatted.
const isoLayout = "2006-01-02"

// tokens maps format tokens to Go layout fragments, longest first.
var tokens = [...]struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts for common formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Layout converts a token format ("MMMM D, YYYY") or preset name into a Go
// time layout. Text inside brackets is kept literally: "[Issue of] MMMM".
func Layout(format string) (string, error) {
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		rest = writeToken(&b, rest)
	}
	return b.String(), nil
}

// writeToken writes the layout for the token at the start of s (or the first
// byte verbatim) and returns the unconsumed remainder.
func writeToken(b *strings.Builder, s string) string {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return s[len(t.token):]
		}
	}
	b.WriteByte(s[0])
	return s[1:]
}

// Resolve turns a date value into display text.
//
//   - "" stays empty
//   - "auto" and "auto:FORMAT" render now
//   - an ISO date (YYYY-MM-DD) is rendered with format when format is set
//   - anything else is returned unchanged
func Resolve(value, format string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	lower := strings.ToLower(value)
	switch {
	case lower == "auto":
		if format == "" {
			format = DefaultDateFormat
		}
		return formatTime(now, format)
	case strings.HasPrefix(lower, "auto:"):
		custom := value[len("auto:"):]
		if custom == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		return formatTime(now, custom)
	case strings.HasPrefix(lower, "auto"):
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	if format == "" {
		return value, nil
	}
	t, err := time.Parse(isoLayout, value)
	if err != nil {
		return value, nil
	}
	return formatTime(t, format)
}

func formatTime(t time.Time, format string) (string, error) {
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
