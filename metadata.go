package md2mail

import (
	"fmt"
	"regexp"
	"strings"
)

// metaLine matches "key: value". The value is everything after the first
// colon, so it may itself contain colons or '#'.
var metaLine = regexp.MustCompile(`^ {0,3}([A-Za-z0-9_-]+):(.*)$`)

// metaContinuation matches a line indented by a tab or four spaces, which
// continues the previous value.
var metaContinuation = regexp.MustCompile(`^(?: {4}|\t)(.*)$`)

// parseMetaBlock reads "key: value" lines into a map with lower-cased keys.
// Continuation lines append to the previous value, separated by "\n".
// When a key repeats (case-insensitively) the first occurrence wins.
func parseMetaBlock(block string) (map[string]string, error) {
	meta := make(map[string]string)
	current := ""
	skip := false

	for i, line := range strings.Split(block, "\n") {
		if m := metaLine.FindStringSubmatch(line); m != nil {
			key := strings.ToLower(m[1])
			if _, dup := meta[key]; dup {
				current, skip = key, true
				continue
			}
			meta[key] = strings.TrimSpace(m[2])
			current, skip = key, false
			continue
		}

		m := metaContinuation.FindStringSubmatch(line)
		if m == nil || current == "" {
			return nil, fmt.Errorf("%w: line %d: expected \"key: value\", got %q", ErrInvalidMetadata, i+1, line)
		}
		if skip {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			if meta[current] == "" {
				meta[current] = v
			} else {
				meta[current] += "\n" + v
			}
		}
	}
	return meta, nil
}
