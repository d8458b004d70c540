package composer

import "strings"

// SplitLines turns a multi-line field into bullet items. Blank lines are
// dropped, surrounding whitespace trimmed and order kept.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SplitTags turns a comma-separated field into trimmed, non-empty tags.
func SplitTags(s string) []string {
	out := []string{}
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
