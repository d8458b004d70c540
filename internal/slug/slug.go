// Package slug derives URL-safe identifiers for public portfolio addresses.
package slug

import (
	"strconv"
	"strings"
)

// Suffix namespaces every generated slug.
const Suffix = "-ai"

const fallback = "untitled"

// Generate lower-cases title, collapses each run of characters outside
// [a-z0-9] into a single hyphen, trims hyphens at both ends and appends
// Suffix. Uniqueness is the store's concern.
func Generate(title string) string {
	return base(title) + Suffix
}

// WithOrdinal is Generate with a numeric discriminator before the suffix,
// used when the plain slug is already taken. n <= 1 yields Generate(title).
func WithOrdinal(title string, n int) string {
	if n <= 1 {
		return Generate(title)
	}
	return base(title) + "-" + strconv.Itoa(n) + Suffix
}

func base(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
