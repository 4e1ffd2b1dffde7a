package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritical marks ("í" -> "i") so that
// searches are accent- and case-insensitive. Pure function; an empty string
// normalizes to an empty string.
func Normalize(s string) string {
	// The chain is built per call: chained transformers carry internal
	// buffers and must not be shared between goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Contains reports whether the normalized form of s contains the normalized
// form of substr.
func Contains(s, substr string) bool {
	return strings.Contains(Normalize(s), Normalize(substr))
}
