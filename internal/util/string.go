package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CollapseWhitespace joins the whitespace-separated fields of s with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName builds the comparison key for wrestler names: diacritics are
// decomposed and dropped along with any rune that has no ASCII form, whitespace
// runs collapse to one space, and the result is trimmed and lower-cased.
//
// "  José   Mañana " -> "jose manana"
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII)))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = stripNonASCII(norm.NFKD.String(name))
	}
	return strings.ToLower(CollapseWhitespace(ascii))
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

func stripNonASCII(s string) string {
	var builder strings.Builder
	for _, r := range s {
		if !isNonASCII(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
