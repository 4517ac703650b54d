// Package fold normalizes free-text place names (zones, UV/MZ codes, property types)
// so that "Equipetról Norte" and "equipetrol  norte" compare equal.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String lowercases s, strips diacritics and collapses whitespace.
func String(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// transform.Chain and cases.Caser keep internal state, so build them per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}

// Contains reports whether a contains b or b contains a after folding.
// Empty inputs never match.
func Contains(a, b string) bool {
	fa, fb := String(a), String(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// Keywords splits a folded name into words of at least minLen runes.
func Keywords(s string, minLen int) []string {
	var out []string
	for _, w := range strings.FieldsFunc(String(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// SharesKeyword reports whether a and b have at least one keyword in common.
func SharesKeyword(a, b string, minLen int) bool {
	kb := Keywords(b, minLen)
	if len(kb) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(kb))
	for _, w := range kb {
		set[w] = struct{}{}
	}
	for _, w := range Keywords(a, minLen) {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
