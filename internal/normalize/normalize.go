package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD and drops combining marks, so that
// "preferés" and "preferes" fold to the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string, sep rune) string {
	lowered := strings.ToLower(s)
	if stripped, _, err := transform.String(stripAccents, lowered); err == nil {
		lowered = stripped
	}

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSep := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// Key folds a CSV header to its canonical column name: lowercase, accents
// stripped, any run of non-alphanumerics collapsed to a single underscore,
// leading/trailing separators trimmed.
func Key(s string) string {
	return fold(s, '_')
}

// NameKey folds a club name for matching: same as Key but with a single
// space as separator.
func NameKey(s string) string {
	return fold(s, ' ')
}

// DisplayName turns a raw club name (underscores or spaces, any casing)
// into Title Case for persistence.
func DisplayName(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Map(func(r rune) rune {
		if r == '_' {
			return ' '
		}
		return r
	}, cleaned)
	words := strings.Fields(strings.ToLower(cleaned))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
