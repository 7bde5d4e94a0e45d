package domain

import "strings"

// NormalizeGloss prepares a gloss for sense-signature comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeGloss(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CanonicalTerm canonicalizes a translation term per target-language rules:
// Ido and Esperanto terms are lowercased unless properNoun is set, in which
// case the title-cased form is kept.
func CanonicalTerm(term string, properNoun bool) string {
	if properNoun {
		return term
	}
	return strings.ToLower(term)
}
