package wikitext

import (
	"strings"
)

// translationTemplates name the templates whose second positional argument
// is the translated word: {{t|eo|hundo}}, {{trad+|io|hundo}}, ...
var translationTemplates = map[string]bool{
	"t": true, "t+": true, "tt": true, "tt+": true,
	"l": true, "m": true, "tr": true,
	"trad": true, "trad+": true, "trad-": true,
	"T": true,
}

// skippedTemplates are dropped together with their arguments: they flag
// unverified or missing translations rather than supplying one.
var skippedTemplates = map[string]bool{
	"t-check": true, "t-needed": true, "trreq": true,
}

// annotationTemplates carry qualifiers or labels, never lexical content.
// StripAnnotations removes them before translation extraction.
var annotationTemplates = map[string]bool{
	"qualifier": true, "q": true, "qual": true,
	"sense": true, "lb": true, "lbl": true, "label": true,
	"g": true, "gloss": true,
}

// splitTemplate breaks a template body into name and positional arguments,
// discarding named parameters (key=value pairs).
func splitTemplate(body string) (string, []string) {
	parts := strings.Split(body, "|")
	name := strings.TrimSpace(parts[0])

	var args []string
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.Contains(p, "=") {
			continue
		}
		args = append(args, p)
	}
	return name, args
}

// expandTemplate resolves one non-nested {{...}} occurrence to its textual
// replacement. Dispatch is a closed table; unknown templates fall through
// to the positional-argument defaults.
func expandTemplate(match string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")
	name, args := splitTemplate(body)

	switch {
	case skippedTemplates[name]:
		return ""
	case translationTemplates[name]:
		if len(args) >= 2 {
			return args[1]
		}
		if len(args) == 1 {
			return args[0]
		}
		return ""
	case len(args) == 0:
		// Bare language-code templates like {{io}} and any other
		// zero-argument template are removed.
		return ""
	case len(args) == 1:
		return args[0]
	default:
		return args[len(args)-1]
	}
}

// StripAnnotations removes qualifier/label templates and bare gender or
// number markers from a translation line before extraction.
func StripAnnotations(s string) string {
	for templateRe.MatchString(s) {
		prev := s
		s = templateRe.ReplaceAllStringFunc(s, func(match string) string {
			body := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")
			name, _ := splitTemplate(body)
			if annotationTemplates[name] || name == "f" || name == "n" {
				return ""
			}
			return match
		})
		if s == prev {
			break
		}
	}
	return genderSymbolRe.ReplaceAllString(s, "")
}

// TemplateWord holds one word extracted from a translation template
// together with the language code of its first argument.
type TemplateWord struct {
	Lang string
	Word string
}

// ExtractTemplateWords scans s for translation templates and returns the
// (language, word) pairs they carry. Check/needed templates are skipped.
// Language-code matching is the caller's concern.
func ExtractTemplateWords(s string) []TemplateWord {
	var out []TemplateWord
	for _, m := range templateRe.FindAllStringSubmatch(s, -1) {
		name, args := splitTemplate(m[1])
		if skippedTemplates[name] || !translationTemplates[name] {
			continue
		}
		if len(args) < 2 {
			continue
		}
		out = append(out, TemplateWord{
			Lang: strings.ToLower(args[0]),
			Word: args[1],
		})
	}
	return out
}
