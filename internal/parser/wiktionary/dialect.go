package wiktionary

import (
	"regexp"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/wikitext"
)

// Style selects how a Wiktionary dialect marks translations. The set is
// closed: the Ido and Esperanto Wiktionaries list translations inline,
// the English and French ones wrap them in translation-table templates.
type Style int

const (
	StyleInline Style = iota
	StyleTemplate
)

// StyleFor returns the dialect style of a dump language.
func StyleFor(sourceLang string) Style {
	switch sourceLang {
	case "en", "fr":
		return StyleTemplate
	default:
		return StyleInline
	}
}

// langCodes lists the template language codes accepted for each target.
var langCodes = map[domain.Language][]string{
	domain.LanguageIdo:       {"io", "ido"},
	domain.LanguageEsperanto: {"eo", "epo"},
}

// langNames lists the spelled-out names used by inline-style lines like
// `* Esperanto: hundo`.
var langNames = map[domain.Language][]string{
	domain.LanguageIdo:       {"Ido"},
	domain.LanguageEsperanto: {"Esperanto"},
}

var inlineLineRes = map[domain.Language]*regexp.Regexp{}

func init() {
	for lang, codes := range langCodes {
		alts := make([]string, 0, len(codes)+len(langNames[lang]))
		for _, c := range codes {
			alts = append(alts, `\{\{`+c+`\}\}`)
		}
		alts = append(alts, langNames[lang]...)
		// The capture deliberately runs to end-of-line: stopping at the
		// first `|` would truncate every template-style term on the line.
		inlineLineRes[lang] = regexp.MustCompile(
			`(?m)^[*#:]+\s*(?:` + strings.Join(alts, "|") + `)\s*:\s*(.+)$`)
	}
}

var (
	transTopRe  = regexp.MustCompile(`\{\{trans-top(?:\|([^}]*))?\}\}`)
	transBotRe  = regexp.MustCompile(`\{\{trans-bottom\}\}`)
	tradDebutRe = regexp.MustCompile(`\{\{trad-début(?:\|([^}]*))?\}\}`)
	tradFinRe   = regexp.MustCompile(`\{\{trad-fin\}\}`)
)

// isTargetCode reports whether a template language code addresses lang.
func isTargetCode(code string, lang domain.Language) bool {
	for _, c := range langCodes[lang] {
		if code == c {
			return true
		}
	}
	return false
}

// InlineTranslations extracts target-language terms from inline-style
// lines within one sense body. Lines are captured whole, annotations are
// stripped, and only then are templates resolved or the line split on
// separators.
func InlineTranslations(body string, target domain.Language) []string {
	var terms []string
	for _, m := range inlineLineRes[target].FindAllStringSubmatch(body, -1) {
		content := wikitext.StripAnnotations(m[1])

		if words := wikitext.ExtractTemplateWords(content); len(words) > 0 {
			for _, w := range words {
				if isTargetCode(w.Lang, target) {
					terms = append(terms, w.Word)
				}
			}
			continue
		}

		for _, part := range strings.FieldsFunc(content, func(r rune) bool {
			return r == ',' || r == ';'
		}) {
			terms = append(terms, part)
		}
	}
	return wikitext.CleanAll(terms)
}

// TransBlock is one translation table of a template-style page: an optional
// meaning label plus the listed terms per target language.
type TransBlock struct {
	Gloss string
	Terms map[domain.Language][]string
}

// TransBlocks extracts the translation tables of a template-style section:
// {{trans-top|…}}…{{trans-bottom}} for English, {{trad-début|…}}…{{trad-fin}}
// for French. Terms are cleaned; blocks that keep no io/eo terms are
// dropped.
func TransBlocks(section string, style Style) []TransBlock {
	openRe, closeRe := transTopRe, transBotRe
	if style == StyleTemplate && strings.Contains(section, "{{trad-") {
		openRe, closeRe = tradDebutRe, tradFinRe
	}

	var blocks []TransBlock
	rest := section
	for {
		open := openRe.FindStringSubmatchIndex(rest)
		if open == nil {
			break
		}
		gloss := ""
		if open[2] >= 0 {
			gloss = wikitext.Clean(rest[open[2]:open[3]])
		}

		body := rest[open[1]:]
		if cl := closeRe.FindStringIndex(body); cl != nil {
			rest = body[cl[1]:]
			body = body[:cl[0]]
		} else {
			rest = ""
		}

		block := TransBlock{Gloss: gloss, Terms: map[domain.Language][]string{}}
		for _, w := range wikitext.ExtractTemplateWords(wikitext.StripAnnotations(body)) {
			for _, lang := range []domain.Language{domain.LanguageIdo, domain.LanguageEsperanto} {
				if isTargetCode(w.Lang, lang) {
					if cleaned := wikitext.Clean(w.Word); cleaned != "" {
						block.Terms[lang] = append(block.Terms[lang], cleaned)
					}
				}
			}
		}
		if len(block.Terms) > 0 {
			blocks = append(blocks, block)
		}

		if rest == "" {
			break
		}
	}
	return blocks
}
