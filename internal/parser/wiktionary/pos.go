package wiktionary

import (
	"regexp"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// posMap maps lowercase POS section headers from the Ido, Esperanto,
// English and French Wiktionaries to the domain enum.
var posMap = map[string]domain.PartOfSpeech{
	// Ido / Esperanto headers
	"substantivo":   domain.PartOfSpeechNoun,
	"verbo":         domain.PartOfSpeechVerb,
	"adjektivo":     domain.PartOfSpeechAdjective,
	"adverbo":       domain.PartOfSpeechAdverb,
	"propra nomo":   domain.PartOfSpeechProperNoun,
	"nomo propra":   domain.PartOfSpeechProperNoun,
	"pronomo":       domain.PartOfSpeechPronoun,
	"prepoziciono":  domain.PartOfSpeechPreposition,
	"prepozicio":    domain.PartOfSpeechPreposition,
	"konjunciono":   domain.PartOfSpeechConjunction,
	"konjunkcio":    domain.PartOfSpeechConjunction,
	"interjeciono":  domain.PartOfSpeechInterjection,
	"interjekcio":   domain.PartOfSpeechInterjection,
	"numeralo":      domain.PartOfSpeechNumeral,

	// English headers
	"noun":         domain.PartOfSpeechNoun,
	"verb":         domain.PartOfSpeechVerb,
	"adjective":    domain.PartOfSpeechAdjective,
	"adverb":       domain.PartOfSpeechAdverb,
	"proper noun":  domain.PartOfSpeechProperNoun,
	"pronoun":      domain.PartOfSpeechPronoun,
	"preposition":  domain.PartOfSpeechPreposition,
	"conjunction":  domain.PartOfSpeechConjunction,
	"determiner":   domain.PartOfSpeechDeterminer,
	"interjection": domain.PartOfSpeechInterjection,
	"numeral":      domain.PartOfSpeechNumeral,
	"number":       domain.PartOfSpeechNumeral,

	// French headers and {{S|...}} codes
	"nom":         domain.PartOfSpeechNoun,
	"nom commun":  domain.PartOfSpeechNoun,
	"nom propre":  domain.PartOfSpeechProperNoun,
	"verbe":       domain.PartOfSpeechVerb,
	"adjectif":    domain.PartOfSpeechAdjective,
	"adverbe":     domain.PartOfSpeechAdverb,
	"pronom":      domain.PartOfSpeechPronoun,
	"préposition": domain.PartOfSpeechPreposition,
	"conjonction": domain.PartOfSpeechConjunction,
	"adj":         domain.PartOfSpeechAdjective,
	"adv":         domain.PartOfSpeechAdverb,
}

// sTemplateRe captures the POS code of French section templates like
// === {{S|nom|io}} ===.
var sTemplateRe = regexp.MustCompile(`\{\{S\|([^|}]+)`)

// MapPOS converts a POS section header to the domain enum. Headers may be
// plain words ("Substantivo", "Noun") or section templates ({{S|nom|io}}).
// Unknown headers map to PartOfSpeechUnknown so the morphology inferencer
// can decide later.
func MapPOS(header string) domain.PartOfSpeech {
	h := strings.TrimSpace(header)

	if m := sTemplateRe.FindStringSubmatch(h); m != nil {
		h = m[1]
	}
	h = strings.ToLower(strings.TrimSpace(h))

	if pos, ok := posMap[h]; ok {
		return pos
	}
	return domain.PartOfSpeechUnknown
}
