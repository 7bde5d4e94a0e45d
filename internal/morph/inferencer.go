// Package morph assigns a paradigm from the closed ParadigmID set by
// deterministic suffix rules over the lemma, conditioned on part of
// speech. The decision table is closed; new rules are additive.
package morph

import (
	"regexp"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

var numeralRe = regexp.MustCompile(`^[0-9]+([.,][0-9]+)*%?$`)

// closedClassWords maps curated Ido function words to their paradigm and
// part of speech. Single-letter function words never reach the inferencer:
// the validator's length rule drops them upstream.
var closedClassWords = map[string]struct {
	pos      domain.PartOfSpeech
	paradigm domain.ParadigmID
}{
	// Pronouns
	"me": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"tu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"vu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"il": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"el": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ol": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"lu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ni": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"vi": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"li": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"su": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"onu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ilu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"elu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"olu": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ili": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"eli": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"oli": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"quo": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"qua": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"qui": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ico": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ito": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"ulo": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"nulo": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"omno": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},
	"irgo": {domain.PartOfSpeechPronoun, domain.ParadigmPronoun},

	// Prepositions
	"ad": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"an": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"che": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"cirkum": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"da": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"de": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"di": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"dum": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"ek": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"en": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"inter": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"kontre": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"kun": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"lor": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"per": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"por": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"pos": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"pro": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"sen": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"sub": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"sur": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"til": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"tra": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"trans": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"ultre": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"vers": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},
	"ye": {domain.PartOfSpeechPreposition, domain.ParadigmPreposition},

	// Conjunctions
	"ed": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"od": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"ma": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"nam": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"se": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"ke": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"kande": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},
	"quankam": {domain.PartOfSpeechConjunction, domain.ParadigmConjunction},

	// Determiners
	"la": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"le": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"ica": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"ita": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"ula": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"nula": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"omna": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"kelka": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"singla": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},
	"irga": {domain.PartOfSpeechDeterminer, domain.ParadigmDeterminer},

	// Interjections
	"ho": {domain.PartOfSpeechInterjection, domain.ParadigmInterjection},
	"ha": {domain.PartOfSpeechInterjection, domain.ParadigmInterjection},
	"hola": {domain.PartOfSpeechInterjection, domain.ParadigmInterjection},

	// Numerals
	"un": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"du": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"tri": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"quar": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"kin": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"sis": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"sep": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"ok": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"non": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"dek": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"cent": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
	"mil": {domain.PartOfSpeechNumeral, domain.ParadigmNumRegex},
}

// Stats counts inference outcomes.
type Stats struct {
	Inferred    int
	Preassigned int
	Unknown     int
}

// Inferencer fills in missing paradigms.
type Inferencer struct {
	stats Stats
}

// New returns an Inferencer.
func New() *Inferencer { return &Inferencer{} }

// Stats returns counters accumulated so far.
func (inf *Inferencer) Stats() Stats { return inf.stats }

// Infer assigns a paradigm to e when none is set, and resolves an unknown
// part of speech from the same rules. Entries whose shape matches no rule
// keep ParadigmUnknown and are counted, not dropped.
func (inf *Inferencer) Infer(e *domain.Entry) {
	if e.Morphology.Paradigm != "" {
		inf.stats.Preassigned++
		return
	}

	pos, paradigm := classify(e.Lemma, e.POS)
	if e.POS == domain.PartOfSpeechUnknown && pos != domain.PartOfSpeechUnknown {
		e.POS = pos
	}
	e.Morphology.Paradigm = paradigm

	if paradigm == domain.ParadigmUnknown {
		inf.stats.Unknown++
	} else {
		inf.stats.Inferred++
	}
}

// classify is the closed decision table: lemma shape plus part of speech
// in, part of speech plus paradigm out.
func classify(lemma string, pos domain.PartOfSpeech) (domain.PartOfSpeech, domain.ParadigmID) {
	lower := strings.ToLower(lemma)

	if pos == domain.PartOfSpeechProperNoun {
		return pos, domain.ParadigmProperNoun
	}

	if numeralRe.MatchString(lemma) {
		return domain.PartOfSpeechNumeral, domain.ParadigmNumRegex
	}

	if cc, ok := closedClassWords[lower]; ok && compatible(pos, cc.pos) {
		return cc.pos, cc.paradigm
	}

	switch {
	case strings.HasSuffix(lower, "ajo") && nounish(pos):
		return domain.PartOfSpeechNoun, domain.ParadigmNounAjo
	case strings.HasSuffix(lower, "o") && nounish(pos):
		return domain.PartOfSpeechNoun, domain.ParadigmNounO
	case strings.HasSuffix(lower, "ala") && adjectivish(pos):
		return domain.PartOfSpeechAdjective, domain.ParadigmAdjAla
	case strings.HasSuffix(lower, "oza") && adjectivish(pos):
		return domain.PartOfSpeechAdjective, domain.ParadigmAdjOza
	case strings.HasSuffix(lower, "iva") && adjectivish(pos):
		return domain.PartOfSpeechAdjective, domain.ParadigmAdjIva
	case strings.HasSuffix(lower, "a") && adjectivish(pos):
		return domain.PartOfSpeechAdjective, domain.ParadigmAdjA
	case (strings.HasSuffix(lower, "ar") || strings.HasSuffix(lower, "ir") || strings.HasSuffix(lower, "or")) && verbish(pos):
		return domain.PartOfSpeechVerb, domain.ParadigmVerbAr
	case strings.HasSuffix(lower, "e") && adverbish(pos):
		return domain.PartOfSpeechAdverb, domain.ParadigmAdvE
	}

	return pos, domain.ParadigmUnknown
}

// compatible accepts a closed-class hit when the source either agreed on
// the part of speech or did not know it.
func compatible(have, want domain.PartOfSpeech) bool {
	return have == want || have == domain.PartOfSpeechUnknown
}

func nounish(pos domain.PartOfSpeech) bool {
	return pos == domain.PartOfSpeechNoun || pos == domain.PartOfSpeechUnknown
}

func adjectivish(pos domain.PartOfSpeech) bool {
	return pos == domain.PartOfSpeechAdjective || pos == domain.PartOfSpeechUnknown
}

func verbish(pos domain.PartOfSpeech) bool {
	return pos == domain.PartOfSpeechVerb || pos == domain.PartOfSpeechUnknown
}

func adverbish(pos domain.PartOfSpeech) bool {
	return pos == domain.PartOfSpeechAdverb || pos == domain.PartOfSpeechUnknown
}
