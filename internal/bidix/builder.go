// Package bidix expands merged, morphologized entries into the bilingual
// dictionary: one surface entry per distinct Ido→Esperanto translation,
// carrying both paradigms and the attesting sources. It also builds the
// monolingual Ido dictionary from the same input.
package bidix

import (
	"slices"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// SurfaceEntry is one row of the bilingual dictionary.
type SurfaceEntry struct {
	Lemma               string                 `json:"lemma"`
	Paradigm            domain.ParadigmID      `json:"paradigm"`
	POS                 domain.PartOfSpeech    `json:"pos"`
	Translation         string                 `json:"translation"`
	TranslationParadigm domain.ParadigmID      `json:"translation_paradigm"`
	Sources             []domain.ProvenanceTag `json:"sources"`
}

// MonodixEntry is one row of the monolingual Ido dictionary.
type MonodixEntry struct {
	Lemma    string              `json:"lemma"`
	POS      domain.PartOfSpeech `json:"pos"`
	Paradigm domain.ParadigmID   `json:"paradigm"`
}

// eoParadigmByPOS gives the default Esperanto-side paradigm per part of
// speech; Esperanto shares the vowel-final word-class endings.
var eoParadigmByPOS = map[domain.PartOfSpeech]domain.ParadigmID{
	domain.PartOfSpeechNoun:         domain.ParadigmNounO,
	domain.PartOfSpeechVerb:         domain.ParadigmVerbAr,
	domain.PartOfSpeechAdjective:    domain.ParadigmAdjA,
	domain.PartOfSpeechAdverb:       domain.ParadigmAdvE,
	domain.PartOfSpeechProperNoun:   domain.ParadigmProperNoun,
	domain.PartOfSpeechPronoun:      domain.ParadigmPronoun,
	domain.PartOfSpeechPreposition:  domain.ParadigmPreposition,
	domain.PartOfSpeechConjunction:  domain.ParadigmConjunction,
	domain.PartOfSpeechDeterminer:   domain.ParadigmDeterminer,
	domain.PartOfSpeechInterjection: domain.ParadigmInterjection,
	domain.PartOfSpeechNumeral:      domain.ParadigmNumRegex,
}

// DefaultEOParadigm returns the Esperanto paradigm used for translations
// of the given part of speech.
func DefaultEOParadigm(pos domain.PartOfSpeech) domain.ParadigmID {
	if p, ok := eoParadigmByPOS[pos]; ok {
		return p
	}
	return domain.ParadigmUnknown
}

// Build expands IO-headed entries into surface entries. Each distinct
// Esperanto term of an entry yields one surface row; a term attested by
// several senses appears once with the unioned sources. Output is ordered
// lexicographically by (lemma, translation) and is stable for equal input.
func Build(entries []domain.Entry) []SurfaceEntry {
	var out []SurfaceEntry

	for i := range entries {
		e := &entries[i]
		if e.Language != domain.LanguageIdo {
			continue
		}

		byTerm := make(map[string]int)
		for _, s := range e.Senses {
			for _, tr := range s.Translations {
				if tr.Lang != domain.LanguageEsperanto {
					continue
				}
				if idx, ok := byTerm[tr.Term]; ok {
					out[idx].Sources = domain.UnionTags(out[idx].Sources, tr.Sources)
					continue
				}
				byTerm[tr.Term] = len(out)
				out = append(out, SurfaceEntry{
					Lemma:               e.Lemma,
					Paradigm:            e.Morphology.Paradigm,
					POS:                 e.POS,
					Translation:         tr.Term,
					TranslationParadigm: DefaultEOParadigm(e.POS),
					Sources:             slices.Clone(tr.Sources),
				})
			}
		}
	}

	slices.SortStableFunc(out, func(a, b SurfaceEntry) int {
		if c := strings.Compare(a.Lemma, b.Lemma); c != 0 {
			return c
		}
		return strings.Compare(a.Translation, b.Translation)
	})
	return out
}

// BuildMonodix lists every IO-headed entry with its paradigm, ordered by
// (lemma, pos). Entries without translations still appear: the monolingual
// dictionary covers all attested lemmas.
func BuildMonodix(entries []domain.Entry) []MonodixEntry {
	var out []MonodixEntry
	for i := range entries {
		e := &entries[i]
		if e.Language != domain.LanguageIdo {
			continue
		}
		out = append(out, MonodixEntry{
			Lemma:    e.Lemma,
			POS:      e.POS,
			Paradigm: e.Morphology.Paradigm,
		})
	}

	slices.SortStableFunc(out, func(a, b MonodixEntry) int {
		if c := strings.Compare(a.Lemma, b.Lemma); c != 0 {
			return c
		}
		return strings.Compare(string(a.POS), string(b.POS))
	})
	return out
}
