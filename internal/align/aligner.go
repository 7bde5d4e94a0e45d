// Package align turns Esperanto-headed evidence into the Ido-headed form
// the rest of the pipeline consumes. Entries that are already Ido-headed
// pass through unchanged.
package align

import (
	"fmt"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Stats counts aligner outcomes.
type Stats struct {
	PassedThrough int
	Flipped       int
	Dropped       int
}

// Aligner flips direction of EO-headed entries.
type Aligner struct {
	stats Stats
}

// New returns an Aligner.
func New() *Aligner { return &Aligner{} }

// Stats returns counters accumulated so far.
func (a *Aligner) Stats() Stats { return a.stats }

// Align maps one entry to its IO-headed equivalents. An EO-headed entry
// produces one IO entry per distinct Ido translation term, each carrying
// the original EO lemma as its translation. EO entries without Ido
// translations are dropped: nothing can head them.
func (a *Aligner) Align(e domain.Entry) []domain.Entry {
	if e.Language == domain.LanguageIdo {
		a.stats.PassedThrough++
		return []domain.Entry{e}
	}

	byLemma := make(map[string]int)
	var out []domain.Entry

	for _, sense := range e.Senses {
		for _, tr := range sense.Translations {
			if tr.Lang != domain.LanguageIdo {
				continue
			}

			flippedSense := domain.Sense{
				SenseID: flippedSenseID(e.Lemma, sense.SenseID),
				Gloss:   sense.Gloss,
				Translations: []domain.Translation{{
					Term:       e.Lemma,
					Lang:       domain.LanguageEsperanto,
					Confidence: tr.Confidence,
					Sources:    tr.Sources,
				}},
			}

			idx, ok := byLemma[tr.Term]
			if !ok {
				idx = len(out)
				byLemma[tr.Term] = idx
				flipped := domain.Entry{
					Lemma:      tr.Term,
					Language:   domain.LanguageIdo,
					POS:        e.POS,
					Provenance: e.Provenance,
				}
				if e.POS == domain.PartOfSpeechProperNoun {
					flipped.Morphology.Paradigm = domain.ParadigmProperNoun
				}
				out = append(out, flipped)
			}
			out[idx].Senses = append(out[idx].Senses, flippedSense)
		}
	}

	if len(out) == 0 {
		a.stats.Dropped++
		return nil
	}
	a.stats.Flipped += len(out)
	return out
}

func flippedSenseID(eoLemma, senseID string) string {
	if senseID == "" {
		return "eo:" + eoLemma
	}
	return fmt.Sprintf("eo:%s#%s", eoLemma, senseID)
}
