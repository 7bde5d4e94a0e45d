// Package filter enforces the post-merge schema invariants, applies the
// Wikipedia frequency gate and removes duplicate entries.
package filter

import (
	"slices"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/wikitext"
)

// Stats counts filter outcomes. Every dropped entry lands in exactly one
// counter so the reports can account for all of them.
type Stats struct {
	Kept              int
	SchemaRejected    int
	FreqGateRejected  int
	DuplicatesRemoved int
}

// Filter applies the final gates before dictionary construction.
type Filter struct {
	topN  map[string]bool
	stats Stats
}

// New builds a filter over the top-N frequency set (lowercased lemmas).
func New(topN map[string]bool) *Filter {
	return &Filter{topN: topN}
}

// Stats returns counters accumulated so far.
func (f *Filter) Stats() Stats { return f.stats }

// Apply filters entries in order, preserving the input sequence of the
// survivors.
func (f *Filter) Apply(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.Entry, 0, len(entries))

	for i := range entries {
		e := entries[i]

		if !validSchema(&e) {
			f.stats.SchemaRejected++
			continue
		}

		if !f.passesFrequencyGate(&e) {
			f.stats.FreqGateRejected++
			continue
		}

		key := dedupKey(&e)
		if seen[key] {
			f.stats.DuplicatesRemoved++
			continue
		}
		seen[key] = true

		f.stats.Kept++
		out = append(out, e)
	}
	return out
}

// validSchema checks the §3 invariants an entry must satisfy after merge.
func validSchema(e *domain.Entry) bool {
	if !e.Language.IsValid() || !e.POS.IsValid() {
		return false
	}
	// Proper nouns may legitimately be acronyms (organizations).
	if e.POS == domain.PartOfSpeechProperNoun {
		if !wikitext.IsValidOrganizationLemma(e.Lemma) {
			return false
		}
	} else if !wikitext.IsValidLemma(e.Lemma) {
		return false
	}
	if e.Morphology.Paradigm != "" && !e.Morphology.Paradigm.IsValid() {
		return false
	}
	if len(e.Provenance) == 0 {
		return false
	}
	for _, tag := range e.Provenance {
		if !tag.IsValid() {
			return false
		}
	}

	for _, s := range e.Senses {
		for _, tr := range s.Translations {
			if tr.Term == "" || !tr.Lang.IsValid() {
				return false
			}
			if tr.Confidence < 0 || tr.Confidence > 1 {
				return false
			}
			if len(tr.Sources) == 0 {
				return false
			}
			for _, tag := range tr.Sources {
				if !tag.IsValid() {
					return false
				}
			}
		}
	}
	return true
}

// passesFrequencyGate keeps entries sourced exclusively from the Ido
// Wikipedia only when their lemma ranks within the top-N token frequency
// list. Proper nouns are exempt.
func (f *Filter) passesFrequencyGate(e *domain.Entry) bool {
	if !e.OnlySource(domain.SourceIoWikipedia) {
		return true
	}
	if e.POS == domain.PartOfSpeechProperNoun {
		return true
	}
	return f.topN[strings.ToLower(e.Lemma)]
}

// dedupKey identifies entries that duplicate each other: same language,
// lemma, pos and set of translation terms per language.
func dedupKey(e *domain.Entry) string {
	var terms []string
	for _, s := range e.Senses {
		for _, tr := range s.Translations {
			terms = append(terms, string(tr.Lang)+":"+strings.ToLower(tr.Term))
		}
	}
	slices.Sort(terms)
	terms = slices.Compact(terms)

	var b strings.Builder
	b.WriteString(string(e.Language))
	b.WriteByte('\x00')
	b.WriteString(strings.ToLower(e.Lemma))
	b.WriteByte('\x00')
	b.WriteString(string(e.POS))
	for _, t := range terms {
		b.WriteByte('\x00')
		b.WriteString(t)
	}
	return b.String()
}
