// Package merge consolidates entries from all sources into at most one
// entry per (language, lemma, pos), with unioned provenance, deduplicated
// sense groups and max-aggregated confidence. The algorithm is
// deterministic: input order breaks every tie, so merging is idempotent
// and repeat runs are byte-identical.
package merge

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// mergeBucket accumulates one (language, lemma, pos) group during a merge
// pass, remembering the priority of the contributor that set its paradigm.
type mergeBucket struct {
	entry    domain.Entry
	paraPrio int
}

// Merger buckets and consolidates entries.
type Merger struct {
	table     domain.SourceTable
	conflicts []Conflict
}

// New builds a merger over the effective source table.
func New(table domain.SourceTable) *Merger {
	return &Merger{table: table}
}

// Conflicts returns the audit rows recorded by the last Merge call.
func (m *Merger) Conflicts() []Conflict { return m.conflicts }

// Merge consolidates entries and returns them ordered lexicographically by
// (language, lemma, pos). The merger is the only pipeline component that
// holds all entries in memory at once.
func (m *Merger) Merge(entries []domain.Entry) []domain.Entry {
	m.conflicts = nil

	index := make(map[domain.EntryKey]int)
	var buckets []*mergeBucket

	for i := range entries {
		e := entries[i]
		key := e.Key()

		idx, ok := index[key]
		if !ok {
			index[key] = len(buckets)
			b := &mergeBucket{entry: cloneEntry(e)}
			b.paraPrio = m.entryPriority(e)
			buckets = append(buckets, b)
			continue
		}

		b := buckets[idx]
		b.entry.Provenance = domain.UnionTags(b.entry.Provenance, e.Provenance)
		m.mergeSenses(&b.entry, e.Senses)
		m.mergeParadigm(b, e)
		if b.entry.OriginalLemma == "" {
			b.entry.OriginalLemma = e.OriginalLemma
		}
	}

	out := make([]domain.Entry, 0, len(buckets))
	for _, b := range buckets {
		e := b.entry
		for i := range e.Senses {
			m.canonicalizeTerms(&e, &e.Senses[i])
			e.Senses[i].SortTranslations()
		}
		out = append(out, e)
	}

	m.recordPOSConflicts(out)

	slices.SortStableFunc(out, func(a, b domain.Entry) int {
		if a.Language != b.Language {
			return strings.Compare(string(a.Language), string(b.Language))
		}
		if c := strings.Compare(a.Lemma, b.Lemma); c != 0 {
			return c
		}
		return strings.Compare(string(a.POS), string(b.POS))
	})
	return out
}

// mergeSenses appends new senses, collapsing the ones whose signature
// (normalized gloss + sorted lowercased terms) already exists. Within a
// collapsed sense, translations merge by (lang, term).
func (m *Merger) mergeSenses(dst *domain.Entry, senses []domain.Sense) {
	sigs := make(map[string]int, len(dst.Senses))
	for i := range dst.Senses {
		sigs[dst.Senses[i].Signature()] = i
	}

	for _, s := range senses {
		sig := s.Signature()
		idx, ok := sigs[sig]
		if !ok {
			sigs[sig] = len(dst.Senses)
			dst.Senses = append(dst.Senses, cloneSense(s))
			continue
		}
		for _, tr := range s.Translations {
			m.mergeTranslation(&dst.Senses[idx], tr)
		}
	}
}

// mergeTranslation folds tr into the sense, unioning sources and taking
// the maximum confidence. Case-only differences merge into one entry.
func (m *Merger) mergeTranslation(sense *domain.Sense, tr domain.Translation) {
	key := string(tr.Lang) + ":" + strings.ToLower(tr.Term)
	for i := range sense.Translations {
		ex := &sense.Translations[i]
		if string(ex.Lang)+":"+strings.ToLower(ex.Term) != key {
			continue
		}
		ex.Sources = domain.UnionTags(ex.Sources, tr.Sources)
		conf := m.confidence(tr)
		if have := m.confidence(*ex); have > conf {
			conf = have
		}
		ex.Confidence = conf
		if isTitleCased(tr.Term) && !isTitleCased(ex.Term) {
			// Keep the title-cased variant around; canonicalization
			// decides which casing survives.
			ex.Term = tr.Term
		}
		return
	}
	sense.Translations = append(sense.Translations, cloneTranslation(tr))
}

// confidence is the effective confidence of one contributor: its own value
// or, when higher, the default of its strongest source.
func (m *Merger) confidence(tr domain.Translation) float64 {
	conf := tr.Confidence
	if d := m.table.MaxConfidence(tr.Sources); d > conf {
		conf = d
	}
	return conf
}

// canonicalizeTerms applies the target-language casing rules: Ido and
// Esperanto terms are lowercase except when the entry is proper-noun
// derived, which keeps the title-cased form.
func (m *Merger) canonicalizeTerms(e *domain.Entry, sense *domain.Sense) {
	proper := e.POS == domain.PartOfSpeechProperNoun
	for i := range sense.Translations {
		tr := &sense.Translations[i]
		tr.Term = domain.CanonicalTerm(tr.Term, proper && isTitleCased(tr.Term))
	}

	// Canonicalization may have made two terms identical; fold them.
	var kept []domain.Translation
	for _, tr := range sense.Translations {
		merged := false
		for i := range kept {
			if kept[i].Lang == tr.Lang && kept[i].Term == tr.Term {
				kept[i].Sources = domain.UnionTags(kept[i].Sources, tr.Sources)
				if tr.Confidence > kept[i].Confidence {
					kept[i].Confidence = tr.Confidence
				}
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, tr)
		}
	}
	sense.Translations = kept
}

// mergeParadigm resolves pre-merge paradigm disagreements: the contributor
// with the highest source priority wins, ties break to the lexicographically
// smaller paradigm id. Disagreements are recorded for the report.
func (m *Merger) mergeParadigm(b *mergeBucket, e domain.Entry) {
	incoming := e.Morphology.Paradigm
	if incoming == "" {
		return
	}
	current := b.entry.Morphology.Paradigm
	if current == "" {
		b.entry.Morphology.Paradigm = incoming
		b.paraPrio = m.entryPriority(e)
		return
	}
	if incoming == current {
		return
	}

	m.conflicts = append(m.conflicts, Conflict{
		Kind:     ConflictParadigm,
		Language: b.entry.Language,
		Lemma:    b.entry.Lemma,
		Detail:   fmt.Sprintf("%s vs %s", current, incoming),
	})

	inPrio := m.entryPriority(e)
	switch {
	case inPrio > b.paraPrio:
		b.entry.Morphology.Paradigm = incoming
		b.paraPrio = inPrio
	case inPrio == b.paraPrio && incoming < current:
		b.entry.Morphology.Paradigm = incoming
	}
}

func (m *Merger) entryPriority(e domain.Entry) int {
	best := m.table.HighestPriority(e.Provenance)
	return m.table.Priority(best)
}

// recordPOSConflicts notes lemmas that survive as several entries because
// their sources disagree on part of speech. They are reported, never
// silently merged.
func (m *Merger) recordPOSConflicts(entries []domain.Entry) {
	type lemmaKey struct {
		lang  domain.Language
		lemma string
	}
	posByLemma := make(map[lemmaKey][]domain.PartOfSpeech)
	for i := range entries {
		k := lemmaKey{entries[i].Language, strings.ToLower(entries[i].Lemma)}
		posByLemma[k] = append(posByLemma[k], entries[i].POS)
	}

	for i := range entries {
		e := &entries[i]
		k := lemmaKey{e.Language, strings.ToLower(e.Lemma)}
		all := posByLemma[k]
		if len(all) < 2 {
			continue
		}
		// Record once per lemma, from its first entry.
		if e.POS != all[0] {
			continue
		}
		names := make([]string, len(all))
		for j, p := range all {
			names[j] = string(p)
		}
		slices.Sort(names)
		m.conflicts = append(m.conflicts, Conflict{
			Kind:     ConflictPOS,
			Language: e.Language,
			Lemma:    e.Lemma,
			Detail:   strings.Join(names, " vs "),
		})
	}
}

func isTitleCased(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func cloneEntry(e domain.Entry) domain.Entry {
	out := e
	out.Provenance = slices.Clone(e.Provenance)
	out.Senses = make([]domain.Sense, len(e.Senses))
	for i := range e.Senses {
		out.Senses[i] = cloneSense(e.Senses[i])
	}
	return out
}

func cloneSense(s domain.Sense) domain.Sense {
	out := s
	out.Translations = make([]domain.Translation, len(s.Translations))
	for i := range s.Translations {
		out.Translations[i] = cloneTranslation(s.Translations[i])
	}
	return out
}

func cloneTranslation(tr domain.Translation) domain.Translation {
	out := tr
	out.Sources = slices.Clone(tr.Sources)
	return out
}
