package domain

import (
	"slices"
	"strings"
)

// Translation is one translated surface form attested for a sense.
type Translation struct {
	Term       string          `json:"term"`
	Lang       Language        `json:"lang"`
	Confidence float64         `json:"confidence"`
	Sources    []ProvenanceTag `json:"sources"`
}

// Sense is one numbered meaning of a lemma with its translation candidates.
type Sense struct {
	SenseID      string        `json:"sense_id,omitempty"`
	Gloss        string        `json:"gloss,omitempty"`
	Translations []Translation `json:"translations"`
}

// Morphology carries the inferred paradigm. Paradigm is empty until the
// inferencer has run.
type Morphology struct {
	Paradigm ParadigmID `json:"paradigm,omitempty"`
}

// Entry is the canonical unit flowing through the pipeline: one headword
// in its base language with numbered senses and source provenance.
type Entry struct {
	Lemma         string          `json:"lemma"`
	Language      Language        `json:"language"`
	POS           PartOfSpeech    `json:"pos"`
	Senses        []Sense         `json:"senses"`
	Morphology    Morphology      `json:"morphology,omitzero"`
	Provenance    []ProvenanceTag `json:"provenance"`
	OriginalLemma string          `json:"original_lemma,omitempty"`
}

// EntryKey identifies the merge bucket of an entry. Lemma is case-folded
// for everything except proper nouns, which preserve case.
type EntryKey struct {
	Language Language
	Lemma    string
	POS      PartOfSpeech
}

// Key returns the merge bucket key for e.
func (e *Entry) Key() EntryKey {
	lemma := e.Lemma
	if e.POS != PartOfSpeechProperNoun {
		lemma = strings.ToLower(lemma)
	}
	return EntryKey{Language: e.Language, Lemma: lemma, POS: e.POS}
}

// HasSource reports whether tag is among the entry-level provenance.
func (e *Entry) HasSource(tag ProvenanceTag) bool {
	return slices.Contains(e.Provenance, tag)
}

// OnlySource reports whether tag is the single entry-level source.
func (e *Entry) OnlySource(tag ProvenanceTag) bool {
	return len(e.Provenance) == 1 && e.Provenance[0] == tag
}

// AddTag inserts t into the sorted tag set, keeping it unique.
func AddTag(tags []ProvenanceTag, t ProvenanceTag) []ProvenanceTag {
	i, found := slices.BinarySearch(tags, t)
	if found {
		return tags
	}
	return slices.Insert(tags, i, t)
}

// UnionTags merges two sorted tag sets into a new sorted unique set.
func UnionTags(a, b []ProvenanceTag) []ProvenanceTag {
	out := slices.Clone(a)
	for _, t := range b {
		out = AddTag(out, t)
	}
	return out
}

// Signature is the sense identity used for dedup when merging entries:
// the normalized gloss plus the sorted lowercased translation terms.
func (s *Sense) Signature() string {
	terms := make([]string, 0, len(s.Translations))
	for _, tr := range s.Translations {
		terms = append(terms, string(tr.Lang)+":"+strings.ToLower(tr.Term))
	}
	slices.Sort(terms)

	var b strings.Builder
	b.WriteString(NormalizeGloss(s.Gloss))
	for _, t := range terms {
		b.WriteByte('\x00')
		b.WriteString(t)
	}
	return b.String()
}

// SortTranslations orders translations by (lang, term) for deterministic
// output.
func (s *Sense) SortTranslations() {
	slices.SortStableFunc(s.Translations, func(a, b Translation) int {
		if a.Lang != b.Lang {
			return strings.Compare(string(a.Lang), string(b.Lang))
		}
		return strings.Compare(a.Term, b.Term)
	})
}

// TranslationsTo collects the distinct translation terms into lang across
// all senses, in sense order.
func (e *Entry) TranslationsTo(lang Language) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range e.Senses {
		for _, tr := range s.Translations {
			if tr.Lang != lang || seen[tr.Term] {
				continue
			}
			seen[tr.Term] = true
			out = append(out, tr.Term)
		}
	}
	return out
}
