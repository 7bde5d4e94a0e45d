// Package via derives Ido↔Esperanto pairs from a pivot-language Wiktionary
// page that lists both languages as translations of the same headword. The
// builder works page by page so pivot dumps of millions of pages stream
// with per-page memory only.
package via

import (
	"fmt"
	"sync"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/parser/wiktionary"
	"github.com/idolinguo/idoeo-extractor/internal/wikitext"
)

// Mode selects how strictly IO and EO evidence must be co-located.
type Mode int

const (
	// CoOccurrence pairs every IO term on a pivot page with every EO term
	// of the same page. Used for the English Wiktionary.
	CoOccurrence Mode = iota
	// SameMeaning only pairs terms appearing inside the same translation
	// table, so the pair shares one meaning label. Used for the French
	// Wiktionary; semantically stronger than bare co-occurrence.
	SameMeaning
)

// Config parameterizes a via builder.
type Config struct {
	Mode       Mode
	PivotLang  string // "en" or "fr"
	Tag        domain.ProvenanceTag
	Confidence float64
}

// Stats counts builder outcomes.
type Stats struct {
	PagesPaired    int
	EntriesEmitted int
}

// Builder pairs IO and EO translations co-located on pivot pages. Safe
// for concurrent page processing.
type Builder struct {
	cfg Config

	mu    sync.Mutex
	stats Stats
}

// New builds a via builder for cfg.
func New(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Stats returns counters accumulated so far.
func (b *Builder) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// BuildPage emits the IO-headed entries derivable from one pivot page.
func (b *Builder) BuildPage(title string, blocks []wiktionary.TransBlock) []domain.Entry {
	var entries []domain.Entry

	switch b.cfg.Mode {
	case CoOccurrence:
		var ioTerms, eoTerms []string
		for _, blk := range blocks {
			ioTerms = append(ioTerms, blk.Terms[domain.LanguageIdo]...)
			eoTerms = append(eoTerms, blk.Terms[domain.LanguageEsperanto]...)
		}
		if len(ioTerms) == 0 || len(eoTerms) == 0 {
			break
		}
		sense := domain.Sense{
			SenseID: fmt.Sprintf("%s:%s", b.cfg.PivotLang, title),
			Gloss:   title,
		}
		for _, eo := range dedupe(eoTerms) {
			sense.Translations = append(sense.Translations, b.translation(eo))
		}
		for _, io := range dedupe(ioTerms) {
			entries = append(entries, b.entry(io, sense))
		}

	case SameMeaning:
		for i, blk := range blocks {
			ioTerms := blk.Terms[domain.LanguageIdo]
			eoTerms := blk.Terms[domain.LanguageEsperanto]
			if len(ioTerms) == 0 || len(eoTerms) == 0 {
				continue
			}
			sense := domain.Sense{
				SenseID: fmt.Sprintf("%s:%s#%d", b.cfg.PivotLang, title, i+1),
				Gloss:   blk.Gloss,
			}
			for _, eo := range dedupe(eoTerms) {
				sense.Translations = append(sense.Translations, b.translation(eo))
			}
			for _, io := range dedupe(ioTerms) {
				entries = append(entries, b.entry(io, sense))
			}
		}
	}

	if len(entries) > 0 {
		b.mu.Lock()
		b.stats.PagesPaired++
		b.stats.EntriesEmitted += len(entries)
		b.mu.Unlock()
	}
	return entries
}

func (b *Builder) translation(term string) domain.Translation {
	return domain.Translation{
		Term:       term,
		Lang:       domain.LanguageEsperanto,
		Confidence: b.cfg.Confidence,
		Sources:    []domain.ProvenanceTag{b.cfg.Tag},
	}
}

func (b *Builder) entry(lemma string, sense domain.Sense) domain.Entry {
	return domain.Entry{
		Lemma:      lemma,
		Language:   domain.LanguageIdo,
		POS:        domain.PartOfSpeechUnknown,
		Senses:     []domain.Sense{sense},
		Provenance: []domain.ProvenanceTag{b.cfg.Tag},
	}
}

// dedupe keeps first occurrences, dropping terms the validator rejects.
func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		if seen[t] || !wikitext.IsValidLemma(t) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
