// Package wiktionary turns one MediaWiki page into Entry values carrying
// sense-annotated translations for a configured source/target language
// pair. A parser holds a dialect style (inline vs template) and never
// buffers more than one page.
package wiktionary

import (
	"sync"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/wikitext"
)

// Config selects what a parser extracts.
type Config struct {
	// SourceLang is the language of the dump: io, eo, en or fr.
	SourceLang string
	// HeadLang is the language of emitted lemmas (io for the Ido dump,
	// eo for the Esperanto dump). Unused for pivot dumps.
	HeadLang domain.Language
	// TargetLang is the language of translations to extract.
	TargetLang domain.Language
	// Tag is the provenance recorded on every emitted entry.
	Tag domain.ProvenanceTag
	// Confidence is the default confidence for extracted translations.
	Confidence float64
	// KeepEmpty emits entries with zero senses; only the Ido dump uses
	// this for monolingual coverage.
	KeepEmpty bool
}

// Stats counts parse outcomes.
type Stats struct {
	PagesParsed    int
	EntriesEmitted int
	LemmasRejected int
}

// Parser extracts entries from pages of one Wiktionary dump. Safe for
// concurrent page parsing: counters are guarded, pages share nothing else.
type Parser struct {
	cfg   Config
	style Style

	mu    sync.Mutex
	stats Stats
}

// New builds a parser for cfg; the dialect style follows cfg.SourceLang.
func New(cfg Config) *Parser {
	return &Parser{cfg: cfg, style: StyleFor(cfg.SourceLang)}
}

// Stats returns counters accumulated so far.
func (p *Parser) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Parser) count(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}

// ParsePage extracts zero or more entries from one page of an inline-style
// dump. Pivot dumps (template style) produce no entries here; use
// PageBlocks with the via builder instead.
func (p *Parser) ParsePage(title, text string) []domain.Entry {
	if p.style != StyleInline {
		return nil
	}
	p.count(func(s *Stats) { s.PagesParsed++ })

	section := LanguageSection(text, p.cfg.SourceLang)
	if section == "" {
		return nil
	}

	// A title that is only valid after cleaning carries stray markup; it
	// is dropped, not repaired.
	lemma := wikitext.Clean(title)
	if !wikitext.IsValidLemma(title) || !wikitext.IsValidLemma(lemma) {
		p.count(func(s *Stats) { s.LemmasRejected++ })
		return nil
	}

	var entries []domain.Entry
	byPOS := make(map[domain.PartOfSpeech]int)

	for _, sub := range Subsections(section) {
		pos := MapPOS(sub.Header)

		for _, block := range SenseBlocks(sub.Body) {
			terms := InlineTranslations(block.Body, p.cfg.TargetLang)
			if len(terms) == 0 {
				continue
			}

			sense := domain.Sense{
				SenseID: block.ID,
				Gloss:   wikitext.Clean(block.Gloss),
			}
			for _, term := range terms {
				if !wikitext.IsValidLemma(term) {
					continue
				}
				sense.Translations = append(sense.Translations, domain.Translation{
					Term:       term,
					Lang:       p.cfg.TargetLang,
					Confidence: p.cfg.Confidence,
					Sources:    []domain.ProvenanceTag{p.cfg.Tag},
				})
			}
			if len(sense.Translations) == 0 {
				continue
			}

			idx, ok := byPOS[pos]
			if !ok {
				idx = len(entries)
				byPOS[pos] = idx
				entries = append(entries, p.newEntry(lemma, title, pos))
			}
			entries[idx].Senses = append(entries[idx].Senses, sense)
		}
	}

	// Monolingual coverage: the Ido dump keeps sections that listed no
	// target-language translations at all.
	if len(entries) == 0 && p.cfg.KeepEmpty {
		pos := domain.PartOfSpeechUnknown
		for _, sub := range Subsections(section) {
			if mapped := MapPOS(sub.Header); mapped != domain.PartOfSpeechUnknown {
				pos = mapped
				break
			}
		}
		entries = append(entries, p.newEntry(lemma, title, pos))
	}

	p.count(func(s *Stats) { s.EntriesEmitted += len(entries) })
	return entries
}

func (p *Parser) newEntry(lemma, title string, pos domain.PartOfSpeech) domain.Entry {
	e := domain.Entry{
		Lemma:      lemma,
		Language:   p.cfg.HeadLang,
		POS:        pos,
		Provenance: []domain.ProvenanceTag{p.cfg.Tag},
	}
	if lemma != title {
		e.OriginalLemma = title
	}
	if pos == domain.PartOfSpeechProperNoun {
		e.Morphology.Paradigm = domain.ParadigmProperNoun
	}
	return e
}

// PageBlocks returns the translation tables of one pivot-language page.
// Only template-style dumps have them.
func (p *Parser) PageBlocks(title, text string) []TransBlock {
	if p.style != StyleTemplate {
		return nil
	}
	p.count(func(s *Stats) { s.PagesParsed++ })

	section := LanguageSection(text, p.cfg.SourceLang)
	if section == "" {
		return nil
	}
	return TransBlocks(section, p.style)
}
