// Package wikivocab classifies Ido Wikipedia article titles into vocabulary
// entries. Classification runs over category links; part of speech for
// unclassified titles follows Ido morphotactics on the title suffix. The
// builder also keeps the page id → title map needed to resolve langlink
// rows and the token frequency counts feeding the frequency gate.
package wikivocab

import (
	"regexp"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/dump"
	"github.com/idolinguo/idoeo-extractor/internal/wikitext"
)

// Classification buckets Wikipedia articles by their category links.
type Classification string

const (
	ClassCommon       Classification = "common"
	ClassPerson       Classification = "person"
	ClassPlace        Classification = "place"
	ClassOrganization Classification = "organization"
	ClassLanguage     Classification = "language"
)

var categoryLinkRe = regexp.MustCompile(`\[\[(?:Kategorio|Category):([^\]|]+)`)

// categoryPatterns map lowercase category substrings to classifications.
// Checked in order; first hit wins.
var categoryPatterns = []struct {
	substr string
	class  Classification
}{
	{"organizur", ClassOrganization},
	{"kompani", ClassOrganization},
	{"institucion", ClassOrganization},
	{"universitat", ClassOrganization},
	{"person", ClassPerson},
	{"homi", ClassPerson},
	{"biografi", ClassPerson},
	{"naskint", ClassPerson},
	{"mortint", ClassPerson},
	{"urbi", ClassPlace},
	{"urbo", ClassPlace},
	{"landi", ClassPlace},
	{"lando", ClassPlace},
	{"insuli", ClassPlace},
	{"monti", ClassPlace},
	{"fluvii", ClassPlace},
	{"rivier", ClassPlace},
	{"stati", ClassPlace},
	{"komuni", ClassPlace},
	{"chefurbi", ClassPlace},
	{"lingui", ClassLanguage},
	{"linguo", ClassLanguage},
}

// properClasses are the classifications that make a title a proper noun.
var properClasses = map[Classification]bool{
	ClassPerson:       true,
	ClassPlace:        true,
	ClassOrganization: true,
	ClassLanguage:     true,
}

// Classify inspects the page's category links. Titles without a matching
// category are ClassCommon.
func Classify(text string) Classification {
	for _, m := range categoryLinkRe.FindAllStringSubmatch(text, -1) {
		cat := strings.ToLower(m[1])
		for _, p := range categoryPatterns {
			if strings.Contains(cat, p.substr) {
				return p.class
			}
		}
	}
	return ClassCommon
}

// disambigRe strips trailing parenthetical disambiguation from titles:
// "Parizo (urbo)" -> "Parizo".
var disambigRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Stats counts builder outcomes.
type Stats struct {
	PagesSeen      int
	EntriesEmitted int
	Rejected       int
	ByClass        map[Classification]int
}

// Builder turns Wikipedia pages into vocabulary entries.
type Builder struct {
	freq   *FrequencyCounter
	titles map[int64]string
	stats  Stats
}

// New creates a builder with an empty frequency counter.
func New() *Builder {
	return &Builder{
		freq:   NewFrequencyCounter(),
		titles: make(map[int64]string),
		stats:  Stats{ByClass: make(map[Classification]int)},
	}
}

// Stats returns counters accumulated so far.
func (b *Builder) Stats() Stats { return b.stats }

// ResolveTitle maps a page id to its kept title, for langlink resolution.
func (b *Builder) ResolveTitle(id int64) (string, bool) {
	title, ok := b.titles[id]
	return title, ok
}

// Frequency exposes the token frequency counter fed so far.
func (b *Builder) Frequency() *FrequencyCounter { return b.freq }

// ProcessPage classifies one page and returns its vocabulary entry, or nil
// when the title does not qualify. Article text always feeds the token
// frequency counts, entry or not.
func (b *Builder) ProcessPage(p *dump.Page) *domain.Entry {
	b.stats.PagesSeen++
	b.titles[p.ID] = p.Title
	b.freq.Add(p.Text)

	class := Classify(p.Text)
	b.stats.ByClass[class]++

	title := disambigRe.ReplaceAllString(p.Title, "")
	lemma := wikitext.Clean(title)

	valid := wikitext.IsValidLemma(lemma)
	if !valid && class == ClassOrganization {
		valid = wikitext.IsValidOrganizationLemma(lemma)
	}
	if !valid {
		b.stats.Rejected++
		return nil
	}

	entry := &domain.Entry{
		Language:   domain.LanguageIdo,
		Provenance: []domain.ProvenanceTag{domain.SourceIoWikipedia},
	}

	if properClasses[class] {
		entry.Lemma = lemma
		entry.POS = domain.PartOfSpeechProperNoun
		entry.Morphology.Paradigm = domain.ParadigmProperNoun
	} else {
		entry.Lemma = strings.ToLower(lemma)
		entry.POS = posFromSuffix(entry.Lemma)
	}
	if entry.Lemma != p.Title {
		entry.OriginalLemma = p.Title
	}

	b.stats.EntriesEmitted++
	return entry
}

// posFromSuffix derives the part of speech from Ido word-final morphology.
func posFromSuffix(lemma string) domain.PartOfSpeech {
	switch {
	case strings.HasSuffix(lemma, "o"):
		return domain.PartOfSpeechNoun
	case strings.HasSuffix(lemma, "ar"),
		strings.HasSuffix(lemma, "ir"),
		strings.HasSuffix(lemma, "or"):
		return domain.PartOfSpeechVerb
	case strings.HasSuffix(lemma, "a"):
		return domain.PartOfSpeechAdjective
	case strings.HasSuffix(lemma, "e"):
		return domain.PartOfSpeechAdverb
	default:
		return domain.PartOfSpeechUnknown
	}
}

// AttachTranslation adds the Esperanto article title of a langlink pair as
// a translation of entry, provided the title survives cleaning.
func AttachTranslation(entry *domain.Entry, eoTitle string, confidence float64) bool {
	term := wikitext.Clean(disambigRe.ReplaceAllString(eoTitle, ""))
	if term == "" || !wikitext.IsValidLemma(term) {
		return false
	}
	if entry.POS != domain.PartOfSpeechProperNoun {
		term = strings.ToLower(term)
	}

	entry.Senses = append(entry.Senses, domain.Sense{
		Translations: []domain.Translation{{
			Term:       term,
			Lang:       domain.LanguageEsperanto,
			Confidence: confidence,
			Sources:    []domain.ProvenanceTag{domain.SourceIoWikipedia},
		}},
	})
	return true
}
