package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

func entry(lemma string, pos domain.PartOfSpeech, tags []domain.ProvenanceTag, terms ...string) domain.Entry {
	e := domain.Entry{
		Lemma:      lemma,
		Language:   domain.LanguageIdo,
		POS:        pos,
		Provenance: tags,
	}
	if len(terms) > 0 {
		s := domain.Sense{}
		for _, term := range terms {
			s.Translations = append(s.Translations, domain.Translation{
				Term:       term,
				Lang:       domain.LanguageEsperanto,
				Confidence: 1.0,
				Sources:    tags,
			})
		}
		e.Senses = []domain.Sense{s}
	}
	return e
}

func TestFrequencyGate(t *testing.T) {
	topN := map[string]bool{"acensilo": true}
	f := New(topN)

	wikiOnly := []domain.ProvenanceTag{domain.SourceIoWikipedia}

	inTop := entry("acensilo", domain.PartOfSpeechNoun, wikiOnly, "lifto")
	outTop := entry("rarajo", domain.PartOfSpeechNoun, wikiOnly, "rarajho")
	proper := entry("Abdulino", domain.PartOfSpeechProperNoun, wikiOnly, "Abdulino")
	multiSource := entry("hundo", domain.PartOfSpeechNoun,
		[]domain.ProvenanceTag{domain.SourceIoWikipedia, domain.SourceIoWiktionary}, "hundo")

	out := f.Apply([]domain.Entry{inTop, outTop, proper, multiSource})

	require.Len(t, out, 3)
	assert.Equal(t, "acensilo", out[0].Lemma)
	assert.Equal(t, "Abdulino", out[1].Lemma)
	assert.Equal(t, "hundo", out[2].Lemma)
	assert.Equal(t, 1, f.Stats().FreqGateRejected)
}

func TestSchemaFilter(t *testing.T) {
	f := New(nil)

	good := entry("hundo", domain.PartOfSpeechNoun, []domain.ProvenanceTag{domain.SourceIoWiktionary}, "hundo")

	noProvenance := entry("kato", domain.PartOfSpeechNoun, nil, "kato")

	badConfidence := entry("muso", domain.PartOfSpeechNoun, []domain.ProvenanceTag{domain.SourceIoWiktionary}, "muso")
	badConfidence.Senses[0].Translations[0].Confidence = 1.5

	noSources := entry("rato", domain.PartOfSpeechNoun, []domain.ProvenanceTag{domain.SourceIoWiktionary}, "rato")
	noSources.Senses[0].Translations[0].Sources = nil

	markupLemma := entry("'''abelo", domain.PartOfSpeechNoun, []domain.ProvenanceTag{domain.SourceIoWiktionary}, "abelo")

	badParadigm := entry("urso", domain.PartOfSpeechNoun, []domain.ProvenanceTag{domain.SourceIoWiktionary}, "urso")
	badParadigm.Morphology.Paradigm = domain.ParadigmID("x__x")

	out := f.Apply([]domain.Entry{good, noProvenance, badConfidence, noSources, markupLemma, badParadigm})

	require.Len(t, out, 1)
	assert.Equal(t, "hundo", out[0].Lemma)
	assert.Equal(t, 5, f.Stats().SchemaRejected)
}

func TestDuplicateRemoval(t *testing.T) {
	f := New(nil)
	tags := []domain.ProvenanceTag{domain.SourceIoWiktionary}

	a := entry("hundo", domain.PartOfSpeechNoun, tags, "hundo")
	b := entry("hundo", domain.PartOfSpeechNoun, tags, "hundo") // same terms
	c := entry("hundo", domain.PartOfSpeechNoun, tags, "hundacho")

	out := f.Apply([]domain.Entry{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, 1, f.Stats().DuplicatesRemoved)
}

func TestOrganizationAcronymSurvivesSchema(t *testing.T) {
	f := New(nil)
	e := entry("UNESCO", domain.PartOfSpeechProperNoun, []domain.ProvenanceTag{domain.SourceIoWikipedia})

	out := f.Apply([]domain.Entry{e})
	require.Len(t, out, 1)
}
