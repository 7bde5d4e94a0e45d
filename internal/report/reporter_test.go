package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/merge"
	"github.com/idolinguo/idoeo-extractor/internal/parser/wikivocab"
)

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{
			Lemma: "hundo", Language: domain.LanguageIdo, POS: domain.PartOfSpeechNoun,
			Morphology: domain.Morphology{Paradigm: domain.ParadigmNounO},
			Provenance: []domain.ProvenanceTag{domain.SourceIoWiktionary, domain.SourceEnWiktionaryVia},
		},
		{
			Lemma: "abasar", Language: domain.LanguageIdo, POS: domain.PartOfSpeechVerb,
			Morphology: domain.Morphology{Paradigm: domain.ParadigmVerbAr},
			Provenance: []domain.ProvenanceTag{domain.SourceIoWiktionary},
		},
	}
}

func TestStatistics(t *testing.T) {
	out := Statistics(sampleEntries(), []bidix.SurfaceEntry{{Lemma: "hundo"}}, Rejections{InvalidLemmas: 3, FrequencyGated: 2})

	assert.Contains(t, out, "Entries:         2")
	assert.Contains(t, out, "Surface entries: 1")
	assert.Contains(t, out, "io_wiktionary")
	assert.Contains(t, out, "en_wiktionary_via")
	assert.Contains(t, out, "noun")
	assert.Contains(t, out, "ar__vblex")
	assert.Contains(t, out, "invalid_lemma")
	assert.Contains(t, out, "frequency_gated")
}

func TestCoverage(t *testing.T) {
	ranking := []wikivocab.RankedToken{
		{Token: "hundo", Count: 10},
		{Token: "kato", Count: 5},
	}
	out := Coverage(sampleEntries(), ranking, 2)

	assert.Contains(t, out, "Covered: 1/2")
	assert.Contains(t, out, "kato", "uncovered lemma listed as missing")
	assert.False(t, strings.Contains(strings.Split(out, "Missing")[1], "hundo"))
}

func TestConflicts(t *testing.T) {
	out := Conflicts([]merge.Conflict{
		{Kind: merge.ConflictPOS, Language: domain.LanguageIdo, Lemma: "stulo", Detail: "noun vs proper-noun"},
		{Kind: merge.ConflictParadigm, Language: domain.LanguageIdo, Lemma: "parizo", Detail: "o__n vs np__np"},
	})

	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "pos_conflict (1):")
	assert.Contains(t, out, "io/stulo: noun vs proper-noun")
	assert.Contains(t, out, "paradigm_conflict (1):")
}

func TestCoverageEmptyRanking(t *testing.T) {
	out := Coverage(nil, nil, 1000)
	assert.Contains(t, out, "Covered: 0/0")
}
