package merge

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

func ioEntry(lemma string, pos domain.PartOfSpeech, tag domain.ProvenanceTag, senses ...domain.Sense) domain.Entry {
	return domain.Entry{
		Lemma:      lemma,
		Language:   domain.LanguageIdo,
		POS:        pos,
		Senses:     senses,
		Provenance: []domain.ProvenanceTag{tag},
	}
}

func eoSense(id, gloss string, tag domain.ProvenanceTag, conf float64, terms ...string) domain.Sense {
	s := domain.Sense{SenseID: id, Gloss: gloss}
	for _, term := range terms {
		s.Translations = append(s.Translations, domain.Translation{
			Term:       term,
			Lang:       domain.LanguageEsperanto,
			Confidence: conf,
			Sources:    []domain.ProvenanceTag{tag},
		})
	}
	return s
}

func TestMergeMultiSourceDeduplication(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("banko", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "banko")),
		ioEntry("banko", domain.PartOfSpeechNoun, domain.SourceEnWiktionaryVia,
			eoSense("en:bank", "", domain.SourceEnWiktionaryVia, 0.8, "banko")),
	}

	out := m.Merge(entries)
	require.Len(t, out, 1)

	e := out[0]
	assert.Equal(t, "banko", e.Lemma)
	assert.Equal(t, []domain.ProvenanceTag{domain.SourceEnWiktionaryVia, domain.SourceIoWiktionary}, e.Provenance)

	require.Len(t, e.Senses, 1)
	require.Len(t, e.Senses[0].Translations, 1)
	tr := e.Senses[0].Translations[0]
	assert.Equal(t, "banko", tr.Term)
	assert.Equal(t, 1.0, tr.Confidence)
	assert.Equal(t, []domain.ProvenanceTag{domain.SourceEnWiktionaryVia, domain.SourceIoWiktionary}, tr.Sources)
}

func TestMergeKeepsDistinctSenses(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("abasar", domain.PartOfSpeechVerb, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "madaldama"),
			eoSense("2", "", domain.SourceIoWiktionary, 1.0, "malaltigi")),
	}

	out := m.Merge(entries)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Senses, 2)
}

func TestMergePOSConflictPreserved(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("stulo", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "seĝo")),
		ioEntry("Stulo", domain.PartOfSpeechProperNoun, domain.SourceIoWikipedia),
	}

	out := m.Merge(entries)
	require.Len(t, out, 2, "POS conflict must never merge entries")

	conflicts := m.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictPOS, conflicts[0].Kind)
	assert.Contains(t, conflicts[0].Detail, "noun")
	assert.Contains(t, conflicts[0].Detail, "proper-noun")
}

func TestMergeCaseFoldsBucketKeepsFirstSeenCasing(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("hundo", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "hundo")),
		ioEntry("Hundo", domain.PartOfSpeechNoun, domain.SourceIoWikipedia,
			eoSense("", "", domain.SourceIoWikipedia, 0.9, "Hundo")),
	}

	out := m.Merge(entries)
	require.Len(t, out, 1)
	assert.Equal(t, "hundo", out[0].Lemma)
}

func TestMergeParadigmConflictHighestPriorityWins(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	low := ioEntry("parizo", domain.PartOfSpeechNoun, domain.SourceIoWikipedia)
	low.Morphology.Paradigm = domain.ParadigmProperNoun
	high := ioEntry("parizo", domain.PartOfSpeechNoun, domain.SourceIoWiktionary)
	high.Morphology.Paradigm = domain.ParadigmNounO

	out := m.Merge([]domain.Entry{low, high})
	require.Len(t, out, 1)
	assert.Equal(t, domain.ParadigmNounO, out[0].Morphology.Paradigm)

	require.Len(t, m.Conflicts(), 1)
	assert.Equal(t, ConflictParadigm, m.Conflicts()[0].Kind)
}

func TestMergeIdempotent(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("banko", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "mono", domain.SourceIoWiktionary, 1.0, "banko")),
		ioEntry("banko", domain.PartOfSpeechNoun, domain.SourceEnWiktionaryVia,
			eoSense("en:bank", "mono", domain.SourceEnWiktionaryVia, 0.8, "banko", "monujo")),
		ioEntry("abelo", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "abelo")),
	}

	once := m.Merge(entries)
	twice := New(domain.DefaultSourceTable()).Merge(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeOutputOrdering(t *testing.T) {
	m := New(domain.DefaultSourceTable())

	entries := []domain.Entry{
		ioEntry("zebro", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "zebro")),
		ioEntry("abelo", domain.PartOfSpeechNoun, domain.SourceIoWiktionary,
			eoSense("1", "", domain.SourceIoWiktionary, 1.0, "abelo")),
	}

	out := m.Merge(entries)
	require.Len(t, out, 2)
	assert.Equal(t, "abelo", out[0].Lemma)
	assert.Equal(t, "zebro", out[1].Lemma)
}
