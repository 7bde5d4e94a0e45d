package dictstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idolinguo/idoeo-extractor/internal/adapter/postgres/dictstore"
	"github.com/idolinguo/idoeo-extractor/internal/adapter/postgres/testhelper"
	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

func TestBulkInsertAndLookup(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	store := dictstore.New(pool)
	ctx := context.Background()

	lemmas := []bidix.MonodixEntry{
		{Lemma: "hundo", POS: domain.PartOfSpeechNoun, Paradigm: domain.ParadigmNounO},
		{Lemma: "abasar", POS: domain.PartOfSpeechVerb, Paradigm: domain.ParadigmVerbAr},
	}
	inserted, err := store.BulkInsertLemmas(ctx, lemmas)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Idempotent load: conflicts are skipped.
	inserted, err = store.BulkInsertLemmas(ctx, lemmas)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	translations := []bidix.SurfaceEntry{
		{
			Lemma: "abasar", POS: domain.PartOfSpeechVerb, Paradigm: domain.ParadigmVerbAr,
			Translation: "malaltigi", TranslationParadigm: domain.ParadigmVerbAr,
			Sources: []domain.ProvenanceTag{domain.SourceIoWiktionary},
		},
		{
			Lemma: "abasar", POS: domain.PartOfSpeechVerb, Paradigm: domain.ParadigmVerbAr,
			Translation: "madaldama", TranslationParadigm: domain.ParadigmVerbAr,
			Sources: []domain.ProvenanceTag{domain.SourceIoWiktionary},
		},
	}
	inserted, err = store.BulkInsertTranslations(ctx, translations)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	rows, err := store.LookupTranslations(ctx, "abasar", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "madaldama", rows[0].Translation)
	assert.Equal(t, "malaltigi", rows[1].Translation)
	assert.Equal(t, []string{"io_wiktionary"}, rows[0].Sources)

	rec, err := store.GetLemma(ctx, "hundo", domain.LanguageIdo, domain.PartOfSpeechNoun)
	require.NoError(t, err)
	assert.Equal(t, domain.ParadigmNounO, rec.Paradigm)

	n, err := store.CountLemmas(ctx, domain.LanguageIdo)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}

func TestGetLemmaNotFound(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	store := dictstore.New(pool)

	_, err := store.GetLemma(context.Background(), "neexistanta", domain.LanguageIdo, domain.PartOfSpeechNoun)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
