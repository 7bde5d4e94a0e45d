// Package dictstore persists the generated dictionaries in PostgreSQL for
// the lookup service. The catalog is append-only: loads insert by natural
// key, skip rows that already exist, and never update or delete.
package dictstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Store provides dictionary persistence backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a dictionary store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// LemmaRecord is one monolingual dictionary row.
type LemmaRecord struct {
	ID       uuid.UUID
	Lemma    string
	Language domain.Language
	POS      domain.PartOfSpeech
	Paradigm domain.ParadigmID
}

// TranslationRecord is one bilingual dictionary row.
type TranslationRecord struct {
	ID                  uuid.UUID
	Lemma               string
	POS                 domain.PartOfSpeech
	Paradigm            domain.ParadigmID
	Translation         string
	TranslationParadigm domain.ParadigmID
	Sources             []string
}

// BulkInsertLemmas inserts monodix rows using pgx.Batch. Existing rows
// (by lemma, language, pos) are skipped via ON CONFLICT DO NOTHING.
// Returns the number of actually inserted rows.
func (s *Store) BulkInsertLemmas(ctx context.Context, entries []bidix.MonodixEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO dict_lemmas (id, lemma, language, pos, paradigm, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (lemma, language, pos) DO NOTHING`,
			uuid.New(), e.Lemma, string(domain.LanguageIdo), string(e.POS), string(e.Paradigm), now,
		)
	}

	return s.sendBatchExec(ctx, batch)
}

// BulkInsertTranslations inserts bidix rows using pgx.Batch. Existing rows
// (by lemma, pos, translation) are skipped via ON CONFLICT DO NOTHING.
func (s *Store) BulkInsertTranslations(ctx context.Context, entries []bidix.SurfaceEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, e := range entries {
		sources := make([]string, len(e.Sources))
		for i, tag := range e.Sources {
			sources[i] = string(tag)
		}
		batch.Queue(
			`INSERT INTO dict_translations (id, lemma, pos, paradigm, translation, translation_paradigm, sources, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (lemma, pos, translation) DO NOTHING`,
			uuid.New(), e.Lemma, string(e.POS), string(e.Paradigm),
			e.Translation, string(e.TranslationParadigm), sources, now,
		)
	}

	return s.sendBatchExec(ctx, batch)
}

// sendBatchExec sends a batch and sums the affected row counts.
func (s *Store) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// LookupTranslations returns the bidix rows for one Ido lemma, optionally
// restricted to a part of speech, ordered by (pos, translation).
func (s *Store) LookupTranslations(ctx context.Context, lemma string, pos *domain.PartOfSpeech) ([]TranslationRecord, error) {
	q := s.sb.
		Select("id", "lemma", "pos", "paradigm", "translation", "translation_paradigm", "sources").
		From("dict_translations").
		Where(sq.Eq{"lemma": lemma}).
		OrderBy("pos", "translation")
	if pos != nil {
		q = q.Where(sq.Eq{"pos": string(*pos)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lookup query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup translations: %w", err)
	}
	defer rows.Close()

	var out []TranslationRecord
	for rows.Next() {
		var r TranslationRecord
		if err := rows.Scan(&r.ID, &r.Lemma, &r.POS, &r.Paradigm, &r.Translation, &r.TranslationParadigm, &r.Sources); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetLemma returns one monodix row by its natural key. Returns
// domain.ErrNotFound when the lemma is absent.
func (s *Store) GetLemma(ctx context.Context, lemma string, language domain.Language, pos domain.PartOfSpeech) (*LemmaRecord, error) {
	sql, args, err := s.sb.
		Select("id", "lemma", "language", "pos", "paradigm").
		From("dict_lemmas").
		Where(sq.Eq{"lemma": lemma, "language": string(language), "pos": string(pos)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lemma query: %w", err)
	}

	var r LemmaRecord
	err = s.pool.QueryRow(ctx, sql, args...).Scan(&r.ID, &r.Lemma, &r.Language, &r.POS, &r.Paradigm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lemma %s/%s: %w", language, lemma, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lemma: %w", err)
	}
	return &r, nil
}

// CountLemmas returns the number of monodix rows per language.
func (s *Store) CountLemmas(ctx context.Context, language domain.Language) (int, error) {
	sql, args, err := s.sb.
		Select("count(*)").
		From("dict_lemmas").
		Where(sq.Eq{"language": string(language)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lemmas: %w", err)
	}
	return n, nil
}
