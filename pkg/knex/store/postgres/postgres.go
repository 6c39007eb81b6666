package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/summary"
)

const table = "analyses"

// Store persists analysis records in Postgres with JSONB list columns.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	s := &Store{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the analyses table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    topics JSONB NOT NULL DEFAULT '[]'::jsonb,
    sentiment TEXT NOT NULL DEFAULT 'neutral',
    keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
    confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    raw_text TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		`CREATE INDEX IF NOT EXISTS idx_` + table + `_created ON ` + table + ` (created_at);`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure analyses schema: %w", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const selectColumns = `id, title, topics, sentiment, keywords, confidence_score, raw_text, created_at`

// Save inserts r and returns it with its assigned ID.
func (s *Store) Save(ctx context.Context, r store.Record) (store.Record, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	topics, keywords, err := jsonLists(r)
	if err != nil {
		return store.Record{}, err
	}

	err = s.pool.QueryRow(ctx, `
INSERT INTO `+table+` (title, topics, sentiment, keywords, confidence_score, raw_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`, r.Title, topics, string(r.Sentiment), keywords, r.Confidence, r.RawText, r.CreatedAt).Scan(&r.ID)
	if err != nil {
		return store.Record{}, fmt.Errorf("save analysis: %w", err)
	}
	return r, nil
}

// Update overwrites the stored fields of an existing record.
func (s *Store) Update(ctx context.Context, r store.Record) error {
	topics, keywords, err := jsonLists(r)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
UPDATE `+table+`
SET title = $2, topics = $3, sentiment = $4, keywords = $5, confidence_score = $6, raw_text = $7
WHERE id = $1
`, r.ID, r.Title, topics, string(r.Sentiment), keywords, r.Confidence, r.RawText)
	if err != nil {
		return fmt.Errorf("update analysis %d: %w", r.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %d: %w", r.ID, internalerr.ErrNotFound)
	}
	return nil
}

// Get fetches a single record by ID.
func (s *Store) Get(ctx context.Context, id int64) (store.Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM `+table+` WHERE id = $1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Record{}, fmt.Errorf("analysis %d: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("get analysis %d: %w", id, err)
	}
	return r, nil
}

// List returns every record ordered by ID.
func (s *Store) List(ctx context.Context) ([]store.Record, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM `+table+` ORDER BY id`)
}

// Search matches term against the topic and keyword arrays in SQL.
func (s *Store) Search(ctx context.Context, term string) ([]store.Record, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []store.Record{}, nil
	}
	return s.query(ctx, `
SELECT `+selectColumns+`
FROM `+table+` a
WHERE EXISTS (
    SELECT 1 FROM jsonb_array_elements_text(a.topics || a.keywords) AS t(v)
    WHERE strpos(lower(t.v), $1) > 0
)
ORDER BY id
`, term)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]store.Record, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := []store.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (store.Record, error) {
	var (
		r                store.Record
		topics, keywords []byte
		sentiment        string
	)
	if err := row.Scan(&r.ID, &r.Title, &topics, &sentiment, &keywords, &r.Confidence, &r.RawText, &r.CreatedAt); err != nil {
		return store.Record{}, err
	}
	if err := json.Unmarshal(topics, &r.Topics); err != nil {
		return store.Record{}, fmt.Errorf("decode topics of analysis %d: %w", r.ID, err)
	}
	if err := json.Unmarshal(keywords, &r.Keywords); err != nil {
		return store.Record{}, fmt.Errorf("decode keywords of analysis %d: %w", r.ID, err)
	}
	r.Sentiment = summary.Sentiment(sentiment)
	return r, nil
}

func jsonLists(r store.Record) ([]byte, []byte, error) {
	topics, err := jsonBytes(r.Topics)
	if err != nil {
		return nil, nil, fmt.Errorf("encode topics: %w", err)
	}
	keywords, err := jsonBytes(r.Keywords)
	if err != nil {
		return nil, nil, fmt.Errorf("encode keywords: %w", err)
	}
	return topics, keywords, nil
}

func jsonBytes(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}
