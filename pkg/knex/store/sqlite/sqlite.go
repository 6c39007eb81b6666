package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/summary"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS analyses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL DEFAULT '',
	topics TEXT NOT NULL DEFAULT '[]',
	sentiment TEXT NOT NULL DEFAULT 'neutral',
	keywords TEXT NOT NULL DEFAULT '[]',
	confidence_score REAL NOT NULL DEFAULT 0,
	raw_text TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

const selectColumns = `id, title, topics, sentiment, keywords, confidence_score, raw_text, created_at`

// Save inserts a record and returns it with its new ID
func (s *sqliteStore) Save(ctx context.Context, r store.Record) (store.Record, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	topics, keywords, err := encodeLists(r)
	if err != nil {
		return store.Record{}, err
	}

	const stmt = `
INSERT INTO analyses (title, topics, sentiment, keywords, confidence_score, raw_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id;
`
	err = s.db.QueryRowContext(ctx, stmt,
		r.Title,
		topics,
		string(r.Sentiment),
		keywords,
		r.Confidence,
		r.RawText,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&r.ID)
	if err != nil {
		return store.Record{}, fmt.Errorf("save analysis: %w", err)
	}
	return r, nil
}

// Update overwrites the stored fields of an existing record
func (s *sqliteStore) Update(ctx context.Context, r store.Record) error {
	topics, keywords, err := encodeLists(r)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE analyses
SET title = ?, topics = ?, sentiment = ?, keywords = ?, confidence_score = ?, raw_text = ?
WHERE id = ?;
`, r.Title, topics, string(r.Sentiment), keywords, r.Confidence, r.RawText, r.ID)
	if err != nil {
		return fmt.Errorf("update analysis %d: %w", r.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis %d: %w", r.ID, internalerr.ErrNotFound)
	}
	return nil
}

// Get retrieves a record by ID
func (s *sqliteStore) Get(ctx context.Context, id int64) (store.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM analyses WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("analysis %d: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// List returns every record ordered by ID
func (s *sqliteStore) List(ctx context.Context) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM analyses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Search filters the full table in Go: SQLite's lower() only folds ASCII.
func (s *sqliteStore) Search(ctx context.Context, term string) ([]store.Record, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(all))
	for _, r := range all {
		if store.Matches(r, term) {
			out = append(out, r)
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (store.Record, error) {
	var (
		r                      store.Record
		topics, keywords       string
		sentiment, createdText string
	)
	if err := sc.Scan(&r.ID, &r.Title, &topics, &sentiment, &keywords, &r.Confidence, &r.RawText, &createdText); err != nil {
		return store.Record{}, err
	}
	if err := json.Unmarshal([]byte(topics), &r.Topics); err != nil {
		return store.Record{}, fmt.Errorf("decode topics of analysis %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(keywords), &r.Keywords); err != nil {
		return store.Record{}, fmt.Errorf("decode keywords of analysis %d: %w", r.ID, err)
	}
	r.Sentiment = summary.Sentiment(sentiment)

	created, err := time.Parse(time.RFC3339Nano, createdText)
	if err != nil {
		return store.Record{}, fmt.Errorf("decode created_at of analysis %d: %w", r.ID, err)
	}
	r.CreatedAt = created
	return r, nil
}

func encodeLists(r store.Record) (string, string, error) {
	topics, err := json.Marshal(nonNil(r.Topics))
	if err != nil {
		return "", "", err
	}
	keywords, err := json.Marshal(nonNil(r.Keywords))
	if err != nil {
		return "", "", err
	}
	return string(topics), string(keywords), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
