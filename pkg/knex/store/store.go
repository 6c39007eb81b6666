package store

import (
	"context"
	"strings"
	"time"

	"github.com/cognicore/knex/pkg/knex/summary"
)

// Store persists analysis records.
type Store interface {
	Close() error

	// Save inserts r and returns it with the assigned ID. A zero CreatedAt
	// is set to the current time.
	Save(ctx context.Context, r Record) (Record, error)
	// Update replaces the stored record with the same ID.
	Update(ctx context.Context, r Record) error
	Get(ctx context.Context, id int64) (Record, error)
	// List returns all records in ascending ID order.
	List(ctx context.Context) ([]Record, error)
	// Search returns records in ascending ID order for which Matches holds.
	Search(ctx context.Context, term string) ([]Record, error)
}

// Record is a stored analysis of one document.
type Record struct {
	ID         int64
	Title      string
	Topics     []string
	Sentiment  summary.Sentiment
	Keywords   []string
	Confidence float64
	RawText    string
	CreatedAt  time.Time
}

// Matches reports whether term occurs, case-insensitively, as a substring
// of any topic or keyword of r. An empty term matches nothing.
func Matches(r Record, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for _, list := range [][]string{r.Topics, r.Keywords} {
		for _, s := range list {
			if strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Topics = append([]string(nil), r.Topics...)
	r.Keywords = append([]string(nil), r.Keywords...)
	return r
}
