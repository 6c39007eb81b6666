// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/summary"
)

// Run exercises s. The store must be empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.Save(ctx, store.Record{
		Title:      "Fox report",
		Topics:     []string{"Wildlife", "Forests", "Behaviour"},
		Sentiment:  summary.Positive,
		Keywords:   []string{"fox", "animal"},
		Confidence: 0.75,
		RawText:    "The fox is a clever animal. The fox runs fast.",
		CreatedAt:  created,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("Save did not assign an ID")
	}

	second, err := s.Save(ctx, store.Record{
		Title:     "Markets",
		Topics:    []string{"Finance", "Banking", "Economy"},
		Sentiment: summary.Negative,
		Keywords:  []string{},
		RawText:   "Banks fell sharply.",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing IDs, got %d then %d", first.ID, second.ID)
	}
	if second.CreatedAt.IsZero() {
		t.Error("Save did not default CreatedAt")
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Fox report" || got.Sentiment != summary.Positive || got.Confidence != 0.75 ||
		got.RawText != first.RawText || !got.CreatedAt.Equal(created) {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !equal(got.Topics, first.Topics) || !equal(got.Keywords, first.Keywords) {
		t.Errorf("round trip lists mismatch: %v %v", got.Topics, got.Keywords)
	}

	if _, err := s.Get(ctx, second.ID+1000); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Get(unknown): expected ErrNotFound, got %v", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("List: expected both records in ID order, got %+v", all)
	}

	hits, err := s.Search(ctx, "WILD")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != first.ID {
		t.Errorf("Search(WILD): expected fox report, got %+v", hits)
	}
	hits, err = s.Search(ctx, "an")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// "animal" on the first record, "Finance"/"Banking" on the second
	if len(hits) != 2 || hits[0].ID != first.ID {
		t.Errorf("Search(an): expected both records in ID order, got %+v", hits)
	}
	hits, err = s.Search(ctx, "sport")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search(sport): expected no hits, got %+v", hits)
	}

	first.Keywords = []string{"fox"}
	first.Confidence = 0.5
	if err := s.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !equal(got.Keywords, []string{"fox"}) || got.Confidence != 0.5 {
		t.Errorf("Update not applied: %+v", got)
	}

	missing := first
	missing.ID = second.ID + 1000
	if err := s.Update(ctx, missing); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Update(unknown): expected ErrNotFound, got %v", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
