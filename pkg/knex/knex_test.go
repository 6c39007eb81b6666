package knex

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store/memstore"
	"github.com/cognicore/knex/pkg/knex/summary"
)

func fixedSummarizer(topics ...string) summary.Summarizer {
	return summary.Func(func(ctx context.Context, text string) (summary.Summary, error) {
		return summary.Summary{Title: "Title", Topics: topics, Sentiment: summary.Positive}, nil
	})
}

func TestAnalyzeStoresRecord(t *testing.T) {
	st := memstore.New()
	k := New(Options{Store: st, Summarizer: fixedSummarizer("Wildlife", "Speed", "Nature")})
	ctx := context.Background()

	rec, err := k.Analyze(ctx, AnalyzeRequest{Text: "The fox is a clever animal. The fox runs fast."})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected stored record ID")
	}
	if strings.Join(rec.Keywords, ",") != "fox,animal" {
		t.Errorf("unexpected keywords %v", rec.Keywords)
	}
	if rec.Confidence <= 0 || rec.Confidence > 1 {
		t.Errorf("confidence out of range: %f", rec.Confidence)
	}
	if rec.Title != "Title" || rec.Sentiment != summary.Positive || len(rec.Topics) != 3 {
		t.Errorf("summary not merged: %+v", rec)
	}

	got, err := k.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RawText != rec.RawText || got.Confidence != rec.Confidence {
		t.Errorf("stored record differs: %+v", got)
	}
}

func TestAnalyzeBlankInput(t *testing.T) {
	called := false
	k := New(Options{Summarizer: summary.Func(func(context.Context, string) (summary.Summary, error) {
		called = true
		return summary.Summary{}, nil
	})})

	for _, text := range []string{"", "   \n"} {
		_, err := k.Analyze(context.Background(), AnalyzeRequest{Text: text})
		if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Analyze(%q): expected ErrInvalidInput, got %v", text, err)
		}
	}
	if called {
		t.Error("summarizer must not be called for blank input")
	}
}

func TestAnalyzeSummarizerFailure(t *testing.T) {
	st := memstore.New()
	k := New(Options{Store: st, Summarizer: summary.Func(func(context.Context, string) (summary.Summary, error) {
		return summary.Summary{}, errors.New("connection refused")
	})})
	ctx := context.Background()

	_, err := k.Analyze(ctx, AnalyzeRequest{Text: "The fox runs."})
	if !errors.Is(err, summary.ErrLLM) {
		t.Fatalf("expected ErrLLM, got %v", err)
	}
	all, _ := st.List(ctx)
	if len(all) != 0 {
		t.Errorf("nothing should be stored on failure, got %d records", len(all))
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	st := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	k := New(Options{Store: st, Summarizer: summary.Func(func(ctx context.Context, _ string) (summary.Summary, error) {
		cancel()
		<-ctx.Done()
		return summary.Summary{}, ctx.Err()
	})})

	_, err := k.Analyze(ctx, AnalyzeRequest{Text: "The fox runs."})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, summary.ErrLLM) {
		t.Errorf("cancellation must not be reported as an LLM failure: %v", err)
	}
	all, _ := st.List(context.Background())
	if len(all) != 0 {
		t.Errorf("nothing should be stored on cancellation, got %d records", len(all))
	}
}

func TestAnalyzeHTML(t *testing.T) {
	k := New(Options{})
	rec, err := k.Analyze(context.Background(), AnalyzeRequest{
		Text:        "<html><head><script>var fox;</script></head><body><p>The river floods the valley. The river is wide.</p></body></html>",
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if strings.Contains(rec.RawText, "<") || strings.Contains(rec.RawText, "var fox") {
		t.Errorf("markup not stripped: %q", rec.RawText)
	}
	if len(rec.Keywords) == 0 || rec.Keywords[0] != "river" {
		t.Errorf("expected river as top keyword, got %v", rec.Keywords)
	}
}

func TestAnalyzeHTMLWithoutText(t *testing.T) {
	k := New(Options{})
	_, err := k.Analyze(context.Background(), AnalyzeRequest{
		Text:        "<div><script>alert(1)</script></div>",
		ContentType: "text/html",
	})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	k := New(Options{Summarizer: fixedSummarizer("Machine Learning", "Research", "Data")})

	first, err := k.Analyze(ctx, AnalyzeRequest{Text: "The model predicts the weather."})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := k.Analyze(ctx, AnalyzeRequest{Text: "The garden grows tomatoes."})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	hits, err := k.Search(ctx, "learn")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != first.ID || hits[1].ID != second.ID {
		t.Errorf("expected both records in ID order, got %+v", hits)
	}

	hits, err = k.Search(ctx, "TOMATO")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != second.ID {
		t.Errorf("expected keyword match on second record, got %+v", hits)
	}

	if _, err := k.Search(ctx, "  "); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty term, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	k := New(Options{})
	if _, err := k.Get(context.Background(), 42); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
