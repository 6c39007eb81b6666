package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const foxText = "The quick brown fox jumps over the lazy dog. The fox runs."

// clearEnv hides configuration from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KNEX_STORE_DRIVER", "KNEX_STORE_DSN", "DATABASE_URL",
		"KNEX_LLM_PROVIDER", "KNEX_LLM_MODEL", "KNEX_LLM_BASE_URL", "KNEX_LLM_API_KEY",
		"KNEX_LLM_CACHE_SIZE", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"KNEX_LEXICON_PATH", "KNEX_LOG_LEVEL", "KNEX_LOG_FORMAT",
		"KNEX_MAINTENANCE_RESCORE_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeKeywordsOnly(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, foxText, "analyze", "--keywords-only", "--log-level", "error")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var got keywordsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !slices.Equal(got.Keywords, []string{"fox", "dog"}) {
		t.Errorf("keywords = %v, want [fox dog]", got.Keywords)
	}
	if got.ConfidenceScore <= 0 || got.ConfidenceScore > 1 {
		t.Errorf("confidence = %v, want in (0,1]", got.ConfidenceScore)
	}
}

func TestAnalyzeKeywordsOnlyLimit(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, foxText, "analyze", "--keywords-only", "-n", "1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var got keywordsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(got.Keywords, []string{"fox"}) {
		t.Errorf("keywords = %v, want [fox]", got.Keywords)
	}
}

func TestAnalyzeAndSearchSQLite(t *testing.T) {
	clearEnv(t)
	dsn := filepath.Join(t.TempDir(), "knex.db")

	out, err := execute(t, foxText, "analyze", "--llm", "none", "--store-dsn", dsn)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var rec recordOutput
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if rec.ID != 1 || len(rec.Topics) != 3 || rec.Sentiment != "neutral" {
		t.Errorf("unexpected record %+v", rec)
	}

	out, err = execute(t, "", "search", "FOX", "--store-dsn", dsn)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var found []recordOutput
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(found) != 1 || found[0].ID != rec.ID {
		t.Errorf("search = %+v, want record %d", found, rec.ID)
	}

	out, err = execute(t, "", "rescore", "--store-dsn", dsn)
	if err != nil {
		t.Fatalf("rescore: %v", err)
	}
	if !strings.Contains(out, "processed 1, updated 0") {
		t.Errorf("rescore output = %q", out)
	}
}

func TestAnalyzeHTMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "page.html")
	doc := `<html><head><title>ignored</title></head><body><p>The fox met a dog.</p><script>var cat = 1;</script></body></html>`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "analyze", path, "--llm", "none", "--store-dsn", "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var rec recordOutput
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !slices.Equal(rec.Keywords, []string{"fox", "dog"}) {
		t.Errorf("keywords = %v, want [fox dog]", rec.Keywords)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	clearEnv(t)

	if _, err := execute(t, "   ", "analyze", "--llm", "none", "--store-dsn", ""); err == nil {
		t.Fatal("expected error for blank input")
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	clearEnv(t)

	if _, err := execute(t, "", "search"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- run(ctx, srv, time.Second, discardLogger()) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
