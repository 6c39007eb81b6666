package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/cognicore/knex/pkg/knex/summary"
)

func TestAnalysisSchema(t *testing.T) {
	schema := analysisSchema()
	if schema.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %s", schema.Type)
	}
	topics := schema.Properties["topics"]
	if topics == nil || topics.Type != genai.TypeArray {
		t.Fatalf("expected topics array, got %+v", topics)
	}
	if topics.MinItems == nil || *topics.MinItems != 3 || topics.MaxItems == nil || *topics.MaxItems != 3 {
		t.Errorf("expected exactly three topics, got %+v", topics)
	}
	if len(schema.Properties["sentiment"].Enum) != 3 {
		t.Errorf("expected three sentiment values")
	}

	cfg := generateConfig()
	if cfg.ResponseMIMEType != "application/json" || cfg.SystemInstruction == nil {
		t.Errorf("unexpected generate config %+v", cfg)
	}
}

func geminiTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient(context.Background(), "gm-test", "gemini-test", srv.URL)
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return client
}

func TestGeminiSummarize(t *testing.T) {
	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "The fox runs.") {
			t.Errorf("request does not carry the text: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"{\"title\":\"Fox\",\"topics\":[\"animals\",\"speed\",\"nature\"],\"sentiment\":\"Negative\"}"}
		]}}]}`)
	})

	got, err := client.Summarize(context.Background(), "The fox runs.")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Title != "Fox" || len(got.Topics) != 3 || got.Sentiment != summary.Negative {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestGeminiSummarizeErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no candidates": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"candidates":[]}`)
		},
		"two topics": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[
				{"text":"{\"title\":\"Fox\",\"topics\":[\"a\",\"b\"],\"sentiment\":\"neutral\"}"}
			]}}]}`)
		},
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
		},
	}
	for name, handler := range cases {
		client := geminiTestClient(t, handler)
		if _, err := client.Summarize(context.Background(), "The fox runs."); !errors.Is(err, summary.ErrLLM) {
			t.Errorf("%s: expected ErrLLM, got %v", name, err)
		}
	}
}
