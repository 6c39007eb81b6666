package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cognicore/knex/pkg/knex/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// recordResponse is the public shape of an analysis. The raw text is
// stored but not echoed back.
type recordResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Topics          []string  `json:"topics"`
	Sentiment       string    `json:"sentiment"`
	Keywords        []string  `json:"keywords"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

func newRecordResponse(r store.Record) recordResponse {
	return recordResponse{
		ID:              r.ID,
		Title:           r.Title,
		Topics:          nonNil(r.Topics),
		Sentiment:       string(r.Sentiment),
		Keywords:        nonNil(r.Keywords),
		ConfidenceScore: r.Confidence,
		CreatedAt:       r.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, errorResponse{Error: message})
}
