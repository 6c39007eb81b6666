package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cognicore/knex/pkg/knex/store"
)

type recordOutput struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Topics          []string  `json:"topics"`
	Sentiment       string    `json:"sentiment"`
	Keywords        []string  `json:"keywords"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

type keywordsOutput struct {
	Keywords        []string `json:"keywords"`
	ConfidenceScore float64  `json:"confidence_score"`
}

func toOutput(r store.Record) recordOutput {
	out := recordOutput{
		ID:              r.ID,
		Title:           r.Title,
		Topics:          r.Topics,
		Sentiment:       string(r.Sentiment),
		Keywords:        r.Keywords,
		ConfidenceScore: r.Confidence,
		CreatedAt:       r.CreatedAt,
	}
	if out.Topics == nil {
		out.Topics = []string{}
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
