package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/knex/pkg/knex/summary"
)

const (
	systemPrompt = "You are a text analysis expert. Extract structured data from the given text."
	toolName     = "extract_analysis"
)

func userPrompt(text string) string {
	return "Analyze this text and extract: title (if available), exactly 3 topics, " +
		"and sentiment (positive/neutral/negative):\n\n" + text
}

// analysisParameters is the JSON schema of the extraction tool's arguments.
var analysisParameters = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "Title of the text, if one is available",
		},
		"topics": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    summary.TopicCount,
			"maxItems":    summary.TopicCount,
			"description": "Exactly three key topics",
		},
		"sentiment": map[string]any{
			"type": "string",
			"enum": []string{string(summary.Positive), string(summary.Neutral), string(summary.Negative)},
		},
	},
	"required": []string{"topics", "sentiment"},
}

type analysisArgs struct {
	Title     string   `json:"title"`
	Topics    []string `json:"topics"`
	Sentiment string   `json:"sentiment"`
}

// parseAnalysis decodes model output into a validated summary. Models
// occasionally wrap JSON in a markdown fence.
func parseAnalysis(raw string) (summary.Summary, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var args analysisArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return summary.Summary{}, fmt.Errorf("%w: decode analysis: %v", summary.ErrLLM, err)
	}
	return summary.Validate(summary.Summary{
		Title:     args.Title,
		Topics:    args.Topics,
		Sentiment: summary.Sentiment(args.Sentiment),
	})
}
