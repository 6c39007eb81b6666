package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/cognicore/knex/pkg/knex/summary"
)

// DefaultGeminiModel is used when no model is configured for Gemini.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient summarizes through the Gemini API with a JSON response schema.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client for the Gemini API. An empty API key
// falls back to Application Default Credentials; a non-empty baseURL
// replaces the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{}
	if apiKey != "" {
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Summarize(ctx context.Context, text string) (summary.Summary, error) {
	content := genai.NewContentFromText(userPrompt(text), genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, generateConfig())
	if err != nil {
		return summary.Summary{}, fmt.Errorf("%w: %w", summary.ErrLLM, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return summary.Summary{}, fmt.Errorf("%w: no response candidates from Gemini", summary.ErrLLM)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	return parseAnalysis(out.String())
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema(),
	}
}

func analysisSchema() *genai.Schema {
	count := int64(summary.TopicCount)
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"topics": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MinItems: &count,
				MaxItems: &count,
			},
			"sentiment": {
				Type: genai.TypeString,
				Enum: []string{string(summary.Positive), string(summary.Neutral), string(summary.Negative)},
			},
		},
		Required: []string{"topics", "sentiment"},
	}
}
