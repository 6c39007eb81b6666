// Package llm implements summary.Summarizer on top of hosted language
// models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cognicore/knex/pkg/knex/summary"
)

// DefaultOpenAIURL is the chat completions endpoint used when BaseURL is empty.
const DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls an OpenAI-compatible chat completion endpoint and
// forces a structured tool call for the analysis.
type OpenAIClient struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice any           `json:"tool_choice,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content      string        `json:"content"`
			FunctionCall *functionCall `json:"function_call"`
			ToolCalls    []struct {
				Function functionCall `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize asks the model for a title, three topics and a sentiment.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (summary.Summary, error) {
	if c.Model == "" {
		return summary.Summary{}, fmt.Errorf("%w: model required", summary.ErrLLM)
	}
	req := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(text)},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: toolFunction{
				Name:        toolName,
				Description: "Extract title, topics and sentiment from text",
				Parameters:  analysisParameters,
			},
		}},
		ToolChoice: map[string]any{
			"type":     "function",
			"function": map[string]string{"name": toolName},
		},
	}

	payload, err := c.send(ctx, req)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("%w: %w", summary.ErrLLM, err)
	}
	if len(payload.Choices) == 0 {
		return summary.Summary{}, fmt.Errorf("%w: empty response", summary.ErrLLM)
	}

	msg := payload.Choices[0].Message
	switch {
	case len(msg.ToolCalls) > 0:
		return parseAnalysis(msg.ToolCalls[0].Function.Arguments)
	case msg.FunctionCall != nil:
		return parseAnalysis(msg.FunctionCall.Arguments)
	case msg.Content != "":
		return parseAnalysis(msg.Content)
	}
	return summary.Summary{}, fmt.Errorf("%w: response carried no analysis", summary.ErrLLM)
}

func (c *OpenAIClient) send(ctx context.Context, chat chatRequest) (*chatResponse, error) {
	reqBody, err := json.Marshal(chat)
	if err != nil {
		return nil, err
	}
	url := c.BaseURL
	if url == "" {
		url = DefaultOpenAIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var payload chatResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("llm status %d", resp.StatusCode)
		}
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("llm status %d", resp.StatusCode)
	}
	return &payload, nil
}

func (c *OpenAIClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
