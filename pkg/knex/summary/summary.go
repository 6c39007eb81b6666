// Package summary defines the structured summary an LLM produces for a
// document and the Summarizer contract implementations satisfy.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TopicCount is the exact number of topics a summary carries.
const TopicCount = 3

// ErrLLM marks failures of the summarization call. The message is surfaced
// to API clients as is.
var ErrLLM = errors.New("LLM request failed")

// Sentiment is the overall tone of a document.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// ParseSentiment maps model output onto a Sentiment. Unknown or empty
// values become Neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case Positive:
		return Positive
	case Negative:
		return Negative
	}
	return Neutral
}

// Summary is the structured view of a document.
type Summary struct {
	Title     string    `json:"title"`
	Topics    []string  `json:"topics"`
	Sentiment Sentiment `json:"sentiment"`
}

// Summarizer produces a Summary for a text. Failures wrap ErrLLM.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (Summary, error)
}

// Func adapts a function to the Summarizer interface.
type Func func(ctx context.Context, text string) (Summary, error)

func (f Func) Summarize(ctx context.Context, text string) (Summary, error) {
	return f(ctx, text)
}

// Validate trims s and checks it carries exactly TopicCount non-empty
// topics. The sentiment is normalized with ParseSentiment.
func Validate(s Summary) (Summary, error) {
	out := Summary{
		Title:     strings.TrimSpace(s.Title),
		Topics:    make([]string, 0, len(s.Topics)),
		Sentiment: ParseSentiment(string(s.Sentiment)),
	}
	for _, topic := range s.Topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			out.Topics = append(out.Topics, topic)
		}
	}
	if len(out.Topics) != TopicCount {
		return Summary{}, fmt.Errorf("%w: expected %d topics, got %d", ErrLLM, TopicCount, len(out.Topics))
	}
	return out, nil
}
