package summary

import (
	"context"
	"strings"
	"unicode/utf8"
)

const maxTitleRunes = 80

var fillerTopics = []string{"general", "other", "misc"}

// Extractor returns the salient terms of a text.
type Extractor interface {
	Extract(text string) []string
}

// Static summarizes without a model: the title is the first sentence, the
// topics are the extracted keywords padded to three, and the sentiment is
// always neutral.
type Static struct {
	Keywords Extractor
}

func (s Static) Summarize(ctx context.Context, text string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	var topics []string
	if s.Keywords != nil {
		topics = s.Keywords.Extract(text)
	}
	topics = append([]string(nil), topics...)
	for i := 0; len(topics) < TopicCount; i++ {
		topics = append(topics, fillerTopics[i])
	}

	return Summary{
		Title:     firstSentence(text),
		Topics:    topics[:TopicCount],
		Sentiment: Neutral,
	}, nil
}

func firstSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		text = text[:i]
	}
	if utf8.RuneCountInString(text) > maxTitleRunes {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:maxTitleRunes])) + "..."
	}
	return text
}
