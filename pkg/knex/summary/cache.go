package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes successful summaries of identical texts.
type Cached struct {
	inner Summarizer
	cache *lru.Cache[string, Summary]
}

// NewCached wraps inner with an LRU cache holding up to size summaries.
func NewCached(inner Summarizer, size int) (*Cached, error) {
	cache, err := lru.New[string, Summary](size)
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Summarize(ctx context.Context, text string) (Summary, error) {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])

	if s, ok := c.cache.Get(key); ok {
		return clone(s), nil
	}
	s, err := c.inner.Summarize(ctx, text)
	if err != nil {
		return Summary{}, err
	}
	c.cache.Add(key, clone(s))
	return s, nil
}

// Len reports the number of cached summaries.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func clone(s Summary) Summary {
	s.Topics = append([]string(nil), s.Topics...)
	return s
}
