// Package knex assembles keyword scoring, LLM summaries and persistence
// into a single analysis facade.
package knex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/keywords"
	"github.com/cognicore/knex/pkg/knex/nlp"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/store/memstore"
	"github.com/cognicore/knex/pkg/knex/summary"
)

// Knex is the main analysis facade
type Knex struct {
	store      store.Store
	engine     *keywords.Engine
	summarizer summary.Summarizer
	logger     *slog.Logger
}

// Options configures a Knex instance. Zero fields fall back to an
// in-memory store, the default rule tagger, a model-free summarizer and a
// discarding logger.
type Options struct {
	Store      store.Store
	Engine     *keywords.Engine
	Summarizer summary.Summarizer
	Logger     *slog.Logger
}

// New creates a Knex instance with the given dependencies
func New(opts Options) *Knex {
	k := &Knex{
		store:      opts.Store,
		engine:     opts.Engine,
		summarizer: opts.Summarizer,
		logger:     opts.Logger,
	}
	if k.store == nil {
		k.store = memstore.New()
	}
	if k.engine == nil {
		k.engine = keywords.New(nil)
	}
	if k.summarizer == nil {
		k.summarizer = summary.Static{Keywords: k.engine}
	}
	if k.logger == nil {
		k.logger = slog.New(slog.DiscardHandler)
	}
	return k
}

// Close cleanly shuts down the underlying store
func (k *Knex) Close() error {
	return k.store.Close()
}

// Engine returns the keyword engine used for analyses.
func (k *Knex) Engine() *keywords.Engine {
	return k.engine
}

// AnalyzeRequest is a document submitted for analysis. ContentType is
// optional; HTML documents are reduced to their visible text first.
type AnalyzeRequest struct {
	Text        string
	ContentType string
}

// Analyze summarizes and scores a document and persists the result.
// Blank input fails with internalerr.ErrInvalidInput and summarizer
// failures with summary.ErrLLM. A cancelled ctx returns ctx.Err() as is.
func (k *Knex) Analyze(ctx context.Context, req AnalyzeRequest) (store.Record, error) {
	text := req.Text
	if isHTML(req.ContentType) {
		stripped, err := nlp.StripMarkup(text)
		if err != nil {
			return store.Record{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
		}
		text = stripped
	}
	if strings.TrimSpace(text) == "" {
		return store.Record{}, fmt.Errorf("%w: empty input", internalerr.ErrInvalidInput)
	}

	var (
		sum    summary.Summary
		scored keywords.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := k.summarizer.Summarize(gctx, text)
		if err != nil {
			return err
		}
		sum = s
		return nil
	})
	g.Go(func() error {
		scored = k.engine.Score(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return store.Record{}, ctxErr
		}
		k.logger.Warn("summarization failed", "error", err)
		if !errors.Is(err, summary.ErrLLM) {
			err = fmt.Errorf("%w: %w", summary.ErrLLM, err)
		}
		return store.Record{}, err
	}

	rec, err := k.store.Save(ctx, store.Record{
		Title:      sum.Title,
		Topics:     sum.Topics,
		Sentiment:  sum.Sentiment,
		Keywords:   scored.Keywords,
		Confidence: scored.Confidence,
		RawText:    text,
	})
	if err != nil {
		return store.Record{}, fmt.Errorf("save analysis: %w", err)
	}

	k.logger.Info("analysis stored",
		"id", rec.ID,
		"keywords", rec.Keywords,
		"confidence", rec.Confidence,
		"sentiment", rec.Sentiment,
	)
	return rec, nil
}

// Get returns a stored analysis by ID.
func (k *Knex) Get(ctx context.Context, id int64) (store.Record, error) {
	return k.store.Get(ctx, id)
}

// Search returns analyses whose topics or keywords contain term,
// case-insensitively, in ascending ID order.
func (k *Knex) Search(ctx context.Context, term string) ([]store.Record, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: empty search term", internalerr.ErrInvalidInput)
	}
	return k.store.Search(ctx, term)
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
