package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cognicore/knex/internal/llm"
	"github.com/cognicore/knex/internal/observability"
	"github.com/cognicore/knex/pkg/knex"
	"github.com/cognicore/knex/pkg/knex/config"
	"github.com/cognicore/knex/pkg/knex/keywords"
	"github.com/cognicore/knex/pkg/knex/maintenance"
	"github.com/cognicore/knex/pkg/knex/nlp"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/store/memstore"
	"github.com/cognicore/knex/pkg/knex/store/postgres"
	"github.com/cognicore/knex/pkg/knex/store/sqlite"
	"github.com/cognicore/knex/pkg/knex/summary"
)

func newLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// app is the wired analysis stack of one command.
type app struct {
	knex  *knex.Knex
	store store.Store
}

func (a *app) rescorer() *maintenance.Rescorer {
	return &maintenance.Rescorer{Store: a.store, Engine: a.knex.Engine()}
}

// buildApp wires the store, engine and summarizer described by cfg. The
// returned cleanup closes the store.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, func(), error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, nil, err
	}

	summarizer, err := newSummarizer(ctx, cfg, engine)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("knex wired",
		"store", cfg.Store.Driver,
		"llm", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
	)

	k := knex.New(knex.Options{
		Store:      st,
		Engine:     engine,
		Summarizer: summarizer,
		Logger:     logger,
	})
	cleanup := func() {
		if err := k.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}
	return &app{knex: k, store: st}, cleanup, nil
}

func buildEngine(cfg *config.Config) (*keywords.Engine, error) {
	lex, err := nlp.LoadLexicon(cfg.Lexicon.Path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return keywords.New(nlp.NewRuleTagger(lex)), nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverSQLite:
		return sqlite.OpenSQLite(ctx, cfg.Store.DSN)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.Store.DSN)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newSummarizer(ctx context.Context, cfg *config.Config, engine *keywords.Engine) (summary.Summarizer, error) {
	var inner summary.Summarizer
	switch cfg.LLM.Provider {
	case config.ProviderNone:
		// nothing to cache for the model-free summarizer
		return summary.Static{Keywords: engine}, nil
	case config.ProviderOpenAI:
		inner = &llm.OpenAIClient{
			BaseURL:    cfg.LLM.BaseURL,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			HTTPClient: &http.Client{Timeout: cfg.LLM.Timeout},
		}
	case config.ProviderGemini:
		g, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		inner = g
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	if cfg.LLM.CacheSize <= 0 {
		return inner, nil
	}
	cached, err := summary.NewCached(inner, cfg.LLM.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("summary cache: %w", err)
	}
	return cached, nil
}
