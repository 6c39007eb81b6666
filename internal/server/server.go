// Package server exposes the analysis facade over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognicore/knex/internal/observability"
	"github.com/cognicore/knex/pkg/knex"
	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store"
	"github.com/cognicore/knex/pkg/knex/summary"
)

const maxBodyBytes = 1 << 20

// Service is the subset of the knex facade the server needs.
type Service interface {
	Analyze(ctx context.Context, req knex.AnalyzeRequest) (store.Record, error)
	Get(ctx context.Context, id int64) (store.Record, error)
	Search(ctx context.Context, term string) ([]store.Record, error)
}

// Server holds the HTTP handlers and their dependencies
type Server struct {
	svc      Service
	logger   *slog.Logger
	metrics  *Metrics
	gatherer prometheus.Gatherer
}

// New creates a server. Metrics are registered on a fresh registry that
// also carries the Go runtime and process collectors.
func New(svc Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Server{
		svc:      svc,
		logger:   logger,
		metrics:  MustNewMetrics(reg),
		gatherer: reg,
	}
}

// Routes configures HTTP routes
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/analyze", s.analyzeHandler).Methods(http.MethodPost)
	r.HandleFunc("/search", s.searchHandler).Methods(http.MethodGet)
	r.HandleFunc("/analyses/{id:[0-9]+}", s.getHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type analyzeRequest struct {
	Text        *string `json:"text"`
	ContentType string  `json:"content_type"`
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context(), s.logger)

	var req analyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.metrics.observeAnalysis(outcomeRejected, 0)
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body: text must be a string")
		return
	}
	if req.Text == nil {
		s.metrics.observeAnalysis(outcomeRejected, 0)
		writeError(w, http.StatusUnprocessableEntity, "Field required: text")
		return
	}

	rec, err := s.svc.Analyze(r.Context(), knex.AnalyzeRequest{Text: *req.Text, ContentType: req.ContentType})
	switch {
	case err == nil:
	case errors.Is(err, internalerr.ErrInvalidInput):
		s.metrics.observeAnalysis(outcomeRejected, 0)
		writeError(w, http.StatusUnprocessableEntity, "Empty input")
		return
	case errors.Is(err, summary.ErrLLM):
		s.metrics.observeAnalysis(outcomeLLMError, 0)
		logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, summary.ErrLLM.Error())
		return
	default:
		s.metrics.observeAnalysis(outcomeError, 0)
		logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.metrics.observeAnalysis(outcomeStored, rec.Confidence)
	writeJSON(w, http.StatusOK, newRecordResponse(rec))
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter: topic")
		return
	}

	records, err := s.svc.Search(r.Context(), topic)
	if err != nil {
		if errors.Is(err, internalerr.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Missing query parameter: topic")
			return
		}
		observability.FromContext(r.Context(), s.logger).Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	rec, err := s.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		observability.FromContext(r.Context(), s.logger).Error("get failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, newRecordResponse(rec))
}
