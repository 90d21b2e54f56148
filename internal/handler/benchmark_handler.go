package handler

import (
	"encoding/json"
	"net/http"

	"webshop/internal/benchmark"

	"github.com/rs/zerolog"
)

// BenchmarkHandler handles performance metric ingestion and reporting.
type BenchmarkHandler struct {
	store  benchmark.Store
	logger zerolog.Logger
}

// NewBenchmarkHandler creates a new benchmark handler.
func NewBenchmarkHandler(store benchmark.Store, logger zerolog.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		store:  store,
		logger: logger.With().Str("handler", "benchmark").Logger(),
	}
}

// Record handles POST /api/v1/benchmark.
func (h *BenchmarkHandler) Record(w http.ResponseWriter, r *http.Request) {
	var entry benchmark.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	stored := h.store.Record(entry)

	writeJSON(w, http.StatusCreated, stored)
}

// List handles GET /api/v1/benchmark.
func (h *BenchmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")

	entries := h.store.List(clientID)

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

// Stats handles GET /api/v1/benchmark/stats.
func (h *BenchmarkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}
