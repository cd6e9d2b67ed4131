// Package handlers provides HTTP handlers for saved evaluations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ivibez/portal/internal/modules/history"
	"github.com/rs/zerolog"
)

// Store reads saved evaluations. *history.Repository satisfies it.
type Store interface {
	List(limit int) ([]history.Summary, error)
	Get(id string) (*history.Record, error)
	Stats() (*history.Stats, error)
}

// Handler handles evaluation history HTTP requests
type Handler struct {
	store Store
	log   zerolog.Logger
}

// NewHandler creates a new history handler
func NewHandler(store Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "history").Logger(),
	}
}

// HandleList handles GET /api/evaluations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	summaries, err := h.store.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list evaluations")
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"evaluations": summaries,
		"count":       len(summaries),
	})
}

// HandleGet handles GET /api/evaluations/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.store.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Evaluation not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to get evaluation")
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// HandleStats handles GET /api/evaluations/stats
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute evaluation stats")
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
