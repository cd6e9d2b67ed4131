// Package handlers provides HTTP handlers for property feasibility estimates.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Evaluator runs an estimate. *feasibility.Service satisfies it.
type Evaluator interface {
	Evaluate(req feasibility.EvaluationRequest) (*feasibility.Report, error)
}

// Handler handles feasibility HTTP requests
type Handler struct {
	service Evaluator
	log     zerolog.Logger
}

// NewHandler creates a new feasibility handler
func NewHandler(service Evaluator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "feasibility").Logger(),
	}
}

// HandleEvaluateProperty handles POST /api/evaluate-property
func (h *Handler) HandleEvaluateProperty(w http.ResponseWriter, r *http.Request) {
	var request feasibility.EvaluationRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.service.Evaluate(request)
	if err != nil {
		var vErr *feasibility.ValidationError
		if errors.As(err, &vErr) {
			h.writeError(w, http.StatusBadRequest, vErr.Message)
			return
		}

		// Details stay in the log; the caller only learns that it failed.
		h.log.Error().Err(err).Msg("Property evaluation failed")
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.writeJSON(w, http.StatusOK, report)
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
