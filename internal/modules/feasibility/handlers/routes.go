package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the feasibility routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/evaluate-property", h.HandleEvaluateProperty)
}
