package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the evaluation history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/evaluations", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/stats", h.HandleStats)
		r.Get("/{id}", h.HandleGet)
	})
}
