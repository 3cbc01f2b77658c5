package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all circuit routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/circuit", func(r chi.Router) {
		r.Post("/parse", h.HandleParse)
		r.Post("/run", h.HandleRun)
	})
}
