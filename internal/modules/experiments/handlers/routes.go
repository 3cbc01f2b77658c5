package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all experiment routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/experiments", func(r chi.Router) {
		r.Post("/bell", h.HandleBell)
		r.Post("/ghz", h.HandleGHZ)
		r.Post("/bb84", h.HandleBB84)
		r.Post("/stern-gerlach", h.HandleSternGerlach)
		r.Get("/history", h.HandleHistory)
	})
}
