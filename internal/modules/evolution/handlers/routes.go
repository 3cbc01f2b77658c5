package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all evolution session routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evolution/sessions", func(r chi.Router) {
		r.Post("/", h.HandleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDelete)
			r.Post("/start", h.HandleStart)
			r.Post("/pause", h.HandlePause)
			r.Post("/reset", h.HandleReset)
			r.Post("/scrub", h.HandleScrub)
			r.Post("/params", h.HandleSetParams)
			r.Get("/history", h.HandleHistory)
			r.Get("/stream", h.HandleStream)
		})
	})
}
