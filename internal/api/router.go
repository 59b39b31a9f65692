package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Lookup endpoints. Search and file lookup accept the backend via
	// the X-Backend header or the request body.
	r.Post("/search", h.Search)
	r.Post("/file", h.File)
	r.Get("/file/{fileNumber}", h.FileByNumber)

	// CSV data-directory diagnostics.
	r.Get("/diag", h.Diag)

	return r
}
