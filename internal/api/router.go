package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/promptboard/internal/registry"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(reg *registry.Registry, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(reg)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Boards.
	r.Get("/boards", h.ListBoards)
	r.Post("/boards", h.OpenBoard)
	r.Delete("/boards", h.CloseBoard)
	r.Post("/quick-open", h.QuickOpen)

	// Cards.
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.CreateCard)
	r.Delete("/cards", h.DeleteCard)
	r.Post("/cards/iterate", h.IterateCard)
	r.Post("/cards/copy", h.CopyCard)
	r.Post("/cards/open", h.OpenCard)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
