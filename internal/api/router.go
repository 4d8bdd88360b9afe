package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/dagaz/internal/syncer"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *syncer.Service, runner *syncer.Runner, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, runner)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Note status and extraction triggers.
	r.Get("/notes", h.ListNoteStatus)
	r.Post("/notes/parse", h.ParseDates)

	// Background sync lifecycle.
	r.Post("/sync", h.StartSync)
	r.Get("/sync/status", h.SyncStatus)
	r.Post("/sync/cancel", h.CancelSync)

	// Structured metrics.
	r.Get("/metrics", h.ListMetrics)
	r.Get("/metrics/{date}", h.GetMetric)
	r.Get("/metrics/{date}/raw", h.RawOutput)
	r.Delete("/metrics", h.DeleteMetrics)

	// Procrastination events.
	r.Get("/procrastination", h.ListEvents)
	r.Post("/procrastination/import", h.ImportRecord)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
