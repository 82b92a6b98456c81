// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zloutek1/masarykbot/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all admin API routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	guildHandler *handlers.GuildHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/guilds/{guildId}/leaderboard", guildHandler.Leaderboard)
		r.Get("/guilds/{guildId}/archive/status", guildHandler.ArchiveStatus)
		r.Post("/archive/run", guildHandler.RunArchive)
	})

	return r
}
