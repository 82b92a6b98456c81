// Package handlers provides HTTP request handlers for the admin API endpoints.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zloutek1/masarykbot/internal/adapters/http/dto"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// GuildHandler handles HTTP requests for per-guild archive state and
// leaderboards, plus the archive trigger.
type GuildHandler struct {
	archive ports.ArchiveService
	board   ports.LeaderboardService
	logger  *slog.Logger
}

// NewGuildHandler creates a new GuildHandler with the given service ports.
func NewGuildHandler(archive ports.ArchiveService, board ports.LeaderboardService, logger *slog.Logger) *GuildHandler {
	return &GuildHandler{archive: archive, board: board, logger: logger}
}

// Leaderboard handles GET /api/v1/guilds/{guildId}/leaderboard.
// An optional limit query parameter caps the number of rows.
func (h *GuildHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	guildID, err := parseSnowflake(r, "guildId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	rows, err := h.board.Top(r.Context(), guildID, limit)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLeaderboardResponse(guildID, rows))
}

// ArchiveStatus handles GET /api/v1/guilds/{guildId}/archive/status.
func (h *GuildHandler) ArchiveStatus(w http.ResponseWriter, r *http.Request) {
	guildID, err := parseSnowflake(r, "guildId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	windows, err := h.archive.Status(r.Context(), guildID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToArchiveStatusResponse(guildID, windows))
}

// RunArchive handles POST /api/v1/archive/run. The backup runs detached from
// the request since a full pass can take hours. Hitting the endpoint while a
// run is in progress is a no-op logged by the concurrency guard.
func (h *GuildHandler) RunArchive(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.archive.RunFull(context.WithoutCancel(r.Context())); err != nil {
			h.logger.Error("archive run failed",
				slog.String("operation", "RunArchive"),
				slog.Any("error", err),
			)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
