// Package dto provides HTTP response data transfer objects and RFC 9457
// Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// LeaderboardRowResponse represents one ranked member in HTTP responses.
type LeaderboardRowResponse struct {
	Rank        int    `json:"rank"`
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	Count       int64  `json:"count"`
}

// LeaderboardResponse represents a guild leaderboard in HTTP responses.
type LeaderboardResponse struct {
	GuildID string                   `json:"guild_id"`
	Rows    []LeaderboardRowResponse `json:"rows"`
	Count   int                      `json:"count"`
}

// ToLeaderboardResponse converts ranked domain rows to an HTTP response DTO.
func ToLeaderboardResponse(guildID domain.Snowflake, rows []domain.LeaderboardRow) LeaderboardResponse {
	items := make([]LeaderboardRowResponse, len(rows))
	for i, row := range rows {
		items[i] = LeaderboardRowResponse{
			Rank:        row.Rank,
			MemberID:    row.MemberID.String(),
			DisplayName: row.DisplayName,
			Count:       row.Count,
		}
	}
	return LeaderboardResponse{
		GuildID: guildID.String(),
		Rows:    items,
		Count:   len(items),
	}
}

// ArchiveWindowResponse represents one recorded backup window in HTTP
// responses. FinishedAt is empty while the window is still being archived.
type ArchiveWindowResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// ArchiveStatusResponse represents a guild's archive log in HTTP responses.
type ArchiveStatusResponse struct {
	GuildID  string                  `json:"guild_id"`
	Windows  []ArchiveWindowResponse `json:"windows"`
	Finished int                     `json:"finished"`
	Count    int                     `json:"count"`
}

// ToArchiveStatusResponse converts a guild's recorded windows to an HTTP
// response DTO.
func ToArchiveStatusResponse(guildID domain.Snowflake, windows []domain.ArchiveWindow) ArchiveStatusResponse {
	items := make([]ArchiveWindowResponse, len(windows))
	finished := 0
	for i, w := range windows {
		items[i] = ArchiveWindowResponse{
			From:      w.From.Format(time.RFC3339),
			To:        w.To.Format(time.RFC3339),
			StartedAt: w.StartedAt.Format(time.RFC3339),
		}
		if w.Finished() {
			items[i].FinishedAt = w.FinishedAt.Format(time.RFC3339)
			finished++
		}
	}
	return ArchiveStatusResponse{
		GuildID:  guildID.String(),
		Windows:  items,
		Finished: finished,
		Count:    len(items),
	}
}
