package ports

import (
	"context"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// ArchiveService exposes archive state and control to inbound adapters.
// Implemented by the application layer's Archiver.
type ArchiveService interface {
	// Status returns the guild's recorded backup windows, oldest first.
	Status(ctx context.Context, guildID domain.Snowflake) ([]domain.ArchiveWindow, error)

	// RunFull performs a complete backup pass over every guild: snapshots,
	// then message history catch-up window by window. Blocks until done.
	RunFull(ctx context.Context) error
}

// LeaderboardService answers leaderboard queries for inbound adapters.
type LeaderboardService interface {
	// Top returns the guild's highest-ranked members by message count.
	Top(ctx context.Context, guildID domain.Snowflake, limit int) ([]domain.LeaderboardRow, error)

	// ForMember returns the top rows plus the rows ranked around the
	// member, for the command-style "you are here" rendering.
	ForMember(ctx context.Context, guildID, memberID domain.Snowflake) (top, around []domain.LeaderboardRow, err error)
}
