package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Compile-time check that Leaderboard implements ports.LeaderboardService.
var _ ports.LeaderboardService = (*Leaderboard)(nil)

// Default shape of the rendered leaderboard.
const (
	defaultTopLimit    = 10
	neighborhoodRadius = 2
)

// Leaderboard answers ranked message-count queries for the command handler
// and the admin HTTP API.
type Leaderboard struct {
	store  ports.LeaderboardStore
	logger *slog.Logger
}

// NewLeaderboard creates the service.
func NewLeaderboard(store ports.LeaderboardStore, logger *slog.Logger) *Leaderboard {
	return &Leaderboard{store: store, logger: logger}
}

// Top returns the guild's highest-ranked members by message count.
// A non-positive limit falls back to the default.
func (l *Leaderboard) Top(ctx context.Context, guildID domain.Snowflake, limit int) ([]domain.LeaderboardRow, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := l.store.TopMembers(ctx, guildID, limit)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to query leaderboard",
			slog.String("operation", "Top"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("querying top members: %w", err)
	}
	return rows, nil
}

// ForMember returns the top rows plus the rows ranked around the member.
// A member without messages yields an empty around section rather than an
// error, so the command still renders the top list.
func (l *Leaderboard) ForMember(ctx context.Context, guildID, memberID domain.Snowflake) (top, around []domain.LeaderboardRow, err error) {
	top, err = l.Top(ctx, guildID, defaultTopLimit)
	if err != nil {
		return nil, nil, err
	}

	around, err = l.store.MemberNeighborhood(ctx, guildID, memberID, neighborhoodRadius)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return top, nil, nil
		}
		l.logger.ErrorContext(ctx, "failed to query member neighborhood",
			slog.String("operation", "ForMember"),
			slog.String("guild_id", guildID.String()),
			slog.String("member_id", memberID.String()),
			slog.Any("error", err),
		)
		return nil, nil, fmt.Errorf("querying member neighborhood: %w", err)
	}
	return top, around, nil
}
