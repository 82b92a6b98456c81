package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// Windows returns every recorded archive window for the guild, oldest first.
func (s *Store) Windows(ctx context.Context, guildID domain.Snowflake) ([]domain.ArchiveWindow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT from_at, to_at, started_at, finished_at
		FROM archive_windows
		WHERE guild_id = $1
		ORDER BY from_at`,
		int64(guildID.Uint64()))
	if err != nil {
		return nil, fmt.Errorf("querying archive windows: %w", err)
	}
	defer rows.Close()

	var windows []domain.ArchiveWindow
	for rows.Next() {
		w := domain.ArchiveWindow{GuildID: guildID}
		if err := rows.Scan(&w.From, &w.To, &w.StartedAt, &w.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning archive window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archive windows: %w", err)
	}
	return windows, nil
}

// StartWindow records that archiving of (from, to) has begun. Re-starting an
// existing window resets StartedAt and clears FinishedAt, so an interrupted
// run is visibly unfinished again.
func (s *Store) StartWindow(ctx context.Context, guildID domain.Snowflake, from, to time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO archive_windows (guild_id, from_at, to_at, started_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (guild_id, from_at, to_at) DO UPDATE
		SET started_at = now(), finished_at = NULL`,
		int64(guildID.Uint64()), from, to)
	if err != nil {
		return fmt.Errorf("starting archive window: %w", err)
	}
	return nil
}

// FinishWindow marks the window as completed.
func (s *Store) FinishWindow(ctx context.Context, guildID domain.Snowflake, from, to time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE archive_windows
		SET finished_at = now()
		WHERE guild_id = $1 AND from_at = $2 AND to_at = $3`,
		int64(guildID.Uint64()), from, to)
	if err != nil {
		return fmt.Errorf("finishing archive window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("archive window %v to %v: %w", from, to, domain.ErrNotFound)
	}
	return nil
}
