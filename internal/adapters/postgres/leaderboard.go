package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// rankedMembers ranks every non-bot member of a guild by non-deleted message
// count. Ties break on member ID so ranks are stable between queries.
const rankedMembers = `
	SELECT m.author_id,
	       COALESCE(NULLIF(mem.nick, ''), mem.name) AS display_name,
	       COUNT(*) AS messages,
	       ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC, m.author_id) AS rank
	FROM messages m
	JOIN members mem ON mem.id = m.author_id AND mem.guild_id = m.guild_id
	WHERE m.guild_id = $1 AND m.deleted_at IS NULL AND NOT mem.bot
	GROUP BY m.author_id, display_name`

// TopMembers returns the limit highest-ranked members of the guild.
func (s *Store) TopMembers(ctx context.Context, guildID domain.Snowflake, limit int) ([]domain.LeaderboardRow, error) {
	rows, err := s.pool.Query(ctx,
		rankedMembers+` ORDER BY rank LIMIT $2`,
		int64(guildID.Uint64()), limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard top: %w", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

// MemberNeighborhood returns the rows ranked within radius places of the
// member, the member's own row included. Returns domain.ErrNotFound when the
// member has no messages in the guild.
func (s *Store) MemberNeighborhood(ctx context.Context, guildID, memberID domain.Snowflake, radius int) ([]domain.LeaderboardRow, error) {
	rows, err := s.pool.Query(ctx, `
		WITH ranked AS (`+rankedMembers+`),
		target AS (SELECT rank FROM ranked WHERE author_id = $2)
		SELECT r.author_id, r.display_name, r.messages, r.rank
		FROM ranked r, target t
		WHERE r.rank BETWEEN t.rank - $3 AND t.rank + $3
		ORDER BY r.rank`,
		int64(guildID.Uint64()), int64(memberID.Uint64()), radius)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard neighborhood: %w", err)
	}
	defer rows.Close()

	result, err := scanLeaderboard(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("member %s has no messages: %w", memberID, domain.ErrNotFound)
	}
	return result, nil
}

func scanLeaderboard(rows pgx.Rows) ([]domain.LeaderboardRow, error) {
	var result []domain.LeaderboardRow
	for rows.Next() {
		var (
			row      domain.LeaderboardRow
			memberID int64
			rank     int64
		)
		if err := rows.Scan(&memberID, &row.DisplayName, &row.Count, &rank); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		row.MemberID = domain.Snowflake(strconv.FormatInt(memberID, 10))
		row.Rank = int(rank)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard rows: %w", err)
	}
	return result, nil
}
