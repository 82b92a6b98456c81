package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// UpsertGuilds inserts or refreshes guild snapshots. A re-appearing guild has
// its soft delete cleared.
func (s *Store) UpsertGuilds(ctx context.Context, guilds []domain.Guild) error {
	return execBatched(ctx, s, guilds, func(b *pgx.Batch, g domain.Guild) {
		b.Queue(`
			INSERT INTO guilds (id, name, icon_url, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, icon_url = EXCLUDED.icon_url, deleted_at = NULL`,
			int64(g.ID.Uint64()), g.Name, g.IconURL, g.CreatedAt)
	})
}

// SoftDeleteGuilds marks guilds as deleted without removing their rows.
func (s *Store) SoftDeleteGuilds(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "guilds", ids)
}

// UpsertCategories inserts or refreshes channel category snapshots.
func (s *Store) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	return execBatched(ctx, s, categories, func(b *pgx.Batch, c domain.Category) {
		b.Queue(`
			INSERT INTO categories (id, guild_id, name, position, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, position = EXCLUDED.position, deleted_at = NULL`,
			int64(c.ID.Uint64()), int64(c.GuildID.Uint64()), c.Name, c.Position, c.CreatedAt)
	})
}

// UpsertChannels inserts or refreshes text channel snapshots.
func (s *Store) UpsertChannels(ctx context.Context, channels []domain.Channel) error {
	return execBatched(ctx, s, channels, func(b *pgx.Batch, c domain.Channel) {
		b.Queue(`
			INSERT INTO channels (id, guild_id, category_id, name, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET category_id = EXCLUDED.category_id, name = EXCLUDED.name,
			    position = EXCLUDED.position, deleted_at = NULL`,
			int64(c.ID.Uint64()), int64(c.GuildID.Uint64()), nullableID(c.CategoryID),
			c.Name, c.Position, c.CreatedAt)
	})
}

// SoftDeleteCategories marks categories as deleted.
func (s *Store) SoftDeleteCategories(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "categories", ids)
}

// SoftDeleteChannels marks channels as deleted.
func (s *Store) SoftDeleteChannels(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "channels", ids)
}

// UpsertRoles inserts or refreshes role snapshots.
func (s *Store) UpsertRoles(ctx context.Context, roles []domain.Role) error {
	return execBatched(ctx, s, roles, func(b *pgx.Batch, r domain.Role) {
		b.Queue(`
			INSERT INTO roles (id, guild_id, name, color, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, color = EXCLUDED.color, deleted_at = NULL`,
			int64(r.ID.Uint64()), int64(r.GuildID.Uint64()), r.Name, r.Color, r.CreatedAt)
	})
}

// SoftDeleteRoles marks roles as deleted.
func (s *Store) SoftDeleteRoles(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "roles", ids)
}

// UpsertMembers inserts or refreshes member snapshots.
func (s *Store) UpsertMembers(ctx context.Context, members []domain.Member) error {
	return execBatched(ctx, s, members, func(b *pgx.Batch, m domain.Member) {
		b.Queue(`
			INSERT INTO members (id, guild_id, name, nick, avatar_url, bot, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id, guild_id) DO UPDATE
			SET name = EXCLUDED.name, nick = EXCLUDED.nick,
			    avatar_url = EXCLUDED.avatar_url, deleted_at = NULL`,
			int64(m.ID.Uint64()), int64(m.GuildID.Uint64()), m.Name, m.Nick,
			m.AvatarURL, m.Bot, m.JoinedAt)
	})
}

// SoftDeleteMembers marks members as deleted.
func (s *Store) SoftDeleteMembers(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "members", ids)
}

// softDelete stamps deleted_at on the given rows. Table names are fixed
// call-site literals, never user input.
func (s *Store) softDelete(ctx context.Context, table string, ids []domain.Snowflake) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET deleted_at = now() WHERE id = ANY($1) AND deleted_at IS NULL`, table)
	if _, err := s.pool.Exec(ctx, query, int64IDs(ids)); err != nil {
		return fmt.Errorf("soft deleting from %s: %w", table, err)
	}
	return nil
}
