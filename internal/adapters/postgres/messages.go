package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// UpsertMessages inserts or refreshes message snapshots. Edited content
// overwrites the stored row; a re-archived deleted message stays deleted
// only if Discord no longer returns it, so the upsert clears the flag.
func (s *Store) UpsertMessages(ctx context.Context, messages []domain.Message) error {
	return execBatched(ctx, s, messages, func(b *pgx.Batch, m domain.Message) {
		b.Queue(`
			INSERT INTO messages (id, channel_id, guild_id, author_id, content, created_at, edited_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET content = EXCLUDED.content, edited_at = EXCLUDED.edited_at, deleted_at = NULL`,
			int64(m.ID.Uint64()), int64(m.ChannelID.Uint64()), int64(m.GuildID.Uint64()),
			int64(m.AuthorID.Uint64()), m.Content, m.CreatedAt, m.EditedAt)
	})
}

// UpsertAttachments inserts or refreshes message attachments.
func (s *Store) UpsertAttachments(ctx context.Context, attachments []domain.Attachment) error {
	return execBatched(ctx, s, attachments, func(b *pgx.Batch, a domain.Attachment) {
		b.Queue(`
			INSERT INTO attachments (id, message_id, filename, url, size)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET filename = EXCLUDED.filename, url = EXCLUDED.url, size = EXCLUDED.size`,
			int64(a.ID.Uint64()), int64(a.MessageID.Uint64()), a.Filename, a.URL, a.Size)
	})
}

// UpsertReactions inserts or refreshes aggregated per-emoji reaction counts.
// Unicode emoji have a zero EmojiID and are keyed by name instead.
func (s *Store) UpsertReactions(ctx context.Context, reactions []domain.Reaction) error {
	return execBatched(ctx, s, reactions, func(b *pgx.Batch, r domain.Reaction) {
		b.Queue(`
			INSERT INTO reactions (message_id, emoji_id, emoji_name, count)
			VALUES ($1, COALESCE($2, 0), $3, $4)
			ON CONFLICT (message_id, emoji_id, emoji_name) DO UPDATE
			SET count = EXCLUDED.count`,
			int64(r.MessageID.Uint64()), nullableID(r.EmojiID), r.EmojiName, r.Count)
	})
}

// UpsertEmojis inserts or refreshes custom emoji observed in messages.
func (s *Store) UpsertEmojis(ctx context.Context, emojis []domain.Emoji) error {
	return execBatched(ctx, s, emojis, func(b *pgx.Batch, e domain.Emoji) {
		b.Queue(`
			INSERT INTO emojis (id, name, animated)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, animated = EXCLUDED.animated, deleted_at = NULL`,
			int64(e.ID.Uint64()), e.Name, e.Animated)
	})
}

// SoftDeleteMessages marks messages as deleted, keeping their content.
func (s *Store) SoftDeleteMessages(ctx context.Context, ids []domain.Snowflake) error {
	return s.softDelete(ctx, "messages", ids)
}
