package ports

import (
	"context"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// GuildStore persists guild snapshots.
type GuildStore interface {
	// UpsertGuilds inserts or updates guild snapshots, clearing any
	// previous soft delete.
	UpsertGuilds(ctx context.Context, guilds []domain.Guild) error

	// SoftDeleteGuilds marks guilds as deleted without removing rows.
	SoftDeleteGuilds(ctx context.Context, ids []domain.Snowflake) error
}

// ChannelStore persists category and text channel snapshots.
type ChannelStore interface {
	UpsertCategories(ctx context.Context, categories []domain.Category) error
	UpsertChannels(ctx context.Context, channels []domain.Channel) error
	SoftDeleteCategories(ctx context.Context, ids []domain.Snowflake) error
	SoftDeleteChannels(ctx context.Context, ids []domain.Snowflake) error
}

// RoleStore persists role snapshots.
type RoleStore interface {
	UpsertRoles(ctx context.Context, roles []domain.Role) error
	SoftDeleteRoles(ctx context.Context, ids []domain.Snowflake) error
}

// MemberStore persists member snapshots.
type MemberStore interface {
	UpsertMembers(ctx context.Context, members []domain.Member) error
	SoftDeleteMembers(ctx context.Context, ids []domain.Snowflake) error
}

// MessageStore persists messages and their satellites (attachments,
// reactions, custom emojis).
type MessageStore interface {
	UpsertMessages(ctx context.Context, messages []domain.Message) error
	UpsertAttachments(ctx context.Context, attachments []domain.Attachment) error
	UpsertReactions(ctx context.Context, reactions []domain.Reaction) error
	UpsertEmojis(ctx context.Context, emojis []domain.Emoji) error
	SoftDeleteMessages(ctx context.Context, ids []domain.Snowflake) error
}

// ArchiveLogStore tracks message-history backup windows per guild.
type ArchiveLogStore interface {
	// Windows returns all recorded windows for the guild, oldest first.
	Windows(ctx context.Context, guildID domain.Snowflake) ([]domain.ArchiveWindow, error)

	// StartWindow records that archiving of (from, to) has begun. Starting
	// an already-recorded window resets its StartedAt and clears FinishedAt.
	StartWindow(ctx context.Context, guildID domain.Snowflake, from, to time.Time) error

	// FinishWindow marks the window as completed.
	FinishWindow(ctx context.Context, guildID domain.Snowflake, from, to time.Time) error
}

// LeaderboardStore answers ranked message-count queries.
type LeaderboardStore interface {
	// TopMembers returns the limit highest-ranked members of the guild by
	// non-deleted message count.
	TopMembers(ctx context.Context, guildID domain.Snowflake, limit int) ([]domain.LeaderboardRow, error)

	// MemberNeighborhood returns the rows ranked within radius places of
	// the given member, the member's own row included.
	// Returns domain.ErrNotFound when the member has no messages.
	MemberNeighborhood(ctx context.Context, guildID, memberID domain.Snowflake, radius int) ([]domain.LeaderboardRow, error)
}

// Store aggregates every persistence port the bot needs. Implemented by the
// Postgres adapter; the aggregate exists so wiring can hand one dependency
// to services that archive several entity kinds in one pass.
type Store interface {
	GuildStore
	ChannelStore
	RoleStore
	MemberStore
	MessageStore
	ArchiveLogStore
	LeaderboardStore
}
