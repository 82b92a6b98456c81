package ports

import (
	"context"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// Gateway is the outbound port to Discord. Implemented by the discordgo
// adapter; called by the application services. Methods translate Discord
// API objects into domain snapshots at the boundary.
type Gateway interface {
	// BotUserID returns the bot's own user ID, so handlers can ignore
	// the bot's reactions and messages.
	BotUserID() domain.Snowflake

	// --- Snapshot reads (archiver) ---

	// Guilds lists the guilds the bot is a member of.
	Guilds(ctx context.Context) ([]domain.Guild, error)

	// GuildCategories lists the guild's channel categories.
	GuildCategories(ctx context.Context, guildID domain.Snowflake) ([]domain.Category, error)

	// GuildRoles lists the guild's roles.
	GuildRoles(ctx context.Context, guildID domain.Snowflake) ([]domain.Role, error)

	// GuildMembers lists all guild members, paginating as needed.
	GuildMembers(ctx context.Context, guildID domain.Snowflake) ([]domain.Member, error)

	// GuildTextChannels lists the guild's text channels.
	GuildTextChannels(ctx context.Context, guildID domain.Snowflake) ([]domain.Channel, error)

	// ChannelHistory streams the channel's messages created in (from, to),
	// oldest first, invoking fn per message. Iteration stops on the first
	// fn error or when ctx is canceled.
	// Returns domain.ErrForbidden when the bot cannot read the channel and
	// domain.ErrNotFound when the channel is gone.
	ChannelHistory(ctx context.Context, channelID domain.Snowflake, from, to time.Time, fn func(domain.HistoryEntry) error) error

	// --- Role menu operations ---

	// MenuMessage fetches a menu message's content and current reactions.
	MenuMessage(ctx context.Context, channelID, messageID domain.Snowflake) (*domain.MenuMessage, error)

	// ChannelMenuMessages fetches recent messages of a menu channel.
	ChannelMenuMessages(ctx context.Context, channelID domain.Snowflake) ([]domain.MenuMessage, error)

	// AddReaction makes the bot react to a message with the given emoji.
	AddReaction(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) error

	// ClearReaction removes every reaction with the given emoji.
	ClearReaction(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) error

	// Reactors lists the users who reacted to a message with the emoji.
	Reactors(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) ([]domain.Snowflake, error)

	// GrantRole / RevokeRole manage a member's role membership.
	GrantRole(ctx context.Context, guildID, memberID, roleID domain.Snowflake) error
	RevokeRole(ctx context.Context, guildID, memberID, roleID domain.Snowflake) error

	// RoleMembers lists the members currently holding the role.
	RoleMembers(ctx context.Context, guildID, roleID domain.Snowflake) ([]domain.Snowflake, error)

	// ShowChannel / HideChannel toggle a member's read access to a channel
	// via a permission overwrite. HideChannel removes the overwrite.
	ShowChannel(ctx context.Context, channelID, memberID domain.Snowflake) error
	HideChannel(ctx context.Context, channelID, memberID domain.Snowflake) error

	// ChannelVisibleMembers lists non-bot members granted read access to
	// the channel through member-level overwrites.
	ChannelVisibleMembers(ctx context.Context, guildID, channelID domain.Snowflake) ([]domain.Snowflake, error)

	// --- Commands ---

	// SendMessage posts content to a channel.
	SendMessage(ctx context.Context, channelID domain.Snowflake, content string) error

	// IsAdministrator reports whether the member holds the administrator
	// permission in the guild.
	IsAdministrator(ctx context.Context, guildID, memberID domain.Snowflake) (bool, error)
}
