package ports

import (
	"context"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// ReactionEvent is a single reaction added to or removed from a message.
// Emoji is in REST API format: the literal character for unicode emoji,
// "name:id" for custom ones.
type ReactionEvent struct {
	GuildID   domain.Snowflake
	ChannelID domain.Snowflake
	MessageID domain.Snowflake
	UserID    domain.Snowflake
	Emoji     string
}

// EventSink receives gateway events translated into domain terms. The
// Discord adapter fans events into the sink from its own goroutines, so
// implementations must be safe for concurrent use.
type EventSink interface {
	// HandleReady fires once the gateway session reports ready.
	HandleReady(ctx context.Context)

	HandleMessageCreate(ctx context.Context, msg domain.Message)
	HandleMessageUpdate(ctx context.Context, msg domain.Message)
	HandleMessageDelete(ctx context.Context, id, channelID, guildID domain.Snowflake)

	HandleReactionAdd(ctx context.Context, ev ReactionEvent)
	HandleReactionRemove(ctx context.Context, ev ReactionEvent)

	HandleGuildCreate(ctx context.Context, guild domain.Guild)
	HandleGuildUpdate(ctx context.Context, guild domain.Guild)
	HandleGuildDelete(ctx context.Context, id domain.Snowflake)

	HandleChannelCreate(ctx context.Context, channel domain.Channel)
	HandleChannelUpdate(ctx context.Context, channel domain.Channel)
	HandleChannelDelete(ctx context.Context, id domain.Snowflake)

	HandleCategoryCreate(ctx context.Context, category domain.Category)
	HandleCategoryUpdate(ctx context.Context, category domain.Category)
	HandleCategoryDelete(ctx context.Context, id domain.Snowflake)

	HandleMemberAdd(ctx context.Context, member domain.Member)
	HandleMemberUpdate(ctx context.Context, member domain.Member)
	HandleMemberRemove(ctx context.Context, id domain.Snowflake)

	HandleRoleCreate(ctx context.Context, role domain.Role)
	HandleRoleUpdate(ctx context.Context, role domain.Role)
	HandleRoleDelete(ctx context.Context, id domain.Snowflake)
}
