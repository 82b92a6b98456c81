package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// RegisterEvents subscribes the sink to gateway events. Must be called before
// Open. The given context is handed to every sink invocation so handlers stop
// doing work once the application is shutting down.
func (g *Gateway) RegisterEvents(ctx context.Context, sink ports.EventSink) {
	g.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) {
		sink.HandleReady(ctx)
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageCreate) {
		if ev.Message == nil || ev.GuildID == "" {
			return
		}
		sink.HandleMessageCreate(ctx, messageFrom(ev.GuildID, ev.Message))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageUpdate) {
		// Edits of uncached messages arrive as partials without an author.
		if ev.Message == nil || ev.GuildID == "" || ev.Author == nil {
			return
		}
		sink.HandleMessageUpdate(ctx, messageFrom(ev.GuildID, ev.Message))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageDelete) {
		sink.HandleMessageDelete(ctx,
			domain.Snowflake(ev.ID), domain.Snowflake(ev.ChannelID), domain.Snowflake(ev.GuildID))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageReactionAdd) {
		sink.HandleReactionAdd(ctx, reactionEventFrom(ev.MessageReaction))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.MessageReactionRemove) {
		sink.HandleReactionRemove(ctx, reactionEventFrom(ev.MessageReaction))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildCreate) {
		if ev.Guild == nil {
			return
		}
		sink.HandleGuildCreate(ctx, guildFrom(ev.Guild))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildUpdate) {
		if ev.Guild == nil {
			return
		}
		sink.HandleGuildUpdate(ctx, guildFrom(ev.Guild))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildDelete) {
		// An unavailable guild is a Discord outage, not a removal.
		if ev.Guild == nil || ev.Unavailable {
			return
		}
		sink.HandleGuildDelete(ctx, domain.Snowflake(ev.ID))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.ChannelCreate) {
		routeChannelUpsert(ctx, sink.HandleChannelCreate, sink.HandleCategoryCreate, ev.Channel)
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.ChannelUpdate) {
		routeChannelUpsert(ctx, sink.HandleChannelUpdate, sink.HandleCategoryUpdate, ev.Channel)
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.ChannelDelete) {
		if ev.Channel == nil {
			return
		}
		switch {
		case ev.Channel.Type == discordgo.ChannelTypeGuildCategory:
			sink.HandleCategoryDelete(ctx, domain.Snowflake(ev.ID))
		case isTextChannel(ev.Channel):
			sink.HandleChannelDelete(ctx, domain.Snowflake(ev.ID))
		}
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildMemberAdd) {
		if ev.Member == nil {
			return
		}
		sink.HandleMemberAdd(ctx, memberFrom(ev.GuildID, ev.Member))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildMemberUpdate) {
		if ev.Member == nil {
			return
		}
		sink.HandleMemberUpdate(ctx, memberFrom(ev.GuildID, ev.Member))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildMemberRemove) {
		if ev.Member == nil || ev.Member.User == nil {
			return
		}
		sink.HandleMemberRemove(ctx, domain.Snowflake(ev.Member.User.ID))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildRoleCreate) {
		if ev.GuildRole == nil || ev.Role == nil {
			return
		}
		sink.HandleRoleCreate(ctx, roleFrom(ev.GuildID, ev.Role))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildRoleUpdate) {
		if ev.GuildRole == nil || ev.Role == nil {
			return
		}
		sink.HandleRoleUpdate(ctx, roleFrom(ev.GuildID, ev.Role))
	})

	g.session.AddHandler(func(_ *discordgo.Session, ev *discordgo.GuildRoleDelete) {
		sink.HandleRoleDelete(ctx, domain.Snowflake(ev.RoleID))
	})
}

// routeChannelUpsert dispatches a channel create or update by type: archivable
// text channels and categories each go to their own handler, everything else
// is dropped.
func routeChannelUpsert(ctx context.Context, text func(context.Context, domain.Channel), category func(context.Context, domain.Category), c *discordgo.Channel) {
	switch {
	case c == nil:
	case c.Type == discordgo.ChannelTypeGuildCategory:
		category(ctx, categoryFrom(c))
	case isTextChannel(c):
		text(ctx, channelFrom(c))
	}
}

func reactionEventFrom(r *discordgo.MessageReaction) ports.ReactionEvent {
	return ports.ReactionEvent{
		GuildID:   domain.Snowflake(r.GuildID),
		ChannelID: domain.Snowflake(r.ChannelID),
		MessageID: domain.Snowflake(r.MessageID),
		UserID:    domain.Snowflake(r.UserID),
		Emoji:     reactionEmoji(r.Emoji),
	}
}
