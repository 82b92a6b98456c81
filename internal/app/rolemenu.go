package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// RoleMenu turns reactions on menu messages into role grants and channel
// visibility. A menu message lists one "<emoji> <mention>" row per line;
// reacting with the emoji grants the row's target, removing the reaction
// revokes it.
type RoleMenu struct {
	gateway  ports.Gateway
	channels map[domain.Snowflake]bool
	logger   *slog.Logger
}

// NewRoleMenu creates the service for the configured menu channels.
func NewRoleMenu(gateway ports.Gateway, menuChannelIDs []string, logger *slog.Logger) *RoleMenu {
	channels := make(map[domain.Snowflake]bool, len(menuChannelIDs))
	for _, id := range menuChannelIDs {
		channels[domain.Snowflake(id)] = true
	}
	return &RoleMenu{gateway: gateway, channels: channels, logger: logger}
}

// IsMenuChannel reports whether the channel's messages are treated as menus.
func (r *RoleMenu) IsMenuChannel(id domain.Snowflake) bool { return r.channels[id] }

// HandleReactionAdd grants the target of the menu row whose emoji was added.
// Reactions outside menu channels, by the bot itself, or with emoji not on
// the menu are ignored.
func (r *RoleMenu) HandleReactionAdd(ctx context.Context, ev ports.ReactionEvent) error {
	entry, ok, err := r.matchEntry(ctx, ev)
	if err != nil || !ok {
		return err
	}

	switch entry.Kind {
	case domain.MenuTargetRole:
		return r.gateway.GrantRole(ctx, ev.GuildID, ev.UserID, entry.TargetID)
	case domain.MenuTargetChannel:
		return r.gateway.ShowChannel(ctx, entry.TargetID, ev.UserID)
	}
	return nil
}

// HandleReactionRemove revokes the target of the menu row whose emoji was
// removed.
func (r *RoleMenu) HandleReactionRemove(ctx context.Context, ev ports.ReactionEvent) error {
	entry, ok, err := r.matchEntry(ctx, ev)
	if err != nil || !ok {
		return err
	}

	switch entry.Kind {
	case domain.MenuTargetRole:
		return r.gateway.RevokeRole(ctx, ev.GuildID, ev.UserID, entry.TargetID)
	case domain.MenuTargetChannel:
		return r.gateway.HideChannel(ctx, entry.TargetID, ev.UserID)
	}
	return nil
}

// matchEntry resolves a reaction event to the menu row carrying its emoji.
func (r *RoleMenu) matchEntry(ctx context.Context, ev ports.ReactionEvent) (domain.MenuEntry, bool, error) {
	if !r.IsMenuChannel(ev.ChannelID) || ev.UserID == r.gateway.BotUserID() {
		return domain.MenuEntry{}, false, nil
	}

	menu, err := r.gateway.MenuMessage(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		return domain.MenuEntry{}, false, fmt.Errorf("fetching menu message %s: %w", ev.MessageID, err)
	}

	key := domain.EmojiKey(ev.Emoji)
	for _, entry := range domain.ParseMenu(menu.Content) {
		if domain.EmojiKey(entry.Emoji) == key {
			return entry, true, nil
		}
	}
	return domain.MenuEntry{}, false, nil
}

// HandleMenuEdit reconciles one menu message after it was posted or its
// content changed: reactions whose emoji no longer appears on the menu are
// cleared, missing ones are seeded, and targets are rebalanced against
// current reactors.
func (r *RoleMenu) HandleMenuEdit(ctx context.Context, channelID, messageID domain.Snowflake) error {
	if !r.IsMenuChannel(channelID) {
		return nil
	}

	menu, err := r.gateway.MenuMessage(ctx, channelID, messageID)
	if err != nil {
		return fmt.Errorf("fetching menu message %s: %w", messageID, err)
	}
	return r.syncMenu(ctx, menu)
}

// Sync reconciles every menu message of every configured menu channel.
// Called on ready so grants that happened while the bot was offline are
// caught up.
func (r *RoleMenu) Sync(ctx context.Context) error {
	var errs []error
	for channelID := range r.channels {
		menus, err := r.gateway.ChannelMenuMessages(ctx, channelID)
		if err != nil {
			errs = append(errs, fmt.Errorf("listing menus of channel %s: %w", channelID, err))
			continue
		}
		for i := range menus {
			if err := r.syncMenu(ctx, &menus[i]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// syncMenu makes one menu message consistent: the bot's seed reaction exists
// for every listed emoji, stale reactions are cleared, and every row's
// target membership matches its current reactors.
func (r *RoleMenu) syncMenu(ctx context.Context, menu *domain.MenuMessage) error {
	listed := make(map[string]bool)
	for _, emoji := range domain.MenuEmojis(menu.Content) {
		listed[domain.EmojiKey(emoji)] = true
	}

	// Clear reactions whose emoji was edited off the menu.
	for _, reaction := range menu.Reactions {
		key := reactionKey(reaction)
		if listed[key] {
			continue
		}
		if err := r.gateway.ClearReaction(ctx, menu.ChannelID, menu.ID, reactionEmojiString(reaction)); err != nil {
			return fmt.Errorf("clearing stale reaction on menu %s: %w", menu.ID, err)
		}
	}

	// Seed the bot's own reaction for listed emoji that have none yet.
	present := make(map[string]bool, len(menu.Reactions))
	for _, reaction := range menu.Reactions {
		present[reactionKey(reaction)] = true
	}
	for _, emoji := range domain.MenuEmojis(menu.Content) {
		if present[domain.EmojiKey(emoji)] {
			continue
		}
		if err := r.gateway.AddReaction(ctx, menu.ChannelID, menu.ID, emoji); err != nil {
			return fmt.Errorf("seeding reaction %q on menu %s: %w", emoji, menu.ID, err)
		}
	}

	for _, entry := range domain.ParseMenu(menu.Content) {
		if err := r.balanceEntry(ctx, menu, entry); err != nil {
			return err
		}
	}
	return nil
}

// balanceEntry grants the entry's target to members who reacted but lack it,
// and revokes it from members who hold it without a reaction.
func (r *RoleMenu) balanceEntry(ctx context.Context, menu *domain.MenuMessage, entry domain.MenuEntry) error {
	reactors, err := r.gateway.Reactors(ctx, menu.ChannelID, menu.ID, entry.Emoji)
	if err != nil {
		return fmt.Errorf("listing reactors of menu %s: %w", menu.ID, err)
	}

	botID := r.gateway.BotUserID()
	reacted := make(map[domain.Snowflake]bool, len(reactors))
	for _, id := range reactors {
		if id != botID {
			reacted[id] = true
		}
	}

	var holders []domain.Snowflake
	switch entry.Kind {
	case domain.MenuTargetRole:
		holders, err = r.gateway.RoleMembers(ctx, menu.GuildID, entry.TargetID)
	case domain.MenuTargetChannel:
		holders, err = r.gateway.ChannelVisibleMembers(ctx, menu.GuildID, entry.TargetID)
	}
	if err != nil {
		return fmt.Errorf("listing holders of target %s: %w", entry.TargetID, err)
	}

	holding := make(map[domain.Snowflake]bool, len(holders))
	for _, id := range holders {
		holding[id] = true
	}

	for id := range reacted {
		if holding[id] {
			continue
		}
		if err := r.apply(ctx, menu.GuildID, id, entry, true); err != nil {
			return err
		}
	}
	for id := range holding {
		if reacted[id] || id == botID {
			continue
		}
		if err := r.apply(ctx, menu.GuildID, id, entry, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *RoleMenu) apply(ctx context.Context, guildID, memberID domain.Snowflake, entry domain.MenuEntry, grant bool) error {
	r.logger.InfoContext(ctx, "balancing menu target",
		slog.String("member_id", memberID.String()),
		slog.String("target_id", entry.TargetID.String()),
		slog.Bool("grant", grant),
	)

	switch {
	case entry.Kind == domain.MenuTargetRole && grant:
		return r.gateway.GrantRole(ctx, guildID, memberID, entry.TargetID)
	case entry.Kind == domain.MenuTargetRole:
		return r.gateway.RevokeRole(ctx, guildID, memberID, entry.TargetID)
	case grant:
		return r.gateway.ShowChannel(ctx, entry.TargetID, memberID)
	default:
		return r.gateway.HideChannel(ctx, entry.TargetID, memberID)
	}
}

// reactionKey canonicalizes a stored reaction the same way EmojiKey does for
// emoji strings.
func reactionKey(reaction domain.Reaction) string {
	if !reaction.EmojiID.IsZero() {
		return reaction.EmojiID.String()
	}
	return reaction.EmojiName
}

// reactionEmojiString renders a stored reaction in the REST API emoji form.
func reactionEmojiString(reaction domain.Reaction) string {
	if reaction.EmojiID.IsZero() {
		return reaction.EmojiName
	}
	return reaction.EmojiName + ":" + reaction.EmojiID.String()
}
