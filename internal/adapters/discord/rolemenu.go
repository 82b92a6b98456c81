package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// MenuMessage fetches a menu message's content and current reactions.
func (g *Gateway) MenuMessage(ctx context.Context, channelID, messageID domain.Snowflake) (*domain.MenuMessage, error) {
	channel, err := g.session.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("fetching channel %s: %w", channelID, err))
	}

	msg, err := g.session.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("fetching message %s: %w", messageID, err))
	}

	menu := menuMessageFrom(channel.GuildID, msg)
	return &menu, nil
}

// ChannelMenuMessages fetches the most recent messages of a menu channel.
func (g *Gateway) ChannelMenuMessages(ctx context.Context, channelID domain.Snowflake) ([]domain.MenuMessage, error) {
	channel, err := g.session.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("fetching channel %s: %w", channelID, err))
	}

	msgs, err := g.session.ChannelMessages(channelID.String(), messagePageSize, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("fetching messages of channel %s: %w", channelID, err))
	}

	menus := make([]domain.MenuMessage, 0, len(msgs))
	for _, m := range msgs {
		menus = append(menus, menuMessageFrom(channel.GuildID, m))
	}
	return menus, nil
}

// AddReaction makes the bot react to a message with the given emoji.
func (g *Gateway) AddReaction(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) error {
	err := g.session.MessageReactionAdd(channelID.String(), messageID.String(), apiEmoji(emoji), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("adding reaction %q to message %s: %w", emoji, messageID, err))
	}
	return nil
}

// ClearReaction removes every reaction with the given emoji from a message.
func (g *Gateway) ClearReaction(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) error {
	err := g.session.MessageReactionsRemoveEmoji(channelID.String(), messageID.String(), apiEmoji(emoji), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("clearing reaction %q on message %s: %w", emoji, messageID, err))
	}
	return nil
}

// Reactors lists the users who reacted to a message with the emoji.
func (g *Gateway) Reactors(ctx context.Context, channelID, messageID domain.Snowflake, emoji string) ([]domain.Snowflake, error) {
	var users []domain.Snowflake

	after := ""
	for {
		page, err := g.session.MessageReactions(channelID.String(), messageID.String(), apiEmoji(emoji),
			messagePageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(fmt.Errorf("listing reactors of message %s: %w", messageID, err))
		}
		for _, u := range page {
			users = append(users, domain.Snowflake(u.ID))
		}
		if len(page) < messagePageSize {
			return users, nil
		}
		after = page[len(page)-1].ID
	}
}

// GrantRole adds the role to the member.
func (g *Gateway) GrantRole(ctx context.Context, guildID, memberID, roleID domain.Snowflake) error {
	err := g.session.GuildMemberRoleAdd(guildID.String(), memberID.String(), roleID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("granting role %s to member %s: %w", roleID, memberID, err))
	}
	return nil
}

// RevokeRole removes the role from the member.
func (g *Gateway) RevokeRole(ctx context.Context, guildID, memberID, roleID domain.Snowflake) error {
	err := g.session.GuildMemberRoleRemove(guildID.String(), memberID.String(), roleID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("revoking role %s from member %s: %w", roleID, memberID, err))
	}
	return nil
}

// RoleMembers lists the members currently holding the role.
func (g *Gateway) RoleMembers(ctx context.Context, guildID, roleID domain.Snowflake) ([]domain.Snowflake, error) {
	var holders []domain.Snowflake

	after := ""
	for {
		page, err := g.session.GuildMembers(guildID.String(), after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(fmt.Errorf("listing members of guild %s: %w", guildID, err))
		}
		for _, m := range page {
			for _, r := range m.Roles {
				if r == roleID.String() {
					holders = append(holders, domain.Snowflake(m.User.ID))
					break
				}
			}
		}
		if len(page) < memberPageSize {
			return holders, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// ShowChannel grants the member read access to the channel via a member-level
// permission overwrite.
func (g *Gateway) ShowChannel(ctx context.Context, channelID, memberID domain.Snowflake) error {
	err := g.session.ChannelPermissionSet(channelID.String(), memberID.String(),
		discordgo.PermissionOverwriteTypeMember, discordgo.PermissionViewChannel, 0, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("showing channel %s to member %s: %w", channelID, memberID, err))
	}
	return nil
}

// HideChannel removes the member's permission overwrite from the channel.
func (g *Gateway) HideChannel(ctx context.Context, channelID, memberID domain.Snowflake) error {
	err := g.session.ChannelPermissionDelete(channelID.String(), memberID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("hiding channel %s from member %s: %w", channelID, memberID, err))
	}
	return nil
}

// ChannelVisibleMembers lists non-bot members granted read access to the
// channel through member-level overwrites.
func (g *Gateway) ChannelVisibleMembers(ctx context.Context, guildID, channelID domain.Snowflake) ([]domain.Snowflake, error) {
	channel, err := g.session.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("fetching channel %s: %w", channelID, err))
	}

	var visible []domain.Snowflake
	for _, ow := range channel.PermissionOverwrites {
		if ow.Type != discordgo.PermissionOverwriteTypeMember || ow.Allow&discordgo.PermissionViewChannel == 0 {
			continue
		}

		member, err := g.session.GuildMember(guildID.String(), ow.ID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(fmt.Errorf("fetching member %s: %w", ow.ID, err))
		}
		if member.User != nil && member.User.Bot {
			continue
		}
		visible = append(visible, domain.Snowflake(ow.ID))
	}
	return visible, nil
}
