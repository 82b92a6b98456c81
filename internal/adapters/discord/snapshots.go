package discord

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// Page sizes allowed by the REST API.
const (
	guildPageSize   = 200
	memberPageSize  = 1000
	messagePageSize = 100
)

// Guilds lists the guilds the bot is a member of, paginating as needed.
func (g *Gateway) Guilds(ctx context.Context) ([]domain.Guild, error) {
	var guilds []domain.Guild

	after := ""
	for {
		page, err := g.session.UserGuilds(guildPageSize, "", after, false, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(fmt.Errorf("listing guilds: %w", err))
		}
		for _, ug := range page {
			guilds = append(guilds, guildFromUserGuild(ug))
		}
		if len(page) < guildPageSize {
			return guilds, nil
		}
		after = page[len(page)-1].ID
	}
}

// GuildCategories lists the guild's channel categories.
func (g *Gateway) GuildCategories(ctx context.Context, guildID domain.Snowflake) ([]domain.Category, error) {
	channels, err := g.guildChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildCategory {
			categories = append(categories, categoryFrom(c))
		}
	}
	return categories, nil
}

// GuildTextChannels lists the guild's text channels.
func (g *Gateway) GuildTextChannels(ctx context.Context, guildID domain.Snowflake) ([]domain.Channel, error) {
	channels, err := g.guildChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var texts []domain.Channel
	for _, c := range channels {
		if isTextChannel(c) {
			texts = append(texts, channelFrom(c))
		}
	}
	return texts, nil
}

func (g *Gateway) guildChannels(ctx context.Context, guildID domain.Snowflake) ([]*discordgo.Channel, error) {
	channels, err := g.session.GuildChannels(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("listing channels of guild %s: %w", guildID, err))
	}
	return channels, nil
}

// GuildRoles lists the guild's roles.
func (g *Gateway) GuildRoles(ctx context.Context, guildID domain.Snowflake) ([]domain.Role, error) {
	roles, err := g.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(fmt.Errorf("listing roles of guild %s: %w", guildID, err))
	}

	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleFrom(guildID.String(), r))
	}
	return out, nil
}

// GuildMembers lists all guild members, paginating as needed.
func (g *Gateway) GuildMembers(ctx context.Context, guildID domain.Snowflake) ([]domain.Member, error) {
	var members []domain.Member

	after := ""
	for {
		page, err := g.session.GuildMembers(guildID.String(), after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(fmt.Errorf("listing members of guild %s: %w", guildID, err))
		}
		for _, m := range page {
			members = append(members, memberFrom(guildID.String(), m))
		}
		if len(page) < memberPageSize {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// ChannelHistory streams the channel's messages created in (from, to),
// oldest first, invoking fn per message.
func (g *Gateway) ChannelHistory(ctx context.Context, channelID domain.Snowflake, from, to time.Time, fn func(domain.HistoryEntry) error) error {
	channel, err := g.session.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return mapError(fmt.Errorf("fetching channel %s: %w", channelID, err))
	}
	guildID := channel.GuildID

	after := snowflakeAt(from).String()
	for {
		page, err := g.session.ChannelMessages(channelID.String(), messagePageSize, "", after, "", discordgo.WithContext(ctx))
		if err != nil {
			return mapError(fmt.Errorf("fetching history of channel %s: %w", channelID, err))
		}
		if len(page) == 0 {
			return nil
		}

		// The API does not guarantee ordering across gateway versions;
		// normalize to oldest first.
		slices.SortFunc(page, func(a, b *discordgo.Message) int {
			return a.Timestamp.Compare(b.Timestamp)
		})

		for _, m := range page {
			if !m.Timestamp.Before(to) {
				return nil
			}
			if err := fn(historyEntryFrom(guildID, m)); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if len(page) < messagePageSize {
			return nil
		}
		after = page[len(page)-1].ID
	}
}
