package discord

import (
	"regexp"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// discordEpochMillis mirrors the snowflake epoch so history pagination can
// synthesize an ID for an arbitrary point in time.
const discordEpochMillis = 1420070400000

// avatarSize is the image size requested for member and guild icons.
const avatarSize = "256"

// inlineEmojiRe finds custom emoji anywhere in message content, unlike the
// anchored menu-line form.
var inlineEmojiRe = regexp.MustCompile(`<(a?):([\w~]+):(\d+)>`)

// snowflakeAt synthesizes the smallest snowflake a Discord object created at
// t could carry. Used as an exclusive pagination cursor.
func snowflakeAt(t time.Time) domain.Snowflake {
	ms := t.UnixMilli() - discordEpochMillis
	if ms < 0 {
		ms = 0
	}
	return domain.Snowflake(strconv.FormatUint(uint64(ms)<<22, 10))
}

// apiEmoji converts an emoji from message-content form to the REST API form:
// "<:name:id>" and "<a:name:id>" become "name:id", unicode emoji pass through.
func apiEmoji(emoji string) string {
	if m := inlineEmojiRe.FindStringSubmatch(emoji); m != nil && len(m[0]) == len(emoji) {
		return m[2] + ":" + m[3]
	}
	return emoji
}

func guildFromUserGuild(g *discordgo.UserGuild) domain.Guild {
	id := domain.Snowflake(g.ID)

	iconURL := ""
	if g.Icon != "" {
		iconURL = discordgo.EndpointGuildIcon(g.ID, g.Icon)
	}

	return domain.Guild{
		ID:        id,
		Name:      g.Name,
		IconURL:   iconURL,
		CreatedAt: id.Time(),
	}
}

func guildFrom(g *discordgo.Guild) domain.Guild {
	id := domain.Snowflake(g.ID)

	return domain.Guild{
		ID:        id,
		Name:      g.Name,
		IconURL:   g.IconURL(avatarSize),
		CreatedAt: id.Time(),
	}
}

func categoryFrom(c *discordgo.Channel) domain.Category {
	id := domain.Snowflake(c.ID)

	return domain.Category{
		ID:        id,
		GuildID:   domain.Snowflake(c.GuildID),
		Name:      c.Name,
		Position:  c.Position,
		CreatedAt: id.Time(),
	}
}

func channelFrom(c *discordgo.Channel) domain.Channel {
	id := domain.Snowflake(c.ID)

	return domain.Channel{
		ID:            id,
		GuildID:       domain.Snowflake(c.GuildID),
		CategoryID:    domain.Snowflake(c.ParentID),
		Name:          c.Name,
		Position:      c.Position,
		LastMessageID: domain.Snowflake(c.LastMessageID),
		CreatedAt:     id.Time(),
	}
}

func roleFrom(guildID string, r *discordgo.Role) domain.Role {
	id := domain.Snowflake(r.ID)

	return domain.Role{
		ID:        id,
		GuildID:   domain.Snowflake(guildID),
		Name:      r.Name,
		Color:     r.Color,
		CreatedAt: id.Time(),
	}
}

func memberFrom(guildID string, m *discordgo.Member) domain.Member {
	member := domain.Member{
		GuildID:  domain.Snowflake(guildID),
		Nick:     m.Nick,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		member.ID = domain.Snowflake(m.User.ID)
		member.Name = m.User.Username
		member.AvatarURL = m.User.AvatarURL(avatarSize)
		member.Bot = m.User.Bot
	}
	return member
}

// authorFrom builds a member snapshot from a message author. Join time is
// unknown on this path, so the account creation time stands in.
func authorFrom(guildID string, u *discordgo.User) domain.Member {
	id := domain.Snowflake(u.ID)

	return domain.Member{
		ID:        id,
		GuildID:   domain.Snowflake(guildID),
		Name:      u.Username,
		AvatarURL: u.AvatarURL(avatarSize),
		Bot:       u.Bot,
		JoinedAt:  id.Time(),
	}
}

func messageFrom(guildID string, m *discordgo.Message) domain.Message {
	msg := domain.Message{
		ID:        domain.Snowflake(m.ID),
		ChannelID: domain.Snowflake(m.ChannelID),
		GuildID:   domain.Snowflake(guildID),
		Content:   m.Content,
		CreatedAt: m.Timestamp,
		EditedAt:  m.EditedTimestamp,
	}
	if m.Author != nil {
		msg.AuthorID = domain.Snowflake(m.Author.ID)
	}
	return msg
}

// historyEntryFrom bundles a message with everything the archiver persists
// alongside it: the author snapshot, attachments, aggregated reactions, and
// every custom emoji observed in the content or the reactions.
func historyEntryFrom(guildID string, m *discordgo.Message) domain.HistoryEntry {
	entry := domain.HistoryEntry{Message: messageFrom(guildID, m)}

	if m.Author != nil {
		entry.Author = authorFrom(guildID, m.Author)
	}

	for _, a := range m.Attachments {
		entry.Attachments = append(entry.Attachments, domain.Attachment{
			ID:        domain.Snowflake(a.ID),
			MessageID: entry.Message.ID,
			Filename:  a.Filename,
			URL:       a.URL,
			Size:      int64(a.Size),
		})
	}

	seen := make(map[domain.Snowflake]bool)
	for _, r := range m.Reactions {
		if r.Emoji == nil {
			continue
		}
		reaction := domain.Reaction{
			MessageID: entry.Message.ID,
			EmojiID:   domain.Snowflake(r.Emoji.ID),
			EmojiName: r.Emoji.Name,
			Count:     r.Count,
		}
		entry.Reactions = append(entry.Reactions, reaction)

		if !reaction.EmojiID.IsZero() && !seen[reaction.EmojiID] {
			seen[reaction.EmojiID] = true
			entry.Emojis = append(entry.Emojis, domain.Emoji{
				ID:       reaction.EmojiID,
				Name:     r.Emoji.Name,
				Animated: r.Emoji.Animated,
			})
		}
	}

	for _, m := range inlineEmojiRe.FindAllStringSubmatch(entry.Message.Content, -1) {
		id := domain.Snowflake(m[3])
		if seen[id] {
			continue
		}
		seen[id] = true
		entry.Emojis = append(entry.Emojis, domain.Emoji{
			ID:       id,
			Name:     m[2],
			Animated: m[1] == "a",
		})
	}

	return entry
}

func menuMessageFrom(guildID string, m *discordgo.Message) domain.MenuMessage {
	menu := domain.MenuMessage{
		ID:        domain.Snowflake(m.ID),
		ChannelID: domain.Snowflake(m.ChannelID),
		GuildID:   domain.Snowflake(guildID),
		Content:   m.Content,
	}
	for _, r := range m.Reactions {
		if r.Emoji == nil {
			continue
		}
		menu.Reactions = append(menu.Reactions, domain.Reaction{
			MessageID: menu.ID,
			EmojiID:   domain.Snowflake(r.Emoji.ID),
			EmojiName: r.Emoji.Name,
			Count:     r.Count,
		})
	}
	return menu
}

// reactionEmoji renders a gateway reaction emoji in REST API form.
func reactionEmoji(e discordgo.Emoji) string {
	if e.ID == "" {
		return e.Name
	}
	return e.Name + ":" + e.ID
}

// isTextChannel reports whether the channel carries archivable messages.
func isTextChannel(c *discordgo.Channel) bool {
	return c.Type == discordgo.ChannelTypeGuildText || c.Type == discordgo.ChannelTypeGuildNews
}
