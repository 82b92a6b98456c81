package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// MenuTargetKind distinguishes what a role menu entry grants.
type MenuTargetKind int

const (
	// MenuTargetRole grants and revokes a guild role.
	MenuTargetRole MenuTargetKind = iota
	// MenuTargetChannel shows and hides a channel via a permission overwrite.
	MenuTargetChannel
)

// MenuEntry is one parsed line of a role menu message: an emoji followed by
// a role or channel mention. Reacting with the emoji grants the target;
// removing the reaction revokes it.
type MenuEntry struct {
	Emoji    string // unicode emoji literal or custom emoji form <:name:id>
	Kind     MenuTargetKind
	TargetID Snowflake
}

// MenuMessage is a role menu message as fetched from Discord: its content
// (the menu rows) plus the reactions currently on it.
type MenuMessage struct {
	ID        Snowflake
	ChannelID Snowflake
	GuildID   Snowflake
	Content   string
	Reactions []Reaction
}

var (
	roleMentionRe    = regexp.MustCompile(`^<@&(\d+)>`)
	channelMentionRe = regexp.MustCompile(`^<#(\d+)>`)
	customEmojiRe    = regexp.MustCompile(`^<a?:[\w~]+:(\d+)>$`)
)

// ParseMenu splits a menu message into entries. Each non-empty line is
// expected to be "<emoji> <mention> ...". Lines without a recognizable
// role or channel mention after the emoji are skipped rather than treated
// as errors: menu messages routinely contain headings and prose.
func ParseMenu(content string) []MenuEntry {
	var entries []MenuEntry

	for _, line := range strings.Split(content, "\n") {
		if entry, ok := ParseMenuLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// ParseMenuLine parses a single "<emoji> <mention>" row. The second return
// value is false when the line is not a menu row.
func ParseMenuLine(line string) (MenuEntry, bool) {
	emoji, rest, found := strings.Cut(strings.TrimSpace(line), " ")
	if !found || emoji == "" {
		return MenuEntry{}, false
	}
	rest = strings.TrimSpace(rest)

	if m := roleMentionRe.FindStringSubmatch(rest); m != nil {
		return MenuEntry{Emoji: emoji, Kind: MenuTargetRole, TargetID: Snowflake(m[1])}, true
	}
	if m := channelMentionRe.FindStringSubmatch(rest); m != nil {
		return MenuEntry{Emoji: emoji, Kind: MenuTargetChannel, TargetID: Snowflake(m[1])}, true
	}
	return MenuEntry{}, false
}

// MenuEmojis returns every emoji appearing at the start of a line of the
// menu message, including lines whose target failed to parse. The bot seeds
// one reaction per listed emoji so authors get immediate feedback even while
// still editing the mention half of a row.
func MenuEmojis(content string) []string {
	var emojis []string

	for _, line := range strings.Split(content, "\n") {
		emoji, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if emoji == "" {
			continue
		}
		emojis = append(emojis, emoji)
	}
	return emojis
}

// CustomEmojiID extracts the snowflake from a custom emoji in the
// <:name:id> or animated <a:name:id> form. Returns the zero snowflake for
// unicode emoji.
func CustomEmojiID(emoji string) Snowflake {
	if m := customEmojiRe.FindStringSubmatch(emoji); m != nil {
		return Snowflake(m[1])
	}
	return ""
}

// EmojiKey canonicalizes an emoji so the message-content form (<:name:id>),
// the REST API form (name:id), and the unicode literal compare equal: custom
// emoji map to their ID, unicode emoji to themselves.
func EmojiKey(emoji string) string {
	if id := CustomEmojiID(emoji); !id.IsZero() {
		return id.String()
	}
	if i := strings.LastIndexByte(emoji, ':'); i > 0 {
		if _, err := strconv.ParseUint(emoji[i+1:], 10, 64); err == nil {
			return emoji[i+1:]
		}
	}
	return emoji
}
