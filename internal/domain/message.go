package domain

import "time"

// Message is a snapshot of a channel message.
type Message struct {
	ID        Snowflake
	ChannelID Snowflake
	GuildID   Snowflake
	AuthorID  Snowflake
	Content   string
	CreatedAt time.Time
	EditedAt  *time.Time
	DeletedAt *time.Time
}

// Attachment is a file attached to a message.
type Attachment struct {
	ID        Snowflake
	MessageID Snowflake
	Filename  string
	URL       string
	Size      int64
}

// Reaction is an aggregated per-emoji reaction count on a message.
type Reaction struct {
	MessageID Snowflake
	EmojiID   Snowflake // zero for unicode emoji
	EmojiName string    // the literal emoji for unicode, the name for custom
	Count     int
}

// HistoryEntry is one message as yielded by channel history pagination,
// bundled with everything the archiver persists alongside it.
type HistoryEntry struct {
	Message     Message
	Author      Member
	Attachments []Attachment
	Reactions   []Reaction
	Emojis      []Emoji
}

// Emoji is a custom emoji observed in a guild.
type Emoji struct {
	ID        Snowflake
	Name      string
	Animated  bool
	DeletedAt *time.Time
}
