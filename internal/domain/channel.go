package domain

import "time"

// Channel is a snapshot of a guild text channel.
type Channel struct {
	ID         Snowflake
	GuildID    Snowflake
	CategoryID Snowflake // zero when the channel is uncategorized
	Name       string
	Position   int
	// LastMessageID is zero when the channel has never had a message;
	// the archiver skips such channels entirely.
	LastMessageID Snowflake
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// Empty reports whether the channel has never carried a message.
func (c *Channel) Empty() bool { return c.LastMessageID.IsZero() }
