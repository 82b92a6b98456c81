package domain

import (
	"strings"
	"time"
)

// Guild is a snapshot of a Discord guild as the archiver persists it.
type Guild struct {
	ID        Snowflake
	Name      string
	IconURL   string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Validate checks business rules for the Guild snapshot.
func (g *Guild) Validate() error {
	fields := make(map[string]string)

	if g.ID.IsZero() {
		fields["id"] = MsgRequired
	}
	if strings.TrimSpace(g.Name) == "" {
		fields["name"] = MsgRequired
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Category is a snapshot of a guild channel category.
type Category struct {
	ID        Snowflake
	GuildID   Snowflake
	Name      string
	Position  int
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Role is a snapshot of a guild role.
type Role struct {
	ID        Snowflake
	GuildID   Snowflake
	Name      string
	Color     int
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Member is a snapshot of a guild member.
type Member struct {
	ID        Snowflake
	GuildID   Snowflake
	Name      string
	Nick      string
	AvatarURL string
	Bot       bool
	JoinedAt  time.Time
	DeletedAt *time.Time
}

// DisplayName returns the member's nickname when set, the account name otherwise.
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Name
}
