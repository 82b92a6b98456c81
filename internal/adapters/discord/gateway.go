// Package discord implements the outbound Discord port on top of discordgo.
// REST calls go through the session's HTTP client, which the wiring replaces
// with the instrumented pipeline client, and every method translates discordgo
// objects into domain snapshots at the boundary.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/platform/config"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Compile-time interface check.
var _ ports.Gateway = (*Gateway)(nil)

// heartbeatStale is how old the last heartbeat ack may be before the
// readiness probe reports the gateway connection unhealthy.
const heartbeatStale = 5 * time.Minute

// Gateway wraps a discordgo session as the bot's single connection to
// Discord: the websocket for events and the REST API for everything else.
type Gateway struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// New builds a configured but unopened gateway. When rest is non-nil it
// replaces the session's default HTTP client so REST traffic runs through
// the instrumented pipeline.
func New(cfg *config.BotConfig, rest *http.Client, logger *slog.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if rest != nil {
		session.Client = rest
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent

	if cfg.Status != "" {
		session.Identify.Presence = discordgo.GatewayStatusUpdate{
			Game: discordgo.Activity{Name: cfg.Status, Type: discordgo.ActivityTypeGame},
		}
	}

	return &Gateway{session: session, logger: logger}, nil
}

// Open connects the websocket session. Event handlers must be registered
// before calling Open or early events are dropped.
func (g *Gateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("opening gateway session: %w", err)
	}
	return nil
}

// Close tears down the websocket session.
func (g *Gateway) Close() error {
	return g.session.Close()
}

// BotUserID returns the bot's own user ID. Empty until the session is open.
func (g *Gateway) BotUserID() domain.Snowflake {
	user := g.session.State.User
	if user == nil {
		return ""
	}
	return domain.Snowflake(user.ID)
}

// Name identifies the gateway in health check results.
func (g *Gateway) Name() string { return "discord-gateway" }

// HealthCheck reports whether the websocket session is connected and
// heartbeats are being acknowledged.
func (g *Gateway) HealthCheck(_ context.Context) error {
	if !g.session.DataReady {
		return fmt.Errorf("discord-gateway: session not ready")
	}
	if latency := g.session.HeartbeatLatency(); latency > heartbeatStale {
		return fmt.Errorf("discord-gateway: heartbeat stale (%v)", latency)
	}
	return nil
}

// SendMessage posts content to a channel.
func (g *Gateway) SendMessage(ctx context.Context, channelID domain.Snowflake, content string) error {
	if _, err := g.session.ChannelMessageSend(channelID.String(), content, discordgo.WithContext(ctx)); err != nil {
		return mapError(fmt.Errorf("sending message to channel %s: %w", channelID, err))
	}
	return nil
}

// IsAdministrator reports whether the member owns the guild or holds a role
// with the administrator permission.
func (g *Gateway) IsAdministrator(ctx context.Context, guildID, memberID domain.Snowflake) (bool, error) {
	guild, err := g.session.Guild(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return false, mapError(fmt.Errorf("fetching guild %s: %w", guildID, err))
	}
	if guild.OwnerID == memberID.String() {
		return true, nil
	}

	member, err := g.session.GuildMember(guildID.String(), memberID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return false, mapError(fmt.Errorf("fetching member %s: %w", memberID, err))
	}

	adminRoles := make(map[string]bool, len(guild.Roles))
	for _, role := range guild.Roles {
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			adminRoles[role.ID] = true
		}
	}
	for _, roleID := range member.Roles {
		if adminRoles[roleID] {
			return true, nil
		}
	}
	return false, nil
}
