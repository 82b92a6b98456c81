package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Commands dispatches prefixed chat commands. Unknown commands are ignored
// silently so the prefix can coexist with other bots.
type Commands struct {
	gateway   ports.Gateway
	archive   ports.ArchiveService
	board     ports.LeaderboardService
	prefix    string
	startedAt time.Time
	logger    *slog.Logger
}

// NewCommands creates the dispatcher. An empty prefix falls back to "!".
func NewCommands(gateway ports.Gateway, archive ports.ArchiveService, board ports.LeaderboardService, prefix string, logger *slog.Logger) *Commands {
	if prefix == "" {
		prefix = "!"
	}
	return &Commands{
		gateway:   gateway,
		archive:   archive,
		board:     board,
		prefix:    prefix,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// Dispatch handles msg if it is a command. Returns true when the message
// carried the command prefix or opened with a bot mention, whether or not
// the command succeeded.
func (c *Commands) Dispatch(ctx context.Context, msg domain.Message) bool {
	if msg.AuthorID == c.gateway.BotUserID() {
		return false
	}

	rest, ok := c.stripInvocation(msg.Content)
	if !ok {
		return false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}
	command := strings.ToLower(fields[0])

	c.logger.InfoContext(ctx, "dispatching command",
		slog.String("command", command),
		slog.String("guild_id", msg.GuildID.String()),
		slog.String("author_id", msg.AuthorID.String()),
	)

	var err error
	switch command {
	case "backup":
		err = c.runBackup(ctx, msg)
	case "status":
		err = c.sendStatus(ctx, msg)
	case "leaderboard", "top":
		err = c.sendLeaderboard(ctx, msg)
	case "uptime":
		err = c.sendUptime(ctx, msg)
	default:
		return true
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "command failed",
			slog.String("operation", "Dispatch"),
			slog.String("command", command),
			slog.Any("error", err),
		)
	}
	return true
}

// stripInvocation removes the command prefix or a leading bot mention,
// reporting whether the message addressed the bot at all.
func (c *Commands) stripInvocation(content string) (string, bool) {
	if rest, ok := strings.CutPrefix(content, c.prefix); ok {
		return rest, true
	}

	botID := c.gateway.BotUserID()
	if botID.IsZero() {
		return "", false
	}
	for _, mention := range []string{"<@" + botID.String() + ">", "<@!" + botID.String() + ">"} {
		if rest, ok := strings.CutPrefix(content, mention); ok {
			return rest, true
		}
	}
	return "", false
}

// runBackup starts a full archive run. Administrators only.
func (c *Commands) runBackup(ctx context.Context, msg domain.Message) error {
	admin, err := c.gateway.IsAdministrator(ctx, msg.GuildID, msg.AuthorID)
	if err != nil {
		return fmt.Errorf("checking permissions: %w", err)
	}
	if !admin {
		return c.reply(ctx, msg, "Only administrators can start a backup.")
	}

	if err := c.reply(ctx, msg, "Backup started."); err != nil {
		return err
	}

	if err := c.archive.RunFull(ctx); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.reply(ctx, msg, "A backup is already running.")
		}
		_ = c.reply(ctx, msg, "Backup failed, check the logs.")
		return fmt.Errorf("running backup: %w", err)
	}
	return c.reply(ctx, msg, "Backup finished.")
}

// sendStatus summarizes the guild's archive log.
func (c *Commands) sendStatus(ctx context.Context, msg domain.Message) error {
	windows, err := c.archive.Status(ctx, msg.GuildID)
	if err != nil {
		return fmt.Errorf("reading archive status: %w", err)
	}
	if len(windows) == 0 {
		return c.reply(ctx, msg, "No backups recorded for this guild yet.")
	}

	finished := 0
	for _, w := range windows {
		if w.Finished() {
			finished++
		}
	}
	last := windows[len(windows)-1]

	return c.reply(ctx, msg, fmt.Sprintf(
		"Backups: %d windows recorded, %d finished. Latest window covers %s to %s.",
		len(windows), finished,
		last.From.Format(time.DateOnly), last.To.Format(time.DateOnly),
	))
}

// sendLeaderboard renders the top list plus the invoker's neighborhood.
func (c *Commands) sendLeaderboard(ctx context.Context, msg domain.Message) error {
	top, around, err := c.board.ForMember(ctx, msg.GuildID, msg.AuthorID)
	if err != nil {
		return fmt.Errorf("building leaderboard: %w", err)
	}
	if len(top) == 0 {
		return c.reply(ctx, msg, "No messages archived for this guild yet.")
	}
	return c.reply(ctx, msg, domain.FormatLeaderboard(top, around, msg.AuthorID))
}

// sendUptime reports how long the bot process has been running.
func (c *Commands) sendUptime(ctx context.Context, msg domain.Message) error {
	return c.reply(ctx, msg, fmt.Sprintf("Up for %s.", time.Since(c.startedAt).Round(time.Second)))
}

func (c *Commands) reply(ctx context.Context, msg domain.Message, content string) error {
	return c.gateway.SendMessage(ctx, msg.ChannelID, content)
}
