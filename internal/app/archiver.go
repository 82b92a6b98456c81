package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/zloutek1/masarykbot/internal/app/fanout"
	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/platform/config"
	"github.com/zloutek1/masarykbot/internal/platform/telemetry"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Compile-time check that Archiver implements ports.ArchiveService.
var _ ports.ArchiveService = (*Archiver)(nil)

// Archiver performs full message-history backups: entity snapshots first,
// then channel history window by window until the log catches up with the
// present. Only one full run may be active at a time.
type Archiver struct {
	store   ports.Store
	gateway ports.Gateway
	cfg     config.ArchiverConfig
	metrics *telemetry.Metrics
	logger  *slog.Logger
	running atomic.Bool
	clock   func() time.Time
}

// NewArchiver creates an Archiver. Metrics may be nil.
func NewArchiver(store ports.Store, gateway ports.Gateway, cfg config.ArchiverConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Archiver {
	if cfg.WindowLength <= 0 {
		cfg.WindowLength = domain.DefaultWindowLength
	}
	if cfg.ChannelWorkers <= 0 {
		cfg.ChannelWorkers = 1
	}

	return &Archiver{
		store:   store,
		gateway: gateway,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		clock:   time.Now,
	}
}

// Status returns the guild's recorded backup windows, oldest first.
func (a *Archiver) Status(ctx context.Context, guildID domain.Snowflake) ([]domain.ArchiveWindow, error) {
	return a.store.Windows(ctx, guildID)
}

// Run re-runs the full backup every window length until ctx is canceled.
// The ready handler performs the initial catch-up, so the first scheduled
// pass waits a full period. A pass still in flight when the ticker fires is
// left alone; the run guard rejects the overlap.
func (a *Archiver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.WindowLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.RunFull(ctx); err != nil && !errors.Is(err, domain.ErrConflict) {
				a.logger.ErrorContext(ctx, "scheduled backup failed",
					slog.String("operation", "Run"),
					slog.Any("error", err),
				)
			}
		}
	}
}

// RunFull performs a complete backup pass over every guild. Returns
// domain.ErrConflict when a run is already active.
func (a *Archiver) RunFull(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return fmt.Errorf("backup already running: %w", domain.ErrConflict)
	}
	defer a.running.Store(false)

	start := a.clock()
	a.logger.InfoContext(ctx, "starting full backup")

	guilds, err := a.gateway.Guilds(ctx)
	if err != nil {
		return fmt.Errorf("listing guilds: %w", err)
	}
	if err := a.store.UpsertGuilds(ctx, guilds); err != nil {
		return fmt.Errorf("storing guilds: %w", err)
	}
	a.countRows(ctx, "guild", len(guilds))

	for _, guild := range guilds {
		if err := a.archiveGuild(ctx, guild); err != nil {
			a.logger.ErrorContext(ctx, "failed to archive guild",
				slog.String("operation", "RunFull"),
				slog.String("guild_id", guild.ID.String()),
				slog.Any("error", err),
			)
			return err
		}
	}

	elapsed := a.clock().Sub(start)
	if a.metrics != nil {
		a.metrics.ArchiveRunDuration.Record(ctx, elapsed.Seconds())
	}
	a.logger.InfoContext(ctx, "full backup finished",
		slog.Int("guilds", len(guilds)),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// archiveGuild snapshots the guild's entities and then catches the archive
// log up to the present, oldest window first.
func (a *Archiver) archiveGuild(ctx context.Context, guild domain.Guild) error {
	a.logger.InfoContext(ctx, "archiving guild", slog.String("guild_id", guild.ID.String()))

	channels, err := a.snapshotGuild(ctx, guild)
	if err != nil {
		return err
	}

	// Unfinished windows crashed mid-run; repeat them before planning new ones.
	windows, err := a.store.Windows(ctx, guild.ID)
	if err != nil {
		return fmt.Errorf("reading archive log: %w", err)
	}
	for _, w := range windows {
		if w.Finished() {
			continue
		}
		if err := a.archiveWindow(ctx, guild, channels, w.From, w.To); err != nil {
			return err
		}
	}

	var last *domain.ArchiveWindow
	if len(windows) > 0 {
		last = &windows[len(windows)-1]
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := a.clock()
		from, to := domain.NextWindow(last, guild.CreatedAt, now, a.cfg.WindowLength)
		if err := a.archiveWindow(ctx, guild, channels, from, to); err != nil {
			return err
		}

		if !domain.StillBehind(to, now, a.cfg.WindowLength) {
			return nil
		}
		last = &domain.ArchiveWindow{GuildID: guild.ID, From: from, To: to}
	}
}

// snapshotGuild stores the guild's categories, roles, members, and text
// channels, returning the channels for the history pass.
func (a *Archiver) snapshotGuild(ctx context.Context, guild domain.Guild) ([]domain.Channel, error) {
	categories, err := a.gateway.GuildCategories(ctx, guild.ID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if err := a.store.UpsertCategories(ctx, categories); err != nil {
		return nil, fmt.Errorf("storing categories: %w", err)
	}
	a.countRows(ctx, "category", len(categories))

	roles, err := a.gateway.GuildRoles(ctx, guild.ID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	if err := a.store.UpsertRoles(ctx, roles); err != nil {
		return nil, fmt.Errorf("storing roles: %w", err)
	}
	a.countRows(ctx, "role", len(roles))

	members, err := a.gateway.GuildMembers(ctx, guild.ID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	if err := a.store.UpsertMembers(ctx, members); err != nil {
		return nil, fmt.Errorf("storing members: %w", err)
	}
	a.countRows(ctx, "member", len(members))

	channels, err := a.gateway.GuildTextChannels(ctx, guild.ID)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	if err := a.store.UpsertChannels(ctx, channels); err != nil {
		return nil, fmt.Errorf("storing channels: %w", err)
	}
	a.countRows(ctx, "channel", len(channels))

	return channels, nil
}

// archiveWindow backs up one (from, to) window across all channels with
// bounded concurrency. The window is marked finished only when every channel
// succeeded, so a crashed run is repeated on the next pass.
func (a *Archiver) archiveWindow(ctx context.Context, guild domain.Guild, channels []domain.Channel, from, to time.Time) error {
	a.logger.InfoContext(ctx, "archiving window",
		slog.String("guild_id", guild.ID.String()),
		slog.Time("from", from),
		slog.Time("to", to),
	)

	if err := a.store.StartWindow(ctx, guild.ID, from, to); err != nil {
		return fmt.Errorf("starting window: %w", err)
	}

	results := fanout.Run(ctx, a.cfg.ChannelWorkers, channels, func(ctx context.Context, ch domain.Channel) (struct{}, error) {
		return struct{}{}, a.archiveChannel(ctx, ch, from, to)
	})
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("archiving window %v to %v: %w", from, to, r.Err)
		}
	}

	if err := a.store.FinishWindow(ctx, guild.ID, from, to); err != nil {
		return fmt.Errorf("finishing window: %w", err)
	}
	return nil
}

// archiveChannel streams one channel's history for the window into the store
// in batches. Channels the bot cannot read, or that vanished mid-run, are
// skipped rather than failing the window.
func (a *Archiver) archiveChannel(ctx context.Context, ch domain.Channel, from, to time.Time) error {
	if ch.Empty() {
		return nil
	}

	batch := newEntryBatch(a.cfg.BatchSize)

	err := a.gateway.ChannelHistory(ctx, ch.ID, from, to, func(entry domain.HistoryEntry) error {
		batch.add(entry)
		if batch.full() {
			return a.flushBatch(ctx, batch)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotFound) {
			a.logger.WarnContext(ctx, "skipping unreadable channel",
				slog.String("channel_id", ch.ID.String()),
				slog.Any("error", err),
			)
			return nil
		}
		return fmt.Errorf("reading history of channel %s: %w", ch.ID, err)
	}

	return a.flushBatch(ctx, batch)
}

// flushBatch writes the buffered entries: authors before messages so member
// rows exist for the leaderboard join, then the message satellites.
func (a *Archiver) flushBatch(ctx context.Context, b *entryBatch) error {
	if b.empty() {
		return nil
	}

	if err := a.store.UpsertMembers(ctx, b.authors()); err != nil {
		return fmt.Errorf("storing authors: %w", err)
	}
	if err := a.store.UpsertMessages(ctx, b.messages); err != nil {
		return fmt.Errorf("storing messages: %w", err)
	}
	if err := a.store.UpsertAttachments(ctx, b.attachments); err != nil {
		return fmt.Errorf("storing attachments: %w", err)
	}
	if err := a.store.UpsertReactions(ctx, b.reactions); err != nil {
		return fmt.Errorf("storing reactions: %w", err)
	}
	if err := a.store.UpsertEmojis(ctx, b.emojis); err != nil {
		return fmt.Errorf("storing emojis: %w", err)
	}

	a.countRows(ctx, "message", len(b.messages))
	b.reset()
	return nil
}

func (a *Archiver) countRows(ctx context.Context, entity string, n int) {
	if a.metrics == nil || n == 0 {
		return
	}
	a.metrics.ArchivedRowTotal.Add(ctx, int64(n),
		metric.WithAttributes(telemetry.AttrEntity.String(entity)))
}

// entryBatch buffers history entries until the batch size is reached.
// Authors are deduplicated by member ID.
type entryBatch struct {
	size        int
	messages    []domain.Message
	attachments []domain.Attachment
	reactions   []domain.Reaction
	emojis      []domain.Emoji
	byAuthor    map[domain.Snowflake]domain.Member
}

func newEntryBatch(size int) *entryBatch {
	if size <= 0 {
		size = 550
	}
	return &entryBatch{size: size, byAuthor: make(map[domain.Snowflake]domain.Member)}
}

func (b *entryBatch) add(entry domain.HistoryEntry) {
	b.messages = append(b.messages, entry.Message)
	b.attachments = append(b.attachments, entry.Attachments...)
	b.reactions = append(b.reactions, entry.Reactions...)
	b.emojis = append(b.emojis, entry.Emojis...)
	if !entry.Author.ID.IsZero() {
		b.byAuthor[entry.Author.ID] = entry.Author
	}
}

func (b *entryBatch) full() bool  { return len(b.messages) >= b.size }
func (b *entryBatch) empty() bool { return len(b.messages) == 0 }

func (b *entryBatch) authors() []domain.Member {
	authors := make([]domain.Member, 0, len(b.byAuthor))
	for _, m := range b.byAuthor {
		authors = append(authors, m)
	}
	return authors
}

func (b *entryBatch) reset() {
	b.messages = b.messages[:0]
	b.attachments = b.attachments[:0]
	b.reactions = b.reactions[:0]
	b.emojis = b.emojis[:0]
	clear(b.byAuthor)
}
