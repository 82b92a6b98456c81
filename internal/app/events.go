package app

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/platform/telemetry"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Compile-time check that EventRouter implements ports.EventSink.
var _ ports.EventSink = (*EventRouter)(nil)

// EventRouter fans gateway events into the interested services: entity
// snapshots are stored immediately, message traffic goes through the flush
// queue, reactions feed the role menus, and message creates are offered to
// the command dispatcher first.
type EventRouter struct {
	store    ports.Store
	queue    *MessageQueue
	menus    *RoleMenu
	archive  ports.ArchiveService
	commands *Commands
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewEventRouter creates the router. Metrics may be nil.
func NewEventRouter(store ports.Store, queue *MessageQueue, menus *RoleMenu, archive ports.ArchiveService, commands *Commands, metrics *telemetry.Metrics, logger *slog.Logger) *EventRouter {
	return &EventRouter{
		store:    store,
		queue:    queue,
		menus:    menus,
		archive:  archive,
		commands: commands,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleReady reconciles the role menus and starts the catch-up backup so
// grants and messages from the bot's downtime are recovered. The gateway
// dispatches handlers on their own goroutines, so the backup runs inline.
func (r *EventRouter) HandleReady(ctx context.Context) {
	r.count(ctx, "ready")
	r.logger.InfoContext(ctx, "gateway ready, reconciling role menus")

	if err := r.menus.Sync(ctx); err != nil {
		r.logger.ErrorContext(ctx, "failed to reconcile role menus",
			slog.String("operation", "HandleReady"),
			slog.Any("error", err),
		)
	}

	if err := r.archive.RunFull(ctx); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			r.logger.InfoContext(ctx, "backup already running, skipping ready catch-up")
			return
		}
		r.logger.ErrorContext(ctx, "ready catch-up backup failed",
			slog.String("operation", "HandleReady"),
			slog.Any("error", err),
		)
	}
}

func (r *EventRouter) HandleMessageCreate(ctx context.Context, msg domain.Message) {
	r.count(ctx, "message_create")

	r.commands.Dispatch(ctx, msg)
	r.queue.Insert(msg)

	// A message posted into a menu channel is a fresh menu: seed its
	// reactions right away.
	if r.menus.IsMenuChannel(msg.ChannelID) {
		if err := r.menus.HandleMenuEdit(ctx, msg.ChannelID, msg.ID); err != nil {
			r.logError(ctx, "HandleMessageCreate", err)
		}
	}
}

func (r *EventRouter) HandleMessageUpdate(ctx context.Context, msg domain.Message) {
	r.count(ctx, "message_update")
	r.queue.Update(msg)

	if r.menus.IsMenuChannel(msg.ChannelID) {
		if err := r.menus.HandleMenuEdit(ctx, msg.ChannelID, msg.ID); err != nil {
			r.logError(ctx, "HandleMessageUpdate", err)
		}
	}
}

func (r *EventRouter) HandleMessageDelete(ctx context.Context, id, _, _ domain.Snowflake) {
	r.count(ctx, "message_delete")
	r.queue.Delete(id)
}

func (r *EventRouter) HandleReactionAdd(ctx context.Context, ev ports.ReactionEvent) {
	r.count(ctx, "reaction_add")
	if err := r.menus.HandleReactionAdd(ctx, ev); err != nil {
		r.logError(ctx, "HandleReactionAdd", err)
	}
}

func (r *EventRouter) HandleReactionRemove(ctx context.Context, ev ports.ReactionEvent) {
	r.count(ctx, "reaction_remove")
	if err := r.menus.HandleReactionRemove(ctx, ev); err != nil {
		r.logError(ctx, "HandleReactionRemove", err)
	}
}

func (r *EventRouter) HandleGuildCreate(ctx context.Context, guild domain.Guild) {
	r.count(ctx, "guild_create")
	if err := r.store.UpsertGuilds(ctx, []domain.Guild{guild}); err != nil {
		r.logError(ctx, "HandleGuildCreate", err)
	}
}

func (r *EventRouter) HandleGuildUpdate(ctx context.Context, guild domain.Guild) {
	r.count(ctx, "guild_update")
	if err := r.store.UpsertGuilds(ctx, []domain.Guild{guild}); err != nil {
		r.logError(ctx, "HandleGuildUpdate", err)
	}
}

func (r *EventRouter) HandleGuildDelete(ctx context.Context, id domain.Snowflake) {
	r.count(ctx, "guild_delete")
	if err := r.store.SoftDeleteGuilds(ctx, []domain.Snowflake{id}); err != nil {
		r.logError(ctx, "HandleGuildDelete", err)
	}
}

func (r *EventRouter) HandleChannelCreate(ctx context.Context, channel domain.Channel) {
	r.count(ctx, "channel_create")
	if err := r.store.UpsertChannels(ctx, []domain.Channel{channel}); err != nil {
		r.logError(ctx, "HandleChannelCreate", err)
	}
}

func (r *EventRouter) HandleChannelUpdate(ctx context.Context, channel domain.Channel) {
	r.count(ctx, "channel_update")
	if err := r.store.UpsertChannels(ctx, []domain.Channel{channel}); err != nil {
		r.logError(ctx, "HandleChannelUpdate", err)
	}
}

func (r *EventRouter) HandleChannelDelete(ctx context.Context, id domain.Snowflake) {
	r.count(ctx, "channel_delete")
	if err := r.store.SoftDeleteChannels(ctx, []domain.Snowflake{id}); err != nil {
		r.logError(ctx, "HandleChannelDelete", err)
	}
}

func (r *EventRouter) HandleCategoryCreate(ctx context.Context, category domain.Category) {
	r.count(ctx, "category_create")
	if err := r.store.UpsertCategories(ctx, []domain.Category{category}); err != nil {
		r.logError(ctx, "HandleCategoryCreate", err)
	}
}

func (r *EventRouter) HandleCategoryUpdate(ctx context.Context, category domain.Category) {
	r.count(ctx, "category_update")
	if err := r.store.UpsertCategories(ctx, []domain.Category{category}); err != nil {
		r.logError(ctx, "HandleCategoryUpdate", err)
	}
}

func (r *EventRouter) HandleCategoryDelete(ctx context.Context, id domain.Snowflake) {
	r.count(ctx, "category_delete")
	if err := r.store.SoftDeleteCategories(ctx, []domain.Snowflake{id}); err != nil {
		r.logError(ctx, "HandleCategoryDelete", err)
	}
}

func (r *EventRouter) HandleMemberAdd(ctx context.Context, member domain.Member) {
	r.count(ctx, "member_add")
	if err := r.store.UpsertMembers(ctx, []domain.Member{member}); err != nil {
		r.logError(ctx, "HandleMemberAdd", err)
	}
}

func (r *EventRouter) HandleMemberUpdate(ctx context.Context, member domain.Member) {
	r.count(ctx, "member_update")
	if err := r.store.UpsertMembers(ctx, []domain.Member{member}); err != nil {
		r.logError(ctx, "HandleMemberUpdate", err)
	}
}

func (r *EventRouter) HandleMemberRemove(ctx context.Context, id domain.Snowflake) {
	r.count(ctx, "member_remove")
	if err := r.store.SoftDeleteMembers(ctx, []domain.Snowflake{id}); err != nil {
		r.logError(ctx, "HandleMemberRemove", err)
	}
}

func (r *EventRouter) HandleRoleCreate(ctx context.Context, role domain.Role) {
	r.count(ctx, "role_create")
	if err := r.store.UpsertRoles(ctx, []domain.Role{role}); err != nil {
		r.logError(ctx, "HandleRoleCreate", err)
	}
}

func (r *EventRouter) HandleRoleUpdate(ctx context.Context, role domain.Role) {
	r.count(ctx, "role_update")
	if err := r.store.UpsertRoles(ctx, []domain.Role{role}); err != nil {
		r.logError(ctx, "HandleRoleUpdate", err)
	}
}

func (r *EventRouter) HandleRoleDelete(ctx context.Context, id domain.Snowflake) {
	r.count(ctx, "role_delete")
	if err := r.store.SoftDeleteRoles(ctx, []domain.Snowflake{id}); err != nil {
		r.logError(ctx, "HandleRoleDelete", err)
	}
}

func (r *EventRouter) count(ctx context.Context, eventType string) {
	if r.metrics == nil {
		return
	}
	r.metrics.GatewayEventTotal.Add(ctx, 1,
		metric.WithAttributes(telemetry.AttrEventType.String(eventType)))
}

func (r *EventRouter) logError(ctx context.Context, operation string, err error) {
	r.logger.ErrorContext(ctx, "failed to handle gateway event",
		slog.String("operation", operation),
		slog.Any("error", err),
	)
}
