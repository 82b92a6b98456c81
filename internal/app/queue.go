package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/platform/config"
	"github.com/zloutek1/masarykbot/internal/platform/telemetry"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Fallback queue settings for zero config values.
const (
	defaultFlushInterval = 5 * time.Minute
	defaultInsertLimit   = 1000
	defaultUpdateLimit   = 2000
	defaultDeleteLimit   = 1000
)

// MessageQueue buffers live message events and writes them out periodically,
// so a busy guild costs a handful of batched statements per interval instead
// of one write per event. Each flush is capped per queue kind; the remainder
// stays queued for the next tick.
type MessageQueue struct {
	store   ports.MessageStore
	metrics *telemetry.Metrics
	logger  *slog.Logger

	interval    time.Duration
	insertLimit int
	updateLimit int
	deleteLimit int

	mu      sync.Mutex
	inserts map[domain.Snowflake]domain.Message
	updates map[domain.Snowflake]domain.Message
	deletes map[domain.Snowflake]struct{}
}

// NewMessageQueue creates a queue with the configured flush interval and
// per-kind limits. Metrics may be nil.
func NewMessageQueue(store ports.MessageStore, cfg config.ArchiverConfig, metrics *telemetry.Metrics, logger *slog.Logger) *MessageQueue {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if cfg.InsertLimit <= 0 {
		cfg.InsertLimit = defaultInsertLimit
	}
	if cfg.UpdateLimit <= 0 {
		cfg.UpdateLimit = defaultUpdateLimit
	}
	if cfg.DeleteLimit <= 0 {
		cfg.DeleteLimit = defaultDeleteLimit
	}

	return &MessageQueue{
		store:       store,
		metrics:     metrics,
		logger:      logger,
		interval:    cfg.FlushInterval,
		insertLimit: cfg.InsertLimit,
		updateLimit: cfg.UpdateLimit,
		deleteLimit: cfg.DeleteLimit,
		inserts:     make(map[domain.Snowflake]domain.Message),
		updates:     make(map[domain.Snowflake]domain.Message),
		deletes:     make(map[domain.Snowflake]struct{}),
	}
}

// Insert queues a newly created message.
func (q *MessageQueue) Insert(msg domain.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inserts[msg.ID] = msg
}

// Update queues an edit. An edit of a message still waiting in the insert
// queue folds into the pending insert.
func (q *MessageQueue) Update(msg domain.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if pending, ok := q.inserts[msg.ID]; ok {
		pending.Content = msg.Content
		pending.EditedAt = msg.EditedAt
		q.inserts[msg.ID] = pending
		return
	}
	q.updates[msg.ID] = msg
}

// Delete queues a soft delete. A delete of a message still waiting in the
// insert queue cancels the insert outright.
func (q *MessageQueue) Delete(id domain.Snowflake) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inserts[id]; ok {
		delete(q.inserts, id)
		return
	}
	delete(q.updates, id)
	q.deletes[id] = struct{}{}
}

// Run flushes the queue every interval until ctx is canceled, then performs
// one final flush with a fresh context so shutdown does not lose events.
func (q *MessageQueue) Run(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			q.flush(ctx)
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			q.flush(drainCtx)
			cancel()
			return
		}
	}
}

// flush writes up to the per-kind limits and logs failures; failed items are
// requeued so the next tick retries them.
func (q *MessageQueue) flush(ctx context.Context) {
	inserts, updates, deletes := q.take()
	if len(inserts)+len(updates)+len(deletes) == 0 {
		return
	}

	if len(inserts) > 0 {
		if err := q.store.UpsertMessages(ctx, inserts); err != nil {
			q.logger.ErrorContext(ctx, "failed to flush message inserts",
				slog.String("operation", "MessageQueue.flush"),
				slog.Int("count", len(inserts)),
				slog.Any("error", err),
			)
			q.requeueInserts(inserts)
		}
	}

	if len(updates) > 0 {
		if err := q.store.UpsertMessages(ctx, updates); err != nil {
			q.logger.ErrorContext(ctx, "failed to flush message updates",
				slog.String("operation", "MessageQueue.flush"),
				slog.Int("count", len(updates)),
				slog.Any("error", err),
			)
			q.requeueUpdates(updates)
		}
	}

	if len(deletes) > 0 {
		if err := q.store.SoftDeleteMessages(ctx, deletes); err != nil {
			q.logger.ErrorContext(ctx, "failed to flush message deletes",
				slog.String("operation", "MessageQueue.flush"),
				slog.Int("count", len(deletes)),
				slog.Any("error", err),
			)
			q.requeueDeletes(deletes)
		}
	}

	if q.metrics != nil {
		q.metrics.EventQueueFlushSize.Record(ctx, int64(len(inserts)+len(updates)+len(deletes)))
	}
}

// take removes up to the per-kind limits from the queues under the lock.
func (q *MessageQueue) take() (inserts, updates []domain.Message, deletes []domain.Snowflake) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, msg := range q.inserts {
		if len(inserts) == q.insertLimit {
			break
		}
		inserts = append(inserts, msg)
		delete(q.inserts, id)
	}
	for id, msg := range q.updates {
		if len(updates) == q.updateLimit {
			break
		}
		updates = append(updates, msg)
		delete(q.updates, id)
	}
	for id := range q.deletes {
		if len(deletes) == q.deleteLimit {
			break
		}
		deletes = append(deletes, id)
		delete(q.deletes, id)
	}
	return inserts, updates, deletes
}

func (q *MessageQueue) requeueInserts(msgs []domain.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range msgs {
		if _, ok := q.inserts[m.ID]; !ok {
			q.inserts[m.ID] = m
		}
	}
}

func (q *MessageQueue) requeueUpdates(msgs []domain.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range msgs {
		if _, ok := q.updates[m.ID]; !ok {
			q.updates[m.ID] = m
		}
	}
}

func (q *MessageQueue) requeueDeletes(ids []domain.Snowflake) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range ids {
		q.deletes[id] = struct{}{}
	}
}
