// Package postgres implements the persistence ports on PostgreSQL using the
// pgx driver. All snapshot writes are idempotent upserts so an archive run
// can be repeated without duplicating rows; deletes are soft (a deleted_at
// timestamp) so history survives entity removal on the Discord side.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zloutek1/masarykbot/internal/domain"
	"github.com/zloutek1/masarykbot/internal/platform/config"
	"github.com/zloutek1/masarykbot/internal/ports"
)

// Compile-time interface check.
var _ ports.Store = (*Store)(nil)

// defaultBatchSize bounds multi-row upserts when no batch size is configured.
const defaultBatchSize = 550

// Store implements every persistence port on a pgx connection pool.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
	logger    *slog.Logger
}

// New connects to Postgres and verifies the connection with a ping.
// The caller owns the returned Store and must Close it on shutdown.
func New(ctx context.Context, cfg *config.DatabaseConfig, batchSize int, logger *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Store{pool: pool, batchSize: batchSize, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// Name identifies the store in health check results.
func (s *Store) Name() string { return "postgres" }

// HealthCheck reports database reachability via a pool ping.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

// execBatched queues one statement per row and sends them in batches bounded
// by the store's batch size, so a large archive window never produces an
// unbounded pipeline.
func execBatched[T any](ctx context.Context, s *Store, rows []T, queue func(*pgx.Batch, T)) error {
	for _, part := range chunk(rows, s.batchSize) {
		batch := &pgx.Batch{}
		for _, row := range part {
			queue(batch, row)
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("sending batch of %d: %w", batch.Len(), err)
		}
	}
	return nil
}

// chunk splits rows into consecutive slices of at most size elements.
// The chunks alias the input's backing array.
func chunk[T any](rows []T, size int) [][]T {
	if size <= 0 || len(rows) == 0 {
		if len(rows) == 0 {
			return nil
		}
		return [][]T{rows}
	}

	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for size < len(rows) {
		chunks = append(chunks, rows[:size])
		rows = rows[size:]
	}
	return append(chunks, rows)
}

// int64IDs converts snowflakes to the BIGINT representation used in the schema.
func int64IDs(ids []domain.Snowflake) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id.Uint64())
	}
	return out
}

// nullableID maps a zero snowflake to SQL NULL.
func nullableID(id domain.Snowflake) *int64 {
	if id.IsZero() {
		return nil
	}
	v := int64(id.Uint64())
	return &v
}
