package repository

import (
	"context"
	"database/sql"
	"fmt"

	"smite-parser/internal/db"

	"github.com/rs/zerolog"
)

// InsertFunc writes one record through a transaction-bound Queries.
type InsertFunc[T any] func(ctx context.Context, q *db.Queries, rec T) error

// ValidateFunc fixes up a record before it is written.
type ValidateFunc[T any] func(rec *T, matchID string)

// BatchWriter buffers records of one category and flushes them one
// transaction per batch.
type BatchWriter[T any] struct {
	db       *sql.DB
	queries  *db.Queries
	logger   zerolog.Logger
	matchID  string
	table    string
	size     int
	insert   InsertFunc[T]
	validate ValidateFunc[T]

	buf     []T
	written int
	batches int
}

func NewBatchWriter[T any](
	sqlDB *sql.DB,
	queries *db.Queries,
	logger zerolog.Logger,
	matchID, table string,
	size int,
	insert InsertFunc[T],
	validate ValidateFunc[T],
) *BatchWriter[T] {
	if size <= 0 {
		size = 1
	}
	return &BatchWriter[T]{
		db:       sqlDB,
		queries:  queries,
		logger:   logger.With().Str("table", table).Logger(),
		matchID:  matchID,
		table:    table,
		size:     size,
		insert:   insert,
		validate: validate,
		buf:      make([]T, 0, size),
	}
}

// Add buffers rec and flushes when the buffer reaches the batch size.
func (w *BatchWriter[T]) Add(ctx context.Context, rec T) error {
	w.buf = append(w.buf, rec)
	if len(w.buf) >= w.size {
		return w.Flush(ctx)
	}
	return nil
}

func (w *BatchWriter[T]) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "flush " + w.table, MatchID: w.matchID, Err: err}
	}

	for i := range w.buf {
		if w.validate != nil {
			w.validate(&w.buf[i], w.matchID)
		}
	}

	if err := w.writeBatch(ctx); err != nil {
		w.logger.Error().Err(err).Int("batch_size", len(w.buf)).Msg("batch flush failed")
		return &PersistenceError{Op: "flush " + w.table, MatchID: w.matchID, Err: err}
	}

	w.written += len(w.buf)
	w.batches++
	w.logger.Debug().
		Int("batch_size", len(w.buf)).
		Int("written", w.written).
		Msg("batch flushed")

	w.buf = w.buf[:0]
	return nil
}

func (w *BatchWriter[T]) writeBatch(ctx context.Context) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := w.queries.WithTx(tx)
	for _, rec := range w.buf {
		if err := w.insert(ctx, qtx, rec); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", w.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close flushes whatever is still buffered.
func (w *BatchWriter[T]) Close(ctx context.Context) error {
	return w.Flush(ctx)
}

func (w *BatchWriter[T]) Written() int { return w.written }

func (w *BatchWriter[T]) Batches() int { return w.batches }
