package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

const (
	// DefaultMaxAttempts is the total number of tries for one read,
	// including the initial attempt.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = time.Second
)

// Querier executes catalog reads against PostgreSQL with automatic retry.
// Every read is retried up to the attempt bound with a fixed inter-attempt
// delay; the last error surfaces only after the bound is exhausted.
type Querier struct {
	db          *sqlx.DB
	logger      logger.Logger
	maxAttempts int
	retryDelay  time.Duration
}

// NewQuerier creates a Querier with the default retry bounds.
func NewQuerier(db *sqlx.DB, log logger.Logger) *Querier {
	return NewQuerierWithRetry(db, log, DefaultMaxAttempts, DefaultRetryDelay)
}

// NewQuerierWithRetry creates a Querier with explicit retry bounds.
func NewQuerierWithRetry(db *sqlx.DB, log logger.Logger, maxAttempts int, retryDelay time.Duration) *Querier {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Querier{
		db:          db,
		logger:      log,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// DB returns the underlying connection pool.
func (q *Querier) DB() *sqlx.DB {
	return q.db
}

// Select runs a query expecting multiple rows, scanning them into dest.
func (q *Querier) Select(ctx context.Context, dest any, query string, args ...any) error {
	return q.withRetry(ctx, "select", func() error {
		return q.db.SelectContext(ctx, dest, query, args...)
	})
}

// Get runs a query expecting a single row, scanning it into dest.
// sql.ErrNoRows passes through without retries: an empty result is a normal
// negative outcome, not a store failure.
func (q *Querier) Get(ctx context.Context, dest any, query string, args ...any) error {
	return q.withRetry(ctx, "get", func() error {
		return q.db.GetContext(ctx, dest, query, args...)
	})
}

// WithinTx executes fn inside a single read-only transaction so that
// multi-statement reads (a page of results plus its total count) observe a
// consistent snapshot. The whole transaction is retried as a unit.
func (q *Querier) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return q.withRetry(ctx, "transaction", func() error {
		tx, err := q.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if fnErr := fn(tx); fnErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				q.logger.Error("Failed to rollback transaction",
					logger.Error(rbErr),
				)
			}
			return fnErr
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("commit transaction: %w", commitErr)
		}
		return nil
	})
}

func (q *Querier) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}

		lastErr = err
		q.logger.Warn("Query failed, retrying",
			logger.String("operation", op),
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", q.maxAttempts),
			logger.Error(err),
		)

		if attempt == q.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("query cancelled during retry: %w", ctx.Err())
		case <-time.After(q.retryDelay):
		}
	}

	return fmt.Errorf("query failed after %d attempts: %w", q.maxAttempts, lastErr)
}

// isRetryable separates store failures from normal negative results.
// sql.ErrNoRows and context cancellation never benefit from a retry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
