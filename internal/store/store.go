package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrRetryExhausted is surfaced after a retryable conflict persisted
	// through the full retry budget. The unit of work is safe to re-run.
	ErrRetryExhausted = errors.New("retryable transaction attempts exhausted")

	// ErrUnavailable marks connectivity failures: the unit of work was
	// abandoned with no partial state and is eligible for external re-run.
	ErrUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned by point reads with no matching row.
	ErrNotFound = errors.New("not found")
)

// RetryConfig bounds the conflict retry loop.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  50 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// Store is the transactional adapter all other components write through.
type Store struct {
	pool   *pgxpool.Pool
	retry  RetryConfig
	logger *slog.Logger
}

// New creates a Store over an existing connection pool.
func New(pool *pgxpool.Pool, retry RetryConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if retry.MaxRetries < 1 {
		retry = DefaultRetryConfig()
	}
	return &Store{pool: pool, retry: retry, logger: logger}
}

// withTx runs fn inside one transaction, retrying the whole transaction on
// transient conflicts with exponential backoff. Either every statement in fn
// commits or none do.
func (s *Store) withTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	var lastErr error
	delay := s.retry.BaseDelay

	for attempt := 1; attempt <= s.retry.MaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > s.retry.MaxDelay {
				delay = s.retry.MaxDelay
			}
		}

		err := s.runTx(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}

		lastErr = err
		s.logger.Warn("transaction conflict, retrying",
			"attempt", attempt,
			"max_retries", s.retry.MaxRetries,
			"error", err,
		)
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, s.retry.MaxRetries, lastErr)
}

// runTx executes fn in a single transaction attempt, rolling back on any error.
func (s *Store) runTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// snapshotRead runs fn in a read-only REPEATABLE READ transaction so baseline
// and bucket reads observe one consistent snapshot.
func (s *Store) snapshotRead(ctx context.Context, fn func(pgx.Tx) error) error {
	return s.withTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}

// SQLSTATE codes treated as transient write-write conflicts.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// isRetryable reports whether the whole transaction should be re-attempted.
// Unique violations are retryable here because every multi-statement write in
// this store is restartable: re-running observes the competing writer's
// committed row and converts the insert into the corresponding update/replace.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return true
	}
	return false
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
