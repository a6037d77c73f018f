package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// ErrTxRetryLimit возвращается, когда транзакция исчерпала все попытки
// повторного выполнения из-за конфликтов сериализации.
var ErrTxRetryLimit = errors.New("transaction retry limit exceeded")

const defaultMaxTxAttempts = 5

// TxRunner executes a function inside a database transaction. Every mutation
// of shared records goes through a runner so reads and writes of one logical
// operation land in a single atomic snapshot.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SerializableRunner runs the function under SERIALIZABLE isolation and
// retries the whole function on serialization conflicts (SQLSTATE 40001)
// and deadlocks (40P01). The function must not cache state between attempts:
// each attempt re-reads everything through the fresh transaction it is given.
type SerializableRunner struct {
	DB          *sql.DB
	MaxAttempts int
	Logger      *slog.Logger
}

func NewSerializableRunner(db *sql.DB, logger *slog.Logger) *SerializableRunner {
	return &SerializableRunner{
		DB:          db,
		MaxAttempts: defaultMaxTxAttempts,
		Logger:      logger,
	}
}

func (r *SerializableRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxTxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		if r.Logger != nil {
			r.Logger.Warn("transaction conflict, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts),
				slog.Any("error", err),
			)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return ErrTxRetryLimit
}

func (r *SerializableRunner) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
