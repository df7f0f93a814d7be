package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxManager hands the pool's transactions to services without exposing the
// pool itself.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return WithTx(ctx, m.pool, fn)
}

func (m *TxManager) LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error {
	return LockPair(ctx, tx, userA, userB)
}

// LockPair serializes transactions touching the same user pair. Both
// completing swipes of a mutual pair go through here, so the later one
// always observes the earlier one's committed row.
func LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userA > userB {
		userA, userB = userB, userA
	}

	// Ascending acquisition order keeps overlapping pairs deadlock-free.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userA); err != nil {
		return fmt.Errorf("acquire pair lock: %w", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userB); err != nil {
		return fmt.Errorf("acquire pair lock: %w", err)
	}

	return nil
}
