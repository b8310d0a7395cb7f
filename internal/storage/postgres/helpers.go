package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// textOrNil maps empty strings to NULL so optional columns stay unset.
func textOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// transact runs fn in tx when one is already open, otherwise it owns a
// fresh transaction for the duration of fn.
func transact(ctx context.Context, pool *pgxpool.Pool, tx pgx.Tx, fn func(pgx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	owned, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(owned); err != nil {
		_ = owned.Rollback(ctx)
		return err
	}
	if err := owned.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
