package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const connKey contextKey = "db_conn"

// ConnFromContext retrieves a transaction-scoped connection from the context,
// or nil when the caller is not inside WithTx.
func ConnFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(connKey).(pgx.Tx)
	return tx
}

// WithTx runs fn inside a transaction. Repository calls made with the context
// fn receives join the transaction via ConnFromContext; any error rolls the
// whole transaction back.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, connKey, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
