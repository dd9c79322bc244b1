package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxQuerier adapts the TxManager to consumers that hold a static
// querier, such as the numerator. Queries join the transaction in
// flight on the context, falling back to the pool.
type TxQuerier struct {
	txManager *TxManager
}

// NewTxQuerier creates a transaction-aware querier.
func NewTxQuerier(txManager *TxManager) *TxQuerier {
	return &TxQuerier{txManager: txManager}
}

func (q *TxQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return q.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
}

func (q *TxQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return q.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
}

func (q *TxQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
