package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is what RecordStore runs statements on: the pool or an attached pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type txKey struct{}

// WithTx attaches tx to ctx so RecordStore writes and reads join the caller's transaction,
// e.g. a session row and its first page view committed together.
// A nil ctx becomes context.Background(); a nil tx leaves ctx as is.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction attached with WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

// querierFrom picks the attached transaction over fallback.
func querierFrom(ctx context.Context, fallback querier) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return fallback
}
