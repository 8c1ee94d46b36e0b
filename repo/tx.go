package repo

import (
	"context"
	"database/sql"

	"github.com/Skryldev/jobly/db"
)

// txRunner is implemented by *db.DB. A *db.Tx is already inside a
// transaction and does not implement it.
type txRunner interface {
	ExecTx(ctx context.Context, fn func(*db.Tx) error, opts ...db.TxOptions) error
}

// readSnapshot runs fn against a read-only, repeatable-read transaction when
// q can start one, and against q directly when q is already a transaction.
func readSnapshot(ctx context.Context, q db.Querier, fn func(db.Querier) error) error {
	runner, ok := q.(txRunner)
	if !ok {
		return fn(q)
	}
	return runner.ExecTx(ctx, func(tx *db.Tx) error {
		return fn(tx)
	}, db.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}
