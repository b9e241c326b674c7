// services/store-service/internal/infra/postgres/tx_manager.postgres.go
package postgres

import (
	"context"
	"database/sql"
)

type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

type txKey struct{}

// executor is what *sql.DB and *sql.Tx have in common.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// executorFrom returns the transaction stored in ctx by RunInTx, or db when
// the call runs outside a unit of work.
func executorFrom(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// RunInTx runs fn in a read-committed transaction. Row locks taken with
// SELECT ... FOR UPDATE are what serialize concurrent sales of one item.
func (tm *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// RunInReadOnlyTx runs fn in a repeatable-read read-only transaction so every
// query inside sees the same snapshot.
func (tm *TxManager) RunInReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (tm *TxManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Nested call: join the outer transaction.
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return mapError(err)
	}

	// Ensure rollback on panic
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Inject tx into context
	ctx = context.WithValue(ctx, txKey{}, tx)

	err = fn(ctx)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}
