package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pick(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

// inTx runs fn in tx when one is given, otherwise in a transaction of its own.
func inTx(ctx context.Context, db *sql.DB, tx *sql.Tx, fn func(tx *sql.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	own, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer own.Rollback()

	if err := fn(own); err != nil {
		return err
	}
	if err := own.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
