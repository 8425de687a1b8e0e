package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs fn in one transaction. Callers build tx-scoped
// repositories from the DBTX it receives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// TxWrapper decorates the transaction handed to a unit of work callback.
type TxWrapper func(tx DBTX) DBTX

type SQLiteUnitOfWork struct {
	db   *sql.DB
	wrap TxWrapper
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithTxWrapper returns a copy whose callbacks see wrap(tx) instead of tx.
func (u *SQLiteUnitOfWork) WithTxWrapper(wrap TxWrapper) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: u.db, wrap: wrap}
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
// fn must only use tx: the pool holds a single connection, so reaching for
// the *sql.DB inside fn blocks forever.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction not started: %w", err)
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var handle DBTX = tx
	if u.wrap != nil {
		handle = u.wrap(tx)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, handle); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
