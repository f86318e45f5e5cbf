package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner executes a function inside a single database transaction.
// Every product lifecycle operation runs through this so that the entity
// mutation, the image replacement and the audit log entry commit or roll
// back as one unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type txRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner over the given pool.
func NewTxRunner(db *sql.DB) TxRunner {
	return &txRunner{db: db}
}

// RunInTx begins a transaction, invokes fn and commits. Any error from fn
// rolls the transaction back and is returned unchanged so sentinel errors
// survive for the caller.
func (r *txRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
