// Package database: transaction helper.
//
// Several FaceCard writes touch two rows that must agree: a friend toggle
// updates both users' friend arrays, and adding a comment inserts the
// comment and appends its id to the card. Without a transaction a failure
// between the two writes leaves an id pointing at nothing, or a friendship
// only one side can see.
//
// WithTx runs such a group as one unit:
//   - fn returns nil: COMMIT
//   - fn returns an error or panics: ROLLBACK
//
// Repositories are built on TxQuerier rather than *sql.DB, so a service
// opens the transaction and constructs throwaway repositories on the *sql.Tx.
// SQLite serializes writers; fn must not make network calls.
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier is satisfied by both *sql.DB and *sql.Tx. Repositories accept it
// so the same code runs inside and outside a transaction.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back on error or panic; a panic is re-raised after the rollback.
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//	    users := repository.NewSQLiteUserRepo(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
