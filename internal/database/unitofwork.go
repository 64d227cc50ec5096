package database

import (
	"context"
	"database/sql"

	"github.com/ledgerpay/backend/internal/apperr"
)

// RunInTx executes fn inside one transaction: commit on nil return, rollback
// on any error. The *sql.Tx handle is passed to fn explicitly; row locks
// taken through it are held until commit or rollback. Errors from fn
// propagate unchanged so callers keep the full failure taxonomy; transaction
// management failures surface as storage errors.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
