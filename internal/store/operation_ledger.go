package store

import (
	"context"
	"database/sql"

	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/models"
)

// OperationLedger owns the append-only operations table. Rows are immutable
// once inserted; the database assigns both the id and the timestamp, and that
// timestamp is the single instant used to version every balance write the
// operation produces.
type OperationLedger struct{}

func NewOperationLedger() *OperationLedger {
	return &OperationLedger{}
}

// Create appends one operation and returns the stored row.
func (s *OperationLedger) Create(ctx context.Context, q Querier, source, target *int64, amount int64) (*models.Operation, error) {
	row := q.QueryRowContext(ctx,
		`INSERT INTO operations (source_account, target_account, amount, ts) VALUES ($1, $2, $3, now()) RETURNING id, source_account, target_account, amount, ts`,
		source, target, amount)

	var op models.Operation
	var src, tgt sql.NullInt64
	if err := row.Scan(&op.ID, &src, &tgt, &op.Amount, &op.Timestamp); err != nil {
		return nil, apperr.Storage(err)
	}
	if src.Valid {
		op.SourceAccount = &src.Int64
	}
	if tgt.Valid {
		op.TargetAccount = &tgt.Int64
	}
	return &op, nil
}
