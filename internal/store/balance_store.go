package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/models"
)

// BalanceStore owns the bitemporal balances table. Absence of a current row
// is a valid state and means balance zero.
type BalanceStore struct{}

func NewBalanceStore() *BalanceStore {
	return &BalanceStore{}
}

// Get reads the current balance version for an account, or nil when the
// account has never had a balance written. Locking semantics match
// AccountStore.GetByID.
func (s *BalanceStore) Get(ctx context.Context, q Querier, accountID int64, lock bool) (*models.Balance, error) {
	query := `SELECT account_id, operation_id, balance, now() AS ts FROM balances WHERE account_id = $1 AND fd <= now() AND now() < td`
	if lock {
		query += ` FOR UPDATE`
	}

	var bal models.Balance
	var operationID sql.NullInt64
	err := q.QueryRowContext(ctx, query, accountID).Scan(&bal.Account, &operationID, &bal.Balance, &bal.Actuality)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if operationID.Valid {
		bal.Operation = &operationID.Int64
	}
	return &bal, nil
}

// Update closes the current version (if any) at the operation's timestamp and
// inserts the new snapshot starting there. Both balance writes of one
// operation therefore share a single validity instant. The caller must hold
// the row lock from a preceding Get with lock, or know no row exists yet.
func (s *BalanceStore) Update(ctx context.Context, q Querier, accountID int64, newBalance int64, op *models.Operation) error {
	_, err := q.ExecContext(ctx,
		`UPDATE balances SET td = $1 WHERE account_id = $2 AND fd <= $1 AND $1 < td`,
		op.Timestamp, accountID)
	if err != nil {
		return apperr.Storage(err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO balances (account_id, operation_id, balance, fd, td) VALUES ($1, $2, $3, $4, $5)`,
		accountID, op.ID, newBalance, op.Timestamp, EndOfTime)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}
