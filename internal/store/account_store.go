package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/models"
)

// AccountStore owns the bitemporal accounts table.
type AccountStore struct{}

func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

// Create inserts a new current version valid from the server clock. The
// returned Actuality is the stored validity start.
func (s *AccountStore) Create(ctx context.Context, q Querier, status models.AccountStatus) (*models.Account, error) {
	row := q.QueryRowContext(ctx,
		`INSERT INTO accounts (status, fd, td) VALUES ($1, now(), $2) RETURNING id, status, fd`,
		int(status), EndOfTime)

	var acc models.Account
	var rawStatus int
	if err := row.Scan(&acc.ID, &rawStatus, &acc.Actuality); err != nil {
		return nil, apperr.Storage(err)
	}
	acc.Status = models.AccountStatus(rawStatus)
	return &acc, nil
}

// GetByID reads the current version of an account, or nil when none exists.
// With lock set, the row is locked exclusively until the enclosing
// transaction ends; unlocked reads never block. The returned Actuality is the
// server time of the read, which for a locked read is the instant the lock
// was taken.
func (s *AccountStore) GetByID(ctx context.Context, q Querier, id int64, lock bool) (*models.Account, error) {
	query := `SELECT id, status, now() AS ts FROM accounts WHERE id = $1 AND fd <= now() AND now() < td`
	if lock {
		query += ` FOR UPDATE`
	}

	var acc models.Account
	var rawStatus int
	err := q.QueryRowContext(ctx, query, id).Scan(&acc.ID, &rawStatus, &acc.Actuality)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	acc.Status = models.AccountStatus(rawStatus)
	return &acc, nil
}

// UpdateStatus closes the current version at the lock-acquisition timestamp
// and inserts the new version starting at that same instant, so the version
// chain has no gap and no overlap.
func (s *AccountStore) UpdateStatus(ctx context.Context, q Querier, id int64, status models.AccountStatus) (*models.Account, error) {
	locked, err := s.GetByID(ctx, q, id, true)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, apperr.AccountNotFound(id)
	}
	lockTime := locked.Actuality

	_, err = q.ExecContext(ctx,
		`UPDATE accounts SET td = $1 WHERE id = $2 AND fd <= $1 AND $1 < td`,
		lockTime, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO accounts (id, status, fd, td) VALUES ($1, $2, $3, $4)`,
		id, int(status), lockTime, EndOfTime)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return &models.Account{ID: id, Status: status, Actuality: lockTime}, nil
}
