package services

import (
	"context"
	"database/sql"

	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/database"
	"github.com/ledgerpay/backend/internal/models"
	"github.com/ledgerpay/backend/internal/store"
	"github.com/sirupsen/logrus"
)

// AccountService carries the account lifecycle operations. Every method runs
// in its own unit of work.
type AccountService struct {
	db       *sql.DB
	accounts *store.AccountStore
	balances *store.BalanceStore
	log      *logrus.Logger
}

func NewAccountService(db *sql.DB, log *logrus.Logger) *AccountService {
	return &AccountService{
		db:       db,
		accounts: store.NewAccountStore(),
		balances: store.NewBalanceStore(),
		log:      log,
	}
}

// CreateAccount creates a new account with the given status.
func (s *AccountService) CreateAccount(ctx context.Context, status models.AccountStatus) (*models.Account, error) {
	var acc *models.Account
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		acc, err = s.accounts.Create(ctx, tx, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"account": acc.ID, "status": acc.Status.String()}).Info("account created")
	return acc, nil
}

// GetAccount reads the current version of an account.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var acc *models.Account
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		acc, err = s.accounts.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if acc == nil {
			return apperr.AccountNotFound(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// UpdateAccount appends a new status version for the account.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, status models.AccountStatus) (*models.Account, error) {
	var acc *models.Account
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		acc, err = s.accounts.UpdateStatus(ctx, tx, id, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"account": id, "status": status.String()}).Info("account status updated")
	return acc, nil
}

// GetBalance reads the current balance of an active account. An account with
// no balance row yet reports zero with no producing operation.
func (s *AccountService) GetBalance(ctx context.Context, id int64) (*models.Balance, error) {
	var bal *models.Balance
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		acc, err := s.accounts.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if acc == nil {
			return apperr.AccountNotFound(id)
		}
		if acc.Status != models.StatusActive {
			return apperr.AccountNotActive(id)
		}

		bal, err = s.balances.Get(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if bal == nil {
			bal = &models.Balance{Account: id, Balance: 0, Actuality: acc.Actuality}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bal, nil
}
