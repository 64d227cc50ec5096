package services

import (
	"context"
	"database/sql"
	"sort"

	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/database"
	"github.com/ledgerpay/backend/internal/models"
	"github.com/ledgerpay/backend/internal/store"
	"github.com/sirupsen/logrus"
)

// TransferService coordinates one money movement between at most two
// accounts. It is the only component with business rules; the stores it
// composes are storage primitives.
type TransferService struct {
	db       *sql.DB
	accounts *store.AccountStore
	balances *store.BalanceStore
	ledger   *store.OperationLedger
	log      *logrus.Logger
}

func NewTransferService(db *sql.DB, log *logrus.Logger) *TransferService {
	return &TransferService{
		db:       db,
		accounts: store.NewAccountStore(),
		balances: store.NewBalanceStore(),
		ledger:   store.NewOperationLedger(),
		log:      log,
	}
}

// TransferRequest describes one movement. A nil SourceAccount makes it a
// deposit, a nil TargetAccount a withdrawal; at least one must be set.
type TransferRequest struct {
	SourceAccount *int64
	TargetAccount *int64
	Amount        int64
}

// Transfer executes the movement as one atomic unit of work: validate, lock
// the involved accounts, read balances under lock, check sufficiency, append
// the operation, then write both balance snapshots at the operation's
// timestamp. Any failure rolls the whole transaction back.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (*models.Operation, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validation("operation amount must be positive")
	}
	if req.SourceAccount == nil && req.TargetAccount == nil {
		return nil, apperr.Validation("at least one of 'sourceAccount' or 'targetAccount' should present")
	}
	if req.SourceAccount != nil && req.TargetAccount != nil && *req.SourceAccount == *req.TargetAccount {
		return nil, apperr.Validation("operation with same source and target account is impossible")
	}

	var op *models.Operation
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Lock accounts in ascending id order, never in argument order.
		// Two concurrent opposite-direction transfers between the same
		// pair then always contend on the same first lock, so they
		// cannot deadlock.
		for _, id := range lockOrder(req.SourceAccount, req.TargetAccount) {
			acc, err := s.accounts.GetByID(ctx, tx, id, true)
			if err != nil {
				return err
			}
			if acc == nil {
				return apperr.AccountNotFound(id)
			}
			if acc.Status != models.StatusActive {
				return apperr.AccountNotActive(id)
			}
		}

		var sourceBalance, targetBalance int64
		if req.SourceAccount != nil {
			bal, err := s.balances.Get(ctx, tx, *req.SourceAccount, true)
			if err != nil {
				return err
			}
			if bal != nil {
				sourceBalance = bal.Balance
			}
			if sourceBalance < req.Amount {
				return apperr.InsufficientFunds(*req.SourceAccount)
			}
		}
		if req.TargetAccount != nil {
			bal, err := s.balances.Get(ctx, tx, *req.TargetAccount, true)
			if err != nil {
				return err
			}
			if bal != nil {
				targetBalance = bal.Balance
			}
		}

		var err error
		op, err = s.ledger.Create(ctx, tx, req.SourceAccount, req.TargetAccount, req.Amount)
		if err != nil {
			return err
		}

		if req.SourceAccount != nil {
			if err := s.balances.Update(ctx, tx, *req.SourceAccount, sourceBalance-req.Amount, op); err != nil {
				return err
			}
		}
		if req.TargetAccount != nil {
			if err := s.balances.Update(ctx, tx, *req.TargetAccount, targetBalance+req.Amount, op); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"operation": op.ID,
		"amount":    op.Amount,
	}).Info("transfer completed")
	return op, nil
}

// lockOrder returns the involved account ids deduplicated and sorted
// ascending.
func lockOrder(source, target *int64) []int64 {
	ids := make([]int64, 0, 2)
	if source != nil {
		ids = append(ids, *source)
	}
	if target != nil && (source == nil || *target != *source) {
		ids = append(ids, *target)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
