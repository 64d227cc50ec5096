package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/models"
	"github.com/ledgerpay/backend/internal/store"
	"github.com/stretchr/testify/assert"
)

const (
	getAccountQuery = `SELECT id, status, now\(\) AS ts FROM accounts WHERE id = \$1 AND fd <= now\(\) AND now\(\) < td$`
	getBalanceQuery = `SELECT account_id, operation_id, balance, now\(\) AS ts FROM balances WHERE account_id = \$1 AND fd <= now\(\) AND now\(\) < td$`
)

func TestAccountService_CreateAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	service := NewAccountService(db, newTestLogger())

	created := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO accounts \(status, fd, td\)`).
		WithArgs(0, store.EndOfTime).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "fd"}).AddRow(1, 0, created))
	mock.ExpectCommit()

	acc, err := service.CreateAccount(context.Background(), models.StatusActive)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), acc.ID)
	assert.Equal(t, models.StatusActive, acc.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_GetAccount(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(1, 0, time.Now()))
		mock.ExpectCommit()

		acc, err := service.GetAccount(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), acc.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = service.GetAccount(context.Background(), 9)
		assert.True(t, apperr.IsKind(err, apperr.KindAccountNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	service := NewAccountService(db, newTestLogger())

	lockTime := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(1, 0, lockTime))
	mock.ExpectExec(`UPDATE accounts SET td = \$1`).
		WithArgs(lockTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO accounts \(id, status, fd, td\)`).
		WithArgs(int64(1), 1, lockTime, store.EndOfTime).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	acc, err := service.UpdateAccount(context.Background(), 1, models.StatusBlocked)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, acc.Status)
	assert.Equal(t, lockTime, acc.Actuality)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_GetBalance(t *testing.T) {
	t.Run("existing balance", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(1, 0, time.Now()))
		mock.ExpectQuery(getBalanceQuery).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "operation_id", "balance", "ts"}).
				AddRow(1, 5, 1000, time.Now()))
		mock.ExpectCommit()

		bal, err := service.GetBalance(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), bal.Balance)
		if assert.NotNil(t, bal.Operation) {
			assert.Equal(t, int64(5), *bal.Operation)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("synthesizes zero balance when no row exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		readTime := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(2, 0, readTime))
		mock.ExpectQuery(getBalanceQuery).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectCommit()

		bal, err := service.GetBalance(context.Background(), 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), bal.Balance)
		assert.Nil(t, bal.Operation)
		assert.Equal(t, readTime, bal.Actuality)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blocked account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(3, 1, time.Now()))
		mock.ExpectRollback()

		_, err = service.GetBalance(context.Background(), 3)
		assert.True(t, apperr.IsKind(err, apperr.KindAccountNotActive))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		service := NewAccountService(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(getAccountQuery).
			WithArgs(int64(4)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = service.GetBalance(context.Background(), 4)
		assert.True(t, apperr.IsKind(err, apperr.KindAccountNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
