package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ledgerpay/backend/internal/apperr"
	"github.com/ledgerpay/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)
	return tx
}

func TestAccountStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	st := NewAccountStore()
	tx := beginTx(t, db, mock)

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO accounts \(status, fd, td\) VALUES \(\$1, now\(\), \$2\) RETURNING id, status, fd`).
		WithArgs(0, EndOfTime).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "fd"}).AddRow(7, 0, created))

	acc, err := st.Create(context.Background(), tx, models.StatusActive)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), acc.ID)
	assert.Equal(t, models.StatusActive, acc.Status)
	assert.Equal(t, created, acc.Actuality)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountStore_GetByID(t *testing.T) {
	st := NewAccountStore()

	t.Run("unlocked read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`SELECT id, status, now\(\) AS ts FROM accounts WHERE id = \$1 AND fd <= now\(\) AND now\(\) < td$`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(3, 1, time.Now()))

		acc, err := st.GetByID(context.Background(), tx, 3, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), acc.ID)
		assert.Equal(t, models.StatusBlocked, acc.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locked read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`FROM accounts WHERE id = \$1 AND fd <= now\(\) AND now\(\) < td FOR UPDATE`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(3, 0, time.Now()))

		acc, err := st.GetByID(context.Background(), tx, 3, true)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusActive, acc.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no current version", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`FROM accounts`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		acc, err := st.GetByID(context.Background(), tx, 99, false)
		assert.NoError(t, err)
		assert.Nil(t, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountStore_UpdateStatus(t *testing.T) {
	st := NewAccountStore()

	t.Run("closes current version and inserts new one at lock time", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		tx := beginTx(t, db, mock)

		lockTime := time.Now()
		mock.ExpectQuery(`FROM accounts WHERE id = \$1 AND fd <= now\(\) AND now\(\) < td FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "ts"}).AddRow(5, 0, lockTime))
		mock.ExpectExec(`UPDATE accounts SET td = \$1 WHERE id = \$2 AND fd <= \$1 AND \$1 < td`).
			WithArgs(lockTime, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO accounts \(id, status, fd, td\) VALUES \(\$1, \$2, \$3, \$4\)`).
			WithArgs(int64(5), 1, lockTime, EndOfTime).
			WillReturnResult(sqlmock.NewResult(2, 1))

		acc, err := st.UpdateStatus(context.Background(), tx, 5, models.StatusBlocked)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusBlocked, acc.Status)
		assert.Equal(t, lockTime, acc.Actuality)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`FROM accounts`).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err = st.UpdateStatus(context.Background(), tx, 42, models.StatusBlocked)
		assert.True(t, apperr.IsKind(err, apperr.KindAccountNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
