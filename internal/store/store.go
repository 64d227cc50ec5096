// Package store owns the SQL for the three bitemporal tables. Every row
// carries a [fd, td) validity interval; the current version has td set to a
// far-future sentinel, so "current row" is the same range predicate in every
// query. Rows are never updated in place or deleted: a change closes the
// current version and inserts a new one (close-then-insert).
//
// Stores take a Querier, not *sql.DB: locked reads are only meaningful inside
// a transaction, so the enclosing unit of work is always passed in
// explicitly.
package store

import (
	"context"
	"database/sql"
	"time"
)

// EndOfTime is the open upper bound of a current version row. Using a
// sentinel instead of NULL keeps the current-row predicate a plain interval
// check.
var EndOfTime = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Querier is the subset of *sql.Tx the stores need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
