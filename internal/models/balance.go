package models

import (
	"time"
)

// Balance is an account's balance snapshot, in minor currency units.
// Operation references the operation that produced this value; it is nil for
// the synthesized zero balance of an account that has never moved money.
type Balance struct {
	Account   int64     `json:"account" db:"account_id"`
	Operation *int64    `json:"operation,omitempty" db:"operation_id"`
	Balance   int64     `json:"balance" db:"balance"`
	Actuality time.Time `json:"actuality" db:"ts"`
}
