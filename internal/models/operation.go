package models

import (
	"time"
)

// Operation is one append-only ledger entry. At least one of SourceAccount
// and TargetAccount is set: both for a transfer, target only for a deposit,
// source only for a withdrawal. Timestamp is assigned by the database and is
// the validity start of every balance version the operation produced.
type Operation struct {
	ID            int64     `json:"id" db:"id"`
	SourceAccount *int64    `json:"sourceAccount,omitempty" db:"source_account"`
	TargetAccount *int64    `json:"targetAccount,omitempty" db:"target_account"`
	Amount        int64     `json:"amount" db:"amount"`
	Timestamp     time.Time `json:"timestamp" db:"ts"`
}
