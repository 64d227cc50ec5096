package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AccountStatus is stored as an integer; the JSON representation uses the
// status name.
type AccountStatus int

const (
	StatusActive  AccountStatus = 0
	StatusBlocked AccountStatus = 1
)

func (s AccountStatus) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusBlocked:
		return "BLOCKED"
	}
	return fmt.Sprintf("AccountStatus(%d)", int(s))
}

// ParseAccountStatus maps a status name to its stored value.
func ParseAccountStatus(name string) (AccountStatus, error) {
	switch name {
	case "ACTIVE":
		return StatusActive, nil
	case "BLOCKED":
		return StatusBlocked, nil
	}
	return 0, fmt.Errorf("unknown account status %q", name)
}

func (s AccountStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *AccountStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseAccountStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Account is the current version of an account as of Actuality. Storage keeps
// every historical version; only one version per id is current at any instant.
type Account struct {
	ID        int64         `json:"id" db:"id"`
	Status    AccountStatus `json:"status" db:"status"`
	Actuality time.Time     `json:"actuality" db:"ts"`
}
