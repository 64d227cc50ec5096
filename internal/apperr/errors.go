// Package apperr defines the closed set of failures the ledger core can
// signal. Every failure carries a stable numeric code and the HTTP status the
// API layer maps it to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation marks malformed input: missing or non-positive amount,
	// no account on either side, identical source and target.
	KindValidation Kind = iota
	// KindAccountNotFound marks a reference to an account id with no current
	// version.
	KindAccountNotFound
	// KindAccountNotActive marks an operation on a BLOCKED account.
	KindAccountNotActive
	// KindInsufficientFunds marks a transfer that would drive the source
	// balance below zero.
	KindInsufficientFunds
	// KindStorage wraps any underlying database failure, including lock
	// timeouts.
	KindStorage
)

// Error is the only error type the core returns. Callers switch on Kind (or
// use errors.As) rather than matching message text.
type Error struct {
	Kind       Kind
	Code       int
	HTTPStatus int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{
		Kind:       KindValidation,
		Code:       400001,
		HTTPStatus: http.StatusBadRequest,
		Message:    fmt.Sprintf(format, args...),
	}
}

func AccountNotFound(id int64) *Error {
	return &Error{
		Kind:       KindAccountNotFound,
		Code:       400002,
		HTTPStatus: http.StatusBadRequest,
		Message:    fmt.Sprintf("account %d does not exist", id),
	}
}

func AccountNotActive(id int64) *Error {
	return &Error{
		Kind:       KindAccountNotActive,
		Code:       500010,
		HTTPStatus: http.StatusInternalServerError,
		Message:    fmt.Sprintf("account %d is not active", id),
	}
}

func InsufficientFunds(id int64) *Error {
	return &Error{
		Kind:       KindInsufficientFunds,
		Code:       500010,
		HTTPStatus: http.StatusInternalServerError,
		Message:    fmt.Sprintf("insufficient balance for account %d", id),
	}
}

func Storage(err error) *Error {
	return &Error{
		Kind:       KindStorage,
		Code:       500001,
		HTTPStatus: http.StatusInternalServerError,
		Message:    "storage failure",
		Err:        err,
	}
}

// KindOf reports the kind of err when it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
