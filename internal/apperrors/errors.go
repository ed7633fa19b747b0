package apperrors

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount indicates a non-positive or otherwise unusable money amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidTerm indicates a non-positive or out-of-range term.
var ErrInvalidTerm = errors.New("invalid term")

// ErrInvalidRate indicates a negative interest rate.
var ErrInvalidRate = errors.New("invalid rate")

// ErrInsufficientEligibility indicates the credit score or an active-product rule blocks the request.
var ErrInsufficientEligibility = errors.New("insufficient eligibility")

// ErrInsufficientFunds indicates a debit larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrRateUnavailable indicates the external rate source could not provide a rate.
var ErrRateUnavailable = errors.New("rate unavailable")

// ErrPersistence indicates the store failed; the operation was aborted.
var ErrPersistence = errors.New("persistence error")

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

// Rejection is an eligibility failure with a reason the caller can show to the user.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", ErrInsufficientEligibility, r.Reason)
}

// Unwrap lets errors.Is match ErrInsufficientEligibility.
func (r *Rejection) Unwrap() error {
	return ErrInsufficientEligibility
}

// Reject builds a Rejection with a formatted reason.
func Reject(format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// Reason returns the rejection reason carried by err, if any.
func Reason(err error) (string, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}
