package models

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit represents a consumer loan disbursed to an account
type Credit struct {
	ID           int64           `json:"id"`
	Ref          string          `json:"ref"`
	AccountID    int64           `json:"account_id"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate float64         `json:"interest_rate"`
	Installments
	HMAC      string    `json:"hmac"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCredit validates the terms and returns an active credit whose first
// payment is due one month after now.
func NewCredit(accountID int64, principal decimal.Decimal, rate float64, termMonths int, monthly decimal.Decimal, now time.Time) (*Credit, error) {
	if !principal.IsPositive() {
		return nil, fmt.Errorf("%w: credit principal %s", apperrors.ErrInvalidAmount, principal)
	}
	if termMonths < 1 {
		return nil, fmt.Errorf("%w: credit term %d months", apperrors.ErrInvalidTerm, termMonths)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: credit rate %.2f", apperrors.ErrInvalidRate, rate)
	}
	if !monthly.IsPositive() {
		return nil, fmt.Errorf("%w: monthly payment %s", apperrors.ErrInvalidAmount, monthly)
	}
	return &Credit{
		Ref:          uuid.NewString(),
		AccountID:    accountID,
		Principal:    principal,
		InterestRate: rate,
		Installments: newInstallments(monthly, termMonths, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SignedFields lists the immutable terms covered by the record signature.
func (c *Credit) SignedFields() []string {
	return []string{
		c.Ref,
		fmt.Sprintf("%d", c.AccountID),
		c.Principal.StringFixed(2),
		fmt.Sprintf("%.4f", c.InterestRate),
		fmt.Sprintf("%d", c.TermMonths),
		c.MonthlyPayment.StringFixed(2),
	}
}
