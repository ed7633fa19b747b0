package models

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Account is one customer's financial profile. Its balance changes only
// through CreditBalance and DebitBalance.
type Account struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	OpenedAt  time.Time       `json:"opened_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreditBalance adds a positive amount to the balance.
func (a *Account) CreditBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit of %s", apperrors.ErrInvalidAmount, amount)
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// DebitBalance removes a positive amount, refusing to go below zero.
func (a *Account) DebitBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit of %s", apperrors.ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(a.Balance) {
		return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, a.Balance.StringFixed(2), amount.StringFixed(2))
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// AgeInDays returns whole days since the account was opened, never negative.
func (a *Account) AgeInDays(now time.Time) int {
	if a.OpenedAt.IsZero() || now.Before(a.OpenedAt) {
		return 0
	}
	return int(now.Sub(a.OpenedAt).Hours() / 24)
}
