package models

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is a term deposit. Its terms are fixed at opening; only the
// payout fields change afterwards.
type Deposit struct {
	ID           int64           `json:"id"`
	Ref          string          `json:"ref"`
	AccountID    int64           `json:"account_id"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate float64         `json:"interest_rate"`
	TermMonths   int             `json:"term_months"`
	FinalAmount  decimal.Decimal `json:"final_amount"`
	Income       decimal.Decimal `json:"income"`
	OpenedAt     time.Time       `json:"opened_at"`
	MaturesAt    time.Time       `json:"matures_at"`
	PaidOut      bool            `json:"paid_out"`
	PaidOutAt    *time.Time      `json:"paid_out_at,omitempty"`
	HMAC         string          `json:"hmac"`
}

// NewDeposit records a deposit opened at now with precomputed growth.
func NewDeposit(accountID int64, principal decimal.Decimal, rate float64, termMonths int, finalAmount decimal.Decimal, now time.Time) (*Deposit, error) {
	if !principal.IsPositive() {
		return nil, fmt.Errorf("%w: deposit principal %s", apperrors.ErrInvalidAmount, principal)
	}
	if termMonths < 1 {
		return nil, fmt.Errorf("%w: deposit term %d months", apperrors.ErrInvalidTerm, termMonths)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: deposit rate %.2f", apperrors.ErrInvalidRate, rate)
	}
	return &Deposit{
		Ref:          uuid.NewString(),
		AccountID:    accountID,
		Principal:    principal,
		InterestRate: rate,
		TermMonths:   termMonths,
		FinalAmount:  finalAmount,
		Income:       finalAmount.Sub(principal),
		OpenedAt:     now,
		MaturesAt:    now.AddDate(0, termMonths, 0),
	}, nil
}

// Matured reports whether the deposit is due for payout at now.
func (d *Deposit) Matured(now time.Time) bool {
	return !d.PaidOut && !now.Before(d.MaturesAt)
}

// MarkPaidOut records the final payout.
func (d *Deposit) MarkPaidOut(now time.Time) {
	d.PaidOut = true
	paid := now
	d.PaidOutAt = &paid
}

// SignedFields lists the immutable terms covered by the record signature.
func (d *Deposit) SignedFields() []string {
	return []string{
		d.Ref,
		fmt.Sprintf("%d", d.AccountID),
		d.Principal.StringFixed(2),
		fmt.Sprintf("%.4f", d.InterestRate),
		fmt.Sprintf("%d", d.TermMonths),
		d.FinalAmount.StringFixed(2),
	}
}
