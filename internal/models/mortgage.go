package models

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mortgage is a property loan. Amount is the financed part of the property
// cost; an account holds at most one active mortgage.
type Mortgage struct {
	ID           int64           `json:"id"`
	Ref          string          `json:"ref"`
	AccountID    int64           `json:"account_id"`
	PropertyCost decimal.Decimal `json:"property_cost"`
	DownPayment  decimal.Decimal `json:"down_payment"`
	Amount       decimal.Decimal `json:"amount"`
	TermYears    int             `json:"term_years"`
	InterestRate float64         `json:"interest_rate"`
	Installments
	HMAC      string    `json:"hmac"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMortgage validates the terms and returns an active mortgage.
func NewMortgage(accountID int64, propertyCost, downPayment decimal.Decimal, termYears int, rate float64, monthly decimal.Decimal, now time.Time) (*Mortgage, error) {
	if !propertyCost.IsPositive() || downPayment.IsNegative() || !downPayment.LessThan(propertyCost) {
		return nil, fmt.Errorf("%w: property cost %s, down payment %s", apperrors.ErrInvalidAmount, propertyCost, downPayment)
	}
	if termYears < 1 {
		return nil, fmt.Errorf("%w: mortgage term %d years", apperrors.ErrInvalidTerm, termYears)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: mortgage rate %.2f", apperrors.ErrInvalidRate, rate)
	}
	if !monthly.IsPositive() {
		return nil, fmt.Errorf("%w: monthly payment %s", apperrors.ErrInvalidAmount, monthly)
	}
	return &Mortgage{
		Ref:          uuid.NewString(),
		AccountID:    accountID,
		PropertyCost: propertyCost,
		DownPayment:  downPayment,
		Amount:       propertyCost.Sub(downPayment),
		TermYears:    termYears,
		InterestRate: rate,
		Installments: newInstallments(monthly, termYears*12, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SignedFields lists the immutable terms covered by the record signature.
func (m *Mortgage) SignedFields() []string {
	return []string{
		m.Ref,
		fmt.Sprintf("%d", m.AccountID),
		m.PropertyCost.StringFixed(2),
		m.DownPayment.StringFixed(2),
		fmt.Sprintf("%d", m.TermYears),
		fmt.Sprintf("%.4f", m.InterestRate),
		m.MonthlyPayment.StringFixed(2),
	}
}
