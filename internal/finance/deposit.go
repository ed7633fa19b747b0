package finance

import (
	"fmt"
	"math"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Deposit product limits.
const (
	MinDepositAmount     = 10_000
	MaxDepositTermMonths = 60

	// Deposits at or below this amount and term earn the small-deposit rate.
	smallDepositCeiling = 30_000
	smallDepositMaxTerm = 12
)

// DepositGrowth is the projected outcome of a term deposit.
type DepositGrowth struct {
	FinalAmount decimal.Decimal `json:"final_amount"`
	Income      decimal.Decimal `json:"income"`
}

// ComputeDepositGrowth compounds monthly:
//
//	final = P * (1 + annualRatePercent/100/12)^termMonths
func ComputeDepositGrowth(principal decimal.Decimal, annualRatePercent float64, termMonths int) (DepositGrowth, error) {
	if err := validateTerms(principal, annualRatePercent, termMonths); err != nil {
		return DepositGrowth{}, err
	}

	r := monthlyRate(annualRatePercent)
	if r == 0 {
		return DepositGrowth{FinalAmount: principal, Income: decimal.Zero}, nil
	}

	factor := math.Pow(1+r, float64(termMonths))
	if math.IsInf(factor, 0) {
		return DepositGrowth{}, fmt.Errorf("%w: growth over %d months overflows", apperrors.ErrInvalidTerm, termMonths)
	}

	final := principal.Mul(decimal.NewFromFloat(factor)).Round(2)
	return DepositGrowth{
		FinalAmount: final,
		Income:      final.Sub(principal),
	}, nil
}

// DepositRates holds the two published deposit rates.
type DepositRates struct {
	Small float64
	Base  float64
}

// For picks the rate a deposit of the given size and term earns.
func (r DepositRates) For(amount decimal.Decimal, termMonths int) float64 {
	if amount.LessThanOrEqual(decimal.NewFromInt(smallDepositCeiling)) && termMonths <= smallDepositMaxTerm {
		return r.Small
	}
	return r.Base
}

// ValidateDeposit applies the product limits for opening a deposit.
func ValidateDeposit(amount decimal.Decimal, termMonths int) error {
	if amount.LessThan(decimal.NewFromInt(MinDepositAmount)) {
		return fmt.Errorf("%w: minimum deposit is %d", apperrors.ErrInvalidAmount, MinDepositAmount)
	}
	if termMonths < 1 || termMonths > MaxDepositTermMonths {
		return fmt.Errorf("%w: deposit term must be 1..%d months", apperrors.ErrInvalidTerm, MaxDepositTermMonths)
	}
	return nil
}
