package finance

import (
	"fmt"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Mortgage product limits.
const (
	MinPropertyCost      = 100_000
	MaxMortgageTermYears = 30
)

// MortgageQuote is the financed amount and payment plan for a property.
type MortgageQuote struct {
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	DownPaymentPercent float64         `json:"down_payment_percent"`
	TermMonths         int             `json:"term_months"`
	Amortization
}

// ComputeMortgage finances propertyCost minus downPayment over termYears.
// The minimum down payment share is an eligibility rule and is checked by
// the gate, not here.
func ComputeMortgage(propertyCost, downPayment decimal.Decimal, termYears int, annualRatePercent float64) (MortgageQuote, error) {
	if propertyCost.LessThan(decimal.NewFromInt(MinPropertyCost)) {
		return MortgageQuote{}, fmt.Errorf("%w: minimum property cost is %d", apperrors.ErrInvalidAmount, MinPropertyCost)
	}
	if downPayment.IsNegative() {
		return MortgageQuote{}, fmt.Errorf("%w: down payment cannot be negative", apperrors.ErrInvalidAmount)
	}
	if downPayment.GreaterThanOrEqual(propertyCost) {
		return MortgageQuote{}, fmt.Errorf("%w: down payment must be less than the property cost", apperrors.ErrInvalidAmount)
	}
	if termYears < 1 || termYears > MaxMortgageTermYears {
		return MortgageQuote{}, fmt.Errorf("%w: mortgage term must be 1..%d years", apperrors.ErrInvalidTerm, MaxMortgageTermYears)
	}

	loan := propertyCost.Sub(downPayment)
	termMonths := termYears * 12
	am, err := ComputeAmortization(loan, annualRatePercent, termMonths)
	if err != nil {
		return MortgageQuote{}, err
	}

	return MortgageQuote{
		LoanAmount:         loan,
		DownPaymentPercent: DownPaymentPercent(propertyCost, downPayment),
		TermMonths:         termMonths,
		Amortization:       am,
	}, nil
}

// DownPaymentPercent returns downPayment as a percentage of propertyCost.
func DownPaymentPercent(propertyCost, downPayment decimal.Decimal) float64 {
	if !propertyCost.IsPositive() {
		return 0
	}
	return downPayment.Div(propertyCost).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
