// Package finance holds the pure product calculators: annuity amortization,
// payment schedules, deposit growth and mortgage quotes.
package finance

import (
	"fmt"
	"math"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Amortization is the result of sizing a fixed-payment loan.
type Amortization struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	Overpayment    decimal.Decimal `json:"overpayment"`
}

// ComputeAmortization sizes the fixed monthly payment for a loan.
//
//	r       = annualRatePercent / 100 / 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)     (P / n when r == 0)
//
// Rates too small to give a finite annuity are treated as zero.
//
// The payment is rounded up to the cent, so the total repaid never falls
// below the principal.
func ComputeAmortization(principal decimal.Decimal, annualRatePercent float64, termMonths int) (Amortization, error) {
	if err := validateTerms(principal, annualRatePercent, termMonths); err != nil {
		return Amortization{}, err
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := monthlyRate(annualRatePercent)
	payment, ok := annuityPayment(principal.InexactFloat64(), r, termMonths)
	if !ok {
		return Amortization{
			MonthlyPayment: principal.Div(n),
			TotalPayment:   principal,
			Overpayment:    decimal.Zero,
		}, nil
	}

	monthly := decimal.NewFromFloat(payment).RoundCeil(2)
	// Float error on tiny rates must not drop the payment below an even split.
	if even := principal.Div(n).RoundCeil(2); monthly.LessThan(even) {
		monthly = even
	}

	total := monthly.Mul(n)
	return Amortization{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		Overpayment:    total.Sub(principal),
	}, nil
}

// RemainingBalance returns the outstanding principal after paymentsMade
// payments:
//
//	B = P * ((1+r)^n - (1+r)^p) / ((1+r)^n - 1)
func RemainingBalance(principal decimal.Decimal, annualRatePercent float64, termMonths, paymentsMade int) (decimal.Decimal, error) {
	if err := validateTerms(principal, annualRatePercent, termMonths); err != nil {
		return decimal.Zero, err
	}
	if paymentsMade < 0 {
		return decimal.Zero, fmt.Errorf("%w: %d payments made", apperrors.ErrInvalidTerm, paymentsMade)
	}
	if paymentsMade >= termMonths {
		return decimal.Zero, nil
	}

	// With g(k) = (1+r)^k - 1 the share is (g(n) - g(p)) / g(n).
	r := monthlyRate(annualRatePercent)
	gn := growth(r, termMonths)
	if math.IsInf(gn, 0) {
		// The schedule is effectively interest-only; principal is still owed.
		return principal.Round(2), nil
	}
	share := (gn - growth(r, paymentsMade)) / gn
	if !(gn > 0) || math.IsNaN(share) || math.IsInf(share, 0) {
		left := decimal.NewFromInt(int64(termMonths - paymentsMade))
		return principal.Mul(left).Div(decimal.NewFromInt(int64(termMonths))).Round(2), nil
	}
	return principal.Mul(decimal.NewFromFloat(share)).Round(2), nil
}

func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// growth returns (1+r)^k - 1 without the cancellation of computing it
// directly, so rates far below float epsilon stay positive.
func growth(r float64, k int) float64 {
	return math.Expm1(float64(k) * math.Log1p(r))
}

// annuityPayment reports false when r is too small to produce a finite
// annuity; the caller then splits the principal evenly.
func annuityPayment(principal, r float64, termMonths int) (float64, bool) {
	if r == 0 {
		return 0, false
	}
	g := growth(r, termMonths)
	if math.IsInf(g, 0) {
		return principal * r, true
	}
	if !(g > 0) {
		return 0, false
	}
	payment := principal * r * (g + 1) / g
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, false
	}
	return payment, true
}

func validateTerms(principal decimal.Decimal, annualRatePercent float64, termMonths int) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrInvalidAmount, principal)
	}
	if termMonths < 1 {
		return fmt.Errorf("%w: term must be at least 1 month, got %d", apperrors.ErrInvalidTerm, termMonths)
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return fmt.Errorf("%w: annual rate must be a non-negative number, got %v", apperrors.ErrInvalidRate, annualRatePercent)
	}
	return nil
}
