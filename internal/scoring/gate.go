package scoring

import (
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/finance"
	"github.com/shopspring/decimal"
)

// Eligibility thresholds.
const (
	MinMortgageScore = 600
	MinCreditScore   = 400

	// MaxMortgageCap bounds any mortgage regardless of score.
	MaxMortgageCap = 10_000_000

	// FallbackCreditRate is charged to accounts below every scored band.
	FallbackCreditRate = 20.0
)

var (
	creditBalanceUnit    = decimal.NewFromInt(10_000)
	maxCreditMultiplier  = decimal.NewFromFloat(2.0)
	maxMortgageCapAmount = decimal.NewFromInt(MaxMortgageCap)
)

// MortgageMultiplier is the balance multiple an account may borrow for a
// mortgage at the given score.
func MortgageMultiplier(score int) decimal.Decimal {
	switch {
	case score >= 900:
		return decimal.NewFromInt(5)
	case score >= 800:
		return decimal.NewFromInt(4)
	case score >= 700:
		return decimal.NewFromInt(3)
	case score >= 600:
		return decimal.NewFromInt(2)
	default:
		return decimal.Zero
	}
}

// MaxMortgageFor uses the balance as an income proxy.
func MaxMortgageFor(score int, balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(balance.Mul(MortgageMultiplier(score)), maxMortgageCapAmount)
}

// CreditBase is the unscaled credit limit for a score band.
func CreditBase(score int) decimal.Decimal {
	switch {
	case score >= 800:
		return decimal.NewFromInt(1_000_000)
	case score >= 600:
		return decimal.NewFromInt(500_000)
	case score >= 400:
		return decimal.NewFromInt(100_000)
	default:
		return decimal.Zero
	}
}

// MaxCreditFor scales the band base by balance/10000, capped at 2x.
func MaxCreditFor(score int, balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	multiplier := decimal.Min(balance.Div(creditBalanceUnit), maxCreditMultiplier)
	return CreditBase(score).Mul(multiplier).Round(2)
}

// CreditRateFor returns the annual consumer credit rate in percent.
func CreditRateFor(score int) float64 {
	switch {
	case score >= 900:
		return 8.0
	case score >= 800:
		return 10.0
	case score >= 700:
		return 12.0
	case score >= 600:
		return 14.0
	case score >= 400:
		return 16.0
	default:
		return FallbackCreditRate
	}
}

// MortgageInterestRate adjusts the market base rate by score band.
func MortgageInterestRate(baseRate float64, score int) float64 {
	switch {
	case score >= 900:
		return baseRate - 2.0
	case score >= 800:
		return baseRate - 1.0
	case score >= 700:
		return baseRate
	case score >= 600:
		return baseRate + 1.0
	default:
		return baseRate
	}
}

// Evaluation is one scoring pass over a profile. Every eligibility question
// answered from it uses the same score.
type Evaluation struct {
	Breakdown         Breakdown
	Balance           decimal.Decimal
	HasActiveMortgage bool
}

// Score is the final clamped score.
func (ev Evaluation) Score() int {
	return ev.Breakdown.FinalScore
}

// CanTakeMortgage is false while any mortgage is active, whatever the score.
func (ev Evaluation) CanTakeMortgage() bool {
	if ev.HasActiveMortgage {
		return false
	}
	return ev.Score() >= MinMortgageScore
}

// MaxMortgageAmount is the largest mortgage the score and balance allow.
func (ev Evaluation) MaxMortgageAmount() decimal.Decimal {
	return MaxMortgageFor(ev.Score(), ev.Balance)
}

// CanTakeCredit reports whether the score reaches the credit minimum.
func (ev Evaluation) CanTakeCredit() bool {
	return ev.Score() >= MinCreditScore
}

// MaxCreditAmount is the largest credit the score and balance allow.
func (ev Evaluation) MaxCreditAmount() decimal.Decimal {
	return MaxCreditFor(ev.Score(), ev.Balance)
}

// CreditInterestRate is the annual credit rate in percent for the score.
func (ev Evaluation) CreditInterestRate() float64 {
	return CreditRateFor(ev.Score())
}

// Gate turns a score plus account state into accept/reject decisions.
type Gate struct {
	engine                *Engine
	minDownPaymentPercent float64
}

// NewGate builds a gate. minDownPaymentPercent is the smallest share of the
// property cost, in percent, accepted as a mortgage down payment.
func NewGate(engine *Engine, minDownPaymentPercent float64) *Gate {
	return &Gate{engine: engine, minDownPaymentPercent: minDownPaymentPercent}
}

// MinDownPaymentPercent returns the configured down payment floor.
func (g *Gate) MinDownPaymentPercent() float64 {
	return g.minDownPaymentPercent
}

// Evaluate scores p once.
func (g *Gate) Evaluate(p Profile, now time.Time) Evaluation {
	return Evaluation{
		Breakdown:         g.engine.Score(p, now),
		Balance:           p.Account.Balance,
		HasActiveMortgage: p.HasActiveMortgage(),
	}
}

// CanTakeMortgage evaluates p and reports mortgage eligibility.
func (g *Gate) CanTakeMortgage(p Profile, now time.Time) bool {
	return g.Evaluate(p, now).CanTakeMortgage()
}

// MaxMortgageAmount evaluates p and returns its mortgage limit.
func (g *Gate) MaxMortgageAmount(p Profile, now time.Time) decimal.Decimal {
	return g.Evaluate(p, now).MaxMortgageAmount()
}

// CanTakeCredit evaluates p and reports credit eligibility.
func (g *Gate) CanTakeCredit(p Profile, now time.Time) bool {
	return g.Evaluate(p, now).CanTakeCredit()
}

// MaxCreditAmount evaluates p and returns its credit limit.
func (g *Gate) MaxCreditAmount(p Profile, now time.Time) decimal.Decimal {
	return g.Evaluate(p, now).MaxCreditAmount()
}

// CreditInterestRate evaluates p and returns its annual credit rate in percent.
func (g *Gate) CreditInterestRate(p Profile, now time.Time) float64 {
	return g.Evaluate(p, now).CreditInterestRate()
}

// CheckCreditApplication rejects a credit the evaluation does not allow.
func (g *Gate) CheckCreditApplication(ev Evaluation, amount decimal.Decimal) error {
	if !ev.CanTakeCredit() {
		return apperrors.Reject("credit score %d is below the minimum of %d for a credit", ev.Score(), MinCreditScore)
	}
	if limit := ev.MaxCreditAmount(); amount.GreaterThan(limit) {
		return apperrors.Reject("requested credit %s exceeds the maximum of %s", amount.StringFixed(2), limit.StringFixed(2))
	}
	return nil
}

// CheckDownPayment enforces the minimum down payment share.
func (g *Gate) CheckDownPayment(propertyCost, downPayment decimal.Decimal) error {
	if pct := finance.DownPaymentPercent(propertyCost, downPayment); pct < g.minDownPaymentPercent {
		return apperrors.Reject("down payment is %.1f%% of the property cost, at least %.0f%% is required", pct, g.minDownPaymentPercent)
	}
	return nil
}

// CheckMortgageApplication rejects a mortgage the evaluation does not allow.
func (g *Gate) CheckMortgageApplication(ev Evaluation, propertyCost, downPayment decimal.Decimal) error {
	if ev.HasActiveMortgage {
		return apperrors.Reject("account already has an active mortgage")
	}
	if !ev.CanTakeMortgage() {
		return apperrors.Reject("credit score %d is below the minimum of %d for a mortgage", ev.Score(), MinMortgageScore)
	}
	if err := g.CheckDownPayment(propertyCost, downPayment); err != nil {
		return err
	}
	principal := propertyCost.Sub(downPayment)
	if limit := ev.MaxMortgageAmount(); principal.GreaterThan(limit) {
		return apperrors.Reject("requested mortgage %s exceeds the maximum of %s", principal.StringFixed(2), limit.StringFixed(2))
	}
	return nil
}
