// Package scoring computes the account credit score and the eligibility
// rules built on top of it.
package scoring

import (
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 1000
)

// Late-payment counts above this are treated as this value; the score is
// already at the floor long before.
const maxCountedLatePayments = 1 << 20

// Profile is everything the score is derived from.
type Profile struct {
	Account      models.Account
	Credits      []models.Credit
	Mortgages    []models.Mortgage
	Transactions []models.Transaction
}

// HasActiveMortgage reports whether any mortgage in the profile is active.
func (p Profile) HasActiveMortgage() bool {
	for i := range p.Mortgages {
		if p.Mortgages[i].IsActive {
			return true
		}
	}
	return false
}

// Breakdown itemises every component of a score.
type Breakdown struct {
	BaseScore           int             `json:"base_score"`
	AccountAgeDays      int             `json:"account_age_days"`
	AccountAgeBonus     int             `json:"account_age_bonus"`
	TransactionCount    int             `json:"transaction_count"`
	TransactionBonus    int             `json:"transaction_bonus"`
	Balance             decimal.Decimal `json:"current_balance"`
	BalanceBonus        int             `json:"balance_bonus"`
	ActiveCredits       int             `json:"active_credits"`
	ClosedCredits       int             `json:"closed_credits"`
	CreditAdjustment    int64           `json:"credit_adjustment"`
	ActiveMortgages     int             `json:"active_mortgages"`
	ClosedMortgages     int             `json:"closed_mortgages"`
	MortgageAdjustment  int64           `json:"mortgage_adjustment"`
	RecentTransactions  int             `json:"recent_transactions_count"`
	RecentActivityBonus int             `json:"recent_activity_bonus"`
	RawScore            int64           `json:"raw_score"`
	FinalScore          int             `json:"final_score"`
}

// Engine evaluates the weighted-sum score heuristic.
type Engine struct {
	w Weights
}

// NewEngine returns an engine using the given weights.
func NewEngine(w Weights) *Engine {
	return &Engine{w: w}
}

// Weights returns the constants the engine was built with.
func (e *Engine) Weights() Weights {
	return e.w
}

// Score computes the credit score of p as of now. It has no side effects.
func (e *Engine) Score(p Profile, now time.Time) Breakdown {
	w := e.w
	b := Breakdown{
		BaseScore: w.Base,
		Balance:   p.Account.Balance,
	}

	// Account age
	b.AccountAgeDays = p.Account.AgeInDays(now)
	perPoint := w.AgeDaysPerPoint
	if perPoint < 1 {
		perPoint = 1
	}
	b.AccountAgeBonus = min(b.AccountAgeDays/perPoint, w.AgeBonusCap)

	// Transaction history
	b.TransactionCount = len(p.Transactions)
	b.TransactionBonus = min(b.TransactionCount*w.PointsPerTransaction, w.TransactionBonusCap)

	// Balance tier, highest applicable wins
	balance := p.Account.Balance
	switch {
	case balance.GreaterThanOrEqual(decimal.NewFromInt(w.HighBalance)):
		b.BalanceBonus = w.HighBalanceBonus
	case balance.GreaterThanOrEqual(decimal.NewFromInt(w.MidBalance)):
		b.BalanceBonus = w.MidBalanceBonus
	case balance.GreaterThanOrEqual(decimal.NewFromInt(w.LowBalance)):
		b.BalanceBonus = w.LowBalanceBonus
	}

	for i := range p.Credits {
		c := &p.Credits[i]
		if c.IsActive {
			b.ActiveCredits++
			b.CreditAdjustment -= int64(w.ActiveCreditPenalty)
			if c.NextPaymentDueAt.Before(now) {
				b.CreditAdjustment -= int64(w.OverdueCreditPenalty)
			}
		} else {
			b.ClosedCredits++
			b.CreditAdjustment += int64(w.ClosedCreditBonus)
		}
		b.CreditAdjustment -= int64(w.CreditLatePenalty) * countedLate(c.LatePaymentCount)
	}

	ratioDivisor := decimal.Max(balance, decimal.NewFromInt(1))
	for i := range p.Mortgages {
		m := &p.Mortgages[i]
		if m.IsActive {
			b.ActiveMortgages++
			b.MortgageAdjustment += int64(w.ActiveMortgageBonus)
			if m.Amount.Div(ratioDivisor).LessThanOrEqual(decimal.NewFromInt(w.MortgageRatioLimit)) {
				b.MortgageAdjustment += int64(w.MortgageRatioBonus)
			}
		} else {
			b.ClosedMortgages++
			b.MortgageAdjustment += int64(w.ClosedMortgageBonus)
		}
		b.MortgageAdjustment -= int64(w.MortgageLatePenalty) * countedLate(m.LatePaymentCount)
	}

	// Recent activity
	cutoff := now.Add(-w.RecentWindow)
	for i := range p.Transactions {
		if p.Transactions[i].CreatedAt.After(cutoff) {
			b.RecentTransactions++
		}
	}
	if b.RecentTransactions >= w.RecentActivityMin {
		b.RecentActivityBonus = w.RecentActivityBonus
	}

	b.RawScore = int64(b.BaseScore) +
		int64(b.AccountAgeBonus) +
		int64(b.TransactionBonus) +
		int64(b.BalanceBonus) +
		b.CreditAdjustment +
		b.MortgageAdjustment +
		int64(b.RecentActivityBonus)
	b.FinalScore = clamp(b.RawScore)
	return b
}

func countedLate(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(min(n, maxCountedLatePayments))
}

func clamp(raw int64) int {
	switch {
	case raw < MinScore:
		return MinScore
	case raw > MaxScore:
		return MaxScore
	default:
		return int(raw)
	}
}
