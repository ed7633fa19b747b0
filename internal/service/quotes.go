package service

import (
	"context"

	"github.com/Dan9191/bank-credit-engine/internal/finance"
	"github.com/Dan9191/bank-credit-engine/internal/rates"
	"github.com/shopspring/decimal"
)

// DepositQuote is a deposit projection with the rate it was computed at.
type DepositQuote struct {
	Rate float64 `json:"rate"`
	finance.DepositGrowth
}

// MortgageQuote is a mortgage projection at the unadjusted base rate.
type MortgageQuote struct {
	Rate       float64      `json:"rate"`
	RateSource rates.Source `json:"rate_source"`
	finance.MortgageQuote
}

// KeyRate returns the current base rate and where it came from
func (s *Service) KeyRate(ctx context.Context) rates.Quote {
	return s.rates.Current(ctx)
}

// QuoteDeposit projects a deposit. A nil rate uses the published deposit rate
// for the amount and term.
func (s *Service) QuoteDeposit(amount decimal.Decimal, termMonths int, rate *float64) (*DepositQuote, error) {
	r := s.deposits.For(amount, termMonths)
	if rate != nil {
		r = *rate
	}
	growth, err := finance.ComputeDepositGrowth(amount, r, termMonths)
	if err != nil {
		return nil, err
	}
	return &DepositQuote{Rate: r, DepositGrowth: growth}, nil
}

// QuoteMortgage projects a mortgage for a prospective borrower, enforcing the
// minimum down payment. Score adjustments apply only to a real application.
func (s *Service) QuoteMortgage(ctx context.Context, propertyCost, downPayment decimal.Decimal, termYears int) (*MortgageQuote, error) {
	base := s.rates.Current(ctx)
	quote, err := finance.ComputeMortgage(propertyCost, downPayment, termYears, base.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CheckDownPayment(propertyCost, downPayment); err != nil {
		return nil, err
	}
	return &MortgageQuote{Rate: base.Rate, RateSource: base.Source, MortgageQuote: quote}, nil
}
