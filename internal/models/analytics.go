package models

import "github.com/shopspring/decimal"

// EligibilityReport summarises what products an account may take right now
type EligibilityReport struct {
	CreditScore        int             `json:"credit_score"`
	CanTakeCredit      bool            `json:"can_take_credit"`
	MaxCreditAmount    decimal.Decimal `json:"max_credit_amount"`
	CreditInterestRate float64         `json:"credit_interest_rate"`
	CanTakeMortgage    bool            `json:"can_take_mortgage"`
	MaxMortgageAmount  decimal.Decimal `json:"max_mortgage_amount"`
	MortgageRate       float64         `json:"mortgage_interest_rate"`
	MortgageRateSource string          `json:"mortgage_rate_source"`
}
