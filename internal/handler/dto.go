package handler

import (
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	PIN   string `json:"pin" validate:"required,numeric,len=4"`
	Email string `json:"email" validate:"required,email"`
}

type registerResponse struct {
	User    *models.User    `json:"user"`
	Account *models.Account `json:"account"`
}

type loginRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	PIN   string `json:"pin" validate:"required,numeric,len=4"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type transferRequest struct {
	ToAccountID int64           `json:"to_account_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type creditRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required,gt=0"`
	TermMonths int             `json:"term_months" validate:"required,gt=0"`
}

type mortgageRequest struct {
	PropertyCost decimal.Decimal `json:"property_cost" validate:"required,gt=0"`
	DownPayment  decimal.Decimal `json:"down_payment" validate:"gte=0"`
	TermYears    int             `json:"term_years" validate:"required,gt=0"`
}

type depositRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required,gt=0"`
	TermMonths int             `json:"term_months" validate:"required,gt=0"`
}

type amortizationRequest struct {
	Principal  decimal.Decimal `json:"principal" validate:"required,gt=0"`
	Rate       float64         `json:"rate" validate:"gte=0"`
	TermMonths int             `json:"term_months" validate:"required,gt=0"`
}

type scheduleRequest struct {
	Principal  decimal.Decimal `json:"principal" validate:"required,gt=0"`
	Rate       float64         `json:"rate" validate:"gte=0"`
	TermMonths int             `json:"term_months" validate:"required,gt=0,lte=360"`
	StartDate  *time.Time      `json:"start_date"`
}

type depositQuoteRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required,gt=0"`
	TermMonths int             `json:"term_months" validate:"required,gt=0"`
	Rate       *float64        `json:"rate" validate:"omitempty,gte=0"`
}

type keyRateResponse struct {
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
