package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSchedule is one period of an amortization schedule
type PaymentSchedule struct {
	Period      int             `json:"period"`
	PaymentDate time.Time       `json:"payment_date"`
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Amount      decimal.Decimal `json:"amount"`
	Remaining   decimal.Decimal `json:"remaining"`
}
