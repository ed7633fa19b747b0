package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether money entered or left the account.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID          int64           `json:"id"`
	Ref         string          `json:"ref"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
