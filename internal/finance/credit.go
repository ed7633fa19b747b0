package finance

import (
	"fmt"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Consumer credit limits.
const (
	MinCreditAmount     = 10_000
	MaxCreditTermMonths = 60
)

// ValidateCredit applies the product limits for a consumer credit request.
func ValidateCredit(amount decimal.Decimal, termMonths int) error {
	if amount.LessThan(decimal.NewFromInt(MinCreditAmount)) {
		return fmt.Errorf("%w: minimum credit is %d", apperrors.ErrInvalidAmount, MinCreditAmount)
	}
	if termMonths < 1 || termMonths > MaxCreditTermMonths {
		return fmt.Errorf("%w: credit term must be 1..%d months", apperrors.ErrInvalidTerm, MaxCreditTermMonths)
	}
	return nil
}
