package finance

import (
	"errors"
	"testing"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMortgage(t *testing.T) {
	q, err := ComputeMortgage(decimal.NewFromInt(5_000_000), decimal.NewFromInt(1_000_000), 20, 16)
	require.NoError(t, err)

	assert.True(t, q.LoanAmount.Equal(decimal.NewFromInt(4_000_000)))
	assert.Equal(t, 240, q.TermMonths)
	assert.InDelta(t, 20.0, q.DownPaymentPercent, 1e-9)
	assert.True(t, q.MonthlyPayment.IsPositive())
	assert.True(t, q.TotalPayment.GreaterThan(q.LoanAmount))
}

func TestComputeMortgage_Validation(t *testing.T) {
	tests := []struct {
		name  string
		cost  int64
		down  int64
		years int
		want  error
	}{
		{"cheap property", 99_999, 20_000, 10, apperrors.ErrInvalidAmount},
		{"down payment equals cost", 500_000, 500_000, 10, apperrors.ErrInvalidAmount},
		{"negative down payment", 500_000, -1, 10, apperrors.ErrInvalidAmount},
		{"zero years", 500_000, 100_000, 0, apperrors.ErrInvalidTerm},
		{"too many years", 500_000, 100_000, 31, apperrors.ErrInvalidTerm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeMortgage(decimal.NewFromInt(tt.cost), decimal.NewFromInt(tt.down), tt.years, 12)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateCredit(t *testing.T) {
	assert.NoError(t, ValidateCredit(decimal.NewFromInt(10_000), 1))
	assert.True(t, errors.Is(ValidateCredit(decimal.NewFromInt(5_000), 12), apperrors.ErrInvalidAmount))
	assert.True(t, errors.Is(ValidateCredit(decimal.NewFromInt(50_000), 61), apperrors.ErrInvalidTerm))
}
