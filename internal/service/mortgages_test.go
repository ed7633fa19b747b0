package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mortgageProfile scores 625, which allows a mortgage of up to twice the
// 1 000 000 balance.
func mortgageProfile(t *testing.T, f *fixture) (userID, accountID int64) {
	acc := f.seedAccount(t, 1_000_000, 800, 15, 5)
	return acc.UserID, acc.ID
}

func mustDecimal(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestApplyMortgage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, accountID := mortgageProfile(t, f)

	m, err := f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(1_500_000), mustDecimal(300_000), 20)
	require.NoError(t, err)
	assert.Equal(t, 17.0, m.InterestRate, "base 16 plus one point for the 600-699 band")
	assert.Equal(t, "1200000.00", m.Amount.StringFixed(2))
	assert.Equal(t, 240, m.TermMonths)
	assert.True(t, m.IsActive)
	assert.Equal(t, "1000000.00", f.balance(t, accountID), "mortgages do not change the balance")

	_, err = f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(1_000_000), mustDecimal(300_000), 10)
	reason, ok := apperrors.Reason(err)
	require.True(t, ok)
	assert.Contains(t, reason, "active mortgage")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Applications.WithLabelValues(productMortgage, metrics.OutcomeApproved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Applications.WithLabelValues(productMortgage, metrics.OutcomeRejected)))
}

func TestApplyMortgage_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, accountID := mortgageProfile(t, f)
	newcomer := f.seedAccount(t, 5_000_000, 0, 0, 0)

	tests := []struct {
		name       string
		userID     int64
		accountID  int64
		cost, down int64
		reason     string
	}{
		{"small down payment", userID, accountID, 1_500_000, 150_000, "down payment"},
		{"over the limit", userID, accountID, 3_000_000, 600_000, "exceeds the maximum of 2000000.00"},
		{"low score", newcomer.UserID, newcomer.ID, 1_000_000, 500_000, "credit score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ApplyMortgage(ctx, tt.userID, tt.accountID, mustDecimal(tt.cost), mustDecimal(tt.down), 20)
			reason, ok := apperrors.Reason(err)
			require.True(t, ok, "got %v", err)
			assert.Contains(t, reason, tt.reason)
		})
	}

	mortgages, err := f.svc.ListMortgages(ctx, userID, accountID)
	require.NoError(t, err)
	assert.Empty(t, mortgages)
}

func TestApplyMortgage_InvalidTerms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, accountID := mortgageProfile(t, f)

	_, err := f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(50_000), mustDecimal(20_000), 10)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	_, err = f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(1_000_000), mustDecimal(1_000_000), 10)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	_, err = f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(1_000_000), mustDecimal(300_000), 31)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTerm))
}

func TestRepayMortgage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, accountID := mortgageProfile(t, f)
	m, err := f.svc.ApplyMortgage(ctx, userID, accountID, mustDecimal(1_500_000), mustDecimal(300_000), 20)
	require.NoError(t, err)

	repaid, err := f.svc.RepayMortgage(ctx, userID, accountID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaid.PaymentsMade)
	assert.Equal(t, mustDecimal(1_000_000).Sub(m.MonthlyPayment).StringFixed(2), f.balance(t, accountID))
}

func TestQuoteMortgage(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.QuoteMortgage(context.Background(), mustDecimal(1_500_000), mustDecimal(300_000), 20)
	require.NoError(t, err)
	assert.Equal(t, 16.0, q.Rate)
	assert.Equal(t, "1200000.00", q.LoanAmount.StringFixed(2))
	assert.InDelta(t, 20.0, q.DownPaymentPercent, 1e-9)

	_, err = f.svc.QuoteMortgage(context.Background(), mustDecimal(1_500_000), mustDecimal(100_000), 20)
	assert.True(t, isRejection(err))
}
