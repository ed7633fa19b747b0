package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDeposit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.seedAccount(t, 50_000, 0, 0, 0)

	d, err := f.svc.OpenDeposit(ctx, acc.UserID, acc.ID, decimal.NewFromInt(10_000), 12)
	require.NoError(t, err)
	assert.Equal(t, 10.0, d.InterestRate)
	assert.Equal(t, "11047.13", d.FinalAmount.StringFixed(2))
	assert.Equal(t, "1047.13", d.Income.StringFixed(2))
	assert.Equal(t, testNow.AddDate(0, 12, 0), d.MaturesAt)
	assert.Equal(t, "40000.00", f.balance(t, acc.ID))

	big, err := f.svc.OpenDeposit(ctx, acc.UserID, acc.ID, decimal.NewFromInt(35_000), 12)
	require.NoError(t, err)
	assert.Equal(t, 16.0, big.InterestRate)

	deposits, err := f.svc.ListDeposits(ctx, acc.UserID, acc.ID)
	require.NoError(t, err)
	assert.Len(t, deposits, 2)
}

func TestOpenDeposit_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.seedAccount(t, 50_000, 0, 0, 0)

	_, err := f.svc.OpenDeposit(ctx, acc.UserID, acc.ID, decimal.NewFromInt(60_000), 12)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	_, err = f.svc.OpenDeposit(ctx, acc.UserID, acc.ID, decimal.NewFromInt(9_999), 12)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	_, err = f.svc.OpenDeposit(ctx, acc.UserID, acc.ID, decimal.NewFromInt(10_000), 61)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTerm))

	assert.Equal(t, "50000.00", f.balance(t, acc.ID))
	deposits, err := f.svc.ListDeposits(ctx, acc.UserID, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, deposits)
}

func TestQuoteDeposit(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.QuoteDeposit(decimal.NewFromInt(10_000), 12, nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, q.Rate)
	assert.Equal(t, "11047.13", q.FinalAmount.StringFixed(2))

	zero := 0.0
	q, err = f.svc.QuoteDeposit(decimal.NewFromInt(10_000), 12, &zero)
	require.NoError(t, err)
	assert.True(t, q.Income.IsZero())
}
