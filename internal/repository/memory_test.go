package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *MemoryStore, balance int64) *models.Account {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Phone: "+7900" + time.Now().Format("150405.000000")}
	require.NoError(t, s.CreateUser(ctx, user))
	acc := &models.Account{UserID: user.ID, Balance: decimal.NewFromInt(balance), Currency: "RUB"}
	require.NoError(t, s.CreateAccount(ctx, acc))
	return acc
}

func TestMemoryStore_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := seedAccount(t, s, 1000)

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx Store) error {
		a, err := tx.LoadAccount(ctx, acc.ID)
		require.NoError(t, err)
		require.NoError(t, a.DebitBalance(decimal.NewFromInt(400)))
		require.NoError(t, tx.SaveAccount(ctx, a))
		require.NoError(t, tx.AppendTransaction(ctx, &models.Transaction{AccountID: a.ID, Amount: decimal.NewFromInt(400), Type: models.TransactionExpense}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := s.LoadAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", a.Balance.String())
	txns, err := s.ListTransactions(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestMemoryStore_InTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := seedAccount(t, s, 1000)

	err := s.InTx(ctx, func(tx Store) error {
		a, err := tx.LoadAccount(ctx, acc.ID)
		if err != nil {
			return err
		}
		if err := a.CreditBalance(decimal.NewFromInt(250)); err != nil {
			return err
		}
		// Nested transactions join the outer one.
		return tx.InTx(ctx, func(inner Store) error { return inner.SaveAccount(ctx, a) })
	})
	require.NoError(t, err)

	a, err := s.LoadAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "1250", a.Balance.String())
}

func TestMemoryStore_Constraints(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := seedAccount(t, s, 0)

	user, err := s.FindUserByID(ctx, acc.UserID)
	require.NoError(t, err)
	err = s.CreateUser(ctx, &models.User{Phone: user.Phone})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))

	_, err = s.LoadAccount(ctx, 9999)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	acc.Balance = decimal.NewFromInt(-1)
	assert.True(t, errors.Is(s.SaveAccount(ctx, acc), apperrors.ErrPersistence))

	now := time.Now()
	first, err := models.NewMortgage(acc.ID, decimal.NewFromInt(1_000_000), decimal.NewFromInt(200_000), 10, 16, decimal.NewFromInt(13_000), now)
	require.NoError(t, err)
	require.NoError(t, s.AppendMortgage(ctx, first))
	second, err := models.NewMortgage(acc.ID, decimal.NewFromInt(1_000_000), decimal.NewFromInt(200_000), 10, 16, decimal.NewFromInt(13_000), now)
	require.NoError(t, err)
	assert.True(t, errors.Is(s.AppendMortgage(ctx, second), apperrors.ErrDuplicate))
}

func TestMemoryStore_MaturedDeposits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	acc := seedAccount(t, s, 0)
	opened := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	short, err := models.NewDeposit(acc.ID, decimal.NewFromInt(10_000), 10, 3, decimal.NewFromInt(10_252), opened)
	require.NoError(t, err)
	long, err := models.NewDeposit(acc.ID, decimal.NewFromInt(10_000), 16, 24, decimal.NewFromInt(13_757), opened)
	require.NoError(t, err)
	require.NoError(t, s.AppendDeposit(ctx, short))
	require.NoError(t, s.AppendDeposit(ctx, long))

	matured, err := s.ListMaturedDeposits(ctx, opened.AddDate(0, 6, 0))
	require.NoError(t, err)
	require.Len(t, matured, 1)
	assert.Equal(t, short.ID, matured[0].ID)

	matured[0].MarkPaidOut(opened.AddDate(0, 6, 0))
	require.NoError(t, s.UpdateDeposit(ctx, &matured[0]))
	matured, err = s.ListMaturedDeposits(ctx, opened.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.Empty(t, matured)
}
