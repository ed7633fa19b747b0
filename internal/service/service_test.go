package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/rates"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/Dan9191/bank-credit-engine/internal/scoring"
	"github.com/Dan9191/bank-credit-engine/internal/utils/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedRates struct {
	quote rates.Quote
}

func (f fixedRates) Current(context.Context) rates.Quote { return f.quote }
func (f fixedRates) Refresh(context.Context) rates.Quote { return f.quote }

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PaymentOverdue(ctx context.Context, to string, n email.OverdueNotice) error {
	return m.Called(to, n).Error(0)
}

func (m *mockNotifier) DepositPaidOut(ctx context.Context, to string, n email.PayoutNotice) error {
	return m.Called(to, n).Error(0)
}

type fixture struct {
	svc      *Service
	store    *repository.MemoryStore
	notifier *mockNotifier
	metrics  *metrics.Metrics
	users    int
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret",
		JWTTTL:                time.Hour,
		DepositBaseRate:       16,
		DepositSmallRate:      10,
		MinDownPaymentPercent: 20,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	notifier := new(mockNotifier)
	m := metrics.New()
	gate := scoring.NewGate(scoring.NewEngine(scoring.DefaultWeights()), 20)
	rateSource := fixedRates{quote: rates.Quote{Rate: 16, Source: rates.SourceFallback, FetchedAt: testNow}}

	svc := NewService(store, gate, rateSource, notifier, m, log, testConfig())
	svc.now = func() time.Time { return testNow }
	return &fixture{svc: svc, store: store, notifier: notifier, metrics: m}
}

// seedAccount creates a user with one account holding balance, opened
// ageDays before testNow, with oldTxns transactions older than the recent
// activity window and recentTxns inside it.
func (f *fixture) seedAccount(t *testing.T, balance int64, ageDays, oldTxns, recentTxns int) *models.Account {
	t.Helper()
	ctx := context.Background()
	f.users++
	user := &models.User{Phone: fmt.Sprintf("+7900%07d", f.users), Email: "client@mail.local", PINHash: "x"}
	require.NoError(t, f.store.CreateUser(ctx, user))
	acc := &models.Account{
		UserID:   user.ID,
		Balance:  decimal.NewFromInt(balance),
		Currency: DefaultCurrency,
		OpenedAt: testNow.AddDate(0, 0, -ageDays),
	}
	require.NoError(t, f.store.CreateAccount(ctx, acc))
	for i := 0; i < oldTxns+recentTxns; i++ {
		at := testNow.AddDate(0, -3, 0)
		if i >= oldTxns {
			at = testNow.AddDate(0, 0, -2)
		}
		require.NoError(t, f.store.AppendTransaction(ctx, &models.Transaction{
			AccountID: acc.ID, Amount: decimal.NewFromInt(100), Type: models.TransactionIncome, CreatedAt: at,
		}))
	}
	return acc
}

func (f *fixture) balance(t *testing.T, accountID int64) string {
	t.Helper()
	a, err := f.store.LoadAccount(context.Background(), accountID)
	require.NoError(t, err)
	return a.Balance.StringFixed(2)
}

func (f *fixture) transactionCount(t *testing.T, accountID int64) int {
	t.Helper()
	txns, err := f.store.ListTransactions(context.Background(), accountID)
	require.NoError(t, err)
	return len(txns)
}

// failingStore fails AppendTransaction, inside and outside transactions.
type failingStore struct {
	repository.Store
}

func (f failingStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.InTx(ctx, func(tx repository.Store) error {
		return fn(failingStore{tx})
	})
}

func (f failingStore) AppendTransaction(context.Context, *models.Transaction) error {
	return fmt.Errorf("%w: disk full", apperrors.ErrPersistence)
}

func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrInsufficientEligibility)
}
