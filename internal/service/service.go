package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/Dan9191/bank-credit-engine/internal/finance"
	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/rates"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/Dan9191/bank-credit-engine/internal/scoring"
	"github.com/Dan9191/bank-credit-engine/internal/utils/email"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RateSource quotes the annual base rate for mortgages.
type RateSource interface {
	Current(ctx context.Context) rates.Quote
	Refresh(ctx context.Context) rates.Quote
}

// Notifier delivers customer notifications.
type Notifier interface {
	PaymentOverdue(ctx context.Context, to string, n email.OverdueNotice) error
	DepositPaidOut(ctx context.Context, to string, n email.PayoutNotice) error
}

// Service handles business logic
type Service struct {
	store    repository.Store
	gate     *scoring.Gate
	rates    RateSource
	deposits finance.DepositRates
	notifier Notifier
	metrics  *metrics.Metrics
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store repository.Store, gate *scoring.Gate, rateSource RateSource, notifier Notifier, m *metrics.Metrics, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		gate:     gate,
		rates:    rateSource,
		deposits: finance.DepositRates{Small: cfg.DepositSmallRate, Base: cfg.DepositBaseRate},
		notifier: notifier,
		metrics:  m,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}

// loadOwnedAccount loads the account and checks that userID holds it.
func loadOwnedAccount(ctx context.Context, tx repository.Store, userID, accountID int64) (*models.Account, error) {
	account, err := tx.LoadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %d does not belong to user %d", apperrors.ErrForbidden, accountID, userID)
	}
	return account, nil
}

// loadProfile gathers everything the score is computed from.
func loadProfile(ctx context.Context, tx repository.Store, account *models.Account) (scoring.Profile, error) {
	credits, err := tx.ListCredits(ctx, account.ID)
	if err != nil {
		return scoring.Profile{}, err
	}
	mortgages, err := tx.ListMortgages(ctx, account.ID)
	if err != nil {
		return scoring.Profile{}, err
	}
	txns, err := tx.ListTransactions(ctx, account.ID)
	if err != nil {
		return scoring.Profile{}, err
	}
	return scoring.Profile{
		Account:      *account,
		Credits:      credits,
		Mortgages:    mortgages,
		Transactions: txns,
	}, nil
}

// record appends a transaction for a balance change that already happened
// on the account.
func record(ctx context.Context, tx repository.Store, accountID int64, amount decimal.Decimal, typ models.TransactionType, description string, now time.Time) error {
	return tx.AppendTransaction(ctx, &models.Transaction{
		Ref:         uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		CreatedAt:   now,
	})
}

// credit adds amount to the account, saves it and records the income.
func credit(ctx context.Context, tx repository.Store, account *models.Account, amount decimal.Decimal, description string, now time.Time) error {
	if err := account.CreditBalance(amount); err != nil {
		return err
	}
	if err := tx.SaveAccount(ctx, account); err != nil {
		return err
	}
	return record(ctx, tx, account.ID, amount, models.TransactionIncome, description, now)
}

// debit removes amount from the account, saves it and records the expense.
func debit(ctx context.Context, tx repository.Store, account *models.Account, amount decimal.Decimal, description string, now time.Time) error {
	if err := account.DebitBalance(amount); err != nil {
		return err
	}
	if err := tx.SaveAccount(ctx, account); err != nil {
		return err
	}
	return record(ctx, tx, account.ID, amount, models.TransactionExpense, description, now)
}

// countApplication records the outcome of a product application.
func (s *Service) countApplication(product string, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.Application(product, metrics.OutcomeApproved)
	case errors.Is(err, apperrors.ErrInsufficientEligibility):
		s.metrics.Application(product, metrics.OutcomeRejected)
	default:
		s.metrics.Application(product, metrics.OutcomeFailed)
	}
}

// logRejection logs eligibility failures at Warn and everything else at Error.
func (s *Service) logRejection(entry *logrus.Entry, err error, msg string) {
	if reason, ok := apperrors.Reason(err); ok {
		entry.WithField("reason", reason).Warn(msg + " rejected")
		return
	}
	if errors.Is(err, apperrors.ErrPersistence) {
		entry.WithError(err).Error(msg + " failed")
		return
	}
	entry.WithError(err).Info(msg + " refused")
}
