package service

import (
	"context"

	"github.com/Dan9191/bank-credit-engine/internal/finance"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OpenDeposit moves amount from the balance into a term deposit
func (s *Service) OpenDeposit(ctx context.Context, userID, accountID int64, amount decimal.Decimal, termMonths int) (*models.Deposit, error) {
	if err := finance.ValidateDeposit(amount, termMonths); err != nil {
		return nil, err
	}
	rate := s.deposits.For(amount, termMonths)
	growth, err := finance.ComputeDepositGrowth(amount, rate, termMonths)
	if err != nil {
		return nil, err
	}

	var d *models.Deposit
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		now := s.now()
		if d, err = models.NewDeposit(account.ID, amount, rate, termMonths, growth.FinalAmount, now); err != nil {
			return err
		}
		if err := debit(ctx, tx, account, amount, "Deposit opened", now); err != nil {
			return err
		}
		return tx.AppendDeposit(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"deposit_id":   d.ID,
		"account_id":   accountID,
		"rate":         rate,
		"final_amount": d.FinalAmount.StringFixed(2),
	}).Info("Deposit opened")
	return d, nil
}

// ListDeposits returns every deposit of the account
func (s *Service) ListDeposits(ctx context.Context, userID, accountID int64) ([]models.Deposit, error) {
	if _, err := loadOwnedAccount(ctx, s.store, userID, accountID); err != nil {
		return nil, err
	}
	return s.store.ListDeposits(ctx, accountID)
}
