package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OpenAccount opens another account for the user
func (s *Service) OpenAccount(ctx context.Context, userID int64) (*models.Account, error) {
	account := &models.Account{UserID: userID, Balance: decimal.Zero, Currency: DefaultCurrency}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "account_id": account.ID}).Info("Account opened")
	return account, nil
}

// GetAccount returns one of the user's accounts
func (s *Service) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	return loadOwnedAccount(ctx, s.store, userID, accountID)
}

// ListAccounts returns the user's accounts
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}

// ListTransactions returns the account history, newest first
func (s *Service) ListTransactions(ctx context.Context, userID, accountID int64) ([]models.Transaction, error) {
	if _, err := loadOwnedAccount(ctx, s.store, userID, accountID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, accountID)
}

// TopUp credits the account
func (s *Service) TopUp(ctx context.Context, userID, accountID int64, amount decimal.Decimal) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		if account, err = loadOwnedAccount(ctx, tx, userID, accountID); err != nil {
			return err
		}
		return credit(ctx, tx, account, amount, "Top-up", s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"account_id": accountID, "amount": amount.StringFixed(2)}).Info("Account topped up")
	return account, nil
}

// Withdraw debits the account, failing with ErrInsufficientFunds when the
// balance does not cover amount
func (s *Service) Withdraw(ctx context.Context, userID, accountID int64, amount decimal.Decimal) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		if account, err = loadOwnedAccount(ctx, tx, userID, accountID); err != nil {
			return err
		}
		return debit(ctx, tx, account, amount, "Withdrawal", s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"account_id": accountID, "amount": amount.StringFixed(2)}).Info("Withdrawal")
	return account, nil
}

// Transfer moves amount from one of the user's accounts to any other
// account. Both sides commit together or not at all.
func (s *Service) Transfer(ctx context.Context, userID, fromID, toID int64, amount decimal.Decimal) (*models.Account, error) {
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	var from *models.Account
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		// Lock both rows in ID order so opposite transfers cannot deadlock.
		first, second := fromID, toID
		if first > second {
			first, second = second, first
		}
		a, err := tx.LoadAccount(ctx, first)
		if err != nil {
			return err
		}
		b, err := tx.LoadAccount(ctx, second)
		if err != nil {
			return err
		}
		src, dst := a, b
		if src.ID != fromID {
			src, dst = b, a
		}
		if src.UserID != userID {
			return fmt.Errorf("%w: account %d does not belong to user %d", apperrors.ErrForbidden, fromID, userID)
		}

		now := s.now()
		if err := debit(ctx, tx, src, amount, fmt.Sprintf("Transfer to account %d", toID), now); err != nil {
			return err
		}
		if err := credit(ctx, tx, dst, amount, fmt.Sprintf("Transfer from account %d", fromID), now); err != nil {
			return err
		}
		from = src
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"from": fromID, "to": toID, "amount": amount.StringFixed(2)}).Info("Transfer completed")
	return from, nil
}
