package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/finance"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/Dan9191/bank-credit-engine/internal/scoring"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const productCredit = "credit"

// CreditScore returns the itemised score of the account
func (s *Service) CreditScore(ctx context.Context, userID, accountID int64) (scoring.Breakdown, error) {
	var b scoring.Breakdown
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		p, err := loadProfile(ctx, tx, account)
		if err != nil {
			return err
		}
		b = s.gate.Evaluate(p, s.now()).Breakdown
		return nil
	})
	return b, err
}

// Eligibility reports which products the account may take and on what terms
func (s *Service) Eligibility(ctx context.Context, userID, accountID int64) (*models.EligibilityReport, error) {
	var ev scoring.Evaluation
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		p, err := loadProfile(ctx, tx, account)
		if err != nil {
			return err
		}
		ev = s.gate.Evaluate(p, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	base := s.rates.Current(ctx)
	return &models.EligibilityReport{
		CreditScore:        ev.Score(),
		CanTakeCredit:      ev.CanTakeCredit(),
		MaxCreditAmount:    ev.MaxCreditAmount(),
		CreditInterestRate: ev.CreditInterestRate(),
		CanTakeMortgage:    ev.CanTakeMortgage(),
		MaxMortgageAmount:  ev.MaxMortgageAmount(),
		MortgageRate:       scoring.MortgageInterestRate(base.Rate, ev.Score()),
		MortgageRateSource: string(base.Source),
	}, nil
}

// ApplyCredit scores the account, and if the gate accepts, disburses the
// principal to the balance at the rate of the account's score band
func (s *Service) ApplyCredit(ctx context.Context, userID, accountID int64, amount decimal.Decimal, termMonths int) (*models.Credit, error) {
	entry := s.log.WithFields(logrus.Fields{"account_id": accountID, "amount": amount.StringFixed(2), "term_months": termMonths})
	if err := finance.ValidateCredit(amount, termMonths); err != nil {
		s.countApplication(productCredit, err)
		return nil, err
	}

	var c *models.Credit
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		p, err := loadProfile(ctx, tx, account)
		if err != nil {
			return err
		}
		now := s.now()
		ev := s.gate.Evaluate(p, now)
		if err := s.gate.CheckCreditApplication(ev, amount); err != nil {
			return err
		}

		rate := ev.CreditInterestRate()
		am, err := finance.ComputeAmortization(amount, rate, termMonths)
		if err != nil {
			return err
		}
		if c, err = models.NewCredit(account.ID, amount, rate, termMonths, am.MonthlyPayment, now); err != nil {
			return err
		}
		if err := tx.AppendCredit(ctx, c); err != nil {
			return err
		}
		return credit(ctx, tx, account, amount, "Credit disbursement", now)
	})
	s.countApplication(productCredit, err)
	if err != nil {
		s.logRejection(entry, err, "Credit application")
		return nil, err
	}

	entry.WithFields(logrus.Fields{"credit_id": c.ID, "rate": c.InterestRate, "monthly_payment": c.MonthlyPayment.StringFixed(2)}).
		Info("Credit disbursed")
	return c, nil
}

// ListCredits returns every credit of the account
func (s *Service) ListCredits(ctx context.Context, userID, accountID int64) ([]models.Credit, error) {
	if _, err := loadOwnedAccount(ctx, s.store, userID, accountID); err != nil {
		return nil, err
	}
	return s.store.ListCredits(ctx, accountID)
}

// loadAccountCredit loads an active or closed credit belonging to the account.
func loadAccountCredit(ctx context.Context, tx repository.Store, accountID, creditID int64) (*models.Credit, error) {
	c, err := tx.LoadCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if c.AccountID != accountID {
		return nil, fmt.Errorf("%w: credit %d on account %d", apperrors.ErrNotFound, creditID, accountID)
	}
	return c, nil
}

// RepayCredit pays the next monthly installment from the balance
func (s *Service) RepayCredit(ctx context.Context, userID, accountID, creditID int64) (*models.Credit, error) {
	var c *models.Credit
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if c, err = loadAccountCredit(ctx, tx, accountID, creditID); err != nil {
			return err
		}
		if !c.IsActive {
			return fmt.Errorf("%w: credit %d is closed", apperrors.ErrValidation, creditID)
		}

		now := s.now()
		desc := fmt.Sprintf("Credit %d payment %d/%d", c.ID, c.PaymentsMade+1, c.TermMonths)
		if err := debit(ctx, tx, account, c.MonthlyPayment, desc, now); err != nil {
			return err
		}
		c.RecordPayment(now)
		c.UpdatedAt = now
		return tx.UpdateCredit(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"credit_id": c.ID, "payments_made": c.PaymentsMade, "active": c.IsActive}).Info("Credit payment")
	return c, nil
}

// PayOffCredit repays the outstanding principal at once and closes the credit
func (s *Service) PayOffCredit(ctx context.Context, userID, accountID, creditID int64) (*models.Credit, error) {
	var c *models.Credit
	var remaining decimal.Decimal
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if c, err = loadAccountCredit(ctx, tx, accountID, creditID); err != nil {
			return err
		}
		if !c.IsActive {
			return fmt.Errorf("%w: credit %d is closed", apperrors.ErrValidation, creditID)
		}

		remaining, err = finance.RemainingBalance(c.Principal, c.InterestRate, c.TermMonths, c.PaymentsMade)
		if err != nil {
			return err
		}
		now := s.now()
		if remaining.IsPositive() {
			if err := debit(ctx, tx, account, remaining, fmt.Sprintf("Credit %d early payoff", c.ID), now); err != nil {
				return err
			}
		}
		c.Close(now)
		c.UpdatedAt = now
		return tx.UpdateCredit(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"credit_id": c.ID, "paid": remaining.StringFixed(2)}).Info("Credit paid off")
	return c, nil
}

// CreditSchedule returns the full repayment schedule of a credit
func (s *Service) CreditSchedule(ctx context.Context, userID, accountID, creditID int64) ([]models.PaymentSchedule, error) {
	if _, err := loadOwnedAccount(ctx, s.store, userID, accountID); err != nil {
		return nil, err
	}
	c, err := loadAccountCredit(ctx, s.store, accountID, creditID)
	if err != nil {
		return nil, err
	}
	return finance.GenerateSchedule(c.Principal, c.InterestRate, c.TermMonths, c.CreatedAt)
}
