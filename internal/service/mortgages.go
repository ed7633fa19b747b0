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

const productMortgage = "mortgage"

// ApplyMortgage registers a mortgage if the gate accepts it. The rate is the
// current base rate adjusted by the account's score. The property is paid
// for directly, so the balance does not change.
func (s *Service) ApplyMortgage(ctx context.Context, userID, accountID int64, propertyCost, downPayment decimal.Decimal, termYears int) (*models.Mortgage, error) {
	entry := s.log.WithFields(logrus.Fields{
		"account_id":    accountID,
		"property_cost": propertyCost.StringFixed(2),
		"down_payment":  downPayment.StringFixed(2),
		"term_years":    termYears,
	})

	base := s.rates.Current(ctx)
	// Reject malformed terms before touching the store.
	if _, err := finance.ComputeMortgage(propertyCost, downPayment, termYears, base.Rate); err != nil {
		s.countApplication(productMortgage, err)
		return nil, err
	}

	var m *models.Mortgage
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
		if err := s.gate.CheckMortgageApplication(ev, propertyCost, downPayment); err != nil {
			return err
		}

		rate := scoring.MortgageInterestRate(base.Rate, ev.Score())
		quote, err := finance.ComputeMortgage(propertyCost, downPayment, termYears, rate)
		if err != nil {
			return err
		}
		if m, err = models.NewMortgage(account.ID, propertyCost, downPayment, termYears, rate, quote.MonthlyPayment, now); err != nil {
			return err
		}
		return tx.AppendMortgage(ctx, m)
	})
	s.countApplication(productMortgage, err)
	if err != nil {
		s.logRejection(entry, err, "Mortgage application")
		return nil, err
	}

	entry.WithFields(logrus.Fields{
		"mortgage_id":     m.ID,
		"rate":            m.InterestRate,
		"rate_source":     base.Source,
		"monthly_payment": m.MonthlyPayment.StringFixed(2),
	}).Info("Mortgage issued")
	return m, nil
}

// ListMortgages returns every mortgage of the account
func (s *Service) ListMortgages(ctx context.Context, userID, accountID int64) ([]models.Mortgage, error) {
	if _, err := loadOwnedAccount(ctx, s.store, userID, accountID); err != nil {
		return nil, err
	}
	return s.store.ListMortgages(ctx, accountID)
}

// RepayMortgage pays the next monthly installment from the balance
func (s *Service) RepayMortgage(ctx context.Context, userID, accountID, mortgageID int64) (*models.Mortgage, error) {
	var m *models.Mortgage
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		account, err := loadOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if m, err = tx.LoadMortgage(ctx, mortgageID); err != nil {
			return err
		}
		if m.AccountID != accountID {
			return fmt.Errorf("%w: mortgage %d on account %d", apperrors.ErrNotFound, mortgageID, accountID)
		}
		if !m.IsActive {
			return fmt.Errorf("%w: mortgage %d is closed", apperrors.ErrValidation, mortgageID)
		}

		now := s.now()
		desc := fmt.Sprintf("Mortgage %d payment %d/%d", m.ID, m.PaymentsMade+1, m.TermMonths)
		if err := debit(ctx, tx, account, m.MonthlyPayment, desc, now); err != nil {
			return err
		}
		m.RecordPayment(now)
		m.UpdatedAt = now
		return tx.UpdateMortgage(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"mortgage_id": m.ID, "payments_made": m.PaymentsMade, "active": m.IsActive}).Info("Mortgage payment")
	return m, nil
}
