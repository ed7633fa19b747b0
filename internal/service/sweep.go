package service

import (
	"context"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/Dan9191/bank-credit-engine/internal/utils/email"
	"github.com/sirupsen/logrus"
)

// SweepResult counts the late payments one overdue sweep recorded.
type SweepResult struct {
	CreditsMarked   int `json:"credits_marked"`
	MortgagesMarked int `json:"mortgages_marked"`
}

// PayoutResult counts the deposits one payout run credited.
type PayoutResult struct {
	DepositsPaid int `json:"deposits_paid"`
}

type overdueMessage struct {
	accountID int64
	notice    email.OverdueNotice
}

type payoutMessage struct {
	accountID int64
	notice    email.PayoutNotice
}

// SweepOverdue counts one late payment for every unpaid due date of an
// active credit or mortgage that passed since the last sweep, then notifies
// the holders. A due date is counted once no matter how often the sweep runs.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	var messages []overdueMessage

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		res, messages = SweepResult{}, nil

		credits, err := tx.ListActiveCredits(ctx)
		if err != nil {
			return err
		}
		for i := range credits {
			c := &credits[i]
			n := c.MarkLate(now)
			if n == 0 {
				continue
			}
			c.UpdatedAt = now
			if err := tx.UpdateCredit(ctx, c); err != nil {
				return err
			}
			res.CreditsMarked += n
			messages = append(messages, overdueMessage{c.AccountID, email.OverdueNotice{
				Product:          productCredit,
				Ref:              c.Ref,
				DueDate:          c.NextPaymentDueAt,
				Amount:           c.MonthlyPayment,
				LatePaymentCount: c.LatePaymentCount,
			}})
		}

		mortgages, err := tx.ListActiveMortgages(ctx)
		if err != nil {
			return err
		}
		for i := range mortgages {
			m := &mortgages[i]
			n := m.MarkLate(now)
			if n == 0 {
				continue
			}
			m.UpdatedAt = now
			if err := tx.UpdateMortgage(ctx, m); err != nil {
				return err
			}
			res.MortgagesMarked += n
			messages = append(messages, overdueMessage{m.AccountID, email.OverdueNotice{
				Product:          productMortgage,
				Ref:              m.Ref,
				DueDate:          m.NextPaymentDueAt,
				Amount:           m.MonthlyPayment,
				LatePaymentCount: m.LatePaymentCount,
			}})
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("Overdue sweep failed")
		return SweepResult{}, err
	}

	if s.metrics != nil {
		s.metrics.OverdueMarked.WithLabelValues(productCredit).Add(float64(res.CreditsMarked))
		s.metrics.OverdueMarked.WithLabelValues(productMortgage).Add(float64(res.MortgagesMarked))
	}
	for _, msg := range messages {
		s.notify(ctx, msg.accountID, func(to string) error {
			return s.notifier.PaymentOverdue(ctx, to, msg.notice)
		})
	}

	s.log.WithFields(logrus.Fields{"credits": res.CreditsMarked, "mortgages": res.MortgagesMarked}).Info("Overdue sweep completed")
	return res, nil
}

// PayOutMaturedDeposits credits the final amount of every matured deposit to
// its account and marks it paid out.
func (s *Service) PayOutMaturedDeposits(ctx context.Context, now time.Time) (PayoutResult, error) {
	var res PayoutResult
	var messages []payoutMessage

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		res, messages = PayoutResult{}, nil

		deposits, err := tx.ListMaturedDeposits(ctx, now)
		if err != nil {
			return err
		}
		for i := range deposits {
			d := &deposits[i]
			account, err := tx.LoadAccount(ctx, d.AccountID)
			if err != nil {
				return err
			}
			if err := credit(ctx, tx, account, d.FinalAmount, "Deposit payout", now); err != nil {
				return err
			}
			d.MarkPaidOut(now)
			if err := tx.UpdateDeposit(ctx, d); err != nil {
				return err
			}
			res.DepositsPaid++
			messages = append(messages, payoutMessage{d.AccountID, email.PayoutNotice{
				Ref:       d.Ref,
				AccountID: d.AccountID,
				Amount:    d.FinalAmount,
				Income:    d.Income,
				Balance:   account.Balance,
			}})
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("Deposit payout failed")
		return PayoutResult{}, err
	}

	if s.metrics != nil {
		s.metrics.DepositsPaid.Add(float64(res.DepositsPaid))
	}
	for _, msg := range messages {
		s.notify(ctx, msg.accountID, func(to string) error {
			return s.notifier.DepositPaidOut(ctx, to, msg.notice)
		})
	}

	s.log.WithField("deposits", res.DepositsPaid).Info("Deposit payout completed")
	return res, nil
}

// notify resolves the account holder's address and sends. Failures are
// logged; the state change they report is already committed.
func (s *Service) notify(ctx context.Context, accountID int64, send func(to string) error) {
	if s.notifier == nil {
		return
	}
	entry := s.log.WithField("account_id", accountID)
	account, err := s.store.LoadAccount(ctx, accountID)
	if err != nil {
		entry.WithError(err).Error("Failed to load account for notification")
		return
	}
	user, err := s.store.FindUserByID(ctx, account.UserID)
	if err != nil {
		entry.WithError(err).Error("Failed to load user for notification")
		return
	}
	if err := send(user.Email); err != nil {
		entry.WithError(err).Error("Failed to send notification")
	}
}
