package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OverdueNotice describes a missed installment on a credit or mortgage.
type OverdueNotice struct {
	Product          string // "credit" or "mortgage"
	Ref              string
	DueDate          time.Time
	Amount           decimal.Decimal
	LatePaymentCount int
}

// PayoutNotice describes a matured deposit credited to the account.
type PayoutNotice struct {
	Ref       string
	AccountID int64
	Amount    decimal.Decimal
	Income    decimal.Decimal
	Balance   decimal.Decimal
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// PaymentOverdue notifies the holder that an installment is late.
func (s *Sender) PaymentOverdue(ctx context.Context, to string, n OverdueNotice) error {
	return s.deliver(ctx, to, overdueSubject(n), overdueBody(n))
}

// DepositPaidOut notifies the holder that a deposit matured.
func (s *Sender) DepositPaidOut(ctx context.Context, to string, n PayoutNotice) error {
	return s.deliver(ctx, to, "Deposit Matured", payoutBody(n))
}

func (s *Sender) deliver(ctx context.Context, to, subject, body string) error {
	if to == "" {
		s.logger.WithField("subject", subject).Debug("No email address on file, skipping notification")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}

func overdueSubject(n OverdueNotice) string {
	if n.Product == "mortgage" {
		return "Overdue Mortgage Payment Notification"
	}
	return "Overdue Credit Payment Notification"
}

func overdueBody(n OverdueNotice) string {
	return fmt.Sprintf(
		"Dear customer,\n\n"+
			"Your %s payment of %s RUB (contract %s) was due on %s and is now overdue.\n"+
			"Late payments on record: %d.\n"+
			"Late payments lower your credit score. Please make the payment as soon as possible.\n"+
			"\nBest regards,\nBank Service",
		n.Product, n.Amount.StringFixed(2), n.Ref, n.DueDate.Format("2006-01-02"), n.LatePaymentCount,
	)
}

func payoutBody(n PayoutNotice) string {
	return fmt.Sprintf(
		"Dear customer,\n\n"+
			"Your deposit %s has matured and %s RUB has been credited to account %d.\n"+
			"Interest earned: %s RUB\n"+
			"Current balance: %s RUB\n"+
			"\nBest regards,\nBank Service",
		n.Ref, n.Amount.StringFixed(2), n.AccountID, n.Income.StringFixed(2), n.Balance.StringFixed(2),
	)
}
