package email

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	email *email.Email
	addr  string
	auth  smtp.Auth
}

func newTestSender(sendErr error) (*Sender, *[]captured) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{SMTPHost: "mail.local", SMTPPort: "1025", SenderEmail: "bank@mail.local"}
	s := NewSender(cfg, log)
	var sent []captured
	s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent = append(sent, captured{email: e, addr: addr, auth: auth})
		return sendErr
	}
	return s, &sent
}

func TestPaymentOverdue(t *testing.T) {
	s, sent := newTestSender(nil)
	err := s.PaymentOverdue(context.Background(), "client@mail.local", OverdueNotice{
		Product:          "mortgage",
		Ref:              "m-1",
		DueDate:          time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.RequireFromString("53683.27"),
		LatePaymentCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	got := (*sent)[0]
	assert.Equal(t, "mail.local:1025", got.addr)
	assert.Nil(t, got.auth)
	assert.Equal(t, "bank@mail.local", got.email.From)
	assert.Equal(t, []string{"client@mail.local"}, got.email.To)
	assert.Equal(t, "Overdue Mortgage Payment Notification", got.email.Subject)
	body := string(got.email.Text)
	assert.Contains(t, body, "53683.27 RUB")
	assert.Contains(t, body, "2025-05-15")
	assert.Contains(t, body, "Late payments on record: 2.")
}

func TestDepositPaidOut(t *testing.T) {
	s, sent := newTestSender(nil)
	err := s.DepositPaidOut(context.Background(), "client@mail.local", PayoutNotice{
		Ref:       "d-1",
		AccountID: 7,
		Amount:    decimal.RequireFromString("11047.13"),
		Income:    decimal.RequireFromString("1047.13"),
		Balance:   decimal.RequireFromString("21047.13"),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	body := string((*sent)[0].email.Text)
	assert.Contains(t, body, "11047.13 RUB has been credited to account 7")
	assert.Contains(t, body, "Interest earned: 1047.13 RUB")
}

func TestDeliver_NoAddressIsSkipped(t *testing.T) {
	s, sent := newTestSender(nil)
	require.NoError(t, s.DepositPaidOut(context.Background(), "", PayoutNotice{}))
	assert.Empty(t, *sent)
}

func TestDeliver_SendFailure(t *testing.T) {
	s, _ := newTestSender(errors.New("connection refused"))
	err := s.PaymentOverdue(context.Background(), "client@mail.local", OverdueNotice{Product: "credit"})
	assert.ErrorContains(t, err, "connection refused")
}
