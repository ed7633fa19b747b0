package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	f := newFixture(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := NewScheduler(f.svc, "@daily", "@hourly", log)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	_, err = NewScheduler(f.svc, "every day", "@hourly", log)
	assert.Error(t, err)
	_, err = NewScheduler(f.svc, "@daily", "sometimes", log)
	assert.Error(t, err)
}

func TestScheduler_RunDailyWithNothingDue(t *testing.T) {
	f := newFixture(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := NewScheduler(f.svc, "@daily", "@hourly", log)
	require.NoError(t, err)

	s.runDaily()
	s.refreshRate()
	f.notifier.AssertNotCalled(t, "PaymentOverdue")
	f.notifier.AssertNotCalled(t, "DepositPaidOut")
}

func TestScheduler_RunDailyLogsCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, accountID := creditProfile(t, f)
	c, err := f.svc.ApplyCredit(ctx, userID, accountID, decimal.NewFromInt(100_000), 12)
	require.NoError(t, err)
	f.notifier.On("PaymentOverdue", "client@mail.local", mock.Anything).Return(nil).Once()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s, err := NewScheduler(f.svc, "@daily", "@hourly", log)
	require.NoError(t, err)

	f.svc.now = func() time.Time { return c.NextPaymentDueAt.AddDate(0, 1, 1) }
	s.runDaily()

	var sweep, payout *logrus.Entry
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "Daily overdue sweep done":
			sweep = e
		case "Daily deposit payout done":
			payout = e
		}
	}
	require.NotNil(t, sweep)
	assert.Equal(t, logrus.DebugLevel, sweep.Level)
	assert.Equal(t, 2, sweep.Data["credits_marked"])
	assert.Equal(t, 0, sweep.Data["mortgages_marked"])
	require.NotNil(t, payout)
	assert.Equal(t, 0, payout.Data["deposits_paid"])
	f.notifier.AssertExpectations(t)
}
