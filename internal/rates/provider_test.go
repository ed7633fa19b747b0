package rates

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAnnualRate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func newTestProvider(f Fetcher, maxAge time.Duration) (*Provider, *metrics.Metrics, *time.Time) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.New()
	p := NewProvider(f, 16, maxAge, log, m)
	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	return p, m, &clock
}

func TestCurrent_CentralBank(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchAnnualRate", mock.Anything).Return(26.0, nil).Once()
	p, m, _ := newTestProvider(f, time.Hour)

	q := p.Current(context.Background())
	assert.Equal(t, 26.0, q.Rate)
	assert.Equal(t, SourceCentralBank, q.Source)

	// Served from cache.
	assert.Equal(t, q, p.Current(context.Background()))
	f.AssertExpectations(t)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RateFallbacks))
}

func TestCurrent_Fallback(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchAnnualRate", mock.Anything).Return(0.0, fmt.Errorf("%w: timeout", apperrors.ErrRateUnavailable)).Twice()
	p, m, _ := newTestProvider(f, time.Hour)

	q := p.Current(context.Background())
	assert.Equal(t, 16.0, q.Rate)
	assert.Equal(t, SourceFallback, q.Source)

	// Failures are not cached.
	p.Current(context.Background())
	f.AssertExpectations(t)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateFallbacks))
}

func TestCurrent_ExpiredCacheRefetches(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchAnnualRate", mock.Anything).Return(26.0, nil).Once()
	f.On("FetchAnnualRate", mock.Anything).Return(24.0, nil).Once()
	p, _, clock := newTestProvider(f, time.Hour)

	assert.Equal(t, 26.0, p.Current(context.Background()).Rate)
	*clock = clock.Add(time.Hour)
	assert.Equal(t, 24.0, p.Current(context.Background()).Rate)
	f.AssertExpectations(t)
}

func TestRefresh_KeepsLastGoodQuoteOnFailure(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchAnnualRate", mock.Anything).Return(26.0, nil).Once()
	f.On("FetchAnnualRate", mock.Anything).Return(0.0, apperrors.ErrRateUnavailable).Once()
	p, _, _ := newTestProvider(f, time.Hour)

	p.Refresh(context.Background())
	assert.Equal(t, SourceFallback, p.Refresh(context.Background()).Source)
	assert.Equal(t, 26.0, p.Current(context.Background()).Rate)
}
