// Package rates supplies the annual base rate for mortgages, falling back to
// a configured constant when the central bank cannot be reached.
package rates

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Source says where a quoted rate came from.
type Source string

const (
	SourceCentralBank Source = "central_bank"
	SourceFallback    Source = "fallback"
)

// Fetcher is an external source of the annual rate in percent.
type Fetcher interface {
	FetchAnnualRate(ctx context.Context) (float64, error)
}

// Quote is a rate together with its origin.
type Quote struct {
	Rate      float64   `json:"rate"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Provider caches the last successful fetch for maxAge. A failed fetch is
// never cached, so the next call tries the source again.
type Provider struct {
	fetcher  Fetcher
	fallback float64
	maxAge   time.Duration
	log      *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu   sync.RWMutex
	last *Quote
}

// NewProvider builds a provider. maxAge <= 0 disables caching.
func NewProvider(fetcher Fetcher, fallback float64, maxAge time.Duration, log *logrus.Logger, m *metrics.Metrics) *Provider {
	return &Provider{
		fetcher:  fetcher,
		fallback: fallback,
		maxAge:   maxAge,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Current returns a cached central bank quote if it is fresh, otherwise it
// fetches one. It never fails: on error the fallback rate is returned.
func (p *Provider) Current(ctx context.Context) Quote {
	if q, ok := p.cached(); ok {
		return q
	}
	return p.Refresh(ctx)
}

// Refresh fetches unconditionally.
func (p *Provider) Refresh(ctx context.Context) Quote {
	now := p.now()
	rate, err := p.fetcher.FetchAnnualRate(ctx)
	if err != nil {
		p.log.WithError(err).WithField("fallback_rate", p.fallback).Warn("Central bank rate unavailable, using fallback")
		if p.metrics != nil {
			p.metrics.RateFallbacks.Inc()
		}
		return Quote{Rate: p.fallback, Source: SourceFallback, FetchedAt: now}
	}

	q := Quote{Rate: rate, Source: SourceCentralBank, FetchedAt: now}
	p.mu.Lock()
	p.last = &q
	p.mu.Unlock()
	return q
}

func (p *Provider) cached() (Quote, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil || p.maxAge <= 0 || p.now().Sub(p.last.FetchedAt) >= p.maxAge {
		return Quote{}, false
	}
	return *p.last, true
}
