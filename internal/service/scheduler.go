package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the periodic jobs: the overdue sweep, the deposit payout and
// the rate refresh.
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
	log  *logrus.Logger
}

// NewScheduler registers the jobs on their cron specs.
func NewScheduler(svc *Service, sweepSpec, rateRefreshSpec string, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
	}
	if _, err := s.cron.AddFunc(sweepSpec, s.runDaily); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", sweepSpec, err)
	}
	if _, err := s.cron.AddFunc(rateRefreshSpec, s.refreshRate); err != nil {
		return nil, fmt.Errorf("invalid rate refresh schedule %q: %w", rateRefreshSpec, err)
	}
	return s, nil
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.log.Info("Scheduler started")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runDaily() {
	ctx := context.Background()
	now := s.svc.now()
	// Errors are already logged by the service.
	if res, err := s.svc.SweepOverdue(ctx, now); err == nil {
		s.log.WithFields(logrus.Fields{
			"credits_marked":   res.CreditsMarked,
			"mortgages_marked": res.MortgagesMarked,
		}).Debug("Daily overdue sweep done")
	}
	if res, err := s.svc.PayOutMaturedDeposits(ctx, now); err == nil {
		s.log.WithField("deposits_paid", res.DepositsPaid).Debug("Daily deposit payout done")
	}
}

func (s *Scheduler) refreshRate() {
	q := s.svc.rates.Refresh(context.Background())
	s.log.WithFields(logrus.Fields{"rate": q.Rate, "source": q.Source}).Debug("Rate refreshed")
}
