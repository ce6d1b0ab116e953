// Package scheduler runs the service's periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = time.Minute

// PendingResender delivers verification emails that failed at signup
type PendingResender interface {
	ResendPendingVerifications(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron     *cron.Cron
	resender PendingResender
	log      *logrus.Logger
}

// New registers the pending verification email job on spec (standard cron or @every syntax)
func New(resender PendingResender, spec string, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		resender: resender,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.resendPending); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) resendPending() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.resender.ResendPendingVerifications(ctx); err != nil {
		s.log.Errorf("Pending verification job failed: %v", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("Scheduler stopped")
}
