// Package scheduler runs the periodic featured-provider rotation.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshLockKey = "locations:featured:lock"

// FeaturedRefresher picks a new featured set.
type FeaturedRefresher interface {
	RefreshFeatured(ctx context.Context) error
}

// Locker takes a short-lived cluster-wide lock so only one instance
// refreshes per tick.
type Locker interface {
	SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Available() bool
}

type Scheduler struct {
	cron      *cron.Cron
	refresher FeaturedRefresher
	locker    Locker
	logr      *zap.Logger
	spec      string
}

// New creates a Scheduler that refreshes on the given cron spec, e.g. "@every 30m".
func New(refresher FeaturedRefresher, locker Locker, spec string, logr *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		locker:    locker,
		logr:      logr,
		spec:      spec,
	}
}

// Start registers the job and starts the scheduler. One refresh runs
// immediately so the homepage has a featured set without waiting a tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logr.Info("scheduler started", zap.String("spec", s.spec))

	go s.runRefresh(ctx)
	return nil
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logr.Info("scheduler stopped")
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	if s.locker != nil && s.locker.Available() {
		ok, err := s.locker.SetIfNotExists(ctx, refreshLockKey, "1", time.Minute)
		if err != nil {
			s.logr.Warn("featured refresh lock failed", zap.Error(err))
		} else if !ok {
			s.logr.Debug("featured refresh already running elsewhere")
			return
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.refresher.RefreshFeatured(ctx); err != nil {
		s.logr.Error("featured refresh failed", zap.Error(err))
		return
	}
	s.logr.Info("featured refresh complete", zap.Duration("took", time.Since(start)))
}
