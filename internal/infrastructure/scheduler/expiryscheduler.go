package scheduler

import (
	"context"
	"sync"
	"time"

	poolUsecases "github.com/fed-stew/authvital-sub001/internal/application/licensepool/usecases"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// ExpiryScheduler periodically expires subscriptions whose period has ended
// without renewal. The grant path also checks subscription status, so the
// scan interval only bounds how stale the stored status can get.
type ExpiryScheduler struct {
	expireSubscriptionsUC *poolUsecases.ExpireSubscriptionsUseCase
	logger                logger.Interface
	stopChan              chan struct{}
	stopOnce              sync.Once
	wg                    sync.WaitGroup
	interval              time.Duration
}

// NewExpiryScheduler creates a new ExpiryScheduler
func NewExpiryScheduler(
	expireSubscriptionsUC *poolUsecases.ExpireSubscriptionsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *ExpiryScheduler {
	return &ExpiryScheduler{
		expireSubscriptionsUC: expireSubscriptionsUC,
		logger:                logger,
		stopChan:              make(chan struct{}),
		interval:              interval,
	}
}

// Start starts the scheduler
func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting expiry scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping expiry scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog
	s.processExpiredSubscriptions(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("expiry scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			s.logger.Infow("expiry scheduler stopped")
			return
		case <-ticker.C:
			s.processExpiredSubscriptions(ctx)
		}
	}
}

func (s *ExpiryScheduler) processExpiredSubscriptions(ctx context.Context) {
	s.logger.Debugw("expiry scan started")

	startTime := time.Now()

	expiredCount, err := s.expireSubscriptionsUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to process expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		s.logger.Infow("expired subscriptions processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}
