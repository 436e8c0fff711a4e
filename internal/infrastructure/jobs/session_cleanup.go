package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"p2p-lending.backend/pkg/logger"
)

// DefaultSessionCleanupInterval is used when no interval is configured
const DefaultSessionCleanupInterval = time.Hour

type expiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionCleanupJob periodically removes sessions past their expiry
type SessionCleanupJob struct {
	repo     expiredSessionDeleter
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewSessionCleanupJob(repo expiredSessionDeleter, interval time.Duration) *SessionCleanupJob {
	if interval <= 0 {
		interval = DefaultSessionCleanupInterval
	}
	return &SessionCleanupJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start blocks until ctx is cancelled or Stop is called
func (j *SessionCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting session cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Session cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session cleanup job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop may be called more than once
func (j *SessionCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *SessionCleanupJob) sweep(ctx context.Context) {
	deleted, err := j.repo.DeleteExpired(ctx, j.now())
	if err != nil {
		logger.Error(ctx, "Failed to delete expired sessions", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Info(ctx, "Deleted expired sessions", zap.Int64("count", deleted))
	}
}
