package jobs

import (
	"context"
	"sync"
	"time"

	"clubhouse-backend/internal/metrics"
	"clubhouse-backend/internal/storage"

	"go.uber.org/zap"
)

// SessionJanitor periodically deletes expired login sessions.
type SessionJanitor struct {
	sessions storage.SessionStore
	logger   *zap.Logger
	interval time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewSessionJanitor(sessions storage.SessionStore, logger *zap.Logger, interval time.Duration) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start blocks until Stop is called or ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Session janitor started", zap.Duration("interval", j.interval))

	j.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			j.RunOnce(ctx)
		case <-j.stopChan:
			j.logger.Info("Session janitor stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Session janitor context cancelled")
			return
		}
	}
}

func (j *SessionJanitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}

// RunOnce purges expired sessions and returns how many were removed.
func (j *SessionJanitor) RunOnce(ctx context.Context) int64 {
	startTime := time.Now()

	purged, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("Session purge failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return 0
	}

	metrics.SessionsPurged.Add(float64(purged))
	j.logger.Debug("Session purge completed",
		zap.Int64("purged", purged),
		zap.Duration("duration", time.Since(startTime)),
	)
	return purged
}
