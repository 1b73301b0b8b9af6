package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
)

// ClosedNotifier lets the reaper tell participants that their session is
// going away before it is deleted.
type ClosedNotifier interface {
	NotifySessionClosed(session *entity.Session, reason string)
}

// Reaper periodically deletes sessions that saw no activity for the
// configured window.
type Reaper struct {
	logger *slog.Logger

	sessions  SessionService
	notifier  ClosedNotifier
	threshold time.Duration
	interval  time.Duration
}

func NewReaper(logger *slog.Logger, sessions SessionService, notifier ClosedNotifier, threshold, interval time.Duration) *Reaper {
	return &Reaper{
		logger:    logger,
		sessions:  sessions,
		notifier:  notifier,
		threshold: threshold,
		interval:  interval,
	}
}

// Run sweeps on every tick until the context is canceled.
func (that *Reaper) Run(ctx context.Context) {
	log := that.logger.With("component", "reaper")

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("reaper stopped")
			return
		case <-ticker.C:
			reaped, err := that.sessions.ReapStale(ctx, that.threshold, func(session *entity.Session) {
				that.notifier.NotifySessionClosed(session, "inactive")
			})
			if err != nil {
				log.Error("failed to reap stale sessions", "error", err)
				continue
			}

			if reaped > 0 {
				log.Info("reaped stale sessions", "count", reaped)
			}
		}
	}
}
