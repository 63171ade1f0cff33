package auth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/session"
)

// Janitor periodically removes expired sessions and stale cooldown
// records.
type Janitor struct {
	service   *Service
	cooldowns session.Store
	// cooldown records older than this no longer throttle anything
	keep time.Duration
}

func NewJanitor(service *Service, cooldowns session.Store, commentCooldown time.Duration) *Janitor {
	return &Janitor{service: service, cooldowns: cooldowns, keep: commentCooldown}
}

// RunOnce does a single cleanup pass.
func (j *Janitor) RunOnce(ctx context.Context) (sessions, cooldowns int64, err error) {
	now := j.service.clock.Now().UTC()
	sessions, err = j.service.store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	if j.cooldowns != nil {
		cooldowns, err = j.cooldowns.Sweep(ctx, now.Add(-j.keep))
		if err != nil {
			return sessions, 0, err
		}
	}
	return sessions, cooldowns, nil
}

// Run cleans up every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := j.service.log
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions, cooldowns, err := j.RunOnce(ctx)
			if err != nil {
				log.WithError(err).Error("error cleaning up expired sessions")
				continue
			}
			if sessions > 0 || cooldowns > 0 {
				log.WithFields(logrus.Fields{"sessions": sessions, "cooldowns": cooldowns}).Info("cleaned up expired sessions")
			}
		}
	}
}
