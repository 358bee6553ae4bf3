// Package sweeper removes expired artifacts on a fixed interval.
package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// LockKey is the lock name shared by every replica.
const LockKey = "docgen:retention-sweep"

// ErrNotObtained means another replica holds the sweep lock.
var ErrNotObtained = errors.New("sweep lock not obtained")

// Expirer removes artifacts older than retention.
type Expirer interface {
	Expire(ctx context.Context, retention time.Duration) (int, error)
}

// Locker hands out a lock held for at most ttl.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = time.Hour

// Sweeper runs Expire once at start and then every interval. With a
// Locker, a successful sweep claims the whole tick: the lock is left to
// expire shortly before the next tick, so replicas whose tickers fire
// later in the same interval skip. With a nil Locker every replica sweeps;
// Expire is idempotent so that is only redundant work.
type Sweeper struct {
	expirer   Expirer
	locker    Locker
	retention time.Duration
	interval  time.Duration
	log       *logrus.Logger
}

func New(expirer Expirer, locker Locker, retention, interval time.Duration, log *logrus.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		expirer:   expirer,
		locker:    locker,
		retention: retention,
		interval:  interval,
		log:       log,
	}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	start := time.Now()
	n, err := s.Sweep(ctx)
	entry := s.log.WithFields(logrus.Fields{
		"component":   "sweeper",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	switch {
	case errors.Is(err, ErrNotObtained):
		entry.Debug("sweep skipped, lock held elsewhere")
	case err != nil:
		entry.WithError(err).Error("sweep failed")
	default:
		entry.WithField("removed", n).Info("sweep finished")
	}
}

// lockTTL keeps the tick claimed for most of the interval but lets it
// lapse before this replica's own next tick.
func (s *Sweeper) lockTTL() time.Duration {
	return s.interval * 9 / 10
}

// Sweep performs one pass and returns the number of artifacts removed.
// The lock is released only when the pass fails, so another replica can
// retry within the same interval.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	if s.locker == nil {
		return s.expirer.Expire(ctx, s.retention)
	}

	lock, err := s.locker.Obtain(ctx, LockKey, s.lockTTL())
	if err != nil {
		return 0, err
	}
	n, err := s.expirer.Expire(ctx, s.retention)
	if err != nil {
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.log.WithError(relErr).Warn("failed to release sweep lock")
		}
		return 0, err
	}
	return n, nil
}
