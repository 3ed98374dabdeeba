package cache

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable is any cache that can drop its expired entries.
type Sweepable interface {
	SweepExpired() int
}

// Sweeper periodically sweeps expired entries out of registered caches.
type Sweeper struct {
	caches   []Sweepable
	interval time.Duration
}

func NewSweeper(interval time.Duration, caches ...Sweepable) *Sweeper {
	return &Sweeper{caches: caches, interval: interval}
}

// Run sweeps on every interval tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept := 0
			for _, c := range s.caches {
				swept += c.SweepExpired()
			}
			if swept > 0 {
				slog.DebugContext(ctx, "Swept expired cache entries", "count", swept)
			}
		}
	}
}
