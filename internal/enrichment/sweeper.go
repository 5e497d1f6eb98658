// internal/enrichment/sweeper.go
package enrichment

import (
	"context"
	"time"

	"food-recommender/internal/common/logger"
)

// Sweeper periodically deletes expired entries from every registered cache.
type Sweeper struct {
	caches   []*Cache
	interval time.Duration
	logger   logger.Logger
}

func NewSweeper(interval time.Duration, log logger.Logger, caches ...*Cache) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		caches:   caches,
		interval: interval,
		logger:   log.WithFields(map[string]interface{}{"component": "enrichment-sweeper"}),
	}
}

// Run blocks until ctx is done, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", map[string]interface{}{"interval": s.interval.String()})
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped", nil)
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs one pass over every cache. Failures are logged and do not stop the pass.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	total := 0
	for _, c := range s.caches {
		n, err := c.Sweep(ctx)
		if err != nil {
			s.logger.Error("sweep failed", map[string]interface{}{"provider": c.Provider(), "error": err})
			continue
		}
		total += n
	}
	return total
}
