package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// DefaultSweepInterval is how often expired confirmation tokens are dropped.
const DefaultSweepInterval = time.Minute

// Sweepable drops expired entries and reports how many it removed.
type Sweepable interface {
	Sweep() int
}

// ConfirmSweeper periodically drops confirmation tokens nobody answered.
type ConfirmSweeper struct {
	gate     Sweepable
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewConfirmSweeper creates a sweeper. interval <= 0 uses DefaultSweepInterval.
func NewConfirmSweeper(gate Sweepable, log logger.Logger, interval time.Duration) *ConfirmSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &ConfirmSweeper{
		gate:     gate,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (cs *ConfirmSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(cs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.Collect()
			case <-cs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper.
func (cs *ConfirmSweeper) Stop() {
	close(cs.stopCh)
}

// Collect runs one sweep.
func (cs *ConfirmSweeper) Collect() int {
	removed := cs.gate.Sweep()
	if removed > 0 {
		cs.logger.Info("dropped expired confirmations", logger.Int("count", removed))
	} else {
		cs.logger.Debug("no expired confirmations")
	}
	return removed
}
