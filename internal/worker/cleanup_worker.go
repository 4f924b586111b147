// Package worker runs the periodic background sweeps of the voting service.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Sweeper removes expired state and reports how many records it dropped.
type Sweeper interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// DefaultInterval is used when Config.Interval is not positive.
const DefaultInterval = 5 * time.Minute

// Config holds cleanup worker configuration.
type Config struct {
	Interval time.Duration
}

type namedSweeper struct {
	name    string
	sweeper Sweeper
}

// CleanupWorker sweeps expired one-time passwords and sessions on a fixed interval.
type CleanupWorker struct {
	config   Config
	sweepers []namedSweeper
	logger   *slog.Logger
}

// NewCleanupWorker creates a CleanupWorker with no sweepers registered.
func NewCleanupWorker(config Config, logger *slog.Logger) *CleanupWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &CleanupWorker{
		config: config,
		logger: logger,
	}
}

// Register adds a sweeper run on every tick under name.
func (w *CleanupWorker) Register(name string, sweeper Sweeper) *CleanupWorker {
	w.sweepers = append(w.sweepers, namedSweeper{name: name, sweeper: sweeper})
	return w
}

// Start runs the sweep loop until ctx is cancelled. It returns ctx.Err().
func (w *CleanupWorker) Start(ctx context.Context) error {
	w.logger.Info("starting cleanup worker", slog.Duration("interval", w.config.Interval))

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping cleanup worker")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.SweepOnce(ctx); err != nil {
				w.logger.Error("cleanup sweep failed", slog.Any("error", err))
			}
		}
	}
}

// SweepOnce runs every sweeper once and returns the number of records removed
// per sweeper. A failing sweeper does not stop the others; the joined errors
// are returned.
func (w *CleanupWorker) SweepOnce(ctx context.Context) (map[string]int, error) {
	removed := make(map[string]int, len(w.sweepers))
	var errs []error

	for _, s := range w.sweepers {
		n, err := s.sweeper.CleanupExpired(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed[s.name] = n
		if n > 0 {
			w.logger.Debug("expired records removed", slog.String("sweeper", s.name), slog.Int("count", n))
		}
	}

	return removed, errors.Join(errs...)
}
