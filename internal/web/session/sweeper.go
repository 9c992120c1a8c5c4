package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
)

// Sweeper periodically drops idle browser sessions and purges expired
// tokens from drivers that do not expire them on their own.
type Sweeper struct {
	Registry *Registry
	Logger   *slog.Logger
	Interval time.Duration

	// OnSweep, when set, receives the number of sessions dropped per run.
	OnSweep func(dropped int)

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweeper creates a sweeper. If interval is 0 or negative, defaults to 10 minutes.
func NewSweeper(registry *Registry, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &Sweeper{
		Registry: registry,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *Sweeper) Start() {
	go s.run()
	s.Logger.Info("session sweeper started", "interval", s.Interval, "idle_ttl", s.Registry.IdleTTL)
}

// Stop blocks until an in-progress sweep has finished.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("session sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce runs a single pass. Failures are logged, never returned.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	dropped := s.Registry.Sweep(ctx)

	var purged int64
	if exp, ok := s.Registry.Tokens.(tokenstore.Expirer); ok {
		n, err := exp.DeleteExpired(ctx)
		if err != nil {
			s.Logger.Error("failed to delete expired tokens", "error", err)
		}
		purged = n
	}

	if s.OnSweep != nil {
		s.OnSweep(dropped)
	}

	s.Logger.Debug("session sweep completed", "sessions_dropped", dropped, "tokens_purged", purged)
}
