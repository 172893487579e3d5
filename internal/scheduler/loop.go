package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/store"
)

// Sweeper is a background loop with a single-step Tick for tests.
type Sweeper interface {
	// Start runs the loop. Blocks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop shuts the loop down and waits for the current tick to finish.
	Stop() error

	// Tick runs one iteration.
	Tick(ctx context.Context) error
}

// SweepConfig holds sweeper configuration.
type SweepConfig struct {
	TTL      time.Duration // idle time after which a workspace is removed; 0 disables
	Interval time.Duration
}

// Loop deletes workspaces that have not been touched within the TTL.
type Loop struct {
	store  store.Store
	config SweepConfig
	logger *slog.Logger
	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

var _ Sweeper = (*Loop)(nil)

// NewLoop creates a sweeper loop.
func NewLoop(st store.Store, cfg SweepConfig, logger *slog.Logger) *Loop {
	return &Loop{
		store:  st,
		config: cfg,
		logger: logging.Component(logger, "sweeper"),
		now:    func() time.Time { return time.Now().UTC() },
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the sweep loop. It returns immediately when sweeping is disabled.
func (l *Loop) Start(ctx context.Context) error {
	defer close(l.doneCh)
	if l.config.TTL <= 0 || l.config.Interval <= 0 {
		l.logger.Info("sweeper disabled")
		return nil
	}

	l.logger.Info("sweeper started", "ttl", l.config.TTL, "interval", l.config.Interval)
	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("sweeper stopping (context cancelled)")
			return ctx.Err()
		case <-l.stopCh:
			l.logger.Info("sweeper stopping (stop called)")
			return nil
		case <-ticker.C:
			if err := l.Tick(ctx); err != nil {
				l.logger.Error("tick error", "error", err)
			}
		}
	}
}

// Stop must only be called after Start.
func (l *Loop) Stop() error {
	close(l.stopCh)
	<-l.doneCh
	return nil
}

// Tick removes every workspace idle for longer than the TTL.
func (l *Loop) Tick(ctx context.Context) error {
	if l.config.TTL <= 0 {
		return nil
	}
	cutoff := l.now().Add(-l.config.TTL)
	n, err := l.store.DeleteWorkspacesIdleSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("sweep idle workspaces: %w", err)
	}
	if n > 0 {
		l.logger.Info("idle workspaces removed", "count", n, "cutoff", cutoff)
	}
	return nil
}
