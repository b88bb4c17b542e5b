package pricesync

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Gatekeeper decides whether a pass should run.
type Gatekeeper interface {
	ShouldSync(now time.Time) (bool, string)
}

// Passer runs one ingest pass.
type Passer interface {
	Pass(ctx context.Context) (*PassResult, error)
}

// DaemonConfig configures the sync loop.
type DaemonConfig struct {
	// Period is the target time between the starts of two passes.
	Period time.Duration
	// RetryInterval is the sleep after the gate says no.
	RetryInterval time.Duration
}

// Daemon runs ingest passes forever: one immediately at start, then one per
// Period whenever the gate allows it.
type Daemon struct {
	gate   Gatekeeper
	ingest Passer
	cfg    DaemonConfig
	log    *zap.SugaredLogger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewDaemon creates a new Daemon.
func NewDaemon(gate Gatekeeper, ingest Passer, cfg DaemonConfig, log *zap.SugaredLogger) *Daemon {
	if cfg.Period <= 0 {
		cfg.Period = 24 * time.Hour
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Hour
	}
	return &Daemon{gate: gate, ingest: ingest, cfg: cfg, log: log, now: time.Now, sleep: sleepCtx}
}

// Run loops until ctx is cancelled and then returns nil. A pass in progress
// sees the cancellation between symbols.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Infow("sync daemon started", "period", d.cfg.Period.String(), "retry_interval", d.cfg.RetryInterval.String())
	first := true
	for {
		if ctx.Err() != nil {
			d.log.Infow("sync daemon stopped")
			return nil
		}

		if !first {
			if ok, reason := d.gate.ShouldSync(d.now()); !ok {
				d.log.Infow("sync skipped", "reason", reason, "retry_in", d.cfg.RetryInterval.String())
				if d.sleep(ctx, d.cfg.RetryInterval) != nil {
					d.log.Infow("sync daemon stopped")
					return nil
				}
				continue
			}
		}
		first = false

		started := d.now()
		result, err := d.ingest.Pass(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			d.log.Infow("sync pass interrupted", "error", err)
		case err != nil:
			d.log.Errorw("sync pass failed", "error", err)
		default:
			d.log.Infow("sync pass completed",
				"symbols_checked", result.SymbolsChecked,
				"symbols_updated", result.SymbolsUpdated,
				"symbols_skipped", result.SymbolsSkipped,
				"symbols_failed", result.SymbolsFailed,
				"points_written", result.PointsWritten,
				"points_failed", result.PointsFailed,
				"duration", result.Duration.String(),
			)
		}

		wait := max(d.cfg.Period-d.now().Sub(started), 0)
		if d.sleep(ctx, wait) != nil {
			d.log.Infow("sync daemon stopped")
			return nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
