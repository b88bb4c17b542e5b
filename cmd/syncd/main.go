// Command syncd is the price history sync daemon. It keeps the stored daily
// bars of every registered stock up to date, one pass per period, and only
// one instance per database runs passes at a time.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SzaboCristian/stock-market/internal/config"
	"github.com/SzaboCristian/stock-market/internal/database"
	"github.com/SzaboCristian/stock-market/internal/leader"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/pricesync"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/store"
)

const lockName = "stock-market/syncd"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Errorw("sync daemon stopped", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("syncd")

	if cfg.Sync.LeaderLock {
		lock, err := leader.Open(ctx, cfg.DSN(), lockName, logger.Named("leader"))
		if err != nil {
			return fmt.Errorf("open leader lock: %w", err)
		}
		if err := lock.Acquire(ctx); err != nil {
			_ = lock.Release(context.WithoutCancel(ctx))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("acquire leader lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warnw("release leader lock", "error", err)
			}
		}()

		// Stop passing as soon as another instance could have taken over.
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)
		go func() {
			if err := lock.Watch(ctx); err != nil {
				cancel(err)
			}
		}()
	}

	dbManager, err := database.NewManager(cfg, database.WorkerPool)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	st := store.New(dbManager.DB())
	yahoo := provider.NewYahooProvider(&http.Client{Timeout: cfg.Provider.Timeout}, cfg.Provider.BaseURL)

	tracker := pricesync.NewTracker(st, pricesync.TrackerConfig{
		Epoch: cfg.Sync.Epoch,
		TTL:   cfg.Sync.RefreshTTL,
	}, logger.Named("tracker"))
	ingestor := pricesync.NewIngestor(st, yahoo, tracker, pricesync.IngestorConfig{
		BatchSize:    cfg.Sync.BatchSize,
		MaxRetries:   cfg.Sync.MaxRetries,
		FetchTimeout: cfg.Sync.FetchTimeout,
	}, logger.Named("ingestor"))

	var cal pricesync.TradingCalendar
	if cfg.Sync.CalendarMIC != "" {
		exchange, err := pricesync.NewExchangeCalendar(cfg.Sync.CalendarMIC)
		if err != nil {
			return err
		}
		cal = exchange
	}
	gate := pricesync.NewGate(cfg.Sync.Timezone, cfg.Sync.OpenHour, cal)

	daemon := pricesync.NewDaemon(gate, ingestor, pricesync.DaemonConfig{
		Period:        cfg.Sync.Period,
		RetryInterval: cfg.Sync.RetryInterval,
	}, log)

	log.Infow("sync daemon starting",
		"provider", yahoo.Name(),
		"period", cfg.Sync.Period,
		"timezone", cfg.Sync.Timezone.String(),
		"calendar", cfg.Sync.CalendarMIC,
	)
	if err := daemon.Run(ctx); err != nil {
		return err
	}
	if cause := context.Cause(ctx); errors.Is(cause, leader.ErrLost) {
		return cause
	}
	return nil
}
