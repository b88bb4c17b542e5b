package main

import (
	"fmt"
	"net/http"

	"github.com/SzaboCristian/stock-market/internal/config"
	"github.com/SzaboCristian/stock-market/internal/database"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/pricesync"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/store"
)

// env holds the collaborators every subcommand works with.
type env struct {
	db       *database.Manager
	tracker  *pricesync.Tracker
	ingestor *pricesync.Ingestor
	stocks   services.StockServicer
	prices   services.StockPriceServicer
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	dbManager, err := database.NewManager(cfg, database.WorkerPool)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

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

	return &env{
		db:       dbManager,
		tracker:  tracker,
		ingestor: ingestor,
		stocks:   services.NewStockService(dbManager.DB(), yahoo),
		prices:   services.NewStockPriceService(dbManager.DB(), st, ingestor),
	}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		logger.Get().Warnw("close database", "error", err)
	}
}
