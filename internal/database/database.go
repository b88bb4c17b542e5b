// Package database opens the PostgreSQL connection pool and applies schema
// migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SzaboCristian/stock-market/internal/config"
	"github.com/SzaboCristian/stock-market/internal/logger"
)

// PoolConfig bounds the connection pool. The sync daemon needs far fewer
// connections than the API.
type PoolConfig struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
}

// APIPool is the pool used by the HTTP server.
var APIPool = PoolConfig{MaxIdle: 10, MaxOpen: 100, MaxLifetime: time.Hour}

// WorkerPool is the pool used by the sync daemon and the admin CLI.
var WorkerPool = PoolConfig{MaxIdle: 2, MaxOpen: 4, MaxLifetime: time.Hour}

// Manager handles database operations
type Manager struct {
	db    *gorm.DB
	sqlDB *sql.DB
	url   string
}

// NewManager creates a new database manager
func NewManager(cfg *config.Config, pool PoolConfig) (*Manager, error) {
	gormCfg := &gorm.Config{}
	if cfg.Env == "production" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)

	return &Manager{db: db, sqlDB: sqlDB, url: cfg.DatabaseURL()}, nil
}

// RunMigrations applies pending SQL migrations from dir (e.g. "migrations").
func (m *Manager) RunMigrations(dir string) error {
	log := logger.Get()
	log.Infow("running database migrations", "dir", dir)

	mig, err := migrate.New("file://"+dir, m.url)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	return m.sqlDB.Close()
}
