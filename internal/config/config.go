package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	Provider ProviderConfig
	Sync     SyncConfig
}

// ProviderConfig configures the market data provider client.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SyncConfig configures the price history sync daemon.
type SyncConfig struct {
	Period        time.Duration
	RetryInterval time.Duration
	RefreshTTL    time.Duration
	FetchTimeout  time.Duration
	BatchSize     int
	MaxRetries    int
	Timezone      *time.Location
	OpenHour      int
	CalendarMIC   string
	Epoch         time.Time
	LeaderLock    bool
}

// DefaultProviderURL is the Yahoo Finance v8 chart endpoint.
const DefaultProviderURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Load loads configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "stockmarket"),
		DBPassword: getEnv("DB_PASSWORD", "stockmarket"),
		DBName:     getEnv("DB_NAME", "stockmarket"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		Provider: ProviderConfig{
			BaseURL: strings.TrimRight(getEnv("PROVIDER_BASE_URL", DefaultProviderURL), "/"),
		},
	}

	var err error
	if cfg.JWTExpirationDur, err = parseDuration("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Provider.Timeout, err = parseDuration("PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Sync, err = loadSync(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSync() (SyncConfig, error) {
	var (
		s   SyncConfig
		err error
	)
	if s.Period, err = parseDuration("SYNC_PERIOD", 24*time.Hour); err != nil {
		return s, err
	}
	if s.RetryInterval, err = parseDuration("SYNC_RETRY_INTERVAL", time.Hour); err != nil {
		return s, err
	}
	if s.RefreshTTL, err = parseDuration("SYNC_REFRESH_TTL", 72*time.Hour); err != nil {
		return s, err
	}
	if s.FetchTimeout, err = parseDuration("SYNC_FETCH_TIMEOUT", 30*time.Second); err != nil {
		return s, err
	}
	if s.BatchSize, err = parseInt("SYNC_BATCH_SIZE", 1000, 1, 100000); err != nil {
		return s, err
	}
	if s.MaxRetries, err = parseInt("SYNC_MAX_RETRIES", 3, 0, 100); err != nil {
		return s, err
	}
	if s.OpenHour, err = parseInt("SYNC_OPEN_HOUR", 8, 0, 23); err != nil {
		return s, err
	}

	tz := getEnv("SYNC_TIMEZONE", "Europe/Berlin")
	if s.Timezone, err = time.LoadLocation(tz); err != nil {
		return s, fmt.Errorf("invalid SYNC_TIMEZONE %q: %w", tz, err)
	}

	epoch := getEnv("SYNC_EPOCH", "2010-01-01")
	if s.Epoch, err = time.Parse(time.DateOnly, epoch); err != nil {
		return s, fmt.Errorf("invalid SYNC_EPOCH %q: %w", epoch, err)
	}

	s.CalendarMIC = strings.ToLower(getEnv("SYNC_CALENDAR_MIC", ""))

	if s.LeaderLock, err = parseBool(os.Getenv("SYNC_LEADER_LOCK"), true); err != nil {
		return s, fmt.Errorf("invalid SYNC_LEADER_LOCK value: %w", err)
	}
	return s, nil
}

// DSN returns the libpq key/value connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL returns the postgres:// URL form used by golang-migrate.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parseInt(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, lo, hi, n)
	}
	return n, nil
}

func parseBool(s string, defaultVal bool) (bool, error) {
	if s == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be true, false, 1, or 0, got %q", s)
	}
}
