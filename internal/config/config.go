package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sleeping-Zack/iot-platform/pkg/database"
)

// Config holds the full service configuration, loaded from environment variables.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database database.Config
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	// Timezone is the single reference zone all stored timestamps are
	// interpreted in for window filtering and wall-clock rendering.
	Timezone string
	Sync     struct {
		Interval  time.Duration
		BatchSize int
		LeaseTTL  time.Duration
	}
	Report struct {
		Interval time.Duration
		LeaseTTL time.Duration
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "iot_platform")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Timezone = getEnv("TIMEZONE", "UTC")

	cfg.Sync.Interval = parseDuration(getEnv("SYNC_INTERVAL", "1m"), time.Minute)
	cfg.Sync.BatchSize = parseInt(getEnv("SYNC_BATCH_SIZE", "500"), 500)
	cfg.Sync.LeaseTTL = parseDuration(getEnv("SYNC_LEASE_TTL", "2m"), 2*time.Minute)

	cfg.Report.Interval = parseDuration(getEnv("REPORT_INTERVAL", "15m"), 15*time.Minute)
	cfg.Report.LeaseTTL = parseDuration(getEnv("REPORT_LEASE_TTL", "5m"), 5*time.Minute)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
