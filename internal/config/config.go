package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort string
	GRPCPort string

	DBDriver       string
	DBDSN          string
	SQLitePath     string
	DBMaxOpenConns int

	RedisAddr       string
	RequestGuardTTL time.Duration

	LogLevel  string
	LogFormat string

	OTLPEndpoint string
	ServiceName  string

	PageSize int
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real environments inject variables directly.
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		GRPCPort:     getEnv("GRPC_PORT", "50051"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBDSN:        getEnv("DB_DSN", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "invenedu.db"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("SERVICE_NAME", "invenedu"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getEnvInt("PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RequestGuardTTL, err = getEnvDuration("REQUEST_GUARD_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBDSN == "" {
			c.DBDSN = c.SQLitePath
		}
	case DriverMySQL, DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.DBMaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.RequestGuardTTL <= 0 {
		return fmt.Errorf("REQUEST_GUARD_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
