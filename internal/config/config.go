// Package config loads the storefront's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"Storefront/internal/storage"
)

const (
	devSecret      = "dev-only-storefront-secret-change-me"
	minSecretBytes = 32
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Secrets sign guest session cookies and account access tokens.
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-only-storefront-secret-change-me"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-only-storefront-secret-change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionIdle   time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
	Namespace     string        `env:"STATE_NAMESPACE" envDefault:"storefront"`

	StorageDriver string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"storefront.db"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StateTTL      time.Duration `env:"STATE_TTL" envDefault:"0s"`

	// PostgresDSN, when set, backs catalog, orders and users with Postgres and
	// is the DSN of the postgres storage driver.
	PostgresDSN string `env:"POSTGRES_DSN"`
	CatalogFile string `env:"CATALOG_FILE"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	OrdersTopic  string   `env:"ORDERS_TOPIC" envDefault:"storefront.orders"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsToken   string `env:"METRICS_TOKEN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}

	switch strings.ToLower(c.StorageDriver) {
	case storage.DriverMemory, storage.DriverSQLite, storage.DriverRedis:
	case storage.DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.StorageDriver)
	}

	if !c.IsDevelopment() {
		for name, v := range map[string]string{"SESSION_SECRET": c.SessionSecret, "JWT_SECRET": c.JWTSecret} {
			if v == devSecret {
				return fmt.Errorf("%s must be explicitly set outside development", name)
			}
			if len(v) < minSecretBytes {
				return fmt.Errorf("%s must be at least %d characters", name, minSecretBytes)
			}
		}
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL: %s", c.SessionTTL)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Storage() storage.Config {
	return storage.Config{
		Driver:      c.StorageDriver,
		SQLitePath:  c.SQLitePath,
		RedisAddr:   c.RedisAddr,
		RedisPass:   c.RedisPassword,
		RedisDB:     c.RedisDB,
		TTL:         c.StateTTL,
		PostgresDSN: c.PostgresDSN,
	}
}
