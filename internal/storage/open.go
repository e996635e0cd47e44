package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Storefront/pkg/pgdb"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver      string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	TTL         time.Duration
	PostgresDSN string
}

// Open builds the driver named by cfg.Driver and checks it is reachable.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Store, error) {
	var (
		s   Store
		err error
	)

	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		s = NewMemStore()
	case DriverSQLite:
		s, err = OpenSQLite(ctx, cfg.SQLitePath)
	case DriverRedis:
		s = NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		}), cfg.TTL)
	case DriverPostgres:
		pool, perr := pgdb.Connect(ctx, cfg.PostgresDSN, log)
		if perr != nil {
			return nil, perr
		}
		ps := NewPostgresStore(pool)
		ps.close = pool.Close
		s = ps
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Ping(pctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping %s storage: %w", cfg.Driver, err)
	}
	return s, nil
}
