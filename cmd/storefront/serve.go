package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Storefront/internal/account"
	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/config"
	"Storefront/internal/session"
	"Storefront/internal/storage"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
	"Storefront/pkg/pgdb"
)

const (
	service       = "storefront"
	sweepInterval = time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state, err := storage.Open(ctx, cfg.Storage(), log)
	if err != nil {
		return fmt.Errorf("open state storage: %w", err)
	}
	defer func() { _ = state.Close() }()

	var pool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pool, err = pgdb.Connect(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	products, err := openCatalog(cfg, pool)
	if err != nil {
		return err
	}

	var (
		orders checkout.OrderStore = checkout.NewMemStore()
		users  account.UserStore   = account.NewMemStore()
	)
	if pool != nil {
		orders = checkout.NewPostgresStore(pool)
		users = account.NewPostgresStore(pool)
	}

	var pub checkout.Publisher = checkout.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = checkout.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrdersTopic)
		log.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrdersTopic))
	}
	defer func() { _ = pub.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stateMetrics := kit.NewStateMetrics(reg)

	sessions := cart.NewSessions(state, cfg.Namespace, cfg.SessionIdle,
		cart.WithLogger(log.Named("cart")),
		cart.WithRecorder(stateMetrics),
	)
	go sessions.Run(ctx, sweepInterval)

	h := storefront.NewHandler(storefront.Deps{
		Catalog:  products,
		State:    state,
		Sessions: sessions,
		Orders:   orders,
		Checkout: checkout.NewService(orders, pub, stateMetrics, log.Named("checkout")),
		Users:    users,
		Tokens:   account.NewTokenMaker(cfg.JWTSecret),
		Session:  session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies, log),
	}, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	log.Info("storefront configured",
		zap.String("env", cfg.Environment),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("postgres", pool != nil),
	)
	return kit.RunHTTPServer(ctx, cfg.Addr(), h, log)
}

// openCatalog prefers an explicit catalog file, then Postgres, then the
// built-in sample catalog.
func openCatalog(cfg *config.Config, pool *pgxpool.Pool) (catalog.Store, error) {
	switch {
	case cfg.CatalogFile != "":
		s, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return s, nil
	case pool != nil:
		return catalog.NewPostgresStore(pool), nil
	default:
		return catalog.NewStore(), nil
	}
}
