// Package storefront wires the catalog, cart, checkout and account APIs into
// one HTTP handler.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/account"
	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/session"
	"Storefront/internal/storage"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog  catalog.Store
	State    storage.Store
	Sessions *cart.Sessions
	Orders   checkout.OrderStore
	Checkout *checkout.Service
	Users    account.UserStore
	Tokens   *account.TokenMaker
	Session  *session.Manager
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

type pinger interface {
	Ping(ctx context.Context) error
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	(&catalog.Server{Store: deps.Catalog, Log: httpDeps.Log}).Register(r)
	(&account.Server{Store: deps.Users, JWT: deps.Tokens, Log: httpDeps.Log}).Register(r)

	r.Group(func(sr chi.Router) {
		sr.Use(deps.Session.Middleware)
		(&cart.Server{Sessions: deps.Sessions, Catalog: deps.Catalog, Log: httpDeps.Log}).Register(sr)
		(&checkout.Server{Service: deps.Checkout, Sessions: deps.Sessions, Log: httpDeps.Log}).Register(sr)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	checks := []struct {
		name string
		p    pinger
	}{
		{"state", deps.State},
		{"catalog", deps.Catalog},
		{"orders", deps.Orders},
		{"users", deps.Users},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, c := range checks {
			if c.p == nil {
				continue
			}
			if err := checkReady(ctx, c.p); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+c.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, c.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, p pinger) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return p.Ping(cctx)
}
