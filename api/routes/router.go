package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketrecon-backend/api/controllers"
	"github.com/angelmondragon/marketrecon-backend/api/middleware"
	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/internal/batchsync"
	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/config"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/marketrecon-backend/pkg/redis"
)

// RequestStore backs HTTP idempotency and rate limiting. *redis.Client
// satisfies it.
type RequestStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type Params struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Redis controllers.Pinger
	Store RequestStore

	// Gatherer serves /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer

	Marketplaces   marketplaces.Service
	Accounts       accounts.Service
	Transactions   transactions.Service
	Sync           batchsync.Service
	Reconciliation reconciliation.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}))
	})

	store := p.Store
	syncPolicy := middleware.NewRateLimitPolicy("sync", cfg.Eventing.SyncRateWindow, cfg.Eventing.SyncRateLimit)

	r.Route("/api", func(r chi.Router) {
		if store != nil {
			r.Use(middleware.Idempotency(store, cfg.Eventing.IdempotencyTTL, logg))
		}

		r.Route("/marketplaces", func(r chi.Router) {
			r.Get("/", controllers.ListMarketplaces(p.Marketplaces, logg))
			r.Get("/{marketplaceId}", controllers.GetMarketplace(p.Marketplaces, logg))
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.ListAccounts(p.Accounts, logg))
			r.Post("/", controllers.CreateAccount(p.Accounts, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(p.Transactions, logg))
			r.Delete("/", controllers.PurgeTransactions(p.Sync, logg))
			r.Get("/{transactionId}", controllers.GetTransaction(p.Transactions, logg))
		})

		r.Route("/sync", func(r chi.Router) {
			if store != nil {
				r.Use(middleware.RateLimit(syncPolicy, store, logg))
			}
			r.Post("/", controllers.SyncAll(p.Sync, logg))
			r.Post("/accounts/{accountId}", controllers.SyncAccount(p.Sync, logg))
			r.Post("/marketplaces/{marketplaceId}", controllers.SyncMarketplace(p.Sync, logg))
		})

		r.Route("/reconciliations", func(r chi.Router) {
			r.Post("/", controllers.CreateManualReconciliation(p.Reconciliation, logg))
			r.Post("/run", controllers.ReconcileAll(p.Reconciliation, logg))
			r.Get("/pending", controllers.ListPendingReview(p.Reconciliation, logg))
			r.Post("/accounts/{accountId}/run", controllers.ReconcileAccount(p.Reconciliation, logg))
		})
	})

	return r
}
