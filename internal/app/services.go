// Package app assembles the domain services shared by the API, the cron
// worker and the operator CLI.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/internal/bankaccounts"
	"github.com/angelmondragon/marketrecon-backend/internal/batchsync"
	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/internal/generator"
	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/config"
	"github.com/angelmondragon/marketrecon-backend/pkg/db"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	"github.com/angelmondragon/marketrecon-backend/pkg/metrics"
	"github.com/angelmondragon/marketrecon-backend/pkg/outbox"
	"github.com/angelmondragon/marketrecon-backend/pkg/security"
)

type Services struct {
	Fees            *fees.Resolver
	OutboxRepo      *outbox.Repository
	MarketplaceRepo marketplaces.Repository
	Marketplaces    marketplaces.Service
	Accounts        accounts.Service
	Transactions    transactions.Service
	Sync            batchsync.Service
	Reconciliation  reconciliation.Service
}

// NewServices wires repositories and services over one database client.
// Metrics register on reg; a nil reg disables them.
func NewServices(cfg *config.Config, logg *logger.Logger, client *db.Client, reg prometheus.Registerer) (*Services, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	conn := client.DB()

	resolver := fees.NewResolverFromConfig(cfg.Reconciliation)
	outboxRepo := outbox.NewRepository(conn)
	emitter := outbox.NewService(outboxRepo, logg)

	marketplaceRepo := marketplaces.NewRepository(conn)
	accountRepo := accounts.NewRepository(conn)
	txRepo := transactions.NewRepository(conn)

	marketplaceSvc, err := marketplaces.NewService(marketplaceRepo, resolver)
	if err != nil {
		return nil, fmt.Errorf("marketplaces service: %w", err)
	}
	sealer, err := credentialSealer(cfg.Security, logg)
	if err != nil {
		return nil, err
	}
	accountSvc, err := accounts.NewService(accountRepo, marketplaceRepo, sealer)
	if err != nil {
		return nil, fmt.Errorf("accounts service: %w", err)
	}
	txSvc, err := transactions.NewService(txRepo)
	if err != nil {
		return nil, fmt.Errorf("transactions service: %w", err)
	}

	var syncMetrics *metrics.SyncMetrics
	var reconMetrics *metrics.ReconciliationMetrics
	if reg != nil {
		syncMetrics = metrics.NewSyncMetrics(reg)
		reconMetrics = metrics.NewReconciliationMetrics(reg)
	}

	syncSvc, err := batchsync.NewService(batchsync.ServiceParams{
		Logger:       logg,
		DB:           client,
		Accounts:     accountRepo,
		Marketplaces: marketplaceRepo,
		Transactions: txRepo,
		Generator:    generator.NewSynthetic(nil, nil),
		Fees:         resolver,
		Outbox:       emitter,
		Metrics:      syncMetrics,
		Concurrency:  cfg.Reconciliation.WorkerConcurrency,
		LookbackDays: cfg.Reconciliation.GeneratorLookbackDays,
	})
	if err != nil {
		return nil, fmt.Errorf("sync service: %w", err)
	}

	reconSvc, err := reconciliation.NewService(reconciliation.ServiceParams{
		Logger:       logg,
		DB:           client,
		Accounts:     accountRepo,
		Transactions: txRepo,
		BankAccounts: bankaccounts.NewRepository(conn),
		Records:      reconciliation.NewRepository(conn),
		Outbox:       emitter,
		Metrics:      reconMetrics,
		Concurrency:  cfg.Reconciliation.WorkerConcurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("reconciliation service: %w", err)
	}

	return &Services{
		Fees:            resolver,
		OutboxRepo:      outboxRepo,
		MarketplaceRepo: marketplaceRepo,
		Marketplaces:    marketplaceSvc,
		Accounts:        accountSvc,
		Transactions:    txSvc,
		Sync:            syncSvc,
		Reconciliation:  reconSvc,
	}, nil
}

// credentialSealer falls back to a per-process key outside prod, where Load
// does not require one.
func credentialSealer(cfg config.SecurityConfig, logg *logger.Logger) (*security.Sealer, error) {
	if strings.TrimSpace(cfg.CredentialsKey) != "" {
		sealer, err := security.NewSealer(cfg.CredentialsKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.EnvCredentialsKey, err)
		}
		return sealer, nil
	}
	if logg != nil {
		logg.Warn(context.Background(), "no credentials key configured; sealing with an ephemeral key")
	}
	return security.NewEphemeralSealer()
}
