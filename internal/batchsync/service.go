// Package batchsync drives transaction ingestion for one account, one
// marketplace or every active marketplace.
package batchsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/internal/generator"
	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	"github.com/angelmondragon/marketrecon-backend/pkg/metrics"
	"github.com/angelmondragon/marketrecon-backend/pkg/outbox"
	"github.com/angelmondragon/marketrecon-backend/pkg/outbox/payloads"
)

const defaultConcurrency = 4

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type Service interface {
	SyncByAccount(ctx context.Context, accountID uuid.UUID, quantity int) Result
	SyncByMarketplace(ctx context.Context, marketplaceID uuid.UUID, quantity int) Result
	SyncAll(ctx context.Context, quantity int) Result
	PurgeTransactions(ctx context.Context, accountID *uuid.UUID) (int64, error)
}

type ServiceParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Accounts     accounts.Repository
	Marketplaces marketplaces.Repository
	Transactions transactions.Repository
	Generator    generator.Generator
	Fees         *fees.Resolver
	Outbox       outboxPublisher
	Metrics      *metrics.SyncMetrics
	Concurrency  int
	LookbackDays int
	Now          func() time.Time
}

type service struct {
	logg         *logger.Logger
	db           txRunner
	accounts     accounts.Repository
	marketplaces marketplaces.Repository
	txs          transactions.Repository
	gen          generator.Generator
	fees         *fees.Resolver
	outbox       outboxPublisher
	metrics      *metrics.SyncMetrics
	concurrency  int
	lookbackDays int
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if params.Marketplaces == nil {
		return nil, fmt.Errorf("marketplaces repository required")
	}
	if params.Transactions == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("transaction generator required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	resolver := params.Fees
	if resolver == nil {
		resolver = fees.NewResolver(fees.DefaultSchedule())
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		logg:         logg,
		db:           params.DB,
		accounts:     params.Accounts,
		marketplaces: params.Marketplaces,
		txs:          params.Transactions,
		gen:          params.Generator,
		fees:         resolver,
		outbox:       params.Outbox,
		metrics:      params.Metrics,
		concurrency:  concurrency,
		lookbackDays: params.LookbackDays,
		now:          now,
	}, nil
}

// NormalizeQuantity applies the default for zero and rejects values outside
// [MinQuantity, MaxQuantity].
func NormalizeQuantity(quantity int) (int, bool) {
	if quantity == 0 {
		return DefaultQuantity, true
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return 0, false
	}
	return quantity, true
}

// InvalidQuantity is the Result returned for an out-of-range quantity.
func InvalidQuantity() Result {
	return failure(ErrInvalidQuantity, fmt.Sprintf("Quantidade deve estar entre %d e %d", MinQuantity, MaxQuantity))
}

func (s *service) SyncByAccount(ctx context.Context, accountID uuid.UUID, quantity int) Result {
	qty, ok := NormalizeQuantity(quantity)
	if !ok {
		return InvalidQuantity()
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncResult(ErrAccountNotFound)
			return failure(ErrAccountNotFound, "Conta não encontrada")
		}
		s.logg.Error(s.logg.WithAccountID(ctx, accountID.String()), "load account for sync", err)
		return failure(err.Error(), "Erro ao sincronizar conta")
	}
	if account.Status != enums.AccountStatusActive {
		s.metrics.IncResult(ErrAccountInactive)
		return failure(ErrAccountInactive, "Conta não está ativa")
	}

	res, _ := s.syncAccount(ctx, account, qty)
	return res
}

// syncAccount generates and persists qty transactions for an ACTIVE account.
// The inserted rows are returned for aggregate statistics.
func (s *service) syncAccount(ctx context.Context, account *models.MarketplaceAccount, qty int) (Result, []models.Transaction) {
	logCtx := s.logg.WithAccountID(ctx, account.ID.String())
	marketplaceName := ""
	if account.Marketplace != nil {
		marketplaceName = account.Marketplace.Name
	}

	rows, err := s.gen.Generate(ctx, generator.Params{
		AccountID:       account.ID,
		MarketplaceName: marketplaceName,
		Schedule:        s.fees.ScheduleFor(account.Marketplace),
		Count:           qty,
		LookbackDays:    s.lookbackDays,
	})
	if err != nil {
		s.logg.Error(logCtx, "generate transactions", err)
		s.metrics.IncResult("generate_failed")
		return failure(err.Error(), "Erro ao sincronizar conta"), nil
	}

	stats := ComputeStatistics(rows)
	syncedAt := s.now()
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.txs.WithTx(tx).CreateBatch(ctx, rows); err != nil {
			return err
		}
		if err := s.accounts.WithTx(tx).TouchLastSync(ctx, account.ID, syncedAt); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSyncCompleted,
			AggregateType: enums.AggregateMarketplaceAccount,
			AggregateID:   account.ID,
			Actor:         &outbox.ActorRef{Source: "sync"},
			Data: payloads.SyncCompletedEvent{
				AccountID:     account.ID,
				MarketplaceID: account.MarketplaceID,
				Created:       len(rows),
				GrossTotal:    stats.GrossTotal,
				NetTotal:      stats.NetTotal,
				SyncedAt:      syncedAt,
			},
		})
	})
	if err != nil {
		s.logg.Error(logCtx, "persist synced transactions", err)
		s.metrics.IncResult("persist_failed")
		return failure(err.Error(), "Erro ao sincronizar conta"), nil
	}

	s.metrics.IncResult("")
	s.metrics.AddCreated(marketplaceName, len(rows))
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"marketplace": marketplaceName,
		"created":     len(rows),
	}), "account sync complete")

	return Result{
		Success:             true,
		Message:             fmt.Sprintf("Sincronização concluída: %d transações criadas para %s", len(rows), marketplaceName),
		TransactionsCreated: len(rows),
		Statistics:          &stats,
	}, rows
}

func (s *service) SyncByMarketplace(ctx context.Context, marketplaceID uuid.UUID, quantity int) Result {
	qty, ok := NormalizeQuantity(quantity)
	if !ok {
		return InvalidQuantity()
	}

	marketplace, err := s.marketplaces.FindByID(ctx, marketplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrMarketplaceNotFound, "Marketplace não encontrado")
		}
		s.logg.Error(s.logg.WithMarketplaceID(ctx, marketplaceID.String()), "load marketplace for sync", err)
		return failure(err.Error(), "Erro ao sincronizar marketplace")
	}

	active, err := s.accounts.ListActiveByMarketplace(ctx, marketplaceID)
	if err != nil {
		return failure(err.Error(), "Erro ao sincronizar marketplace")
	}
	if len(active) == 0 {
		return failure(ErrNoActiveAccount, "Nenhuma conta ativa encontrada para este marketplace")
	}

	res := s.fanOut(ctx, active, qty)
	res.Message = fmt.Sprintf("Sincronização concluída: %d transações criadas para %d conta(s) do %s",
		res.TransactionsCreated, len(active), marketplace.Name)
	return res
}

func (s *service) SyncAll(ctx context.Context, quantity int) Result {
	qty, ok := NormalizeQuantity(quantity)
	if !ok {
		return InvalidQuantity()
	}

	active, err := s.marketplaces.ListActive(ctx)
	if err != nil {
		return failure(err.Error(), "Erro ao sincronizar todos os marketplaces")
	}
	if len(active) == 0 {
		return failure(ErrNoActiveMarketplace, "Nenhum marketplace ativo encontrado")
	}

	accs, err := s.accounts.ListSyncable(ctx)
	if err != nil {
		return failure(err.Error(), "Erro ao sincronizar todos os marketplaces")
	}

	res := s.fanOut(ctx, accs, qty)
	synced := 0
	for _, a := range res.Accounts {
		if a.Success {
			synced++
		}
	}
	res.Message = fmt.Sprintf("Sincronização global concluída: %d transações criadas para %d conta(s) em %d marketplace(s)",
		res.TransactionsCreated, synced, len(active))
	return res
}

// fanOut syncs every account with bounded parallelism. Statistics cover only
// the accounts that succeeded.
func (s *service) fanOut(ctx context.Context, accs []models.MarketplaceAccount, qty int) Result {
	lines := make([]AccountSync, len(accs))
	created := make([][]models.Transaction, len(accs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range accs {
		i, account := i, accs[i]
		g.Go(func() error {
			res, rows := s.syncAccount(ctx, &account, qty)
			lines[i] = AccountSync{
				AccountID:           account.ID,
				Success:             res.Success,
				TransactionsCreated: res.TransactionsCreated,
				Error:               res.Error,
			}
			created[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Transaction
	total := 0
	for i := range lines {
		if !lines[i].Success {
			continue
		}
		total += lines[i].TransactionsCreated
		all = append(all, created[i]...)
	}
	stats := ComputeStatistics(all)
	return Result{
		Success:             true,
		TransactionsCreated: total,
		Statistics:          &stats,
		Accounts:            lines,
	}
}

// PurgeTransactions deletes transactions and their reconciliation records for
// one account, or for all accounts when accountID is nil. Both deletes commit
// together.
func (s *service) PurgeTransactions(ctx context.Context, accountID *uuid.UUID) (int64, error) {
	var deleted int64
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.txs.WithTx(tx).DeleteAll(ctx, accountID)
		deleted = n
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge transactions")
	}
	fields := map[string]any{"deleted": deleted}
	if accountID != nil {
		fields["account_id"] = accountID.String()
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "transactions purged")
	return deleted, nil
}
