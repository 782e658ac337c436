// Package reconciliation runs the automatic matching engine over unreconciled
// marketplace transactions and records manual settlements.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/bankaccounts"
	"github.com/angelmondragon/marketrecon-backend/internal/matching"
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

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceAccount, error)
	ListActive(ctx context.Context) ([]models.MarketplaceAccount, error)
}

// Service is the reconciliation engine.
type Service interface {
	ReconcileAccount(ctx context.Context, accountID uuid.UUID) (*AccountResult, error)
	ReconcileAllAccounts(ctx context.Context) (*BatchResult, error)
	ListPendingReview(ctx context.Context, accountID *uuid.UUID) ([]transactions.PendingReviewItem, error)
	ReconcileManually(ctx context.Context, input ManualInput) (*models.Reconciliation, error)
}

type ServiceParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Accounts     accountReader
	Transactions transactions.Repository
	BankAccounts bankaccounts.Repository
	Records      Repository
	Outbox       outboxPublisher
	Metrics      *metrics.ReconciliationMetrics
	Concurrency  int
	Now          func() time.Time
}

type service struct {
	logg        *logger.Logger
	db          txRunner
	accounts    accountReader
	txs         transactions.Repository
	banks       bankaccounts.Repository
	records     Repository
	outbox      outboxPublisher
	metrics     *metrics.ReconciliationMetrics
	concurrency int
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if params.Transactions == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if params.BankAccounts == nil {
		return nil, fmt.Errorf("bank accounts repository required")
	}
	if params.Records == nil {
		return nil, fmt.Errorf("reconciliation repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
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
		logg:        logg,
		db:          params.DB,
		accounts:    params.Accounts,
		txs:         params.Transactions,
		banks:       params.BankAccounts,
		records:     params.Records,
		outbox:      params.Outbox,
		metrics:     params.Metrics,
		concurrency: concurrency,
		now:         now,
	}, nil
}

var actor = &outbox.ActorRef{Source: "reconciliation"}

func (s *service) ReconcileAccount(ctx context.Context, accountID uuid.UUID) (*AccountResult, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveBatch(time.Since(started)) }()

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketplace account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketplace account")
	}
	if !account.IsActive() {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "marketplace account is %s", account.Status)
	}

	pending, err := s.txs.FindUnreconciled(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unreconciled transactions")
	}

	result := &AccountResult{AccountID: accountID, Details: make([]Detail, 0, len(pending))}
	if len(pending) == 0 {
		return result, nil
	}

	bank, err := s.banks.FindFirstActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active bank account")
	}

	logCtx := s.logg.WithAccountID(ctx, accountID.String())
	for _, tx := range pending {
		// Work already committed stays in the result returned with the error.
		if err := ctx.Err(); err != nil {
			return result, err
		}
		detail := s.reconcileOne(logCtx, tx, bank)
		switch detail.Status {
		case DetailUnchanged:
			result.AlreadyInReview++
			continue
		case DetailReconciled:
			result.Reconciled++
		case DetailReview:
			result.NeedsReview++
		}
		result.Details = append(result.Details, detail)
	}

	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"reconciled":        result.Reconciled,
		"needs_review":      result.NeedsReview,
		"already_in_review": result.AlreadyInReview,
	}), "account reconciliation complete")
	return result, nil
}

func (s *service) reconcileOne(ctx context.Context, tx models.Transaction, bank *models.BankAccount) Detail {
	detail := Detail{TransactionID: tx.ID, ExternalOrderID: tx.ExternalOrderID}
	match := matching.Evaluate(tx, bank)

	var err error
	if match.Matched {
		err = s.db.WithTx(ctx, func(dbtx *gorm.DB) error {
			return s.applyMatch(ctx, dbtx, tx, *match.BankAccountID)
		})
		if err == nil {
			s.metrics.IncOutcome(metrics.OutcomeReconciled)
			detail.Status = DetailReconciled
			detail.BankAccountID = match.BankAccountID
			return detail
		}
	} else {
		if inReviewFor(tx, NoMatchReason) {
			s.metrics.IncOutcome(metrics.OutcomeUnchanged)
			detail.Status = DetailUnchanged
			return detail
		}
		err = s.db.WithTx(ctx, func(dbtx *gorm.DB) error {
			return s.flagForReview(ctx, dbtx, tx, NoMatchReason)
		})
		if err == nil {
			s.metrics.IncOutcome(metrics.OutcomeReview)
			detail.Status = DetailReview
			detail.Reason = NoMatchMotivo
			return detail
		}
	}

	// Another run recorded the match first; its flags are the ones to keep.
	if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		s.metrics.IncOutcome(metrics.OutcomeConflict)
		s.logg.Warn(s.logg.WithTransactionID(ctx, tx.ID.String()), "transaction reconciled concurrently")
		detail.Status = DetailConflict
		detail.Reason = ConflictMotivo
		return detail
	}

	s.metrics.IncOutcome(metrics.OutcomeError)
	s.logg.Error(s.logg.WithTransactionID(ctx, tx.ID.String()), "reconcile transaction failed", err)
	reason := err.Error()
	if flagErr := s.txs.UpdateFlags(ctx, tx.ID, transactions.Flags{RequiresManualReview: true, ReviewReason: &reason}); flagErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", flagErr.Error()), "could not flag failed transaction for review")
	}
	detail.Status = DetailReview
	detail.Reason = ErrorMotivo
	detail.Error = reason
	return detail
}

// inReviewFor reports whether tx already sits in the review queue for reason.
func inReviewFor(tx models.Transaction, reason string) bool {
	return tx.RequiresManualReview && !tx.AutoReconciled && tx.ReviewReason != nil && *tx.ReviewReason == reason
}

func (s *service) applyMatch(ctx context.Context, dbtx *gorm.DB, tx models.Transaction, bankAccountID uuid.UUID) error {
	notes := AutomaticNotes
	rec := &models.Reconciliation{
		TransactionID: tx.ID,
		BankAccountID: bankAccountID,
		Amount:        tx.NetAmount,
		ReconciledAt:  s.now(),
		Type:          enums.ReconciliationTypeAutomatic,
		Notes:         &notes,
	}
	if err := s.records.WithTx(dbtx).Create(ctx, rec); err != nil {
		return err
	}
	if err := s.txs.WithTx(dbtx).UpdateFlags(ctx, tx.ID, transactions.Flags{AutoReconciled: true}); err != nil {
		return err
	}
	return s.outbox.Emit(ctx, dbtx, outbox.DomainEvent{
		EventType:     enums.EventTransactionReconciled,
		AggregateType: enums.AggregateTransaction,
		AggregateID:   tx.ID,
		Actor:         actor,
		Data: payloads.TransactionReconciledEvent{
			TransactionID:    tx.ID,
			AccountID:        tx.AccountID,
			BankAccountID:    bankAccountID,
			ReconciliationID: rec.ID,
			Amount:           rec.Amount,
			Type:             rec.Type,
			ReconciledAt:     rec.ReconciledAt,
		},
	})
}

func (s *service) flagForReview(ctx context.Context, dbtx *gorm.DB, tx models.Transaction, reason string) error {
	if err := s.txs.WithTx(dbtx).UpdateFlags(ctx, tx.ID, transactions.Flags{RequiresManualReview: true, ReviewReason: &reason}); err != nil {
		return err
	}
	return s.outbox.Emit(ctx, dbtx, outbox.DomainEvent{
		EventType:     enums.EventTransactionFlaggedForReview,
		AggregateType: enums.AggregateTransaction,
		AggregateID:   tx.ID,
		Actor:         actor,
		Data: payloads.TransactionFlaggedEvent{
			TransactionID: tx.ID,
			AccountID:     tx.AccountID,
			Reason:        reason,
		},
	})
}

// ReconcileAllAccounts reconciles every active account. Accounts run in
// parallel up to the configured limit; a failed account is reported in its
// outcome and does not stop the others.
func (s *service) ReconcileAllAccounts(ctx context.Context) (*BatchResult, error) {
	startedAt := s.now()
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active accounts")
	}

	outcomes := make([]AccountOutcome, len(accounts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range accounts {
		account := accounts[i]
		g.Go(func() error {
			outcome := AccountOutcome{AccountID: account.ID, AccountName: account.Name}
			if account.Marketplace != nil {
				outcome.MarketplaceName = account.Marketplace.Name
			}
			res, err := s.ReconcileAccount(ctx, account.ID)
			if res != nil {
				outcome.Reconciled = res.Reconciled
				outcome.NeedsReview = res.NeedsReview
				outcome.AlreadyInReview = res.AlreadyInReview
			}
			if err != nil {
				outcome.Error = err.Error()
				s.logg.Error(s.logg.WithAccountID(ctx, account.ID.String()), "account reconciliation failed", err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Accounts: outcomes, StartedAt: startedAt}
	for _, o := range outcomes {
		batch.AccountsProcessed++
		if o.Error != "" {
			batch.AccountsFailed++
		}
		batch.Reconciled += o.Reconciled
		batch.NeedsReview += o.NeedsReview
		batch.AlreadyInReview += o.AlreadyInReview
	}
	batch.FinishedAt = s.now()
	return batch, nil
}

func (s *service) ListPendingReview(ctx context.Context, accountID *uuid.UUID) ([]transactions.PendingReviewItem, error) {
	items, err := s.txs.ListPendingReview(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending review")
	}
	if items == nil {
		items = []transactions.PendingReviewItem{}
	}
	return items, nil
}

// ReconcileManually records an operator-confirmed settlement and takes the
// transaction out of the review queue.
func (s *service) ReconcileManually(ctx context.Context, input ManualInput) (*models.Reconciliation, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.BankAccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank account id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	reconciledAt := input.ReconciledAt.UTC()
	if input.ReconciledAt.IsZero() {
		reconciledAt = s.now()
	}

	var rec *models.Reconciliation
	err := s.db.WithTx(ctx, func(dbtx *gorm.DB) error {
		tx, err := s.txs.WithTx(dbtx).FindByID(ctx, input.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return err
		}
		if _, err := s.banks.WithTx(dbtx).FindByID(ctx, input.BankAccountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bank account not found")
			}
			return err
		}

		records := s.records.WithTx(dbtx)
		exists, err := records.ExistsForTransaction(ctx, tx.ID)
		if err != nil {
			return err
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "transaction already reconciled")
		}

		rec = &models.Reconciliation{
			TransactionID: tx.ID,
			BankAccountID: input.BankAccountID,
			Amount:        input.Amount.Round(2),
			ReconciledAt:  reconciledAt,
			Type:          enums.ReconciliationTypeManual,
			Notes:         input.Notes,
		}
		if err := records.Create(ctx, rec); err != nil {
			return err
		}
		if err := s.txs.WithTx(dbtx).UpdateFlags(ctx, tx.ID, transactions.Flags{}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, dbtx, outbox.DomainEvent{
			EventType:     enums.EventTransactionReconciled,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   tx.ID,
			Actor:         actor,
			Data: payloads.TransactionReconciledEvent{
				TransactionID:    tx.ID,
				AccountID:        tx.AccountID,
				BankAccountID:    rec.BankAccountID,
				ReconciliationID: rec.ID,
				Amount:           rec.Amount,
				Type:             rec.Type,
				ReconciledAt:     rec.ReconciledAt,
			},
		})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record manual reconciliation")
	}
	return rec, nil
}
