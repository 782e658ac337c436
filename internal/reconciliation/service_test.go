package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/internal/bankaccounts"
	"github.com/angelmondragon/marketrecon-backend/internal/repo/repotest"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/db"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	"github.com/angelmondragon/marketrecon-backend/pkg/metrics"
	"github.com/angelmondragon/marketrecon-backend/pkg/outbox"
)

var fixedNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

type harness struct {
	db       *gorm.DB
	svc      Service
	metrics  *metrics.ReconciliationMetrics
	registry *prometheus.Registry
	market   *models.Marketplace
}

type failingOutbox struct {
	inner   *outbox.Service
	failFor enums.OutboxEventType
}

func (f *failingOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if event.EventType == f.failFor {
		return errors.New("outbox unavailable")
	}
	return f.inner.Emit(ctx, tx, event)
}

func newHarness(t *testing.T, wrap func(*outbox.Service) outboxPublisher) harness {
	t.Helper()
	conn := repotest.NewDB(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewReconciliationMetrics(reg)

	var pub outboxPublisher = outbox.NewService(outbox.NewRepository(conn), logger.Nop())
	if wrap != nil {
		pub = wrap(pub.(*outbox.Service))
	}
	svc, err := NewService(ServiceParams{
		Logger:       logger.Nop(),
		DB:           db.NewFromConn(conn),
		Accounts:     accounts.NewRepository(conn),
		Transactions: transactions.NewRepository(conn),
		BankAccounts: bankaccounts.NewRepository(conn),
		Records:      NewRepository(conn),
		Outbox:       pub,
		Metrics:      m,
		Concurrency:  2,
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return harness{
		db:       conn,
		svc:      svc,
		metrics:  m,
		registry: reg,
		market:   repotest.Marketplace(t, conn, "Amazon", true),
	}
}

func (h harness) account(t *testing.T, status enums.AccountStatus) *models.MarketplaceAccount {
	return repotest.Account(t, h.db, h.market.ID, status)
}

func (h harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(model).Count(&n).Error)
	return n
}

func (h harness) reload(t *testing.T, id uuid.UUID) models.Transaction {
	t.Helper()
	var tx models.Transaction
	require.NoError(t, h.db.Where("id = ?", id).First(&tx).Error)
	return tx
}

func TestReconcileAccountMatchesApprovedAndFlagsTheRest(t *testing.T) {
	h := newHarness(t, nil)
	bank := repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a1 := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, base)
	a2 := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, base.Add(24*time.Hour))
	p := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusPending, base.Add(48*time.Hour))

	res, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, res.AccountID)
	assert.Equal(t, 2, res.Reconciled)
	assert.Equal(t, 1, res.NeedsReview)
	require.Len(t, res.Details, 3)

	// newest order first
	assert.Equal(t, p.ID, res.Details[0].TransactionID)
	assert.Equal(t, DetailReview, res.Details[0].Status)
	assert.Equal(t, NoMatchMotivo, res.Details[0].Reason)
	assert.Equal(t, a2.ID, res.Details[1].TransactionID)
	assert.Equal(t, DetailReconciled, res.Details[1].Status)
	require.NotNil(t, res.Details[1].BankAccountID)
	assert.Equal(t, bank.ID, *res.Details[1].BankAccountID)

	for _, id := range []uuid.UUID{a1.ID, a2.ID} {
		var rec models.Reconciliation
		require.NoError(t, h.db.Where("transaction_id = ?", id).First(&rec).Error)
		assert.Equal(t, bank.ID, rec.BankAccountID)
		assert.True(t, rec.Amount.Equal(decimal.RequireFromString("79.60")))
		assert.Equal(t, enums.ReconciliationTypeAutomatic, rec.Type)
		require.NotNil(t, rec.Notes)
		assert.Equal(t, AutomaticNotes, *rec.Notes)
		assert.True(t, rec.ReconciledAt.Equal(fixedNow))

		tx := h.reload(t, id)
		assert.True(t, tx.AutoReconciled)
		assert.False(t, tx.RequiresManualReview)
		assert.Nil(t, tx.ReviewReason)
	}

	pending := h.reload(t, p.ID)
	assert.False(t, pending.AutoReconciled)
	assert.True(t, pending.RequiresManualReview)
	require.NotNil(t, pending.ReviewReason)
	assert.Equal(t, NoMatchReason, *pending.ReviewReason)

	var events []models.OutboxEvent
	require.NoError(t, h.db.Find(&events).Error)
	byType := map[enums.OutboxEventType]int{}
	for _, e := range events {
		byType[e.EventType]++
	}
	assert.Equal(t, 2, byType[enums.EventTransactionReconciled])
	assert.Equal(t, 1, byType[enums.EventTransactionFlaggedForReview])
}

func TestReconcileAccountIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-48*time.Hour))

	first, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Reconciled)
	records := h.count(t, &models.Reconciliation{})
	events := h.count(t, &models.OutboxEvent{})

	second, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Zero(t, second.Reconciled)
	assert.Zero(t, second.NeedsReview)
	assert.Empty(t, second.Details)
	assert.Equal(t, records, h.count(t, &models.Reconciliation{}))
	assert.Equal(t, events, h.count(t, &models.OutboxEvent{}))
}

func TestReconcileAccountLeavesFlaggedTransactionsAlone(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-48*time.Hour))
	pending := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusPending, fixedNow.Add(-24*time.Hour))

	first, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Reconciled)
	assert.Equal(t, 1, first.NeedsReview)
	events := h.count(t, &models.OutboxEvent{})
	assert.Equal(t, int64(2), events)

	second, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Zero(t, second.Reconciled)
	assert.Zero(t, second.NeedsReview)
	assert.Equal(t, 1, second.AlreadyInReview)
	assert.Empty(t, second.Details)
	assert.Equal(t, events, h.count(t, &models.OutboxEvent{}))

	tx := h.reload(t, pending.ID)
	assert.True(t, tx.RequiresManualReview)
	require.NotNil(t, tx.ReviewReason)
	assert.Equal(t, NoMatchReason, *tx.ReviewReason)
}

func TestReconcileAccountMatchesPreviouslyFlaggedTransaction(t *testing.T) {
	h := newHarness(t, nil)
	bank := repotest.BankAccount(t, h.db, false)
	acc := h.account(t, enums.AccountStatusActive)
	txn := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow)

	first, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NeedsReview)

	require.NoError(t, h.db.Model(bank).Update("active", true).Error)

	second, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Reconciled)
	assert.Zero(t, second.AlreadyInReview)

	reloaded := h.reload(t, txn.ID)
	assert.True(t, reloaded.AutoReconciled)
	assert.False(t, reloaded.RequiresManualReview)
	assert.Nil(t, reloaded.ReviewReason)
}

// racingTransactions hands out the unreconciled list and then lets a
// competing writer run before the caller acts on it.
type racingTransactions struct {
	transactions.Repository
	race func([]models.Transaction)
}

func (r racingTransactions) FindUnreconciled(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.Repository.FindUnreconciled(ctx, accountID)
	if err == nil {
		r.race(rows)
	}
	return rows, err
}

// cancellingRunner cancels the run once the given number of transactions
// have committed.
type cancellingRunner struct {
	inner  txRunner
	cancel context.CancelFunc
	after  int
	calls  int
}

func (c *cancellingRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := c.inner.WithTx(ctx, fn)
	c.calls++
	if c.calls == c.after {
		c.cancel()
	}
	return err
}

func (h harness) serviceWith(t *testing.T, runner txRunner, txs transactions.Repository) Service {
	t.Helper()
	if runner == nil {
		runner = db.NewFromConn(h.db)
	}
	if txs == nil {
		txs = transactions.NewRepository(h.db)
	}
	svc, err := NewService(ServiceParams{
		Logger:       logger.Nop(),
		DB:           runner,
		Accounts:     accounts.NewRepository(h.db),
		Transactions: txs,
		BankAccounts: bankaccounts.NewRepository(h.db),
		Records:      NewRepository(h.db),
		Outbox:       outbox.NewService(outbox.NewRepository(h.db), logger.Nop()),
		Metrics:      h.metrics,
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func TestReconcileAccountKeepsConcurrentWinner(t *testing.T) {
	h := newHarness(t, nil)
	bank := repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	txn := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow)

	winner := func(rows []models.Transaction) {
		for _, row := range rows {
			require.NoError(t, NewRepository(h.db).Create(context.Background(), &models.Reconciliation{
				TransactionID: row.ID,
				BankAccountID: bank.ID,
				Amount:        row.NetAmount,
				ReconciledAt:  fixedNow,
				Type:          enums.ReconciliationTypeAutomatic,
			}))
			require.NoError(t, transactions.NewRepository(h.db).UpdateFlags(context.Background(), row.ID,
				transactions.Flags{AutoReconciled: true}))
		}
	}
	svc := h.serviceWith(t, nil, racingTransactions{Repository: transactions.NewRepository(h.db), race: winner})

	res, err := svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Reconciled)
	assert.Zero(t, res.NeedsReview)
	require.Len(t, res.Details, 1)
	assert.Equal(t, DetailConflict, res.Details[0].Status)
	assert.Equal(t, ConflictMotivo, res.Details[0].Reason)

	reloaded := h.reload(t, txn.ID)
	assert.True(t, reloaded.AutoReconciled)
	assert.False(t, reloaded.RequiresManualReview)
	assert.Nil(t, reloaded.ReviewReason)
	assert.Equal(t, int64(1), h.count(t, &models.Reconciliation{}))
	assert.Zero(t, h.count(t, &models.OutboxEvent{}))
}

func TestReconcileAccountReturnsPartialResultOnCancel(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-2*time.Hour))
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := &cancellingRunner{inner: db.NewFromConn(h.db), cancel: cancel, after: 1}
	svc := h.serviceWith(t, runner, nil)

	res, err := svc.ReconcileAccount(ctx, acc.ID)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Reconciled)
	require.Len(t, res.Details, 1)
	assert.Equal(t, DetailReconciled, res.Details[0].Status)
	assert.Equal(t, int64(1), h.count(t, &models.Reconciliation{}))
}

func TestReconcileAllAccountsKeepsPartialCountsOnCancel(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-2*time.Hour))
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := h.serviceWith(t, &cancellingRunner{inner: db.NewFromConn(h.db), cancel: cancel, after: 1}, nil)

	batch, err := svc.ReconcileAllAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.AccountsProcessed)
	assert.Equal(t, 1, batch.AccountsFailed)
	assert.Equal(t, 1, batch.Reconciled)
	require.Len(t, batch.Accounts, 1)
	assert.Equal(t, 1, batch.Accounts[0].Reconciled)
	assert.Equal(t, context.Canceled.Error(), batch.Accounts[0].Error)
}

func TestReconcileAccountWithoutBankAccountFlagsEverything(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, false)
	acc := h.account(t, enums.AccountStatusActive)
	for i := 0; i < 3; i++ {
		repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-time.Duration(i)*time.Hour))
	}

	res, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Reconciled)
	assert.Equal(t, 3, res.NeedsReview)
	for _, d := range res.Details {
		assert.Equal(t, DetailReview, d.Status)
	}
	assert.Zero(t, h.count(t, &models.Reconciliation{}))
}

func TestReconcileAccountRejectsMissingAndInactiveAccounts(t *testing.T) {
	h := newHarness(t, nil)
	inactive := h.account(t, enums.AccountStatusInactive)
	suspended := h.account(t, enums.AccountStatusSuspended)

	_, err := h.svc.ReconcileAccount(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)

	for _, acc := range []*models.MarketplaceAccount{inactive, suspended} {
		_, err = h.svc.ReconcileAccount(context.Background(), acc.ID)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "got %v", err)
	}
}

func TestReconcileAccountAbsorbsPerTransactionFailures(t *testing.T) {
	h := newHarness(t, func(inner *outbox.Service) outboxPublisher {
		return &failingOutbox{inner: inner, failFor: enums.EventTransactionReconciled}
	})
	repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	approved := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow.Add(-2*time.Hour))
	pending := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusPending, fixedNow.Add(-time.Hour))

	res, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Reconciled)
	assert.Equal(t, 2, res.NeedsReview)

	require.Len(t, res.Details, 2)
	assert.Equal(t, pending.ID, res.Details[0].TransactionID)
	assert.Equal(t, NoMatchMotivo, res.Details[0].Reason)
	failed := res.Details[1]
	assert.Equal(t, approved.ID, failed.TransactionID)
	assert.Equal(t, DetailReview, failed.Status)
	assert.Equal(t, ErrorMotivo, failed.Reason)
	assert.Equal(t, "outbox unavailable", failed.Error)

	// the whole unit rolled back
	assert.Zero(t, h.count(t, &models.Reconciliation{}))
	tx := h.reload(t, approved.ID)
	assert.False(t, tx.AutoReconciled)
	assert.True(t, tx.RequiresManualReview)
	require.NotNil(t, tx.ReviewReason)
	assert.Equal(t, "outbox unavailable", *tx.ReviewReason)

	mfs, err := h.registry.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "reconciliation_outcomes_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			outcomes[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, outcomes[metrics.OutcomeError])
	assert.Equal(t, 1.0, outcomes[metrics.OutcomeReview])
}

func TestReconcileAllAccounts(t *testing.T) {
	h := newHarness(t, nil)
	repotest.BankAccount(t, h.db, true)
	closedMarket := repotest.Marketplace(t, h.db, "Shopee", false)

	first := h.account(t, enums.AccountStatusActive)
	second := h.account(t, enums.AccountStatusActive)
	skipped := h.account(t, enums.AccountStatusInactive)
	closed := repotest.Account(t, h.db, closedMarket.ID, enums.AccountStatusActive)

	repotest.Transaction(t, h.db, first.ID, enums.TransactionStatusApproved, fixedNow)
	repotest.Transaction(t, h.db, first.ID, enums.TransactionStatusCancelled, fixedNow)
	repotest.Transaction(t, h.db, second.ID, enums.TransactionStatusApproved, fixedNow)
	repotest.Transaction(t, h.db, second.ID, enums.TransactionStatusApproved, fixedNow.Add(time.Hour))
	repotest.Transaction(t, h.db, skipped.ID, enums.TransactionStatusApproved, fixedNow)
	repotest.Transaction(t, h.db, closed.ID, enums.TransactionStatusApproved, fixedNow)

	batch, err := h.svc.ReconcileAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, batch.AccountsProcessed, "active accounts on closed marketplaces still reconcile")
	assert.Zero(t, batch.AccountsFailed)
	assert.Equal(t, 4, batch.Reconciled)
	assert.Equal(t, 1, batch.NeedsReview)
	require.Len(t, batch.Accounts, 3)

	byID := map[uuid.UUID]AccountOutcome{}
	for _, o := range batch.Accounts {
		byID[o.AccountID] = o
	}
	assert.Equal(t, "Amazon", byID[first.ID].MarketplaceName)
	assert.Equal(t, 1, byID[first.ID].Reconciled)
	assert.Equal(t, 1, byID[first.ID].NeedsReview)
	assert.Equal(t, 2, byID[second.ID].Reconciled)
	assert.Equal(t, "Shopee", byID[closed.ID].MarketplaceName)
	assert.Equal(t, 1, byID[closed.ID].Reconciled)
	_, seen := byID[skipped.ID]
	assert.False(t, seen)
	assert.Equal(t, int64(4), h.count(t, &models.Reconciliation{}))
}

func TestListPendingReview(t *testing.T) {
	h := newHarness(t, nil)
	acc := h.account(t, enums.AccountStatusActive)
	repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusPending, fixedNow)

	empty, err := h.svc.ListPendingReview(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)

	items, err := h.svc.ListPendingReview(context.Background(), &acc.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Amazon", items[0].MarketplaceName)
}

func TestReconcileManually(t *testing.T) {
	h := newHarness(t, nil)
	bank := repotest.BankAccount(t, h.db, false)
	acc := h.account(t, enums.AccountStatusActive)
	tx := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusApproved, fixedNow)

	_, err := h.svc.ReconcileAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	require.True(t, h.reload(t, tx.ID).RequiresManualReview)

	notes := "confirmed on statement"
	rec, err := h.svc.ReconcileManually(context.Background(), ManualInput{
		TransactionID: tx.ID,
		BankAccountID: bank.ID,
		Amount:        decimal.RequireFromString("79.60"),
		Notes:         &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ReconciliationTypeManual, rec.Type)
	assert.True(t, rec.ReconciledAt.Equal(fixedNow))

	reloaded := h.reload(t, tx.ID)
	assert.False(t, reloaded.RequiresManualReview)
	assert.Nil(t, reloaded.ReviewReason)

	pending, err := h.svc.ListPendingReview(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = h.svc.ReconcileManually(context.Background(), ManualInput{
		TransactionID: tx.ID,
		BankAccountID: bank.ID,
		Amount:        decimal.NewFromInt(1),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestReconcileManuallyErrors(t *testing.T) {
	h := newHarness(t, nil)
	bank := repotest.BankAccount(t, h.db, true)
	acc := h.account(t, enums.AccountStatusActive)
	tx := repotest.Transaction(t, h.db, acc.ID, enums.TransactionStatusPending, fixedNow)

	cases := []struct {
		name  string
		input ManualInput
		code  pkgerrors.Code
	}{
		{name: "zero amount", input: ManualInput{TransactionID: tx.ID, BankAccountID: bank.ID}, code: pkgerrors.CodeValidation},
		{name: "negative amount", input: ManualInput{TransactionID: tx.ID, BankAccountID: bank.ID, Amount: decimal.NewFromInt(-5)}, code: pkgerrors.CodeValidation},
		{name: "missing ids", input: ManualInput{Amount: decimal.NewFromInt(5)}, code: pkgerrors.CodeValidation},
		{name: "unknown transaction", input: ManualInput{TransactionID: uuid.New(), BankAccountID: bank.ID, Amount: decimal.NewFromInt(5)}, code: pkgerrors.CodeNotFound},
		{name: "unknown bank account", input: ManualInput{TransactionID: tx.ID, BankAccountID: uuid.New(), Amount: decimal.NewFromInt(5)}, code: pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.ReconcileManually(context.Background(), tc.input)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}
	assert.Zero(t, h.count(t, &models.Reconciliation{}))
}
