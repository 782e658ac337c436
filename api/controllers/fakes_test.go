package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/internal/batchsync"
	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	"github.com/angelmondragon/marketrecon-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// newRequest builds a request carrying chi URL params so handlers can be
// invoked without a router.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type testMarketplacesService struct {
	listFn func(ctx context.Context) ([]marketplaces.Summary, error)
	getFn  func(ctx context.Context, id uuid.UUID) (*marketplaces.Summary, error)
}

func (s *testMarketplacesService) ListActive(ctx context.Context) ([]marketplaces.Summary, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testMarketplacesService) Get(ctx context.Context, id uuid.UUID) (*marketplaces.Summary, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

type testAccountsService struct {
	createFn func(ctx context.Context, input accounts.CreateInput) (*models.MarketplaceAccount, error)
	listFn   func(ctx context.Context) ([]accounts.AccountSummary, error)
}

func (s *testAccountsService) Create(ctx context.Context, input accounts.CreateInput) (*models.MarketplaceAccount, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testAccountsService) List(ctx context.Context) ([]accounts.AccountSummary, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

type testTransactionsService struct {
	listFn func(ctx context.Context, filter transactions.Filter, params pagination.Params) (*transactions.ListResult, error)
	getFn  func(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

func (s *testTransactionsService) List(ctx context.Context, filter transactions.Filter, params pagination.Params) (*transactions.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, params)
	}
	return &transactions.ListResult{}, nil
}

func (s *testTransactionsService) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

type testSyncService struct {
	byAccountFn     func(ctx context.Context, accountID uuid.UUID, quantity int) batchsync.Result
	byMarketplaceFn func(ctx context.Context, marketplaceID uuid.UUID, quantity int) batchsync.Result
	allFn           func(ctx context.Context, quantity int) batchsync.Result
	purgeFn         func(ctx context.Context, accountID *uuid.UUID) (int64, error)
}

func (s *testSyncService) SyncByAccount(ctx context.Context, accountID uuid.UUID, quantity int) batchsync.Result {
	if s.byAccountFn != nil {
		return s.byAccountFn(ctx, accountID, quantity)
	}
	return batchsync.Result{Success: true}
}

func (s *testSyncService) SyncByMarketplace(ctx context.Context, marketplaceID uuid.UUID, quantity int) batchsync.Result {
	if s.byMarketplaceFn != nil {
		return s.byMarketplaceFn(ctx, marketplaceID, quantity)
	}
	return batchsync.Result{Success: true}
}

func (s *testSyncService) SyncAll(ctx context.Context, quantity int) batchsync.Result {
	if s.allFn != nil {
		return s.allFn(ctx, quantity)
	}
	return batchsync.Result{Success: true}
}

func (s *testSyncService) PurgeTransactions(ctx context.Context, accountID *uuid.UUID) (int64, error) {
	if s.purgeFn != nil {
		return s.purgeFn(ctx, accountID)
	}
	return 0, nil
}

type testReconciliationService struct {
	accountFn func(ctx context.Context, accountID uuid.UUID) (*reconciliation.AccountResult, error)
	allFn     func(ctx context.Context) (*reconciliation.BatchResult, error)
	pendingFn func(ctx context.Context, accountID *uuid.UUID) ([]transactions.PendingReviewItem, error)
	manualFn  func(ctx context.Context, input reconciliation.ManualInput) (*models.Reconciliation, error)
}

func (s *testReconciliationService) ReconcileAccount(ctx context.Context, accountID uuid.UUID) (*reconciliation.AccountResult, error) {
	if s.accountFn != nil {
		return s.accountFn(ctx, accountID)
	}
	return &reconciliation.AccountResult{AccountID: accountID}, nil
}

func (s *testReconciliationService) ReconcileAllAccounts(ctx context.Context) (*reconciliation.BatchResult, error) {
	if s.allFn != nil {
		return s.allFn(ctx)
	}
	return &reconciliation.BatchResult{}, nil
}

func (s *testReconciliationService) ListPendingReview(ctx context.Context, accountID *uuid.UUID) ([]transactions.PendingReviewItem, error) {
	if s.pendingFn != nil {
		return s.pendingFn(ctx, accountID)
	}
	return []transactions.PendingReviewItem{}, nil
}

func (s *testReconciliationService) ReconcileManually(ctx context.Context, input reconciliation.ManualInput) (*models.Reconciliation, error) {
	if s.manualFn != nil {
		return s.manualFn(ctx, input)
	}
	return &models.Reconciliation{}, nil
}
