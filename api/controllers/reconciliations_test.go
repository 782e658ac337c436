package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/internal/transactions"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
)

func TestCreateManualReconciliation(t *testing.T) {
	txID := uuid.New()
	bankID := uuid.New()
	var got reconciliation.ManualInput
	svc := &testReconciliationService{
		manualFn: func(_ context.Context, input reconciliation.ManualInput) (*models.Reconciliation, error) {
			got = input
			return &models.Reconciliation{ID: uuid.New(), TransactionID: input.TransactionID}, nil
		},
	}

	body := `{"transactionId":"` + txID.String() + `","bankAccountId":"` + bankID.String() + `","amount":"149.90","reconciledAt":"2026-03-10T12:00:00Z","notes":"conferido"}`
	resp := httptest.NewRecorder()
	CreateManualReconciliation(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/reconciliations", body, nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.TransactionID != txID || got.BankAccountID != bankID {
		t.Fatalf("unexpected ids %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("149.90")) {
		t.Fatalf("unexpected amount %s", got.Amount)
	}
	if !got.ReconciledAt.Equal(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reconciledAt %v", got.ReconciledAt)
	}
	if got.Notes == nil || *got.Notes != "conferido" {
		t.Fatalf("unexpected notes %v", got.Notes)
	}
}

func TestCreateManualReconciliationErrors(t *testing.T) {
	txID := uuid.NewString()
	bankID := uuid.NewString()
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"zero amount", `{"transactionId":"` + txID + `","bankAccountId":"` + bankID + `","amount":0}`, nil, http.StatusBadRequest},
		{"negative amount", `{"transactionId":"` + txID + `","bankAccountId":"` + bankID + `","amount":-5}`, nil, http.StatusBadRequest},
		{"missing bank", `{"transactionId":"` + txID + `","amount":10}`, nil, http.StatusBadRequest},
		{"not found", `{"transactionId":"` + txID + `","bankAccountId":"` + bankID + `","amount":10}`, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found"), http.StatusNotFound},
		{"already reconciled", `{"transactionId":"` + txID + `","bankAccountId":"` + bankID + `","amount":10}`, pkgerrors.New(pkgerrors.CodeConflict, "transaction already reconciled"), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &testReconciliationService{
				manualFn: func(context.Context, reconciliation.ManualInput) (*models.Reconciliation, error) {
					if tc.err == nil {
						t.Fatal("service should not be called")
					}
					return nil, tc.err
				},
			}
			resp := httptest.NewRecorder()
			CreateManualReconciliation(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/reconciliations", tc.body, nil))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestReconcileAccountMapsErrors(t *testing.T) {
	accountID := uuid.New()
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"missing", pkgerrors.New(pkgerrors.CodeNotFound, "marketplace account not found"), http.StatusNotFound},
		{"inactive", pkgerrors.New(pkgerrors.CodeStateConflict, "marketplace account is INACTIVE"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &testReconciliationService{
				accountFn: func(_ context.Context, id uuid.UUID) (*reconciliation.AccountResult, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &reconciliation.AccountResult{AccountID: id, Reconciled: 2}, nil
				},
			}
			resp := httptest.NewRecorder()
			ReconcileAccount(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/reconciliations/accounts/"+accountID.String()+"/run", "", map[string]string{"accountId": accountID.String()}))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestListPendingReviewFiltersByAccount(t *testing.T) {
	accountID := uuid.New()
	var got *uuid.UUID
	svc := &testReconciliationService{
		pendingFn: func(_ context.Context, id *uuid.UUID) ([]transactions.PendingReviewItem, error) {
			got = id
			return []transactions.PendingReviewItem{}, nil
		},
	}
	resp := httptest.NewRecorder()
	ListPendingReview(svc, testLogger())(resp, newRequest(http.MethodGet, "/api/reconciliations/pending?accountId="+accountID.String(), "", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got == nil || *got != accountID {
		t.Fatalf("unexpected account filter %v", got)
	}
}

func TestReconcileAll(t *testing.T) {
	svc := &testReconciliationService{
		allFn: func(context.Context) (*reconciliation.BatchResult, error) {
			return &reconciliation.BatchResult{AccountsProcessed: 2, Reconciled: 5}, nil
		},
	}
	resp := httptest.NewRecorder()
	ReconcileAll(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/reconciliations/run", "", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
