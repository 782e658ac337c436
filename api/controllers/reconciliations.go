package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/api/responses"
	"github.com/angelmondragon/marketrecon-backend/api/validators"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

type manualReconciliationRequest struct {
	TransactionID uuid.UUID       `json:"transactionId" validate:"required"`
	BankAccountID uuid.UUID       `json:"bankAccountId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required,gt=0"`
	ReconciledAt  *time.Time      `json:"reconciledAt"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

// ReconcileAccount runs automatic matching for one account.
func ReconcileAccount(svc reconciliation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reconciliation service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.ReconcileAccount(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

// ReconcileAll runs automatic matching for every active account.
func ReconcileAll(svc reconciliation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reconciliation service unavailable"))
			return
		}
		res, err := svc.ReconcileAllAccounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func ListPendingReview(svc reconciliation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reconciliation service unavailable"))
			return
		}
		accountID, err := validators.ParseQueryUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListPendingReview(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CreateManualReconciliation records an operator-confirmed settlement.
func CreateManualReconciliation(svc reconciliation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reconciliation service unavailable"))
			return
		}

		var req manualReconciliationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := reconciliation.ManualInput{
			TransactionID: req.TransactionID,
			BankAccountID: req.BankAccountID,
			Amount:        req.Amount,
			Notes:         req.Notes,
		}
		if req.ReconciledAt != nil {
			input.ReconciledAt = *req.ReconciledAt
		}

		rec, err := svc.ReconcileManually(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}
