package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/api/responses"
	"github.com/angelmondragon/marketrecon-backend/api/validators"
	"github.com/angelmondragon/marketrecon-backend/internal/accounts"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

type createAccountRequest struct {
	MarketplaceID uuid.UUID           `json:"marketplaceId" validate:"required"`
	SellerID      string              `json:"sellerId" validate:"required,max=120"`
	Name          string              `json:"name" validate:"max=200"`
	Credentials   json.RawMessage     `json:"credentials"`
	Status        enums.AccountStatus `json:"status"`
}

func ListAccounts(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CreateAccount registers a seller account on a marketplace.
func CreateAccount(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		var req createAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Create(r.Context(), accounts.CreateInput{
			MarketplaceID: req.MarketplaceID,
			SellerID:      validators.SanitizeString(req.SellerID, 120),
			Name:          validators.SanitizeString(req.Name, 200),
			Credentials:   req.Credentials,
			Status:        req.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, account)
	}
}
