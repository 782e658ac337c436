package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketrecon-backend/api/responses"
	"github.com/angelmondragon/marketrecon-backend/api/validators"
	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

// ListMarketplaces returns active marketplaces with their fee schedules.
func ListMarketplaces(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketplaces service unavailable"))
			return
		}
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func GetMarketplace(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketplaces service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "marketplaceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
