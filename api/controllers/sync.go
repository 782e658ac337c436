package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/marketrecon-backend/api/responses"
	"github.com/angelmondragon/marketrecon-backend/api/validators"
	"github.com/angelmondragon/marketrecon-backend/internal/batchsync"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

// Sync results are written as-is, without the data envelope, so clients see
// the same success/error shape regardless of HTTP status.

func SyncAccount(svc batchsync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, ok := parseQuantity(r)
		if !ok {
			writeSyncResult(w, batchsync.InvalidQuantity())
			return
		}
		writeSyncResult(w, svc.SyncByAccount(r.Context(), id, qty))
	}
}

func SyncMarketplace(svc batchsync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "marketplaceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, ok := parseQuantity(r)
		if !ok {
			writeSyncResult(w, batchsync.InvalidQuantity())
			return
		}
		writeSyncResult(w, svc.SyncByMarketplace(r.Context(), id, qty))
	}
}

func SyncAll(svc batchsync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}
		qty, ok := parseQuantity(r)
		if !ok {
			writeSyncResult(w, batchsync.InvalidQuantity())
			return
		}
		writeSyncResult(w, svc.SyncAll(r.Context(), qty))
	}
}

// parseQuantity returns 0 (service default) when the parameter is absent.
// Range checks stay in the service so every entry point shares them.
func parseQuantity(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("quantity"))
	if raw == "" {
		return 0, true
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return qty, true
}

func writeSyncResult(w http.ResponseWriter, res batchsync.Result) {
	responses.WriteRaw(w, syncStatus(res), res)
}

func syncStatus(res batchsync.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Error {
	case batchsync.ErrAccountNotFound, batchsync.ErrMarketplaceNotFound:
		return http.StatusNotFound
	case batchsync.ErrInvalidQuantity:
		return http.StatusBadRequest
	case batchsync.ErrAccountInactive, batchsync.ErrNoActiveAccount, batchsync.ErrNoActiveMarketplace:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
