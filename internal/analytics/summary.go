// Package analytics turns batch run results into BigQuery rows.
package analytics

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/internal/analytics/types"
	"github.com/angelmondragon/marketrecon-backend/internal/analytics/writer"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
)

// ReconcileRunRow summarizes one reconcile-all run. Per-account outcomes go
// into the details column.
func ReconcileRunRow(runID uuid.UUID, res reconciliation.BatchResult) (types.RunRow, error) {
	details, err := writer.EncodeJSON(res.Accounts)
	if err != nil {
		return types.RunRow{}, err
	}
	return types.RunRow{
		RunID:             runID.String(),
		Kind:              types.RunKindReconcileAll,
		StartedAt:         res.StartedAt,
		FinishedAt:        res.FinishedAt,
		DurationMS:        res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
		AccountsProcessed: int64(res.AccountsProcessed),
		AccountsFailed:    int64(res.AccountsFailed),
		Reconciled:        int64(res.Reconciled),
		NeedsReview:       int64(res.NeedsReview),
		Details:           details,
	}, nil
}
