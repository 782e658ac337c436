package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// RunKindReconcileAll tags rows written by the global reconciliation job.
const RunKindReconcileAll = "reconcile_all"

// RunRow mirrors the reconciliation_runs BigQuery schema.
type RunRow struct {
	RunID             string             `bigquery:"run_id"`
	Kind              string             `bigquery:"kind"`
	StartedAt         time.Time          `bigquery:"started_at"`
	FinishedAt        time.Time          `bigquery:"finished_at"`
	DurationMS        int64              `bigquery:"duration_ms"`
	AccountsProcessed int64              `bigquery:"accounts_processed"`
	AccountsFailed    int64              `bigquery:"accounts_failed"`
	Reconciled        int64              `bigquery:"reconciled"`
	NeedsReview       int64              `bigquery:"needs_review"`
	Details           cbigquery.NullJSON `bigquery:"details"`
}
