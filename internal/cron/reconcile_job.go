package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketrecon-backend/internal/analytics"
	"github.com/angelmondragon/marketrecon-backend/internal/analytics/types"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

type batchReconciler interface {
	ReconcileAllAccounts(ctx context.Context) (*reconciliation.BatchResult, error)
}

type runSink interface {
	InsertRun(ctx context.Context, row types.RunRow) error
}

type ReconcileJobParams struct {
	Logger     *logger.Logger
	Reconciler batchReconciler
	// Sink is optional. When set, every run summary is written to it.
	Sink runSink
}

// NewReconcileJob runs automatic reconciliation over every active account.
// Accounts that fail are reported together as the job error; the others
// keep their results.
func NewReconcileJob(params ReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciliation service required")
	}
	return &reconcileJob{
		logg:  params.Logger,
		svc:   params.Reconciler,
		sink:  params.Sink,
		newID: uuid.New,
	}, nil
}

type reconcileJob struct {
	logg  *logger.Logger
	svc   batchReconciler
	sink  runSink
	newID func() uuid.UUID
}

func (j *reconcileJob) Name() string { return "reconcile-all-accounts" }

func (j *reconcileJob) Run(ctx context.Context) error {
	res, err := j.svc.ReconcileAllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("reconcile all accounts: %w", err)
	}

	runID := j.newID()
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"run_id":             runID.String(),
		"accounts_processed": res.AccountsProcessed,
		"accounts_failed":    res.AccountsFailed,
		"reconciled":         res.Reconciled,
		"needs_review":       res.NeedsReview,
		"already_in_review":  res.AlreadyInReview,
	}), "reconcile run summary")

	var errs error
	for _, outcome := range res.Accounts {
		if outcome.Error != "" {
			errs = multierr.Append(errs, fmt.Errorf("account %s: %s", outcome.AccountID, outcome.Error))
		}
	}

	if j.sink != nil {
		row, err := analytics.ReconcileRunRow(runID, *res)
		if err == nil {
			err = j.sink.InsertRun(ctx, row)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("write run summary: %w", err))
		}
	}
	return errs
}
