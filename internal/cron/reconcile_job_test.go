package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketrecon-backend/internal/analytics/types"
	"github.com/angelmondragon/marketrecon-backend/internal/reconciliation"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
)

type fakeReconciler struct {
	result *reconciliation.BatchResult
	err    error
	calls  int
}

func (f *fakeReconciler) ReconcileAllAccounts(context.Context) (*reconciliation.BatchResult, error) {
	f.calls++
	return f.result, f.err
}

type recordingSink struct {
	rows []types.RunRow
	err  error
}

func (s *recordingSink) InsertRun(_ context.Context, row types.RunRow) error {
	s.rows = append(s.rows, row)
	return s.err
}

func newReconcileJobForTest(t *testing.T, svc batchReconciler, sink runSink) *reconcileJob {
	t.Helper()
	params := ReconcileJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Reconciler: svc,
	}
	if sink != nil {
		params.Sink = sink
	}
	job, err := NewReconcileJob(params)
	require.NoError(t, err)
	return job.(*reconcileJob)
}

func batchResult(accounts ...reconciliation.AccountOutcome) *reconciliation.BatchResult {
	started := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	res := &reconciliation.BatchResult{
		Accounts:   accounts,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}
	for _, a := range accounts {
		if a.Error != "" {
			res.AccountsFailed++
			continue
		}
		res.AccountsProcessed++
		res.Reconciled += a.Reconciled
		res.NeedsReview += a.NeedsReview
	}
	return res
}

func TestReconcileJobWritesRunSummary(t *testing.T) {
	svc := &fakeReconciler{result: batchResult(
		reconciliation.AccountOutcome{AccountID: uuid.New(), Reconciled: 3, NeedsReview: 1},
		reconciliation.AccountOutcome{AccountID: uuid.New(), Reconciled: 2},
	)}
	sink := &recordingSink{}
	job := newReconcileJobForTest(t, svc, sink)
	runID := uuid.New()
	job.newID = func() uuid.UUID { return runID }

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	assert.Equal(t, runID.String(), row.RunID)
	assert.Equal(t, types.RunKindReconcileAll, row.Kind)
	assert.EqualValues(t, 2, row.AccountsProcessed)
	assert.EqualValues(t, 5, row.Reconciled)
	assert.EqualValues(t, 1, row.NeedsReview)
	assert.EqualValues(t, 1500, row.DurationMS)
}

func TestReconcileJobCombinesAccountFailures(t *testing.T) {
	svc := &fakeReconciler{result: batchResult(
		reconciliation.AccountOutcome{AccountID: uuid.New(), Reconciled: 1},
		reconciliation.AccountOutcome{AccountID: uuid.New(), Error: "load unreconciled transactions: timeout"},
		reconciliation.AccountOutcome{AccountID: uuid.New(), Error: "load active bank account: timeout"},
	)}
	sink := &recordingSink{}
	job := newReconcileJobForTest(t, svc, sink)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	require.Len(t, sink.rows, 1, "summary is still written when accounts fail")
	assert.EqualValues(t, 2, sink.rows[0].AccountsFailed)
}

func TestReconcileJobWithoutSink(t *testing.T) {
	svc := &fakeReconciler{result: batchResult()}
	job := newReconcileJobForTest(t, svc, nil)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, svc.calls)
}

func TestReconcileJobErrors(t *testing.T) {
	job := newReconcileJobForTest(t, &fakeReconciler{err: errors.New("db down")}, nil)
	assert.ErrorContains(t, job.Run(context.Background()), "db down")

	sink := &recordingSink{err: errors.New("quota exceeded")}
	job = newReconcileJobForTest(t, &fakeReconciler{result: batchResult()}, sink)
	assert.ErrorContains(t, job.Run(context.Background()), "write run summary")
}

func TestNewReconcileJobValidation(t *testing.T) {
	_, err := NewReconcileJob(ReconcileJobParams{})
	assert.Error(t, err)
	_, err = NewReconcileJob(ReconcileJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
}
