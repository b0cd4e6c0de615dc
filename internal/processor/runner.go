package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"multi-unit-enrichment/internal/datastore"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/internal/notify"
	"multi-unit-enrichment/internal/retry"
	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/pkg/logging"
)

// JobRunner walks the datastore view and processes records one at a time,
// in view order, with a fixed pause between records. At most one run is
// active at a time.
type JobRunner struct {
	store    datastore.Store
	proc     *RecordProcessor
	ledger   *retry.Ledger
	notifier notify.Notifier
	delay    time.Duration
	log      *logging.Logger

	mu sync.Mutex
}

func NewJobRunner(
	store datastore.Store,
	proc *RecordProcessor,
	ledger *retry.Ledger,
	notifier notify.Notifier,
	delay time.Duration,
	log *logging.Logger,
) *JobRunner {
	return &JobRunner{
		store:    store,
		proc:     proc,
		ledger:   ledger,
		notifier: notifier,
		delay:    delay,
		log:      log.WithComponent("runner"),
	}
}

// Run processes every record in the view. It returns an error only when
// the run could not start (overlap, listing failure, cancellation);
// individual record failures land in the summary.
func (r *JobRunner) Run(ctx context.Context) (models.JobSummary, error) {
	if !r.mu.TryLock() {
		return models.JobSummary{}, apperrors.NewBiz("runner.Run", "a job run is already in progress", nil)
	}
	defer r.mu.Unlock()

	started := time.Now()
	records, err := r.store.List(ctx)
	if err != nil {
		return models.JobSummary{}, err
	}

	r.log.Info("job run started", logging.Int("records", len(records)))

	var summary models.JobSummary
	var exhausted []models.UnitRecord

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			r.log.Warn("job run cancelled", logging.Int("processed", i))
			break
		}

		res := r.processSafely(ctx, rec)
		summary.Total++
		switch res.Status {
		case StatusWritten:
			summary.Success++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
		if res.NewlyExhausted {
			exhausted = append(exhausted, rec)
		}

		if i < len(records)-1 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
			}
		}
	}

	if len(exhausted) > 0 {
		r.notifier.NotifyExhausted(ctx, exhausted)
	}

	r.log.Info("job run finished",
		logging.Int("total", summary.Total),
		logging.Int("success", summary.Success),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", time.Since(started)))
	return summary, nil
}

// RunRecord processes a single record on demand, bypassing the view walk
// but not the retry ledger.
func (r *JobRunner) RunRecord(ctx context.Context, id string) (Result, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}

	res := r.processSafely(ctx, rec)
	if res.NewlyExhausted {
		r.notifier.NotifyExhausted(ctx, []models.UnitRecord{rec})
	}
	return res, nil
}

// ShouldRun samples the view and reports whether any record is still
// eligible, so a scheduled tick can bail out without a full walk.
func (r *JobRunner) ShouldRun(ctx context.Context) bool {
	sample, err := r.store.Sample(ctx, 10)
	if err != nil {
		r.log.Warn("pre-run sample failed, running anyway", logging.String("reason", err.Error()))
		return true
	}
	if len(sample) == 0 {
		return false
	}
	for _, rec := range sample {
		if r.ledger.CanAttempt(rec.ID) {
			return true
		}
	}
	r.log.Debug("every sampled record is exhausted, skipping run")
	return false
}

// processSafely confines a panic in one record's processing to that
// record, counting it as a transient failure.
func (r *JobRunner) processSafely(ctx context.Context, rec models.UnitRecord) (res Result) {
	defer func() {
		if rv := recover(); rv != nil {
			err := apperrors.NewBiz("runner.process", fmt.Sprintf("panic: %v", rv), nil)
			r.log.Error("record processing panicked", err, logging.String("record_id", rec.ID))
			exhausted := r.ledger.Record(rec.ID, false, false)
			res = Result{Status: StatusFailed, Err: err, NewlyExhausted: exhausted}
		}
	}()
	return r.proc.Process(ctx, rec)
}
