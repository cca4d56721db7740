// Package batch drives detect → build → resolve over whole row sets on a
// background goroutine, with per-row progress and cancellation of superseded
// runs.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
	"github.com/lebrazwesh/roadbook/internal/resolver"
)

// Persister is the checkpoint hook called after a batch completes, typically
// the geocode cache's Save.
type Persister interface {
	Save() error
}

// Runner launches geocoding jobs. Starting a new job cancels the previous
// one, so results from a superseded run are never delivered.
type Runner struct {
	resolver  *resolver.Resolver
	persister Persister
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu      sync.Mutex
	current *Job
	jobs    map[uuid.UUID]*Job
	ready   atomic.Bool
}

// NewRunner creates a Runner. persister may be nil to skip the
// post-batch cache checkpoint.
func NewRunner(res *resolver.Resolver, persister Persister, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		resolver:  res,
		persister: persister,
		logger:    logger,
		metrics:   metrics,
		jobs:      make(map[uuid.UUID]*Job),
	}
}

// Start launches a job over rows and returns immediately. Rows are processed
// strictly in input order; one progress update is emitted per row and the
// full ordered result slice exactly once on completion. An empty input
// produces a single placeholder result. Any running job is cancelled first.
func (r *Runner) Start(ctx context.Context, rows []domain.ContactRow) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:       uuid.New(),
		total:    len(rows),
		progress: make(chan Progress, len(rows)+1),
		results:  make(chan []domain.GeocodeResult, 1),
		cancel:   cancel,
		state:    StateRunning,
	}

	r.mu.Lock()
	if r.current != nil {
		r.current.Cancel()
	}
	r.current = job
	r.jobs[job.ID] = job
	r.mu.Unlock()

	go r.run(jobCtx, job, rows)
	return job
}

// Get returns a previously started job by ID.
func (r *Runner) Get(id uuid.UUID) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}

// CheckReadiness reports nil once at least one batch has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no geocoding batch completed yet")
	}
	return nil
}

func (r *Runner) run(ctx context.Context, job *Job, rows []domain.ContactRow) {
	defer close(job.progress)
	defer close(job.results)

	start := time.Now()
	r.metrics.BatchRunning.Set(1)
	defer r.metrics.BatchRunning.Set(0)
	r.metrics.BatchRows.Observe(float64(len(rows)))
	r.logger.Info("geocoding batch started", "job_id", job.ID, "rows", len(rows))

	results := make([]domain.GeocodeResult, 0, len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			job.setCancelled()
			r.logger.Info("geocoding batch cancelled", "job_id", job.ID, "done", i, "total", len(rows))
			return
		}

		results = append(results, r.resolveRow(ctx, row))
		r.metrics.RowsGeocoded.Inc()

		update := Progress{
			JobID:    job.ID,
			Done:     i + 1,
			Total:    len(rows),
			Fraction: float64(i+1) / float64(len(rows)),
		}
		job.setProgress(update)
		job.progress <- update
	}

	if len(results) == 0 {
		results = append(results, domain.PlaceholderResult())
	}

	if ctx.Err() != nil {
		job.setCancelled()
		r.logger.Info("geocoding batch cancelled", "job_id", job.ID, "done", len(rows), "total", len(rows))
		return
	}

	job.setFinished(results)
	job.results <- results
	r.ready.Store(true)
	r.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	r.logger.Info("geocoding batch finished",
		"job_id", job.ID,
		"rows", len(rows),
		"duration", time.Since(start),
	)

	if r.persister != nil {
		if err := r.persister.Save(); err != nil {
			r.logger.Error("geocode cache save failed", "job_id", job.ID, "error", err)
		}
	}
}

// resolveRow runs one row through the pipeline. A failure surfaces as a
// not-found result for that row only, never as a batch abort.
func (r *Runner) resolveRow(ctx context.Context, row domain.ContactRow) domain.GeocodeResult {
	addr := domain.Detect(row)
	queries := domain.BuildQueries(addr)

	result := domain.GeocodeResult{
		DisplayName: displayName(addr),
		NotFound:    true,
	}
	if len(queries) == 0 {
		return result
	}

	result.Query = queries[0]
	if loc, ok := r.resolver.Resolve(ctx, queries); ok {
		result.Coordinates = loc
		result.NotFound = false
	}
	return result
}

func displayName(addr domain.CanonicalAddress) string {
	switch {
	case addr.Name != "":
		return addr.Name
	case addr.Address != "":
		return addr.Address
	case addr.City != "":
		return addr.City
	default:
		return "unknown"
	}
}
