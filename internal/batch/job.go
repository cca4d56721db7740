package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lebrazwesh/roadbook/internal/domain"
)

// State describes a job's lifecycle.
type State string

const (
	StateRunning   State = "running"
	StateFinished  State = "finished"
	StateCancelled State = "cancelled"
)

// Progress reports per-row completion of a running job.
type Progress struct {
	JobID    uuid.UUID `json:"job_id"`
	Done     int       `json:"done"`
	Total    int       `json:"total"`
	Fraction float64   `json:"fraction"`
}

// Job is one background geocoding run. Consumers either range over the
// Progress/Results channels (CLI) or poll Snapshot (HTTP).
type Job struct {
	ID uuid.UUID

	progress chan Progress
	results  chan []domain.GeocodeResult
	cancel   context.CancelFunc

	mu    sync.Mutex
	state State
	done  int
	total int
	final []domain.GeocodeResult
}

// Progress streams one update per processed row. The channel is buffered for
// the whole batch and closed when the job stops, so slow consumers never
// stall the worker.
func (j *Job) Progress() <-chan Progress {
	return j.progress
}

// Results delivers the full ordered result slice exactly once, then closes.
// Cancelled jobs close the channel without delivering.
func (j *Job) Results() <-chan []domain.GeocodeResult {
	return j.results
}

// Cancel requests cooperative cancellation; the worker stops before the next
// row.
func (j *Job) Cancel() {
	j.cancel()
}

// Snapshot is a point-in-time view of the job for polling consumers.
type Snapshot struct {
	JobID    uuid.UUID              `json:"job_id"`
	State    State                  `json:"state"`
	Done     int                    `json:"done"`
	Total    int                    `json:"total"`
	Fraction float64                `json:"fraction"`
	Results  []domain.GeocodeResult `json:"results,omitempty"`
}

// Snapshot returns the job's current state. Results are populated only once
// the job has finished.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Snapshot{
		JobID: j.ID,
		State: j.state,
		Done:  j.done,
		Total: j.total,
	}
	if j.total > 0 {
		s.Fraction = float64(j.done) / float64(j.total)
	}
	if j.state == StateFinished {
		s.Results = j.final
	}
	return s
}

func (j *Job) setProgress(p Progress) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.done = p.Done
}

func (j *Job) setFinished(results []domain.GeocodeResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = StateFinished
	j.final = results
}

func (j *Job) setCancelled() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = StateCancelled
}
