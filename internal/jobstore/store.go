package jobstore

import (
	"context"
	"sync"

	"github.com/specialistvlad/burstmatrix/internal/jobid"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
)

// Store is the interface for managing the mutable execution state of jobs.
//
// Implementations MUST be safe for concurrent use: every job runs on its own
// goroutine and updates its entry while the health endpoint reads them all.
type Store interface {
	// SetStatus updates the execution status of a job.
	SetStatus(ctx context.Context, id jobid.Address, status Status) error
	// GetStatus returns the status of a job, StatusPending when unset.
	GetStatus(ctx context.Context, id jobid.Address) (Status, error)
	// SetResult records the final result of a job.
	SetResult(ctx context.Context, id jobid.Address, result *Result) error
	// GetResult returns the result of a job, nil when the job has not finished.
	GetResult(ctx context.Context, id jobid.Address) (*Result, error)
}

// Entry is a point-in-time view of a job used by Snapshot.
type Entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// MemoryStore is an in-memory Store built on sync.Map. Each job's status and
// result live under their own key, so concurrent writers never contend on a
// global lock.
type MemoryStore struct {
	states  sync.Map // Key: job ID string, Value: Status
	results sync.Map // Key: job ID string, Value: *Result
}

// New creates a new, empty in-memory job store.
func New() *MemoryStore {
	return &MemoryStore{}
}

// SetStatus updates the execution status of a specific job.
func (s *MemoryStore) SetStatus(ctx context.Context, id jobid.Address, status Status) error {
	s.states.Store(id.String(), status)
	return nil
}

// GetStatus retrieves the execution status of a specific job.
// If a status has not been set, it returns StatusPending.
func (s *MemoryStore) GetStatus(ctx context.Context, id jobid.Address) (Status, error) {
	status, ok := s.states.Load(id.String())
	if !ok {
		return StatusPending, nil
	}
	return status.(Status), nil
}

// SetResult records the result of a finished job.
func (s *MemoryStore) SetResult(ctx context.Context, id jobid.Address, result *Result) error {
	s.results.Store(id.String(), result)
	return nil
}

// GetResult retrieves the recorded result of a finished job.
func (s *MemoryStore) GetResult(ctx context.Context, id jobid.Address) (*Result, error) {
	result, ok := s.results.Load(id.String())
	if !ok {
		return nil, nil
	}
	return result.(*Result), nil
}

// Snapshot returns the status of every given job, in the order given.
func Snapshot(ctx context.Context, s Store, jobs []matrix.Job) ([]Entry, error) {
	out := make([]Entry, 0, len(jobs))
	for _, j := range jobs {
		status, err := s.GetStatus(ctx, *j.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: j.ID.String(), Name: j.Name, Status: status})
	}
	return out, nil
}
