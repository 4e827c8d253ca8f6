package jobstore

import (
	"time"

	"github.com/specialistvlad/burstmatrix/internal/matrix"
)

// Status is the execution state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the job will not change state anymore.
func (s Status) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusCancelled
}

// StepStatus is the outcome of a single step inside a job.
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one step of a job.
type StepResult struct {
	Name     string
	Action   string
	Status   StepStatus
	Error    error
	Duration time.Duration
}

// Result is the final record of a job.
type Result struct {
	Job       matrix.Job
	Status    Status
	Steps     []StepResult
	Error     error
	StartedAt time.Time
	Duration  time.Duration
}

// Step returns the result of the named step, if the job recorded one.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
