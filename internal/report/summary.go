package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
)

// Summary is the machine readable record of one run.
type Summary struct {
	RunID      string      `json:"run_id" yaml:"run_id"`
	Workflow   string      `json:"workflow" yaml:"workflow"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	DurationMS int64       `json:"duration_ms" yaml:"duration_ms"`
	Passed     int         `json:"passed" yaml:"passed"`
	Failed     int         `json:"failed" yaml:"failed"`
	Cancelled  int         `json:"cancelled" yaml:"cancelled"`
	Jobs       []JobReport `json:"jobs" yaml:"jobs"`
}

// JobReport is the outcome of a single job.
type JobReport struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	OSName     string            `json:"os_name" yaml:"os_name"`
	Runner     string            `json:"runner,omitempty" yaml:"runner,omitempty"`
	Target     string            `json:"target" yaml:"target"`
	Toolchain  string            `json:"toolchain" yaml:"toolchain"`
	SkipTests  bool              `json:"skip_tests" yaml:"skip_tests"`
	Included   bool              `json:"included,omitempty" yaml:"included,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
	Status     string            `json:"status" yaml:"status"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64             `json:"duration_ms" yaml:"duration_ms"`
	Steps      []StepReport      `json:"steps" yaml:"steps"`
}

// StepReport is the outcome of one step of a job.
type StepReport struct {
	Name       string `json:"name" yaml:"name"`
	Action     string `json:"action" yaml:"action"`
	Status     string `json:"status" yaml:"status"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.New().String()
}

// New builds the summary of a finished run. Results are kept in job order.
func New(runID, workflow string, startedAt time.Time, results []*jobstore.Result) *Summary {
	results = lo.Filter(results, func(r *jobstore.Result, _ int) bool { return r != nil })

	return &Summary{
		RunID:      runID,
		Workflow:   workflow,
		StartedAt:  startedAt.UTC(),
		DurationMS: time.Since(startedAt).Milliseconds(),
		Passed:     countStatus(results, jobstore.StatusPassed),
		Failed:     countStatus(results, jobstore.StatusFailed),
		Cancelled:  countStatus(results, jobstore.StatusCancelled),
		Jobs:       lo.Map(results, func(r *jobstore.Result, _ int) JobReport { return NewJobReport(r) }),
	}
}

// OK reports whether every job passed.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.Cancelled == 0
}

func countStatus(results []*jobstore.Result, status jobstore.Status) int {
	return lo.CountBy(results, func(r *jobstore.Result) bool { return r.Status == status })
}

// NewJobReport flattens one finished job for reports and the status API.
func NewJobReport(r *jobstore.Result) JobReport {
	j := r.Job
	return JobReport{
		ID:         j.ID.String(),
		Name:       j.Name,
		OSName:     j.Platform.OSName,
		Runner:     j.Platform.Runner,
		Target:     j.Platform.Target,
		Toolchain:  string(j.Toolchain),
		SkipTests:  j.Platform.SkipTests,
		Included:   j.Included,
		Extra:      j.Extra,
		Status:     string(r.Status),
		Error:      errString(r.Error),
		DurationMS: r.Duration.Milliseconds(),
		Steps: lo.Map(r.Steps, func(s jobstore.StepResult, _ int) StepReport {
			return StepReport{
				Name:       s.Name,
				Action:     s.Action,
				Status:     string(s.Status),
				Error:      errString(s.Error),
				DurationMS: s.Duration.Milliseconds(),
			}
		}),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
