// Package notify delivers job lifecycle events to observers. Delivery is
// best effort: a sink that fails logs the problem and never affects the
// outcome of a job.
package notify

import (
	"context"
	"time"

	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
)

// EventType names a lifecycle event.
type EventType string

const (
	JobStarted  EventType = "job_started"
	JobFinished EventType = "job_finished"
	RunFinished EventType = "run_finished"
)

// Event describes a single lifecycle transition.
type Event struct {
	Type     EventType `json:"type"`
	RunID    string    `json:"run_id,omitempty"`
	Workflow string    `json:"workflow"`
	JobID    string    `json:"job_id,omitempty"`
	JobName  string    `json:"job_name,omitempty"`
	Status   string    `json:"status,omitempty"`
	Error    string    `json:"error,omitempty"`
	// DurationMS is set on finished events.
	DurationMS int64 `json:"duration_ms,omitempty"`
	// Counts holds the number of jobs per status on run_finished.
	Counts map[string]int `json:"counts,omitempty"`
	Time   time.Time      `json:"time"`
}

// Sink receives lifecycle events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// LogSink writes every event to the context logger.
type LogSink struct{}

// Notify implements Sink.
func (LogSink) Notify(ctx context.Context, e Event) {
	logger := ctxlog.FromContext(ctx)
	switch e.Type {
	case JobStarted:
		logger.Info("▶️ Job started.", "job", e.JobName)
	case JobFinished:
		logger.Info("⏹️ Job finished.", "job", e.JobName, "status", e.Status, "duration_ms", e.DurationMS)
	case RunFinished:
		logger.Info("🏁 Run finished.", "workflow", e.Workflow, "counts", e.Counts)
	default:
		logger.Debug("Notification.", "type", e.Type)
	}
}

// MultiSink fans an event out to every sink in order.
type MultiSink []Sink

// Notify implements Sink.
func (m MultiSink) Notify(ctx context.Context, e Event) {
	for _, s := range m {
		s.Notify(ctx, e)
	}
}
