package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/registry"
)

// RecordingModule is a shared, self-contained module for executor tests. It
// registers one action that records every call, optionally sleeping and
// failing on demand.
type RecordingModule struct {
	// Name is the registered action name, "record" when empty.
	Name string
	// Sleep delays every call; the delay ends early when the context is done.
	Sleep time.Duration
	// FailWhen returns the error a call should fail with, or nil.
	FailWhen func(req *action.Request) error

	mu    sync.Mutex
	calls []Call
}

// Register implements the registry.Module interface.
func (m *RecordingModule) Register(r *registry.Registry) {
	name := m.Name
	if name == "" {
		name = "record"
	}
	r.RegisterAction(name, action.Func(m.run))
}

func (m *RecordingModule) run(ctx context.Context, req *action.Request) error {
	start := time.Now()
	var err error
	if m.Sleep > 0 {
		select {
		case <-time.After(m.Sleep):
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if err == nil && m.FailWhen != nil {
		err = m.FailWhen(req)
	}

	m.mu.Lock()
	m.calls = append(m.calls, Call{
		ExecutionRecord: ExecutionRecord{Start: start, End: time.Now()},
		Job:             req.Job.Name,
		Phase:           req.Phase,
		Env:             req.Env,
		Dir:             req.Dir,
	})
	m.mu.Unlock()
	return err
}

// Calls returns a copy of every recorded call.
func (m *RecordingModule) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Phases returns the phases recorded for a job, in call order.
func (m *RecordingModule) Phases(job string) []string {
	var phases []string
	for _, c := range m.Calls() {
		if c.Job == job {
			phases = append(phases, c.Phase)
		}
	}
	return phases
}

// FailOn returns a FailWhen func failing the given job in the given phase.
func FailOn(job, phase string, err error) func(*action.Request) error {
	return func(req *action.Request) error {
		if req.Job.Name == job && req.Phase == phase {
			return err
		}
		return nil
	}
}
