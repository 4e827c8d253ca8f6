// Package action defines the contract between the executor and the code
// that carries out a job step.
package action

import (
	"context"
	"io"

	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/shell"
)

// Action carries out one step of a job.
type Action interface {
	Run(ctx context.Context, req *Request) error
}

// Func adapts an ordinary function to the Action interface.
type Func func(ctx context.Context, req *Request) error

// Run calls f(ctx, req).
func (f Func) Run(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// Request is everything an action needs to run a step for one job.
type Request struct {
	Job matrix.Job
	// Phase is the step name: config.StepCheckout, StepBuild or StepTest.
	Phase string
	Step  *config.Step
	// Env holds the workflow environment followed by the job's MATRIX_*
	// variables, as KEY=value pairs.
	Env []string
	// Dir is the job's working directory; empty means the current one.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	// DryRun asks the action to describe what it would do without doing it.
	DryRun bool
}

// With returns the step parameter named key, or "" when unset.
func (r *Request) With(key string) string {
	if r.Step == nil {
		return ""
	}
	return r.Step.With[key]
}

// Args returns the step's extra arguments.
func (r *Request) Args() []string {
	if r.Step == nil {
		return nil
	}
	return r.Step.Args
}

// ShellOptions returns the options for running a script on behalf of the
// request, named after the job and phase.
func (r *Request) ShellOptions() shell.Options {
	return shell.Options{
		Name:   r.Job.Slug() + "/" + r.Phase,
		Dir:    r.Dir,
		Env:    r.Env,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}
}
