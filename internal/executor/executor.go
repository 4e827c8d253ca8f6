package executor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/notify"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"golang.org/x/sync/errgroup"
)

// ErrJobsFailed is returned by Run when at least one job did not pass.
var ErrJobsFailed = errors.New("jobs failed")

// Options tunes a run.
type Options struct {
	// Workers is the number of jobs that run at the same time.
	Workers int
	// FailFast cancels the remaining jobs after the first failure.
	FailFast bool
	DryRun   bool
	// WorkDir is the root of the per-job working directories. Jobs get their
	// own directory only when the workflow checks out a repository.
	WorkDir string
	// RunID is attached to every notification.
	RunID  string
	Stdout io.Writer
	Stderr io.Writer
}

// Executor orchestrates the execution of all jobs of a workflow.
type Executor struct {
	registry *registry.Registry
	store    jobstore.Store
	sink     notify.Sink
	opts     Options
	outMu    sync.Mutex
}

// New creates an executor. A nil sink disables notifications.
func New(reg *registry.Registry, store jobstore.Store, sink notify.Sink, opts Options) *Executor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if sink == nil {
		sink = notify.MultiSink(nil)
	}
	return &Executor{registry: reg, store: store, sink: sink, opts: opts}
}

// Run executes every job and returns their results in job order. The
// returned error wraps ErrJobsFailed and names the jobs that did not pass.
func (e *Executor) Run(ctx context.Context, wf *config.Workflow, jobs []matrix.Job) ([]*jobstore.Result, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", wf.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	failFast := e.opts.FailFast || wf.FailFast
	workers := min(e.opts.Workers, len(jobs))
	logger.Info("▶️ Starting run.", "jobs", len(jobs), "workers", workers, "fail_fast", failFast)

	for _, job := range jobs {
		if err := e.store.SetStatus(ctx, *job.ID, jobstore.StatusPending); err != nil {
			return nil, errors.Wrapf(err, "initialising status of %s", job.ID)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*jobstore.Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for _, job := range jobs {
		// Go blocks while the limit is reached, so jobs start in order.
		g.Go(func() error {
			results[job.Index] = e.dispatch(runCtx, wf, job, failFast, cancel)
			return nil
		})
	}
	_ = g.Wait()

	return results, e.finish(ctx, wf, results)
}

// finish emits the run summary and builds the error naming failed jobs.
func (e *Executor) finish(ctx context.Context, wf *config.Workflow, results []*jobstore.Result) error {
	counts := make(map[string]int)
	var failed []string
	for _, r := range results {
		counts[string(r.Status)]++
		if r.Status != jobstore.StatusPassed {
			failed = append(failed, r.Job.Name)
		}
	}

	e.sink.Notify(ctx, notify.Event{
		Type:     notify.RunFinished,
		RunID:    e.opts.RunID,
		Workflow: wf.Name,
		Counts:   counts,
		Time:     time.Now(),
	})

	if len(failed) > 0 {
		return errors.Wrapf(ErrJobsFailed, "%d of %d jobs did not pass: %s",
			len(failed), len(results), strings.Join(failed, ", "))
	}
	return nil
}

// jobDir returns the working directory of a job. Jobs share the current
// directory unless the workflow clones a repository per job.
func (e *Executor) jobDir(wf *config.Workflow, job matrix.Job) (string, error) {
	if wf.Checkout == nil || wf.Checkout.With["repository"] == "" {
		return e.opts.WorkDir, nil
	}
	root := e.opts.WorkDir
	if root == "" {
		root = "."
	}
	dir := filepath.Join(root, job.Slug())
	if e.opts.DryRun {
		return dir, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return "", errors.Wrapf(err, "cleaning job directory %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating job directory %s", dir)
	}
	return dir, nil
}
