package executor

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/notify"
)

// dispatch runs one job, or cancels it when the run was stopped before the
// job got a slot. A failure under fail-fast stops the run.
func (e *Executor) dispatch(
	ctx context.Context,
	wf *config.Workflow,
	job matrix.Job,
	failFast bool,
	cancel context.CancelFunc,
) *jobstore.Result {
	jobCtx := ctxlog.With(ctx, "job", job.ID.String())
	if err := ctx.Err(); err != nil {
		return e.cancelJob(jobCtx, job, err)
	}

	res := e.runJob(jobCtx, wf, job)
	if res.Status == jobstore.StatusFailed && failFast {
		ctxlog.FromContext(ctx).Warn("Fail-fast enabled, cancelling remaining jobs.", "failed_job", job.Name)
		cancel()
	}
	return res
}

// cancelJob records a job that never started.
func (e *Executor) cancelJob(ctx context.Context, job matrix.Job, cause error) *jobstore.Result {
	res := &jobstore.Result{
		Job:    job,
		Status: jobstore.StatusCancelled,
		Error:  errors.Wrap(cause, "job cancelled before start"),
	}
	e.record(ctx, res)
	return res
}

// runJob executes the steps of one job and records its result. It never
// touches the state of any other job.
func (e *Executor) runJob(ctx context.Context, wf *config.Workflow, job matrix.Job) *jobstore.Result {
	logger := ctxlog.FromContext(ctx)
	res := &jobstore.Result{Job: job, Status: jobstore.StatusRunning, StartedAt: time.Now()}

	if err := e.store.SetStatus(ctx, *job.ID, jobstore.StatusRunning); err != nil {
		logger.Warn("Failed to update job status.", "error", err)
	}
	e.sink.Notify(ctx, notify.Event{
		Type:     notify.JobStarted,
		RunID:    e.opts.RunID,
		Workflow: wf.Name,
		JobID:    job.ID.String(),
		JobName:  job.Name,
		Time:     res.StartedAt,
	})

	dir, err := e.jobDir(wf, job)
	if err != nil {
		res.Status = jobstore.StatusFailed
		res.Error = err
		return e.complete(ctx, wf, res)
	}

	env := append(wf.EnvList(), job.Env()...)
	stdout := newPrefixWriter(e.opts.Stdout, "["+job.Name+"] ", &e.outMu)
	stderr := newPrefixWriter(e.opts.Stderr, "["+job.Name+"] ", &e.outMu)
	defer stdout.Flush()
	defer stderr.Flush()

	res.Status = jobstore.StatusPassed
	for _, step := range []*config.Step{wf.Checkout, wf.Build, wf.Test} {
		if step == nil {
			continue
		}
		if res.Status != jobstore.StatusPassed {
			res.Steps = append(res.Steps, jobstore.StepResult{Name: step.Name, Action: step.Action, Status: jobstore.StepSkipped})
			continue
		}
		if step.Name == config.StepTest && !job.RunsTests() {
			logger.Info("⏭️ Skipping tests for this platform.", "platform", job.Platform.OSName)
			res.Steps = append(res.Steps, jobstore.StepResult{Name: step.Name, Action: step.Action, Status: jobstore.StepSkipped})
			continue
		}

		sr := e.runStep(ctx, &action.Request{
			Job:    job,
			Phase:  step.Name,
			Step:   step,
			Env:    env,
			Dir:    dir,
			Stdout: stdout,
			Stderr: stderr,
			DryRun: e.opts.DryRun,
		})
		res.Steps = append(res.Steps, sr)

		if sr.Status == jobstore.StepFailed {
			res.Error = errors.Wrapf(sr.Error, "step %s", step.Name)
			res.Status = jobstore.StatusFailed
			if ctx.Err() != nil {
				res.Status = jobstore.StatusCancelled
			}
		}
	}

	return e.complete(ctx, wf, res)
}

// runStep invokes the action bound to a step.
func (e *Executor) runStep(ctx context.Context, req *action.Request) jobstore.StepResult {
	logger := ctxlog.FromContext(ctx).With("step", req.Phase, "action", req.Step.Action)
	sr := jobstore.StepResult{Name: req.Step.Name, Action: req.Step.Action}

	act, ok := e.registry.Action(req.Step.Action)
	if !ok {
		sr.Status = jobstore.StepFailed
		sr.Error = errors.Newf("unknown action %q", req.Step.Action)
		return sr
	}

	logger.Debug("Running step.")
	start := time.Now()
	err := act.Run(ctx, req)
	sr.Duration = time.Since(start)

	if err != nil {
		logger.Error("Step failed.", "error", err, "duration", sr.Duration)
		sr.Status = jobstore.StepFailed
		sr.Error = err
		return sr
	}
	logger.Debug("Step passed.", "duration", sr.Duration)
	sr.Status = jobstore.StepPassed
	return sr
}

// complete stamps the duration, stores the result and emits job_finished.
func (e *Executor) complete(ctx context.Context, wf *config.Workflow, res *jobstore.Result) *jobstore.Result {
	res.Duration = time.Since(res.StartedAt)
	e.record(ctx, res)

	logger := ctxlog.FromContext(ctx)
	if res.Status == jobstore.StatusPassed {
		logger.Info("✅ Job passed.", "duration", res.Duration)
	} else {
		logger.Error("❌ Job did not pass.", "status", res.Status, "error", res.Error)
	}

	ev := notify.Event{
		Type:       notify.JobFinished,
		RunID:      e.opts.RunID,
		Workflow:   wf.Name,
		JobID:      res.Job.ID.String(),
		JobName:    res.Job.Name,
		Status:     string(res.Status),
		DurationMS: res.Duration.Milliseconds(),
		Time:       time.Now(),
	}
	if res.Error != nil {
		ev.Error = res.Error.Error()
	}
	e.sink.Notify(ctx, ev)
	return res
}

func (e *Executor) record(ctx context.Context, res *jobstore.Result) {
	logger := ctxlog.FromContext(ctx)
	if err := e.store.SetResult(ctx, *res.Job.ID, res); err != nil {
		logger.Warn("Failed to store job result.", "error", err)
	}
	if err := e.store.SetStatus(ctx, *res.Job.ID, res.Status); err != nil {
		logger.Warn("Failed to update job status.", "error", err)
	}
}
