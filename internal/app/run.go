package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/executor"
	"github.com/specialistvlad/burstmatrix/internal/jobid"
	"github.com/specialistvlad/burstmatrix/internal/notify"
	"github.com/specialistvlad/burstmatrix/internal/report"
	"github.com/specialistvlad/burstmatrix/internal/trigger"
)

// Validate loads the workflows and checks their matrices and action
// references. Every workflow is checked; all problems are returned at once.
func (a *App) Validate(ctx context.Context) error {
	ctx = a.Context(ctx)
	workflows, err := a.LoadWorkflows(ctx)
	if err != nil {
		return err
	}

	var errs error
	for _, wf := range workflows {
		jobs, err := a.plan(ctx, wf)
		if err != nil {
			errs = errors.CombineErrors(errs, err)
			fmt.Fprintf(a.outW, "❌ %s: %v\n", wf.Name, err)
			continue
		}
		fmt.Fprintf(a.outW, "✅ %s: %d jobs\n", wf.Name, len(jobs))
	}
	return errs
}

// Plan prints the expanded job table of every workflow without running it.
func (a *App) Plan(ctx context.Context) error {
	ctx = a.Context(ctx)
	workflows, err := a.LoadWorkflows(ctx)
	if err != nil {
		return err
	}
	for _, wf := range a.triggered(ctx, workflows) {
		jobs, err := a.plan(ctx, wf)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "%s (%d jobs)\n%s\n\n", wf.Name, len(jobs), report.PlanTable(jobs))
	}
	return nil
}

// Run executes every selected workflow that the configured event triggers.
// The returned error wraps executor.ErrJobsFailed when any job did not pass.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer(ctx)
	defer func() { _ = a.closeHealthCheckServer(ctx) }()

	workflows, err := a.LoadWorkflows(ctx)
	if err != nil {
		return err
	}
	workflows = a.triggered(ctx, workflows)
	if len(workflows) == 0 {
		a.logger.Warn("No workflow is triggered by this event, nothing to run.", "event", a.config.Event, "ref", a.config.Ref)
		return nil
	}

	sink, closeSink := a.newSink(ctx)
	defer closeSink()

	runID := report.NewRunID()
	ctx = ctxlog.With(ctx, "run_id", runID)

	var failed error
	for _, wf := range workflows {
		if err := a.runWorkflow(ctx, wf, runID, sink, len(workflows) > 1); err != nil {
			if !errors.Is(err, executor.ErrJobsFailed) {
				return err
			}
			failed = errors.CombineErrors(failed, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return failed
}

func (a *App) runWorkflow(ctx context.Context, wf *config.Workflow, runID string, sink notify.Sink, multi bool) error {
	logger := ctxlog.FromContext(ctx)
	jobs, err := a.plan(ctx, wf)
	if err != nil {
		return err
	}
	a.setJobs(jobs)

	exec := executor.New(a.registry, a.store, sink, executor.Options{
		Workers:  a.config.Workers,
		FailFast: a.config.FailFast,
		DryRun:   a.config.DryRun,
		WorkDir:  a.config.WorkDir,
		RunID:    runID,
		Stdout:   a.outW,
		Stderr:   a.outW,
	})

	logger.Info("🚀 Starting matrix run...", "workflow", wf.Name, "jobs", len(jobs))
	started := time.Now()
	results, runErr := exec.Run(ctx, wf, jobs)
	if runErr != nil && !errors.Is(runErr, executor.ErrJobsFailed) {
		return runErr
	}

	summary := report.New(runID, wf.Name, started, results)
	fmt.Fprintf(a.outW, "\n%s\n%s\n", wf.Name, report.RunTable(summary))
	logger.Info("🏁 Matrix run finished.", "workflow", wf.Name,
		"passed", summary.Passed, "failed", summary.Failed, "cancelled", summary.Cancelled)

	if err := a.publish(ctx, wf, summary, multi); err != nil {
		return err
	}
	return runErr
}

// publish writes and uploads the report when configured.
func (a *App) publish(ctx context.Context, wf *config.Workflow, s *report.Summary, multi bool) error {
	if a.config.ReportPath == "" && a.config.ReportUploadURL == "" {
		return nil
	}
	format, err := report.FormatFor(a.config.ReportPath, a.config.ReportFormat)
	if err != nil {
		return err
	}

	if a.config.ReportPath != "" {
		path := reportPath(a.config.ReportPath, wf.Name, multi)
		if err := report.WriteFile(path, s, format); err != nil {
			return err
		}
		ctxlog.FromContext(ctx).Info("Report written.", "path", path, "format", format)
	}
	if a.config.ReportUploadURL != "" {
		if err := report.Upload(ctx, a.config.ReportUploadURL, s, format); err != nil {
			return err
		}
	}
	return nil
}

// reportPath gives every workflow its own report file when several run.
func reportPath(path, workflow string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	slug := strings.ToLower(jobid.Slug(workflow))
	return strings.TrimSuffix(path, ext) + "-" + slug + ext
}

// triggered filters workflows by the configured event. Without an event
// every workflow is kept.
func (a *App) triggered(ctx context.Context, workflows []*config.Workflow) []*config.Workflow {
	if a.config.Event == "" {
		return workflows
	}
	logger := ctxlog.FromContext(ctx)
	event := a.config.TriggerEvent()

	var out []*config.Workflow
	for _, wf := range workflows {
		if trigger.Matches(wf.Triggers, event) {
			out = append(out, wf)
			continue
		}
		logger.Info("⏭️ Workflow not triggered by event.", "workflow", wf.Name, "event", event.Name, "ref", event.Ref)
	}
	return out
}

// newSink builds the notification sink of a run. A socket.io server that
// cannot be reached is logged and skipped.
func (a *App) newSink(ctx context.Context) (notify.Sink, func()) {
	sinks := notify.MultiSink{notify.LogSink{}}
	if a.config.NotifyURL == "" {
		return sinks, func() {}
	}

	sio, err := notify.DialSocketIO(ctx, notify.SocketIOConfig{
		URL:            a.config.NotifyURL,
		Namespace:      a.config.NotifyNamespace,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Notification sink unavailable, continuing without it.", "error", err)
		return sinks, func() {}
	}
	return append(sinks, sio), sio.Close
}
