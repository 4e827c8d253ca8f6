package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/ghworkflow"
	"github.com/specialistvlad/burstmatrix/internal/hcl"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/registry"
)

// ErrWorkflowConfig marks errors caused by the workflow files or the
// selection flags rather than by running jobs.
var ErrWorkflowConfig = errors.New("invalid workflow configuration")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	// outW receives command output (tables); logs go to their own writer.
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	loaders  []config.Loader
	store    *jobstore.MemoryStore

	mu sync.Mutex
	// jobs are the jobs of the workflow currently running, for /jobs.
	jobs []matrix.Job

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Without modules the core modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "actions", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		loaders:  []config.Loader{hcl.NewLoader(), ghworkflow.NewLoader()},
		store:    jobstore.New(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// LoadWorkflows loads every workflow under the configured path with all
// loaders and applies the --workflow selection.
func (a *App) LoadWorkflows(ctx context.Context) ([]*config.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workflows...", "path", a.config.Path)

	model := &config.Model{}
	for _, l := range a.loaders {
		m, err := l.Load(ctx, a.config.Path)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to load workflows"), ErrWorkflowConfig)
		}
		for _, wf := range m.Workflows {
			if prev, dup := model.Find(wf.Name); dup {
				return nil, errors.Mark(errors.Newf("workflow %q declared in both %s and %s", wf.Name, prev.Source, wf.Source), ErrWorkflowConfig)
			}
		}
		model.Merge(m)
	}
	if len(model.Workflows) == 0 {
		return nil, errors.Mark(errors.Newf("no workflows found in %s", a.config.Path), ErrWorkflowConfig)
	}

	if a.config.Workflow == "" {
		logger.Info("Workflows loaded successfully.", "count", len(model.Workflows))
		return model.Workflows, nil
	}
	wf, ok := model.Find(a.config.Workflow)
	if !ok {
		names := make([]string, 0, len(model.Workflows))
		for _, w := range model.Workflows {
			names = append(names, w.Name)
		}
		return nil, errors.Mark(errors.Newf("workflow %q not found (available: %v)", a.config.Workflow, names), ErrWorkflowConfig)
	}
	logger.Info("Workflow selected.", "workflow", wf.Name)
	return []*config.Workflow{wf}, nil
}

// plan validates a workflow against the registry and expands its matrix.
func (a *App) plan(ctx context.Context, wf *config.Workflow) ([]matrix.Job, error) {
	if err := a.registry.ValidateWorkflow(ctx, wf); err != nil {
		return nil, errors.Mark(err, ErrWorkflowConfig)
	}
	m, err := wf.Matrix()
	if err != nil {
		return nil, errors.Mark(err, ErrWorkflowConfig)
	}
	jobs, err := matrix.Expand(m)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "workflow %q", wf.Name), ErrWorkflowConfig)
	}
	return jobs, nil
}

func (a *App) setJobs(jobs []matrix.Job) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobs = jobs
}

func (a *App) currentJobs() []matrix.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jobs
}
