package config

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
)

// Step names recognised by the executor, in execution order.
const (
	StepCheckout = "checkout"
	StepBuild    = "build"
	StepTest     = "test"
)

// Model is the unified representation of every workflow that was loaded.
type Model struct {
	Workflows []*Workflow
}

// Find returns the workflow with the given name, matching case-insensitively.
func (m *Model) Find(name string) (*Workflow, bool) {
	for _, wf := range m.Workflows {
		if strings.EqualFold(wf.Name, name) {
			return wf, true
		}
	}
	return nil, false
}

// Merge appends the workflows of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Workflows = append(m.Workflows, other.Workflows...)
}

// Workflow is the format-agnostic representation of a single CI workflow.
type Workflow struct {
	Name string
	// Source is the file the workflow was loaded from.
	Source   string
	Triggers *Triggers
	// Env is the declared environment handed to every action.
	Env      map[string]string
	FailFast bool

	Platforms  []*Platform
	Toolchains []string
	Includes   []*Include
	// JobName builds the display name of each job; nil means the default.
	JobName matrix.Namer

	Checkout *Step
	Build    *Step
	Test     *Step
}

// Steps returns the configured steps in execution order.
func (w *Workflow) Steps() []*Step {
	var steps []*Step
	for _, s := range []*Step{w.Checkout, w.Build, w.Test} {
		if s != nil {
			steps = append(steps, s)
		}
	}
	return steps
}

// EnvList returns the declared environment as KEY=value pairs.
func (w *Workflow) EnvList() []string {
	keys := make([]string, 0, len(w.Env))
	for k := range w.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+w.Env[k])
	}
	return out
}

// Matrix converts the workflow into the evaluator's input.
func (w *Workflow) Matrix() (matrix.Matrix, error) {
	toolchains, err := matrix.ParseToolchains(w.Toolchains)
	if err != nil {
		return matrix.Matrix{}, errors.Wrapf(err, "workflow %q", w.Name)
	}

	m := matrix.Matrix{
		Platforms:  make([]matrix.Platform, 0, len(w.Platforms)),
		Toolchains: toolchains,
		Include:    make([]matrix.Include, 0, len(w.Includes)),
		Namer:      w.JobName,
	}
	for _, p := range w.Platforms {
		m.Platforms = append(m.Platforms, p.toMatrix())
	}
	for i, inc := range w.Includes {
		tc, err := matrix.ParseToolchain(inc.Toolchain)
		if err != nil {
			return matrix.Matrix{}, errors.Wrapf(err, "workflow %q, include #%d", w.Name, i)
		}
		m.Include = append(m.Include, matrix.Include{
			Platform:  inc.Platform.toMatrix(),
			Toolchain: tc,
			Extra:     inc.Extra,
		})
	}
	return m, nil
}

// Triggers declares which repository events run the workflow. A nil
// RefFilter means the event is not declared.
type Triggers struct {
	Push        *RefFilter
	PullRequest *RefFilter
}

// RefFilter holds glob filters on branch and tag names.
type RefFilter struct {
	Branches       []string
	BranchesIgnore []string
	Tags           []string
	TagsIgnore     []string
}

// HasBranchFilters reports whether any branch filter is declared.
func (f *RefFilter) HasBranchFilters() bool {
	return len(f.Branches) > 0 || len(f.BranchesIgnore) > 0
}

// HasTagFilters reports whether any tag filter is declared.
func (f *RefFilter) HasTagFilters() bool {
	return len(f.Tags) > 0 || len(f.TagsIgnore) > 0
}

// Platform is the format-agnostic representation of a platform entry.
type Platform struct {
	OSName    string
	Runner    string
	Target    string
	SkipTests bool
}

func (p *Platform) toMatrix() matrix.Platform {
	return matrix.Platform{
		OSName:    p.OSName,
		Runner:    p.Runner,
		Target:    p.Target,
		SkipTests: p.SkipTests,
	}
}

// Include is an extra (platform, toolchain) pair with optional extra fields.
type Include struct {
	Platform  Platform
	Toolchain string
	Extra     map[string]string
}

// Step is one action invocation of a job.
type Step struct {
	// Name is one of StepCheckout, StepBuild, StepTest.
	Name string
	// Action is the registered action that runs the step.
	Action string
	// With holds action specific string parameters.
	With map[string]string
	// Args are extra command line arguments for the action.
	Args []string
}
