// This file translates decoded HCL blocks into the format-agnostic model
// defined in the config package.

package hcl

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
)

// translateWorkflow converts a workflow block into the agnostic model.
func (l *Loader) translateWorkflow(ctx context.Context, b *workflowBlock) (*config.Workflow, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", b.Name)

	env, err := stringMap(b.Env, "env")
	if err != nil {
		return nil, errors.Wrapf(err, "workflow %q", b.Name)
	}

	wf := &config.Workflow{
		Name:       b.Name,
		Triggers:   translateTriggers(b.On),
		Env:        env,
		FailFast:   b.FailFast,
		Toolchains: b.Toolchains,
	}

	if !isAbsent(b.JobName) {
		if err := checkNameVariables(b.JobName); err != nil {
			return nil, errors.Wrapf(err, "workflow %q", b.Name)
		}
		wf.JobName = templateNamer(b.JobName)
	}

	declared := make(map[string]*config.Platform, len(b.Platforms))
	for _, pb := range b.Platforms {
		p := &config.Platform{
			OSName:    pb.OSName,
			Runner:    pb.Runner,
			Target:    pb.Target,
			SkipTests: pb.SkipTests,
		}
		wf.Platforms = append(wf.Platforms, p)
		if _, ok := declared[p.OSName]; !ok {
			declared[p.OSName] = p
		}
	}

	for i, ib := range b.Includes {
		inc, err := translateInclude(ib, declared)
		if err != nil {
			return nil, errors.Wrapf(err, "workflow %q, include #%d", b.Name, i)
		}
		wf.Includes = append(wf.Includes, inc)
	}

	for _, sb := range b.Steps {
		if err := l.assignStep(wf, sb); err != nil {
			return nil, errors.Wrapf(err, "workflow %q", b.Name)
		}
	}
	if wf.Build == nil {
		return nil, errors.Newf("workflow %q: a %q step is required", b.Name, config.StepBuild)
	}

	logger.Debug("Translated workflow.",
		"platforms", len(wf.Platforms),
		"toolchains", len(wf.Toolchains),
		"includes", len(wf.Includes),
		"steps", len(wf.Steps()),
	)
	return wf, nil
}

func translateTriggers(on *onBlock) *config.Triggers {
	if on == nil {
		return nil
	}
	return &config.Triggers{
		Push:        translateRefFilter(on.Push),
		PullRequest: translateRefFilter(on.PullRequest),
	}
}

func translateRefFilter(b *refFilterBlock) *config.RefFilter {
	if b == nil {
		return nil
	}
	return &config.RefFilter{
		Branches:       b.Branches,
		BranchesIgnore: b.BranchesIgnore,
		Tags:           b.Tags,
		TagsIgnore:     b.TagsIgnore,
	}
}

// translateInclude resolves the platform an include refers to. An include
// naming an undeclared platform must provide its own target.
func translateInclude(b *includeBlock, declared map[string]*config.Platform) (*config.Include, error) {
	var p config.Platform
	if base, ok := declared[b.Platform]; ok {
		p = *base
	} else {
		if b.Target == nil {
			return nil, errors.Newf("unknown platform %q (declare it or set target)", b.Platform)
		}
		p.OSName = b.Platform
	}
	if b.Runner != nil {
		p.Runner = *b.Runner
	}
	if b.Target != nil {
		p.Target = *b.Target
	}
	if b.SkipTests != nil {
		p.SkipTests = *b.SkipTests
	}

	extra, err := stringMap(b.Extra, "extra")
	if err != nil {
		return nil, err
	}
	return &config.Include{Platform: p, Toolchain: b.Toolchain, Extra: extra}, nil
}

func (l *Loader) assignStep(wf *config.Workflow, b *stepBlock) error {
	with, err := stringMap(b.With, "with")
	if err != nil {
		return errors.Wrapf(err, "step %q", b.Name)
	}
	step := &config.Step{Name: b.Name, Action: b.Action, With: with, Args: b.Args}

	var slot **config.Step
	switch b.Name {
	case config.StepCheckout:
		slot = &wf.Checkout
	case config.StepBuild:
		slot = &wf.Build
	case config.StepTest:
		slot = &wf.Test
	default:
		return errors.Newf("unsupported step %q (expected %q, %q or %q)",
			b.Name, config.StepCheckout, config.StepBuild, config.StepTest)
	}
	if *slot != nil {
		return errors.Newf("step %q declared more than once", b.Name)
	}
	if step.Action == "" {
		return errors.Newf("step %q: action must not be empty", b.Name)
	}
	*slot = step
	return nil
}
