package ghworkflow

import (
	"context"
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"mvdan.cc/sh/v3/shell"
)

// Action references recognised in `uses:`, without their version suffix.
const (
	checkoutAction = "actions/checkout"
	crossAction    = "actions-rust-cross"
)

// Actions the translated steps are bound to.
const (
	actionCheckout = "checkout"
	actionCross    = "cross"
	actionShell    = "shell"
)

func translateJob(ctx context.Context, name string, doc *document, job *jobSpec) (*config.Workflow, error) {
	ms := job.Strategy.Matrix

	wf := &config.Workflow{
		Name:       name,
		Triggers:   translateTriggers(doc.On),
		Env:        mergeEnv(doc.Env, job.Env),
		Toolchains: ms.Toolchain,
	}
	if job.Strategy.FailFast != nil {
		wf.FailFast = *job.Strategy.FailFast
	}

	// A literal runs-on applies to platforms that do not name their own runner.
	defaultRunner := ""
	if !strings.Contains(job.RunsOn, "${{") {
		defaultRunner = job.RunsOn
	}

	declared := make(map[string]*config.Platform, len(ms.Platform))
	for i, ps := range ms.Platform {
		if ps == nil {
			return nil, errors.Newf("matrix platform #%d is empty", i)
		}
		p := translatePlatform(ps, defaultRunner)
		wf.Platforms = append(wf.Platforms, p)
		if _, ok := declared[p.OSName]; !ok {
			declared[p.OSName] = p
		}
	}

	for i, is := range ms.Include {
		inc, err := translateInclude(is, declared, defaultRunner)
		if err != nil {
			return nil, errors.Wrapf(err, "include #%d", i)
		}
		wf.Includes = append(wf.Includes, inc)
	}

	if job.Name != "" {
		namer, err := expressionNamer(job.Name)
		if err != nil {
			return nil, err
		}
		wf.JobName = namer
	}

	if err := translateSteps(ctx, wf, job.Steps); err != nil {
		return nil, err
	}
	return wf, nil
}

func translatePlatform(ps *platformSpec, defaultRunner string) *config.Platform {
	p := &config.Platform{
		OSName:    ps.OSName,
		Runner:    ps.Runner,
		Target:    ps.Target,
		SkipTests: ps.SkipTests,
	}
	if p.Runner == "" {
		p.Runner = defaultRunner
	}
	return p
}

func translateInclude(is *includeSpec, declared map[string]*config.Platform, defaultRunner string) (*config.Include, error) {
	if is == nil {
		return nil, errors.New("empty include entry")
	}
	var p config.Platform
	switch {
	case is.Platform != nil:
		p = *translatePlatform(is.Platform, defaultRunner)
	case is.PlatformRef != "":
		base, ok := declared[is.PlatformRef]
		if !ok {
			return nil, errors.Newf("unknown platform %q", is.PlatformRef)
		}
		p = *base
	default:
		return nil, errors.New("include requires a platform")
	}
	if is.Toolchain == "" {
		return nil, errors.New("include requires a toolchain")
	}
	return &config.Include{Platform: p, Toolchain: is.Toolchain, Extra: is.Extra}, nil
}

func translateTriggers(on triggerSpec) *config.Triggers {
	if !on.Declared {
		return nil
	}
	t := &config.Triggers{}
	if f, ok := on.Events["push"]; ok {
		t.Push = translateRefFilter(f)
	}
	if f, ok := on.Events["pull_request"]; ok {
		t.PullRequest = translateRefFilter(f)
	}
	return t
}

func translateRefFilter(f *refFilterSpec) *config.RefFilter {
	if f == nil {
		return &config.RefFilter{}
	}
	return &config.RefFilter{
		Branches:       f.Branches,
		BranchesIgnore: f.BranchesIgnore,
		Tags:           f.Tags,
		TagsIgnore:     f.TagsIgnore,
	}
}

// translateSteps binds the job's steps to the checkout, build and test
// phases. Cross steps take precedence; run steps fill a phase that has no
// cross step, split into test and build by their name.
func translateSteps(ctx context.Context, wf *config.Workflow, steps []*stepSpec) error {
	logger := ctxlog.FromContext(ctx)
	var buildScripts, testScripts []string

	for i, s := range steps {
		if s == nil {
			continue
		}
		uses := actionName(s.Uses)
		switch {
		case uses == checkoutAction:
			if wf.Checkout != nil {
				return errors.Newf("step #%d: checkout declared more than once", i)
			}
			wf.Checkout = &config.Step{Name: config.StepCheckout, Action: actionCheckout, With: s.With}

		case uses == crossAction || strings.HasSuffix(uses, "/"+crossAction):
			if err := assignCrossStep(wf, s); err != nil {
				return errors.Wrapf(err, "step #%d", i)
			}

		case s.Run != "":
			if strings.Contains(strings.ToLower(s.Name), "test") {
				testScripts = append(testScripts, s.Run)
			} else {
				buildScripts = append(buildScripts, s.Run)
			}

		default:
			logger.Debug("Ignoring unsupported step.", "workflow", wf.Name, "step", i, "uses", s.Uses)
		}
	}

	if wf.Build == nil && len(buildScripts) > 0 {
		wf.Build = shellStep(config.StepBuild, buildScripts)
	}
	if wf.Test == nil && len(testScripts) > 0 {
		wf.Test = shellStep(config.StepTest, testScripts)
	}
	if wf.Build == nil {
		return errors.New("no build step: expected an actions-rust-cross step or a run step")
	}
	return nil
}

func assignCrossStep(wf *config.Workflow, s *stepSpec) error {
	command := s.With["command"]
	if command == "" {
		command = config.StepBuild
	}

	var args []string
	if raw := s.With["args"]; raw != "" {
		fields, err := shell.Fields(raw, nil)
		if err != nil {
			return errors.Wrapf(err, "parsing args %q", raw)
		}
		args = fields
	}

	with := make(map[string]string, len(s.With))
	for k, v := range s.With {
		switch k {
		case "command", "args", "target", "toolchain":
		default:
			with[k] = v
		}
	}

	newStep := func(phase string) *config.Step {
		return &config.Step{Name: phase, Action: actionCross, With: with, Args: args}
	}
	switch command {
	case config.StepBuild:
		wf.Build = newStep(config.StepBuild)
	case config.StepTest:
		wf.Test = newStep(config.StepTest)
	case "both":
		wf.Build = newStep(config.StepBuild)
		wf.Test = newStep(config.StepTest)
	default:
		return errors.Newf("unsupported cross command %q", command)
	}
	return nil
}

func shellStep(phase string, scripts []string) *config.Step {
	return &config.Step{
		Name:   phase,
		Action: actionShell,
		With:   map[string]string{"run": strings.Join(scripts, "\n")},
	}
}

// actionName strips the version from a `uses:` reference.
func actionName(uses string) string {
	name, _, _ := strings.Cut(uses, "@")
	return name
}

func mergeEnv(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}
