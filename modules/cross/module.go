package cross

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"al.essio.dev/pkg/shellescape"
	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/shell"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Runner invokes a cargo compatible program for the job's target triple.
type Runner struct {
	// Program is the executable, "cross" or "cargo".
	Program string
}

// Command builds the argument vector for the request:
// `<program> +<toolchain> <build|test> --target <triple> <args...>`. The
// subcommand is the step's phase unless `with.command` overrides it.
func (c *Runner) Command(req *action.Request) ([]string, error) {
	sub := req.With("command")
	if sub == "" {
		sub = req.Phase
	}
	if sub != config.StepBuild && sub != config.StepTest {
		return nil, errors.Newf("%s: unsupported command %q", c.Program, sub)
	}
	if req.Job.Platform.Target == "" {
		return nil, errors.Newf("%s: job %q has no target triple", c.Program, req.Job.Name)
	}

	argv := []string{c.Program}
	if req.Job.Toolchain != "" {
		argv = append(argv, "+"+string(req.Job.Toolchain))
	}
	argv = append(argv, sub, "--target", req.Job.Platform.Target)
	argv = append(argv, req.Args()...)
	return argv, nil
}

// Run implements action.Action.
func (c *Runner) Run(ctx context.Context, req *action.Request) error {
	argv, err := c.Command(req)
	if err != nil {
		return err
	}
	script := shellescape.QuoteCommand(argv)

	opts := req.ShellOptions()
	if sub := req.With("working-directory"); sub != "" {
		opts.Dir = filepath.Join(req.Dir, sub)
	}

	logger := ctxlog.FromContext(ctx).With("action", c.Program)
	if req.DryRun {
		out := req.Stdout
		if out == nil {
			out = io.Discard
		}
		fmt.Fprintln(out, script)
		logger.Debug("Dry run, command not executed.", "command", script)
		return nil
	}

	logger.Info("Running command.", "command", script, "dir", opts.Dir)
	return shell.Run(ctx, script, opts)
}

// Register registers the "cross" and "cargo" actions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("cross", &Runner{Program: "cross"})
	r.RegisterAction("cargo", &Runner{Program: "cargo"})
}
