package shell_script

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/shell"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunShell is the handler for the 'shell' action. It runs the `with.run`
// script in the job's working directory with the job environment.
func OnRunShell(ctx context.Context, req *action.Request) error {
	script := req.With("run")
	if script == "" {
		return errors.New("shell: 'run' must not be empty")
	}

	if req.DryRun {
		out := req.Stdout
		if out == nil {
			out = io.Discard
		}
		fmt.Fprintln(out, script)
		return nil
	}

	ctxlog.FromContext(ctx).Debug("Running shell script.", "phase", req.Phase, "dir", req.Dir)
	return shell.Run(ctx, script, req.ShellOptions())
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("shell", action.Func(OnRunShell))
}
