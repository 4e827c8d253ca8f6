package print

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Print is the handler for the 'print' action. It writes the resolved
// parameters of the job step, one `key = "value"` line each, sorted by key.
// Setting `with.env = "true"` also prints the step environment.
func Print(ctx context.Context, req *action.Request) error {
	ctxlog.FromContext(ctx).Info("Printing job parameters.", "phase", req.Phase)

	values := map[string]string{
		"job":        req.Job.Name,
		"phase":      req.Phase,
		"os_name":    req.Job.Platform.OSName,
		"runner":     req.Job.Platform.Runner,
		"target":     req.Job.Platform.Target,
		"toolchain":  string(req.Job.Toolchain),
		"skip_tests": strconv.FormatBool(req.Job.Platform.SkipTests),
	}
	for k, v := range req.Job.Extra {
		values["extra."+k] = v
	}
	if req.Step != nil {
		for k, v := range req.Step.With {
			values["with."+k] = v
		}
		if len(req.Step.Args) > 0 {
			values["args"] = strings.Join(req.Step.Args, " ")
		}
	}
	if req.With("env") == "true" {
		for _, kv := range req.Env {
			if k, v, ok := strings.Cut(kv, "="); ok {
				values["env."+k] = v
			}
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := req.Stdout
	if out == nil {
		out = io.Discard
	}
	for _, k := range keys {
		fmt.Fprintf(out, "      %s = %q\n", k, values[k])
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("print", action.Func(Print))
}
