package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
)

// ValidateWorkflow checks that every step of the workflow refers to a
// registered action. All problems are reported at once.
func (r *Registry) ValidateWorkflow(ctx context.Context, wf *config.Workflow) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if wf.Build == nil {
		errs = append(errs, fmt.Sprintf("workflow '%s': missing '%s' step", wf.Name, config.StepBuild))
	}
	for _, step := range wf.Steps() {
		if _, ok := r.actions[step.Action]; !ok {
			errs = append(errs, fmt.Sprintf("workflow '%s', step '%s': unknown action '%s' (available: %s)",
				wf.Name, step.Name, step.Action, strings.Join(r.Names(), ", ")))
		}
	}

	if len(errs) > 0 {
		return errors.Newf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Workflow actions validated.", "workflow", wf.Name, "steps", len(wf.Steps()))
	return nil
}
