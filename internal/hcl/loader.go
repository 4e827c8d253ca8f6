package hcl

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/fsutil"
)

// Extension is the file extension of HCL workflow files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under the given paths and translates
// all workflow blocks into a single model. Missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, "failed to parse HCL file %s", file)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, errors.Wrapf(diags, "failed to decode HCL file %s", file)
		}

		for _, block := range root.Workflows {
			wf, err := l.translateWorkflow(ctx, block)
			if err != nil {
				return nil, errors.Wrapf(err, "in %s", file)
			}
			if _, dup := model.Find(wf.Name); dup {
				return nil, errors.Newf("workflow %q declared more than once (again in %s)", wf.Name, file)
			}
			wf.Source = file
			model.Workflows = append(model.Workflows, wf)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "workflows", len(model.Workflows))
	return model, nil
}
