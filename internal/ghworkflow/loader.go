package ghworkflow

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions of workflow files.
var Extensions = []string{".yml", ".yaml"}

// Loader is the GitHub Actions implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new workflow file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every workflow file found under the given paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered workflow files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", file)
		}
		parsed, err := l.Parse(ctx, file, data)
		if err != nil {
			return nil, err
		}
		for _, wf := range parsed.Workflows {
			if _, dup := model.Find(wf.Name); dup {
				return nil, errors.Newf("workflow %q declared more than once (again in %s)", wf.Name, file)
			}
		}
		model.Merge(parsed)
	}

	logger.Debug("Workflow loading complete.", "files", len(files), "workflows", len(model.Workflows))
	return model, nil
}

// Parse translates a single workflow document. The filename is recorded as
// the source of every workflow and names workflows whose file has no name.
func (l *Loader) Parse(ctx context.Context, filename string, data []byte) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse workflow file %s", filename)
	}

	baseName := doc.Name
	if baseName == "" {
		baseName = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	keys := make([]string, 0, len(doc.Jobs))
	for k, job := range doc.Jobs {
		if job == nil || job.Strategy == nil || job.Strategy.Matrix == nil {
			logger.Debug("Skipping job without a strategy matrix.", "job", k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	model := &config.Model{}
	for _, key := range keys {
		name := baseName
		if len(keys) > 1 {
			name = baseName + " / " + key
		}
		wf, err := translateJob(ctx, name, &doc, doc.Jobs[key])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: job %q", filename, key)
		}
		wf.Source = filename
		model.Workflows = append(model.Workflows, wf)
	}
	return model, nil
}
