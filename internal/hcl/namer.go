package hcl

import (
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Variables available to a workflow's job name template.
const (
	varPlatform  = "platform"
	varToolchain = "toolchain"
	varExtra     = "extra"
)

// platformVars is the shape of the `platform` template variable.
type platformVars struct {
	OSName    string `cty:"os_name"`
	Runner    string `cty:"runner"`
	Target    string `cty:"target"`
	SkipTests bool   `cty:"skip_tests"`
}

// checkNameVariables rejects references to anything but the job variables.
func checkNameVariables(expr hcl.Expression) error {
	var diags hcl.Diagnostics
	for _, traversal := range expr.Variables() {
		switch traversal.RootName() {
		case varPlatform, varToolchain, varExtra:
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown variable in job name",
				Detail:   "Only platform, toolchain and extra can be referenced, got " + traversal.RootName() + ".",
				Subject:  traversal.SourceRange().Ptr(),
			})
		}
	}
	if diags.HasErrors() {
		return diags
	}
	return nil
}

// templateNamer returns a matrix.Namer that evaluates expr for every job.
func templateNamer(expr hcl.Expression) matrix.Namer {
	return func(j matrix.Job) (string, error) {
		evalCtx, err := jobEvalContext(j)
		if err != nil {
			return "", err
		}
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return "", diags
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", errors.Wrapf(err, "job name must be a string, got %s", val.Type().FriendlyName())
		}
		if str.IsNull() {
			return "", errors.New("job name evaluated to null")
		}
		return str.AsString(), nil
	}
}

func jobEvalContext(j matrix.Job) (*hcl.EvalContext, error) {
	platform, err := toCtyValue(platformVars{
		OSName:    j.Platform.OSName,
		Runner:    j.Platform.Runner,
		Target:    j.Platform.Target,
		SkipTests: j.Platform.SkipTests,
	})
	if err != nil {
		return nil, err
	}

	extra := make(map[string]cty.Value, len(j.Extra))
	for k, v := range j.Extra {
		extra[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			varPlatform:  platform,
			varToolchain: cty.StringVal(string(j.Toolchain)),
			varExtra:     cty.ObjectVal(extra),
		},
	}, nil
}
