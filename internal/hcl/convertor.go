package hcl

import (
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isAbsent reports whether an optional expression attribute was left out.
// gohcl fills missing hcl.Expression fields with a static null expression.
func isAbsent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}

// stringMap evaluates an optional object or map attribute into a map of
// strings. Numbers and bools are converted to their string form.
func stringMap(expr hcl.Expression, attr string) (map[string]string, error) {
	if isAbsent(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "evaluating %s", attr)
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: cannot convert %s to map of string", attr, val.Type().FriendlyName())
	}

	out := map[string]string{}
	if converted.LengthInt() == 0 {
		return out, nil
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", attr)
	}
	return out, nil
}

// toCtyValue converts a native Go value into its corresponding cty.Value.
func toCtyValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, errors.Wrap(err, "unable to infer cty.Type")
	}
	return gocty.ToCtyValue(v, ty)
}
