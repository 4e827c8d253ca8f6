package ghworkflow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
)

var expressionPattern = regexp.MustCompile(`\$\{\{\s*([^}]*?)\s*\}\}`)

var platformFields = map[string]func(matrix.Platform) string{
	"os_name":    func(p matrix.Platform) string { return p.OSName },
	"os":         func(p matrix.Platform) string { return p.Runner },
	"target":     func(p matrix.Platform) string { return p.Target },
	"skip_tests": func(p matrix.Platform) string { return strconv.FormatBool(p.SkipTests) },
}

// expressionNamer turns a job name containing `${{ matrix.* }}` expressions
// into a matrix.Namer. Extra fields a job does not carry render empty.
func expressionNamer(template string) (matrix.Namer, error) {
	for _, m := range expressionPattern.FindAllStringSubmatch(template, -1) {
		path, ok := strings.CutPrefix(m[1], "matrix.")
		if !ok {
			return nil, errors.Newf("job name: unsupported expression %q", m[0])
		}
		if field, isPlatform := strings.CutPrefix(path, "platform."); isPlatform {
			if _, known := platformFields[field]; !known {
				return nil, errors.Newf("job name: unknown platform field %q", field)
			}
		}
	}

	return func(j matrix.Job) (string, error) {
		return expressionPattern.ReplaceAllStringFunc(template, func(expr string) string {
			m := expressionPattern.FindStringSubmatch(expr)
			return matrixValue(j, strings.TrimPrefix(m[1], "matrix."))
		}), nil
	}, nil
}

func matrixValue(j matrix.Job, path string) string {
	if field, ok := strings.CutPrefix(path, "platform."); ok {
		return platformFields[field](j.Platform)
	}
	if path == "toolchain" {
		return string(j.Toolchain)
	}
	return j.Extra[path]
}
