package matrix

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/burstmatrix/internal/jobid"
)

// Job is a single cell of the expanded matrix.
type Job struct {
	// Index is the position of the job in expansion order.
	Index int
	// ID is the structured identifier, `<os-slug>.<toolchain>[<index>]`.
	ID *jobid.Address
	// Name is the display name produced by the matrix Namer.
	Name      string
	Platform  Platform
	Toolchain Toolchain
	// Extra holds the extra fields of an include; nil for base jobs.
	Extra map[string]string
	// Included is true for jobs that came from the include list.
	Included bool
}

// RunsTests reports whether the test action must run for this job.
func (j Job) RunsTests() bool {
	return !j.Platform.SkipTests
}

// Slug is a filesystem and identifier friendly name for the job.
func (j Job) Slug() string {
	return fmt.Sprintf("%s-%s-%d", jobid.Slug(j.Platform.OSName), j.Toolchain, j.Index)
}

// Env returns the matrix variables of the job as KEY=value pairs. Extra
// fields are exported as MATRIX_<KEY>, sorted by key.
func (j Job) Env() []string {
	env := []string{
		"MATRIX_OS_NAME=" + j.Platform.OSName,
		"MATRIX_RUNNER=" + j.Platform.Runner,
		"MATRIX_TARGET=" + j.Platform.Target,
		"MATRIX_TOOLCHAIN=" + string(j.Toolchain),
		"MATRIX_SKIP_TESTS=" + strconv.FormatBool(j.Platform.SkipTests),
	}

	keys := make([]string, 0, len(j.Extra))
	for k := range j.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, "MATRIX_"+envKey(k)+"="+j.Extra[k])
	}
	return env
}

// envKey upper-cases a field name and replaces anything that is not a
// letter or digit with an underscore.
func envKey(k string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, k)
}

// Namer produces the display name of a job.
type Namer func(Job) (string, error)

// DefaultName is the Namer used when a matrix does not provide one.
func DefaultName(j Job) (string, error) {
	return fmt.Sprintf("%s with %s", j.Platform.OSName, j.Toolchain), nil
}
