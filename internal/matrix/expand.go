package matrix

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/specialistvlad/burstmatrix/internal/jobid"
)

// Matrix is the declarative input of the evaluator.
type Matrix struct {
	Platforms  []Platform
	Toolchains []Toolchain
	Include    []Include
	// Namer builds job display names; DefaultName is used when nil.
	Namer Namer
}

// Size returns the number of jobs the matrix expands into.
func (m Matrix) Size() int {
	return len(m.Platforms)*len(m.Toolchains) + len(m.Include)
}

// Validate performs static checks on the matrix before expansion.
func (m Matrix) Validate() error {
	for _, p := range m.Platforms {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	names := lo.Map(m.Platforms, func(p Platform, _ int) string { return p.OSName })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return errors.Wrapf(ErrDuplicate, "platform %q declared more than once", dups[0])
	}

	for _, tc := range m.Toolchains {
		if !tc.Valid() {
			return errors.Wrapf(ErrInvalidToolchain, "%q", string(tc))
		}
	}
	if dups := lo.FindDuplicates(m.Toolchains); len(dups) > 0 {
		return errors.Wrapf(ErrDuplicate, "toolchain %q declared more than once", string(dups[0]))
	}

	for i, inc := range m.Include {
		if err := inc.Platform.Validate(); err != nil {
			return errors.Wrapf(err, "include #%d", i)
		}
		if !inc.Toolchain.Valid() {
			return errors.Wrapf(ErrInvalidToolchain, "include #%d: %q", i, string(inc.Toolchain))
		}
		if err := validateExtra(inc.Extra); err != nil {
			return errors.Wrapf(err, "include #%d", i)
		}
	}

	if m.Size() == 0 {
		return ErrEmptyMatrix
	}
	return nil
}

// reservedEnvKeys are the variables Job.Env always sets.
var reservedEnvKeys = []string{"OS_NAME", "RUNNER", "TARGET", "TOOLCHAIN", "SKIP_TESTS"}

// validateExtra rejects extra fields that would shadow a reserved variable
// or export to the same variable as another field.
func validateExtra(extra map[string]string) error {
	seen := make(map[string]string, len(extra))
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		key := envKey(k)
		if k == "" {
			return errors.Wrap(ErrInvalidExtra, "empty field name")
		}
		if slices.Contains(reservedEnvKeys, key) {
			return errors.Wrapf(ErrInvalidExtra, "field %q shadows MATRIX_%s", k, key)
		}
		if prev, ok := seen[key]; ok {
			return errors.Wrapf(ErrInvalidExtra, "fields %q and %q both export MATRIX_%s", prev, k, key)
		}
		seen[key] = k
	}
	return nil
}

// Expand validates the matrix and returns one Job per combination: every
// platform crossed with every toolchain, followed by the includes.
func Expand(m Matrix) ([]Job, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	namer := m.Namer
	if namer == nil {
		namer = DefaultName
	}

	jobs := make([]Job, 0, m.Size())
	add := func(p Platform, tc Toolchain, extra map[string]string, included bool) error {
		idx := len(jobs)
		job := Job{
			Index:     idx,
			ID:        jobid.New(idx, jobid.Slug(p.OSName), string(tc)),
			Platform:  p,
			Toolchain: tc,
			Extra:     maps.Clone(extra),
			Included:  included,
		}
		name, err := namer(job)
		if err != nil {
			return errors.Wrapf(err, "naming job %s", job.ID)
		}
		job.Name = name
		jobs = append(jobs, job)
		return nil
	}

	for _, p := range m.Platforms {
		for _, tc := range m.Toolchains {
			if err := add(p, tc, nil, false); err != nil {
				return nil, err
			}
		}
	}
	for _, inc := range m.Include {
		if err := add(inc.Platform, inc.Toolchain, inc.Extra, true); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}
