package matrix

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Platform is one entry of the platform axis of the matrix.
type Platform struct {
	// OSName is the human readable label, e.g. "Linux-x86_64".
	OSName string
	// Runner is the label of the machine the job is meant to run on.
	Runner string
	// Target is the target triple passed to the build and test actions.
	Target string
	// SkipTests disables the test action for every job on this platform.
	SkipTests bool
}

// Validate checks that the platform carries a name and a target triple.
func (p Platform) Validate() error {
	if strings.TrimSpace(p.OSName) == "" {
		return errors.Wrapf(ErrInvalidPlatform, "platform with target %q has no os_name", p.Target)
	}
	if strings.TrimSpace(p.Target) == "" {
		return errors.Wrapf(ErrInvalidPlatform, "platform %q has no target triple", p.OSName)
	}
	return nil
}

// Include is an extra (platform, toolchain) pair appended to the matrix.
type Include struct {
	Platform  Platform
	Toolchain Toolchain
	// Extra holds additional fields exposed to the job's actions.
	Extra map[string]string
}
