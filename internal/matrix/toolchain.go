package matrix

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Toolchain is a compiler release channel.
type Toolchain string

const (
	Stable  Toolchain = "stable"
	Beta    Toolchain = "beta"
	Nightly Toolchain = "nightly"
)

// Toolchains lists every known channel in release order.
var Toolchains = []Toolchain{Stable, Beta, Nightly}

// ParseToolchain converts a channel name into a Toolchain. Matching ignores
// case and surrounding whitespace.
func ParseToolchain(s string) (Toolchain, error) {
	switch tc := Toolchain(strings.ToLower(strings.TrimSpace(s))); tc {
	case Stable, Beta, Nightly:
		return tc, nil
	default:
		return "", errors.Wrapf(ErrInvalidToolchain, "%q (want one of stable, beta, nightly)", s)
	}
}

// ParseToolchains parses a list of channel names, keeping their order.
func ParseToolchains(names []string) ([]Toolchain, error) {
	out := make([]Toolchain, 0, len(names))
	for _, name := range names {
		tc, err := ParseToolchain(name)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

// Valid reports whether t is one of the known channels.
func (t Toolchain) Valid() bool {
	switch t {
	case Stable, Beta, Nightly:
		return true
	}
	return false
}

func (t Toolchain) String() string {
	return string(t)
}
