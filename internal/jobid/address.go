package jobid

import (
	"slices"
	"strconv"
	"strings"
)

// String renders the canonical form, e.g. `Linux-x86_64.stable[3]`.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// Equal reports whether both addresses name the same job. Two nil
// addresses are equal.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Path, other.Path)
}

// Index returns the index of the last segment, or -1 when it has none.
func (a *Address) Index() int {
	if a == nil || len(a.Path) == 0 {
		return -1
	}
	return a.Path[len(a.Path)-1].Index
}
