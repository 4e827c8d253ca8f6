package jobid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidID is returned by Parse for malformed identifiers.
var ErrInvalidID = errors.New("invalid job identifier")

// nameRegex matches a whole segment name.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// slugRegex matches every run of characters that is not allowed in a segment name.
var slugRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// validName reports whether name can be used as a segment. A lone "-" or
// "_" matches the character set but carries no information.
func validName(name string) bool {
	return nameRegex.MatchString(name) && name != "-" && name != "_"
}

// Parse reads the canonical form produced by Address.String, such as
// `Linux-x86_64.stable[3]`.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, errors.Wrap(ErrInvalidID, "empty identifier")
	}

	parts := strings.Split(rawID, ".")
	addr := &Address{Path: make([]PathSegment, 0, len(parts))}
	for i, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d of %q", i, rawID)
		}
		addr.Path = append(addr.Path, seg)
	}
	return addr, nil
}

// parseSegment reads `name` or `name[index]`.
func parseSegment(s string) (PathSegment, error) {
	name, rest, indexed := strings.Cut(s, "[")
	if !validName(name) {
		return PathSegment{}, errors.Wrapf(ErrInvalidID, "bad segment name %q", name)
	}
	if !indexed {
		return NewPathSegment(name), nil
	}

	digits, ok := strings.CutSuffix(rest, "]")
	if !ok || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return PathSegment{}, errors.Wrapf(ErrInvalidID, "bad index in %q", s)
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return PathSegment{}, errors.Wrapf(ErrInvalidID, "index out of range in %q", s)
	}
	return NewPathSegmentWithIndex(name, index), nil
}

// Slug turns a free-form label into a valid segment name. Runs of
// disallowed characters collapse into a single underscore; an empty or
// fully invalid label becomes "unnamed".
func Slug(label string) string {
	s := strings.Trim(slugRegex.ReplaceAllString(strings.TrimSpace(label), "_"), "_")
	if !validName(s) {
		return "unnamed"
	}
	return s
}
