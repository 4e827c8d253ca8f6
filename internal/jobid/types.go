package jobid

// PathSegment represents a single component of an address path, e.g., `name[index]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// Address is the structured representation of a unique job identifier.
type Address struct {
	Path []PathSegment
}

// New builds an address from already valid segment names. The last segment
// carries the index when index is not negative.
func New(index int, names ...string) *Address {
	addr := &Address{Path: make([]PathSegment, 0, len(names))}
	for i, name := range names {
		if i == len(names)-1 && index >= 0 {
			addr.Path = append(addr.Path, NewPathSegmentWithIndex(name, index))
			continue
		}
		addr.Path = append(addr.Path, NewPathSegment(name))
	}
	return addr
}
