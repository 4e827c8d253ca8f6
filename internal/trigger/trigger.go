package trigger

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
)

// Event names understood by Matches.
const (
	Push        = "push"
	PullRequest = "pull_request"
)

const (
	headsPrefix = "refs/heads/"
	tagsPrefix  = "refs/tags/"
)

// Event describes the repository event a run is evaluated against.
type Event struct {
	// Name is Push or PullRequest.
	Name string
	// Ref is the pushed ref, either fully qualified (refs/heads/main,
	// refs/tags/v1) or a bare branch name.
	Ref string
	// BaseRef is the target branch of a pull request.
	BaseRef string
}

// Validate checks that the event is one Matches can evaluate.
func (e Event) Validate() error {
	switch e.Name {
	case Push:
		if e.Ref == "" {
			return errors.New("push event requires a ref")
		}
	case PullRequest:
		if e.BaseRef == "" && e.Ref == "" {
			return errors.New("pull_request event requires a base ref")
		}
	default:
		return errors.Newf("unsupported event %q", e.Name)
	}
	return nil
}

// Matches reports whether the event runs a workflow declaring the given
// triggers. A nil Triggers runs for every event.
func Matches(t *config.Triggers, e Event) bool {
	if t == nil {
		return true
	}
	switch e.Name {
	case Push:
		if t.Push == nil {
			return false
		}
		return matchPush(t.Push, e.Ref)
	case PullRequest:
		if t.PullRequest == nil {
			return false
		}
		base := e.BaseRef
		if base == "" {
			base = e.Ref
		}
		return matchBranch(t.PullRequest, strings.TrimPrefix(base, headsPrefix))
	default:
		return false
	}
}

func matchPush(f *config.RefFilter, ref string) bool {
	if tag, ok := strings.CutPrefix(ref, tagsPrefix); ok {
		if !f.HasTagFilters() {
			return !f.HasBranchFilters()
		}
		return filter(f.Tags, f.TagsIgnore, tag)
	}
	branch := strings.TrimPrefix(ref, headsPrefix)
	if !f.HasBranchFilters() {
		return !f.HasTagFilters()
	}
	return filter(f.Branches, f.BranchesIgnore, branch)
}

func matchBranch(f *config.RefFilter, branch string) bool {
	if !f.HasBranchFilters() {
		return true
	}
	return filter(f.Branches, f.BranchesIgnore, branch)
}

// filter applies an include list (empty means everything) and then an
// ignore list.
func filter(include, ignore []string, name string) bool {
	if len(include) > 0 && !anyMatch(include, name) {
		return false
	}
	return !anyMatch(ignore, name)
}

// anyMatch matches name against the patterns. A leading "!" negates a
// pattern; later patterns override earlier ones.
func anyMatch(patterns []string, name string) bool {
	matched := false
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		ok, err := doublestar.Match(p, name)
		if err != nil || !ok {
			continue
		}
		matched = !negate
	}
	return matched
}
