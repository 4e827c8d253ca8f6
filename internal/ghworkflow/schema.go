package ghworkflow

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// document is the top level of a workflow file.
type document struct {
	Name string              `yaml:"name"`
	On   triggerSpec         `yaml:"on"`
	Env  map[string]string   `yaml:"env"`
	Jobs map[string]*jobSpec `yaml:"jobs"`
}

// triggerSpec accepts the three shapes of the `on` key: a single event
// name, a list of event names, or a map of event name to filters.
type triggerSpec struct {
	Declared bool
	Events   map[string]*refFilterSpec
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (t *triggerSpec) UnmarshalYAML(value *yaml.Node) error {
	t.Declared = true
	t.Events = make(map[string]*refFilterSpec)

	switch value.Kind {
	case yaml.ScalarNode:
		t.Events[value.Value] = nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return errors.Wrap(err, "on")
		}
		for _, n := range names {
			t.Events[n] = nil
		}
	case yaml.MappingNode:
		if err := value.Decode(&t.Events); err != nil {
			return errors.Wrap(err, "on")
		}
	default:
		return errors.Newf("on: unsupported YAML node kind %d at line %d", value.Kind, value.Line)
	}
	return nil
}

type refFilterSpec struct {
	Branches       []string `yaml:"branches"`
	BranchesIgnore []string `yaml:"branches-ignore"`
	Tags           []string `yaml:"tags"`
	TagsIgnore     []string `yaml:"tags-ignore"`
}

type jobSpec struct {
	Name     string            `yaml:"name"`
	RunsOn   string            `yaml:"runs-on"`
	Env      map[string]string `yaml:"env"`
	Strategy *strategySpec     `yaml:"strategy"`
	Steps    []*stepSpec       `yaml:"steps"`
}

type strategySpec struct {
	FailFast *bool       `yaml:"fail-fast"`
	Matrix   *matrixSpec `yaml:"matrix"`
}

type matrixSpec struct {
	Platform  []*platformSpec `yaml:"platform"`
	Toolchain []string        `yaml:"toolchain"`
	Include   []*includeSpec  `yaml:"include"`
}

// platformSpec is one entry of `strategy.matrix.platform`. Runner is read
// from `os`, the key used by runs-on expressions.
type platformSpec struct {
	OSName    string `yaml:"os_name"`
	Runner    string `yaml:"os"`
	Target    string `yaml:"target"`
	SkipTests bool   `yaml:"skip_tests"`
}

type stepSpec struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	With map[string]string `yaml:"with"`
	Env  map[string]string `yaml:"env"`
}

// includeSpec is one entry of `strategy.matrix.include`. The platform is
// either a full platform object or the os_name of a declared platform; every
// key other than platform and toolchain is an extra field.
type includeSpec struct {
	Platform    *platformSpec
	PlatformRef string
	Toolchain   string
	Extra       map[string]string
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *includeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.Newf("include entry at line %d must be a map", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		switch {
		case key == "platform" && val.Kind == yaml.ScalarNode:
			s.PlatformRef = val.Value
		case key == "platform":
			s.Platform = new(platformSpec)
			if err := val.Decode(s.Platform); err != nil {
				return errors.Wrapf(err, "include platform at line %d", val.Line)
			}
		case val.Kind != yaml.ScalarNode:
			return errors.Newf("include key %q at line %d must be a scalar", key, val.Line)
		case key == "toolchain":
			s.Toolchain = val.Value
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]string)
			}
			s.Extra[key] = val.Value
		}
	}
	return nil
}
