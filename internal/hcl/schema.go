package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes every top-level block of a workflow file.
type fileRoot struct {
	Workflows []*workflowBlock `hcl:"workflow,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// workflowBlock represents a `workflow "<name>" { ... }` block.
type workflowBlock struct {
	Name       string           `hcl:"name,label"`
	FailFast   bool             `hcl:"fail_fast,optional"`
	JobName    hcl.Expression   `hcl:"name,optional"`
	Toolchains []string         `hcl:"toolchains"`
	Env        hcl.Expression   `hcl:"env,optional"`
	On         *onBlock         `hcl:"on,block"`
	Platforms  []*platformBlock `hcl:"platform,block"`
	Includes   []*includeBlock  `hcl:"include,block"`
	Steps      []*stepBlock     `hcl:"step,block"`
}

// onBlock holds the event triggers of a workflow.
type onBlock struct {
	Push        *refFilterBlock `hcl:"push,block"`
	PullRequest *refFilterBlock `hcl:"pull_request,block"`
}

type refFilterBlock struct {
	Branches       []string `hcl:"branches,optional"`
	BranchesIgnore []string `hcl:"branches_ignore,optional"`
	Tags           []string `hcl:"tags,optional"`
	TagsIgnore     []string `hcl:"tags_ignore,optional"`
}

// platformBlock represents a `platform "<os_name>" { ... }` block.
type platformBlock struct {
	OSName    string `hcl:"os_name,label"`
	Runner    string `hcl:"runner,optional"`
	Target    string `hcl:"target"`
	SkipTests bool   `hcl:"skip_tests,optional"`
}

// includeBlock adds one job on top of the cross product. Platform names a
// declared platform; the optional attributes override its fields.
type includeBlock struct {
	Platform  string         `hcl:"platform"`
	Toolchain string         `hcl:"toolchain"`
	Runner    *string        `hcl:"runner,optional"`
	Target    *string        `hcl:"target,optional"`
	SkipTests *bool          `hcl:"skip_tests,optional"`
	Extra     hcl.Expression `hcl:"extra,optional"`
}

// stepBlock represents a `step "<name>" { ... }` block.
type stepBlock struct {
	Name   string         `hcl:"name,label"`
	Action string         `hcl:"action"`
	Args   []string       `hcl:"args,optional"`
	With   hcl.Expression `hcl:"with,optional"`
}
