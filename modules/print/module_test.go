package print_test

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/specialistvlad/burstmatrix/modules/print"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	ctx, logs := testutil.NewContext(t)
	var out bytes.Buffer

	req := &action.Request{
		Job: matrix.Job{
			Name:      "FreeBSD-x86_64 with rust stable",
			Platform:  matrix.Platform{OSName: "FreeBSD-x86_64", Runner: "ubuntu-22.04", Target: "x86_64-unknown-freebsd", SkipTests: true},
			Toolchain: matrix.Stable,
			Extra:     map[string]string{"features": "full"},
		},
		Phase:  config.StepBuild,
		Step:   &config.Step{Name: config.StepBuild, Action: "print", With: map[string]string{"env": "true"}, Args: []string{"--locked", "--release"}},
		Env:    []string{"CRATE_NAME=dioxus-heroicons"},
		Stdout: &out,
	}
	require.NoError(t, print.Print(ctx, req))

	want := `      args = "--locked --release"
      env.CRATE_NAME = "dioxus-heroicons"
      extra.features = "full"
      job = "FreeBSD-x86_64 with rust stable"
      os_name = "FreeBSD-x86_64"
      phase = "build"
      runner = "ubuntu-22.04"
      skip_tests = "true"
      target = "x86_64-unknown-freebsd"
      toolchain = "stable"
      with.env = "true"
`
	assert.Equal(t, want, out.String())
	assert.Contains(t, logs.String(), "Printing job parameters.")
}

func TestModule_Register(t *testing.T) {
	r := registry.New(&print.Module{})
	_, ok := r.Action("print")
	assert.True(t, ok)
}
