package shell_script_test

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/shell"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/specialistvlad/burstmatrix/modules/shell_script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(run string, out *bytes.Buffer) *action.Request {
	job := matrix.Job{
		Platform:  matrix.Platform{OSName: "Linux-x86_64", Target: "x86_64-unknown-linux-gnu"},
		Toolchain: matrix.Nightly,
	}
	return &action.Request{
		Job:    job,
		Phase:  config.StepBuild,
		Step:   &config.Step{Name: config.StepBuild, Action: "shell", With: map[string]string{"run": run}},
		Env:    append([]string{"CRATE_NAME=dioxus-heroicons"}, job.Env()...),
		Stdout: out,
	}
}

func TestOnRunShell(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	var out bytes.Buffer
	req := request(`echo "$CRATE_NAME $MATRIX_TARGET $MATRIX_TOOLCHAIN"`, &out)
	req.Dir = t.TempDir()

	require.NoError(t, shell_script.OnRunShell(ctx, req))
	assert.Equal(t, "dioxus-heroicons x86_64-unknown-linux-gnu nightly\n", out.String())
}

func TestOnRunShell_Failure(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	err := shell_script.OnRunShell(ctx, request("exit 101", &bytes.Buffer{}))
	require.Error(t, err)
	code, ok := shell.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 101, code)
}

func TestOnRunShell_EmptyScript(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	err := shell_script.OnRunShell(ctx, request("", &bytes.Buffer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'run' must not be empty")
}

func TestOnRunShell_DryRun(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	var out bytes.Buffer
	req := request("cargo build --release", &out)
	req.DryRun = true
	require.NoError(t, shell_script.OnRunShell(ctx, req))
	assert.Equal(t, "cargo build --release\n", out.String())
}
