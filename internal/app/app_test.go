package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/executor"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/report"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/specialistvlad/burstmatrix/modules/print"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const printWorkflow = `
workflow "Tests and release" {
  toolchains = ["stable"]
  env = { CRATE_NAME = "dioxus-heroicons", RUST_BACKTRACE = 1 }

  on {
    push {
      branches    = ["**"]
      tags_ignore = ["dioxus-heroicons-*"]
    }
    pull_request {}
  }

  platform "Linux-x86_64" {
    runner = "ubuntu-22.04"
    target = "x86_64-unknown-linux-gnu"
  }

  platform "FreeBSD-x86_64" {
    runner     = "ubuntu-22.04"
    target     = "x86_64-unknown-freebsd"
    skip_tests = true
  }

  step "build" {
    action = "print"
    with   = { env = "true" }
  }

  step "test" { action = "print" }
}
`

const recordWorkflow = `
name: Record
on: [push]
jobs:
  matrix:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        platform:
          - os_name: Linux-x86_64
            target: x86_64-unknown-linux-gnu
          - os_name: Windows-x86_64
            target: x86_64-pc-windows-msvc
        toolchain: [stable, nightly]
    steps:
      - name: Build
        run: cargo build
      - name: Test
        run: cargo test
`

func newTestApp(t *testing.T, files map[string]string, mutate func(*Config), modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()
	dir := testutil.WriteFiles(t, files)
	cfg := Config{Path: dir, Workers: 2}
	if mutate != nil {
		mutate(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	return SetupAppTest(t, validated, modules...)
}

func TestRun_PrintWorkflow(t *testing.T) {
	a, out, logs := newTestApp(t, map[string]string{"ci.hcl": printWorkflow}, nil)

	require.NoError(t, a.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "[Linux-x86_64 with stable]       phase = \"test\"")
	assert.Contains(t, output, "[FreeBSD-x86_64 with stable]       phase = \"build\"")
	assert.NotContains(t, output, "[FreeBSD-x86_64 with stable]       phase = \"test\"")
	assert.Contains(t, output, "CRATE_NAME")
	assert.Contains(t, logs.String(), "Matrix run finished.")
}

func TestRun_FailedJobDoesNotStopOthers(t *testing.T) {
	rec := &testutil.RecordingModule{
		Name:     "shell",
		FailWhen: testutil.FailOn("Windows-x86_64 with stable", config.StepBuild, errors.New("exit status 101")),
	}
	reportFile := filepath.Join(t.TempDir(), "report.json")
	a, _, _ := newTestApp(t, map[string]string{"ci.yml": recordWorkflow}, func(c *Config) {
		c.ReportPath = reportFile
	}, rec)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, executor.ErrJobsFailed)
	assert.Contains(t, err.Error(), "Windows-x86_64 with stable")

	assert.Equal(t, []string{"build", "test"}, rec.Phases("Linux-x86_64 with stable"))
	assert.Equal(t, []string{"build", "test"}, rec.Phases("Windows-x86_64 with nightly"))
	assert.Equal(t, []string{"build"}, rec.Phases("Windows-x86_64 with stable"))

	raw, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var s report.Summary
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, "Record", s.Workflow)
	assert.Equal(t, 3, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Jobs, 4)
}

func TestRun_TriggerFiltering(t *testing.T) {
	testCases := []struct {
		name    string
		ref     string
		wantRun bool
	}{
		{name: "branch push runs", ref: "refs/heads/feature/x", wantRun: true},
		{name: "release tag is ignored", ref: "refs/tags/dioxus-heroicons-v0.4.0", wantRun: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, out, logs := newTestApp(t, map[string]string{"ci.hcl": printWorkflow}, func(c *Config) {
				c.Event = "push"
				c.Ref = tc.ref
			})
			require.NoError(t, a.Run(context.Background()))
			if tc.wantRun {
				assert.Contains(t, out.String(), "[Linux-x86_64 with stable]")
			} else {
				assert.Empty(t, out.String())
				assert.Contains(t, logs.String(), "No workflow is triggered by this event")
			}
		})
	}
}

func TestLoadWorkflows_MixedFormatsAndSelection(t *testing.T) {
	files := map[string]string{"ci.hcl": printWorkflow, "workflows/record.yaml": recordWorkflow}

	a, _, _ := newTestApp(t, files, nil)
	workflows, err := a.LoadWorkflows(a.Context(context.Background()))
	require.NoError(t, err)
	assert.Len(t, workflows, 2)

	a, _, _ = newTestApp(t, files, func(c *Config) { c.Workflow = "record" })
	workflows, err = a.LoadWorkflows(a.Context(context.Background()))
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "Record", workflows[0].Name)

	a, _, _ = newTestApp(t, files, func(c *Config) { c.Workflow = "nope" })
	_, err = a.LoadWorkflows(a.Context(context.Background()))
	require.True(t, errors.Is(err, ErrWorkflowConfig), "got %v", err)
}

func TestLoadWorkflows_EmptyDirectory(t *testing.T) {
	a, _, _ := newTestApp(t, map[string]string{"README.md": "nothing here"}, nil)
	_, err := a.LoadWorkflows(a.Context(context.Background()))
	require.True(t, errors.Is(err, ErrWorkflowConfig), "got %v", err)
	assert.Contains(t, err.Error(), "no workflows found")
}

func TestValidate_ReportsUnknownActions(t *testing.T) {
	a, out, _ := newTestApp(t, map[string]string{"ci.hcl": printWorkflow}, nil, &print.Module{})
	require.NoError(t, a.Validate(context.Background()))
	assert.Contains(t, out.String(), "✅ Tests and release: 2 jobs")

	a, out, _ = newTestApp(t, map[string]string{"ci.yml": recordWorkflow}, nil, &print.Module{})
	err := a.Validate(context.Background())
	require.True(t, errors.Is(err, ErrWorkflowConfig), "got %v", err)
	assert.Contains(t, err.Error(), "unknown action 'shell'")
	assert.Contains(t, out.String(), "❌ Record")
}

func TestPlan_PrintsJobTable(t *testing.T) {
	a, out, _ := newTestApp(t, map[string]string{"ci.yml": recordWorkflow}, nil)
	require.NoError(t, a.Plan(context.Background()))

	output := out.String()
	assert.Contains(t, output, "Record (4 jobs)")
	assert.Contains(t, output, "Windows-x86_64 with nightly")
	assert.Contains(t, output, "x86_64-pc-windows-msvc")
}

func TestHealthHandlers(t *testing.T) {
	a, _, _ := newTestApp(t, map[string]string{"ci.hcl": printWorkflow}, nil)
	ctx := a.Context(context.Background())
	workflows, err := a.LoadWorkflows(ctx)
	require.NoError(t, err)
	jobs, err := a.plan(ctx, workflows[0])
	require.NoError(t, err)
	a.setJobs(jobs)
	require.NoError(t, a.store.SetStatus(ctx, *jobs[1].ID, jobstore.StatusRunning))

	mux := a.healthMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []jobstore.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Equal(t, []jobstore.Entry{
		{ID: "Linux-x86_64.stable[0]", Name: "Linux-x86_64 with stable", Status: jobstore.StatusPending},
		{ID: "FreeBSD-x86_64.stable[1]", Name: "FreeBSD-x86_64 with stable", Status: jobstore.StatusRunning},
	}, entries)
}

func TestJobHandler(t *testing.T) {
	a, _, _ := newTestApp(t, map[string]string{"ci.hcl": printWorkflow}, nil)
	ctx := a.Context(context.Background())
	workflows, err := a.LoadWorkflows(ctx)
	require.NoError(t, err)
	jobs, err := a.plan(ctx, workflows[0])
	require.NoError(t, err)
	a.setJobs(jobs)

	require.NoError(t, a.store.SetStatus(ctx, *jobs[0].ID, jobstore.StatusFailed))
	require.NoError(t, a.store.SetResult(ctx, *jobs[0].ID, &jobstore.Result{
		Job:    jobs[0],
		Status: jobstore.StatusFailed,
		Error:  errors.New("step test failed"),
		Steps: []jobstore.StepResult{
			{Name: "build", Action: "print", Status: jobstore.StepPassed, Duration: 2 * time.Millisecond},
			{Name: "test", Action: "print", Status: jobstore.StepFailed, Error: errors.New("exit status 1")},
		},
	}))
	require.NoError(t, a.store.SetStatus(ctx, *jobs[1].ID, jobstore.StatusRunning))

	mux := a.healthMux()
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("finished job carries steps", func(t *testing.T) {
		rec := get("/jobs/Linux-x86_64.stable[0]")
		require.Equal(t, http.StatusOK, rec.Code)
		var jr report.JobReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jr))
		assert.Equal(t, "Linux-x86_64.stable[0]", jr.ID)
		assert.Equal(t, "failed", jr.Status)
		assert.Equal(t, "step test failed", jr.Error)
		assert.Equal(t, []report.StepReport{
			{Name: "build", Action: "print", Status: "passed", DurationMS: 2},
			{Name: "test", Action: "print", Status: "failed", Error: "exit status 1"},
		}, jr.Steps)
	})

	t.Run("running job carries status only", func(t *testing.T) {
		rec := get("/jobs/FreeBSD-x86_64.stable[1]")
		require.Equal(t, http.StatusOK, rec.Code)
		var entry jobstore.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, jobstore.Entry{
			ID: "FreeBSD-x86_64.stable[1]", Name: "FreeBSD-x86_64 with stable", Status: jobstore.StatusRunning,
		}, entry)
	})

	t.Run("malformed id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get("/jobs/Linux-x86_64.stable[x]").Code)
	})

	t.Run("unknown job", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("/jobs/Linux-x86_64.stable[1]").Code)
	})
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, "out/report.json", reportPath("out/report.json", "Tests and release", false))
	assert.Equal(t, "out/report-tests_and_release.json", reportPath("out/report.json", "Tests and release", true))
	assert.Equal(t, "report-ci_lint", reportPath("report", "CI / lint", true))
	assert.Equal(t, "report-unnamed.yaml", reportPath("report.yaml", "???", true))
}
