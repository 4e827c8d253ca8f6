package report

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/specialistvlad/burstmatrix/internal/jobid"
	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleJobs() []matrix.Job {
	linux := matrix.Platform{OSName: "Linux-x86_64", Runner: "ubuntu-22.04", Target: "x86_64-unknown-linux-gnu"}
	bsd := matrix.Platform{OSName: "FreeBSD-x86_64", Runner: "ubuntu-22.04", Target: "x86_64-unknown-freebsd", SkipTests: true}
	return []matrix.Job{
		{Index: 0, ID: jobid.New(0, linux.OSName, "stable"), Name: "Linux-x86_64 with stable", Platform: linux, Toolchain: matrix.Stable},
		{Index: 1, ID: jobid.New(1, bsd.OSName, "stable"), Name: "FreeBSD-x86_64 with stable", Platform: bsd, Toolchain: matrix.Stable},
		{Index: 2, ID: jobid.New(2, linux.OSName, "nightly"), Name: "Linux-x86_64 with nightly", Platform: linux, Toolchain: matrix.Nightly},
	}
}

func sampleResults() []*jobstore.Result {
	jobs := sampleJobs()
	return []*jobstore.Result{
		{
			Job: jobs[0], Status: jobstore.StatusPassed, Duration: 1500 * time.Millisecond,
			Steps: []jobstore.StepResult{
				{Name: "build", Action: "cross", Status: jobstore.StepPassed, Duration: time.Second},
				{Name: "test", Action: "cross", Status: jobstore.StepPassed, Duration: 500 * time.Millisecond},
			},
		},
		{
			Job: jobs[1], Status: jobstore.StatusPassed,
			Steps: []jobstore.StepResult{
				{Name: "build", Action: "cross", Status: jobstore.StepPassed},
				{Name: "test", Action: "cross", Status: jobstore.StepSkipped},
			},
		},
		{
			Job: jobs[2], Status: jobstore.StatusFailed, Error: errors.New("step build: exit status 101"),
			Steps: []jobstore.StepResult{
				{Name: "build", Action: "cross", Status: jobstore.StepFailed, Error: errors.New("exit status 101")},
				{Name: "test", Action: "cross", Status: jobstore.StepSkipped},
			},
		},
	}
}

func TestNew_CountsAndOrder(t *testing.T) {
	started := time.Now().Add(-2 * time.Second)
	s := New("run-1", "CI", started, append(sampleResults(), nil))

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 0, s.Cancelled)
	assert.False(t, s.OK())
	assert.GreaterOrEqual(t, s.DurationMS, int64(2000))

	names := make([]string, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{"Linux-x86_64 with stable", "FreeBSD-x86_64 with stable", "Linux-x86_64 with nightly"}, names)

	want := JobReport{
		ID:        "Linux-x86_64.nightly[2]",
		Name:      "Linux-x86_64 with nightly",
		OSName:    "Linux-x86_64",
		Runner:    "ubuntu-22.04",
		Target:    "x86_64-unknown-linux-gnu",
		Toolchain: "nightly",
		Status:    "failed",
		Error:     "step build: exit status 101",
		Steps: []StepReport{
			{Name: "build", Action: "cross", Status: "failed", Error: "exit status 101"},
			{Name: "test", Action: "cross", Status: "skipped"},
		},
	}
	if diff := cmp.Diff(want, s.Jobs[2]); diff != "" {
		t.Errorf("job report mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestFormatFor(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		explicit string
		want     Format
		wantErr  bool
	}{
		{name: "json extension", path: "out/report.json", want: FormatJSON},
		{name: "yaml extension", path: "report.yaml", want: FormatYAML},
		{name: "yml extension", path: "report.YML", want: FormatYAML},
		{name: "no extension defaults to json", path: "report", want: FormatJSON},
		{name: "explicit wins", path: "report.json", explicit: "YAML", want: FormatYAML},
		{name: "unknown explicit", path: "report.json", explicit: "xml", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatFor(tc.path, tc.explicit)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWriteFile_JSONAndYAML(t *testing.T) {
	s := New("run-2", "CI", time.Now(), sampleResults())
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "nested", "report.json")
	require.NoError(t, WriteFile(jsonPath, s, FormatJSON))
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Summary
	require.NoError(t, json.Unmarshal(raw, &fromJSON))
	assert.Equal(t, "run-2", fromJSON.RunID)
	assert.Len(t, fromJSON.Jobs, 3)

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, WriteFile(yamlPath, s, FormatYAML))
	raw, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "run_id: run-2\n")
	assert.Contains(t, string(raw), "\njobs:\n  - id: ")

	var fromYAML Summary
	require.NoError(t, yaml.Unmarshal(raw, &fromYAML))
	assert.Equal(t, s.Failed, fromYAML.Failed)
	assert.Equal(t, "skipped", fromYAML.Jobs[1].Steps[1].Status)
}

func TestTables(t *testing.T) {
	plan := PlanTable(sampleJobs())
	for _, want := range []string{"JOB", "TOOLCHAIN", "FreeBSD-x86_64 with stable", "x86_64-unknown-freebsd", "skip", "nightly"} {
		assert.Contains(t, plan, want)
	}

	run := RunTable(New("run-3", "CI", time.Now(), sampleResults()))
	for _, want := range []string{"STATUS", "Linux-x86_64 with nightly", "failed", "skipped", "1.5s"} {
		assert.Contains(t, run, want)
	}
}

func TestUpload(t *testing.T) {
	var gotMethod, gotType string
	var got Summary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, logs := testutil.NewContext(t)
	s := New("run-4", "CI", time.Now(), sampleResults())
	require.NoError(t, Upload(ctx, srv.URL+"/reports/run-4.json?sig=abc", s, FormatJSON))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "run-4", got.RunID)
	assert.Contains(t, logs.String(), "Successfully uploaded report.")
}

func TestUpload_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ctx, _ := testutil.NewContext(t)
	err := Upload(ctx, srv.URL, New("run-5", "CI", time.Now(), nil), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
