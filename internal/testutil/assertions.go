package testutil

import (
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/jobstore"
	"github.com/stretchr/testify/require"
)

// AssertStep checks that a job result recorded the named step with the
// expected status.
func AssertStep(t *testing.T, res *jobstore.Result, step string, want jobstore.StepStatus) {
	t.Helper()
	require.NotNil(t, res)

	got, ok := res.Step(step)
	require.True(t, ok, "job %q recorded no %q step", res.Job.Name, step)
	require.Equal(t, want, got.Status, "job %q, step %q", res.Job.Name, step)
}
