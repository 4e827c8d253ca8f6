package app

import (
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Command output
// and logs are captured in separate buffers; logs are dumped on cleanup when
// testutil.LogsEnv is set.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	testApp := NewApp(outBuffer, logBuffer, cfg, modules...)

	testutil.DumpLogsOnCleanup(t, logBuffer)
	return testApp, outBuffer, logBuffer
}
