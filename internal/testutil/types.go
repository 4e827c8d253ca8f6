package testutil

import "time"

// ExecutionRecord holds the start and end times of a single action call.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Call is one recorded invocation of a recording action.
type Call struct {
	ExecutionRecord
	Job   string
	Phase string
	Env   []string
	Dir   string
}
