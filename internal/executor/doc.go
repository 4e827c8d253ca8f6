// Package executor runs the jobs of an expanded matrix.
//
// At most Workers jobs run at once, started in expansion order. Each job
// runs its steps in order (checkout, build, then test unless the platform
// skips tests) and records its own result. Without fail-fast a failing job never affects its
// siblings; with fail-fast the first failure cancels every job that has not
// finished yet. Jobs are never retried.
package executor
