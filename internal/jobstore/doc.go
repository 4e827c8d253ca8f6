// Package jobstore holds the mutable execution state of matrix jobs during a
// run: their status and, once finished, their result.
//
// # Lifecycle
//
// A store is created once per run, mutated by the executor as jobs move
// through their states, read by the health endpoint and the reporter, and
// discarded when the run ends. Nothing is persisted across runs.
//
// Jobs follow this lifecycle:
//
//	Pending → Running → Passed | Failed
//	Pending → Cancelled (fail-fast only)
//
// Every job's entry is independent: writing one job's state never touches
// another job's entry.
package jobstore
