// Package matrix is the build-matrix evaluator. It takes a declarative list
// of platforms, a list of toolchain channels and an optional list of extra
// inclusions, and expands them into an ordered list of independent jobs.
//
// # Core Concepts
//
//   - Platform: an operating system label, the runner it is meant for, a
//     target triple, and whether tests are skipped on it.
//
//   - Toolchain: the compiler channel a job is built with (stable, beta,
//     nightly).
//
//   - Include: an explicit (platform, toolchain) pair appended after the
//     cross product, optionally carrying extra fields.
//
//   - Job: one cell of the expanded matrix. Jobs share nothing with each
//     other; each one gets its own identifier, display name and outcome.
//
// # Expansion Order
//
// Platforms are visited in declaration order and each is crossed with the
// toolchains in declaration order. Includes follow, also in declaration
// order. A job's Index is its position in that list, so the number of jobs is
// always len(Platforms)*len(Toolchains) + len(Include).
package matrix
