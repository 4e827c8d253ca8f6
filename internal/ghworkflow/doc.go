// Package ghworkflow loads GitHub Actions workflow files into the
// format-agnostic config model.
//
// Only the subset a build matrix needs is understood: triggers, the job
// strategy matrix, and the checkout, cross and run steps. Every job with a
// strategy matrix becomes one workflow in the model; other jobs are
// skipped.
package ghworkflow
