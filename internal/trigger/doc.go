// Package trigger decides whether a repository event runs a workflow.
//
// Filters follow the GitHub Actions rules for push and pull_request events:
// branch and tag filters are globs matched with doublestar, ignore lists
// exclude, and a push filter that names only tags never runs for branch
// pushes (and the other way around).
package trigger
