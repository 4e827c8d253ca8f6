// Package report turns executor results into a run summary and renders it:
// as a terminal table, as a JSON or YAML document on disk, or uploaded to a
// pre-signed URL.
package report
