// Package registry provides the central "glue" for the module system.
//
// The Registry maps the action names used in workflow steps (e.g. "cross")
// to the compiled Go code that carries them out. Modules populate it at
// startup, and every loaded workflow is validated against it before any job
// runs, so a misspelled action fails the run up front instead of inside a
// job.
package registry
