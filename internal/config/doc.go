// Package config defines the format-agnostic workflow model for the
// application, along with the Loader interface for reading it from files.
//
// The `config.Model` is the single source of truth for the matrix evaluator
// and the executor. Concrete loaders, for HCL and for GitHub Actions style
// YAML, live in separate packages.
package config
