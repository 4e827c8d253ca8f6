package matrix

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidToolchain is returned for a toolchain channel outside stable, beta and nightly.
	ErrInvalidToolchain = errors.New("invalid toolchain channel")
	// ErrInvalidPlatform is returned for a platform missing its name or target triple.
	ErrInvalidPlatform = errors.New("invalid platform")
	// ErrDuplicate is returned when a platform name or toolchain is declared twice.
	ErrDuplicate = errors.New("duplicate matrix entry")
	// ErrInvalidExtra is returned for an include field that cannot be exported as a variable.
	ErrInvalidExtra = errors.New("invalid include field")
	// ErrEmptyMatrix is returned when a matrix would expand into zero jobs.
	ErrEmptyMatrix = errors.New("matrix expands to no jobs")
)
