// Package hcl provides the HCL implementation of the config.Loader interface.
// It is responsible for file parsing, translating workflow blocks into the
// format-agnostic model, and converting cty values into Go data.
package hcl
