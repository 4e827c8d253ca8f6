/*
Package jobid provides a structured, type-safe representation for matrix job
identifiers, based on the canonical format `path`.

The format is a dot-separated sequence of segments with an optional index on
each segment, e.g. `Linux-x86_64.stable[3]`. Free-form names such as
operating system labels are turned into valid segments with Slug.
*/
package jobid
