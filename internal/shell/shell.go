// Package shell runs scripts through the mvdan.cc/sh interpreter, so steps
// behave the same on every host without depending on a system shell.
package shell

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Options configures a single script execution.
type Options struct {
	// Name identifies the script in parse errors.
	Name string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the process environment, later entries win.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Run parses and executes script. A script that exits non-zero returns an
// error from which ExitCode recovers the status.
func Run(ctx context.Context, script string, opts Options) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(script), opts.Name)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", opts.Name)
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	environ := append(os.Environ(), opts.Env...)
	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return errors.Wrap(err, "creating shell interpreter")
	}

	if err := runner.Run(ctx, file); err != nil {
		if code, ok := ExitCode(err); ok {
			return errors.Wrapf(err, "%s exited with status %d", opts.Name, code)
		}
		return errors.Wrapf(err, "running %s", opts.Name)
	}
	return nil
}

// ExitCode returns the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return int(status), true
	}
	return 0, false
}
