// Package exec runs the external tools the pipeline stages are built on.
// Every tool is consumed through its command-line contract: a source tree
// in, an exit code and optionally a report file out.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
)

type (
	// Command describes one external tool invocation.
	Command struct {
		Program string
		Args    []string
		Dir     string
		Env     map[string]string
	}

	// Result holds the captured output and exit status of an invocation.
	Result struct {
		Stdout   string
		Stderr   string
		ExitCode int
		Err      error
	}

	Option func(*options)

	options struct {
		reportPath string
		stdout     io.Writer
	}
)

// Ok reports whether the command started and exited zero.
func (r *Result) Ok() bool {
	return r.Err == nil && r.ExitCode == 0
}

// WithReport tees the combined tool output into the file at path,
// overwriting any previous report.
func WithReport(path string) Option {
	return func(o *options) {
		o.reportPath = path
	}
}

// WithStdout adds an extra writer receiving the tool's stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// Run executes cmd synchronously and never returns a nil Result. A missing
// program or start failure is reported through Result.Err with exit code -1;
// a non-zero tool exit is not an error at this layer.
func Run(ctx context.Context, cmd Command, opts ...Option) *Result {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := osexec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range cmd.Env {
			c.Env = append(c.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutWriters := []io.Writer{&stdoutBuf}
	stderrWriters := []io.Writer{&stderrBuf}

	if o.stdout != nil {
		stdoutWriters = append(stdoutWriters, o.stdout)
	}

	var report *os.File
	if o.reportPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.reportPath), 0o755); err != nil {
			return &Result{ExitCode: -1, Err: fmt.Errorf("unable to create report directory: %w", err)}
		}

		f, err := os.Create(o.reportPath)
		if err != nil {
			return &Result{ExitCode: -1, Err: fmt.Errorf("unable to create report file: %w", err)}
		}
		report = f
		stdoutWriters = append(stdoutWriters, f)
		stderrWriters = append(stderrWriters, f)
	}

	c.Stdout = io.MultiWriter(stdoutWriters...)
	c.Stderr = io.MultiWriter(stderrWriters...)

	err := c.Run()
	if report != nil {
		_ = report.Close()
	}

	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	var exitErr *osexec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Err = fmt.Errorf("unable to run %s: %w", cmd.Program, err)
	}

	return result
}
