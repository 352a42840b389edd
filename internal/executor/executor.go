// Package executor launches external processes, either captured or attached
// to a console.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single process launch.
type Command struct {
	Name string
	Args []string

	// NewConsole opens the process in its own console window (Windows only).
	NewConsole bool

	// Hidden starts the process without any window (Windows only).
	Hidden bool
}

// String returns the command line for logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor runs commands with optional dry-run and verbose output.
type Executor struct {
	dryRun  bool
	verbose bool
	out     io.Writer
}

// New creates a new Executor with the given options.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetVerbose enables or disables verbose mode.
func (e *Executor) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// SetOutput redirects dry-run and verbose messages.
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Capture runs a command and returns its stdout and stderr separately.
// A non-zero exit status is reported as an *exec.ExitError alongside
// whatever output was produced.
func (e *Executor) Capture(ctx context.Context, c Command) (string, string, error) {
	if e.dryRun {
		e.printDryRun(c)
		return "", "", nil
	}

	cmd := e.command(ctx, c)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Attach runs a command connected to the user. Commands with NewConsole get
// their own window; all others share this process's terminal.
func (e *Executor) Attach(ctx context.Context, c Command) error {
	if e.dryRun {
		e.printDryRun(c)
		return nil
	}

	cmd := e.command(ctx, c)
	if !c.NewConsole {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}

func (e *Executor) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.SysProcAttr = sysProcAttr(c)

	if e.verbose {
		fmt.Fprintf(e.out, "Executing: %s\n", c)
	}
	return cmd
}

func (e *Executor) printDryRun(c Command) {
	fmt.Fprintf(e.out, "[dry-run] Would execute: %s\n", c)
}

// IsExitError reports whether err only means the process ran and exited
// with a non-zero status, as opposed to never having started.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
