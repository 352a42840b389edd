// Package runner invokes the package manager with optional elevation and
// output capture.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"upkeep/internal/executor"
)

const (
	// Sentinel is the text callers receive when the process could not be
	// launched, for example when the user declines the elevation prompt.
	Sentinel = "Elevation cancelled."

	// ConsoleShown is returned once an interactive console run has finished.
	ConsoleShown = "Console displayed. Check window for output."
)

// ErrLaunch is returned when the process could not be started or elevation
// was refused.
var ErrLaunch = errors.New("failed to launch process")

// Invocation describes one package-manager run.
type Invocation struct {
	// Args is appended verbatim to the package-manager command.
	Args string

	// Elevate requests administrator/root privileges.
	Elevate bool

	// CaptureOutput collects stdout/stderr instead of showing a console.
	CaptureOutput bool

	// KeepConsoleOpen leaves the interactive shell running after the command.
	KeepConsoleOpen bool

	// PauseAfter waits for a key press before the console closes.
	PauseAfter bool
}

// Runner executes invocations through a platform shell.
type Runner struct {
	exec  *executor.Executor
	shell Shell
	log   *zap.Logger
}

// New creates a Runner.
func New(exec *executor.Executor, shell Shell, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{exec: exec, shell: shell, log: log}
}

// Run executes inv and blocks until the process exits.
//
// Captured runs return stderr when it is non-empty and stdout otherwise; the
// exit status of the package manager is not treated as a failure. Interactive
// runs return ConsoleShown. Any failure to start the process, or a refused
// elevation, is returned as an error wrapping ErrLaunch.
func (r *Runner) Run(ctx context.Context, inv Invocation) (string, error) {
	launch := r.shell.Build(inv)
	log := r.log.With(zap.String("args", inv.Args), zap.Bool("elevate", inv.Elevate))
	start := time.Now()

	if launch.Preflight != nil {
		log.Debug("requesting elevation", zap.Stringer("command", launch.Preflight))
		if err := r.exec.Attach(ctx, *launch.Preflight); err != nil {
			log.Warn("elevation refused", zap.Error(err))
			return "", fmt.Errorf("%w: elevation: %w", ErrLaunch, err)
		}
	}

	log.Debug("starting package manager", zap.Stringer("command", launch.Main))

	if inv.CaptureOutput {
		stdout, stderr, err := r.exec.Capture(ctx, launch.Main)
		if err := r.launchError(launch, err); err != nil {
			log.Warn("package manager did not start", zap.Error(err))
			return "", err
		}

		log.Info("package manager finished",
			zap.Duration("duration", time.Since(start)),
			zap.Int("stdout_bytes", len(stdout)),
			zap.Int("stderr_bytes", len(stderr)),
			zap.NamedError("exit", err))

		if stderr != "" {
			return stderr, nil
		}
		return stdout, nil
	}

	err := r.exec.Attach(ctx, launch.Main)
	if err := r.launchError(launch, err); err != nil {
		log.Warn("package manager console did not start", zap.Error(err))
		return "", err
	}

	log.Info("package manager console closed",
		zap.Duration("duration", time.Since(start)),
		zap.NamedError("exit", err))
	return ConsoleShown, nil
}

// launchError classifies err. Exit errors from the package manager itself are
// not launch failures; exit errors from an elevation wrapper are.
func (r *Runner) launchError(launch Launch, err error) error {
	if err == nil {
		return nil
	}
	if executor.IsExitError(err) && !launch.ElevationWrapped {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrLaunch, err)
}
