// Package checker coordinates the package-manager runner and the upgrade
// parser behind the three user-facing operations: check, install all and
// open console.
package checker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"upkeep/internal/history"
	"upkeep/internal/runner"
	"upkeep/pkg/upgrade"
)

const (
	// CheckArgs lists upgrades, including packages with unknown versions.
	CheckArgs = "upgrade --include-unknown"

	// InstallArgs upgrades everything silently, accepting all agreements.
	InstallArgs = "upgrade --all -h --include-unknown --accept-package-agreements --accept-source-agreements"

	// Sentinel is returned by every operation whose process could not be launched.
	Sentinel = runner.Sentinel
)

// Runner executes one package-manager invocation.
type Runner interface {
	Run(ctx context.Context, inv runner.Invocation) (string, error)
}

// Recorder persists a finished operation.
type Recorder interface {
	Record(entry *history.Entry) error
}

// Observer is told about every completed check.
type Observer interface {
	ObserveReport(report Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Report)

// ObserveReport implements Observer.
func (f ObserverFunc) ObserveReport(report Report) { f(report) }

// Report is the outcome of one check cycle.
type Report struct {
	Trigger history.Trigger

	// Raw is the captured output, or Sentinel when the launch failed.
	Raw string

	// Display is the filtered text shown to the user.
	Display string

	Upgrades     []upgrade.Upgrade
	LaunchFailed bool
	CheckedAt    time.Time
	Duration     time.Duration
}

// Summary returns a one-line description of the report.
func (r Report) Summary() string {
	if r.LaunchFailed {
		return Sentinel
	}
	return upgrade.Summary(r.Upgrades)
}

// Option configures a Checker.
type Option func(*Checker)

// WithRecorder stores every operation in rec.
func WithRecorder(rec Recorder) Option {
	return func(c *Checker) {
		c.recorder = rec
	}
}

// WithObserver adds an observer for check reports.
func WithObserver(obs Observer) Option {
	return func(c *Checker) {
		c.observers = append(c.observers, obs)
	}
}

// Checker runs the check, install and console operations. It holds no
// mutable state after construction, so calls may overlap freely.
type Checker struct {
	runner    Runner
	log       *zap.Logger
	recorder  Recorder
	observers []Observer
}

// New creates a Checker.
func New(r Runner, log *zap.Logger, opts ...Option) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Checker{runner: r, log: log.Named("checker")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the list command and returns display-ready text: the listing
// with banner noise removed, a placeholder when there was no output, or
// Sentinel when the package manager could not be launched.
func (c *Checker) Check(ctx context.Context) string {
	return c.CheckReport(ctx, history.TriggerManual).Display
}

// CheckReport runs the list command once and returns both the parsed
// records and the display text. Observers and the recorder are fed after
// the run; they cannot change the report.
func (c *Checker) CheckReport(ctx context.Context, trigger history.Trigger) Report {
	report := c.check(ctx, trigger)

	c.record(history.OpCheck, trigger, func(e *history.Entry) {
		if report.LaunchFailed {
			e.MarkFailed(runner.ErrLaunch)
			return
		}
		e.SetPackages(upgrade.IDs(report.Upgrades))
		e.MarkSuccess()
	})

	for _, obs := range c.observers {
		obs.ObserveReport(report)
	}

	return report
}

// ListUpgrades runs the list command and returns the parsed records. A
// launch failure yields no records.
func (c *Checker) ListUpgrades(ctx context.Context) []upgrade.Upgrade {
	return c.check(ctx, history.TriggerManual).Upgrades
}

func (c *Checker) check(ctx context.Context, trigger history.Trigger) Report {
	start := time.Now()
	report := Report{Trigger: trigger, CheckedAt: start}

	raw, err := c.runner.Run(ctx, runner.Invocation{
		Args:          CheckArgs,
		CaptureOutput: true,
	})
	report.Duration = time.Since(start)

	if err != nil {
		c.log.Warn("upgrade check failed", zap.String("trigger", string(trigger)), zap.Error(err))
		report.Raw = Sentinel
		report.Display = Sentinel
		report.LaunchFailed = true
		return report
	}

	report.Raw = raw
	report.Display = upgrade.FilterDisplay(raw)
	report.Upgrades = upgrade.Parse(raw)

	c.log.Info("upgrade check finished",
		zap.String("trigger", string(trigger)),
		zap.Int("upgrades", len(report.Upgrades)),
		zap.Strings("packages", upgrade.IDs(report.Upgrades)),
		zap.Duration("duration", report.Duration))

	return report
}

// InstallAll upgrades every package in an elevated console that pauses
// before closing. It returns once the console exits.
func (c *Checker) InstallAll(ctx context.Context) string {
	return c.interactive(ctx, history.OpInstall, runner.Invocation{
		Args:       InstallArgs,
		Elevate:    true,
		PauseAfter: true,
	})
}

// OpenConsole starts an elevated console with the package manager that
// stays open for the user.
func (c *Checker) OpenConsole(ctx context.Context) string {
	return c.interactive(ctx, history.OpConsole, runner.Invocation{
		Elevate:         true,
		KeepConsoleOpen: true,
	})
}

func (c *Checker) interactive(ctx context.Context, op history.Operation, inv runner.Invocation) string {
	out, err := c.runner.Run(ctx, inv)

	c.record(op, history.TriggerManual, func(e *history.Entry) {
		if err != nil {
			e.MarkFailed(err)
			return
		}
		e.MarkSuccess()
	})

	if err != nil {
		c.log.Warn("package manager run failed", zap.String("operation", string(op)), zap.Error(err))
		return Sentinel
	}
	return out
}

func (c *Checker) record(op history.Operation, trigger history.Trigger, fill func(*history.Entry)) {
	if c.recorder == nil {
		return
	}

	entry := history.NewEntry(op, trigger)
	fill(entry)

	if err := c.recorder.Record(entry); err != nil {
		c.log.Warn("failed to record history", zap.String("operation", string(op)), zap.Error(err))
	}
}

// IsSentinel reports whether text is the launch-failure sentinel.
func IsSentinel(text string) bool {
	return text == Sentinel
}
