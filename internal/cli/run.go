package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"upkeep/internal/checker"
	"upkeep/internal/config"
	"upkeep/internal/history"
	"upkeep/internal/metrics"
	"upkeep/internal/notify"
	"upkeep/internal/scheduler"
	"upkeep/internal/tui"
	"upkeep/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// historyRetention is how long the daemon keeps history entries.
const historyRetention = 90 * 24 * time.Hour

var headless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check for upgrades periodically",
	Long: `Check for upgrades once at startup and then every UpdateIntervalHours
hours. Results are recorded in the history, written to the metrics
textfile, and announced with a desktop notification when upgrades are
available.

The menu offers an immediate check, installing all upgrades and, when
enabled in the settings, an elevated winget console and an Exit item.

Examples:
  upkeep run                # Scheduler with the menu
  upkeep run --headless     # Scheduler only, stop with Ctrl+C`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&headless, "headless", false, "run the scheduler without the menu")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The menu owns the terminal; console logging would draw over it.
	if !headless && verbose {
		if err := openLog(false); err != nil {
			return err
		}
	}

	// Pruning needs the store before the checker holds it open.
	pruneHistory()

	chk, done := newChecker(
		checker.WithObserver(metrics.NewRegistry(config.MetricsPath(), log)),
		checker.WithObserver(notify.NewUpgradeObserver(notify.NewDesktopNotifier(proc), log)),
	)
	defer done()

	var program *tea.Program
	if !headless {
		program = tui.NewProgram(ctx, tui.NewApp(ctx, cfg, chk))
	}

	interval := scheduler.EffectiveInterval(cfg.UpdateIntervalHours)
	sched := scheduler.New(interval, func(tick scheduler.Tick) {
		report := chk.CheckReport(ctx, triggerFor(tick))
		if program != nil {
			// Send blocks while a shared-terminal run holds the program.
			go program.Send(tui.CheckResultMsg{Report: report})
			return
		}
		ui.InfoMsg("[%s] %s", report.CheckedAt.Format("2006-01-02 15:04"), report.Summary())
	}, log)

	log.Info("starting", zap.Duration("interval", interval), zap.Bool("headless", headless))
	sched.Start()
	defer shutdown(stop, sched)

	if headless {
		ui.InfoMsg("Checking for upgrades every %s (Ctrl+C to stop)", interval)
		<-ctx.Done()
		log.Info("shutting down")
		return nil
	}

	if _, err := program.Run(); err != nil && !isShutdown(err) {
		return fmt.Errorf("menu failed: %w", err)
	}
	log.Info("shutting down")
	return nil
}

// shutdown cancels in-flight checks, then waits for the scheduler to stop.
func shutdown(cancel context.CancelFunc, sched *scheduler.Scheduler) {
	cancel()
	sched.Stop()
}

// triggerFor maps a scheduler tick to the history trigger.
func triggerFor(tick scheduler.Tick) history.Trigger {
	if tick.Startup {
		return history.TriggerStartup
	}
	return history.TriggerSchedule
}

// isShutdown reports whether err only signals that the program was stopped.
func isShutdown(err error) bool {
	return errors.Is(err, tea.ErrProgramKilled) ||
		errors.Is(err, tea.ErrInterrupted) ||
		errors.Is(err, context.Canceled)
}

// pruneHistory drops entries older than historyRetention.
func pruneHistory() {
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		return
	}
	defer store.Close()

	removed, err := store.Prune(historyRetention)
	if err != nil {
		log.Warn("failed to prune history", zap.Error(err))
		return
	}
	if removed > 0 {
		log.Info("pruned history", zap.Int("removed", removed))
	}
}
