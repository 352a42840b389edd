package cli

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"upkeep/internal/checker"
	"upkeep/internal/config"
	"upkeep/internal/history"
	"upkeep/internal/metrics"
	"upkeep/internal/ui"

	"github.com/spf13/cobra"
)

var checkTable bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for available upgrades",
	Long: `Run winget once and show the packages that have upgrades available.

Examples:
  upkeep check              # Show the winget listing
  upkeep check --table      # Show the parsed upgrade records`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkTable, "table", "t", false, "print parsed upgrade records as a table")
}

func runCheck(cmd *cobra.Command, args []string) error {
	chk, done := newChecker(checker.WithObserver(metrics.NewRegistry(config.MetricsPath(), log)))
	defer done()

	report := ui.WithSpinner("Checking for upgrades...", func() checker.Report {
		return chk.CheckReport(cmd.Context(), history.TriggerManual)
	})

	if report.LaunchFailed {
		ui.WarningMsg("%s", report.Display)
		return ErrLaunchFailed
	}

	if !checkTable {
		fmt.Println(report.Display)
		ui.MutedMsg("%s", report.Summary())
		return nil
	}

	if len(report.Upgrades) == 0 {
		ui.SuccessMsg("All packages are up to date")
		return nil
	}

	ui.HeaderMsg("Available Upgrades")
	ui.PrintUpgrades(os.Stdout, report.Upgrades)
	ui.MutedMsg("\n%s", report.Summary())
	return nil
}

// newChecker builds a checker that records into the history store. The
// returned function closes the store. An unavailable store, for example one
// held open by a running daemon, only disables recording.
func newChecker(opts ...checker.Option) (*checker.Checker, func()) {
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		log.Warn("history unavailable", zap.Error(err))
		if verbose {
			ui.WarningMsg("History will not be recorded: %v", err)
		}
		return checker.New(pkgRunner, log, opts...), func() {}
	}

	opts = append(opts, checker.WithRecorder(store))
	return checker.New(pkgRunner, log, opts...), func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close history", zap.Error(err))
		}
	}
}
