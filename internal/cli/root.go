// Package cli implements the command-line interface for upkeep.
package cli

import (
	"fmt"

	"go.uber.org/zap"

	"upkeep/internal/config"
	"upkeep/internal/executor"
	"upkeep/internal/logger"
	"upkeep/internal/runner"
	"upkeep/internal/ui"

	"github.com/spf13/cobra"
)

const (
	appName      = "upkeep"
	wingetBinary = "winget"
)

var (
	// Global flags
	cfgFile string
	dryRun  bool
	yes     bool
	verbose bool
	noColor bool

	// Global state
	cfg       *config.Config
	proc      *executor.Executor
	log       = zap.NewNop()
	closeLog  = func() {}
	pkgRunner *runner.Runner
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "upkeep",
	Short: "Periodic winget upgrade checker",
	Long: `Upkeep checks for winget package upgrades on a schedule, reports what
is available, and installs everything in an elevated console on request.

Examples:
  upkeep run                  # Check periodically and show the tray menu
  upkeep run --headless       # Check periodically without the menu
  upkeep check                # Check for upgrades once
  upkeep install              # Install all available upgrades`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file path")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be executed without running it")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command.
func Execute() error {
	defer func() { closeLog() }()

	if err := rootCmd.Execute(); err != nil {
		ui.ErrorMsg("%v", err)
		return err
	}
	return nil
}

// initializeApp sets up the application state.
func initializeApp() error {
	ui.Init(!noColor, true)

	// Load configuration. A read error still yields the defaults.
	var loadErr error
	if cfgFile != "" {
		cfg, loadErr = config.LoadFrom(cfgFile)
	} else {
		cfg, loadErr = config.Load()
	}

	if err := openLog(verbose); err != nil {
		return err
	}
	if loadErr != nil {
		log.Warn("using default settings", zap.Error(loadErr))
		ui.WarningMsg("Using default settings: %v", loadErr)
	}

	proc = executor.New(dryRun, verbose)
	pkgRunner = runner.New(proc, runner.DefaultShell(wingetBinary, appName), log)

	log.Debug("initialized",
		zap.String("version", Version),
		zap.Int("interval_hours", cfg.IntervalHours()),
		zap.Bool("dry_run", dryRun))

	return nil
}

// openLog (re)opens the service log. Console output goes to stderr and is
// only enabled in verbose mode.
func openLog(console bool) error {
	closeLog()

	level := "info"
	if verbose {
		level = "debug"
	}

	l, closer, err := logger.New(logger.Options{
		Path:    config.LogPath(),
		Level:   level,
		Console: console,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	log, closeLog = l, closer
	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print upkeep version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("upkeep version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
