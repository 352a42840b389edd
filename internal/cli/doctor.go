package cli

import (
	"os/exec"
	"runtime"

	"upkeep/internal/config"
	"upkeep/internal/executor"
	"upkeep/internal/history"
	"upkeep/internal/notify"
	"upkeep/internal/ui"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup issues",
	Long: `Check that winget and an elevation method are available and that the
settings, history and log locations are usable.

Examples:
  upkeep doctor             # Run diagnostics`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	issues := 0

	ui.HeaderMsg("Running diagnostics...")

	// Package manager
	if path, err := exec.LookPath(wingetBinary); err != nil {
		ui.ErrorMsg("%s not found in PATH", wingetBinary)
		issues++
	} else {
		ui.SuccessMsg("%s found: %s", wingetBinary, path)
	}

	shell := "sh"
	if runtime.GOOS == "windows" {
		shell = "powershell.exe"
	}
	if _, err := exec.LookPath(shell); err != nil {
		ui.ErrorMsg("%s not found in PATH", shell)
		issues++
	} else {
		ui.SuccessMsg("Shell available: %s", shell)
	}

	// Elevation
	ui.HeaderMsg("Elevation")
	if executor.IsRoot() {
		ui.SuccessMsg("Running with administrator rights")
	} else if path, err := executor.Elevator(); err == nil {
		ui.SuccessMsg("Elevation available: %s", path)
	} else {
		ui.WarningMsg("No elevation method found; install and console will fail")
		issues++
	}

	// Files
	ui.HeaderMsg("Configuration")
	ui.SuccessMsg("Settings file: %s", settingsPath())
	ui.MutedMsg("  Checking every %d hour(s)", cfg.IntervalHours())
	ui.MutedMsg("  Log file: %s", config.LogPath())

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		ui.WarningMsg("History unavailable: %v", err)
		ui.MutedMsg("  A running 'upkeep run' holds the history open")
	} else {
		count, _ := store.Count()
		ui.SuccessMsg("History: %s (%d entries)", config.HistoryPath(), count)
		if last, _ := store.LastCheck(); last != nil {
			ui.MutedMsg("  Last check: %s", last.Summary())
		}
		store.Close()
	}

	ui.HeaderMsg("Notifications")
	ui.SuccessMsg("Desktop notifier: %s", notify.NewDesktopNotifier(proc).Name())

	// Summary
	ui.HeaderMsg("Summary")
	if issues == 0 {
		ui.SuccessMsg("No issues found")
		return nil
	}

	ui.WarningMsg("Found %d issue(s)", issues)
	return ErrDiagnostics
}
