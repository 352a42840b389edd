package cli

import (
	"upkeep/internal/checker"
	"upkeep/internal/ui"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install all available upgrades",
	Long: `Upgrade every package winget knows about in an elevated console.
Package and source agreements are accepted automatically, and the
console waits for a key press before it closes.

Examples:
  upkeep install            # Ask, then install everything
  upkeep install -y         # Install without confirmation`,
	RunE: runInstall,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open an elevated winget console",
	Long: `Open an elevated shell that runs winget and stays open for further
commands.`,
	RunE: runConsole,
}

func runInstall(cmd *cobra.Command, args []string) error {
	if !yes && !dryRun {
		confirmed, err := ui.Confirm("Install all available upgrades?", true)
		if err != nil || !confirmed {
			return ErrAborted
		}
	}

	chk, done := newChecker()
	defer done()

	ui.InfoMsg("Installing all upgrades with %s", wingetBinary)
	return reportInteractive(chk.InstallAll(cmd.Context()))
}

func runConsole(cmd *cobra.Command, args []string) error {
	chk, done := newChecker()
	defer done()

	return reportInteractive(chk.OpenConsole(cmd.Context()))
}

// reportInteractive prints the outcome of an install or console run.
func reportInteractive(result string) error {
	if checker.IsSentinel(result) {
		ui.WarningMsg("%s", result)
		return ErrLaunchFailed
	}
	ui.SuccessMsg("%s", result)
	return nil
}
