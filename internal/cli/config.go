package cli

import (
	"fmt"
	"os"
	"strconv"

	"upkeep/internal/config"
	"upkeep/internal/ui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Long: `Print the settings in effect after defaults and the settings file
have been combined, together with the files upkeep uses.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := os.Stdout

	ui.HeaderMsg("Settings")
	ui.PrintField(out, "UpdateIntervalHours", strconv.Itoa(cfg.UpdateIntervalHours))
	ui.PrintField(out, "ShowExitOption", strconv.FormatBool(cfg.ShowExitOption))
	ui.PrintField(out, "ShowWinGetConsoleOption", strconv.FormatBool(cfg.ShowConsoleOption))
	ui.PrintField(out, "Check interval", cfg.Interval().String())

	ui.HeaderMsg("Files")
	ui.PrintField(out, "Settings", settingsPath())
	ui.PrintField(out, "History", config.HistoryPath())
	ui.PrintField(out, "Log", config.LogPath())
	ui.PrintField(out, "Metrics", config.MetricsPath())

	fmt.Fprintln(out)
	return nil
}

// settingsPath returns the settings file in use.
func settingsPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}
