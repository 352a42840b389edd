package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"upkeep/internal/config"
	"upkeep/internal/history"
	"upkeep/internal/ui"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show check and install history",
	Long: `Display the checks, installs and console sessions recorded by upkeep.

Examples:
  upkeep history            # Show recent history
  upkeep history -l 20      # Show last 20 entries
  upkeep history 42         # Show entry 42 in detail
  upkeep history --clear    # Delete all entries`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyClear {
		return clearHistory(store)
	}

	if len(args) == 1 {
		return showEntry(store, args[0])
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Upgrade History")
	ui.PrintHistory(os.Stdout, entries)

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func showEntry(store *history.Store, arg string) error {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, arg)
	}

	entry, err := store.Get(id)
	if err != nil {
		return fmt.Errorf("entry %d: %w", id, err)
	}

	ui.HeaderMsg("History Entry %d", entry.ID)
	ui.PrintEntry(os.Stdout, entry)
	return nil
}

func clearHistory(store *history.Store) error {
	if !yes {
		confirmed, err := ui.Confirm("Delete all history entries?", false)
		if err != nil || !confirmed {
			return ErrAborted
		}
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	ui.SuccessMsg("History cleared")
	return nil
}
