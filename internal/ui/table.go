package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"upkeep/internal/history"
	"upkeep/pkg/upgrade"
)

const maxColumnWidth = 40

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintUpgrades prints upgrade records as a table.
func PrintUpgrades(w io.Writer, upgrades []upgrade.Upgrade) {
	if len(upgrades) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No upgrades available"))
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\tID\tVERSION\tAVAILABLE")

	for _, u := range upgrades {
		// Escape codes skew tabwriter padding; only the last column is colored.
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			truncate(u.Name, maxColumnWidth),
			truncate(u.ID, maxColumnWidth),
			u.Current,
			AvailableVersion.Sprint(u.Available))
	}

	tw.Flush()
	fmt.Fprintln(w, Muted.Sprint(upgrade.Summary(upgrades)))
}

// PrintHistory prints history entries, newest first as given.
func PrintHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No history recorded"))
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tTIME\tOPERATION\tTRIGGER\tUPGRADES\tSTATUS")

	for _, e := range entries {
		upgrades := "-"
		if e.Operation == history.OpCheck && e.Success {
			upgrades = fmt.Sprintf("%d", e.Upgrades)
		}

		status := Green(e.Status())
		if !e.Success {
			status = Red(e.Status())
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.FormatTime(), e.Operation, e.Trigger, upgrades, status)
	}

	tw.Flush()
}

// PrintEntry prints the details of a single history entry.
func PrintEntry(w io.Writer, e *history.Entry) {
	PrintField(w, "Time", e.FormatTime())
	PrintField(w, "Operation", string(e.Operation))
	PrintField(w, "Trigger", string(e.Trigger))
	PrintField(w, "Status", e.Status())
	if e.Operation == history.OpCheck {
		PrintField(w, "Upgrades", fmt.Sprintf("%d", e.Upgrades))
	}
	if len(e.Packages) > 0 {
		PrintField(w, "Packages", strings.Join(e.Packages, ", "))
	}
	if e.Error != "" {
		PrintField(w, "Error", e.Error)
	}
}

// PrintField prints a single labelled value.
func PrintField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Cyan(label), value)
}
