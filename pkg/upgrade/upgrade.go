// Package upgrade turns the column-aligned listing printed by
// `winget upgrade` into upgrade records and display text.
package upgrade

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// NoUpdateMarker appears on rows winget prints for packages it cannot upgrade.
	NoUpdateMarker = "No applicable update"

	// NoOutput replaces a blank listing in display text.
	NoOutput = "No output available."

	// headerLines is the number of banner/header rows winget prints before the table.
	headerLines = 2

	// minFields is the number of columns needed to build a record.
	minFields = 4
)

var (
	lineBreak   = regexp.MustCompile(`\r\n|\n|\r`)
	columnGap   = regexp.MustCompile(`\s{2,}`)
	headerToken = regexp.MustCompile(`(?i)no|name`)
)

// Upgrade is a single package with a newer version available.
type Upgrade struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Current   string `json:"current"`
	Available string `json:"available"`
}

// String returns a one-line description of the upgrade.
func (u Upgrade) String() string {
	return fmt.Sprintf("%s (%s) %s -> %s", u.Name, u.ID, u.Current, u.Available)
}

// Parse extracts upgrade records from raw list output.
//
// The first two lines are always skipped. Remaining lines are trimmed, and a
// record is emitted for every line that splits into at least four columns on
// runs of two or more whitespace characters. Extra columns (the source) are
// discarded. Rows that do not fit are dropped silently.
func Parse(raw string) []Upgrade {
	lines := lineBreak.Split(raw, -1)
	if len(lines) <= headerLines {
		return nil
	}

	var upgrades []Upgrade
	for _, line := range lines[headerLines:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, NoUpdateMarker) {
			continue
		}

		fields := columnGap.Split(line, -1)
		if len(fields) < minFields {
			continue
		}

		upgrades = append(upgrades, Upgrade{
			Name:      fields[0],
			ID:        fields[1],
			Current:   fields[2],
			Available: fields[3],
		})
	}

	return upgrades
}

// FilterDisplay prepares raw list output for display.
// Everything before the first "No" or "Name" (case-insensitive) is progress
// noise and is cut. Blank results become NoOutput.
func FilterDisplay(raw string) string {
	filtered := raw
	if loc := headerToken.FindStringIndex(raw); loc != nil {
		filtered = raw[loc[0]:]
	}

	if strings.TrimSpace(filtered) == "" {
		return NoOutput
	}
	return filtered
}

// Summary returns a short human-readable count of upgrades.
func Summary(upgrades []Upgrade) string {
	switch len(upgrades) {
	case 0:
		return "No upgrades available"
	case 1:
		return "1 upgrade available: " + upgrades[0].Name
	default:
		return fmt.Sprintf("%d upgrades available", len(upgrades))
	}
}

// IDs returns the package identifiers of upgrades in order.
func IDs(upgrades []Upgrade) []string {
	ids := make([]string, len(upgrades))
	for i, u := range upgrades {
		ids[i] = u.ID
	}
	return ids
}
