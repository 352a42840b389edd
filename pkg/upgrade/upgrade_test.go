package upgrade

import (
	"reflect"
	"strings"
	"testing"
)

const sampleListing = "   -  \\  |  /\r\n" +
	"Name                 Id                   Version      Available    Source\r\n" +
	"------------------------------------------------------------------------------\r\n" +
	"Mozilla Firefox      Mozilla.Firefox      120.0        121.0        winget\r\n" +
	"Git                  Git.Git              2.42.0       2.43.0       winget\r\n" +
	"Some Tool            Vendor.Tool          < 1.0        1.2          winget\r\n" +
	"2 upgrades available.\r\n"

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []Upgrade
	}{
		{
			name:     "empty",
			raw:      "",
			expected: nil,
		},
		{
			name:     "two lines only",
			raw:      "Name  Id  Version  Available\n----",
			expected: nil,
		},
		{
			name: "single row on third line",
			raw:  "header\n----\nFirefox   Mozilla.Firefox   120.0   121.0",
			expected: []Upgrade{
				{Name: "Firefox", ID: "Mozilla.Firefox", Current: "120.0", Available: "121.0"},
			},
		},
		{
			name: "extra columns are discarded",
			raw:  "a\nb\nGit  Git.Git  2.42.0  2.43.0  winget  extra",
			expected: []Upgrade{
				{Name: "Git", ID: "Git.Git", Current: "2.42.0", Available: "2.43.0"},
			},
		},
		{
			name:     "too few fields",
			raw:      "a\nb\nGit  Git.Git  2.42.0",
			expected: nil,
		},
		{
			name:     "single spaces do not split",
			raw:      "a\nb\nMozilla Firefox Mozilla.Firefox 120.0 121.0",
			expected: nil,
		},
		{
			name:     "no applicable update marker",
			raw:      "a\nb\nNo applicable update found.   x   y   z",
			expected: nil,
		},
		{
			name: "mixed line endings",
			raw:  "a\rb\nGit  Git.Git  1  2\r\nJq  jqlang.jq  1.6  1.7\r",
			expected: []Upgrade{
				{Name: "Git", ID: "Git.Git", Current: "1", Available: "2"},
				{Name: "Jq", ID: "jqlang.jq", Current: "1.6", Available: "1.7"},
			},
		},
		{
			name: "tabs count as whitespace",
			raw:  "a\nb\n  Git\t\tGit.Git\t\t1\t\t2  ",
			expected: []Upgrade{
				{Name: "Git", ID: "Git.Git", Current: "1", Available: "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Parse() = %#v, want %#v", result, tt.expected)
			}
		})
	}
}

func TestParseListing(t *testing.T) {
	// Progress noise and the header row are skipped; the dashed rule and the
	// trailing count line do not split into enough columns.
	upgrades := Parse(sampleListing)

	if len(upgrades) != 3 {
		t.Fatalf("expected 3 upgrades, got %d: %#v", len(upgrades), upgrades)
	}
	if upgrades[0].Name != "Mozilla Firefox" {
		t.Errorf("expected first name 'Mozilla Firefox', got '%s'", upgrades[0].Name)
	}
	if upgrades[2].Current != "< 1.0" {
		t.Errorf("expected unknown current version '< 1.0', got '%s'", upgrades[2].Current)
	}
}

func TestFilterDisplay(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"blank", "", NoOutput},
		{"whitespace only", " \r\n\t ", NoOutput},
		{"banner before header", "  - \\ | /\nName  Id\n", "Name  Id\n"},
		{"no upgrades message", "\r - \rNo installed package found matching input criteria.", "No installed package found matching input criteria."},
		{"case insensitive", "xxNAME  ID", "NAME  ID"},
		{"earliest token wins", "ab no name", "no name"},
		{"no token keeps text", "Elevation cancelled.", "Elevation cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterDisplay(tt.raw)
			if result != tt.expected {
				t.Errorf("FilterDisplay(%q) = %q, want %q", tt.raw, result, tt.expected)
			}
		})
	}
}

func TestFilterDisplayListing(t *testing.T) {
	result := FilterDisplay(sampleListing)
	if !strings.HasPrefix(result, "Name") {
		t.Errorf("expected display text to start at header, got %q", result[:20])
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "No upgrades available" {
		t.Errorf("Summary(nil) = %q", got)
	}

	one := []Upgrade{{Name: "Git", ID: "Git.Git"}}
	if got := Summary(one); got != "1 upgrade available: Git" {
		t.Errorf("Summary(one) = %q", got)
	}

	if got := Summary(Parse(sampleListing)); got != "3 upgrades available" {
		t.Errorf("Summary(listing) = %q", got)
	}
}

func TestIDs(t *testing.T) {
	ids := IDs(Parse(sampleListing))
	expected := []string{"Mozilla.Firefox", "Git.Git", "Vendor.Tool"}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("IDs() = %v, want %v", ids, expected)
	}
}
