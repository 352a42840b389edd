package upgrade

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genToken generates a single column value without whitespace.
func genToken() gopter.Gen {
	return gen.RegexMatch(`^[A-Za-z0-9][A-Za-z0-9.+_-]{0,15}$`)
}

// genLine generates a line of text without line breaks.
func genLine() gopter.Gen {
	return gen.RegexMatch(`^[A-Za-z0-9 .:<>-]{0,60}$`)
}

// genSeparator generates a column gap of two or more blanks.
func genSeparator() gopter.Gen {
	return gen.RegexMatch(`^[ \t]{2,6}$`)
}

func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("inputs with fewer than three lines yield no records", prop.ForAll(
		func(first, second string) bool {
			return len(Parse(first)) == 0 &&
				len(Parse(first+"\n"+second)) == 0 &&
				len(Parse(first+"\r\n"+second)) == 0
		},
		genLine(),
		genLine(),
	))

	properties.Property("parsing is a pure function of the input", prop.ForAll(
		func(raw string) bool {
			return reflect.DeepEqual(Parse(raw), Parse(raw))
		},
		gen.AnyString(),
	))

	properties.Property("a well-formed row yields exactly its first four columns", prop.ForAll(
		func(name, id, current, available, sep string) bool {
			row := strings.Join([]string{name, id, current, available, "winget"}, sep)
			raw := "Name  Id  Version  Available  Source\n-----\n" + row + "\n"

			result := Parse(raw)
			expected := []Upgrade{{Name: name, ID: id, Current: current, Available: available}}
			if !reflect.DeepEqual(result, expected) {
				t.Logf("Parse(%q) = %#v", raw, result)
				return false
			}
			return true
		},
		genToken(),
		genToken(),
		genToken(),
		genToken(),
		genSeparator(),
	))

	properties.Property("marker rows never produce records", prop.ForAll(
		func(prefix, suffix, sep string) bool {
			row := prefix + sep + NoUpdateMarker + " found" + sep + suffix + sep + "x" + sep + "y"
			return len(Parse("a\nb\n"+row)) == 0
		},
		genToken(),
		genToken(),
		genSeparator(),
	))

	properties.Property("display text is never blank", prop.ForAll(
		func(raw string) bool {
			return strings.TrimSpace(FilterDisplay(raw)) != ""
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
