package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// Output format names.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Figure lists the formats a built figure can be written as.
var Figure = []string{FormatJSON, FormatHTML}

// Schema lists the formats a catalogue graph can be written as.
var Schema = []string{FormatDOT, FormatSVG}

// Formats normalizes a list of format names and checks each against
// allowed. Names are lower-cased and duplicates dropped; the order is kept.
func Formats(names []string, allowed []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if !slices.Contains(allowed, n) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"unsupported format %q (want one of %s)", n, strings.Join(allowed, ", "))
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Ext returns the file extension for a format.
func Ext(format string) string { return "." + format }
