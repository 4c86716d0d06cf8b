package figure

import (
	"encoding/json"
	"fmt"
	"math"
)

// Default discrete sequences.
var (
	DefaultColorSequence   = []string{"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A", "#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52"}
	DefaultSymbolSequence  = []string{"circle", "diamond", "square", "x", "cross"}
	DefaultDashSequence    = []string{"solid", "dot", "dash", "longdash", "dashdot", "longdashdot"}
	DefaultPatternSequence = []string{"", "/", "\\", "x", "-", "|", "+", "."}
)

// defaultSizeMax is the marker diameter in pixels of the largest size value.
const defaultSizeMax = 20.0

// categories returns the distinct values in display order: values named in
// order come first in that order, the rest by first appearance.
func categories(values []any, order []string) []string {
	seen := make(map[string]bool)
	present := make(map[string]bool)
	for _, v := range values {
		present[category(v)] = true
	}
	var out []string
	for _, c := range order {
		if present[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, v := range values {
		c := category(v)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func category(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// discrete maps each value to an entry of seq. Explicit mappings win;
// the remaining categories cycle through seq in category order.
func discrete(values []any, order []string, explicit map[string]string, seq []string) []any {
	assigned := make(map[string]string)
	i := 0
	for _, c := range categories(values, order) {
		if v, ok := explicit[c]; ok {
			assigned[c] = v
			continue
		}
		if len(seq) > 0 {
			assigned[c] = seq[i%len(seq)]
		}
		i++
	}
	out := make([]any, len(values))
	for j, v := range values {
		out[j] = assigned[category(v)]
	}
	return out
}

// continuous reports whether every non-nil value is a number and at least
// one value is present.
func continuous(values []any) bool {
	found := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, ok := asFloat(v); !ok {
			return false
		}
		found = true
	}
	return found
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// sizeref returns the marker.sizeref that renders the largest value at
// sizeMax pixels in area size mode.
func sizeref(values []any, sizeMax float64) float64 {
	if sizeMax <= 0 {
		sizeMax = defaultSizeMax
	}
	peak := 0.0
	for _, v := range values {
		if f, ok := asFloat(v); ok && f > peak {
			peak = f
		}
	}
	if peak == 0 {
		return 1
	}
	return 2 * peak / (sizeMax * sizeMax)
}
