package schema

import (
	"regexp"
	"strings"
)

// =============================================================================
// Color
// =============================================================================

// Color accepts CSS color literals and named colors.
//
// Accepted forms: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), hsl(),
// hsla(), hsv(), hsva(), and the CSS named colors (case-insensitive, spaces
// ignored). When Scaled is set, numbers are accepted too; they are mapped
// through a color scale downstream.
type Color struct {
	ArrayOK bool
	Scaled  bool
}

func (Color) Kind() Kind { return KindColor }

func (r Color) Describe() string {
	desc := "a color: hex (#rrggbb), rgb/rgba, hsl/hsla, hsv/hsva or a named CSS color"
	if r.Scaled {
		desc += ", or a number mapped through a color scale"
	}
	return withArraySuffix(desc, r.ArrayOK)
}

func (r Color) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, func(item any) (any, bool) {
		if r.Scaled {
			if f, ok := toFloat(item); ok {
				return f, true
			}
		}
		s, ok := item.(string)
		if !ok || !IsColor(s) {
			return nil, false
		}
		return s, true
	})
}

var (
	hexColorRe  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRe = regexp.MustCompile(`^(rgb|rgba|hsl|hsla|hsv|hsva)\(\s*[-+]?[\d.]+%?\s*(,\s*[-+]?[\d.]+%?\s*){2,3}\)$`)
)

// IsColor reports whether s is a valid color literal or named color.
func IsColor(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if hexColorRe.MatchString(s) {
		return true
	}
	lower := strings.ToLower(s)
	if m := funcColorRe.FindStringSubmatch(lower); m != nil {
		// rgb() and friends take exactly three components, the -a forms four.
		n := strings.Count(lower, ",") + 1
		if strings.HasSuffix(m[1], "a") {
			return n == 4
		}
		return n == 3
	}
	_, ok := namedColors[strings.ReplaceAll(lower, " ", "")]
	return ok
}

// namedColors holds the CSS color keywords.
var namedColors = setOf(
	"aliceblue", "antiquewhite", "aqua", "aquamarine", "azure", "beige",
	"bisque", "black", "blanchedalmond", "blue", "blueviolet", "brown",
	"burlywood", "cadetblue", "chartreuse", "chocolate", "coral",
	"cornflowerblue", "cornsilk", "crimson", "cyan", "darkblue", "darkcyan",
	"darkgoldenrod", "darkgray", "darkgrey", "darkgreen", "darkkhaki",
	"darkmagenta", "darkolivegreen", "darkorange", "darkorchid", "darkred",
	"darksalmon", "darkseagreen", "darkslateblue", "darkslategray",
	"darkslategrey", "darkturquoise", "darkviolet", "deeppink", "deepskyblue",
	"dimgray", "dimgrey", "dodgerblue", "firebrick", "floralwhite",
	"forestgreen", "fuchsia", "gainsboro", "ghostwhite", "gold", "goldenrod",
	"gray", "grey", "green", "greenyellow", "honeydew", "hotpink", "indianred",
	"indigo", "ivory", "khaki", "lavender", "lavenderblush", "lawngreen",
	"lemonchiffon", "lightblue", "lightcoral", "lightcyan",
	"lightgoldenrodyellow", "lightgray", "lightgrey", "lightgreen",
	"lightpink", "lightsalmon", "lightseagreen", "lightskyblue",
	"lightslategray", "lightslategrey", "lightsteelblue", "lightyellow",
	"lime", "limegreen", "linen", "magenta", "maroon", "mediumaquamarine",
	"mediumblue", "mediumorchid", "mediumpurple", "mediumseagreen",
	"mediumslateblue", "mediumspringgreen", "mediumturquoise",
	"mediumvioletred", "midnightblue", "mintcream", "mistyrose", "moccasin",
	"navajowhite", "navy", "oldlace", "olive", "olivedrab", "orange",
	"orangered", "orchid", "palegoldenrod", "palegreen", "paleturquoise",
	"palevioletred", "papayawhip", "peachpuff", "peru", "pink", "plum",
	"powderblue", "purple", "rebeccapurple", "red", "rosybrown", "royalblue",
	"saddlebrown", "salmon", "sandybrown", "seagreen", "seashell", "sienna",
	"silver", "skyblue", "slateblue", "slategray", "slategrey", "snow",
	"springgreen", "steelblue", "tan", "teal", "thistle", "tomato",
	"transparent", "turquoise", "violet", "wheat", "white", "whitesmoke",
	"yellow", "yellowgreen",
)

// =============================================================================
// ColorScale
// =============================================================================

// ColorScale accepts a named scale, a list of colors spaced evenly over
// [0, 1], or a list of [position, color] stops.
//
// Explicit stop positions must lie in [0, 1], be non-decreasing, and start
// at 0 and end at 1. Lists are normalized to [][]any{{pos, color}, ...}.
// Named scales accept a "_r" suffix for the reversed scale.
type ColorScale struct{}

func (ColorScale) Kind() Kind { return KindColorScale }

func (ColorScale) Describe() string {
	return "a named color scale, a list of at least two colors, or a list of [position, color] stops with positions rising from 0 to 1"
}

func (ColorScale) coerce(v any) (any, bool) {
	if s, ok := v.(string); ok {
		name := strings.TrimSuffix(strings.ToLower(s), "_r")
		if _, known := namedScales[name]; known {
			return s, true
		}
		return nil, false
	}
	items, ok := toSlice(v)
	if !ok || len(items) < 2 {
		return nil, false
	}

	// Evenly spaced colors.
	if _, isString := items[0].(string); isString {
		out := make([]any, len(items))
		for i, item := range items {
			c, ok := item.(string)
			if !ok || !IsColor(c) {
				return nil, false
			}
			out[i] = []any{float64(i) / float64(len(items)-1), c}
		}
		return out, true
	}

	// Explicit [position, color] stops.
	out := make([]any, len(items))
	prev := -1.0
	for i, item := range items {
		pair, ok := toSlice(item)
		if !ok || len(pair) != 2 {
			return nil, false
		}
		pos, ok := toFloat(pair[0])
		if !ok || pos < 0 || pos > 1 || pos < prev {
			return nil, false
		}
		c, ok := pair[1].(string)
		if !ok || !IsColor(c) {
			return nil, false
		}
		prev = pos
		out[i] = []any{pos, c}
	}
	first, _ := toFloat(out[0].([]any)[0])
	if first != 0 || prev != 1 {
		return nil, false
	}
	return out, true
}

// namedScales holds the built-in color scale names.
var namedScales = setOf(
	"aggrnyl", "agsunset", "blackbody", "bluered", "blues", "blugrn", "bluyl",
	"brwnyl", "bugn", "bupu", "burg", "burgyl", "cividis", "darkmint",
	"electric", "emrld", "gnbu", "greens", "greys", "hot", "inferno", "jet",
	"magenta", "magma", "mint", "orrd", "oranges", "oryel", "peach",
	"pinkyl", "plasma", "plotly3", "pubu", "pubugn", "purd", "purp", "purples",
	"purpor", "rainbow", "rdbu", "rdpu", "redor", "reds", "sunset",
	"sunsetdark", "teal", "tealgrn", "turbo", "viridis", "ylgn", "ylgnbu",
	"ylorbr", "ylorrd", "algae", "amp", "deep", "dense", "gray", "haline",
	"ice", "matter", "solar", "speed", "tempo", "thermal", "turbid",
	"armyrose", "brbg", "earth", "fall", "geyser", "prgn", "piyg", "picnic",
	"portland", "puor", "rdgy", "rdylbu", "rdylgn", "spectral", "tealrose",
	"temps", "tropic", "balance", "curl", "delta", "oxy", "edge", "hsv",
	"icefire", "phase", "twilight", "mrybm", "mygbm",
)

// =============================================================================
// ColorList
// =============================================================================

// ColorList accepts a sequence of valid colors.
type ColorList struct{}

func (ColorList) Kind() Kind       { return KindColorList }
func (ColorList) Describe() string { return "a list of colors" }
func (ColorList) coerce(v any) (any, bool) {
	items, ok := toSlice(v)
	if !ok {
		return nil, false
	}
	return coerceEach(items, func(item any) (any, bool) {
		s, ok := item.(string)
		if !ok || !IsColor(s) {
			return nil, false
		}
		return s, true
	})
}

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}
