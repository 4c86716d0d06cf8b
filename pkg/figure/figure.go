package figure

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// Role names a data role a chart binds columns to.
type Role string

// Chart roles.
const (
	RoleX              Role = "x"
	RoleY              Role = "y"
	RoleZ              Role = "z"
	RoleA              Role = "a"
	RoleB              Role = "b"
	RoleC              Role = "c"
	RoleR              Role = "r"
	RoleTheta          Role = "theta"
	RoleLat            Role = "lat"
	RoleLon            Role = "lon"
	RoleLocations      Role = "locations"
	RoleNames          Role = "names"
	RoleValues         Role = "values"
	RoleParents        Role = "parents"
	RoleIDs            Role = "ids"
	RoleColor          Role = "color"
	RoleSize           Role = "size"
	RoleSymbol         Role = "symbol"
	RoleLineDash       Role = "line_dash"
	RolePatternShape   Role = "pattern_shape"
	RoleText           Role = "text"
	RoleHoverName      Role = "hover_name"
	RoleLineGroup      Role = "line_group"
	RoleXStart         Role = "x_start"
	RoleXEnd           Role = "x_end"
	RoleBase           Role = "base"
	RoleErrorX         Role = "error_x"
	RoleErrorXMinus    Role = "error_x_minus"
	RoleErrorY         Role = "error_y"
	RoleErrorYMinus    Role = "error_y_minus"
	RoleErrorZ         Role = "error_z"
	RoleErrorZMinus    Role = "error_z_minus"
	RoleFacetRow       Role = "facet_row"
	RoleFacetCol       Role = "facet_col"
	RoleAnimationFrame Role = "animation_frame"
	RoleAnimationGroup Role = "animation_group"
)

// Args is the resolved configuration of one chart call. Chart constructors
// fill it from their options; the builder reads it.
type Args struct {
	Frame frame.Source `json:"-"`

	Roles      map[Role]Column `json:"roles,omitempty"`
	Path       []Column        `json:"path,omitempty"`
	Dimensions []Column        `json:"dimensions,omitempty"`
	HoverData  []Column        `json:"hover_data,omitempty"`
	CustomData []Column        `json:"custom_data,omitempty"`

	Labels         map[string]string   `json:"labels,omitempty"`
	CategoryOrders map[string][]string `json:"category_orders,omitempty"`
	Orientation    string              `json:"orientation,omitempty"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Template string `json:"template,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`

	LogX   bool      `json:"log_x,omitempty"`
	LogY   bool      `json:"log_y,omitempty"`
	LogZ   bool      `json:"log_z,omitempty"`
	LogR   bool      `json:"log_r,omitempty"`
	RangeX []float64 `json:"range_x,omitempty"`
	RangeY []float64 `json:"range_y,omitempty"`
	RangeZ []float64 `json:"range_z,omitempty"`
	RangeR []float64 `json:"range_r,omitempty"`

	ColorDiscreteSequence   []string          `json:"color_discrete_sequence,omitempty"`
	ColorDiscreteMap        map[string]string `json:"color_discrete_map,omitempty"`
	ColorContinuousScale    []string          `json:"color_continuous_scale,omitempty"`
	ColorContinuousMidpoint *float64          `json:"color_continuous_midpoint,omitempty"`
	RangeColor              []float64         `json:"range_color,omitempty"`
	SymbolSequence          []string          `json:"symbol_sequence,omitempty"`
	SymbolMap               map[string]string `json:"symbol_map,omitempty"`
	LineDashSequence        []string          `json:"line_dash_sequence,omitempty"`
	LineDashMap             map[string]string `json:"line_dash_map,omitempty"`
	PatternShapeSequence    []string          `json:"pattern_shape_sequence,omitempty"`
	PatternShapeMap         map[string]string `json:"pattern_shape_map,omitempty"`
	SizeMax                 float64           `json:"size_max,omitempty"`

	FacetColWrap    int      `json:"facet_col_wrap,omitempty"`
	FacetRowSpacing *float64 `json:"facet_row_spacing,omitempty"`
	FacetColSpacing *float64 `json:"facet_col_spacing,omitempty"`

	ECDFNorm                 string `json:"ecdfnorm,omitempty"`
	ECDFMode                 string `json:"ecdfmode,omitempty"`
	DimensionsMaxCardinality int    `json:"dimensions_max_cardinality,omitempty"`
	LineClose                bool   `json:"line_close,omitempty"`

	// Carried for builders that draw them; the Assembler does not.
	RenderMode             string         `json:"render_mode,omitempty"`
	MarginalX              string         `json:"marginal_x,omitempty"`
	MarginalY              string         `json:"marginal_y,omitempty"`
	Trendline              string         `json:"trendline,omitempty"`
	TrendlineOptions       map[string]any `json:"trendline_options,omitempty"`
	TrendlineColorOverride string         `json:"trendline_color_override,omitempty"`
	TrendlineScope         string         `json:"trendline_scope,omitempty"`
}

// Bind sets the binding for a role. Unset columns are ignored.
func (a *Args) Bind(role Role, c Column) {
	if !c.IsSet() {
		return
	}
	if a.Roles == nil {
		a.Roles = make(map[Role]Column)
	}
	a.Roles[role] = c
}

// Bound reports whether a role has a binding.
func (a *Args) Bound(role Role) bool {
	c, ok := a.Roles[role]
	return ok && c.IsSet()
}

// Request is what a chart constructor hands to a Builder.
type Request struct {
	Chart       string `json:"chart"`      // constructor name ("scatter", "timeline", ...)
	TraceType   string `json:"trace_type"` // trace type tag ("scatter", "bar", ...)
	Args        Args   `json:"args"`
	TracePatch  Patch  `json:"trace_patch,omitempty"`
	LayoutPatch Patch  `json:"layout_patch,omitempty"`
}

// Builder turns a request into a figure.
type Builder interface {
	Build(ctx context.Context, req Request) (*Figure, error)
}

// Trace is one series of a figure, keyed by attribute name.
type Trace map[string]any

// Figure is a declarative figure: a list of traces plus a layout. It
// marshals to the {"data": [...], "layout": {...}} document the browser
// renderer consumes.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// JSON returns the canonical JSON encoding of the figure.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Hash returns the SHA-256 of the canonical JSON encoding.
func (f *Figure) Hash() (string, error) {
	data, err := f.JSON()
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Patch is a nested attribute map applied on top of a generated trace or
// layout.
type Patch map[string]any

// Set stores v at a dotted path, creating intermediate maps. Absent values
// (nil, or a nil pointer) are dropped; non-nil pointers are dereferenced.
func (p Patch) Set(path string, v any) Patch {
	v, ok := present(v)
	if !ok {
		return p
	}
	setPath(p, path, v)
	return p
}

// Get returns the value at a dotted path.
func (p Patch) Get(path string) (any, bool) {
	return getPath(p, path)
}

func present(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}

func setPath(m map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			if pm, isPatch := m[p].(Patch); isPatch {
				next = pm
			} else {
				next = make(map[string]any)
				m[p] = next
			}
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

func getPath(m map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		switch next := m[p].(type) {
		case map[string]any:
			m = next
		case Patch:
			m = next
		default:
			return nil, false
		}
	}
	v, ok := m[parts[len(parts)-1]]
	return v, ok
}

// merge deep-merges src into dst. Maps merge recursively; every other value
// in src replaces the one in dst.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := asMap(v); ok {
			if dm, ok := asMap(dst[k]); ok {
				merge(dm, sm)
				dst[k] = dm
				continue
			}
			cp := make(map[string]any, len(sm))
			merge(cp, sm)
			dst[k] = cp
			continue
		}
		dst[k] = v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Patch:
		return m, true
	case Trace:
		return m, true
	}
	return nil, false
}
