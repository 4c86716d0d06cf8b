package express

import (
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// block is an option group that contributes to the figure arguments.
type block interface {
	apply(a *figure.Args)
}

// Base holds the options every chart accepts.
type Base struct {
	DataFrame  frame.Source      `json:"-"`
	HoverName  Column            `json:"hover_name"`
	HoverData  []Column          `json:"hover_data"`
	CustomData []Column          `json:"custom_data"`
	Labels     map[string]string `json:"labels"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle"`
	Template   string            `json:"template"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
}

func (b *Base) setFrame(src frame.Source) { b.DataFrame = src }

func (b Base) apply(a *figure.Args) {
	a.Frame = b.DataFrame
	a.Bind(figure.RoleHoverName, b.HoverName)
	a.HoverData = b.HoverData
	a.CustomData = b.CustomData
	a.Labels = b.Labels
	a.Title = b.Title
	a.Subtitle = b.Subtitle
	a.Template = b.Template
	a.Width = b.Width
	a.Height = b.Height
}

// Facets splits a figure into a grid of subplots by column values.
type Facets struct {
	FacetRow        Column   `json:"facet_row"`
	FacetCol        Column   `json:"facet_col"`
	FacetColWrap    int      `json:"facet_col_wrap"`
	FacetRowSpacing *float64 `json:"facet_row_spacing"`
	FacetColSpacing *float64 `json:"facet_col_spacing"`
}

func (f Facets) apply(a *figure.Args) {
	a.Bind(figure.RoleFacetRow, f.FacetRow)
	a.Bind(figure.RoleFacetCol, f.FacetCol)
	a.FacetColWrap = f.FacetColWrap
	a.FacetRowSpacing = f.FacetRowSpacing
	a.FacetColSpacing = f.FacetColSpacing
}

// Animation assigns rows to animation frames.
type Animation struct {
	AnimationFrame Column              `json:"animation_frame"`
	AnimationGroup Column              `json:"animation_group"`
	CategoryOrders map[string][]string `json:"category_orders"`
}

func (an Animation) apply(a *figure.Args) {
	a.Bind(figure.RoleAnimationFrame, an.AnimationFrame)
	a.Bind(figure.RoleAnimationGroup, an.AnimationGroup)
	a.CategoryOrders = an.CategoryOrders
}

// DiscreteColor colors categories from a sequence or explicit mapping.
type DiscreteColor struct {
	ColorDiscreteSequence []string          `json:"color_discrete_sequence"`
	ColorDiscreteMap      map[string]string `json:"color_discrete_map"`
}

func (c DiscreteColor) apply(a *figure.Args) {
	a.ColorDiscreteSequence = c.ColorDiscreteSequence
	a.ColorDiscreteMap = c.ColorDiscreteMap
}

// ContinuousColor maps numbers onto a color scale.
type ContinuousColor struct {
	ColorContinuousScale    []string  `json:"color_continuous_scale"`
	RangeColor              []float64 `json:"range_color"`
	ColorContinuousMidpoint *float64  `json:"color_continuous_midpoint"`
}

func (c ContinuousColor) apply(a *figure.Args) {
	a.ColorContinuousScale = c.ColorContinuousScale
	a.RangeColor = c.RangeColor
	a.ColorContinuousMidpoint = c.ColorContinuousMidpoint
}

// Axes configures cartesian axes.
type Axes struct {
	LogX   bool      `json:"log_x"`
	LogY   bool      `json:"log_y"`
	RangeX []float64 `json:"range_x"`
	RangeY []float64 `json:"range_y"`
}

func (x Axes) apply(a *figure.Args) {
	a.LogX, a.LogY = x.LogX, x.LogY
	a.RangeX, a.RangeY = x.RangeX, x.RangeY
}

// Symbols assigns marker symbols by category.
type Symbols struct {
	Symbol         Column            `json:"symbol"`
	SymbolSequence []string          `json:"symbol_sequence"`
	SymbolMap      map[string]string `json:"symbol_map"`
}

func (s Symbols) apply(a *figure.Args) {
	a.Bind(figure.RoleSymbol, s.Symbol)
	a.SymbolSequence = s.SymbolSequence
	a.SymbolMap = s.SymbolMap
}

// LineDashes assigns dash patterns by category.
type LineDashes struct {
	LineDash         Column            `json:"line_dash"`
	LineDashSequence []string          `json:"line_dash_sequence"`
	LineDashMap      map[string]string `json:"line_dash_map"`
}

func (l LineDashes) apply(a *figure.Args) {
	a.Bind(figure.RoleLineDash, l.LineDash)
	a.LineDashSequence = l.LineDashSequence
	a.LineDashMap = l.LineDashMap
}

// Patterns assigns bar fill patterns by category.
type Patterns struct {
	PatternShape         Column            `json:"pattern_shape"`
	PatternShapeSequence []string          `json:"pattern_shape_sequence"`
	PatternShapeMap      map[string]string `json:"pattern_shape_map"`
}

func (p Patterns) apply(a *figure.Args) {
	a.Bind(figure.RolePatternShape, p.PatternShape)
	a.PatternShapeSequence = p.PatternShapeSequence
	a.PatternShapeMap = p.PatternShapeMap
}

// Errors draws error bars from columns.
type Errors struct {
	ErrorX      Column `json:"error_x"`
	ErrorXMinus Column `json:"error_x_minus"`
	ErrorY      Column `json:"error_y"`
	ErrorYMinus Column `json:"error_y_minus"`
}

func (e Errors) apply(a *figure.Args) {
	a.Bind(figure.RoleErrorX, e.ErrorX)
	a.Bind(figure.RoleErrorXMinus, e.ErrorXMinus)
	a.Bind(figure.RoleErrorY, e.ErrorY)
	a.Bind(figure.RoleErrorYMinus, e.ErrorYMinus)
}

// Marginals adds distribution subplots along the axes: "rug", "box",
// "violin" or "histogram".
type Marginals struct {
	MarginalX string `json:"marginal_x"`
	MarginalY string `json:"marginal_y"`
}

func (m Marginals) apply(a *figure.Args) {
	a.MarginalX, a.MarginalY = m.MarginalX, m.MarginalY
}

// Trendline fits a trend per trace or over the whole figure.
type Trendline struct {
	Trendline              string         `json:"trendline"`
	TrendlineOptions       map[string]any `json:"trendline_options"`
	TrendlineColorOverride string         `json:"trendline_color_override"`
	TrendlineScope         string         `json:"trendline_scope"`
}

func (t Trendline) apply(a *figure.Args) {
	a.Trendline = t.Trendline
	a.TrendlineOptions = t.TrendlineOptions
	a.TrendlineColorOverride = t.TrendlineColorOverride
	a.TrendlineScope = or(t.TrendlineScope, "trace")
}

// LatLon is a map center.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapView positions a tile map. MapboxStyle is read by the Mapbox variants
// when MapStyle is empty.
type MapView struct {
	Zoom        *float64 `json:"zoom"`
	Center      *LatLon  `json:"center"`
	MapStyle    string   `json:"map_style"`
	MapboxStyle string   `json:"mapbox_style"`
}

// patch writes the view under a layout subplot ("map" or "mapbox").
func (m MapView) patch(layout figure.Patch, subplot string) {
	zoom := 8.0
	if m.Zoom != nil {
		zoom = *m.Zoom
	}
	layout.Set(subplot+".zoom", zoom)
	if m.Center != nil {
		layout.Set(subplot+".center.lat", m.Center.Lat)
		layout.Set(subplot+".center.lon", m.Center.Lon)
	}
	if style := or(m.MapStyle, m.MapboxStyle); style != "" {
		layout.Set(subplot+".style", style)
	}
}

// GeoView configures an outline map.
type GeoView struct {
	Projection     string  `json:"projection"`
	Scope          string  `json:"scope"`
	Center         *LatLon `json:"center"`
	FitBounds      string  `json:"fitbounds"`
	BasemapVisible *bool   `json:"basemap_visible"`
}

func (g GeoView) patch(layout figure.Patch) {
	if g.Projection != "" {
		layout.Set("geo.projection.type", g.Projection)
	}
	if g.Scope != "" {
		layout.Set("geo.scope", g.Scope)
	}
	if g.Center != nil {
		layout.Set("geo.center.lat", g.Center.Lat)
		layout.Set("geo.center.lon", g.Center.Lon)
	}
	switch g.FitBounds {
	case "":
	case "false":
		layout.Set("geo.fitbounds", false)
	default:
		layout.Set("geo.fitbounds", g.FitBounds)
	}
	layout.Set("geo.visible", g.BasemapVisible)
}

// Regions locates geographic shapes for choropleths and geo scatters.
type Regions struct {
	Locations    Column `json:"locations"`
	LocationMode string `json:"locationmode"`
	GeoJSON      any    `json:"geojson"`
	FeatureIDKey string `json:"featureidkey"`
}

func (r Regions) apply(a *figure.Args) {
	a.Bind(figure.RoleLocations, r.Locations)
}

func (r Regions) patch(trace figure.Patch) {
	if r.LocationMode != "" {
		trace.Set("locationmode", r.LocationMode)
	}
	trace.Set("geojson", r.GeoJSON)
	if r.FeatureIDKey != "" {
		trace.Set("featureidkey", r.FeatureIDKey)
	}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
