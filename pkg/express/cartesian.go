package express

import "github.com/matzehuels/plotcraft/pkg/figure"

// ScatterOptions configures Scatter.
type ScatterOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	ContinuousColor
	Axes
	Symbols
	Errors
	Marginals
	Trendline

	X           Column   `json:"x"`
	Y           Column   `json:"y"`
	Color       Column   `json:"color"`
	Size        Column   `json:"size"`
	Text        Column   `json:"text"`
	Orientation string   `json:"orientation"`
	Opacity     *float64 `json:"opacity"`
	SizeMax     float64  `json:"size_max"`
	RenderMode  string   `json:"render_mode"`
}

// Scatter draws each row as a marker at (x, y).
func Scatter(o ScatterOptions) (figure.Request, error) {
	r := newRequest("scatter", "scatter",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.ContinuousColor,
		o.Axes, o.Symbols, o.Errors, o.Marginals, o.Trendline)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleSize, o.Size)
	r.bind(figure.RoleText, o.Text)
	r.Args.Orientation = o.Orientation
	r.Args.SizeMax = o.SizeMax
	r.Args.RenderMode = or(o.RenderMode, "auto")
	r.mode(false, true)
	r.opacity(o.Opacity)
	return r.done()
}

// DensityContourOptions configures DensityContour.
type DensityContourOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes
	Marginals
	Trendline

	X              Column `json:"x"`
	Y              Column `json:"y"`
	Z              Column `json:"z"`
	Color          Column `json:"color"`
	Orientation    string `json:"orientation"`
	HistFunc       string `json:"histfunc"`
	HistNorm       string `json:"histnorm"`
	NBinsX         int    `json:"nbinsx"`
	NBinsY         int    `json:"nbinsy"`
	TextAuto       bool   `json:"text_auto"`
	TextAutoFormat string `json:"text_auto_format"`
}

// DensityContour draws contour lines of the 2D distribution of an aggregate
// of z (the row count by default).
func DensityContour(o DensityContourOptions) (figure.Request, error) {
	r := newRequest("density_contour", "histogram2dcontour",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes, o.Marginals, o.Trendline)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleZ, o.Z)
	r.bind(figure.RoleColor, o.Color)
	r.Args.Orientation = o.Orientation
	r.trace("contours.coloring", "none")
	r.binning(o.HistFunc, o.HistNorm, o.NBinsX, o.NBinsY)
	if o.TextAuto {
		r.trace("contours.showlabels", true)
		r.trace("contours.labelformat", nonzero(o.TextAutoFormat))
	}
	return r.done()
}

// DensityHeatmapOptions configures DensityHeatmap.
type DensityHeatmapOptions struct {
	Base
	Facets
	Animation
	ContinuousColor
	Axes
	Marginals

	X              Column   `json:"x"`
	Y              Column   `json:"y"`
	Z              Column   `json:"z"`
	Orientation    string   `json:"orientation"`
	Opacity        *float64 `json:"opacity"`
	HistFunc       string   `json:"histfunc"`
	HistNorm       string   `json:"histnorm"`
	NBinsX         int      `json:"nbinsx"`
	NBinsY         int      `json:"nbinsy"`
	TextAuto       bool     `json:"text_auto"`
	TextAutoFormat string   `json:"text_auto_format"`
}

// DensityHeatmap bins rows into a 2D grid colored by an aggregate of z.
func DensityHeatmap(o DensityHeatmapOptions) (figure.Request, error) {
	r := newRequest("density_heatmap", "histogram2d",
		o.Base, o.Facets, o.Animation, o.ContinuousColor, o.Axes, o.Marginals)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleZ, o.Z)
	r.Args.Orientation = o.Orientation
	r.binning(o.HistFunc, o.HistNorm, o.NBinsX, o.NBinsY)
	r.textAuto(o.TextAuto, "z", o.TextAutoFormat)
	r.opacity(o.Opacity)
	return r.done()
}

func (r *request) binning(histfunc, histnorm string, nbinsx, nbinsy int) {
	r.trace("histfunc", nonzero(histfunc))
	r.trace("histnorm", nonzero(histnorm))
	r.trace("nbinsx", nonzero(nbinsx))
	r.trace("nbinsy", nonzero(nbinsy))
	r.trace("xbingroup", "x")
	r.trace("ybingroup", "y")
}

// textAuto labels marks with their value.
func (r *request) textAuto(on bool, variable, format string) {
	if !on {
		return
	}
	if format != "" {
		r.trace("texttemplate", "%{"+variable+":"+format+"}")
		return
	}
	r.trace("texttemplate", "%{"+variable+"}")
}

// LineOptions configures Line.
type LineOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes
	Symbols
	LineDashes
	Errors

	X           Column `json:"x"`
	Y           Column `json:"y"`
	LineGroup   Column `json:"line_group"`
	Color       Column `json:"color"`
	Text        Column `json:"text"`
	Orientation string `json:"orientation"`
	Markers     bool   `json:"markers"`
	LineShape   string `json:"line_shape"`
	RenderMode  string `json:"render_mode"`
}

// Line connects rows with a polyline in x order.
func Line(o LineOptions) (figure.Request, error) {
	r := newRequest("line", "scatter",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes, o.Symbols, o.LineDashes, o.Errors)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.Args.Orientation = o.Orientation
	r.Args.RenderMode = or(o.RenderMode, "auto")
	r.mode(true, o.Markers || o.Symbol.IsSet())
	r.trace("line.shape", nonzero(o.LineShape))
	return r.done()
}

// AreaOptions configures Area.
type AreaOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes
	Symbols
	Patterns

	X           Column `json:"x"`
	Y           Column `json:"y"`
	LineGroup   Column `json:"line_group"`
	Color       Column `json:"color"`
	Text        Column `json:"text"`
	Orientation string `json:"orientation"`
	Markers     bool   `json:"markers"`
	GroupNorm   string `json:"groupnorm"`
	LineShape   string `json:"line_shape"`
}

// Area draws stacked filled lines.
func Area(o AreaOptions) (figure.Request, error) {
	r := newRequest("area", "scatter",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes, o.Symbols, o.Patterns)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.Args.Orientation = o.Orientation
	r.trace("stackgroup", "1")
	r.mode(true, o.Markers || o.Symbol.IsSet())
	r.trace("groupnorm", nonzero(o.GroupNorm))
	r.trace("line.shape", nonzero(o.LineShape))
	return r.done()
}

// BarOptions configures Bar.
type BarOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	ContinuousColor
	Axes
	Patterns
	Errors

	X              Column   `json:"x"`
	Y              Column   `json:"y"`
	Color          Column   `json:"color"`
	Text           Column   `json:"text"`
	BarBase        Column   `json:"base"`
	Opacity        *float64 `json:"opacity"`
	Orientation    string   `json:"orientation"`
	BarMode        string   `json:"barmode"`
	TextAuto       bool     `json:"text_auto"`
	TextAutoFormat string   `json:"text_auto_format"`
}

// Bar draws one bar per row.
func Bar(o BarOptions) (figure.Request, error) {
	r := newRequest("bar", "bar",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Axes, o.Patterns, o.Errors)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleBase, o.BarBase)
	r.Args.Orientation = o.Orientation
	barmode := or(o.BarMode, "relative")
	r.trace("textposition", "auto")
	r.textAuto(o.TextAuto, "value", o.TextAutoFormat)
	r.layout("barmode", barmode)
	r.barOpacity(barmode, o.Opacity)
	return r.done()
}

// barOpacity makes overlaid bars translucent unless an opacity is given.
func (r *request) barOpacity(barmode string, o *float64) {
	if o == nil && barmode == "overlay" {
		half := 0.5
		o = &half
	}
	r.opacity(o)
}

// TimelineOptions configures Timeline.
type TimelineOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	ContinuousColor
	Patterns

	XStart  Column    `json:"x_start"`
	XEnd    Column    `json:"x_end"`
	Y       Column    `json:"y"`
	Color   Column    `json:"color"`
	Text    Column    `json:"text"`
	Opacity *float64  `json:"opacity"`
	RangeX  []float64 `json:"range_x"`
	RangeY  []float64 `json:"range_y"`
}

// Timeline draws a horizontal bar from x_start to x_end for each row.
func Timeline(o TimelineOptions) (figure.Request, error) {
	r := newRequest("timeline", figure.TraceTimeline,
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Patterns)
	r.bind(figure.RoleXStart, o.XStart)
	r.bind(figure.RoleXEnd, o.XEnd)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.Args.RangeX, r.Args.RangeY = o.RangeX, o.RangeY
	r.trace("textposition", "auto")
	r.trace("orientation", "h")
	r.layout("barmode", "overlay")
	r.opacity(o.Opacity)
	return r.done()
}

// HistogramOptions configures Histogram.
type HistogramOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes
	Patterns

	X              Column   `json:"x"`
	Y              Column   `json:"y"`
	Color          Column   `json:"color"`
	Marginal       string   `json:"marginal"`
	Opacity        *float64 `json:"opacity"`
	Orientation    string   `json:"orientation"`
	BarMode        string   `json:"barmode"`
	BarNorm        string   `json:"barnorm"`
	HistNorm       string   `json:"histnorm"`
	HistFunc       string   `json:"histfunc"`
	Cumulative     *bool    `json:"cumulative"`
	NBins          int      `json:"nbins"`
	TextAuto       bool     `json:"text_auto"`
	TextAutoFormat string   `json:"text_auto_format"`
}

// Histogram bins rows along x (or y when horizontal) and draws a bar per bin.
func Histogram(o HistogramOptions) (figure.Request, error) {
	r := newRequest("histogram", "histogram",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes, o.Patterns)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.Args.Orientation = o.Orientation
	barmode := or(o.BarMode, "relative")

	nbins := "nbinsx"
	if o.Orientation == "h" {
		nbins = "nbinsy"
		r.Args.MarginalX = o.Marginal
	} else {
		r.Args.MarginalY = o.Marginal
	}
	r.trace("histnorm", nonzero(o.HistNorm))
	r.trace("histfunc", nonzero(o.HistFunc))
	r.trace("cumulative.enabled", o.Cumulative)
	r.trace(nbins, nonzero(o.NBins))
	r.textAuto(o.TextAuto, "value", o.TextAutoFormat)
	r.layout("barmode", barmode)
	r.layout("barnorm", nonzero(o.BarNorm))
	r.barOpacity(barmode, o.Opacity)
	return r.done()
}

// ECDFOptions configures ECDF.
type ECDFOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes
	Symbols
	LineDashes

	X           Column   `json:"x"`
	Y           Column   `json:"y"`
	Color       Column   `json:"color"`
	Text        Column   `json:"text"`
	Markers     bool     `json:"markers"`
	Lines       *bool    `json:"lines"`
	Marginal    string   `json:"marginal"`
	Opacity     *float64 `json:"opacity"`
	Orientation string   `json:"orientation"`

	// ECDFNorm is "probability" (the default), "percent" or "none".
	ECDFNorm   string `json:"ecdfnorm"`
	ECDFMode   string `json:"ecdfmode"`
	RenderMode string `json:"render_mode"`
}

// ECDF draws the empirical cumulative distribution of x (y when horizontal).
func ECDF(o ECDFOptions) (figure.Request, error) {
	r := newRequest("ecdf", "scatter",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes, o.Symbols, o.LineDashes)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.Args.Orientation = o.Orientation
	r.Args.RenderMode = or(o.RenderMode, "auto")
	r.Args.ECDFMode = or(o.ECDFMode, figure.ECDFModeStandard)
	switch norm := or(o.ECDFNorm, figure.ECDFNormProbability); norm {
	case "none":
		r.Args.ECDFNorm = ""
	default:
		r.Args.ECDFNorm = norm
	}
	if o.Orientation == "h" {
		r.Args.MarginalY = o.Marginal
	} else {
		r.Args.MarginalX = o.Marginal
	}

	lines := o.Lines == nil || *o.Lines
	r.mode(lines, o.Markers)
	r.opacity(o.Opacity)
	return r.done()
}

// ViolinOptions configures Violin.
type ViolinOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes

	X           Column `json:"x"`
	Y           Column `json:"y"`
	Color       Column `json:"color"`
	Orientation string `json:"orientation"`
	ViolinMode  string `json:"violinmode"`

	// Points is "all", "outliers", "suspectedoutliers" or "false".
	Points string `json:"points"`
	Box    bool   `json:"box"`
}

// Violin draws a kernel density outline of y per category of x.
func Violin(o ViolinOptions) (figure.Request, error) {
	r := newRequest("violin", "violin", o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.Args.Orientation = o.Orientation
	r.trace("points", points(o.Points))
	r.trace("box.visible", o.Box)
	r.trace("scalegroup", true)
	r.trace("x0", " ")
	r.trace("y0", " ")
	r.layout("violinmode", nonzero(o.ViolinMode))
	return r.done()
}

// BoxOptions configures Box.
type BoxOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes

	X           Column `json:"x"`
	Y           Column `json:"y"`
	Color       Column `json:"color"`
	Orientation string `json:"orientation"`
	BoxMode     string `json:"boxmode"`

	// Points is "all", "outliers", "suspectedoutliers" or "false".
	Points  string `json:"points"`
	Notched bool   `json:"notched"`
}

// Box draws quartile boxes of y per category of x.
func Box(o BoxOptions) (figure.Request, error) {
	r := newRequest("box", "box", o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.Args.Orientation = o.Orientation
	r.trace("boxpoints", points(o.Points))
	r.trace("notched", o.Notched)
	r.trace("x0", " ")
	r.trace("y0", " ")
	r.layout("boxmode", nonzero(o.BoxMode))
	return r.done()
}

// StripOptions configures Strip.
type StripOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes

	X           Column `json:"x"`
	Y           Column `json:"y"`
	Color       Column `json:"color"`
	Orientation string `json:"orientation"`
	StripMode   string `json:"stripmode"`
}

// Strip draws every row as a jittered point per category.
func Strip(o StripOptions) (figure.Request, error) {
	r := newRequest("strip", "box", o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.Args.Orientation = o.Orientation
	r.trace("boxpoints", "all")
	r.trace("pointpos", 0)
	r.trace("hoveron", "points")
	r.trace("fillcolor", "rgba(255,255,255,0)")
	r.trace("line.color", "rgba(255,255,255,0)")
	r.trace("x0", " ")
	r.trace("y0", " ")
	r.layout("boxmode", nonzero(o.StripMode))
	return r.done()
}

// FunnelOptions configures Funnel.
type FunnelOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Axes

	X           Column   `json:"x"`
	Y           Column   `json:"y"`
	Color       Column   `json:"color"`
	Text        Column   `json:"text"`
	Opacity     *float64 `json:"opacity"`
	Orientation string   `json:"orientation"`
}

// Funnel draws one funnel stage per row.
func Funnel(o FunnelOptions) (figure.Request, error) {
	r := newRequest("funnel", "funnel", o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Axes)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.Args.Orientation = o.Orientation
	r.opacity(o.Opacity)
	return r.done()
}

// points converts the box and violin points option.
func points(p string) any {
	switch p {
	case "":
		return nil
	case "false":
		return false
	}
	return p
}

// nonzero returns nil for the zero value so the patch entry is dropped.
func nonzero[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}
