package express

import "github.com/matzehuels/plotcraft/pkg/figure"

// Axes3D configures the axes of a 3D scene.
type Axes3D struct {
	Axes
	LogZ   bool      `json:"log_z"`
	RangeZ []float64 `json:"range_z"`
}

func (x Axes3D) apply(a *figure.Args) {
	x.Axes.apply(a)
	a.LogZ, a.RangeZ = x.LogZ, x.RangeZ
}

// Errors3D adds z error bars to Errors.
type Errors3D struct {
	Errors
	ErrorZ      Column `json:"error_z"`
	ErrorZMinus Column `json:"error_z_minus"`
}

func (e Errors3D) apply(a *figure.Args) {
	e.Errors.apply(a)
	a.Bind(figure.RoleErrorZ, e.ErrorZ)
	a.Bind(figure.RoleErrorZMinus, e.ErrorZMinus)
}

// Scatter3DOptions configures Scatter3D.
type Scatter3DOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	Axes3D
	Symbols
	Errors3D

	X       Column   `json:"x"`
	Y       Column   `json:"y"`
	Z       Column   `json:"z"`
	Color   Column   `json:"color"`
	Size    Column   `json:"size"`
	Text    Column   `json:"text"`
	SizeMax float64  `json:"size_max"`
	Opacity *float64 `json:"opacity"`
}

// Scatter3D draws each row as a marker in 3D space.
func Scatter3D(o Scatter3DOptions) (figure.Request, error) {
	r := newRequest("scatter_3d", "scatter3d",
		o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Axes3D, o.Symbols, o.Errors3D)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleZ, o.Z)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleSize, o.Size)
	r.bind(figure.RoleText, o.Text)
	r.Args.SizeMax = o.SizeMax
	r.mode(false, true)
	r.opacity(o.Opacity)
	return r.done()
}

// Line3DOptions configures Line3D.
type Line3DOptions struct {
	Base
	Animation
	DiscreteColor
	Axes3D
	Symbols
	LineDashes
	Errors3D

	X         Column `json:"x"`
	Y         Column `json:"y"`
	Z         Column `json:"z"`
	Color     Column `json:"color"`
	Text      Column `json:"text"`
	LineGroup Column `json:"line_group"`
	Markers   bool   `json:"markers"`
}

// Line3D connects rows with a polyline in 3D space.
func Line3D(o Line3DOptions) (figure.Request, error) {
	r := newRequest("line_3d", "scatter3d",
		o.Base, o.Animation, o.DiscreteColor, o.Axes3D, o.Symbols, o.LineDashes, o.Errors3D)
	r.bind(figure.RoleX, o.X)
	r.bind(figure.RoleY, o.Y)
	r.bind(figure.RoleZ, o.Z)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.mode(true, o.Markers || o.Symbol.IsSet())
	return r.done()
}

// ScatterTernaryOptions configures ScatterTernary.
type ScatterTernaryOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	Symbols

	A       Column   `json:"a"`
	B       Column   `json:"b"`
	C       Column   `json:"c"`
	Color   Column   `json:"color"`
	Size    Column   `json:"size"`
	Text    Column   `json:"text"`
	SizeMax float64  `json:"size_max"`
	Opacity *float64 `json:"opacity"`
}

// ScatterTernary draws each row as a marker in barycentric coordinates.
func ScatterTernary(o ScatterTernaryOptions) (figure.Request, error) {
	r := newRequest("scatter_ternary", "scatterternary",
		o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Symbols)
	r.bind(figure.RoleA, o.A)
	r.bind(figure.RoleB, o.B)
	r.bind(figure.RoleC, o.C)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleSize, o.Size)
	r.bind(figure.RoleText, o.Text)
	r.Args.SizeMax = o.SizeMax
	r.mode(false, true)
	r.opacity(o.Opacity)
	return r.done()
}

// LineTernaryOptions configures LineTernary.
type LineTernaryOptions struct {
	Base
	Animation
	DiscreteColor
	Symbols
	LineDashes

	A         Column `json:"a"`
	B         Column `json:"b"`
	C         Column `json:"c"`
	Color     Column `json:"color"`
	Text      Column `json:"text"`
	LineGroup Column `json:"line_group"`
	Markers   bool   `json:"markers"`
	LineShape string `json:"line_shape"`
}

// LineTernary connects rows with a polyline in barycentric coordinates.
func LineTernary(o LineTernaryOptions) (figure.Request, error) {
	r := newRequest("line_ternary", "scatterternary",
		o.Base, o.Animation, o.DiscreteColor, o.Symbols, o.LineDashes)
	r.bind(figure.RoleA, o.A)
	r.bind(figure.RoleB, o.B)
	r.bind(figure.RoleC, o.C)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.mode(true, o.Markers || o.Symbol.IsSet())
	r.trace("line.shape", nonzero(o.LineShape))
	return r.done()
}

// PolarView orients the angular axis and scales the radial one. Direction
// defaults to "clockwise" and StartAngle, the angle of theta zero in
// degrees, to 90.
type PolarView struct {
	Direction  string    `json:"direction"`
	StartAngle *float64  `json:"start_angle"`
	RangeR     []float64 `json:"range_r"`
	RangeTheta []float64 `json:"range_theta"`
	LogR       bool      `json:"log_r"`
}

func (p PolarView) apply(a *figure.Args) {
	a.RangeR = p.RangeR
	a.LogR = p.LogR
}

func (p PolarView) patch(layout figure.Patch) {
	start := 90.0
	if p.StartAngle != nil {
		start = *p.StartAngle
	}
	layout.Set("polar.angularaxis.direction", or(p.Direction, "clockwise"))
	layout.Set("polar.angularaxis.rotation", start)
	if len(p.RangeTheta) == 2 {
		layout.Set("polar.angularaxis.range", []any{p.RangeTheta[0], p.RangeTheta[1]})
	}
}

// ScatterPolarOptions configures ScatterPolar.
type ScatterPolarOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	Symbols
	PolarView

	R          Column   `json:"r"`
	Theta      Column   `json:"theta"`
	Color      Column   `json:"color"`
	Size       Column   `json:"size"`
	Text       Column   `json:"text"`
	SizeMax    float64  `json:"size_max"`
	Opacity    *float64 `json:"opacity"`
	RenderMode string   `json:"render_mode"`
}

// ScatterPolar draws each row as a marker in polar coordinates.
func ScatterPolar(o ScatterPolarOptions) (figure.Request, error) {
	r := newRequest("scatter_polar", "scatterpolar",
		o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Symbols, o.PolarView)
	r.bind(figure.RoleR, o.R)
	r.bind(figure.RoleTheta, o.Theta)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleSize, o.Size)
	r.bind(figure.RoleText, o.Text)
	r.Args.SizeMax = o.SizeMax
	r.Args.RenderMode = or(o.RenderMode, "auto")
	r.mode(false, true)
	r.opacity(o.Opacity)
	o.PolarView.patch(r.LayoutPatch)
	return r.done()
}

// LinePolarOptions configures LinePolar.
type LinePolarOptions struct {
	Base
	Animation
	DiscreteColor
	Symbols
	LineDashes
	PolarView

	R          Column `json:"r"`
	Theta      Column `json:"theta"`
	Color      Column `json:"color"`
	Text       Column `json:"text"`
	LineGroup  Column `json:"line_group"`
	Markers    bool   `json:"markers"`
	LineClose  bool   `json:"line_close"`
	LineShape  string `json:"line_shape"`
	RenderMode string `json:"render_mode"`
}

// LinePolar connects rows with a polyline in polar coordinates.
func LinePolar(o LinePolarOptions) (figure.Request, error) {
	r := newRequest("line_polar", "scatterpolar",
		o.Base, o.Animation, o.DiscreteColor, o.Symbols, o.LineDashes, o.PolarView)
	r.bind(figure.RoleR, o.R)
	r.bind(figure.RoleTheta, o.Theta)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.Args.LineClose = o.LineClose
	r.Args.RenderMode = or(o.RenderMode, "auto")
	r.mode(true, o.Markers || o.Symbol.IsSet())
	r.trace("line.shape", nonzero(o.LineShape))
	o.PolarView.patch(r.LayoutPatch)
	return r.done()
}

// BarPolarOptions configures BarPolar.
type BarPolarOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	Patterns
	PolarView

	R       Column `json:"r"`
	Theta   Column `json:"theta"`
	Color   Column `json:"color"`
	BarBase Column `json:"base"`
	BarNorm string `json:"barnorm"`
	BarMode string `json:"barmode"`
}

// BarPolar draws one radial bar per row.
func BarPolar(o BarPolarOptions) (figure.Request, error) {
	r := newRequest("bar_polar", "barpolar",
		o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Patterns, o.PolarView)
	r.bind(figure.RoleR, o.R)
	r.bind(figure.RoleTheta, o.Theta)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleBase, o.BarBase)
	r.layout("barnorm", nonzero(o.BarNorm))
	r.layout("barmode", or(o.BarMode, "relative"))
	o.PolarView.patch(r.LayoutPatch)
	return r.done()
}
