package figure

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/observability"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// TraceTimeline is the request tag of Gantt-style charts. It is drawn as a
// horizontal bar trace whose bars start at x_start.
const TraceTimeline = "timeline"

// colorAxis is the shared continuous color axis of a single-trace figure.
const colorAxis = "coloraxis"

// Assembler is the default Builder. It emits one trace per request.
type Assembler struct {
	// Registry validates the assembled figure. Nil means schema.Default().
	Registry *schema.Registry

	// Strict also rejects attributes the registry does not know.
	Strict bool

	Logger *log.Logger
}

// NewAssembler returns an Assembler over the default catalogue.
func NewAssembler(logger *log.Logger) *Assembler {
	return &Assembler{Logger: logger}
}

// Build assembles and validates the figure described by req.
func (a *Assembler) Build(ctx context.Context, req Request) (*Figure, error) {
	chart := req.Chart
	if chart == "" {
		chart = req.TraceType
	}
	observability.Build().OnBuildStart(ctx, chart)
	start := time.Now()

	fig, err := a.build(ctx, req)

	traces := 0
	if fig != nil {
		traces = len(fig.Data)
	}
	observability.Build().OnBuildComplete(ctx, chart, traces, time.Since(start), err)
	return fig, err
}

func (a *Assembler) build(ctx context.Context, req Request) (*Figure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TraceType == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no trace type")
	}
	logger := a.logger()

	b, err := newTraceBuilder(req, logger)
	if err != nil {
		return nil, err
	}
	steps := []func() error{
		b.positions,
		b.timeline,
		b.ecdf,
		b.hierarchy,
		b.color,
		b.encodings,
		b.dimensions,
		b.customData,
		b.axes,
		b.common,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	merge(b.trace, req.TracePatch)
	merge(b.layout, req.LayoutPatch)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.validate(ctx, b)
}

func (a *Assembler) validate(ctx context.Context, b *traceBuilder) (*Figure, error) {
	reg := a.Registry
	if reg == nil {
		reg = schema.Default()
	}
	opts := schema.WalkOptions{Strict: a.Strict}

	trace, vs := schema.ValidateTree(reg, b.traceType, b.trace, opts)
	layout, lvs := schema.ValidateTree(reg, "layout", b.layout, opts)
	vs = append(vs, lvs...)
	if len(vs) > 0 {
		for _, v := range vs {
			observability.Validation().OnViolation(ctx, v.Path)
		}
		a.logger().Debug("figure rejected", "trace", b.traceType, "violations", len(vs))
		return nil, vs
	}
	return &Figure{Data: []Trace{trace}, Layout: layout}, nil
}

func (a *Assembler) logger() *log.Logger {
	if a.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return a.Logger
}

// =============================================================================
// Trace builder
// =============================================================================

// traceBuilder accumulates the trace and layout of one request.
type traceBuilder struct {
	req       Request
	args      Args
	traceType string
	logger    *log.Logger

	res    resolver
	bound  map[Role]series
	path   []series
	dims   []series
	hover  []series
	custom []series

	trace  Trace
	layout map[string]any

	colorDone bool
}

func newTraceBuilder(req Request, logger *log.Logger) (*traceBuilder, error) {
	args := req.Args
	res := resolver{src: args.Frame, labels: args.Labels}

	bound, err := res.resolveAll(args.Roles)
	if err != nil {
		return nil, err
	}
	path, err := res.resolveList("path", args.Path)
	if err != nil {
		return nil, err
	}
	dims, err := res.resolveList("dimensions", args.Dimensions)
	if err != nil {
		return nil, err
	}
	hover, err := res.resolveList("hover_data", args.HoverData)
	if err != nil {
		return nil, err
	}
	custom, err := res.resolveList("custom_data", args.CustomData)
	if err != nil {
		return nil, err
	}

	if args.Frame == nil {
		if err := sameLength(bound, path, dims, hover, custom); err != nil {
			return nil, err
		}
	}

	traceType := req.TraceType
	if traceType == TraceTimeline {
		traceType = "bar"
	}
	return &traceBuilder{
		req:       req,
		args:      args,
		traceType: traceType,
		logger:    logger,
		res:       res,
		bound:     bound,
		path:      path,
		dims:      dims,
		hover:     hover,
		custom:    custom,
		trace:     Trace{"type": traceType},
		layout:    make(map[string]any),
	}, nil
}

// sameLength checks that inline series all have one length. With a frame,
// resolve already pins every series to the frame's row count.
func sameLength(bound map[Role]series, lists ...[]series) error {
	roles := make([]Role, 0, len(bound))
	for role := range bound {
		roles = append(roles, role)
	}
	slices.Sort(roles)

	want, first := -1, ""
	check := func(what string, s series) error {
		if want < 0 {
			want, first = len(s.values), what
			return nil
		}
		if len(s.values) != want {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s has %d values, but %s has %d", what, len(s.values), first, want)
		}
		return nil
	}
	for _, role := range roles {
		if err := check(string(role), bound[role]); err != nil {
			return err
		}
	}
	for _, list := range lists {
		for i, s := range list {
			if err := check(fmt.Sprintf("%s[%d]", s.name, i), s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *traceBuilder) setTrace(path string, v any)  { setPath(b.trace, path, v) }
func (b *traceBuilder) setLayout(path string, v any) { setPath(b.layout, path, v) }

// positionRoles are copied to the trace attribute of the same name.
var positionRoles = []Role{
	RoleX, RoleY, RoleZ, RoleA, RoleB, RoleC, RoleR, RoleTheta,
	RoleLat, RoleLon, RoleLocations, RoleValues, RoleParents, RoleIDs, RoleBase,
}

// errorRoles map error-bar roles to their trace attribute.
var errorRoles = map[Role]string{
	RoleErrorX:      "error_x.array",
	RoleErrorXMinus: "error_x.arrayminus",
	RoleErrorY:      "error_y.array",
	RoleErrorYMinus: "error_y.arrayminus",
	RoleErrorZ:      "error_z.array",
	RoleErrorZMinus: "error_z.arrayminus",
}

func (b *traceBuilder) positions() error {
	for _, role := range positionRoles {
		if s, ok := b.bound[role]; ok {
			b.setTrace(string(role), s.values)
		}
	}
	if b.args.LineClose {
		b.closeLine()
	}
	if s, ok := b.bound[RoleNames]; ok {
		b.setTrace("labels", s.values)
	}
	if s, ok := b.bound[RoleText]; ok {
		b.setTrace("text", texts(s.values))
	}
	if s, ok := b.bound[RoleHoverName]; ok {
		b.setTrace("hovertext", texts(s.values))
	}
	for role, attr := range errorRoles {
		if s, ok := b.bound[role]; ok {
			b.setTrace(attr, s.values)
		}
	}
	if b.args.Orientation != "" && slices.Contains(orientedTraces, b.traceType) {
		b.setTrace("orientation", b.args.Orientation)
	}
	for _, role := range []Role{RoleFacetRow, RoleFacetCol, RoleAnimationFrame, RoleAnimationGroup, RoleLineGroup} {
		if _, ok := b.bound[role]; ok {
			b.logger.Debug("single-trace figure ignores grouping", "role", role)
		}
	}
	return nil
}

// closeLine repeats the first point of a polar line at its end.
func (b *traceBuilder) closeLine() {
	for _, role := range []Role{RoleR, RoleTheta} {
		s, ok := b.bound[role]
		if !ok || len(s.values) == 0 {
			continue
		}
		b.setTrace(string(role), append(slices.Clone(s.values), s.values[0]))
	}
}

var orientedTraces = []string{"bar", "histogram", "box", "violin", "funnel"}

// timeline turns x_start/x_end into bar bases and lengths.
func (b *traceBuilder) timeline() error {
	if b.req.TraceType != TraceTimeline {
		return nil
	}
	start, okStart := b.bound[RoleXStart]
	end, okEnd := b.bound[RoleXEnd]
	if !okStart || !okEnd {
		return errors.New(errors.ErrCodeInvalidInput, "timeline needs both x_start and x_end")
	}
	base, lengths, dates, err := spans(start.values, end.values)
	if err != nil {
		return err
	}
	b.setTrace("base", base)
	b.setTrace("x", lengths)
	if dates {
		b.setLayout("xaxis.type", "date")
	}
	return nil
}

// ecdf replaces the sample axis with sorted values and the other axis with
// their cumulative distribution.
func (b *traceBuilder) ecdf() error {
	if b.req.Chart != "ecdf" {
		return nil
	}
	sampleRole, weightRole := RoleX, RoleY
	if b.args.Orientation == "h" {
		sampleRole, weightRole = RoleY, RoleX
	}
	sample, ok := b.bound[sampleRole]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "ecdf needs %s", sampleRole)
	}
	var weights []any
	if w, ok := b.bound[weightRole]; ok {
		weights = w.values
	}
	xs, ys, err := ecdf(sample.values, weights, b.args.ECDFNorm, b.args.ECDFMode)
	if err != nil {
		return err
	}
	b.setTrace(string(sampleRole), xs)
	b.setTrace(string(weightRole), ys)
	b.setTrace("line.shape", "hv")

	title := b.args.ECDFNorm
	if title == "" {
		title = "count"
	}
	b.setLayout(string(weightRole)+"axis.title.text", title)
	b.setLayout(string(sampleRole)+"axis.title.text", b.res.label(sample))
	return nil
}

func (b *traceBuilder) hierarchy() error {
	if len(b.path) == 0 {
		return nil
	}
	var values, color *series
	if s, ok := b.bound[RoleValues]; ok {
		values = &s
	}
	if s, ok := b.bound[RoleColor]; ok {
		color = &s
	}
	h, err := buildHierarchy(b.path, values, color)
	if err != nil {
		return err
	}
	b.setTrace("ids", h.ids)
	b.setTrace("labels", h.labels)
	b.setTrace("parents", h.parents)
	b.setTrace("values", h.values)
	if color != nil {
		b.colorDone = true
		if continuous(color.values) {
			b.setTrace("marker.colors", h.colors)
			b.continuousAxis("marker.coloraxis", *color)
		} else {
			b.setTrace("marker.colors", b.discreteColors(color.name, h.colors))
		}
	}
	return nil
}

// colorTarget names the attribute a color binding lands on for a trace type
// and whether it may carry numbers.
func colorTarget(traceType string) (attr, axis string, numeric bool) {
	switch traceType {
	case "choropleth", "choroplethmap", "choroplethmapbox":
		return "z", "coloraxis", true
	case "pie", "funnelarea", "sunburst", "treemap", "icicle":
		return "marker.colors", "marker.coloraxis", traceType != "pie" && traceType != "funnelarea"
	case "parcoords", "parcats":
		return "line.color", "line.coloraxis", true
	case "histogram", "box", "violin":
		return "marker.color", "", false
	case "histogram2d", "histogram2dcontour", "densitymap", "densitymapbox":
		return "", "", false
	}
	return "marker.color", "marker.coloraxis", true
}

func (b *traceBuilder) color() error {
	switch b.traceType {
	case "histogram2d", "histogram2dcontour", "densitymap", "densitymapbox":
		b.setTrace("coloraxis", colorAxis)
		b.colorScale()
	}

	s, ok := b.bound[RoleColor]
	if !ok || b.colorDone {
		return nil
	}
	attr, axis, numeric := colorTarget(b.traceType)
	if attr == "" {
		b.logger.Debug("color is not drawn by this trace type", "trace", b.traceType)
		return nil
	}
	if numeric && continuous(s.values) {
		b.setTrace(attr, s.values)
		b.continuousAxis(axis, s)
		return nil
	}
	if attr == "z" || attr == "line.color" {
		return errors.New(errors.ErrCodeInvalidInput,
			"%s traces need a numeric color column, %q is discrete", b.traceType, s.name)
	}
	b.setTrace(attr, b.discreteColors(s.name, s.values))
	b.setLayout("legend.title.text", b.res.label(s))
	return nil
}

// continuousAxis binds a trace attribute to the shared color axis and
// configures its scale from the request.
func (b *traceBuilder) continuousAxis(axisAttr string, s series) {
	b.setTrace(axisAttr, colorAxis)
	b.colorScale()
	b.setLayout("coloraxis.colorbar.title.text", b.res.label(s))
	if b.args.ColorContinuousMidpoint != nil {
		b.setLayout("coloraxis.cmid", *b.args.ColorContinuousMidpoint)
	}
	if len(b.args.RangeColor) == 2 {
		b.setLayout("coloraxis.cmin", b.args.RangeColor[0])
		b.setLayout("coloraxis.cmax", b.args.RangeColor[1])
	}
}

func (b *traceBuilder) colorScale() {
	switch scale := b.args.ColorContinuousScale; len(scale) {
	case 0:
	case 1:
		b.setLayout("coloraxis.colorscale", scale[0])
	default:
		b.setLayout("coloraxis.colorscale", toAny(scale))
	}
}

func (b *traceBuilder) discreteColors(column string, values []any) []any {
	seq := b.args.ColorDiscreteSequence
	if len(seq) == 0 {
		seq = DefaultColorSequence
	}
	return discrete(values, b.args.CategoryOrders[column], b.args.ColorDiscreteMap, seq)
}

// encodings maps size, symbol, line_dash and pattern_shape.
func (b *traceBuilder) encodings() error {
	if s, ok := b.bound[RoleSize]; ok {
		sizes, err := numbers(RoleSize, s.values)
		if err != nil {
			return err
		}
		b.setTrace("marker.size", sizes)
		b.setTrace("marker.sizemode", "area")
		b.setTrace("marker.sizeref", sizeref(sizes, b.args.SizeMax))
	}
	if s, ok := b.bound[RoleSymbol]; ok {
		seq := or(b.args.SymbolSequence, DefaultSymbolSequence)
		b.setTrace("marker.symbol", discrete(s.values, b.args.CategoryOrders[s.name], b.args.SymbolMap, seq))
	}
	if s, ok := b.bound[RolePatternShape]; ok {
		seq := or(b.args.PatternShapeSequence, DefaultPatternSequence)
		b.setTrace("marker.pattern.shape", discrete(s.values, b.args.CategoryOrders[s.name], b.args.PatternShapeMap, seq))
	}
	if s, ok := b.bound[RoleLineDash]; ok {
		cats := categories(s.values, b.args.CategoryOrders[s.name])
		if len(cats) == 1 {
			seq := or(b.args.LineDashSequence, DefaultDashSequence)
			b.setTrace("line.dash", discrete(s.values[:1], nil, b.args.LineDashMap, seq)[0])
		} else {
			b.logger.Debug("line_dash with several categories needs one trace per category", "categories", len(cats))
		}
	}
	return nil
}

// dimensionTraces take their data as a list of dimension objects.
var dimensionTraces = []string{"splom", "parcoords", "parcats"}

func (b *traceBuilder) dimensions() error {
	if !slices.Contains(dimensionTraces, b.traceType) {
		return nil
	}
	dims := b.dims
	if len(dims) == 0 {
		dims = b.autoDimensions()
	}
	out := make([]any, 0, len(dims))
	for _, d := range dims {
		out = append(out, map[string]any{"label": b.res.label(d), "values": d.values})
	}
	b.trace["dimensions"] = out
	return nil
}

// autoDimensions picks frame columns when no dimensions were named: numeric
// columns for splom and parcoords, low-cardinality columns for parcats. The
// color column is never a dimension.
func (b *traceBuilder) autoDimensions() []series {
	src := b.args.Frame
	if src == nil {
		return nil
	}
	skip := ""
	if s, ok := b.bound[RoleColor]; ok {
		skip = s.name
	}
	maxCard := b.args.DimensionsMaxCardinality
	if maxCard <= 0 {
		maxCard = 50
	}
	var out []series
	for _, name := range src.Columns() {
		if name == skip {
			continue
		}
		values, _ := src.Column(name)
		keep := continuous(values)
		if b.traceType == "parcats" {
			keep = len(categories(values, nil)) <= maxCard
		}
		if keep {
			out = append(out, series{name: name, values: values})
		}
	}
	return out
}

// customData packs hover_data and custom_data columns into per-row tuples.
func (b *traceBuilder) customData() error {
	cols := append(slices.Clone(b.hover), b.custom...)
	if len(cols) == 0 {
		return nil
	}
	n := len(cols[0].values)
	rowsOut := make([]any, n)
	for i := range n {
		row := make([]any, len(cols))
		for j, c := range cols {
			if i < len(c.values) {
				row[j] = c.values[i]
			}
		}
		rowsOut[i] = row
	}
	b.setTrace("customdata", rowsOut)
	return nil
}

// axisPrefix returns the layout container of a position role's axis.
func (b *traceBuilder) axisPrefix(role Role) string {
	switch b.traceType {
	case "scatter3d":
		if role == RoleX || role == RoleY || role == RoleZ {
			return "scene." + string(role) + "axis"
		}
	case "scatterternary":
		if role == RoleA || role == RoleB || role == RoleC {
			return "ternary." + string(role) + "axis"
		}
	case "scatterpolar", "barpolar":
		if role == RoleR {
			return "polar.radialaxis"
		}
	case "scatter", "bar", "histogram", "histogram2d", "histogram2dcontour", "box", "violin", "funnel":
		if role == RoleX || role == RoleY {
			return string(role) + "axis"
		}
	}
	return ""
}

// axes titles each axis after its column and applies log, range and
// category order options.
func (b *traceBuilder) axes() error {
	for _, role := range []Role{RoleX, RoleY, RoleZ, RoleA, RoleB, RoleC} {
		s, ok := b.bound[role]
		prefix := b.axisPrefix(role)
		if !ok || prefix == "" || b.req.Chart == "ecdf" {
			continue
		}
		b.setLayout(prefix+".title.text", b.res.label(s))
		if order := b.args.CategoryOrders[s.name]; len(order) > 0 && !b.isScene(prefix) {
			b.setLayout(prefix+".categoryorder", "array")
			b.setLayout(prefix+".categoryarray", toAny(order))
		}
	}
	if s, ok := b.bound[RoleY]; ok && b.req.TraceType == TraceTimeline {
		b.setLayout("yaxis.title.text", b.res.label(s))
	}

	scales := []struct {
		role Role
		log  bool
		rng  []float64
	}{
		{RoleX, b.args.LogX, b.args.RangeX},
		{RoleY, b.args.LogY, b.args.RangeY},
		{RoleZ, b.args.LogZ, b.args.RangeZ},
		{RoleR, b.args.LogR, b.args.RangeR},
	}
	for _, sc := range scales {
		prefix := b.axisPrefix(sc.role)
		if prefix == "" {
			if sc.log || len(sc.rng) > 0 {
				b.logger.Debug("axis option has no axis on this trace type", "axis", sc.role, "trace", b.traceType)
			}
			continue
		}
		if sc.log {
			b.setLayout(prefix+".type", "log")
		}
		if len(sc.rng) == 2 {
			b.setLayout(prefix+".range", toAny(sc.rng))
		}
	}
	return nil
}

func (b *traceBuilder) isScene(prefix string) bool {
	return strings.HasPrefix(prefix, "scene.")
}

// common applies title, size and template options.
func (b *traceBuilder) common() error {
	a := b.args
	if a.Title != "" {
		b.setLayout("title.text", a.Title)
	}
	if a.Subtitle != "" {
		b.setLayout("title.subtitle.text", a.Subtitle)
	}
	if a.Width > 0 {
		b.setLayout("width", a.Width)
	}
	if a.Height > 0 {
		b.setLayout("height", a.Height)
	}
	if a.Template != "" {
		b.setLayout("template", a.Template)
	}
	return nil
}

// =============================================================================
// Value helpers
// =============================================================================

func texts(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = category(v)
	}
	return out
}

// numbers converts a numeric column, mapping missing values to zero.
func numbers(role Role, values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = 0.0
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s value %v is not a number", role, v)
		}
		out[i] = f
	}
	return out, nil
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func or(seq, fallback []string) []string {
	if len(seq) > 0 {
		return seq
	}
	return fallback
}
