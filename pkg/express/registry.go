package express

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// Chart describes a chart constructor by name, for callers that build
// requests from decoded files or HTTP bodies.
type Chart struct {
	Name        string
	TraceType   string
	Replacement string // set on deprecated charts

	build func(src frame.Source, params map[string]any) (figure.Request, error)
}

// Deprecated reports whether the chart has a replacement.
func (c Chart) Deprecated() bool { return c.Replacement != "" }

// Notice returns the deprecation notice of a deprecated chart.
func (c Chart) Notice() (Deprecation, bool) {
	if !c.Deprecated() {
		return Deprecation{}, false
	}
	return Deprecation{Function: c.Name, Replacement: c.Replacement, URL: mapLibreURL}, true
}

// Request decodes params into the chart's options and calls its
// constructor. Keys are the snake_case option names ("x", "color",
// "barmode", ...). A string value for a column option names a column of
// src. Unknown keys fail with INVALID_SPEC.
func (c Chart) Request(src frame.Source, params map[string]any) (figure.Request, error) {
	return c.build(src, params)
}

func chart[T any, PT interface {
	*T
	setFrame(frame.Source)
}](name, traceType string, fn func(T) (figure.Request, error)) Chart {
	return Chart{
		Name:      name,
		TraceType: traceType,
		build: func(src frame.Source, params map[string]any) (figure.Request, error) {
			var opts T
			if err := decodeParams(params, &opts); err != nil {
				return figure.Request{}, errors.Wrap(errors.ErrCodeInvalidSpec, err, "%s options", name)
			}
			PT(&opts).setFrame(src)
			return fn(opts)
		},
	}
}

func decodeParams(params map[string]any, dst any) error {
	if len(params) == 0 {
		return nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func deprecatedChart(c Chart, replacement string) Chart {
	c.Replacement = replacement
	return c
}

var charts = []Chart{
	chart("scatter", "scatter", Scatter),
	chart("density_contour", "histogram2dcontour", DensityContour),
	chart("density_heatmap", "histogram2d", DensityHeatmap),
	chart("line", "scatter", Line),
	chart("area", "scatter", Area),
	chart("bar", "bar", Bar),
	chart("timeline", figure.TraceTimeline, Timeline),
	chart("histogram", "histogram", Histogram),
	chart("ecdf", "scatter", ECDF),
	chart("violin", "violin", Violin),
	chart("box", "box", Box),
	chart("strip", "box", Strip),
	chart("scatter_3d", "scatter3d", Scatter3D),
	chart("line_3d", "scatter3d", Line3D),
	chart("scatter_ternary", "scatterternary", ScatterTernary),
	chart("line_ternary", "scatterternary", LineTernary),
	chart("scatter_polar", "scatterpolar", ScatterPolar),
	chart("line_polar", "scatterpolar", LinePolar),
	chart("bar_polar", "barpolar", BarPolar),
	chart("choropleth", "choropleth", Choropleth),
	chart("scatter_geo", "scattergeo", ScatterGeo),
	chart("line_geo", "scattergeo", LineGeo),
	chart("scatter_map", "scattermap", ScatterMap),
	chart("choropleth_map", "choroplethmap", ChoroplethMap),
	chart("density_map", "densitymap", DensityMap),
	chart("line_map", "scattermap", LineMap),
	deprecatedChart(chart("scatter_mapbox", "scattermapbox", ScatterMapbox), "scatter_map"),
	deprecatedChart(chart("choropleth_mapbox", "choroplethmapbox", ChoroplethMapbox), "choropleth_map"),
	deprecatedChart(chart("density_mapbox", "densitymapbox", DensityMapbox), "density_map"),
	deprecatedChart(chart("line_mapbox", "scattermapbox", LineMapbox), "line_map"),
	chart("scatter_matrix", "splom", ScatterMatrix),
	chart("parallel_coordinates", "parcoords", ParallelCoordinates),
	chart("parallel_categories", "parcats", ParallelCategories),
	chart("pie", "pie", Pie),
	chart("sunburst", "sunburst", Sunburst),
	chart("treemap", "treemap", Treemap),
	chart("icicle", "icicle", Icicle),
	chart("funnel", "funnel", Funnel),
	chart("funnel_area", "funnelarea", FunnelArea),
}

// Lookup finds a chart by name. Names are matched case-insensitively and
// dashes are read as underscores.
func Lookup(name string) (Chart, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	i := slices.IndexFunc(charts, func(c Chart) bool { return c.Name == key })
	if i < 0 {
		return Chart{}, errors.New(errors.ErrCodeUnknownChart, "unknown chart: %s", name)
	}
	return charts[i], nil
}

// Charts lists every chart in declaration order.
func Charts() []Chart { return slices.Clone(charts) }
