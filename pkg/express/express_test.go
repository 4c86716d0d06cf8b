package express

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/frame"
	"github.com/matzehuels/plotcraft/pkg/observability"
)

func gapminder(t *testing.T) *frame.Table {
	t.Helper()
	tbl, err := frame.NewTable(map[string][]any{
		"country":   {"India", "France", "Japan"},
		"continent": {"Asia", "Europe", "Asia"},
		"gdp":       {1.0, 2.0, 3.0},
		"pop":       {10.0, 20.0, 30.0},
	}, []string{"country", "continent", "gdp", "pop"})
	require.NoError(t, err)
	return tbl
}

func silence(t *testing.T) *[]Deprecation {
	t.Helper()
	var got []Deprecation
	prev := SetNoticeHandler(func(d Deprecation) { got = append(got, d) })
	t.Cleanup(func() { SetNoticeHandler(prev) })
	return &got
}

func patchValue(t *testing.T, p figure.Patch, path string) any {
	t.Helper()
	v, ok := p.Get(path)
	require.True(t, ok, "missing %s in %v", path, p)
	return v
}

func TestScatter(t *testing.T) {
	tbl := gapminder(t)
	opacity := 0.7
	req, err := Scatter(ScatterOptions{
		Base:    Base{DataFrame: tbl, Title: "GDP"},
		X:       Col("gdp"),
		Y:       Col("pop"),
		Text:    Col("country"),
		Opacity: &opacity,
	})
	require.NoError(t, err)

	assert.Equal(t, "scatter", req.Chart)
	assert.Equal(t, "scatter", req.TraceType)
	assert.Equal(t, Col("gdp"), req.Args.Roles[figure.RoleX])
	assert.Equal(t, "auto", req.Args.RenderMode)
	assert.Equal(t, "GDP", req.Args.Title)
	assert.Same(t, tbl, req.Args.Frame)
	assert.Equal(t, "markers+text", patchValue(t, req.TracePatch, "mode"))
	assert.Equal(t, 0.7, patchValue(t, req.TracePatch, "marker.opacity"))
}

func TestLineMode(t *testing.T) {
	req, err := Line(LineOptions{X: Col("gdp"), Y: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, "lines", patchValue(t, req.TracePatch, "mode"))

	req, err = Line(LineOptions{X: Col("gdp"), Y: Col("pop"), Markers: true})
	require.NoError(t, err)
	assert.Equal(t, "lines+markers", patchValue(t, req.TracePatch, "mode"))
}

func TestBarDefaults(t *testing.T) {
	req, err := Bar(BarOptions{X: Col("continent"), Y: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, "relative", patchValue(t, req.LayoutPatch, "barmode"))
	_, ok := req.TracePatch.Get("marker.opacity")
	assert.False(t, ok)

	req, err = Bar(BarOptions{X: Col("continent"), Y: Col("pop"), BarMode: "overlay", TextAuto: true, TextAutoFormat: ".2s"})
	require.NoError(t, err)
	assert.Equal(t, "overlay", patchValue(t, req.LayoutPatch, "barmode"))
	assert.Equal(t, 0.5, patchValue(t, req.TracePatch, "marker.opacity"))
	assert.Equal(t, "%{value:.2s}", patchValue(t, req.TracePatch, "texttemplate"))
}

func TestECDFDefaults(t *testing.T) {
	req, err := ECDF(ECDFOptions{X: Col("gdp")})
	require.NoError(t, err)
	assert.Equal(t, figure.ECDFNormProbability, req.Args.ECDFNorm)
	assert.Equal(t, figure.ECDFModeStandard, req.Args.ECDFMode)
	assert.Equal(t, "lines", patchValue(t, req.TracePatch, "mode"))

	req, err = ECDF(ECDFOptions{X: Col("gdp"), ECDFNorm: "none"})
	require.NoError(t, err)
	assert.Empty(t, req.Args.ECDFNorm)
}

func TestPolarDefaults(t *testing.T) {
	req, err := LinePolar(LinePolarOptions{R: Col("gdp"), Theta: Col("country"), LineClose: true})
	require.NoError(t, err)
	assert.Equal(t, "clockwise", patchValue(t, req.LayoutPatch, "polar.angularaxis.direction"))
	assert.Equal(t, 90.0, patchValue(t, req.LayoutPatch, "polar.angularaxis.rotation"))
	assert.True(t, req.Args.LineClose)

	start := 0.0
	req, err = BarPolar(BarPolarOptions{
		R:         Col("gdp"),
		Theta:     Col("country"),
		PolarView: PolarView{Direction: "counterclockwise", StartAngle: &start},
	})
	require.NoError(t, err)
	assert.Equal(t, "counterclockwise", patchValue(t, req.LayoutPatch, "polar.angularaxis.direction"))
	assert.Equal(t, 0.0, patchValue(t, req.LayoutPatch, "polar.angularaxis.rotation"))
	assert.Equal(t, "relative", patchValue(t, req.LayoutPatch, "barmode"))
}

func TestHierarchyConflict(t *testing.T) {
	tests := []struct {
		name string
		opts HierarchyOptions
	}{
		{"ids", HierarchyOptions{Path: Cols("continent", "country"), IDs: Col("country")}},
		{"parents", HierarchyOptions{Path: Cols("continent", "country"), Parents: Col("continent")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, fn := range []func(HierarchyOptions) (figure.Request, error){Sunburst, Treemap, Icicle} {
				_, err := fn(tt.opts)
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeConflictingArguments))
				for _, name := range []string{"path", "ids", "parents"} {
					assert.Contains(t, err.Error(), name)
				}
			}
		})
	}
}

func TestHierarchyBranchValues(t *testing.T) {
	req, err := Sunburst(HierarchyOptions{Path: Cols("continent", "country"), Values: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, "total", patchValue(t, req.TracePatch, "branchvalues"))

	req, err = Treemap(HierarchyOptions{Path: Cols("continent", "country"), BranchValues: "remainder"})
	require.NoError(t, err)
	assert.Equal(t, "remainder", patchValue(t, req.TracePatch, "branchvalues"))

	req, err = Icicle(HierarchyOptions{Names: Col("country"), Parents: Col("continent")})
	require.NoError(t, err)
	_, ok := req.TracePatch.Get("branchvalues")
	assert.False(t, ok)
	assert.Equal(t, "icicle", req.TraceType)
}

func TestHierarchyColorway(t *testing.T) {
	req, err := Treemap(HierarchyOptions{
		Path:          Cols("continent", "country"),
		DiscreteColor: DiscreteColor{ColorDiscreteSequence: []string{"red", "blue"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, patchValue(t, req.LayoutPatch, "treemapcolorway"))
}

func TestPieLegend(t *testing.T) {
	req, err := Pie(PieOptions{Values: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, false, patchValue(t, req.TracePatch, "showlegend"))

	req, err = Pie(PieOptions{Names: Col("country"), Values: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, true, patchValue(t, req.TracePatch, "showlegend"))

	req, err = FunnelArea(FunnelAreaOptions{Names: Col("country"), Values: Col("pop")})
	require.NoError(t, err)
	assert.Equal(t, "funnelarea", req.TraceType)
	assert.Equal(t, true, patchValue(t, req.TracePatch, "showlegend"))
}

func TestParallelCategoriesCardinality(t *testing.T) {
	req, err := ParallelCategories(ParallelCategoriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 50, req.Args.DimensionsMaxCardinality)

	req, err = ParallelCategories(ParallelCategoriesOptions{DimensionsMaxCardinality: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, req.Args.DimensionsMaxCardinality)
}

func TestScatterMatrix(t *testing.T) {
	req, err := ScatterMatrix(ScatterMatrixOptions{Dimensions: Cols("gdp", "pop")})
	require.NoError(t, err)
	assert.Equal(t, "splom", req.TraceType)
	assert.Len(t, req.Args.Dimensions, 2)
	assert.Equal(t, "select", patchValue(t, req.LayoutPatch, "dragmode"))
}

type recordingHooks struct {
	observability.NoopValidationHooks
	deprecated []string
}

func (h *recordingHooks) OnDeprecation(_ context.Context, function string) {
	h.deprecated = append(h.deprecated, function)
}

func TestMapboxDeprecation(t *testing.T) {
	notices := silence(t)
	hooks := &recordingHooks{}
	observability.SetValidationHooks(hooks)
	t.Cleanup(observability.Reset)

	zoom := 3.0
	req, err := ScatterMapbox(ScatterMapOptions{
		Lat:     Col("lat"),
		Lon:     Col("lon"),
		MapView: MapView{Zoom: &zoom, MapboxStyle: "carto-positron"},
	})
	require.NoError(t, err)
	assert.Equal(t, "scattermapbox", req.TraceType)
	assert.Equal(t, 3.0, patchValue(t, req.LayoutPatch, "mapbox.zoom"))
	assert.Equal(t, "carto-positron", patchValue(t, req.LayoutPatch, "mapbox.style"))

	require.Len(t, *notices, 1)
	assert.Equal(t,
		"*scatter_mapbox* is deprecated! Use *scatter_map* instead. Learn more at: https://plotly.com/python/mapbox-to-maplibre/",
		(*notices)[0].String())
	assert.Equal(t, []string{"scatter_mapbox"}, hooks.deprecated)

	_, err = ChoroplethMapbox(ChoroplethMapOptions{})
	require.NoError(t, err)
	_, err = DensityMapbox(DensityMapOptions{})
	require.NoError(t, err)
	_, err = LineMapbox(LineMapOptions{})
	require.NoError(t, err)
	require.Len(t, *notices, 4)
	assert.Equal(t, "line_map", (*notices)[3].Replacement)
}

func TestScatterMapNoNotice(t *testing.T) {
	notices := silence(t)
	req, err := ScatterMap(ScatterMapOptions{Lat: Col("lat"), Lon: Col("lon")})
	require.NoError(t, err)
	assert.Empty(t, *notices)
	assert.Equal(t, 8.0, patchValue(t, req.LayoutPatch, "map.zoom"))
}

func TestGeoView(t *testing.T) {
	visible := false
	req, err := Choropleth(ChoroplethOptions{
		Regions: Regions{Locations: Col("iso"), LocationMode: "ISO-3"},
		GeoView: GeoView{Projection: "natural earth", FitBounds: "false", BasemapVisible: &visible},
		Color:   Col("pop"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ISO-3", patchValue(t, req.TracePatch, "locationmode"))
	assert.Equal(t, "natural earth", patchValue(t, req.LayoutPatch, "geo.projection.type"))
	assert.Equal(t, false, patchValue(t, req.LayoutPatch, "geo.fitbounds"))
	assert.Equal(t, false, patchValue(t, req.LayoutPatch, "geo.visible"))
	assert.Equal(t, Col("iso"), req.Args.Roles[figure.RoleLocations])
}

func TestBuild(t *testing.T) {
	req, err := Scatter(ScatterOptions{
		Base:  Base{DataFrame: gapminder(t)},
		X:     Col("gdp"),
		Y:     Col("pop"),
		Color: Col("continent"),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	fig, err := Build(ctx, nil, req)
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "markers", fig.Data[0]["mode"])
	assert.Equal(t, []any{1.0, 2.0, 3.0}, fig.Data[0]["x"])
}

func TestInlineLengthMismatch(t *testing.T) {
	asm := figure.NewAssembler(nil)
	requests := map[string]func() (figure.Request, error){
		"ecdf": func() (figure.Request, error) {
			return ECDF(ECDFOptions{X: Values(1, 2, 3), Y: Values(1.0)})
		},
		"sunburst path": func() (figure.Request, error) {
			return Sunburst(HierarchyOptions{Path: []Column{Values("a", "b", "c"), Values("x")}})
		},
		"sunburst values": func() (figure.Request, error) {
			return Sunburst(HierarchyOptions{Path: []Column{Values("a", "b", "c")}, Values: Values(1)})
		},
	}
	for name, mk := range requests {
		t.Run(name, func(t *testing.T) {
			req, err := mk()
			require.NoError(t, err)
			require.NotPanics(t, func() { _, err = asm.Build(context.Background(), req) })
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}
