package figure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

func gapminder(t *testing.T) *frame.Table {
	t.Helper()
	tbl, err := frame.NewTable(map[string][]any{
		"gdp":       {1.0, 2.0, 3.0},
		"pop":       {10.0, 20.0, 30.0},
		"lifeExp":   {60.0, 70.0, 80.0},
		"continent": {"Asia", "Europe", "Asia"},
		"country":   {"India", "France", "Japan"},
	}, []string{"country", "continent", "gdp", "pop", "lifeExp"})
	require.NoError(t, err)
	return tbl
}

func build(t *testing.T, req Request) (*Figure, error) {
	t.Helper()
	return NewAssembler(nil).Build(context.Background(), req)
}

func sub(t *testing.T, m map[string]any, path string) any {
	t.Helper()
	v, ok := getPath(m, path)
	require.True(t, ok, "missing %s in %v", path, m)
	return v
}

func TestAssembleScatterDiscreteColor(t *testing.T) {
	args := Args{Frame: gapminder(t), Title: "GDP", Width: 640}
	args.Bind(RoleX, Col("gdp"))
	args.Bind(RoleY, Col("pop"))
	args.Bind(RoleColor, Col("continent"))
	args.Bind(RoleHoverName, Col("country"))

	fig, err := build(t, Request{
		Chart:      "scatter",
		TraceType:  "scatter",
		Args:       args,
		TracePatch: Patch{"mode": "markers"},
	})
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, "scatter", trace["type"])
	assert.Equal(t, []any{1.0, 2.0, 3.0}, trace["x"])
	assert.Equal(t, []any{10.0, 20.0, 30.0}, trace["y"])
	assert.Equal(t, "markers", trace["mode"])
	assert.Equal(t, []any{"India", "France", "Japan"}, trace["hovertext"])
	assert.Equal(t, []any{"#636efa", "#EF553B", "#636efa"}, sub(t, trace, "marker.color"))

	assert.Equal(t, "GDP", sub(t, fig.Layout, "title.text"))
	assert.Equal(t, 640.0, fig.Layout["width"])
	assert.Equal(t, "gdp", sub(t, fig.Layout, "xaxis.title.text"))
	assert.Equal(t, "continent", sub(t, fig.Layout, "legend.title.text"))
}

func TestAssembleContinuousColor(t *testing.T) {
	args := Args{
		Frame:                   gapminder(t),
		ColorContinuousScale:    []string{"Viridis"},
		ColorContinuousMidpoint: new(float64),
		Labels:                  map[string]string{"lifeExp": "Life expectancy"},
	}
	*args.ColorContinuousMidpoint = 70
	args.Bind(RoleX, Col("gdp"))
	args.Bind(RoleY, Col("pop"))
	args.Bind(RoleColor, Col("lifeExp"))

	fig, err := build(t, Request{Chart: "scatter", TraceType: "scatter", Args: args})
	require.NoError(t, err)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, []any{60.0, 70.0, 80.0}, sub(t, trace, "marker.color"))
	assert.Equal(t, "coloraxis", sub(t, trace, "marker.coloraxis"))
	assert.Equal(t, "Viridis", sub(t, fig.Layout, "coloraxis.colorscale"))
	assert.Equal(t, 70.0, sub(t, fig.Layout, "coloraxis.cmid"))
	assert.Equal(t, "Life expectancy", sub(t, fig.Layout, "coloraxis.colorbar.title.text"))
}

func TestAssembleColumnErrors(t *testing.T) {
	tests := []struct {
		name string
		bind func(*Args)
		code errors.Code
	}{
		{
			name: "missing column",
			bind: func(a *Args) { a.Bind(RoleX, Col("nope")) },
			code: errors.ErrCodeColumnNotFound,
		},
		{
			name: "index out of range",
			bind: func(a *Args) { a.Bind(RoleY, ColAt(9)) },
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "inline length mismatch",
			bind: func(a *Args) { a.Bind(RoleText, Values("a", "b")) },
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "missing hover column",
			bind: func(a *Args) { a.HoverData = []Column{Col("gdp"), Col("area")} },
			code: errors.ErrCodeColumnNotFound,
		},
		{
			name: "missing facet column",
			bind: func(a *Args) { a.Bind(RoleFacetCol, Col("year")) },
			code: errors.ErrCodeColumnNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{Frame: gapminder(t)}
			tt.bind(&args)
			_, err := build(t, Request{Chart: "scatter", TraceType: "scatter", Args: args})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestAssembleInlineWithoutFrame(t *testing.T) {
	args := Args{}
	args.Bind(RoleX, Values("a", "b", "c"))
	args.Bind(RoleY, Values(1, 3, 2))

	fig, err := build(t, Request{Chart: "bar", TraceType: "bar", Args: args})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, fig.Data[0]["x"])
	assert.Equal(t, "y", sub(t, fig.Layout, "yaxis.title.text"))
}

func TestAssemblePatchesMerge(t *testing.T) {
	args := Args{Frame: gapminder(t)}
	args.Bind(RoleX, Col("gdp"))
	args.Bind(RoleColor, Col("continent"))

	fig, err := build(t, Request{
		Chart:       "histogram",
		TraceType:   "histogram",
		Args:        args,
		TracePatch:  Patch{}.Set("marker.opacity", 0.5).Set("histnorm", "percent"),
		LayoutPatch: Patch{"barmode": "overlay", "xaxis": map[string]any{"showgrid": false}},
	})
	require.NoError(t, err)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, 0.5, sub(t, trace, "marker.opacity"))
	assert.NotNil(t, sub(t, trace, "marker.color"), "patch keeps generated siblings")
	assert.Equal(t, "overlay", fig.Layout["barmode"])
	assert.Equal(t, false, sub(t, fig.Layout, "xaxis.showgrid"))
	assert.Equal(t, "gdp", sub(t, fig.Layout, "xaxis.title.text"))
}

func TestAssembleViolations(t *testing.T) {
	args := Args{}
	args.Bind(RoleX, Values(1, 2))

	_, err := build(t, Request{
		Chart:       "bar",
		TraceType:   "bar",
		Args:        args,
		TracePatch:  Patch{"textposition": "sideways"},
		LayoutPatch: Patch{"barmode": "stacked"},
	})
	require.Error(t, err)

	var vs errors.Violations
	require.ErrorAs(t, err, &vs)
	assert.True(t, vs.Has("bar.textposition"))
	assert.True(t, vs.Has("layout.barmode"))
	assert.True(t, errors.Is(err, errors.ErrCodeConstraintViolation))
}

func TestAssembleStrict(t *testing.T) {
	args := Args{}
	args.Bind(RoleX, Values(1, 2))
	req := Request{Chart: "bar", TraceType: "bar", Args: args, TracePatch: Patch{"sparkle": true}}

	_, err := build(t, req)
	require.NoError(t, err)

	_, err = (&Assembler{Strict: true}).Build(context.Background(), req)
	var vs errors.Violations
	require.ErrorAs(t, err, &vs)
	assert.True(t, vs.Has("bar.sparkle"))
}

func TestAssembleHierarchy(t *testing.T) {
	tbl, err := frame.NewTable(map[string][]any{
		"continent": {"Europe", "Europe", "Asia"},
		"country":   {"France", "Spain", "Japan"},
		"pop":       {67.0, 47.0, 125.0},
	}, nil)
	require.NoError(t, err)

	args := Args{Frame: tbl, Path: []Column{Col("continent"), Col("country")}}
	args.Bind(RoleValues, Col("pop"))

	fig, err := build(t, Request{
		Chart:      "sunburst",
		TraceType:  "sunburst",
		Args:       args,
		TracePatch: Patch{"branchvalues": "total"},
	})
	require.NoError(t, err)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, []any{"Europe/France", "Europe/Spain", "Asia/Japan", "Europe", "Asia"}, trace["ids"])
	assert.Equal(t, []any{"France", "Spain", "Japan", "Europe", "Asia"}, trace["labels"])
	assert.Equal(t, []any{"Europe", "Europe", "Asia", "", ""}, trace["parents"])
	assert.Equal(t, []any{67.0, 47.0, 125.0, 114.0, 125.0}, trace["values"])
	assert.Equal(t, "total", trace["branchvalues"])
}

func TestAssembleTimeline(t *testing.T) {
	args := Args{}
	args.Bind(RoleXStart, Values("2024-01-01", "2024-01-03"))
	args.Bind(RoleXEnd, Values("2024-01-02", "2024-01-05"))
	args.Bind(RoleY, Values("build", "ship"))

	fig, err := build(t, Request{
		Chart:      "timeline",
		TraceType:  TraceTimeline,
		Args:       args,
		TracePatch: Patch{"orientation": "h"},
	})
	require.NoError(t, err)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, "bar", trace["type"])
	assert.Equal(t, []any{"2024-01-01", "2024-01-03"}, trace["base"])
	assert.Equal(t, []any{86400000.0, 172800000.0}, trace["x"])
	assert.Equal(t, "date", sub(t, fig.Layout, "xaxis.type"))

	args = Args{}
	args.Bind(RoleXStart, Values("2024-01-01"))
	_, err = build(t, Request{Chart: "timeline", TraceType: TraceTimeline, Args: args})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestAssembleECDF(t *testing.T) {
	args := Args{ECDFNorm: ECDFNormPercent, ECDFMode: ECDFModeStandard}
	args.Bind(RoleX, Values(3.0, 1.0, 2.0, 2.0))

	fig, err := build(t, Request{Chart: "ecdf", TraceType: "scatter", Args: args})
	require.NoError(t, err)

	trace := map[string]any(fig.Data[0])
	assert.Equal(t, []any{1.0, 2.0, 2.0, 3.0}, trace["x"])
	assert.Equal(t, []any{25.0, 50.0, 75.0, 100.0}, trace["y"])
	assert.Equal(t, "hv", sub(t, trace, "line.shape"))
	assert.Equal(t, "percent", sub(t, fig.Layout, "yaxis.title.text"))
}

func TestAssembleDimensions(t *testing.T) {
	args := Args{Frame: gapminder(t)}
	args.Bind(RoleColor, Col("lifeExp"))

	fig, err := build(t, Request{Chart: "parallel_coordinates", TraceType: "parcoords", Args: args})
	require.NoError(t, err)

	dims := fig.Data[0]["dimensions"].([]any)
	require.Len(t, dims, 2, "numeric columns except the color column")
	assert.Equal(t, "gdp", dims[0].(map[string]any)["label"])
	assert.Equal(t, "pop", dims[1].(map[string]any)["label"])
	assert.Equal(t, "coloraxis", sub(t, fig.Data[0], "line.coloraxis"))

	args = Args{Frame: gapminder(t), DimensionsMaxCardinality: 2}
	fig, err = build(t, Request{Chart: "parallel_categories", TraceType: "parcats", Args: args})
	require.NoError(t, err)
	dims = fig.Data[0]["dimensions"].([]any)
	require.Len(t, dims, 1)
	assert.Equal(t, "continent", dims[0].(map[string]any)["label"])
}

func TestAssembleCustomData(t *testing.T) {
	args := Args{Frame: gapminder(t), HoverData: []Column{Col("country")}, CustomData: []Column{Col("pop")}}
	args.Bind(RoleX, Col("gdp"))

	fig, err := build(t, Request{Chart: "scatter", TraceType: "scatter", Args: args})
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"India", 10.0},
		[]any{"France", 20.0},
		[]any{"Japan", 30.0},
	}, fig.Data[0]["customdata"])
}

func TestAssembleAxisOptions(t *testing.T) {
	args := Args{Frame: gapminder(t), LogX: true, RangeY: []float64{0, 40}, CategoryOrders: map[string][]string{"continent": {"Europe", "Asia"}}}
	args.Bind(RoleX, Col("gdp"))
	args.Bind(RoleY, Col("continent"))

	fig, err := build(t, Request{Chart: "scatter", TraceType: "scatter", Args: args})
	require.NoError(t, err)
	assert.Equal(t, "log", sub(t, fig.Layout, "xaxis.type"))
	assert.Equal(t, []any{0.0, 40.0}, sub(t, fig.Layout, "yaxis.range"))
	assert.Equal(t, "array", sub(t, fig.Layout, "yaxis.categoryorder"))
	assert.Equal(t, []any{"Europe", "Asia"}, sub(t, fig.Layout, "yaxis.categoryarray"))
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssembler(nil).Build(ctx, Request{Chart: "scatter", TraceType: "scatter"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleNoTraceType(t *testing.T) {
	_, err := build(t, Request{Chart: "scatter"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestAssembleInlineLengthMismatch(t *testing.T) {
	tests := []struct {
		name      string
		chart     string
		traceType string
		args      func() Args
	}{
		{
			name:      "ecdf weights",
			chart:     "ecdf",
			traceType: "scatter",
			args: func() Args {
				a := Args{ECDFMode: ECDFModeStandard}
				a.Bind(RoleX, Values(1, 2, 3))
				a.Bind(RoleY, Values(1.0))
				return a
			},
		},
		{
			name:      "sunburst path levels",
			chart:     "sunburst",
			traceType: "sunburst",
			args: func() Args {
				return Args{Path: []Column{Values("a", "b", "c"), Values("x")}}
			},
		},
		{
			name:      "sunburst values",
			chart:     "sunburst",
			traceType: "sunburst",
			args: func() Args {
				a := Args{Path: []Column{Values("a", "b", "c")}}
				a.Bind(RoleValues, Values(1))
				return a
			},
		},
		{
			name:      "hover data",
			chart:     "scatter",
			traceType: "scatter",
			args: func() Args {
				a := Args{HoverData: []Column{Values("p", "q")}}
				a.Bind(RoleX, Values(1, 2, 3))
				return a
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = build(t, Request{Chart: tt.chart, TraceType: tt.traceType, Args: tt.args()})
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}
