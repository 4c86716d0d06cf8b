package express

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/figure"
)

// request accumulates the figure request of one chart call.
type request struct {
	figure.Request
}

func newRequest(chart, traceType string, blocks ...block) *request {
	r := &request{figure.Request{
		Chart:       chart,
		TraceType:   traceType,
		TracePatch:  figure.Patch{},
		LayoutPatch: figure.Patch{},
	}}
	for _, b := range blocks {
		b.apply(&r.Args)
	}
	return r
}

func (r *request) bind(role figure.Role, c Column) { r.Args.Bind(role, c) }

// trace sets a trace patch entry; absent values are dropped.
func (r *request) trace(path string, v any) { r.TracePatch.Set(path, v) }

// layout sets a layout patch entry; absent values are dropped.
func (r *request) layout(path string, v any) { r.LayoutPatch.Set(path, v) }

func (r *request) done() (figure.Request, error) { return r.Request, nil }

// markerTraces draw marker.opacity instead of a trace-wide opacity.
var markerTraces = []string{
	"scatter", "scatter3d", "scatterternary", "scatterpolar", "scattergeo",
	"scattermap", "scattermapbox", "bar", "barpolar", "histogram", "funnel",
	"box", "violin", "splom",
}

func (r *request) opacity(o *float64) {
	if o == nil {
		return
	}
	if slices.Contains(markerTraces, r.TraceType) {
		r.trace("marker.opacity", *o)
		return
	}
	r.trace("opacity", *o)
}

// mode builds a scatter mode flaglist from its parts.
func (r *request) mode(lines, markers bool) {
	var flags []string
	if lines {
		flags = append(flags, "lines")
	}
	if markers || !lines {
		flags = append(flags, "markers")
	}
	if r.Args.Bound(figure.RoleText) {
		flags = append(flags, "text")
	}
	r.trace("mode", strings.Join(flags, "+"))
}

// Build assembles a request with b, or with the default assembler when b is
// nil.
func Build(ctx context.Context, b figure.Builder, req figure.Request) (*figure.Figure, error) {
	if b == nil {
		b = figure.NewAssembler(nil)
	}
	return b.Build(ctx, req)
}
