package express

import (
	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/figure"
)

// PieOptions configures Pie.
type PieOptions struct {
	Base
	Facets
	DiscreteColor

	Names          Column              `json:"names"`
	Values         Column              `json:"values"`
	Color          Column              `json:"color"`
	CategoryOrders map[string][]string `json:"category_orders"`
	Opacity        *float64            `json:"opacity"`
	Hole           *float64            `json:"hole"`
}

// Pie draws one sector per row, sized by Values.
func Pie(o PieOptions) (figure.Request, error) {
	r := newRequest("pie", "pie", o.Base, o.Facets, o.DiscreteColor)
	r.Args.CategoryOrders = o.CategoryOrders
	r.bind(figure.RoleNames, o.Names)
	r.bind(figure.RoleValues, o.Values)
	r.bind(figure.RoleColor, o.Color)
	r.trace("showlegend", o.Names.IsSet())
	r.trace("hole", o.Hole)
	r.opacity(o.Opacity)
	r.layout("piecolorway", o.ColorDiscreteSequence)
	return r.done()
}

// HierarchyOptions configures Sunburst, Treemap and Icicle. The tree comes
// either from Path, listed root level first, or from explicit IDs and
// Parents; the two forms cannot be mixed.
type HierarchyOptions struct {
	Base
	DiscreteColor
	ContinuousColor

	Names          Column              `json:"names"`
	Values         Column              `json:"values"`
	Parents        Column              `json:"parents"`
	IDs            Column              `json:"ids"`
	Path           []Column            `json:"path"`
	Color          Column              `json:"color"`
	CategoryOrders map[string][]string `json:"category_orders"`
	BranchValues   string              `json:"branchvalues"`
	MaxDepth       *int                `json:"maxdepth"`
}

// Sunburst draws a hierarchy as concentric rings.
func Sunburst(o HierarchyOptions) (figure.Request, error) {
	return hierarchical("sunburst", o)
}

// Treemap draws a hierarchy as nested rectangles.
func Treemap(o HierarchyOptions) (figure.Request, error) {
	return hierarchical("treemap", o)
}

// Icicle draws a hierarchy as stacked bands.
func Icicle(o HierarchyOptions) (figure.Request, error) {
	return hierarchical("icicle", o)
}

func hierarchical(traceType string, o HierarchyOptions) (figure.Request, error) {
	hasPath := len(o.Path) > 0
	if hasPath && (o.IDs.IsSet() || o.Parents.IsSet()) {
		return figure.Request{}, errors.Conflict("path", "ids", "parents")
	}
	r := newRequest(traceType, traceType, o.Base, o.DiscreteColor, o.ContinuousColor)
	r.Args.CategoryOrders = o.CategoryOrders
	r.Args.Path = o.Path
	r.bind(figure.RoleNames, o.Names)
	r.bind(figure.RoleValues, o.Values)
	r.bind(figure.RoleParents, o.Parents)
	r.bind(figure.RoleIDs, o.IDs)
	r.bind(figure.RoleColor, o.Color)

	branch := o.BranchValues
	if hasPath && branch == "" {
		branch = "total"
	}
	r.trace("branchvalues", nonzero(branch))
	r.trace("maxdepth", o.MaxDepth)
	r.layout(traceType+"colorway", o.ColorDiscreteSequence)
	return r.done()
}

// FunnelAreaOptions configures FunnelArea.
type FunnelAreaOptions struct {
	Base
	Facets
	DiscreteColor

	Names          Column              `json:"names"`
	Values         Column              `json:"values"`
	Color          Column              `json:"color"`
	CategoryOrders map[string][]string `json:"category_orders"`
	Opacity        *float64            `json:"opacity"`
}

// FunnelArea draws each row as a stage of a funnel sized by Values.
func FunnelArea(o FunnelAreaOptions) (figure.Request, error) {
	r := newRequest("funnel_area", "funnelarea", o.Base, o.Facets, o.DiscreteColor)
	r.Args.CategoryOrders = o.CategoryOrders
	r.bind(figure.RoleNames, o.Names)
	r.bind(figure.RoleValues, o.Values)
	r.bind(figure.RoleColor, o.Color)
	r.trace("showlegend", o.Names.IsSet())
	r.opacity(o.Opacity)
	r.layout("funnelareacolorway", o.ColorDiscreteSequence)
	return r.done()
}
