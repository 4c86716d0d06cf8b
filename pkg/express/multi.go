package express

import "github.com/matzehuels/plotcraft/pkg/figure"

// ScatterMatrixOptions configures ScatterMatrix. Dimensions defaults to every
// numeric column other than Color.
type ScatterMatrixOptions struct {
	Base
	DiscreteColor
	ContinuousColor
	Symbols

	Dimensions     []Column            `json:"dimensions"`
	Color          Column              `json:"color"`
	Size           Column              `json:"size"`
	CategoryOrders map[string][]string `json:"category_orders"`
	Opacity        *float64            `json:"opacity"`
	SizeMax        float64             `json:"size_max"`
}

// ScatterMatrix draws a grid of pairwise scatter plots, one per pair of
// dimensions.
func ScatterMatrix(o ScatterMatrixOptions) (figure.Request, error) {
	r := newRequest("scatter_matrix", "splom",
		o.Base, o.DiscreteColor, o.ContinuousColor, o.Symbols)
	r.Args.Dimensions = o.Dimensions
	r.Args.CategoryOrders = o.CategoryOrders
	r.Args.SizeMax = o.SizeMax
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleSize, o.Size)
	r.opacity(o.Opacity)
	r.layout("dragmode", "select")
	return r.done()
}

// ParallelCoordinatesOptions configures ParallelCoordinates.
type ParallelCoordinatesOptions struct {
	Base
	ContinuousColor

	Dimensions []Column `json:"dimensions"`
	Color      Column   `json:"color"`
}

// ParallelCoordinates draws each row as a polyline across parallel numeric
// axes.
func ParallelCoordinates(o ParallelCoordinatesOptions) (figure.Request, error) {
	r := newRequest("parallel_coordinates", "parcoords", o.Base, o.ContinuousColor)
	r.Args.Dimensions = o.Dimensions
	r.bind(figure.RoleColor, o.Color)
	return r.done()
}

// ParallelCategoriesOptions configures ParallelCategories. Without explicit
// Dimensions, columns with more than DimensionsMaxCardinality distinct values
// (50 when zero) are left out.
type ParallelCategoriesOptions struct {
	Base
	ContinuousColor

	Dimensions               []Column `json:"dimensions"`
	Color                    Column   `json:"color"`
	DimensionsMaxCardinality int      `json:"dimensions_max_cardinality"`
}

// ParallelCategories draws the flow of rows across categorical dimensions.
func ParallelCategories(o ParallelCategoriesOptions) (figure.Request, error) {
	r := newRequest("parallel_categories", "parcats", o.Base, o.ContinuousColor)
	r.Args.Dimensions = o.Dimensions
	r.Args.DimensionsMaxCardinality = o.DimensionsMaxCardinality
	if r.Args.DimensionsMaxCardinality == 0 {
		r.Args.DimensionsMaxCardinality = 50
	}
	r.bind(figure.RoleColor, o.Color)
	return r.done()
}
