package express

import "github.com/matzehuels/plotcraft/pkg/figure"

// ChoroplethOptions configures Choropleth.
type ChoroplethOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	ContinuousColor
	GeoView
	Regions

	Lat   Column `json:"lat"`
	Lon   Column `json:"lon"`
	Color Column `json:"color"`
}

// Choropleth fills the region of each row on an outline map by its color
// value.
func Choropleth(o ChoroplethOptions) (figure.Request, error) {
	r := newRequest("choropleth", "choropleth",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Regions)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleColor, o.Color)
	o.Regions.patch(r.TracePatch)
	o.GeoView.patch(r.LayoutPatch)
	return r.done()
}

// ScatterGeoOptions configures ScatterGeo.
type ScatterGeoOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	ContinuousColor
	Symbols
	GeoView
	Regions

	Lat     Column   `json:"lat"`
	Lon     Column   `json:"lon"`
	Color   Column   `json:"color"`
	Text    Column   `json:"text"`
	Size    Column   `json:"size"`
	Opacity *float64 `json:"opacity"`
	SizeMax float64  `json:"size_max"`
}

// ScatterGeo draws each row as a marker on an outline map.
func ScatterGeo(o ScatterGeoOptions) (figure.Request, error) {
	r := newRequest("scatter_geo", "scattergeo",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.ContinuousColor, o.Symbols, o.Regions)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleSize, o.Size)
	r.Args.SizeMax = o.SizeMax
	r.mode(false, true)
	r.opacity(o.Opacity)
	o.Regions.patch(r.TracePatch)
	o.GeoView.patch(r.LayoutPatch)
	return r.done()
}

// LineGeoOptions configures LineGeo.
type LineGeoOptions struct {
	Base
	Facets
	Animation
	DiscreteColor
	Symbols
	LineDashes
	GeoView
	Regions

	Lat       Column `json:"lat"`
	Lon       Column `json:"lon"`
	Color     Column `json:"color"`
	Text      Column `json:"text"`
	LineGroup Column `json:"line_group"`
	Markers   bool   `json:"markers"`
}

// LineGeo connects rows with a polyline on an outline map.
func LineGeo(o LineGeoOptions) (figure.Request, error) {
	r := newRequest("line_geo", "scattergeo",
		o.Base, o.Facets, o.Animation, o.DiscreteColor, o.Symbols, o.LineDashes, o.Regions)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.mode(true, o.Markers || o.Symbol.IsSet())
	o.Regions.patch(r.TracePatch)
	o.GeoView.patch(r.LayoutPatch)
	return r.done()
}

// ScatterMapOptions configures ScatterMap and ScatterMapbox.
type ScatterMapOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	MapView

	Lat     Column   `json:"lat"`
	Lon     Column   `json:"lon"`
	Color   Column   `json:"color"`
	Text    Column   `json:"text"`
	Size    Column   `json:"size"`
	Opacity *float64 `json:"opacity"`
	SizeMax float64  `json:"size_max"`
}

// ScatterMap draws each row as a marker on a tile map.
func ScatterMap(o ScatterMapOptions) (figure.Request, error) {
	return scatterTiles("scatter_map", "scattermap", "map", o)
}

// ScatterMapbox is the Mapbox variant of ScatterMap.
//
// Deprecated: use ScatterMap.
func ScatterMapbox(o ScatterMapOptions) (figure.Request, error) {
	deprecated("scatter_mapbox", "scatter_map")
	return scatterTiles("scatter_mapbox", "scattermapbox", "mapbox", o)
}

func scatterTiles(chart, traceType, subplot string, o ScatterMapOptions) (figure.Request, error) {
	r := newRequest(chart, traceType, o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleSize, o.Size)
	r.Args.SizeMax = o.SizeMax
	r.mode(false, true)
	r.opacity(o.Opacity)
	o.MapView.patch(r.LayoutPatch, subplot)
	return r.done()
}

// ChoroplethMapOptions configures ChoroplethMap and ChoroplethMapbox.
type ChoroplethMapOptions struct {
	Base
	Animation
	DiscreteColor
	ContinuousColor
	MapView

	GeoJSON      any      `json:"geojson"`
	FeatureIDKey string   `json:"featureidkey"`
	Locations    Column   `json:"locations"`
	Color        Column   `json:"color"`
	Opacity      *float64 `json:"opacity"`
}

// ChoroplethMap fills GeoJSON regions on a tile map by their color value.
func ChoroplethMap(o ChoroplethMapOptions) (figure.Request, error) {
	return choroplethTiles("choropleth_map", "choroplethmap", "map", o)
}

// ChoroplethMapbox is the Mapbox variant of ChoroplethMap.
//
// Deprecated: use ChoroplethMap.
func ChoroplethMapbox(o ChoroplethMapOptions) (figure.Request, error) {
	deprecated("choropleth_mapbox", "choropleth_map")
	return choroplethTiles("choropleth_mapbox", "choroplethmapbox", "mapbox", o)
}

func choroplethTiles(chart, traceType, subplot string, o ChoroplethMapOptions) (figure.Request, error) {
	r := newRequest(chart, traceType, o.Base, o.Animation, o.DiscreteColor, o.ContinuousColor)
	r.bind(figure.RoleLocations, o.Locations)
	r.bind(figure.RoleColor, o.Color)
	r.trace("geojson", o.GeoJSON)
	r.trace("featureidkey", nonzero(o.FeatureIDKey))
	r.opacity(o.Opacity)
	o.MapView.patch(r.LayoutPatch, subplot)
	return r.done()
}

// DensityMapOptions configures DensityMap and DensityMapbox.
type DensityMapOptions struct {
	Base
	Animation
	ContinuousColor
	MapView

	Lat     Column   `json:"lat"`
	Lon     Column   `json:"lon"`
	Z       Column   `json:"z"`
	Opacity *float64 `json:"opacity"`
	Radius  *float64 `json:"radius"`
}

// DensityMap draws a heatmap of row density on a tile map.
func DensityMap(o DensityMapOptions) (figure.Request, error) {
	return densityTiles("density_map", "densitymap", "map", o)
}

// DensityMapbox is the Mapbox variant of DensityMap.
//
// Deprecated: use DensityMap.
func DensityMapbox(o DensityMapOptions) (figure.Request, error) {
	deprecated("density_mapbox", "density_map")
	return densityTiles("density_mapbox", "densitymapbox", "mapbox", o)
}

func densityTiles(chart, traceType, subplot string, o DensityMapOptions) (figure.Request, error) {
	r := newRequest(chart, traceType, o.Base, o.Animation, o.ContinuousColor)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleZ, o.Z)
	r.trace("radius", o.Radius)
	r.opacity(o.Opacity)
	o.MapView.patch(r.LayoutPatch, subplot)
	return r.done()
}

// LineMapOptions configures LineMap and LineMapbox.
type LineMapOptions struct {
	Base
	Animation
	DiscreteColor
	MapView

	Lat       Column `json:"lat"`
	Lon       Column `json:"lon"`
	Color     Column `json:"color"`
	Text      Column `json:"text"`
	LineGroup Column `json:"line_group"`
}

// LineMap connects rows with a polyline on a tile map.
func LineMap(o LineMapOptions) (figure.Request, error) {
	return lineTiles("line_map", "scattermap", "map", o)
}

// LineMapbox is the Mapbox variant of LineMap.
//
// Deprecated: use LineMap.
func LineMapbox(o LineMapOptions) (figure.Request, error) {
	deprecated("line_mapbox", "line_map")
	return lineTiles("line_mapbox", "scattermapbox", "mapbox", o)
}

func lineTiles(chart, traceType, subplot string, o LineMapOptions) (figure.Request, error) {
	r := newRequest(chart, traceType, o.Base, o.Animation, o.DiscreteColor)
	r.bind(figure.RoleLat, o.Lat)
	r.bind(figure.RoleLon, o.Lon)
	r.bind(figure.RoleColor, o.Color)
	r.bind(figure.RoleText, o.Text)
	r.bind(figure.RoleLineGroup, o.LineGroup)
	r.mode(true, false)
	o.MapView.patch(r.LayoutPatch, subplot)
	return r.done()
}
