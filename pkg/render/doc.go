// Package render groups the output writers for figures and the attribute
// catalogue.
//
// # Overview
//
// A validated [figure.Figure] is already plotly's JSON document, so the
// "json" format is its canonical encoding. The subpackages add:
//
//   - [page]: standalone HTML pages that load plotly.js and draw a figure
//   - [schemagraph]: Graphviz diagrams of catalogue subtrees (DOT and SVG)
//
// # Formats
//
// [Formats] lists the format names the pipeline and CLI accept. [Figure]
// formats apply to built figures; [Schema] formats apply to catalogue
// graphs.
//
// [figure.Figure]: github.com/matzehuels/plotcraft/pkg/figure.Figure
// [page]: github.com/matzehuels/plotcraft/pkg/render/page
// [schemagraph]: github.com/matzehuels/plotcraft/pkg/render/schemagraph
package render
