// Package schemagraph draws the attribute catalogue as a tree diagram.
//
// # Usage
//
// Convert a catalogue subtree to DOT format, then render to SVG:
//
//	dot, err := schemagraph.ToDOT(schema.Default(), "scatter.marker", schemagraph.Options{})
//	svg, err := schemagraph.RenderSVG(ctx, dot)
//
// Containers such as "scatter.marker.line" become grey nodes; every
// attribute becomes a leaf labelled with its kind and edit type. With
// [Options].Detailed the leaf also states which values it accepts.
//
// The DOT output is plain Graphviz source and can be saved and processed
// with external tools. The layout runs left to right because catalogue
// subtrees are wide and shallow.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package schemagraph
