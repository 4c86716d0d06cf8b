// Package figure turns chart requests into validated plotly figures.
//
// A [Request] is what a chart constructor produces: the chart name, a trace
// type tag, the column bindings and style options in [Args], and two
// [Patch] maps that are merged over the generated trace and layout. A
// [Builder] turns a request into a [Figure].
//
// [Assembler] is the default builder. It resolves every binding against the
// request's data frame, maps roles to trace attributes, derives hierarchies
// from path columns, applies the patches and finally validates the trace
// and layout against a schema registry:
//
//	fig, err := figure.NewAssembler(logger).Build(ctx, req)
//	var vs errors.Violations
//	if stderrors.As(err, &vs) {
//	    // one entry per rejected attribute
//	}
//
// The assembler emits a single trace. Facet, animation and line-group
// bindings are resolved, so missing columns are still reported, but they do
// not split the data.
package figure
