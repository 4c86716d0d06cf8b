// Package express builds figure requests from a data frame and a handful of
// column bindings, one function per chart kind.
//
// Every chart function takes its own options struct. Shared option groups
// ([Base], [Facets], [Axes], [DiscreteColor], ...) are embedded, so a call
// reads like a keyword argument list:
//
//	req, err := express.Bar(express.BarOptions{
//	    Base: express.Base{DataFrame: tbl, Title: "Population"},
//	    X:    express.Col("continent"),
//	    Y:    express.Col("pop"),
//	})
//	fig, err := express.Build(ctx, nil, req)
//
// Constructors do not read data. They pick a trace type, apply their
// defaults and return a [figure.Request]; the [figure.Builder] resolves
// columns and validates the result.
//
// The Mapbox functions are kept for existing callers. They still return
// their Mapbox requests but report a [Deprecation] through the handler set
// with [SetNoticeHandler].
//
// [Lookup] and [Charts] expose the constructors by name for callers that
// decode options from files or request bodies.
package express
