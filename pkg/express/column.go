package express

import "github.com/matzehuels/plotcraft/pkg/figure"

// Column binds a chart role to data. The zero value leaves the role unbound.
type Column = figure.Column

// Col binds a role to a named data frame column.
func Col(name string) Column { return figure.Col(name) }

// ColAt binds a role to the i-th data frame column.
func ColAt(i int) Column { return figure.ColAt(i) }

// Values binds a role to in-memory values, one per row.
func Values(v ...any) Column { return figure.Values(v...) }

// Cols binds a list role (hover_data, path, dimensions) to named columns.
func Cols(names ...string) []Column {
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = figure.Col(n)
	}
	return out
}
