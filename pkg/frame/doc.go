// Package frame provides the tabular data source that chart constructors bind
// columns from.
//
// # Overview
//
// A [Source] exposes named columns of equal length. The only implementation
// here is [Table], an in-memory, column-oriented table. Tables are read from
// CSV or JSON:
//
//	t, err := frame.ImportFile("gapminder.csv")
//	x, ok := t.Column("gdpPercap")
//
// # CSV
//
// The first record is the header. Cells that parse as numbers become
// float64, "true"/"false" become bool, empty cells become nil, and everything
// else stays a string.
//
// # JSON
//
// JSON input is either an array of records or an object of columns:
//
//	[{"country": "Chile", "pop": 19.1}, {"country": "Peru", "pop": 33.7}]
//	{"country": ["Chile", "Peru"], "pop": [19.1, 33.7]}
//
// Record keys are ordered by first appearance; a key missing from a record
// is nil in that row.
//
// Reshaping (wide to long, pivots, aggregation) is deliberately absent.
package frame
