package frame

import (
	"fmt"
	"math"
	"slices"
)

// Source supplies columns by name.
type Source interface {
	// Columns returns the column names in table order.
	Columns() []string

	// Column returns the values of the named column.
	Column(name string) ([]any, bool)

	// Len returns the number of rows.
	Len() int
}

// Table is an in-memory column-oriented Source.
type Table struct {
	order []string
	cols  map[string][]any
	rows  int
}

// NewTable creates a table from columns of equal length.
//
// order fixes the column order; when it is nil the columns are sorted by
// name. Every name in order must be present in cols and vice versa.
func NewTable(cols map[string][]any, order []string) (*Table, error) {
	if order == nil {
		for name := range cols {
			order = append(order, name)
		}
		slices.Sort(order)
	}
	if len(order) != len(cols) {
		return nil, fmt.Errorf("column order names %d columns, table has %d", len(order), len(cols))
	}

	t := &Table{order: slices.Clone(order), cols: make(map[string][]any, len(cols)), rows: -1}
	for _, name := range order {
		values, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q is in the order but not in the table", name)
		}
		if t.rows >= 0 && len(values) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(values), t.rows)
		}
		t.rows = len(values)
		t.cols[name] = dropNonFinite(values)
	}
	if t.rows < 0 {
		t.rows = 0
	}
	return t, nil
}

// dropNonFinite replaces NaN and infinite floats with nil, the missing
// value. JSON has no encoding for them. values is copied only when needed.
func dropNonFinite(values []any) []any {
	out, copied := values, false
	for i, v := range values {
		f, ok := v.(float64)
		if !ok || !(math.IsNaN(f) || math.IsInf(f, 0)) {
			continue
		}
		if !copied {
			out, copied = slices.Clone(values), true
		}
		out[i] = nil
	}
	return out
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string { return slices.Clone(t.order) }

// Column returns the values of the named column. The returned slice is
// shared with the table and must not be modified.
func (t *Table) Column(name string) ([]any, bool) {
	v, ok := t.cols[name]
	return v, ok
}

// ColumnAt returns the i-th column in table order.
func (t *Table) ColumnAt(i int) (string, []any, bool) {
	if i < 0 || i >= len(t.order) {
		return "", nil, false
	}
	name := t.order[i]
	return name, t.cols[name], true
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Row returns the values of row i keyed by column name.
func (t *Table) Row(i int) map[string]any {
	if i < 0 || i >= t.rows {
		return nil
	}
	row := make(map[string]any, len(t.order))
	for _, name := range t.order {
		row[name] = t.cols[name][i]
	}
	return row
}
