package figure

import (
	"encoding/json"
	"fmt"
	"slices"
)

type columnKind uint8

const (
	columnUnset columnKind = iota
	columnByName
	columnByIndex
	columnInline
)

// Column binds a chart role (x, y, color, ...) to data. The zero value is an
// unbound role.
type Column struct {
	kind   columnKind
	name   string
	index  int
	values []any
}

// Col binds a role to the data frame column with the given name.
func Col(name string) Column { return Column{kind: columnByName, name: name} }

// ColAt binds a role to the i-th data frame column.
func ColAt(i int) Column { return Column{kind: columnByIndex, index: i} }

// Values binds a role to in-memory values. They must have one value per row
// when a data frame is also given.
func Values(v ...any) Column { return Column{kind: columnInline, values: slices.Clone(v)} }

// IsSet reports whether the role is bound.
func (c Column) IsSet() bool { return c.kind != columnUnset }

// Name returns the column name for a by-name binding.
func (c Column) Name() string { return c.name }

// String implements fmt.Stringer.
func (c Column) String() string {
	switch c.kind {
	case columnByName:
		return fmt.Sprintf("column %q", c.name)
	case columnByIndex:
		return fmt.Sprintf("column #%d", c.index)
	case columnInline:
		return fmt.Sprintf("%d values", len(c.values))
	}
	return "unset"
}

// MarshalJSON encodes the binding as {"col": name}, {"index": i},
// {"values": [...]} or null.
func (c Column) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case columnByName:
		return json.Marshal(map[string]any{"col": c.name})
	case columnByIndex:
		return json.Marshal(map[string]any{"index": c.index})
	case columnInline:
		return json.Marshal(map[string]any{"values": c.values})
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes the forms written by MarshalJSON. A bare string is
// shorthand for {"col": name}.
func (c *Column) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Column{}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = Col(name)
		return nil
	}
	var raw struct {
		Col    *string `json:"col"`
		Index  *int    `json:"index"`
		Values []any   `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("column binding: %w", err)
	}
	switch {
	case raw.Col != nil:
		*c = Col(*raw.Col)
	case raw.Index != nil:
		*c = ColAt(*raw.Index)
	case raw.Values != nil:
		*c = Values(raw.Values...)
	default:
		*c = Column{}
	}
	return nil
}
