package figure

import (
	"slices"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// series is a resolved binding: its values and the label used for titles.
type series struct {
	name   string
	values []any
}

type resolver struct {
	src    frame.Source
	labels map[string]string
}

// resolve looks a binding up in the data frame.
//
// A missing named column yields COLUMN_NOT_FOUND; an out-of-range index and
// in-memory values whose length disagrees with the frame yield
// INVALID_INPUT.
func (r resolver) resolve(role Role, c Column) (series, error) {
	switch c.kind {
	case columnByName:
		if r.src == nil {
			return series{}, errors.New(errors.ErrCodeColumnNotFound,
				"%s refers to column %q but no data frame was given", role, c.name)
		}
		values, ok := r.src.Column(c.name)
		if !ok {
			return series{}, errors.New(errors.ErrCodeColumnNotFound,
				"%s refers to column %q, which is not in the data frame (columns: %v)", role, c.name, r.src.Columns())
		}
		return series{name: c.name, values: values}, nil

	case columnByIndex:
		if r.src == nil {
			return series{}, errors.New(errors.ErrCodeInvalidInput,
				"%s refers to column #%d but no data frame was given", role, c.index)
		}
		cols := r.src.Columns()
		if c.index < 0 || c.index >= len(cols) {
			return series{}, errors.New(errors.ErrCodeInvalidInput,
				"%s refers to column #%d, but the data frame has %d columns", role, c.index, len(cols))
		}
		values, _ := r.src.Column(cols[c.index])
		return series{name: cols[c.index], values: values}, nil

	case columnInline:
		if r.src != nil && len(c.values) != r.src.Len() {
			return series{}, errors.New(errors.ErrCodeInvalidInput,
				"%s has %d values, but the data frame has %d rows", role, len(c.values), r.src.Len())
		}
		return series{name: string(role), values: slices.Clone(c.values)}, nil
	}
	return series{}, errors.New(errors.ErrCodeInvalidInput, "%s is not bound", role)
}

// resolveAll resolves every role binding of a request.
func (r resolver) resolveAll(roles map[Role]Column) (map[Role]series, error) {
	out := make(map[Role]series, len(roles))
	keys := make([]Role, 0, len(roles))
	for role := range roles {
		keys = append(keys, role)
	}
	slices.Sort(keys)
	for _, role := range keys {
		c := roles[role]
		if !c.IsSet() {
			continue
		}
		s, err := r.resolve(role, c)
		if err != nil {
			return nil, err
		}
		out[role] = s
	}
	return out, nil
}

func (r resolver) resolveList(role Role, cols []Column) ([]series, error) {
	out := make([]series, 0, len(cols))
	for _, c := range cols {
		s, err := r.resolve(role, c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// label returns the display label for a series.
func (r resolver) label(s series) string {
	if l, ok := r.labels[s.name]; ok {
		return l
	}
	return s.name
}
