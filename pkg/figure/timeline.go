package figure

import (
	"time"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// dateLayouts are the timestamp formats timeline columns may use.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// spans computes bar bases and lengths from start and end columns. Numeric
// columns give numeric lengths; date columns keep the start as the base and
// measure lengths in milliseconds, which is how date axes size bars.
func spans(start, end []any) (base, lengths []any, dates bool, err error) {
	if len(start) != len(end) {
		return nil, nil, false, errors.New(errors.ErrCodeInvalidInput,
			"x_start has %d values, x_end has %d", len(start), len(end))
	}
	base = make([]any, len(start))
	lengths = make([]any, len(start))
	for i := range start {
		if start[i] == nil || end[i] == nil {
			continue
		}
		s, sok := asFloat(start[i])
		e, eok := asFloat(end[i])
		if sok && eok {
			base[i], lengths[i] = s, e-s
			continue
		}
		st, sok := asTime(start[i])
		et, eok := asTime(end[i])
		if !sok || !eok {
			return nil, nil, false, errors.New(errors.ErrCodeInvalidInput,
				"row %d: %v and %v are neither numbers nor dates", i, start[i], end[i])
		}
		dates = true
		base[i] = start[i]
		if t, ok := start[i].(time.Time); ok {
			base[i] = t.Format(time.RFC3339Nano)
		}
		lengths[i] = float64(et.Sub(st).Milliseconds())
	}
	return base, lengths, dates, nil
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
