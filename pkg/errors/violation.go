package errors

import (
	"fmt"
	"strings"
)

// Violation is a single attribute value rejected by its validator.
type Violation struct {
	Path  string `json:"path"`  // Attribute path (e.g. "sankey.arrangement")
	Value any    `json:"value"` // The rejected value
	Rule  string `json:"rule"`  // Human-readable statement of the rule that was violated
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("invalid value %s for attribute %q: %s", formatValue(v.Value), v.Path, v.Rule)
}

// ErrorCode returns ErrCodeConstraintViolation.
func (v *Violation) ErrorCode() Code { return ErrCodeConstraintViolation }

// Violations is a collection of Violation returned when one or more
// attributes of a figure fail validation. It implements the error interface.
type Violations []Violation

// Error joins the individual violations with "; ".
func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i := range vs {
		msgs[i] = vs[i].Error()
	}
	return strings.Join(msgs, "; ")
}

// ErrorCode returns ErrCodeConstraintViolation.
func (vs Violations) ErrorCode() Code { return ErrCodeConstraintViolation }

// Has reports whether there is at least one violation for the given path.
func (vs Violations) Has(path string) bool {
	for _, v := range vs {
		if v.Path == path {
			return true
		}
	}
	return false
}

// Err returns vs as an error, or nil when it is empty.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
