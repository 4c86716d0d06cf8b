package schema

import (
	"fmt"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// Validator checks candidate values for exactly one attribute path.
//
// Validators are built once when the catalogue is loaded and are never
// mutated afterward, so they can be shared between goroutines freely.
type Validator struct {
	Name       string // Leaf property name (e.g. "family")
	ParentPath string // Owning container path (e.g. "layout.annotation.font")
	EditType   string // Recompute tag, carried but never acted on
	Role       string // Attribute role (info, style, data, object)
	Rule       Rule
}

// Path returns the full dotted attribute path.
func (v *Validator) Path() string {
	if v.ParentPath == "" {
		return v.Name
	}
	return v.ParentPath + "." + v.Name
}

// Validate checks a candidate value.
//
// It returns the accepted value, possibly coerced (ints become float64 for
// number rules, sequences become []any), or an *errors.Violation describing
// the rejected value. Validate is pure: calling it again with the returned
// value yields an equal value.
func (v *Validator) Validate(value any) (any, error) {
	out, ok := v.Rule.coerce(value)
	if !ok {
		return nil, &errors.Violation{
			Path:  v.Path(),
			Value: value,
			Rule:  "must be " + v.Rule.Describe(),
		}
	}
	return out, nil
}

// Describe returns a human-readable statement of the accepted values.
func (v *Validator) Describe() string {
	return v.Rule.Describe()
}

// String implements fmt.Stringer.
func (v *Validator) String() string {
	return fmt.Sprintf("%s (%s, edit type %s)", v.Path(), v.Rule.Kind(), v.EditType)
}
