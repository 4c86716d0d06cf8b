package schema

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// =============================================================================
// String
// =============================================================================

// String accepts text values.
//
// When Strict is false, numbers and booleans are converted to their text
// form. When Strict is true only Go strings are accepted, unchanged.
type String struct {
	NoBlank bool     // reject the empty string
	Strict  bool     // accept only strings, without conversion
	Values  []string // optional closed set of accepted strings
	ArrayOK bool     // also accept a sequence of strings
}

func (String) Kind() Kind { return KindString }

func (r String) Describe() string {
	desc := "a string"
	if r.NoBlank {
		desc = "a non-empty string"
	}
	if len(r.Values) > 0 {
		vals := make([]any, len(r.Values))
		for i, s := range r.Values {
			vals[i] = s
		}
		desc += " among " + formatLiterals(vals)
	}
	return withArraySuffix(desc, r.ArrayOK)
}

func (r String) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, r.coerceOne)
}

func (r String) coerceOne(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		if r.Strict {
			return nil, false
		}
		switch x := v.(type) {
		case bool:
			s = strconv.FormatBool(x)
		default:
			f, isNum := toFloat(v)
			if !isNum {
				return nil, false
			}
			s = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	if r.NoBlank && s == "" {
		return nil, false
	}
	if len(r.Values) > 0 && !slices.Contains(r.Values, s) {
		return nil, false
	}
	return s, true
}

// =============================================================================
// Enumerated
// =============================================================================

// Enumerated accepts a value if and only if it is a member of Values.
//
// Membership is exact equality with a type check: the boolean false is a
// member distinct from the string "false", and numbers only match numbers.
// String members of the form "/regexp/" match any string the expression
// matches.
type Enumerated struct {
	Values  []any
	ArrayOK bool

	patterns []*regexp.Regexp
}

// NewEnumerated creates an Enumerated rule, compiling any regexp members.
func NewEnumerated(values []any, arrayOK bool) (Enumerated, error) {
	e := Enumerated{Values: values, ArrayOK: arrayOK}
	for _, v := range values {
		src, ok := regexpSource(v)
		if !ok {
			continue
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return Enumerated{}, fmt.Errorf("enumerated value %q: %w", v, err)
		}
		e.patterns = append(e.patterns, re)
	}
	return e, nil
}

func (Enumerated) Kind() Kind { return KindEnumerated }

func (r Enumerated) Describe() string {
	return withArraySuffix("one of "+formatLiterals(r.Values), r.ArrayOK)
}

func (r Enumerated) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, r.coerceOne)
}

func (r Enumerated) coerceOne(v any) (any, bool) {
	for _, member := range r.Values {
		if _, isPattern := regexpSource(member); isPattern {
			continue
		}
		if enumEqual(member, v) {
			return member, true
		}
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if r.patterns != nil {
		for _, re := range r.patterns {
			if re.MatchString(s) {
				return s, true
			}
		}
		return nil, false
	}
	for _, member := range r.Values {
		if src, isPattern := regexpSource(member); isPattern {
			if re, err := regexp.Compile(src); err == nil && re.MatchString(s) {
				return s, true
			}
		}
	}
	return nil, false
}

// enumEqual compares a legal value with a candidate. Numbers compare by value
// regardless of their Go type; everything else requires identical types.
func enumEqual(member, v any) bool {
	if mf, ok := toFloat(member); ok {
		vf, ok := toFloat(v)
		return ok && mf == vf
	}
	switch m := member.(type) {
	case string:
		s, ok := v.(string)
		return ok && s == m
	case bool:
		b, ok := v.(bool)
		return ok && b == m
	case nil:
		return v == nil
	}
	return false
}

func regexpSource(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || len(s) < 2 || !strings.HasPrefix(s, "/") || !strings.HasSuffix(s, "/") {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// =============================================================================
// Number / Integer
// =============================================================================

// Number accepts real numbers within optional inclusive bounds.
type Number struct {
	Min     *float64
	Max     *float64
	ArrayOK bool
}

func (Number) Kind() Kind { return KindNumber }

func (r Number) Describe() string {
	return withArraySuffix("a number"+describeBounds(r.Min, r.Max), r.ArrayOK)
}

func (r Number) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, func(item any) (any, bool) {
		f, ok := toFloat(item)
		if !ok || !inBounds(f, r.Min, r.Max) {
			return nil, false
		}
		return f, true
	})
}

// Integer accepts whole numbers within optional inclusive bounds.
// Floats with no fractional part are converted to int.
type Integer struct {
	Min     *float64
	Max     *float64
	ArrayOK bool
}

func (Integer) Kind() Kind { return KindInteger }

func (r Integer) Describe() string {
	return withArraySuffix("an integer"+describeBounds(r.Min, r.Max), r.ArrayOK)
}

func (r Integer) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, func(item any) (any, bool) {
		f, ok := toFloat(item)
		if !ok || math.IsInf(f, 0) || f != math.Trunc(f) || !inBounds(f, r.Min, r.Max) {
			return nil, false
		}
		// int(f) is implementation-defined outside the int64 range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, false
		}
		return int(f), true
	})
}

func inBounds(f float64, lo, hi *float64) bool {
	if lo != nil && f < *lo {
		return false
	}
	if hi != nil && f > *hi {
		return false
	}
	return true
}

func describeBounds(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf(" in the interval [%s, %s]", formatLiteral(*lo), formatLiteral(*hi))
	case lo != nil:
		return " >= " + formatLiteral(*lo)
	case hi != nil:
		return " <= " + formatLiteral(*hi)
	}
	return ""
}

// Float returns a pointer to f, for use as a Number or Integer bound.
func Float(f float64) *float64 { return &f }

// =============================================================================
// Boolean / Angle / Any
// =============================================================================

// Boolean accepts true and false.
type Boolean struct{}

func (Boolean) Kind() Kind       { return KindBoolean }
func (Boolean) Describe() string { return "a boolean (true or false)" }
func (Boolean) coerce(v any) (any, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Angle accepts a number of degrees and normalizes it to [-180, 180).
type Angle struct{}

func (Angle) Kind() Kind       { return KindAngle }
func (Angle) Describe() string { return "a number of degrees, normalized to [-180, 180)" }
func (Angle) coerce(v any) (any, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsInf(f, 0) {
		return nil, false
	}
	return math.Mod(math.Mod(f+180, 360)+360, 360) - 180, true
}

// Any accepts every value unchecked.
type Any struct{}

func (Any) Kind() Kind               { return KindAny }
func (Any) Describe() string         { return "any value" }
func (Any) coerce(v any) (any, bool) { return v, true }

// =============================================================================
// Flaglist
// =============================================================================

// Flaglist accepts a "+"-joined combination of Flags, or exactly one of
// Extras on its own (for example "none" or "all").
type Flaglist struct {
	Flags   []string
	Extras  []string
	ArrayOK bool
}

func (Flaglist) Kind() Kind { return KindFlaglist }

func (r Flaglist) Describe() string {
	desc := fmt.Sprintf("any combination of %s joined with '+'", strings.Join(quoteAll(r.Flags), ", "))
	if len(r.Extras) > 0 {
		desc += fmt.Sprintf(", or one of %s", strings.Join(quoteAll(r.Extras), ", "))
	}
	return withArraySuffix(desc, r.ArrayOK)
}

func (r Flaglist) coerce(v any) (any, bool) {
	return arrayOK(r.ArrayOK, v, r.coerceOne)
}

func (r Flaglist) coerceOne(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if slices.Contains(r.Extras, s) {
		return s, true
	}
	if s == "" {
		return nil, false
	}
	seen := make(map[string]bool)
	parts := strings.Split(s, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !slices.Contains(r.Flags, p) || seen[p] {
			return nil, false
		}
		seen[p] = true
		parts[i] = p
	}
	return strings.Join(parts, "+"), true
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}

// =============================================================================
// SubplotID
// =============================================================================

// SubplotID accepts subplot references: Base, Base2, Base3, ...
// Base1 is rejected; the first subplot is spelled without a number.
type SubplotID struct {
	Base string
}

func (SubplotID) Kind() Kind { return KindSubplotID }

func (r SubplotID) Describe() string {
	return fmt.Sprintf("a subplot id: %q optionally followed by an integer >= 2 (e.g. %q, %q)", r.Base, r.Base, r.Base+"2")
}

func (r SubplotID) coerce(v any) (any, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, r.Base) {
		return nil, false
	}
	suffix := s[len(r.Base):]
	if suffix == "" {
		return s, true
	}
	if suffix[0] == '0' {
		return nil, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 2 {
		return nil, false
	}
	return s, true
}

// =============================================================================
// Array / DataArray
// =============================================================================

// Array accepts any ordered sequence and normalizes it to []any.
type Array struct{}

func (Array) Kind() Kind       { return KindArray }
func (Array) Describe() string { return "an ordered sequence" }
func (Array) coerce(v any) (any, bool) {
	items, ok := toSlice(v)
	if !ok {
		return nil, false
	}
	return items, true
}

// DataArray accepts an ordered sequence that may be bound to a data column.
type DataArray struct{}

func (DataArray) Kind() Kind       { return KindDataArray }
func (DataArray) Describe() string { return "an ordered sequence of data values" }
func (DataArray) coerce(v any) (any, bool) {
	items, ok := toSlice(v)
	if !ok {
		return nil, false
	}
	return items, true
}
