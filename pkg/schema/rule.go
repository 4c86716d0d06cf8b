package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind names a generic validator kind.
type Kind string

// Validator kinds.
const (
	KindString     Kind = "string"
	KindEnumerated Kind = "enumerated"
	KindNumber     Kind = "number"
	KindInteger    Kind = "integer"
	KindBoolean    Kind = "boolean"
	KindColor      Kind = "color"
	KindColorScale Kind = "colorscale"
	KindColorList  Kind = "colorlist"
	KindArray      Kind = "array"
	KindDataArray  Kind = "data_array"
	KindAngle      Kind = "angle"
	KindFlaglist   Kind = "flaglist"
	KindSubplotID  Kind = "subplotid"
	KindAny        Kind = "any"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{
	KindString, KindEnumerated, KindNumber, KindInteger, KindBoolean,
	KindColor, KindColorScale, KindColorList, KindArray, KindDataArray,
	KindAngle, KindFlaglist, KindSubplotID, KindAny,
}

// Rule is the constraint checked by a validator.
//
// The set of rules is closed: only the types in this package implement it.
type Rule interface {
	// Kind returns the generic kind of the rule.
	Kind() Kind

	// Describe returns a human-readable statement of what the rule accepts.
	Describe() string

	// coerce returns the accepted (possibly normalized) value, or false when
	// the value is rejected.
	coerce(v any) (any, bool)
}

// =============================================================================
// Coercion helpers
// =============================================================================

// toFloat converts any Go numeric type to float64. Booleans are not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

// toSlice converts any slice or array to []any. Strings and byte slices are
// not sequences.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// coerceEach applies fn to every element of a sequence, failing on the first
// rejected element.
func coerceEach(items []any, fn func(any) (any, bool)) ([]any, bool) {
	out := make([]any, len(items))
	for i, item := range items {
		c, ok := fn(item)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

// arrayOK wraps a scalar coercion so that sequences are validated
// element-wise when allowed.
func arrayOK(allowed bool, v any, fn func(any) (any, bool)) (any, bool) {
	if allowed {
		if items, ok := toSlice(v); ok {
			return coerceEach(items, fn)
		}
	}
	return fn(v)
}

// formatLiteral renders a legal value for rule descriptions.
func formatLiteral(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatLiterals(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatLiteral(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func withArraySuffix(desc string, allowed bool) string {
	if allowed {
		return desc + ", or a sequence of such values"
	}
	return desc
}
