package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accepts(t *testing.T, r Rule, v any) any {
	t.Helper()
	out, ok := r.coerce(v)
	require.Truef(t, ok, "%s rule rejected %#v", r.Kind(), v)
	return out
}

func rejects(t *testing.T, r Rule, v any) {
	t.Helper()
	_, ok := r.coerce(v)
	assert.Falsef(t, ok, "%s rule accepted %#v", r.Kind(), v)
}

func TestString(t *testing.T) {
	family := String{NoBlank: true, Strict: true}
	assert.Equal(t, "Arial", accepts(t, family, "Arial"))
	rejects(t, family, "")
	rejects(t, family, 12)
	rejects(t, family, true)

	loose := String{}
	assert.Equal(t, "", accepts(t, loose, ""))
	assert.Equal(t, "12", accepts(t, loose, 12))
	assert.Equal(t, "1.5", accepts(t, loose, 1.5))
	assert.Equal(t, "true", accepts(t, loose, true))
	rejects(t, loose, []any{"a"})

	arr := String{ArrayOK: true}
	assert.Equal(t, []any{"a", "b"}, accepts(t, arr, []string{"a", "b"}))

	set := String{Values: []string{"a", "b"}}
	accepts(t, set, "a")
	rejects(t, set, "c")
}

func TestEnumerated(t *testing.T) {
	arrangement, err := NewEnumerated([]any{"snap", "perpendicular", "freeform", "fixed"}, false)
	require.NoError(t, err)

	for _, v := range []string{"snap", "perpendicular", "freeform", "fixed"} {
		assert.Equal(t, v, accepts(t, arrangement, v))
	}
	rejects(t, arrangement, "random")
	rejects(t, arrangement, "Snap")
	rejects(t, arrangement, nil)

	desc := arrangement.Describe()
	for _, v := range []string{`"snap"`, `"perpendicular"`, `"freeform"`, `"fixed"`} {
		assert.Contains(t, desc, v)
	}
}

func TestEnumeratedTypeCheck(t *testing.T) {
	fitbounds, err := NewEnumerated([]any{false, "locations", "geojson"}, false)
	require.NoError(t, err)

	assert.Equal(t, false, accepts(t, fitbounds, false))
	accepts(t, fitbounds, "locations")
	rejects(t, fitbounds, "false")
	rejects(t, fitbounds, true)
	rejects(t, fitbounds, 0)

	nums, err := NewEnumerated([]any{int64(1), 2.5}, false)
	require.NoError(t, err)
	accepts(t, nums, 1)
	accepts(t, nums, 1.0)
	accepts(t, nums, float32(2.5))
	rejects(t, nums, "1")
	rejects(t, nums, true)
}

func TestEnumeratedRegexp(t *testing.T) {
	anchor, err := NewEnumerated([]any{"free", "/^x([2-9]|[1-9][0-9]+)?( domain)?$/"}, false)
	require.NoError(t, err)

	accepts(t, anchor, "free")
	accepts(t, anchor, "x")
	accepts(t, anchor, "x2")
	accepts(t, anchor, "x12 domain")
	rejects(t, anchor, "x1")
	rejects(t, anchor, "y")

	_, err = NewEnumerated([]any{"/([/"}, false)
	assert.Error(t, err)
}

func TestEnumeratedArrayOK(t *testing.T) {
	pos, err := NewEnumerated([]any{"inside", "outside", "auto", "none"}, true)
	require.NoError(t, err)

	assert.Equal(t, []any{"inside", "auto"}, accepts(t, pos, []string{"inside", "auto"}))
	rejects(t, pos, []any{"inside", "sideways"})
}

func TestNumber(t *testing.T) {
	hole := Number{Min: Float(0), Max: Float(1)}
	assert.Equal(t, 0.0, accepts(t, hole, 0))
	assert.Equal(t, 1.0, accepts(t, hole, 1))
	assert.Equal(t, 0.3, accepts(t, hole, 0.3))
	rejects(t, hole, 1.01)
	rejects(t, hole, -0.1)
	rejects(t, hole, true)
	rejects(t, hole, "0.5")

	open := Number{}
	accepts(t, open, -1e9)
	assert.Equal(t, "a number", open.Describe())
	assert.Equal(t, "a number in the interval [0, 1]", hole.Describe())
	assert.Equal(t, "a number >= 10", Number{Min: Float(10)}.Describe())
}

func TestInteger(t *testing.T) {
	r := Integer{Min: Float(0), Max: Float(8)}
	assert.Equal(t, 2, accepts(t, r, 2))
	assert.Equal(t, 2, accepts(t, r, 2.0))
	assert.Equal(t, 3, accepts(t, r, int64(3)))
	rejects(t, r, 2.5)
	rejects(t, r, 9)
	rejects(t, r, -1)
	rejects(t, r, false)

	unbounded := Integer{}
	assert.Equal(t, -5, accepts(t, unbounded, -5.0))
	rejects(t, unbounded, 1e300)
	rejects(t, unbounded, -1e300)
	rejects(t, unbounded, 9.223372036854775807e18)
}

func TestBooleanAngleAny(t *testing.T) {
	assert.Equal(t, true, accepts(t, Boolean{}, true))
	rejects(t, Boolean{}, "true")
	rejects(t, Boolean{}, 1)

	tests := []struct {
		in   any
		want float64
	}{
		{0, 0},
		{90, 90},
		{180, -180},
		{270, -90},
		{-190, 170},
		{720, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, accepts(t, Angle{}, tt.in), 1e-9, "angle %v", tt.in)
	}
	rejects(t, Angle{}, "90")

	v := map[string]any{"anything": 1}
	assert.Equal(t, v, accepts(t, Any{}, v))
	assert.Nil(t, accepts(t, Any{}, nil))
}

func TestFlaglist(t *testing.T) {
	mode := Flaglist{Flags: []string{"lines", "markers", "text"}, Extras: []string{"none"}}

	assert.Equal(t, "lines", accepts(t, mode, "lines"))
	assert.Equal(t, "lines+markers", accepts(t, mode, "lines+markers"))
	assert.Equal(t, "markers+text", accepts(t, mode, " markers + text "))
	assert.Equal(t, "none", accepts(t, mode, "none"))
	rejects(t, mode, "lines+lines")
	rejects(t, mode, "lines+none")
	rejects(t, mode, "bars")
	rejects(t, mode, "")
	rejects(t, mode, 1)
}

func TestSubplotID(t *testing.T) {
	x := SubplotID{Base: "x"}
	accepts(t, x, "x")
	accepts(t, x, "x2")
	accepts(t, x, "x10")
	rejects(t, x, "x1")
	rejects(t, x, "x0")
	rejects(t, x, "x02")
	rejects(t, x, "y2")
	rejects(t, x, "xx")
	rejects(t, x, 2)
}

func TestArrays(t *testing.T) {
	assert.Equal(t, []any{1, 2, 3}, accepts(t, Array{}, []int{1, 2, 3}))
	assert.Equal(t, []any{"a"}, accepts(t, DataArray{}, []any{"a"}))
	assert.Equal(t, []any{1.5}, accepts(t, DataArray{}, [1]float64{1.5}))
	rejects(t, Array{}, "abc")
	rejects(t, DataArray{}, nil)
	rejects(t, DataArray{}, []byte("abc"))
}

func TestIdempotence(t *testing.T) {
	enum, err := NewEnumerated([]any{false, "locations"}, false)
	require.NoError(t, err)

	cases := []struct {
		rule Rule
		in   any
	}{
		{String{NoBlank: true, Strict: true}, "Arial"},
		{String{}, 3},
		{enum, false},
		{Number{Min: Float(0)}, 3},
		{Integer{}, 4.0},
		{Angle{}, 400},
		{Flaglist{Flags: []string{"a", "b"}}, "a + b"},
		{Color{}, "RebeccaPurple"},
		{ColorScale{}, []any{"red", "blue"}},
		{Array{}, []int{1, 2}},
	}
	for _, c := range cases {
		first := accepts(t, c.rule, c.in)
		second := accepts(t, c.rule, first)
		assert.Equal(t, first, second, "%s rule is not idempotent for %#v", c.rule.Kind(), c.in)
	}
}
