package figure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchSet(t *testing.T) {
	var unset *float64
	hole := 0.3

	p := Patch{}.
		Set("hole", &hole).
		Set("maxdepth", unset).
		Set("branchvalues", nil).
		Set("box.visible", true).
		Set("box.width", 0.5)

	assert.Equal(t, Patch{
		"hole": 0.3,
		"box":  map[string]any{"visible": true, "width": 0.5},
	}, p)

	v, ok := p.Get("box.visible")
	require.True(t, ok)
	assert.Equal(t, true, v)
	_, ok = p.Get("box.color")
	assert.False(t, ok)
	_, ok = p.Get("hole.size")
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	dst := map[string]any{
		"marker": map[string]any{"color": "red", "size": 4},
		"mode":   "markers",
	}
	merge(dst, map[string]any{
		"marker": Patch{"size": 8, "line": map[string]any{"width": 1}},
		"mode":   "lines",
	})
	assert.Equal(t, map[string]any{
		"marker": map[string]any{"color": "red", "size": 8, "line": map[string]any{"width": 1}},
		"mode":   "lines",
	}, dst)
}

func TestColumnJSON(t *testing.T) {
	tests := []struct {
		col  Column
		json string
	}{
		{Col("gdp"), `{"col":"gdp"}`},
		{ColAt(2), `{"index":2}`},
		{Values("a", 1.5), `{"values":["a",1.5]}`},
		{Column{}, `null`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.col)
		require.NoError(t, err)
		assert.JSONEq(t, tt.json, string(data))

		var back Column
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tt.col.String(), back.String())
	}

	var c Column
	require.NoError(t, json.Unmarshal([]byte(`"pop"`), &c))
	assert.Equal(t, "pop", c.Name())
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestFigureHash(t *testing.T) {
	a := &Figure{Data: []Trace{{"type": "bar", "x": []any{1.0}}}, Layout: map[string]any{"width": 400.0}}
	b := &Figure{Data: []Trace{{"x": []any{1.0}, "type": "bar"}}, Layout: map[string]any{"width": 400.0}}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb, "map order does not change the hash")

	b.Layout["width"] = 500.0
	hb, err = b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)

	data, err := a.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"type":"bar","x":[1]}],"layout":{"width":400}}`, string(data))
}

func TestDiscrete(t *testing.T) {
	values := []any{"b", "a", "c", "b", nil}
	got := discrete(values, []string{"c"}, map[string]string{"a": "gold"}, []string{"red", "blue"})
	// c comes first from the order, a is mapped explicitly, b and "" cycle.
	assert.Equal(t, []any{"blue", "gold", "red", "blue", "red"}, got)
}

func TestSizeref(t *testing.T) {
	assert.Equal(t, 2*40.0/400, sizeref([]any{10.0, 40.0, nil}, 20))
	assert.Equal(t, 1.0, sizeref([]any{nil}, 0))
}

func TestECDFModes(t *testing.T) {
	sample := []any{2.0, 1.0, 3.0}
	weights := []any{1.0, 2.0, 1.0}

	xs, ys, err := ecdf(sample, weights, "", ECDFModeStandard)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, xs)
	assert.Equal(t, []any{2.0, 3.0, 4.0}, ys)

	_, ys, err = ecdf(sample, weights, ECDFNormProbability, ECDFModeReversed)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 0.5, 0.25}, ys)

	_, ys, err = ecdf(sample, nil, "", ECDFModeComplementary)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 1.0, 0.0}, ys)

	_, _, err = ecdf(sample, nil, "density", "")
	assert.Error(t, err)
	_, _, err = ecdf([]any{"x"}, nil, "", "")
	assert.Error(t, err)
}
