package schemagraph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Build([]schema.Entry{
		{Parent: "bar", Name: "opacity", Kind: schema.KindNumber, EditType: "style", Role: "style"},
		{Parent: "bar", Name: "marker.color", Kind: schema.KindColor, EditType: "style", Role: "style"},
		{Parent: "bar", Name: "marker.line.width", Kind: schema.KindNumber, EditType: "style", Role: "style"},
		{Parent: "layout", Name: "barmode", Kind: schema.KindEnumerated, EditType: "calc", Role: "info",
			Values: []any{"stack", "group"}},
	})
	require.NoError(t, err)
	return reg
}

func TestToDOT(t *testing.T) {
	dot, err := ToDOT(testRegistry(t), "bar", Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `"bar" [label="bar", style=filled, fillcolor=lightgrey];`)
	assert.Contains(t, dot, `"bar.marker.line" [label="line", style=filled, fillcolor=lightgrey];`)
	assert.Contains(t, dot, `"bar" -> "bar.marker";`)
	assert.Contains(t, dot, `"bar.marker" -> "bar.marker.color";`)
	assert.Contains(t, dot, `"bar.marker.line" -> "bar.marker.line.width";`)
	assert.NotContains(t, dot, "barmode")
}

func TestToDOTDetailed(t *testing.T) {
	dot, err := ToDOT(testRegistry(t), "layout", Options{Detailed: true})
	require.NoError(t, err)
	assert.Contains(t, dot, "barmode")
	assert.Contains(t, dot, "stack")
}

func TestToDOTLeafRoot(t *testing.T) {
	dot, err := ToDOT(testRegistry(t), "bar.opacity", Options{})
	require.NoError(t, err)
	assert.Contains(t, dot, `"bar.opacity"`)
	assert.NotContains(t, dot, "->")
}

func TestToDOTNotFound(t *testing.T) {
	_, err := ToDOT(testRegistry(t), "pie", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	dot, err := ToDOT(testRegistry(t), "bar", Options{})
	require.NoError(t, err)

	svg, err := RenderSVG(context.Background(), dot)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 80.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80"><g/></svg>`, out)

	plain := []byte(`<svg><g/></svg>`)
	assert.Equal(t, plain, normalizeViewBox(plain))
}
