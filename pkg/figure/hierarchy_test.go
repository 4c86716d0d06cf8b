package figure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

func TestBuildHierarchyCounts(t *testing.T) {
	path := []series{
		{name: "sex", values: []any{"F", "F", "M"}},
		{name: "day", values: []any{"Sun", "Sat", "Sun"}},
	}
	h, err := buildHierarchy(path, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []any{"F/Sun", "F/Sat", "M/Sun", "F", "M"}, h.ids)
	assert.Equal(t, []any{1.0, 1.0, 1.0, 2.0, 1.0}, h.values)
	assert.Nil(t, h.colors)
}

func TestBuildHierarchyRaggedPath(t *testing.T) {
	path := []series{
		{name: "region", values: []any{"EU", "EU"}},
		{name: "country", values: []any{"FR", nil}},
	}
	h, err := buildHierarchy(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"EU/FR", "EU"}, h.ids)
	assert.Equal(t, []any{1.0, 2.0}, h.values)

	path[0].values = []any{nil, "EU"}
	path[1].values = []any{"FR", "DE"}
	_, err = buildHierarchy(path, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestBuildHierarchyColors(t *testing.T) {
	path := []series{
		{name: "team", values: []any{"a", "a", "b"}},
		{name: "who", values: []any{"x", "y", "z"}},
	}
	values := &series{name: "hours", values: []any{1.0, 3.0, 2.0}}

	numeric := &series{name: "score", values: []any{10.0, 20.0, 5.0}}
	h, err := buildHierarchy(path, values, numeric)
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 20.0, 5.0, 17.5, 5.0}, h.colors, "branches average weighted by value")

	discreteCol := &series{name: "site", values: []any{"rome", "oslo", "lima"}}
	h, err = buildHierarchy(path, values, discreteCol)
	require.NoError(t, err)
	assert.Equal(t, []any{"rome", "oslo", "lima", "(?)", "lima"}, h.colors)

	bad := &series{name: "hours", values: []any{"one", 3.0, 2.0}}
	_, err = buildHierarchy(path, bad, nil)
	assert.Error(t, err)
}
