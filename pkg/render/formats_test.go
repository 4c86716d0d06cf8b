package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

func TestFormats(t *testing.T) {
	got, err := Formats([]string{" HTML", "json", "html"}, Figure)
	require.NoError(t, err)
	assert.Equal(t, []string{"html", "json"}, got)

	_, err = Formats([]string{"svg"}, Figure)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	got, err = Formats([]string{"svg", "dot"}, Schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"svg", "dot"}, got)
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".html", Ext(FormatHTML))
}
