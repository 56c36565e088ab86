package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRendererType(t *testing.T) {
	kind, err := ParseRendererType(" Software ")
	require.NoError(t, err)
	assert.Equal(t, Software, kind)

	kind, err = ParseRendererType("")
	require.NoError(t, err)
	assert.Equal(t, Software, kind)

	_, err = ParseRendererType("vulkan")
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	backend, err := NewBackend(Software)
	require.NoError(t, err)
	require.NotNil(t, backend)

	_, err = NewBackend(RendererType(9))
	assert.Error(t, err)
}
