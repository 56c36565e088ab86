package systems

import (
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/assets/loaders"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceSystem(t *testing.T) {
	_, err := NewResourceSystem(&ResourceSystemConfig{})
	assert.Error(t, err)

	rs, err := NewResourceSystem(&ResourceSystemConfig{MaxLoaderCount: 2})
	require.NoError(t, err)

	store := assets.NewMemoryStore()
	require.NoError(t, store.Put("FADE0000", []byte{1, 2, 3}))

	assert.True(t, rs.RegisterLoader(&loaders.LumpLoader{Store: store}))
	assert.False(t, rs.RegisterLoader(&loaders.LumpLoader{Store: store}), "duplicate type")
	assert.True(t, rs.RegisterLoader(&loaders.ImageLoader{}))
	assert.False(t, rs.RegisterLoader(&loaders.ImageLoader{}), "no free slot")

	res, err := rs.Load("fade0000", metadata.ResourceTypeLump)
	require.NoError(t, err)
	assert.Equal(t, "FADE0000", res.Name)
	assert.Equal(t, []byte{1, 2, 3}, res.Data)
	require.NoError(t, rs.Unload(res))
	assert.Nil(t, res.Data)
	assert.NoError(t, rs.Unload(nil))

	_, err = rs.Load("anything", metadata.ResourceTypeBinary)
	assert.Error(t, err)

	require.NoError(t, rs.Shutdown())
	_, err = rs.Load("FADE0000", metadata.ResourceTypeLump)
	assert.Error(t, err)
}
