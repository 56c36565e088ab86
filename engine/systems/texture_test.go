package systems

import (
	"image/color"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets/loaders"
	"github.com/spaghettifunk/screenwipe/engine/renderer/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTextureSystem(t *testing.T, r *RendererSystem, dir string, max uint32) *TextureSystem {
	t.Helper()
	js, err := NewJobSystem(2, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Shutdown() })
	rs, err := NewResourceSystem(&ResourceSystemConfig{MaxLoaderCount: 1})
	require.NoError(t, err)
	require.True(t, rs.RegisterLoader(&loaders.ImageLoader{BasePath: dir}))
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: max}, js, rs, r)
	require.NoError(t, err)
	return ts
}

func TestTextureSystemAcquireScalesAndCounts(t *testing.T) {
	dir := t.TempDir()
	green := color.RGBA{G: 255, A: 255}
	writePNG(t, dir, "start.png", solidImage(2, 2, green))

	r := newRendererSystem(t, 8, 8)
	backend := r.Backend().(*software.SoftwareRenderer)
	ts := newTextureSystem(t, r, dir, 4)

	texture, err := ts.Acquire("start.png", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), texture.Width)
	assert.Equal(t, uint32(8), texture.Height)

	pixels, err := backend.TexturePixels(texture)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 0, 255}, pixels[:4])

	again, err := ts.Acquire("start.png", 8, 8)
	require.NoError(t, err)
	assert.Same(t, texture, again)

	live := backend.LiveTextures()
	ts.Release("start.png")
	assert.Equal(t, live, backend.LiveTextures())
	ts.Release("start.png")
	assert.Equal(t, live-1, backend.LiveTextures())
	_, ok := ts.Get("start.png")
	assert.False(t, ok)

	_, err = ts.Acquire("missing.png", 8, 8)
	assert.Error(t, err)
}

func TestTextureSystemAcquireAll(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", solidImage(4, 4, color.RGBA{R: 255, A: 255}))
	writePNG(t, dir, "b.png", solidImage(1, 1, color.RGBA{B: 255, A: 255}))

	r := newRendererSystem(t, 4, 4)
	ts := newTextureSystem(t, r, dir, 4)

	textures, err := ts.AcquireAll([]string{"a.png", "b.png"}, 4, 4)
	require.NoError(t, err)
	require.Len(t, textures, 2)
	assert.Equal(t, "a.png", textures[0].Name)
	assert.Equal(t, "b.png", textures[1].Name)
	assert.Equal(t, uint32(4), textures[1].Width)

	_, err = ts.AcquireAll([]string{"a.png", "missing.png"}, 4, 4)
	assert.Error(t, err)

	require.NoError(t, ts.Shutdown())
	assert.Empty(t, ts.RegisteredTextureTable)
}

func TestTextureSystemRegisterLimit(t *testing.T) {
	r := newRendererSystem(t, 2, 2)
	ts := newTextureSystem(t, r, t.TempDir(), 1)

	_, err := ts.Register("one", solidImage(2, 2, color.RGBA{A: 255}), 2, 2)
	require.NoError(t, err)
	_, err = ts.Register("two", solidImage(2, 2, color.RGBA{A: 255}), 2, 2)
	assert.Error(t, err)

	_, err = NewTextureSystem(&TextureSystemConfig{}, nil, nil, r)
	assert.Error(t, err)
}
