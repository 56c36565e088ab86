package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, encode func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
}

func TestImageLoaderDecodesFormats(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "scene.png"), func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	writeImage(t, filepath.Join(dir, "scene.bmp"), func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	loader := &ImageLoader{BasePath: dir}
	assert.Equal(t, metadata.ResourceTypeImage, loader.Type())

	for _, name := range []string{"scene.png", "scene.bmp"} {
		res, err := loader.Load(name)
		require.NoError(t, err, name)
		data := res.Data.(*metadata.ImageResourceData)
		assert.Equal(t, uint32(2), data.Width)
		assert.Equal(t, uint32(2), data.Height)
		assert.Equal(t, uint8(4), data.ChannelCount)
		assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[:4], name)
		assert.Equal(t, uint64(16), res.DataSize)
		assert.Equal(t, filepath.Join(dir, name), res.FullPath)

		require.NoError(t, loader.Unload(res))
		assert.Nil(t, res.Data)
	}

	_, err := loader.Load("missing.png")
	assert.Error(t, err)
	assert.Error(t, loader.Unload(nil))
}

func TestDecodeRGBAFlip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 2, A: 255})

	data := DecodeRGBA(img, true)
	assert.Equal(t, []uint8{2, 0, 0, 255, 1, 0, 0, 255}, data.Pixels)
}

func TestLumpLoader(t *testing.T) {
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put("FADE0000", []byte{1, 2}))
	loader := &LumpLoader{Store: store}
	assert.Equal(t, metadata.ResourceTypeLump, loader.Type())

	res, err := loader.Load("fade0000")
	require.NoError(t, err)
	assert.Equal(t, "FADE0000", res.Name)
	assert.Equal(t, []byte{1, 2}, res.Data)

	_, err = loader.Load("FADE0001")
	assert.Error(t, err)
	_, err = (&LumpLoader{}).Load("FADE0000")
	assert.Error(t, err)
}

func TestResizeRGBA(t *testing.T) {
	data := &metadata.ImageResourceData{ChannelCount: 4, Width: 2, Height: 2, Pixels: []uint8{
		10, 20, 30, 255, 10, 20, 30, 255,
		10, 20, 30, 255, 10, 20, 30, 255,
	}}
	assert.Same(t, data, ResizeRGBA(data, 2, 2))

	scaled := ResizeRGBA(data, 4, 3)
	assert.Equal(t, uint32(4), scaled.Width)
	assert.Equal(t, uint32(3), scaled.Height)
	require.Len(t, scaled.Pixels, 4*3*4)
	assert.Equal(t, []uint8{10, 20, 30, 255}, scaled.Pixels[:4])
}
