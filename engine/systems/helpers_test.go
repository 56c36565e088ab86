package systems

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/stretchr/testify/require"
)

func newRendererSystem(t *testing.T, width, height uint32) *RendererSystem {
	t.Helper()
	r, err := NewRendererSystem(renderer.Software, "systems", width, height)
	require.NoError(t, err)
	require.NoError(t, r.Initialize())
	t.Cleanup(func() { _ = r.Shutdown() })
	return r
}

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
