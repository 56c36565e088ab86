package testbed

import (
	"image"
	"image/color"

	"github.com/spaghettifunk/screenwipe/engine/math"
)

// checkerScene is the outgoing demo scene: an 8 pixel checkerboard over a horizontal gradient.
func checkerScene(width, height uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			t := float32(x) / float32(math.Clamp(width, 2, width)-1)
			c := color.RGBA{
				R: uint8(math.Lerp[float32](200, 255, t)),
				G: uint8(math.Lerp[float32](80, 180, t)),
				B: 32,
				A: 255,
			}
			if (x/8+y/8)%2 == 1 {
				c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// gradientScene is the incoming demo scene: a vertical blue to purple gradient.
func gradientScene(width, height uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		t := float32(y) / float32(math.Clamp(height, 2, height)-1)
		c := color.RGBA{
			R: uint8(math.Lerp[float32](16, 140, t)),
			G: 24,
			B: uint8(math.Lerp[float32](160, 220, t)),
			A: 255,
		}
		for x := 0; x < int(width); x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
