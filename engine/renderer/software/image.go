package software

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

// TextureImage copies a texture into an image: *image.Gray for luminance, *image.RGBA otherwise.
func (r *SoftwareRenderer) TextureImage(texture *metadata.Texture) (image.Image, error) {
	pixels, err := r.TexturePixels(texture)
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, int(texture.Width), int(texture.Height))
	switch texture.Format {
	case metadata.TextureFormatLuminance8:
		return &image.Gray{Pix: pixels, Stride: rect.Dx(), Rect: rect}, nil
	case metadata.TextureFormatRGBA8:
		return &image.RGBA{Pix: pixels, Stride: rect.Dx() * 4, Rect: rect}, nil
	}
	return nil, fmt.Errorf("software renderer: texture '%s' has unknown format %s", texture.Name, texture.Format)
}

// ReadPixels copies the colour attachment of a render target. A nil target reads the backbuffer.
func (r *SoftwareRenderer) ReadPixels(target *metadata.RenderTarget) (*image.RGBA, error) {
	if target == nil {
		target = r.backbuffer
	}
	if target == nil {
		return nil, fmt.Errorf("software renderer: no backbuffer to read")
	}
	img, err := r.TextureImage(target.Colour)
	if err != nil {
		return nil, err
	}
	return img.(*image.RGBA), nil
}
