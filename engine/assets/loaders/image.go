package loaders

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

/** @brief Decodes PNG, JPEG, GIF, BMP and TIFF files into RGBA8 pixels. */
type ImageLoader struct {
	// BasePath is prepended to relative names.
	BasePath string
	// FlipY stores the rows bottom-up.
	FlipY bool
}

func (il *ImageLoader) Type() metadata.ResourceType {
	return metadata.ResourceTypeImage
}

func (il *ImageLoader) path(name string) string {
	if il.BasePath == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(il.BasePath, name)
}

func (il *ImageLoader) Load(name string) (*metadata.Resource, error) {
	path := il.path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image loader: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image loader: failed to decode '%s': %w", path, err)
	}
	core.LogDebug("image loader: decoded '%s' as %s (%dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	data := DecodeRGBA(img, il.FlipY)

	return &metadata.Resource{
		Name:         filepath.Base(name),
		FullPath:     path,
		ResourceType: metadata.ResourceTypeImage,
		DataSize:     uint64(len(data.Pixels)),
		Data:         data,
	}, nil
}

func (il *ImageLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("image loader: nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// DecodeRGBA converts any image to tightly packed RGBA8.
func DecodeRGBA(img image.Image, flipY bool) *metadata.ImageResourceData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if flipY {
		stride := rgba.Stride
		row := make([]uint8, stride)
		for top, bottom := 0, rgba.Rect.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
			copy(row, rgba.Pix[top*stride:(top+1)*stride])
			copy(rgba.Pix[top*stride:(top+1)*stride], rgba.Pix[bottom*stride:(bottom+1)*stride])
			copy(rgba.Pix[bottom*stride:(bottom+1)*stride], row)
		}
	}

	return &metadata.ImageResourceData{
		ChannelCount: 4,
		Width:        uint32(bounds.Dx()),
		Height:       uint32(bounds.Dy()),
		Pixels:       rgba.Pix,
	}
}

// ResizeRGBA scales decoded pixels to width x height. Data already at that size is returned as is.
func ResizeRGBA(data *metadata.ImageResourceData, width, height uint32) *metadata.ImageResourceData {
	if data.Width == width && data.Height == height {
		return data
	}
	src := &image.RGBA{
		Pix:    data.Pixels,
		Stride: int(data.Width) * 4,
		Rect:   image.Rect(0, 0, int(data.Width), int(data.Height)),
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &metadata.ImageResourceData{
		ChannelCount: 4,
		Width:        width,
		Height:       height,
		Pixels:       dst.Pix,
	}
}
