package testbed

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"golang.org/x/image/draw"
)

/** @brief Writes every frame as frame_NNNN.png, scaled by Scale. */
type PNGSink struct {
	Dir   string
	Scale float64

	written int
}

func NewPNGSink(dir string, scale float64) (*PNGSink, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("png sink scale must be positive, got %g", scale)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PNGSink{Dir: dir, Scale: scale}, nil
}

// scale enlarges with nearest neighbour to keep mask edges sharp and shrinks bilinearly.
func (ps *PNGSink) scale(frame *image.RGBA) image.Image {
	if ps.Scale == 1 {
		return frame
	}
	b := frame.Bounds()
	w := int(float64(b.Dx())*ps.Scale + 0.5)
	h := int(float64(b.Dy())*ps.Scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if ps.Scale > 1 {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), frame, b, draw.Src, nil)
	return dst
}

func (ps *PNGSink) WriteFrame(tic uint64, frame *image.RGBA) error {
	path := filepath.Join(ps.Dir, fmt.Sprintf("frame_%04d.png", tic))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, ps.scale(frame)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}
	ps.written++
	return f.Close()
}

func (ps *PNGSink) Written() int {
	return ps.written
}

func (ps *PNGSink) Close() error {
	core.LogInfo("wrote %d frames to '%s'", ps.written, ps.Dir)
	return nil
}
