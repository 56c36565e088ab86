package software

import (
	"image/color"
	gomath "math"

	"github.com/spaghettifunk/screenwipe/engine/math"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
)

/**
 * @brief A fragment stage. It receives the interpolated texture
 * coordinate and the current target colour and returns the colour to
 * write. Blending is the program's business.
 */
type FragmentProgram func(env *FragmentEnv, uv math.Vec2, dst color.RGBA) color.RGBA

type sampler struct {
	texture *metadata.Texture
	pixels  []uint8
}

/** @brief What a fragment program can read: bound samplers and uniforms. */
type FragmentEnv struct {
	samplers map[string]*sampler
	uniforms map[string]metadata.UniformValue
}

func (e *FragmentEnv) Int(name string) int32 {
	return e.uniforms[name].Int
}

func (e *FragmentEnv) Float(name string) float32 {
	return e.uniforms[name].Float
}

// wrap maps texel coordinate i into [0, n). It returns -1 when a clamp-to-border lookup falls outside.
func wrap(i, n int, mode metadata.TextureRepeat) int {
	switch mode {
	case metadata.TextureRepeatRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case metadata.TextureRepeatMirroredRepeat:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i
	case metadata.TextureRepeatClampToBorder:
		if i < 0 || i >= n {
			return -1
		}
		return i
	default:
		return math.Clamp(i, 0, n-1)
	}
}

// texel returns the index of texel (x, y) after wrapping, or -1 for the border.
func (s *sampler) texel(x, y int) int {
	w, h := int(s.texture.Width), int(s.texture.Height)
	x = wrap(x, w, s.texture.RepeatU)
	y = wrap(y, h, s.texture.RepeatV)
	if x < 0 || y < 0 {
		return -1
	}
	return y*w + x
}

func (s *sampler) nearest(uv math.Vec2) int {
	x := int(gomath.Floor(float64(uv.X * float32(s.texture.Width))))
	y := int(gomath.Floor(float64(uv.Y * float32(s.texture.Height))))
	return s.texel(x, y)
}

// fetch reads a texel as RGBA. The border colour is transparent black.
func (s *sampler) fetch(i int) color.RGBA {
	if i < 0 {
		return color.RGBA{}
	}
	if s.texture.Format == metadata.TextureFormatLuminance8 {
		l := s.pixels[i]
		return color.RGBA{R: l, G: l, B: l, A: 255}
	}
	i *= 4
	return color.RGBA{R: s.pixels[i], G: s.pixels[i+1], B: s.pixels[i+2], A: s.pixels[i+3]}
}

// bilinear weights the four texels around uv, with texel centres at half-integer coordinates.
func (s *sampler) bilinear(uv math.Vec2) color.RGBA {
	fx := float64(uv.X*float32(s.texture.Width)) - 0.5
	fy := float64(uv.Y*float32(s.texture.Height)) - 0.5
	x0, y0 := gomath.Floor(fx), gomath.Floor(fy)
	tx, ty := float32(fx-x0), float32(fy-y0)
	x, y := int(x0), int(y0)

	c00 := s.fetch(s.texel(x, y))
	c10 := s.fetch(s.texel(x+1, y))
	c01 := s.fetch(s.texel(x, y+1))
	c11 := s.fetch(s.texel(x+1, y+1))
	channel := func(a, b, c, d uint8) uint8 {
		top := math.Lerp(float32(a), float32(b), tx)
		bottom := math.Lerp(float32(c), float32(d), tx)
		return uint8(gomath.Round(float64(math.Lerp(top, bottom, ty))))
	}
	return color.RGBA{
		R: channel(c00.R, c10.R, c01.R, c11.R),
		G: channel(c00.G, c10.G, c01.G, c11.G),
		B: channel(c00.B, c10.B, c01.B, c11.B),
		A: channel(c00.A, c10.A, c01.A, c11.A),
	}
}

// Sample reads a texel using the texture's filter. Luminance textures come back grey and opaque; unbound samplers read transparent black.
func (e *FragmentEnv) Sample(name string, uv math.Vec2) color.RGBA {
	s, ok := e.samplers[name]
	if !ok {
		return color.RGBA{}
	}
	if s.texture.Filter == metadata.TextureFilterModeLinear {
		return s.bilinear(uv)
	}
	return s.fetch(s.nearest(uv))
}

// Level reads the raw first channel of the nearest texel. Mask levels are never filtered.
func (e *FragmentEnv) Level(name string, uv math.Vec2) uint8 {
	s, ok := e.samplers[name]
	if !ok {
		return 0
	}
	i := s.nearest(uv)
	if i < 0 {
		return 0
	}
	return s.pixels[i*int(s.texture.Format.BytesPerPixel())]
}

func mix(a, b color.RGBA, t float32) color.RGBA {
	channel := func(x, y uint8) uint8 {
		return uint8(gomath.Round(float64(math.Lerp(float32(x), float32(y), t))))
	}
	return color.RGBA{R: channel(a.R, b.R), G: channel(a.G, b.G), B: channel(a.B, b.B), A: channel(a.A, b.A)}
}

func invert(c color.RGBA) color.RGBA {
	return color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
}

// arrival is how far the mask says the pixel has progressed, in [0,1]. Encore mirrors the mask horizontally.
func arrival(env *FragmentEnv, uv math.Vec2) float32 {
	if env.Int(metadata.UniformEncoreSwizzle) != 0 {
		uv.X = 1 - uv.X
	}
	level := math.Clamp(env.Level(metadata.SamplerMask, uv), 0, wipe.MaxFadeLevel)
	return float32(level) / wipe.MaxFadeLevel
}

func wipeProgram(env *FragmentEnv, uv math.Vec2, _ color.RGBA) color.RGBA {
	t := arrival(env, uv)
	start := env.Sample(metadata.SamplerStart, uv)
	switch wipe.ColorMode(env.Int(metadata.UniformColorMode)) {
	case wipe.ColorInvert:
		return mix(start, invert(start), t)
	case wipe.ColorFadeToBlack:
		return mix(start, color.RGBA{A: start.A}, t)
	case wipe.ColorFadeToWhite:
		return mix(start, color.RGBA{R: 255, G: 255, B: 255, A: start.A}, t)
	default:
		return mix(start, env.Sample(metadata.SamplerEnd, uv), t)
	}
}

func wipeOverTargetProgram(env *FragmentEnv, uv math.Vec2, dst color.RGBA) color.RGBA {
	return mix(dst, env.Sample(metadata.SamplerSource, uv), arrival(env, uv))
}

func blitProgram(env *FragmentEnv, uv math.Vec2, _ color.RGBA) color.RGBA {
	return env.Sample(metadata.SamplerSource, uv)
}

func defaultPrograms() map[metadata.ShaderProgram]FragmentProgram {
	return map[metadata.ShaderProgram]FragmentProgram{
		metadata.ProgramWipe:           wipeProgram,
		metadata.ProgramWipeOverTarget: wipeOverTargetProgram,
		metadata.ProgramBlit:           blitProgram,
	}
}
