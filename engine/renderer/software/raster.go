package software

import (
	"image/color"
	gomath "math"

	"github.com/spaghettifunk/screenwipe/engine/math"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

type screenVertex struct {
	x, y float32
	uv   math.Vec2
}

// project runs the vertex stage: transform, perspective divide and viewport mapping. NDC y points up.
func project(m math.Mat4, vp metadata.Viewport, v math.Vertex2D) screenVertex {
	clip := m.MulVec4(math.NewVec4Create(v.Position.X, v.Position.Y, v.Position.Z, 1))
	ndc := clip.ToVec3()
	if clip.W != 0 && clip.W != 1 {
		ndc.X /= clip.W
		ndc.Y /= clip.W
	}
	return screenVertex{
		x:  float32(vp.X) + (ndc.X+1)*0.5*float32(vp.Width),
		y:  float32(vp.Y) + (1-ndc.Y)*0.5*float32(vp.Height),
		uv: v.Texcoord,
	}
}

type surface struct {
	pixels []uint8
	width  uint32
	height uint32
}

func (s *surface) at(x, y int) color.RGBA {
	i := (y*int(s.width) + x) * 4
	return color.RGBA{R: s.pixels[i], G: s.pixels[i+1], B: s.pixels[i+2], A: s.pixels[i+3]}
}

func (s *surface) set(x, y int, c color.RGBA) {
	i := (y*int(s.width) + x) * 4
	s.pixels[i] = c.R
	s.pixels[i+1] = c.G
	s.pixels[i+2] = c.B
	s.pixels[i+3] = c.A
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// isTopLeft implements the fill rule for positive-area triangles, so a pixel on a shared edge is shaded once.
func isTopLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func covers(w float32, a, b screenVertex) bool {
	return w > 0 || (w == 0 && isTopLeft(a, b))
}

// rasterize shades every pixel centre inside the triangle and the viewport. Returns the number of fragments.
func (s *surface) rasterize(vp metadata.Viewport, tri [3]screenVertex, env *FragmentEnv, program FragmentProgram) uint64 {
	area := edge(tri[0], tri[1], tri[2].x, tri[2].y)
	if area == 0 {
		return 0
	}
	if area < 0 {
		tri[1], tri[2] = tri[2], tri[1]
		area = -area
	}

	minX := max(int(gomath.Floor(float64(min(tri[0].x, tri[1].x, tri[2].x)))), int(vp.X), 0)
	maxX := min(int(gomath.Ceil(float64(max(tri[0].x, tri[1].x, tri[2].x)))), int(vp.X)+int(vp.Width), int(s.width))
	minY := max(int(gomath.Floor(float64(min(tri[0].y, tri[1].y, tri[2].y)))), int(vp.Y), 0)
	maxY := min(int(gomath.Ceil(float64(max(tri[0].y, tri[1].y, tri[2].y)))), int(vp.Y)+int(vp.Height), int(s.height))

	var shaded uint64
	for y := minY; y < maxY; y++ {
		cy := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			cx := float32(x) + 0.5
			w0 := edge(tri[1], tri[2], cx, cy)
			w1 := edge(tri[2], tri[0], cx, cy)
			w2 := edge(tri[0], tri[1], cx, cy)
			if !covers(w0, tri[1], tri[2]) || !covers(w1, tri[2], tri[0]) || !covers(w2, tri[0], tri[1]) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			uv := math.NewVec2(
				tri[0].uv.X*b0+tri[1].uv.X*b1+tri[2].uv.X*b2,
				tri[0].uv.Y*b0+tri[1].uv.Y*b1+tri[2].uv.Y*b2,
			)
			s.set(x, y, program(env, uv, s.at(x, y)))
			shaded++
		}
	}
	return shaded
}

func fillRGBA(pixels []uint8, c color.RGBA) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i] = c.R
		pixels[i+1] = c.G
		pixels[i+2] = c.B
		pixels[i+3] = c.A
	}
}

func toRGBA(v math.Vec4) color.RGBA {
	channel := func(f float32) uint8 {
		return uint8(gomath.Round(float64(math.Clamp(f, 0, 1) * 255)))
	}
	return color.RGBA{R: channel(v.X), G: channel(v.Y), B: channel(v.Z), A: channel(v.W)}
}
