package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 32))
	assert.Equal(t, 32, Clamp(40, 0, 32))
	assert.Equal(t, 7, Clamp(7, 0, 32))
	assert.Equal(t, float32(0.5), Clamp[float32](0.5, 0, 1))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(5), Lerp[float32](0, 10, 0.5))
	assert.Equal(t, 2.0, Lerp(2.0, 4.0, 0))
}

func TestPackVertices(t *testing.T) {
	vertices := []Vertex2D{
		{Position: NewVec3(-0.5, -0.5, 0), Texcoord: NewVec2(0, 0)},
		{Position: NewVec3(0.5, 0.5, 0), Texcoord: NewVec2(1, 1)},
	}
	data := PackVertices2D(vertices)
	assert.Len(t, data, 2*int(Vertex2DSize))
	assert.Equal(t, vertices, UnpackVertices2D(append(data, 1, 2, 3)))

	indices := []uint16{0, 1, 2, 1, 3, 2}
	assert.Equal(t, indices, UnpackIndices(PackIndices(indices)))
}

func TestOrthographicFlipsY(t *testing.T) {
	// bottom > top flips y so uv (0,0) lands at the top-left corner
	ortho := NewMat4Orthographic(-0.5, 0.5, 0.5, -0.5, -1, 1)
	cases := []struct {
		in   Vec4
		want Vec3
	}{
		{NewVec4Create(-0.5, -0.5, 0, 1), NewVec3(-1, 1, 0)},
		{NewVec4Create(0.5, -0.5, 0, 1), NewVec3(1, 1, 0)},
		{NewVec4Create(-0.5, 0.5, 0, 1), NewVec3(-1, -1, 0)},
		{NewVec4Create(0.5, 0.5, 0, 1), NewVec3(1, -1, 0)},
		{NewVec4Create(0, 0, 0, 1), NewVec3(0, 0, 0)},
	}
	for _, c := range cases {
		out := ortho.MulVec4(c.in)
		assert.Equal(t, c.want, out.ToVec3(), "%v", c.in)
		assert.Equal(t, float32(1), out.W)
	}
	assert.Equal(t, NewVec4Create(1, 2, 3, 4), NewMat4Identity().MulVec4(NewVec4Create(1, 2, 3, 4)))
}
