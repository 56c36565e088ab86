package math

import (
	"encoding/binary"
	stdmath "math"
)

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec4Create(x, y, z, w float32) Vec4 {
	out_vector := Vec4{}
	out_vector.X = x
	out_vector.Y = y
	out_vector.Z = z
	out_vector.W = w
	return out_vector
}

/**
 * @brief Returns a new vec3 containing the x, y and z components of the
 * supplied vec4, essentially dropping the w component.
 */
func (v Vec4) ToVec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

// MulVec4 transforms v by the matrix.
func (mt Mat4) MulVec4(v Vec4) Vec4 {
	d := mt.Data
	return Vec4{
		X: d[0]*v.X + d[4]*v.Y + d[8]*v.Z + d[12]*v.W,
		Y: d[1]*v.X + d[5]*v.Y + d[9]*v.Z + d[13]*v.W,
		Z: d[2]*v.X + d[6]*v.Y + d[10]*v.Z + d[14]*v.W,
		W: d[3]*v.X + d[7]*v.Y + d[11]*v.Z + d[15]*v.W,
	}
}

/**
 * @brief Creates and returns an orthographic projection matrix. Typically used to
 * render flat or 2D scenes.
 */
func NewMat4Orthographic(left, right, bottom, top, near_clip, far_clip float32) Mat4 {
	out_matrix := NewMat4Identity()

	lr := 1.0 / (left - right)
	bt := 1.0 / (bottom - top)
	nf := 1.0 / (near_clip - far_clip)

	out_matrix.Data[0] = -2.0 * lr
	out_matrix.Data[5] = -2.0 * bt
	out_matrix.Data[10] = 2.0 * nf

	out_matrix.Data[12] = (left + right) * lr
	out_matrix.Data[13] = (top + bottom) * bt
	out_matrix.Data[14] = (far_clip + near_clip) * nf
	return out_matrix
}

// PackVertices2D packs vertices as position.xyz followed by texcoord.uv, little-endian float32.
func PackVertices2D(vertices []Vertex2D) []byte {
	out := make([]byte, 0, len(vertices)*int(Vertex2DSize))
	var scratch [4]byte
	put := func(f float32) {
		binary.LittleEndian.PutUint32(scratch[:], stdmath.Float32bits(f))
		out = append(out, scratch[:]...)
	}
	for _, v := range vertices {
		put(v.Position.X)
		put(v.Position.Y)
		put(v.Position.Z)
		put(v.Texcoord.X)
		put(v.Texcoord.Y)
	}
	return out
}

// UnpackVertices2D is the inverse of PackVertices2D. Trailing partial vertices are ignored.
func UnpackVertices2D(data []byte) []Vertex2D {
	count := len(data) / int(Vertex2DSize)
	out := make([]Vertex2D, count)
	get := func(off int) float32 {
		return stdmath.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := 0; i < count; i++ {
		base := i * int(Vertex2DSize)
		out[i] = Vertex2D{
			Position: Vec3{get(base), get(base + 4), get(base + 8)},
			Texcoord: Vec2{get(base + 12), get(base + 16)},
		}
	}
	return out
}

// PackIndices packs 16-bit indices little-endian.
func PackIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}

func UnpackIndices(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return out
}
