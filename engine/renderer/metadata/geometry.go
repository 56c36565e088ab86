package metadata

import (
	"github.com/spaghettifunk/screenwipe/engine/math"
)

/**
 * @brief Represents the configuration for a screen-space geometry.
 */
type GeometryConfig struct {
	/** @brief The Name of the geometry. */
	Name string
	/** @brief An array of Vertices. */
	Vertices []math.Vertex2D
	/** @brief An array of Indices. */
	Indices []uint16
}

func (g *GeometryConfig) VertexBytes() []byte {
	return math.PackVertices2D(g.Vertices)
}

func (g *GeometryConfig) IndexBytes() []byte {
	return math.PackIndices(g.Indices)
}

/**
 * @brief A unit quad centred on the origin, two triangles, texture
 * coordinates spanning [0, 1] with v growing downwards.
 */
func NewQuadGeometryConfig(name string) *GeometryConfig {
	return &GeometryConfig{
		Name: name,
		Vertices: []math.Vertex2D{
			{Position: math.NewVec3(-0.5, -0.5, 0.0), Texcoord: math.NewVec2(0.0, 0.0)},
			{Position: math.NewVec3(0.5, -0.5, 0.0), Texcoord: math.NewVec2(1.0, 0.0)},
			{Position: math.NewVec3(-0.5, 0.5, 0.0), Texcoord: math.NewVec2(0.0, 1.0)},
			{Position: math.NewVec3(0.5, 0.5, 0.0), Texcoord: math.NewVec2(1.0, 1.0)},
		},
		Indices: []uint16{0, 1, 2, 1, 3, 2},
	}
}

// QuadVertexLayout describes Vertex2D as packed by math.PackVertices2D.
func QuadVertexLayout() VertexLayout {
	return VertexLayout{
		Stride: math.Vertex2DSize,
		Attributes: []ShaderAttribute{
			{Name: "in_position", Type: ShaderAttribTypeFloat32_3, Offset: 0},
			{Name: "in_texcoord", Type: ShaderAttribTypeFloat32_2, Offset: 12},
		},
	}
}
