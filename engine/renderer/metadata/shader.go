package metadata

import "github.com/spaghettifunk/screenwipe/engine/math"

/** @brief The name of a shader program known to the backends. */
type ShaderProgram string

const (
	/** @brief Composites a start and end image through a mask, with a colour mode selector. */
	ProgramWipe ShaderProgram = "wipe"
	/** @brief Composites a single source image over the current render target through a mask. */
	ProgramWipeOverTarget ShaderProgram = "wipe_over_target"
	/** @brief Copies a texture to the render target. */
	ProgramBlit ShaderProgram = "blit"
)

type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageFragment ShaderStage = 0x00000010
)

/** @brief Available uniform types. */
type ShaderUniformType int

const (
	ShaderUniformTypeFloat32 ShaderUniformType = iota
	ShaderUniformTypeInt32
	ShaderUniformTypeMatrix4
	ShaderUniformTypeSampler
)

// Uniform and sampler names shared by the passes and the backends.
const (
	UniformProjection    = "projection"
	UniformColorMode     = "wipe_colorize_mode"
	UniformEncoreSwizzle = "wipe_encore_swizzle"
	SamplerStart         = "start"
	SamplerEnd           = "end"
	SamplerSource        = "source"
	SamplerMask          = "mask"
)

/** @brief Available vertex attribute types. */
type ShaderAttributeType int

const (
	ShaderAttribTypeFloat32_2 ShaderAttributeType = iota
	ShaderAttribTypeFloat32_3
	ShaderAttribTypeFloat32_4
)

/**
 * @brief Represents a single shader vertex attribute.
 */
type ShaderAttribute struct {
	/** @brief The attribute Name. */
	Name string
	/** @brief The attribute type. */
	Type ShaderAttributeType
	/** @brief The byte Offset of the attribute within a vertex. */
	Offset uint32
}

type VertexLayout struct {
	Stride     uint32
	Attributes []ShaderAttribute
}

/** @brief A uniform declared by a pipeline. */
type UniformDesc struct {
	Name string
	Type ShaderUniformType
}

/**
 * @brief Static description of a pipeline: program, vertex layout and fixed state.
 */
type PipelineDesc struct {
	Name         string
	Program      ShaderProgram
	Stages       []ShaderStage
	VertexLayout VertexLayout
	Uniforms     []UniformDesc
	Samplers     []string
	Topology     PrimitiveTopology
	CullMode     FaceCullMode
	Winding      FrontFace
	BlendEnabled bool
	ClearColour  math.Vec4
}

// HasUniform reports whether the pipeline declares a uniform with the given name.
func (d *PipelineDesc) HasUniform(name string) bool {
	for _, u := range d.Uniforms {
		if u.Name == name {
			return true
		}
	}
	return false
}

// HasSampler reports whether the pipeline declares a sampler with the given name.
func (d *PipelineDesc) HasSampler(name string) bool {
	for _, s := range d.Samplers {
		if s == name {
			return true
		}
	}
	return false
}

type Pipeline struct {
	ID           uint32
	Desc         PipelineDesc
	InternalData interface{}
}

/** @brief The value of a single uniform. Only the field matching Type is read. */
type UniformValue struct {
	Name  string
	Type  ShaderUniformType
	Float float32
	Int   int32
	Mat4  math.Mat4
}

func NewUniformMat4(name string, m math.Mat4) UniformValue {
	return UniformValue{Name: name, Type: ShaderUniformTypeMatrix4, Mat4: m}
}

func NewUniformInt32(name string, v int32) UniformValue {
	return UniformValue{Name: name, Type: ShaderUniformTypeInt32, Int: v}
}

/** @brief A set of uniform values, valid for the frame it was created in. */
type UniformSet struct {
	ID           uint32
	Values       []UniformValue
	InternalData interface{}
}

// Lookup returns the value with the given name.
func (u *UniformSet) Lookup(name string) (UniformValue, bool) {
	for _, v := range u.Values {
		if v.Name == name {
			return v, true
		}
	}
	return UniformValue{}, false
}

type TextureBinding struct {
	Sampler string
	Texture *Texture
}

type BindingSetDesc struct {
	VertexBuffers []*RenderBuffer
	Textures      []TextureBinding
}

/** @brief Joins buffers and textures for one draw call, valid for the frame it was created in. */
type BindingSet struct {
	ID           uint32
	Desc         BindingSetDesc
	InternalData interface{}
}

// Texture returns the texture bound to the given sampler.
func (b *BindingSet) Texture(sampler string) *Texture {
	for _, t := range b.Desc.Textures {
		if t.Sampler == sampler {
			return t.Texture
		}
	}
	return nil
}
