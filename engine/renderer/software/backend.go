package software

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/math"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

const bufferAlignment uint64 = 16

/** @brief Resource and command counters, cumulative since Initialize. */
type Stats struct {
	PipelinesCreated   uint64
	PipelinesDestroyed uint64
	BuffersCreated     uint64
	BuffersDestroyed   uint64
	TexturesCreated    uint64
	TexturesDestroyed  uint64
	TargetsCreated     uint64
	TargetsDestroyed   uint64
	BufferUploads      uint64
	TextureUploads     uint64
	UploadedBytes      uint64
	UniformSets        uint64
	BindingSets        uint64
	RenderPasses       uint64
	Draws              uint64
	Triangles          uint64
	FragmentsShaded    uint64
}

/** @brief A snapshot of the state a draw was issued with. */
type DrawRecord struct {
	FrameNumber uint64
	Program     metadata.ShaderProgram
	IndexCount  uint32
	Target      string
	Viewport    metadata.Viewport
	Samplers    map[string]SamplerInfo
	Uniforms    []metadata.UniformValue
}

type SamplerInfo struct {
	Name   string
	Format metadata.TextureFormat
	Width  uint32
	Height uint32
}

// Uniform returns the uniform with the given name from the record.
func (d DrawRecord) Uniform(name string) (metadata.UniformValue, bool) {
	for _, u := range d.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return metadata.UniformValue{}, false
}

type textureData struct {
	pixels []uint8
}

type bufferData struct {
	data []byte
}

type graphicsState struct {
	ctx         *metadata.GraphicsContext
	target      *metadata.RenderTarget
	inPass      bool
	pipeline    *metadata.Pipeline
	viewport    metadata.Viewport
	uniforms    map[uint32]*metadata.UniformSet
	bindings    *metadata.BindingSet
	indexBuffer *metadata.RenderBuffer
}

/**
 * @brief A CPU implementation of the renderer backend. It keeps every
 * resource in host memory, rasterizes indexed triangles and runs the
 * fragment programs registered for each shader program.
 */
type SoftwareRenderer struct {
	config      metadata.RendererBackendConfig
	initialized bool
	inFrame     bool
	frameNumber uint64

	pipelineIDs *core.IdentifierPool
	bufferIDs   *core.IdentifierPool
	textureIDs  *core.IdentifierPool
	targetIDs   *core.IdentifierPool
	setIDs      *core.IdentifierPool

	pipelines map[uint32]*metadata.Pipeline
	buffers   map[uint32]*bufferData
	textures  map[uint32]*textureData
	targets   map[uint32]*metadata.RenderTarget

	uniformSets []*metadata.UniformSet
	bindingSets []*metadata.BindingSet

	backbuffer *metadata.RenderTarget
	transfer   *metadata.TransferContext
	graphics   *graphicsState

	programs map[metadata.ShaderProgram]FragmentProgram

	stats    Stats
	lastDraw *DrawRecord
}

func New() *SoftwareRenderer {
	return &SoftwareRenderer{
		programs: defaultPrograms(),
	}
}

func (r *SoftwareRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if r.initialized {
		return fmt.Errorf("software renderer already initialized")
	}
	if config == nil || config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("software renderer requires a non-zero backbuffer size")
	}
	r.config = *config
	r.pipelineIDs = core.NewIdentifierPool(8)
	r.bufferIDs = core.NewIdentifierPool(16)
	r.textureIDs = core.NewIdentifierPool(16)
	r.targetIDs = core.NewIdentifierPool(4)
	r.setIDs = core.NewIdentifierPool(16)
	r.pipelines = make(map[uint32]*metadata.Pipeline)
	r.buffers = make(map[uint32]*bufferData)
	r.textures = make(map[uint32]*textureData)
	r.targets = make(map[uint32]*metadata.RenderTarget)
	r.stats = Stats{}
	r.lastDraw = nil
	r.frameNumber = 0
	r.initialized = true

	bb, err := r.RenderTargetCreate("backbuffer", config.Width, config.Height)
	if err != nil {
		return err
	}
	bb.IsDefault = true
	r.backbuffer = bb

	core.LogInfo("software renderer '%s' initialized with a %dx%d backbuffer", config.ApplicationName, config.Width, config.Height)
	return nil
}

func (r *SoftwareRenderer) Shutdown() error {
	if !r.initialized {
		return core.ErrBackendClosed
	}
	if r.backbuffer != nil {
		r.RenderTargetDestroy(r.backbuffer)
		r.backbuffer = nil
	}
	if live := len(r.textures) + len(r.buffers) + len(r.pipelines); live > 0 {
		core.LogWarn("software renderer shut down with %d live resources", live)
	}
	r.initialized = false
	return nil
}

func (r *SoftwareRenderer) Resized(width, height uint32) error {
	if !r.initialized {
		return core.ErrBackendClosed
	}
	if r.inFrame {
		return fmt.Errorf("software renderer cannot resize inside a frame")
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("software renderer cannot resize to %dx%d", width, height)
	}
	r.RenderTargetDestroy(r.backbuffer)
	bb, err := r.RenderTargetCreate("backbuffer", width, height)
	if err != nil {
		return err
	}
	bb.IsDefault = true
	r.backbuffer = bb
	r.config.Width = width
	r.config.Height = height
	return nil
}

func (r *SoftwareRenderer) BeginFrame() error {
	if !r.initialized {
		return core.ErrBackendClosed
	}
	if r.inFrame {
		return fmt.Errorf("software renderer frame %d already begun", r.frameNumber)
	}
	r.frameNumber++
	r.inFrame = true
	return nil
}

func (r *SoftwareRenderer) EndFrame() error {
	if !r.inFrame {
		return fmt.Errorf("software renderer EndFrame called outside a frame")
	}
	if r.transfer != nil || r.graphics != nil {
		return fmt.Errorf("software renderer frame %d ended with an open context", r.frameNumber)
	}
	// transient sets die with the frame
	for _, s := range r.uniformSets {
		_ = r.setIDs.Release(s.ID)
		s.InternalData = nil
	}
	for _, s := range r.bindingSets {
		_ = r.setIDs.Release(s.ID)
		s.InternalData = nil
	}
	r.uniformSets = r.uniformSets[:0]
	r.bindingSets = r.bindingSets[:0]
	r.inFrame = false
	return nil
}

func (r *SoftwareRenderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *SoftwareRenderer) Backbuffer() *metadata.RenderTarget {
	return r.backbuffer
}

func (r *SoftwareRenderer) Stats() Stats {
	return r.stats
}

// LiveTextures counts textures that were created and not yet destroyed.
func (r *SoftwareRenderer) LiveTextures() int {
	return len(r.textures)
}

func (r *SoftwareRenderer) LiveBuffers() int {
	return len(r.buffers)
}

func (r *SoftwareRenderer) LivePipelines() int {
	return len(r.pipelines)
}

// LastDraw returns the most recent draw, or nil when nothing was drawn yet.
func (r *SoftwareRenderer) LastDraw() *DrawRecord {
	return r.lastDraw
}

// RegisterProgram installs or replaces the fragment program used for a shader program.
func (r *SoftwareRenderer) RegisterProgram(program metadata.ShaderProgram, fn FragmentProgram) {
	r.programs[program] = fn
}

func (r *SoftwareRenderer) PipelineCreate(desc *metadata.PipelineDesc) (*metadata.Pipeline, error) {
	if !r.initialized {
		return nil, core.ErrBackendClosed
	}
	if desc == nil {
		return nil, fmt.Errorf("software renderer: nil pipeline descriptor: %w", core.ErrInvalidResource)
	}
	if _, ok := r.programs[desc.Program]; !ok {
		return nil, fmt.Errorf("software renderer: no fragment program '%s': %w", desc.Program, core.ErrInvalidResource)
	}
	if desc.Topology != metadata.PrimitiveTopologyTriangles {
		return nil, fmt.Errorf("software renderer: pipeline '%s' uses an unsupported topology %d", desc.Name, desc.Topology)
	}
	p := &metadata.Pipeline{Desc: *desc}
	p.ID = r.pipelineIDs.Acquire(p)
	r.pipelines[p.ID] = p
	r.stats.PipelinesCreated++
	core.LogDebug("pipeline '%s' (%s) created with id %d", desc.Name, desc.Program, p.ID)
	return p, nil
}

func (r *SoftwareRenderer) PipelineDestroy(pipeline *metadata.Pipeline) {
	if pipeline == nil || r.pipelines[pipeline.ID] != pipeline {
		return
	}
	delete(r.pipelines, pipeline.ID)
	_ = r.pipelineIDs.Release(pipeline.ID)
	pipeline.ID = metadata.InvalidID
	r.stats.PipelinesDestroyed++
}

func (r *SoftwareRenderer) RenderBufferCreate(desc metadata.BufferDesc) (*metadata.RenderBuffer, error) {
	if !r.initialized {
		return nil, core.ErrBackendClosed
	}
	if desc.TotalSize == 0 {
		return nil, fmt.Errorf("software renderer: buffer '%s' has zero size: %w", desc.Name, core.ErrInvalidResource)
	}
	// storage is padded to the alignment uniform buffers need on GPU backends
	data := &bufferData{data: make([]byte, metadata.GetAligned(desc.TotalSize, bufferAlignment))}
	b := &metadata.RenderBuffer{
		RenderBufferType: desc.RenderBufferType,
		TotalSize:        desc.TotalSize,
		InternalData:     data,
	}
	b.ID = r.bufferIDs.Acquire(b)
	r.buffers[b.ID] = data
	r.stats.BuffersCreated++
	return b, nil
}

func (r *SoftwareRenderer) RenderBufferDestroy(buffer *metadata.RenderBuffer) {
	if _, err := r.bufferData(buffer); err != nil {
		return
	}
	delete(r.buffers, buffer.ID)
	_ = r.bufferIDs.Release(buffer.ID)
	buffer.ID = metadata.InvalidID
	buffer.InternalData = nil
	r.stats.BuffersDestroyed++
}

func (r *SoftwareRenderer) TextureCreate(desc metadata.TextureDesc) (*metadata.Texture, error) {
	if !r.initialized {
		return nil, core.ErrBackendClosed
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("software renderer: texture '%s' has size %dx%d: %w", desc.Name, desc.Width, desc.Height, core.ErrInvalidResource)
	}
	name := desc.Name
	if name == "" {
		name = uuid.NewString()
	}
	t := &metadata.Texture{
		Name:    name,
		Format:  desc.Format,
		Width:   desc.Width,
		Height:  desc.Height,
		RepeatU: desc.RepeatU,
		RepeatV: desc.RepeatV,
		Filter:  desc.Filter,
	}
	data := &textureData{pixels: make([]uint8, t.Size())}
	t.InternalData = data
	t.ID = r.textureIDs.Acquire(t)
	r.textures[t.ID] = data
	r.stats.TexturesCreated++
	return t, nil
}

func (r *SoftwareRenderer) TextureDestroy(texture *metadata.Texture) {
	if _, err := r.textureData(texture); err != nil {
		return
	}
	delete(r.textures, texture.ID)
	_ = r.textureIDs.Release(texture.ID)
	texture.ID = metadata.InvalidID
	texture.InternalData = nil
	r.stats.TexturesDestroyed++
}

func (r *SoftwareRenderer) RenderTargetCreate(name string, width, height uint32) (*metadata.RenderTarget, error) {
	colour, err := r.TextureCreate(metadata.TextureDesc{
		Name:    name + ".colour",
		Format:  metadata.TextureFormatRGBA8,
		Width:   width,
		Height:  height,
		RepeatU: metadata.TextureRepeatClampToEdge,
		RepeatV: metadata.TextureRepeatClampToEdge,
	})
	if err != nil {
		return nil, err
	}
	t := &metadata.RenderTarget{
		Name:   name,
		Colour: colour,
		Width:  width,
		Height: height,
	}
	t.ID = r.targetIDs.Acquire(t)
	r.targets[t.ID] = t
	r.stats.TargetsCreated++
	return t, nil
}

func (r *SoftwareRenderer) RenderTargetDestroy(target *metadata.RenderTarget) {
	if target == nil || r.targets[target.ID] != target {
		return
	}
	r.TextureDestroy(target.Colour)
	delete(r.targets, target.ID)
	_ = r.targetIDs.Release(target.ID)
	target.ID = metadata.InvalidID
	target.Colour = nil
	r.stats.TargetsDestroyed++
}

// TexturePixels returns a copy of the texture contents.
func (r *SoftwareRenderer) TexturePixels(texture *metadata.Texture) ([]uint8, error) {
	data, err := r.textureData(texture)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(data.pixels))
	copy(out, data.pixels)
	return out, nil
}

func (r *SoftwareRenderer) textureData(texture *metadata.Texture) (*textureData, error) {
	if texture == nil {
		return nil, fmt.Errorf("software renderer: nil texture: %w", core.ErrInvalidResource)
	}
	data, ok := texture.InternalData.(*textureData)
	if !ok || r.textures[texture.ID] != data {
		return nil, fmt.Errorf("software renderer: texture '%s' is not live: %w", texture.Name, core.ErrInvalidResource)
	}
	return data, nil
}

func (r *SoftwareRenderer) bufferData(buffer *metadata.RenderBuffer) (*bufferData, error) {
	if buffer == nil {
		return nil, fmt.Errorf("software renderer: nil buffer: %w", core.ErrInvalidResource)
	}
	data, ok := buffer.InternalData.(*bufferData)
	if !ok || r.buffers[buffer.ID] != data {
		return nil, fmt.Errorf("software renderer: buffer %d is not live: %w", buffer.ID, core.ErrInvalidResource)
	}
	return data, nil
}

func (r *SoftwareRenderer) pipelineLive(pipeline *metadata.Pipeline) error {
	if pipeline == nil || r.pipelines[pipeline.ID] != pipeline {
		return fmt.Errorf("software renderer: pipeline is not live: %w", core.ErrInvalidResource)
	}
	return nil
}

// projectionOf returns the projection uniform bound for the draw, identity when none is bound.
func projectionOf(sets map[uint32]*metadata.UniformSet) math.Mat4 {
	for _, s := range sets {
		if v, ok := s.Lookup(metadata.UniformProjection); ok && v.Type == metadata.ShaderUniformTypeMatrix4 {
			return v.Mat4
		}
	}
	return math.NewMat4Identity()
}
