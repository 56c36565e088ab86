package software

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/math"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

func (r *SoftwareRenderer) BeginTransfer() (*metadata.TransferContext, error) {
	if !r.inFrame {
		return nil, fmt.Errorf("software renderer: transfer outside a frame")
	}
	if r.transfer != nil || r.graphics != nil {
		return nil, fmt.Errorf("software renderer: another context is already open")
	}
	r.transfer = &metadata.TransferContext{FrameNumber: r.frameNumber}
	return r.transfer, nil
}

func (r *SoftwareRenderer) EndTransfer(ctx *metadata.TransferContext) error {
	if err := r.checkTransfer(ctx); err != nil {
		return err
	}
	r.transfer = nil
	return nil
}

func (r *SoftwareRenderer) checkTransfer(ctx *metadata.TransferContext) error {
	if ctx == nil || ctx != r.transfer {
		return fmt.Errorf("software renderer: transfer context is not open")
	}
	return nil
}

func (r *SoftwareRenderer) RenderBufferLoadRange(ctx *metadata.TransferContext, buffer *metadata.RenderBuffer, offset uint64, data []byte) error {
	if err := r.checkTransfer(ctx); err != nil {
		return err
	}
	b, err := r.bufferData(buffer)
	if err != nil {
		return err
	}
	if offset+uint64(len(data)) > buffer.TotalSize {
		return fmt.Errorf("software renderer: upload of %d bytes at %d overflows buffer of %d bytes: %w", len(data), offset, buffer.TotalSize, core.ErrInvalidResource)
	}
	copy(b.data[offset:], data)
	r.stats.BufferUploads++
	r.stats.UploadedBytes += uint64(len(data))
	return nil
}

func (r *SoftwareRenderer) TextureWriteData(ctx *metadata.TransferContext, texture *metadata.Texture, pixels []uint8) error {
	if err := r.checkTransfer(ctx); err != nil {
		return err
	}
	t, err := r.textureData(texture)
	if err != nil {
		return err
	}
	if uint64(len(pixels)) != texture.Size() {
		return fmt.Errorf("software renderer: texture '%s' expects %d bytes, got %d: %w", texture.Name, texture.Size(), len(pixels), core.ErrInvalidResource)
	}
	copy(t.pixels, pixels)
	texture.Generation++
	r.stats.TextureUploads++
	r.stats.UploadedBytes += uint64(len(pixels))
	return nil
}

func (r *SoftwareRenderer) UniformSetCreate(ctx *metadata.TransferContext, pipeline *metadata.Pipeline, values []metadata.UniformValue) (*metadata.UniformSet, error) {
	if err := r.checkTransfer(ctx); err != nil {
		return nil, err
	}
	if err := r.pipelineLive(pipeline); err != nil {
		return nil, err
	}
	for _, v := range values {
		if !pipeline.Desc.HasUniform(v.Name) {
			return nil, fmt.Errorf("software renderer: pipeline '%s' has no uniform '%s': %w", pipeline.Desc.Name, v.Name, core.ErrInvalidResource)
		}
	}
	set := &metadata.UniformSet{
		Values:       append([]metadata.UniformValue(nil), values...),
		InternalData: pipeline,
	}
	set.ID = r.setIDs.Acquire(set)
	r.uniformSets = append(r.uniformSets, set)
	r.stats.UniformSets++
	return set, nil
}

func (r *SoftwareRenderer) BindingSetCreate(ctx *metadata.TransferContext, pipeline *metadata.Pipeline, desc metadata.BindingSetDesc) (*metadata.BindingSet, error) {
	if err := r.checkTransfer(ctx); err != nil {
		return nil, err
	}
	if err := r.pipelineLive(pipeline); err != nil {
		return nil, err
	}
	for _, vb := range desc.VertexBuffers {
		if _, err := r.bufferData(vb); err != nil {
			return nil, err
		}
	}
	for _, tb := range desc.Textures {
		if !pipeline.Desc.HasSampler(tb.Sampler) {
			return nil, fmt.Errorf("software renderer: pipeline '%s' has no sampler '%s': %w", pipeline.Desc.Name, tb.Sampler, core.ErrInvalidResource)
		}
		if _, err := r.textureData(tb.Texture); err != nil {
			return nil, err
		}
	}
	set := &metadata.BindingSet{
		Desc:         desc,
		InternalData: pipeline,
	}
	set.ID = r.setIDs.Acquire(set)
	r.bindingSets = append(r.bindingSets, set)
	r.stats.BindingSets++
	return set, nil
}

func (r *SoftwareRenderer) BeginGraphics() (*metadata.GraphicsContext, error) {
	if !r.inFrame {
		return nil, fmt.Errorf("software renderer: graphics outside a frame")
	}
	if r.transfer != nil || r.graphics != nil {
		return nil, fmt.Errorf("software renderer: another context is already open")
	}
	ctx := &metadata.GraphicsContext{FrameNumber: r.frameNumber}
	r.graphics = &graphicsState{ctx: ctx}
	return ctx, nil
}

func (r *SoftwareRenderer) EndGraphics(ctx *metadata.GraphicsContext) error {
	g, err := r.checkGraphics(ctx)
	if err != nil {
		return err
	}
	if g.inPass {
		return fmt.Errorf("software renderer: graphics ended inside a render pass")
	}
	r.graphics = nil
	return nil
}

func (r *SoftwareRenderer) checkGraphics(ctx *metadata.GraphicsContext) (*graphicsState, error) {
	if ctx == nil || r.graphics == nil || r.graphics.ctx != ctx {
		return nil, fmt.Errorf("software renderer: graphics context is not open")
	}
	return r.graphics, nil
}

func (r *SoftwareRenderer) checkPass(ctx *metadata.GraphicsContext) (*graphicsState, error) {
	g, err := r.checkGraphics(ctx)
	if err != nil {
		return nil, err
	}
	if !g.inPass {
		return nil, fmt.Errorf("software renderer: no render pass is active")
	}
	return g, nil
}

func (r *SoftwareRenderer) RenderPassBegin(ctx *metadata.GraphicsContext, info metadata.RenderPassBeginInfo) error {
	g, err := r.checkGraphics(ctx)
	if err != nil {
		return err
	}
	if g.inPass {
		return fmt.Errorf("software renderer: render pass already active")
	}
	target := info.Target
	if target == nil {
		target = r.backbuffer
	}
	if r.targets[target.ID] != target {
		return fmt.Errorf("software renderer: render target '%s' is not live: %w", target.Name, core.ErrInvalidResource)
	}
	if info.ClearFlags&metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG != 0 {
		fillRGBA(r.textures[target.Colour.ID].pixels, toRGBA(info.ClearColour))
	}
	g.target = target
	g.inPass = true
	g.pipeline = nil
	g.bindings = nil
	g.indexBuffer = nil
	g.uniforms = make(map[uint32]*metadata.UniformSet)
	g.viewport = metadata.Viewport{Width: target.Width, Height: target.Height}
	r.stats.RenderPasses++
	return nil
}

func (r *SoftwareRenderer) RenderPassEnd(ctx *metadata.GraphicsContext) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	g.inPass = false
	g.target = nil
	return nil
}

func (r *SoftwareRenderer) BindPipeline(ctx *metadata.GraphicsContext, pipeline *metadata.Pipeline) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if err := r.pipelineLive(pipeline); err != nil {
		return err
	}
	g.pipeline = pipeline
	return nil
}

func (r *SoftwareRenderer) SetViewport(ctx *metadata.GraphicsContext, viewport metadata.Viewport) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if viewport.Width == 0 || viewport.Height == 0 {
		return fmt.Errorf("software renderer: empty viewport %dx%d", viewport.Width, viewport.Height)
	}
	g.viewport = viewport
	return nil
}

func (r *SoftwareRenderer) BindUniformSet(ctx *metadata.GraphicsContext, slot uint32, set *metadata.UniformSet) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if set == nil || set.InternalData == nil {
		return fmt.Errorf("software renderer: uniform set is not live: %w", core.ErrInvalidResource)
	}
	g.uniforms[slot] = set
	return nil
}

func (r *SoftwareRenderer) BindBindingSet(ctx *metadata.GraphicsContext, set *metadata.BindingSet) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if set == nil || set.InternalData == nil {
		return fmt.Errorf("software renderer: binding set is not live: %w", core.ErrInvalidResource)
	}
	g.bindings = set
	return nil
}

func (r *SoftwareRenderer) BindIndexBuffer(ctx *metadata.GraphicsContext, buffer *metadata.RenderBuffer) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if _, err := r.bufferData(buffer); err != nil {
		return err
	}
	if buffer.RenderBufferType != metadata.RENDERBUFFER_TYPE_INDEX {
		return fmt.Errorf("software renderer: buffer %d is not an index buffer: %w", buffer.ID, core.ErrInvalidResource)
	}
	g.indexBuffer = buffer
	return nil
}

func (r *SoftwareRenderer) DrawIndexed(ctx *metadata.GraphicsContext, indexCount, firstIndex uint32) error {
	g, err := r.checkPass(ctx)
	if err != nil {
		return err
	}
	if g.pipeline == nil || g.bindings == nil || g.indexBuffer == nil {
		return fmt.Errorf("software renderer: draw without pipeline, bindings and index buffer bound")
	}
	if err := r.pipelineLive(g.pipeline); err != nil {
		return err
	}
	program := r.programs[g.pipeline.Desc.Program]

	ib, err := r.bufferData(g.indexBuffer)
	if err != nil {
		return err
	}
	indices := math.UnpackIndices(ib.data[:g.indexBuffer.TotalSize])
	if uint64(firstIndex)+uint64(indexCount) > uint64(len(indices)) {
		return fmt.Errorf("software renderer: draw of %d indices from %d overflows %d indices", indexCount, firstIndex, len(indices))
	}
	if len(g.bindings.Desc.VertexBuffers) == 0 {
		return fmt.Errorf("software renderer: no vertex buffer bound")
	}
	vb, err := r.bufferData(g.bindings.Desc.VertexBuffers[0])
	if err != nil {
		return err
	}
	vertices := math.UnpackVertices2D(vb.data[:g.bindings.Desc.VertexBuffers[0].TotalSize])

	env := &FragmentEnv{
		samplers: make(map[string]*sampler, len(g.bindings.Desc.Textures)),
		uniforms: make(map[string]metadata.UniformValue),
	}
	record := &DrawRecord{
		FrameNumber: r.frameNumber,
		Program:     g.pipeline.Desc.Program,
		IndexCount:  indexCount,
		Target:      g.target.Name,
		Viewport:    g.viewport,
		Samplers:    make(map[string]SamplerInfo, len(g.bindings.Desc.Textures)),
	}
	for _, tb := range g.bindings.Desc.Textures {
		data, err := r.textureData(tb.Texture)
		if err != nil {
			return err
		}
		env.samplers[tb.Sampler] = &sampler{texture: tb.Texture, pixels: data.pixels}
		record.Samplers[tb.Sampler] = SamplerInfo{
			Name:   tb.Texture.Name,
			Format: tb.Texture.Format,
			Width:  tb.Texture.Width,
			Height: tb.Texture.Height,
		}
	}
	for _, set := range g.uniforms {
		for _, v := range set.Values {
			env.uniforms[v.Name] = v
			record.Uniforms = append(record.Uniforms, v)
		}
	}

	dst := &surface{
		pixels: r.textures[g.target.Colour.ID].pixels,
		width:  g.target.Width,
		height: g.target.Height,
	}
	projection := projectionOf(g.uniforms)
	for i := uint32(0); i+2 < indexCount; i += 3 {
		var tri [3]screenVertex
		for k := uint32(0); k < 3; k++ {
			idx := indices[firstIndex+i+k]
			if int(idx) >= len(vertices) {
				return fmt.Errorf("software renderer: index %d out of %d vertices", idx, len(vertices))
			}
			tri[k] = project(projection, g.viewport, vertices[idx])
		}
		r.stats.FragmentsShaded += dst.rasterize(g.viewport, tri, env, program)
		r.stats.Triangles++
	}
	r.stats.Draws++
	r.lastDraw = record
	return nil
}
