package passes

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

/** @brief Copies a texture over a whole render target. */
type BlitPass struct {
	backend renderer.RendererBackend
	name    string
	source  *metadata.Texture
	target  *metadata.RenderTarget
	clear   bool

	quad     quadResources
	uniforms *metadata.UniformSet
	bindings *metadata.BindingSet
}

// NewBlitPass draws source over target, the backbuffer when target is nil. Clear wipes the target first.
func NewBlitPass(backend renderer.RendererBackend, name string, source *metadata.Texture, target *metadata.RenderTarget, clear bool) *BlitPass {
	return &BlitPass{
		backend: backend,
		name:    name,
		source:  source,
		target:  target,
		clear:   clear,
		quad:    newQuadResources(name + ".quad"),
	}
}

func (bp *BlitPass) Name() string {
	return bp.name
}

// SetSource changes the copied texture. A nil source makes the pass draw nothing.
func (bp *BlitPass) SetSource(source *metadata.Texture) {
	bp.source = source
}

func (bp *BlitPass) Prepass() error {
	return bp.quad.ensure(bp.backend, quadPipelineDesc(bp.name, metadata.ProgramBlit,
		[]metadata.UniformDesc{{Name: metadata.UniformProjection, Type: metadata.ShaderUniformTypeMatrix4}},
		[]string{metadata.SamplerSource}))
}

func (bp *BlitPass) Transfer(ctx *metadata.TransferContext) error {
	if bp.source == nil {
		return nil
	}
	if err := bp.quad.upload(bp.backend, ctx); err != nil {
		return err
	}
	uniforms, err := bp.backend.UniformSetCreate(ctx, bp.quad.pipeline, []metadata.UniformValue{
		metadata.NewUniformMat4(metadata.UniformProjection, quadProjection()),
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform set: %w", err)
	}
	bindings, err := bp.backend.BindingSetCreate(ctx, bp.quad.pipeline, metadata.BindingSetDesc{
		VertexBuffers: []*metadata.RenderBuffer{bp.quad.vertexBuffer},
		Textures:      []metadata.TextureBinding{{Sampler: metadata.SamplerSource, Texture: bp.source}},
	})
	if err != nil {
		return fmt.Errorf("failed to create binding set: %w", err)
	}
	bp.uniforms = uniforms
	bp.bindings = bindings
	return nil
}

func (bp *BlitPass) Graphics(ctx *metadata.GraphicsContext) error {
	if bp.bindings == nil {
		return nil
	}
	info := metadata.RenderPassBeginInfo{Target: bp.target}
	if bp.clear {
		info.ClearFlags = metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG
		info.ClearColour = bp.quad.pipeline.Desc.ClearColour
	}
	width, height := targetSize(bp.backend, bp.target)
	return bp.quad.draw(bp.backend, ctx, info, metadata.Viewport{Width: width, Height: height}, bp.uniforms, bp.bindings)
}

func (bp *BlitPass) Postpass() error {
	bp.uniforms = nil
	bp.bindings = nil
	return nil
}

func (bp *BlitPass) Release() {
	bp.quad.release(bp.backend)
}
