package renderer

import "github.com/spaghettifunk/screenwipe/engine/renderer/metadata"

/**
 * @brief The operations a graphics backend offers to render passes.
 *
 * Resource creation is synchronous. Uniform sets and binding sets are
 * transient: they are only valid until the frame they were created in ends.
 * Transfer and graphics contexts are opened and closed once per frame by the
 * pass executor, transfer strictly before graphics.
 */
type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame() error
	EndFrame() error
	FrameNumber() uint64
	// The default render target, drawn to when a pass has no target of its own.
	Backbuffer() *metadata.RenderTarget

	PipelineCreate(desc *metadata.PipelineDesc) (*metadata.Pipeline, error)
	PipelineDestroy(pipeline *metadata.Pipeline)
	RenderBufferCreate(desc metadata.BufferDesc) (*metadata.RenderBuffer, error)
	RenderBufferDestroy(buffer *metadata.RenderBuffer)
	TextureCreate(desc metadata.TextureDesc) (*metadata.Texture, error)
	TextureDestroy(texture *metadata.Texture)
	RenderTargetCreate(name string, width, height uint32) (*metadata.RenderTarget, error)
	RenderTargetDestroy(target *metadata.RenderTarget)

	BeginTransfer() (*metadata.TransferContext, error)
	EndTransfer(ctx *metadata.TransferContext) error
	RenderBufferLoadRange(ctx *metadata.TransferContext, buffer *metadata.RenderBuffer, offset uint64, data []byte) error
	TextureWriteData(ctx *metadata.TransferContext, texture *metadata.Texture, pixels []uint8) error
	UniformSetCreate(ctx *metadata.TransferContext, pipeline *metadata.Pipeline, values []metadata.UniformValue) (*metadata.UniformSet, error)
	BindingSetCreate(ctx *metadata.TransferContext, pipeline *metadata.Pipeline, desc metadata.BindingSetDesc) (*metadata.BindingSet, error)

	BeginGraphics() (*metadata.GraphicsContext, error)
	EndGraphics(ctx *metadata.GraphicsContext) error
	RenderPassBegin(ctx *metadata.GraphicsContext, info metadata.RenderPassBeginInfo) error
	RenderPassEnd(ctx *metadata.GraphicsContext) error
	BindPipeline(ctx *metadata.GraphicsContext, pipeline *metadata.Pipeline) error
	SetViewport(ctx *metadata.GraphicsContext, viewport metadata.Viewport) error
	BindUniformSet(ctx *metadata.GraphicsContext, slot uint32, set *metadata.UniformSet) error
	BindBindingSet(ctx *metadata.GraphicsContext, set *metadata.BindingSet) error
	BindIndexBuffer(ctx *metadata.GraphicsContext, buffer *metadata.RenderBuffer) error
	DrawIndexed(ctx *metadata.GraphicsContext, indexCount, firstIndex uint32) error
}
