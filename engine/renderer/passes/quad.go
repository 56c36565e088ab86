package passes

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/math"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

type resourceState uint8

const (
	resourceUncreated resourceState = iota
	resourceCreated
)

// quadProjection maps the unit quad onto the whole viewport. bottom > top flips y so v grows downwards.
func quadProjection() math.Mat4 {
	return math.NewMat4Orthographic(-0.5, 0.5, 0.5, -0.5, -1, 1)
}

/**
 * @brief The pass-lifetime resources of a full-screen quad draw: a
 * pipeline plus static vertex and index buffers, each uploaded once.
 */
type quadResources struct {
	geometry *metadata.GeometryConfig

	pipeline      *metadata.Pipeline
	pipelineState resourceState

	vertexBuffer      *metadata.RenderBuffer
	vertexState       resourceState
	vertexNeedsUpload bool

	indexBuffer      *metadata.RenderBuffer
	indexState       resourceState
	indexNeedsUpload bool
}

func newQuadResources(name string) quadResources {
	return quadResources{geometry: metadata.NewQuadGeometryConfig(name)}
}

// ensure creates whatever does not exist yet. Created resources are never recreated.
func (q *quadResources) ensure(backend renderer.RendererBackend, desc *metadata.PipelineDesc) error {
	if q.pipelineState == resourceUncreated {
		p, err := backend.PipelineCreate(desc)
		if err != nil {
			return fmt.Errorf("failed to create pipeline '%s': %w", desc.Name, err)
		}
		q.pipeline = p
		q.pipelineState = resourceCreated
	}

	if q.vertexState == resourceUncreated {
		vertices := q.geometry.VertexBytes()
		vb, err := backend.RenderBufferCreate(metadata.BufferDesc{
			Name:             q.geometry.Name + ".vertices",
			RenderBufferType: metadata.RENDERBUFFER_TYPE_VERTEX,
			TotalSize:        uint64(len(vertices)),
		})
		if err != nil {
			return fmt.Errorf("failed to create vertex buffer for '%s': %w", q.geometry.Name, err)
		}
		q.vertexBuffer = vb
		q.vertexState = resourceCreated
		q.vertexNeedsUpload = true
	}

	if q.indexState == resourceUncreated {
		indices := q.geometry.IndexBytes()
		ib, err := backend.RenderBufferCreate(metadata.BufferDesc{
			Name:             q.geometry.Name + ".indices",
			RenderBufferType: metadata.RENDERBUFFER_TYPE_INDEX,
			TotalSize:        uint64(len(indices)),
		})
		if err != nil {
			return fmt.Errorf("failed to create index buffer for '%s': %w", q.geometry.Name, err)
		}
		q.indexBuffer = ib
		q.indexState = resourceCreated
		q.indexNeedsUpload = true
	}
	return nil
}

// upload consumes the one-shot upload flags.
func (q *quadResources) upload(backend renderer.RendererBackend, ctx *metadata.TransferContext) error {
	if q.vertexNeedsUpload {
		if err := backend.RenderBufferLoadRange(ctx, q.vertexBuffer, 0, q.geometry.VertexBytes()); err != nil {
			return fmt.Errorf("failed to upload vertices for '%s': %w", q.geometry.Name, err)
		}
		q.vertexNeedsUpload = false
	}
	if q.indexNeedsUpload {
		if err := backend.RenderBufferLoadRange(ctx, q.indexBuffer, 0, q.geometry.IndexBytes()); err != nil {
			return fmt.Errorf("failed to upload indices for '%s': %w", q.geometry.Name, err)
		}
		q.indexNeedsUpload = false
	}
	return nil
}

func (q *quadResources) indexCount() uint32 {
	return uint32(len(q.geometry.Indices))
}

func (q *quadResources) release(backend renderer.RendererBackend) {
	if q.pipelineState == resourceCreated {
		backend.PipelineDestroy(q.pipeline)
		q.pipeline = nil
		q.pipelineState = resourceUncreated
	}
	if q.vertexState == resourceCreated {
		backend.RenderBufferDestroy(q.vertexBuffer)
		q.vertexBuffer = nil
		q.vertexState = resourceUncreated
		q.vertexNeedsUpload = false
	}
	if q.indexState == resourceCreated {
		backend.RenderBufferDestroy(q.indexBuffer)
		q.indexBuffer = nil
		q.indexState = resourceUncreated
		q.indexNeedsUpload = false
	}
}

// draw records one indexed draw of the quad inside its own render pass.
func (q *quadResources) draw(backend renderer.RendererBackend, ctx *metadata.GraphicsContext, info metadata.RenderPassBeginInfo, viewport metadata.Viewport, uniforms *metadata.UniformSet, bindings *metadata.BindingSet) error {
	if err := backend.RenderPassBegin(ctx, info); err != nil {
		return err
	}
	err := q.record(backend, ctx, viewport, uniforms, bindings)
	if endErr := backend.RenderPassEnd(ctx); err == nil {
		err = endErr
	}
	return err
}

func (q *quadResources) record(backend renderer.RendererBackend, ctx *metadata.GraphicsContext, viewport metadata.Viewport, uniforms *metadata.UniformSet, bindings *metadata.BindingSet) error {
	if err := backend.BindPipeline(ctx, q.pipeline); err != nil {
		return err
	}
	if err := backend.SetViewport(ctx, viewport); err != nil {
		return err
	}
	if err := backend.BindUniformSet(ctx, 0, uniforms); err != nil {
		return err
	}
	if err := backend.BindBindingSet(ctx, bindings); err != nil {
		return err
	}
	if err := backend.BindIndexBuffer(ctx, q.indexBuffer); err != nil {
		return err
	}
	return backend.DrawIndexed(ctx, q.indexCount(), 0)
}

func quadPipelineDesc(name string, program metadata.ShaderProgram, uniforms []metadata.UniformDesc, samplers []string) *metadata.PipelineDesc {
	return &metadata.PipelineDesc{
		Name:         name,
		Program:      program,
		Stages:       []metadata.ShaderStage{metadata.ShaderStageVertex, metadata.ShaderStageFragment},
		VertexLayout: metadata.QuadVertexLayout(),
		Uniforms:     uniforms,
		Samplers:     samplers,
		Topology:     metadata.PrimitiveTopologyTriangles,
		CullMode:     metadata.FaceCullModeNone,
		Winding:      metadata.FrontFaceCounterClockwise,
		BlendEnabled: false,
		ClearColour:  math.NewVec4Create(0, 0, 0, 1),
	}
}

func targetSize(backend renderer.RendererBackend, target *metadata.RenderTarget) (uint32, uint32) {
	if target == nil {
		target = backend.Backbuffer()
	}
	if target == nil {
		return 0, 0
	}
	return target.Width, target.Height
}
