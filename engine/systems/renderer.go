package systems

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/renderer/passes"
)

// PixelReader is implemented by backends that can read a render target back to the host.
type PixelReader interface {
	ReadPixels(target *metadata.RenderTarget) (*image.RGBA, error)
}

/**
 * @brief Owns the backend and the pass executor, and times every frame.
 */
type RendererSystem struct {
	backend  renderer.RendererBackend
	executor *passes.Executor
	metrics  *core.Metrics
	clock    *core.Clock

	// application
	AppName   string
	AppWidth  uint32
	AppHeight uint32
}

func NewRendererSystem(kind renderer.RendererType, appName string, appWidth, appHeight uint32) (*RendererSystem, error) {
	backend, err := renderer.NewBackend(kind)
	if err != nil {
		return nil, err
	}
	return NewRendererSystemWithBackend(backend, appName, appWidth, appHeight), nil
}

func NewRendererSystemWithBackend(backend renderer.RendererBackend, appName string, appWidth, appHeight uint32) *RendererSystem {
	return &RendererSystem{
		backend:   backend,
		executor:  passes.NewExecutor(backend),
		metrics:   core.NewMetrics(),
		clock:     core.NewClock(),
		AppName:   appName,
		AppWidth:  appWidth,
		AppHeight: appHeight,
	}
}

func (r *RendererSystem) Initialize() error {
	return r.backend.Initialize(&metadata.RendererBackendConfig{
		ApplicationName: r.AppName,
		Width:           r.AppWidth,
		Height:          r.AppHeight,
	})
}

func (r *RendererSystem) Shutdown() error {
	r.executor.Release()
	return r.backend.Shutdown()
}

func (r *RendererSystem) Backend() renderer.RendererBackend {
	return r.backend
}

func (r *RendererSystem) Metrics() *core.Metrics {
	return r.metrics
}

// AddPass appends a pass to every following frame.
func (r *RendererSystem) AddPass(pass passes.Pass) error {
	return r.executor.Add(pass)
}

func (r *RendererSystem) OnResize(width, height uint32) error {
	if err := r.backend.Resized(width, height); err != nil {
		return err
	}
	r.AppWidth = width
	r.AppHeight = height
	core.LogInfo("renderer resized to %dx%d", width, height)
	return nil
}

/**
 * @brief Runs all passes for one frame and records its duration.
 */
func (r *RendererSystem) DrawFrame() error {
	r.clock.Start()
	err := r.executor.Execute()
	r.clock.Update()
	r.metrics.Update(r.clock.Elapsed())
	r.clock.Stop()
	if err != nil {
		return fmt.Errorf("frame %d failed: %w", r.backend.FrameNumber(), err)
	}
	return nil
}

// Upload runs fn inside a frame of its own with an open transfer context.
func (r *RendererSystem) Upload(fn func(ctx *metadata.TransferContext) error) error {
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	ctx, err := r.backend.BeginTransfer()
	if err != nil {
		_ = r.backend.EndFrame()
		return err
	}
	uploadErr := fn(ctx)
	if err := r.backend.EndTransfer(ctx); err != nil && uploadErr == nil {
		uploadErr = err
	}
	if err := r.backend.EndFrame(); err != nil && uploadErr == nil {
		uploadErr = err
	}
	return uploadErr
}

// CreateTexture creates a texture and uploads its pixels.
func (r *RendererSystem) CreateTexture(desc metadata.TextureDesc, pixels []uint8) (*metadata.Texture, error) {
	texture, err := r.backend.TextureCreate(desc)
	if err != nil {
		return nil, err
	}
	err = r.Upload(func(ctx *metadata.TransferContext) error {
		return r.backend.TextureWriteData(ctx, texture, pixels)
	})
	if err != nil {
		r.backend.TextureDestroy(texture)
		return nil, err
	}
	return texture, nil
}

func (r *RendererSystem) TextureDestroy(texture *metadata.Texture) {
	r.backend.TextureDestroy(texture)
}

func (r *RendererSystem) RenderTargetCreate(name string, width, height uint32) (*metadata.RenderTarget, error) {
	return r.backend.RenderTargetCreate(name, width, height)
}

func (r *RendererSystem) RenderTargetDestroy(target *metadata.RenderTarget) {
	r.backend.RenderTargetDestroy(target)
}

// ReadPixels reads a target back, the backbuffer when target is nil.
func (r *RendererSystem) ReadPixels(target *metadata.RenderTarget) (*image.RGBA, error) {
	reader, ok := r.backend.(PixelReader)
	if !ok {
		return nil, fmt.Errorf("renderer backend %T cannot read pixels back", r.backend)
	}
	return reader.ReadPixels(target)
}
