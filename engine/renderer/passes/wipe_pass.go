package passes

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
)

/**
 * @brief What a wipe pass composites. Either TwoScene or SceneOverTarget,
 * fixed when the pass is built.
 */
type CompositingMode interface {
	compositingMode()
}

/** @brief Blends a start scene into an end scene through the mask, with a colour mode. */
type TwoScene struct {
	Start *metadata.Texture
	End   *metadata.Texture
}

/** @brief Blends a source scene over whatever the render target already holds. */
type SceneOverTarget struct {
	Source *metadata.Texture
}

func (TwoScene) compositingMode()        {}
func (SceneOverTarget) compositingMode() {}

type WipePassConfig struct {
	Name     string
	Resolver *wipe.Resolver
	Source   wipe.ParameterSource
	Mode     CompositingMode
	// Off-screen target. Nil draws to the backbuffer.
	Target *metadata.RenderTarget
}

/**
 * @brief Draws a screen wipe: a full-screen quad sampling the scene
 * textures and a mask resolved from FADE lumps, rebuilt every frame.
 */
type WipePass struct {
	backend  renderer.RendererBackend
	name     string
	resolver *wipe.Resolver
	source   wipe.ParameterSource
	mode     CompositingMode
	target   *metadata.RenderTarget

	quad quadResources

	params      wipe.Parameters
	mask        *wipe.Mask
	maskTexture *metadata.Texture
	uniforms    *metadata.UniformSet
	bindings    *metadata.BindingSet
}

func NewWipePass(backend renderer.RendererBackend, config WipePassConfig) (*WipePass, error) {
	if backend == nil {
		return nil, fmt.Errorf("wipe pass requires a backend")
	}
	if config.Resolver == nil || config.Source == nil {
		return nil, fmt.Errorf("wipe pass '%s' requires a resolver and a parameter source", config.Name)
	}
	switch config.Mode.(type) {
	case TwoScene, SceneOverTarget:
	default:
		return nil, fmt.Errorf("wipe pass '%s' has an unknown compositing mode %T", config.Name, config.Mode)
	}
	name := config.Name
	if name == "" {
		name = "wipe"
	}
	return &WipePass{
		backend:  backend,
		name:     name,
		resolver: config.Resolver,
		source:   config.Source,
		mode:     config.Mode,
		target:   config.Target,
		quad:     newQuadResources(name + ".quad"),
	}, nil
}

func (wp *WipePass) Name() string {
	return wp.name
}

func (wp *WipePass) pipelineDesc() *metadata.PipelineDesc {
	projection := metadata.UniformDesc{Name: metadata.UniformProjection, Type: metadata.ShaderUniformTypeMatrix4}
	swizzle := metadata.UniformDesc{Name: metadata.UniformEncoreSwizzle, Type: metadata.ShaderUniformTypeInt32}
	if _, ok := wp.mode.(SceneOverTarget); ok {
		return quadPipelineDesc(wp.name, metadata.ProgramWipeOverTarget,
			[]metadata.UniformDesc{projection, swizzle},
			[]string{metadata.SamplerSource, metadata.SamplerMask})
	}
	colorMode := metadata.UniformDesc{Name: metadata.UniformColorMode, Type: metadata.ShaderUniformTypeInt32}
	return quadPipelineDesc(wp.name, metadata.ProgramWipe,
		[]metadata.UniformDesc{projection, colorMode, swizzle},
		[]string{metadata.SamplerStart, metadata.SamplerEnd, metadata.SamplerMask})
}

func (wp *WipePass) Prepass() error {
	if err := wp.quad.ensure(wp.backend, wp.pipelineDesc()); err != nil {
		return err
	}

	// a skipped postpass must not leak last frame's mask
	wp.dropMask()

	wp.params = wp.source.Current()
	mask, ok := wp.resolver.ResolveParameters(wp.params)
	if !ok {
		return nil
	}

	texture, err := wp.backend.TextureCreate(metadata.TextureDesc{
		Name:    fmt.Sprintf("%s.%s.%s", wp.name, mask.Name, uuid.NewString()),
		Format:  metadata.TextureFormatLuminance8,
		Width:   mask.Width,
		Height:  mask.Height,
		RepeatU: metadata.TextureRepeatClampToEdge,
		RepeatV: metadata.TextureRepeatClampToEdge,
		Filter:  metadata.TextureFilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("failed to create mask texture for '%s': %w", mask.Name, err)
	}
	wp.mask = mask
	wp.maskTexture = texture
	return nil
}

// sourcesReady reports whether every scene texture the mode needs is set.
func (wp *WipePass) sourcesReady() bool {
	switch m := wp.mode.(type) {
	case TwoScene:
		return m.Start != nil && m.End != nil
	case SceneOverTarget:
		return m.Source != nil
	}
	return false
}

func (wp *WipePass) textureBindings() []metadata.TextureBinding {
	mask := metadata.TextureBinding{Sampler: metadata.SamplerMask, Texture: wp.maskTexture}
	switch m := wp.mode.(type) {
	case TwoScene:
		return []metadata.TextureBinding{
			{Sampler: metadata.SamplerStart, Texture: m.Start},
			{Sampler: metadata.SamplerEnd, Texture: m.End},
			mask,
		}
	case SceneOverTarget:
		return []metadata.TextureBinding{{Sampler: metadata.SamplerSource, Texture: m.Source}, mask}
	}
	return nil
}

func (wp *WipePass) uniformValues() []metadata.UniformValue {
	swizzle := int32(0)
	if wp.params.EncoreSwizzle {
		swizzle = 1
	}
	values := []metadata.UniformValue{
		metadata.NewUniformMat4(metadata.UniformProjection, quadProjection()),
		metadata.NewUniformInt32(metadata.UniformEncoreSwizzle, swizzle),
	}
	if _, ok := wp.mode.(TwoScene); ok {
		values = append(values, metadata.NewUniformInt32(metadata.UniformColorMode, int32(wp.params.ColorMode())))
	}
	return values
}

func (wp *WipePass) Transfer(ctx *metadata.TransferContext) error {
	if wp.mask == nil || !wp.sourcesReady() {
		return nil
	}
	if err := wp.quad.upload(wp.backend, ctx); err != nil {
		return err
	}
	if err := wp.backend.TextureWriteData(ctx, wp.maskTexture, wp.mask.Data); err != nil {
		return fmt.Errorf("failed to upload mask '%s': %w", wp.mask.Name, err)
	}

	uniforms, err := wp.backend.UniformSetCreate(ctx, wp.quad.pipeline, wp.uniformValues())
	if err != nil {
		return fmt.Errorf("failed to create uniform set: %w", err)
	}
	bindings, err := wp.backend.BindingSetCreate(ctx, wp.quad.pipeline, metadata.BindingSetDesc{
		VertexBuffers: []*metadata.RenderBuffer{wp.quad.vertexBuffer},
		Textures:      wp.textureBindings(),
	})
	if err != nil {
		return fmt.Errorf("failed to create binding set: %w", err)
	}
	wp.uniforms = uniforms
	wp.bindings = bindings
	return nil
}

func (wp *WipePass) viewport() metadata.Viewport {
	width, height := targetSize(wp.backend, wp.target)
	if _, ok := wp.mode.(SceneOverTarget); ok && wp.params.Width > 0 && wp.params.Height > 0 {
		width, height = wp.params.Width, wp.params.Height
	}
	return metadata.Viewport{Width: width, Height: height}
}

func (wp *WipePass) Graphics(ctx *metadata.GraphicsContext) error {
	if wp.mask == nil || wp.bindings == nil {
		return nil
	}
	info := metadata.RenderPassBeginInfo{Target: wp.target}
	if err := wp.quad.draw(wp.backend, ctx, info, wp.viewport(), wp.uniforms, wp.bindings); err != nil {
		return fmt.Errorf("failed to draw mask '%s': %w", wp.mask.Name, err)
	}
	core.LogDebug("%s: drew %s", wp.name, wp.params)
	return nil
}

func (wp *WipePass) Postpass() error {
	wp.dropMask()
	return nil
}

func (wp *WipePass) dropMask() {
	if wp.maskTexture != nil {
		wp.backend.TextureDestroy(wp.maskTexture)
		wp.maskTexture = nil
	}
	if wp.mask != nil {
		wp.mask.Clear()
		wp.mask = nil
	}
	// transient sets belong to the backend frame
	wp.uniforms = nil
	wp.bindings = nil
}

// Release destroys the pipeline and the quad buffers.
func (wp *WipePass) Release() {
	wp.dropMask()
	wp.quad.release(wp.backend)
}

// Parameters returns the snapshot read by the last prepass.
func (wp *WipePass) Parameters() wipe.Parameters {
	return wp.params
}

// Mask returns the mask resolved this frame, nil outside prepass..postpass or when unavailable.
func (wp *WipePass) Mask() *wipe.Mask {
	return wp.mask
}

func (wp *WipePass) MaskTexture() *metadata.Texture {
	return wp.maskTexture
}

func (wp *WipePass) Mode() CompositingMode {
	return wp.mode
}

func (wp *WipePass) Target() *metadata.RenderTarget {
	return wp.target
}
