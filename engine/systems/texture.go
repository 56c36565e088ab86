package systems

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/screenwipe/engine/assets/loaders"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

type textureReference struct {
	texture        *metadata.Texture
	referenceCount uint64
}

/**
 * @brief Loads scene images, scales them to the output size and keeps
 * them resident on the backend, reference counted by name.
 */
type TextureSystem struct {
	Config *TextureSystemConfig
	// Hashtable for texture lookups.
	RegisteredTextureTable map[string]*textureReference
	// sub systems
	jobSystem      *JobSystem
	resourceSystem *ResourceSystem
	renderer       *RendererSystem
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem, rs *ResourceSystem, r *RendererSystem) (*TextureSystem, error) {
	if config == nil || config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:                 config,
		RegisteredTextureTable: make(map[string]*textureReference),
		jobSystem:              js,
		resourceSystem:         rs,
		renderer:               r,
	}, nil
}

func (ts *TextureSystem) Shutdown() error {
	for name, ref := range ts.RegisteredTextureTable {
		ts.renderer.TextureDestroy(ref.texture)
		delete(ts.RegisteredTextureTable, name)
	}
	return nil
}

func (ts *TextureSystem) Get(name string) (*metadata.Texture, bool) {
	ref, ok := ts.RegisteredTextureTable[name]
	if !ok {
		return nil, false
	}
	return ref.texture, true
}

// acquireExisting increments the reference count of a loaded texture.
func (ts *TextureSystem) acquireExisting(name string) (*metadata.Texture, bool) {
	ref, ok := ts.RegisteredTextureTable[name]
	if !ok {
		return nil, false
	}
	ref.referenceCount++
	return ref.texture, true
}

func (ts *TextureSystem) register(name string, data *metadata.ImageResourceData) (*metadata.Texture, error) {
	if uint32(len(ts.RegisteredTextureTable)) >= ts.Config.MaxTextureCount {
		return nil, fmt.Errorf("texture system is full (%d textures)", ts.Config.MaxTextureCount)
	}
	texture, err := ts.renderer.CreateTexture(metadata.TextureDesc{
		Name:    name,
		Format:  metadata.TextureFormatRGBA8,
		Width:   data.Width,
		Height:  data.Height,
		RepeatU: metadata.TextureRepeatClampToEdge,
		RepeatV: metadata.TextureRepeatClampToEdge,
		Filter:  metadata.TextureFilterModeLinear,
	}, data.Pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to upload texture '%s': %w", name, err)
	}
	ts.RegisteredTextureTable[name] = &textureReference{texture: texture, referenceCount: 1}
	core.LogDebug("texture '%s' (%dx%d) loaded", name, data.Width, data.Height)
	return texture, nil
}

/**
 * @brief Loads the named image through the resource system, scales it to
 * width x height and uploads it. A texture already loaded under that name
 * is returned with its reference count incremented.
 */
func (ts *TextureSystem) Acquire(name string, width, height uint32) (*metadata.Texture, error) {
	if texture, ok := ts.acquireExisting(name); ok {
		return texture, nil
	}
	data, err := ts.decode(name, width, height)
	if err != nil {
		return nil, err
	}
	return ts.register(name, data)
}

func (ts *TextureSystem) decode(name string, width, height uint32) (*metadata.ImageResourceData, error) {
	resource, err := ts.resourceSystem.Load(name, metadata.ResourceTypeImage)
	if err != nil {
		return nil, err
	}
	data, ok := resource.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("resource '%s' is not an image", name)
	}
	scaled := loaders.ResizeRGBA(data, width, height)
	if err := ts.resourceSystem.Unload(resource); err != nil {
		core.LogWarn("failed to unload '%s': %s", name, err)
	}
	return scaled, nil
}

// AcquireAll decodes the named images on the job system, then uploads them in order.
func (ts *TextureSystem) AcquireAll(names []string, width, height uint32) ([]*metadata.Texture, error) {
	decoded := make([]*metadata.ImageResourceData, len(names))
	var tasks []JobTask
	for i, name := range names {
		if _, ok := ts.RegisteredTextureTable[name]; ok {
			continue
		}
		tasks = append(tasks, JobTask{
			Name: "decode " + name,
			Run: func() error {
				data, err := ts.decode(name, width, height)
				decoded[i] = data
				return err
			},
		})
	}
	if err := ts.jobSystem.RunAll(tasks...); err != nil {
		return nil, err
	}

	textures := make([]*metadata.Texture, len(names))
	for i, name := range names {
		if texture, ok := ts.acquireExisting(name); ok {
			textures[i] = texture
			continue
		}
		texture, err := ts.register(name, decoded[i])
		if err != nil {
			return nil, err
		}
		textures[i] = texture
	}
	return textures, nil
}

// Register uploads an in-memory image under name, scaled to width x height.
func (ts *TextureSystem) Register(name string, img image.Image, width, height uint32) (*metadata.Texture, error) {
	if texture, ok := ts.acquireExisting(name); ok {
		return texture, nil
	}
	return ts.register(name, loaders.ResizeRGBA(loaders.DecodeRGBA(img, false), width, height))
}

// Release drops one reference. The texture is destroyed with its last reference.
func (ts *TextureSystem) Release(name string) {
	ref, ok := ts.RegisteredTextureTable[name]
	if !ok {
		core.LogWarn("texture system - tried to release non-existent texture: '%s'", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		ts.renderer.TextureDestroy(ref.texture)
		delete(ts.RegisteredTextureTable, name)
		core.LogDebug("released texture '%s'", name)
	}
}
