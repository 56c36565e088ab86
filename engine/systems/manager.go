package systems

import (
	"errors"
	"runtime"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/assets/loaders"
	"github.com/spaghettifunk/screenwipe/engine/core"
)

type SystemManagerConfig struct {
	// Directory scene images are loaded from.
	AssetBasePath string
	// Lumps the wipe system resolves masks from.
	Store           assets.LumpStore
	Events          *core.EventSystem
	MaxTextureCount uint32
	Workers         int
}

type SystemManager struct {
	JobSystem      *JobSystem
	ResourceSystem *ResourceSystem
	TextureSystem  *TextureSystem
	WipeSystem     *WipeSystem
}

func NewSystemManager(config SystemManagerConfig, renderer *RendererSystem) (*SystemManager, error) {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, workers*2)
	if err != nil {
		return nil, err
	}

	rs, err := NewResourceSystem(&ResourceSystemConfig{
		MaxLoaderCount: 8,
	})
	if err != nil {
		return nil, err
	}
	rs.RegisterLoader(&loaders.ImageLoader{BasePath: config.AssetBasePath})
	if config.Store != nil {
		rs.RegisterLoader(&loaders.LumpLoader{Store: config.Store})
	}

	maxTextures := config.MaxTextureCount
	if maxTextures == 0 {
		maxTextures = 64
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: maxTextures,
	}, js, rs, renderer)
	if err != nil {
		return nil, err
	}

	ws, err := NewWipeSystem(config.Store, config.Events)
	if err != nil {
		return nil, err
	}

	return &SystemManager{
		JobSystem:      js,
		ResourceSystem: rs,
		TextureSystem:  ts,
		WipeSystem:     ws,
	}, nil
}

// Shutdown stops the systems in the reverse order they were created in.
func (sm *SystemManager) Shutdown() error {
	return errors.Join(
		sm.WipeSystem.Shutdown(),
		sm.TextureSystem.Shutdown(),
		sm.ResourceSystem.Shutdown(),
		sm.JobSystem.Shutdown(),
	)
}
