package systems

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of loaders that can be registered with this system. */
	MaxLoaderCount uint32
}

/** @brief Routes resource loads to the loader registered for their type. */
type ResourceSystem struct {
	Config            *ResourceSystemConfig
	RegisteredLoaders []assets.Loader
}

func NewResourceSystem(config *ResourceSystemConfig) (*ResourceSystem, error) {
	if config == nil || config.MaxLoaderCount == 0 {
		err := fmt.Errorf("failed to run NewResourceSystem because config.MaxLoaderCount==0")
		core.LogError(err.Error())
		return nil, err
	}
	rs := &ResourceSystem{
		Config:            config,
		RegisteredLoaders: make([]assets.Loader, 0, config.MaxLoaderCount),
	}
	core.LogInfo("Resource system initialized.")
	return rs, nil
}

func (rs *ResourceSystem) Shutdown() error {
	rs.RegisteredLoaders = rs.RegisteredLoaders[:0]
	return nil
}

func (rs *ResourceSystem) RegisterLoader(loader assets.Loader) bool {
	if uint32(len(rs.RegisteredLoaders)) >= rs.Config.MaxLoaderCount {
		core.LogError("resource system - no free loader slot for type %d", loader.Type())
		return false
	}
	// Ensure no loaders for the given type already exist
	for _, l := range rs.RegisteredLoaders {
		if l.Type() == loader.Type() {
			core.LogError("resource system - loader of type %d already exists and will not be registered.", loader.Type())
			return false
		}
	}
	rs.RegisteredLoaders = append(rs.RegisteredLoaders, loader)
	core.LogDebug("Loader for type %d registered.", loader.Type())
	return true
}

func (rs *ResourceSystem) loader(resourceType metadata.ResourceType) assets.Loader {
	for _, l := range rs.RegisteredLoaders {
		if l.Type() == resourceType {
			return l
		}
	}
	return nil
}

func (rs *ResourceSystem) Load(name string, resourceType metadata.ResourceType) (*metadata.Resource, error) {
	l := rs.loader(resourceType)
	if l == nil {
		err := fmt.Errorf("resource system - no loader for type %d was found", resourceType)
		core.LogError(err.Error())
		return nil, err
	}
	return l.Load(name)
}

func (rs *ResourceSystem) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	l := rs.loader(resource.ResourceType)
	if l == nil {
		return fmt.Errorf("resource system - no loader for type %d was found", resource.ResourceType)
	}
	return l.Unload(resource)
}
