package assets

import "github.com/spaghettifunk/screenwipe/engine/renderer/metadata"

/** @brief Loads one kind of resource by name. */
type Loader interface {
	Type() metadata.ResourceType
	Load(name string) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
