package loaders

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

// LumpLoader reads raw lumps out of a store.
type LumpLoader struct {
	Store assets.LumpStore
}

func (ll *LumpLoader) Type() metadata.ResourceType {
	return metadata.ResourceTypeLump
}

func (ll *LumpLoader) Load(name string) (*metadata.Resource, error) {
	if ll.Store == nil {
		return nil, fmt.Errorf("lump loader has no store")
	}
	data, err := ll.Store.Read(name)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:         assets.NormalizeLumpName(name),
		ResourceType: metadata.ResourceTypeLump,
		DataSize:     uint64(len(data)),
		Data:         data,
	}, nil
}

func (ll *LumpLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("lump loader: nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
