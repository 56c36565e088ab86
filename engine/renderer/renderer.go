package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/screenwipe/engine/renderer/software"
)

var _ RendererBackend = (*software.SoftwareRenderer)(nil)

type RendererType uint8

const (
	Software RendererType = iota
)

func ParseRendererType(name string) (RendererType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "software":
		return Software, nil
	default:
		return Software, fmt.Errorf("unknown renderer backend '%s'", name)
	}
}

// NewBackend returns an uninitialized backend of the given type.
func NewBackend(kind RendererType) (RendererBackend, error) {
	switch kind {
	case Software:
		return software.New(), nil
	default:
		return nil, fmt.Errorf("renderer backend %d is not available", kind)
	}
}
