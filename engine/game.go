package engine

import (
	"image"

	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	// Receives every composited frame. Optional.
	Sink         FrameSink
	FnInitialize Initialize
	FnScenes     Scenes
	FnUpdate     Update
	FnFrame      Frame
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

// FrameSink receives the backbuffer after every tic.
type FrameSink interface {
	WriteFrame(tic uint64, frame *image.RGBA) error
	Close() error
}

type Initialize func() error

// Scenes returns the outgoing and incoming scene textures, both sized to the viewport.
type Scenes func(width, height uint32) (start, end *metadata.Texture, err error)
type Update func(tic uint64) error
type Frame func(tic uint64, frame *image.RGBA) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
