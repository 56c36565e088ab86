package testbed

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/screenwipe/engine"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32
	frames uint64
	// names the scene textures were registered under
	sceneNames []string
}

func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	if config == nil {
		config = engine.DefaultConfig()
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	if config.Output.Directory != "" {
		sink, err := NewPNGSink(config.Output.Directory, config.Output.Scale)
		if err != nil {
			return nil, err
		}
		tg.Sink = sink
	}

	tg.FnInitialize = tg.Initialize
	tg.FnScenes = tg.Scenes
	tg.FnUpdate = tg.Update
	tg.FnFrame = tg.Frame
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	core.LogInfo("available wipes: %v", g.SystemManager.WipeSystem.Names())
	return nil
}

// Scenes loads the configured scene images, or draws the procedural pair when none are configured.
func (g *TestGame) Scenes(width, height uint32) (*metadata.Texture, *metadata.Texture, error) {
	state := g.State.(*gameState)
	ts := g.SystemManager.TextureSystem
	scenes := g.ApplicationConfig.Scenes

	if scenes.Start != "" {
		textures, err := ts.AcquireAll([]string{scenes.Start, scenes.End}, width, height)
		if err != nil {
			core.LogError("failed to load scenes: %s", err)
			return nil, nil, err
		}
		state.sceneNames = []string{scenes.Start, scenes.End}
		return textures[0], textures[1], nil
	}

	start, err := ts.Register("scene.checker", checkerScene(width, height), width, height)
	if err != nil {
		return nil, nil, err
	}
	end, err := ts.Register("scene.gradient", gradientScene(width, height), width, height)
	if err != nil {
		return nil, nil, err
	}
	state.sceneNames = []string{"scene.checker", "scene.gradient"}
	return start, end, nil
}

func (g *TestGame) Update(tic uint64) error {
	return nil
}

func (g *TestGame) Frame(tic uint64, frame *image.RGBA) error {
	state := g.State.(*gameState)
	state.frames++
	core.LogDebug("frame %d composited (%dx%d)", tic, frame.Bounds().Dx(), frame.Bounds().Dy())
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if g.SystemManager != nil {
		for _, name := range state.sceneNames {
			g.SystemManager.TextureSystem.Release(name)
		}
	}
	state.sceneNames = nil
	core.LogInfo("testbed composited %d frames", state.frames)
	return nil
}

func (g *TestGame) Frames() uint64 {
	return g.State.(*gameState).frames
}
