package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/renderer/passes"
	"github.com/spaghettifunk/screenwipe/engine/systems"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything it owned
	EngineStageShutdown
)

// Resolution generated demo masks are drawn at.
const (
	generatedMaskWidth  = 320
	generatedMaskHeight = 200
)

type Engine struct {
	currentStage  Stage
	sessionID     uuid.UUID
	gameInstance  *Game
	config        *ApplicationConfig
	isRunning     bool
	events        *core.EventSystem
	store         assets.LumpStore
	closers       []io.Closer
	notifier      systems.ChangeNotifier
	renderer      *systems.RendererSystem
	systemManager *systems.SystemManager
	wipePass      *passes.WipePass
	offscreen     *metadata.RenderTarget
	tic           uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("%w: game has no application config", core.ErrInvalidConfig)
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.LogLevel)
	core.SetLogLevel(level)

	kind, _ := renderer.ParseRendererType(config.Renderer)
	rs, err := systems.NewRendererSystem(kind, config.Name, config.Width, config.Height)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		sessionID:    uuid.New(),
		gameInstance: g,
		config:       config,
		events:       core.NewEventSystem(),
		renderer:     rs,
	}, nil
}

// openStore chains the configured lump sources. Earlier sources shadow later ones.
func (e *Engine) openStore() (assets.LumpStore, error) {
	chain := assets.NewStoreChain()
	cfg := e.config.Assets

	if cfg.Directory != "" {
		ds, err := assets.NewDirectoryStore(cfg.Directory, cfg.Watch)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, ds)
		if cfg.Watch {
			e.notifier = ds
		}
		chain.Add(ds)
		core.LogInfo("serving %d lumps from '%s'", ds.Count(), cfg.Directory)
	}
	if cfg.Wad != "" {
		ws, err := assets.OpenWad(cfg.Wad)
		if err != nil {
			return nil, err
		}
		chain.Add(ws)
		core.LogInfo("serving %d lumps from '%s'", len(ws.Names()), cfg.Wad)
	}
	if cfg.Generate {
		ms, err := wipe.GenerateStore(0, cfg.GenerateFrames, generatedMaskWidth, generatedMaskHeight)
		if err != nil {
			return nil, err
		}
		chain.Add(ms)
		core.LogDebug("generated %d demo mask lumps", len(ms.Lumps()))
	}
	return chain, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing
	core.LogInfo("initializing '%s' (session %s)", e.config.Name, e.sessionID)

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_WIPE_STARTED, e, e.onWipe)
	e.events.Register(core.EVENT_CODE_WIPE_FINISHED, e, e.onWipe)
	e.events.Register(core.EVENT_CODE_LUMP_CHANGED, e, e.onLumpChanged)

	store, err := e.openStore()
	if err != nil {
		return err
	}
	e.store = store

	if err := e.renderer.Initialize(); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		AssetBasePath: e.config.Scenes.Directory,
		Store:         e.store,
		Events:        e.events,
	}, e.renderer)
	if err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	ws := sm.WipeSystem
	ws.SetViewport(e.config.Width, e.config.Height)
	if e.notifier != nil {
		ws.Watch(e.notifier)
	}
	defs, err := e.config.Definitions()
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := ws.Define(def); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnScenes == nil {
		return fmt.Errorf("game provides no scenes")
	}
	start, end, err := e.gameInstance.FnScenes(e.config.Width, e.config.Height)
	if err != nil {
		return err
	}
	if err := e.buildPasses(start, end); err != nil {
		return err
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.config.Width, e.config.Height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Registers the passes of the configured compositing variant.
 * two_scene: wipe(start, end) -> target.
 * scene_over_target: blit(start) -> target, then wipe(end) over it.
 * With an off-screen target a final blit copies it to the backbuffer.
 */
func (e *Engine) buildPasses(start, end *metadata.Texture) error {
	var target *metadata.RenderTarget
	if e.config.Compositing.Offscreen {
		t, err := e.renderer.RenderTargetCreate("wipe.offscreen", e.config.Width, e.config.Height)
		if err != nil {
			return err
		}
		e.offscreen = t
		target = t
	}

	ws := e.systemManager.WipeSystem
	config := passes.WipePassConfig{
		Name:     "wipe",
		Resolver: ws.Resolver(),
		Source:   ws.Source(),
		Target:   target,
	}
	switch e.config.Compositing.Variant {
	case CompositingSceneOverTarget:
		if err := e.renderer.AddPass(passes.NewBlitPass(e.renderer.Backend(), "scene.start", start, target, true)); err != nil {
			return err
		}
		config.Mode = passes.SceneOverTarget{Source: end}
	default:
		config.Mode = passes.TwoScene{Start: start, End: end}
	}

	wp, err := passes.NewWipePass(e.renderer.Backend(), config)
	if err != nil {
		return err
	}
	if err := e.renderer.AddPass(wp); err != nil {
		return err
	}
	e.wipePass = wp

	if target != nil {
		return e.renderer.AddPass(passes.NewBlitPass(e.renderer.Backend(), "present", target.Colour, nil, true))
	}
	return nil
}

/**
 * @brief Plays the configured wipe, one composited frame per tic, until it
 * finishes, the application quits or ctx is cancelled.
 */
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine is not initialized")
	}
	ws := e.systemManager.WipeSystem
	if err := ws.Start(e.config.Wipe); err != nil {
		return err
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true
	defer func() { e.currentStage = EngineStageInitialized }()

	var ticker *time.Ticker
	if d := core.TicDuration(e.config.TicRate); d > 0 {
		ticker = time.NewTicker(d)
		defer ticker.Stop()
	}

	for e.isRunning {
		if err := ctx.Err(); err != nil {
			core.LogInfo("run cancelled after %d tics", e.tic)
			ws.Stop()
			return nil
		}
		ws.PollChanges()

		if err := e.frame(); err != nil {
			core.LogError("frame %d failed, stopping: %s", e.tic, err)
			ws.Stop()
			return err
		}
		e.tic++
		if !ws.Tick() {
			e.isRunning = false
			break
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}
	return nil
}

func (e *Engine) frame() error {
	g := e.gameInstance
	if g.FnUpdate != nil {
		if err := g.FnUpdate(e.tic); err != nil {
			return err
		}
	}
	if err := e.renderer.DrawFrame(); err != nil {
		return err
	}
	if g.Sink == nil && g.FnFrame == nil {
		return nil
	}
	img, err := e.renderer.ReadPixels(nil)
	if err != nil {
		return err
	}
	if g.Sink != nil {
		if err := g.Sink.WriteFrame(e.tic, img); err != nil {
			return err
		}
	}
	if g.FnFrame != nil {
		return g.FnFrame(e.tic, img)
	}
	return nil
}

// OnResize resizes the backbuffer and the viewport reported to the wipe.
func (e *Engine) OnResize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("cannot resize to %dx%d", width, height)
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		return err
	}
	e.config.Width = width
	e.config.Height = height
	if e.systemManager != nil {
		e.systemManager.WipeSystem.SetViewport(width, height)
	}
	if e.gameInstance.FnOnResize != nil {
		return e.gameInstance.FnOnResize(width, height)
	}
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs error
	if e.gameInstance.FnShutdown != nil {
		errs = errors.Join(errs, e.gameInstance.FnShutdown())
	}
	if e.gameInstance.Sink != nil {
		errs = errors.Join(errs, e.gameInstance.Sink.Close())
	}
	if e.systemManager != nil {
		errs = errors.Join(errs, e.systemManager.Shutdown())
	}
	if e.offscreen != nil {
		e.renderer.RenderTargetDestroy(e.offscreen)
		e.offscreen = nil
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil && !errors.Is(err, core.ErrBackendClosed) {
			errs = errors.Join(errs, err)
		}
	}
	for _, c := range e.closers {
		errs = errors.Join(errs, c.Close())
	}
	e.closers = nil
	e.events.Shutdown()

	e.currentStage = EngineStageShutdown
	core.LogInfo("session %s shut down after %d tics", e.sessionID, e.tic)
	return errs
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Tic() uint64 {
	return e.tic
}

func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) Renderer() *systems.RendererSystem {
	return e.renderer
}

func (e *Engine) WipePass() *passes.WipePass {
	return e.wipePass
}

// GetFramebufferSize returns the width and height (in this order) of the backbuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.config.Width, e.config.Height
}

func (e *Engine) onEvent(sender interface{}, listener interface{}, context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onWipe(sender interface{}, listener interface{}, context core.EventContext) bool {
	we, ok := context.Data.(*core.WipeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	switch context.Type {
	case core.EVENT_CODE_WIPE_STARTED:
		core.LogInfo("wipe '%s' (type %d) started", we.Name, we.Type)
	case core.EVENT_CODE_WIPE_FINISHED:
		metrics := e.renderer.Metrics()
		core.LogInfo("wipe '%s' finished at frame %d: %d frames, %.3f ms/frame avg", we.Name, we.Frame, metrics.TotalFrames(), metrics.FrameTime())
	}
	return false
}

func (e *Engine) onLumpChanged(sender interface{}, listener interface{}, context core.EventContext) bool {
	if name, ok := context.Data.(string); ok {
		core.LogInfo("lump '%s' reloaded, the next frame picks it up", name)
	}
	return false
}
