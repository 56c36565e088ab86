package systems

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
)

// ChangeNotifier is implemented by lump stores that report on-disk changes.
type ChangeNotifier interface {
	Changes() <-chan string
}

/**
 * @brief Keeps the configured wipe definitions, plays them one frame per
 * tic and announces their progress on the event system.
 */
type WipeSystem struct {
	store       assets.LumpStore
	resolver    *wipe.Resolver
	sequencer   *wipe.Sequencer
	events      *core.EventSystem
	definitions map[string]wipe.Definition
	changes     <-chan string
}

func NewWipeSystem(store assets.LumpStore, events *core.EventSystem) (*WipeSystem, error) {
	if store == nil {
		return nil, fmt.Errorf("func NewWipeSystem - store cannot be nil")
	}
	ws := &WipeSystem{
		store:       store,
		resolver:    wipe.NewResolver(store),
		sequencer:   wipe.NewSequencer(store),
		events:      events,
		definitions: make(map[string]wipe.Definition),
	}
	if notifier, ok := store.(ChangeNotifier); ok {
		ws.changes = notifier.Changes()
	}
	return ws, nil
}

func (ws *WipeSystem) Shutdown() error {
	ws.sequencer.Stop()
	ws.definitions = make(map[string]wipe.Definition)
	return nil
}

// Define registers a named wipe. A later definition with the same name replaces the earlier one.
func (ws *WipeSystem) Define(def wipe.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("wipe definition needs a name")
	}
	if def.Type < 0 || def.Type >= wipe.MaxTypes {
		return fmt.Errorf("wipe '%s' has type %d outside [0, %d)", def.Name, def.Type, wipe.MaxTypes)
	}
	if !wipe.Exists(ws.store, def.Type) {
		core.LogWarn("wipe '%s' has no %s lump yet", def.Name, wipe.LumpName(def.Type, 0))
	}
	ws.definitions[def.Name] = def
	return nil
}

func (ws *WipeSystem) Definition(name string) (wipe.Definition, bool) {
	def, ok := ws.definitions[name]
	return def, ok
}

// Names returns the defined wipe names in sorted order.
func (ws *WipeSystem) Names() []string {
	names := make([]string, 0, len(ws.definitions))
	for name := range ws.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ws *WipeSystem) Resolver() *wipe.Resolver {
	return ws.resolver
}

// Source is the parameter source a wipe pass reads every frame.
func (ws *WipeSystem) Source() wipe.ParameterSource {
	return ws.sequencer
}

func (ws *WipeSystem) SetViewport(width, height uint32) {
	ws.sequencer.SetViewport(width, height)
}

func (ws *WipeSystem) Running() bool {
	return ws.sequencer.Running()
}

func (ws *WipeSystem) Length() int {
	return ws.sequencer.Length()
}

func (ws *WipeSystem) event() *core.WipeEvent {
	def := ws.sequencer.Definition()
	return &core.WipeEvent{
		Name:  def.Name,
		Type:  uint8(def.Type),
		Frame: uint8(ws.sequencer.Frame()),
		Tic:   ws.sequencer.Tic(),
	}
}

func (ws *WipeSystem) fire(code core.SystemEventCode, event *core.WipeEvent) {
	if ws.events != nil {
		ws.events.Fire(code, ws, event)
	}
}

// Start plays the named wipe from its first frame.
func (ws *WipeSystem) Start(name string) error {
	def, ok := ws.definitions[name]
	if !ok {
		return fmt.Errorf("wipe '%s' is not defined", name)
	}
	if err := ws.sequencer.Start(def); err != nil {
		return err
	}
	ws.fire(core.EVENT_CODE_WIPE_STARTED, ws.event())
	return nil
}

/**
 * @brief Called once per tic after the frame was composited. Announces the
 * frame just drawn and moves to the next one. Returns false once the wipe
 * has finished or when none is running.
 */
func (ws *WipeSystem) Tick() bool {
	if !ws.sequencer.Running() {
		return false
	}
	// WIPE_FINISHED carries the last frame drawn, not the one past it
	drawn := ws.event()
	ws.fire(core.EVENT_CODE_WIPE_FRAME, drawn)
	if ws.sequencer.Advance() {
		return true
	}
	ws.fire(core.EVENT_CODE_WIPE_FINISHED, drawn)
	return false
}

// Stop ends the running wipe without announcing it as finished.
func (ws *WipeSystem) Stop() {
	ws.sequencer.Stop()
}

// Watch makes PollChanges report the changes of notifier.
func (ws *WipeSystem) Watch(notifier ChangeNotifier) {
	ws.changes = notifier.Changes()
}

// PollChanges drains pending store changes, firing one event per lump name.
func (ws *WipeSystem) PollChanges() int {
	if ws.changes == nil {
		return 0
	}
	count := 0
	for {
		select {
		case name, ok := <-ws.changes:
			if !ok {
				ws.changes = nil
				return count
			}
			count++
			core.LogDebug("lump '%s' changed on disk", name)
			if ws.events != nil {
				ws.events.Fire(core.EVENT_CODE_LUMP_CHANGED, ws, name)
			}
		default:
			return count
		}
	}
}
