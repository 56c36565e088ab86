package wipe

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
)

/** @brief A named wipe as configured by the application. */
type Definition struct {
	Name          string
	Type          int
	Mode          Mode
	Reverse       bool
	EncoreSwizzle bool
}

// Length counts the consecutive frames of a wipe type, starting at frame 0.
func Length(store assets.LumpStore, wipeType int) int {
	if store == nil || wipeType < 0 || wipeType >= MaxTypes {
		return 0
	}
	frames := 0
	for frames < MaxFrames && store.Exists(LumpName(wipeType, frames)) {
		frames++
	}
	return frames
}

// Exists reports whether the first frame of a wipe type is present.
func Exists(store assets.LumpStore, wipeType int) bool {
	if store == nil || wipeType < 0 || wipeType >= MaxTypes {
		return false
	}
	return store.Exists(LumpName(wipeType, 0))
}

// IdleParameters never resolve to a mask, so a pass fed with them draws nothing.
func IdleParameters() Parameters {
	return Parameters{Type: MaxTypes}
}

/**
 * @brief Plays a wipe one frame per tic, from frame 0 until the last
 * frame lump of its type. Implements ParameterSource.
 */
type Sequencer struct {
	store   assets.LumpStore
	def     Definition
	length  int
	frame   int
	tic     uint64
	running bool
	width   uint32
	height  uint32
}

func NewSequencer(store assets.LumpStore) *Sequencer {
	return &Sequencer{store: store}
}

// SetViewport sets the output size reported in every snapshot.
func (s *Sequencer) SetViewport(width, height uint32) {
	s.width = width
	s.height = height
}

func (s *Sequencer) Start(def Definition) error {
	if def.Type < 0 || def.Type >= MaxTypes {
		return fmt.Errorf("wipe '%s' has type %d outside [0, %d)", def.Name, def.Type, MaxTypes)
	}
	length := Length(s.store, def.Type)
	if length == 0 {
		return fmt.Errorf("wipe '%s' has no %s lump: %w", def.Name, LumpName(def.Type, 0), core.ErrLumpNotFound)
	}
	s.def = def
	s.length = length
	s.frame = 0
	s.tic = 0
	s.running = true
	core.LogInfo("wipe '%s' started (type %d, %d frames, %s)", def.Name, def.Type, length, def.Mode)
	return nil
}

// Advance moves to the next frame. It returns false once the wipe has played its last frame.
func (s *Sequencer) Advance() bool {
	if !s.running {
		return false
	}
	s.tic++
	s.frame++
	if s.frame >= s.length {
		s.running = false
		core.LogInfo("wipe '%s' finished after %d tics", s.def.Name, s.tic)
	}
	return s.running
}

// Stop ends the wipe early.
func (s *Sequencer) Stop() {
	s.running = false
}

func (s *Sequencer) Current() Parameters {
	if !s.running {
		p := IdleParameters()
		p.Width = s.width
		p.Height = s.height
		return p
	}
	return Parameters{
		Mode:          s.def.Mode,
		Type:          s.def.Type,
		Frame:         s.frame,
		Reverse:       s.def.Reverse,
		EncoreSwizzle: s.def.EncoreSwizzle,
		Width:         s.width,
		Height:        s.height,
	}
}

func (s *Sequencer) Running() bool {
	return s.running
}

func (s *Sequencer) Done() bool {
	return !s.running
}

func (s *Sequencer) Frame() int {
	return s.frame
}

func (s *Sequencer) Length() int {
	return s.length
}

func (s *Sequencer) Tic() uint64 {
	return s.tic
}

func (s *Sequencer) Definition() Definition {
	return s.def
}
