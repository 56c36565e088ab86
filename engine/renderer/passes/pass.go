package passes

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
)

/** @brief The phases of a frame, in execution order. */
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePrepass
	PhaseTransfer
	PhaseGraphics
	PhasePostpass
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePrepass:
		return "prepass"
	case PhaseTransfer:
		return "transfer"
	case PhaseGraphics:
		return "graphics"
	case PhasePostpass:
		return "postpass"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// next is the only phase allowed to follow p.
func (p Phase) next() Phase {
	switch p {
	case PhasePrepass:
		return PhaseTransfer
	case PhaseTransfer:
		return PhaseGraphics
	case PhaseGraphics:
		return PhasePostpass
	default:
		return PhasePrepass
	}
}

/**
 * @brief A drawable unit of work executed once per frame in four phases.
 *
 * Prepass makes sure the resources exist and decides what to draw this
 * frame. Transfer uploads data. Graphics records draws. Postpass releases
 * everything that only lives for one frame. A phase with nothing to do
 * returns nil; errors are reserved for backend failures.
 */
type Pass interface {
	Name() string
	Prepass() error
	Transfer(ctx *metadata.TransferContext) error
	Graphics(ctx *metadata.GraphicsContext) error
	Postpass() error
}

/** @brief Implemented by passes that own resources outliving a frame. */
type Releaser interface {
	Release()
}

/**
 * @brief Runs a list of passes against a backend, phase by phase, and
 * refuses to run phases out of order.
 */
type Executor struct {
	backend  renderer.RendererBackend
	passes   []Pass
	phase    Phase
	transfer *metadata.TransferContext
	graphics *metadata.GraphicsContext
}

func NewExecutor(backend renderer.RendererBackend, passes ...Pass) *Executor {
	return &Executor{
		backend: backend,
		passes:  passes,
		phase:   PhaseIdle,
	}
}

// Add appends a pass. Passes run in the order they were added.
func (e *Executor) Add(pass Pass) error {
	if e.inFrame() {
		return fmt.Errorf("cannot add pass '%s' during %s: %w", pass.Name(), e.phase, core.ErrPhaseOrder)
	}
	e.passes = append(e.passes, pass)
	return nil
}

func (e *Executor) Passes() []Pass {
	return e.passes
}

func (e *Executor) Phase() Phase {
	return e.phase
}

func (e *Executor) inFrame() bool {
	return e.phase != PhaseIdle && e.phase != PhasePostpass
}

/**
 * @brief Runs one phase for every pass. The phase must be the one that
 * follows the last phase run, otherwise core.ErrPhaseOrder is returned and
 * nothing happens. A failing phase still counts as run.
 */
func (e *Executor) Step(next Phase) error {
	if next != e.phase.next() {
		return fmt.Errorf("cannot run %s after %s: %w", next, e.phase, core.ErrPhaseOrder)
	}
	e.phase = next

	switch next {
	case PhasePrepass:
		if err := e.backend.BeginFrame(); err != nil {
			return err
		}
		return e.each(func(p Pass) error { return p.Prepass() })
	case PhaseTransfer:
		ctx, err := e.backend.BeginTransfer()
		if err != nil {
			return err
		}
		e.transfer = ctx
		err = e.each(func(p Pass) error { return p.Transfer(ctx) })
		e.transfer = nil
		return errors.Join(err, e.backend.EndTransfer(ctx))
	case PhaseGraphics:
		ctx, err := e.backend.BeginGraphics()
		if err != nil {
			return err
		}
		e.graphics = ctx
		err = e.each(func(p Pass) error { return p.Graphics(ctx) })
		e.graphics = nil
		return errors.Join(err, e.backend.EndGraphics(ctx))
	default:
		err := e.each(func(p Pass) error { return p.Postpass() })
		return errors.Join(err, e.backend.EndFrame())
	}
}

func (e *Executor) each(fn func(p Pass) error) error {
	var errs error
	for _, p := range e.passes {
		if err := fn(p); err != nil {
			errs = errors.Join(errs, fmt.Errorf("pass '%s' %s: %w", p.Name(), e.phase, err))
		}
	}
	return errs
}

// Execute runs a whole frame. Postpass runs even when an earlier phase failed.
func (e *Executor) Execute() error {
	if e.inFrame() {
		return fmt.Errorf("frame already in %s: %w", e.phase, core.ErrPhaseOrder)
	}
	var errs error
	for _, phase := range []Phase{PhasePrepass, PhaseTransfer, PhaseGraphics, PhasePostpass} {
		if err := e.Step(phase); err != nil {
			core.LogError("frame %d: %s", e.backend.FrameNumber(), err)
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Release frees the pass-lifetime resources of every pass.
func (e *Executor) Release() {
	for _, p := range e.passes {
		if r, ok := p.(Releaser); ok {
			r.Release()
		}
	}
}
