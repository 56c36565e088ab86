package wipe

import (
	"fmt"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/math"
)

const (
	// MaxTypes is the number of wipe families addressable by a lump name.
	MaxTypes = 100
	// MaxFrames is the number of frames addressable per wipe family.
	MaxFrames = 100
	// MaxFadeLevel is the fully-arrived value of a mask pixel.
	MaxFadeLevel = 32
)

type maskSize struct {
	length int
	width  uint32
	height uint32
}

// the only mask resolutions the lump format knows about
var maskSizes = []maskSize{
	{length: 256000, width: 640, height: 400},
	{length: 64000, width: 320, height: 200},
	{length: 16000, width: 160, height: 100},
	{length: 4000, width: 80, height: 50},
}

/** @brief A resolved wipe mask: one fade level per pixel, row-major. */
type Mask struct {
	Name   string
	Width  uint32
	Height uint32
	Data   []uint8
}

// Clear drops the pixel data, keeping the backing array.
func (m *Mask) Clear() {
	m.Data = m.Data[:0]
}

// LumpName builds the lookup key for a mask, e.g. type 3 frame 7 is FADE0307.
func LumpName(wipeType, frame int) string {
	return fmt.Sprintf("FADE%02d%02d", wipeType, frame)
}

// MaskDimensions maps a lump length to a resolution.
func MaskDimensions(length int) (width, height uint32, ok bool) {
	for _, s := range maskSizes {
		if s.length == length {
			return s.width, s.height, true
		}
	}
	return 0, 0, false
}

// MaskLength is the inverse of MaskDimensions.
func MaskLength(width, height uint32) (int, bool) {
	for _, s := range maskSizes {
		if s.width == width && s.height == height {
			return s.length, true
		}
	}
	return 0, false
}

// ReverseMask replaces every level b with 32-b in place. Out of range levels saturate first.
func ReverseMask(data []uint8) {
	for i, b := range data {
		data[i] = MaxFadeLevel - math.Clamp(b, 0, MaxFadeLevel)
	}
}

/** @brief Turns (type, frame, reverse) into a mask read from a lump store. */
type Resolver struct {
	store assets.LumpStore
}

func NewResolver(store assets.LumpStore) *Resolver {
	return &Resolver{store: store}
}

/**
 * @brief Resolves a mask. The second result is false when the mask is
 * unavailable: ids out of range, a missing lump, an unrecognised length
 * or a failed read. None of those are errors for the caller.
 */
func (r *Resolver) Resolve(wipeType, frame int, reverse bool) (*Mask, bool) {
	if wipeType < 0 || frame < 0 || wipeType >= MaxTypes || frame >= MaxFrames {
		core.LogDebug("wipe type %d frame %d is out of range", wipeType, frame)
		return nil, false
	}
	if r.store == nil {
		return nil, false
	}

	name := LumpName(wipeType, frame)
	if !r.store.Exists(name) {
		core.LogDebug("wipe mask '%s' not found", name)
		return nil, false
	}

	length := r.store.Length(name)
	width, height, ok := MaskDimensions(length)
	if !ok {
		core.LogDebug("wipe mask '%s' has an unsupported length of %d bytes", name, length)
		return nil, false
	}

	payload, err := r.store.Read(name)
	if err != nil {
		core.LogDebug("wipe mask '%s' could not be read: %s", name, err)
		return nil, false
	}
	if len(payload) != length {
		core.LogDebug("wipe mask '%s' changed size while reading (%d != %d)", name, len(payload), length)
		return nil, false
	}

	data := make([]uint8, length)
	copy(data, payload)
	if reverse {
		ReverseMask(data)
	}

	return &Mask{
		Name:   name,
		Width:  width,
		Height: height,
		Data:   data,
	}, true
}

// ResolveParameters resolves the mask described by a parameters snapshot.
func (r *Resolver) ResolveParameters(p Parameters) (*Mask, bool) {
	return r.Resolve(p.Type, p.Frame, p.Reverse)
}
