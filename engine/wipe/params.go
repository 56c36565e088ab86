package wipe

import (
	"fmt"
	"strings"
)

/** @brief How the outgoing frame is transformed while the wipe runs. */
type Mode uint8

const (
	/** @brief Blend the start scene into the end scene. */
	ModeCrossfade Mode = iota
	/** @brief Fade the start scene to its colour inverse. */
	ModeToInvert
	/** @brief Fade the start scene to black. */
	ModeToBlack
	/** @brief Fade the start scene to white. */
	ModeToWhite
)

func (m Mode) String() string {
	switch m {
	case ModeCrossfade:
		return "crossfade"
	case ModeToInvert:
		return "invert"
	case ModeToBlack:
		return "black"
	case ModeToWhite:
		return "white"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode accepts the names used in configuration files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "crossfade", "cross":
		return ModeCrossfade, nil
	case "invert", "to_invert", "toinvert":
		return ModeToInvert, nil
	case "black", "to_black", "toblack":
		return ModeToBlack, nil
	case "white", "to_white", "towhite":
		return ModeToWhite, nil
	}
	return ModeCrossfade, fmt.Errorf("unknown wipe mode '%s'", s)
}

func IsToBlack(m Mode) bool {
	return m == ModeToBlack
}

func IsToWhite(m Mode) bool {
	return m == ModeToWhite
}

func IsToInvert(m Mode) bool {
	return m == ModeToInvert
}

// IsCrossfade holds for the crossfade mode and for any value the other predicates reject.
func IsCrossfade(m Mode) bool {
	return !IsToBlack(m) && !IsToWhite(m) && !IsToInvert(m)
}

/** @brief The integer selector the compositing program switches on. */
type ColorMode int32

const (
	ColorCrossfade   ColorMode = 0
	ColorInvert      ColorMode = 1
	ColorFadeToBlack ColorMode = 2
	ColorFadeToWhite ColorMode = 3
)

// ColorModeFor maps a wipe mode to its selector. Black wins over white, white over invert.
func ColorModeFor(m Mode) ColorMode {
	switch {
	case IsToBlack(m):
		return ColorFadeToBlack
	case IsToWhite(m):
		return ColorFadeToWhite
	case IsToInvert(m):
		return ColorInvert
	default:
		return ColorCrossfade
	}
}

/**
 * @brief An immutable snapshot of the transition state for one frame.
 * Width and Height describe the output viewport of the scene-over-target
 * compositing variant and are ignored otherwise.
 */
type Parameters struct {
	Mode          Mode
	Type          int
	Frame         int
	Reverse       bool
	EncoreSwizzle bool
	Width         uint32
	Height        uint32
}

func (p Parameters) ColorMode() ColorMode {
	return ColorModeFor(p.Mode)
}

func (p Parameters) String() string {
	return fmt.Sprintf("%s type=%d frame=%d reverse=%t encore=%t", p.Mode, p.Type, p.Frame, p.Reverse, p.EncoreSwizzle)
}

/** @brief Supplies the parameters snapshot a pass reads at the start of every frame. */
type ParameterSource interface {
	Current() Parameters
}

// StaticSource always returns the same snapshot.
type StaticSource Parameters

func (s StaticSource) Current() Parameters {
	return Parameters(s)
}

// SourceFunc adapts a function to a ParameterSource.
type SourceFunc func() Parameters

func (f SourceFunc) Current() Parameters {
	return f()
}
