package wipe

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/math"
)

/** @brief A procedural mask pattern. */
type Family int

const (
	/** @brief Left to right sweep. */
	FamilySweep Family = iota
	/** @brief Circle opening from the centre. */
	FamilyIris
	/** @brief Ordered-dither dissolve. */
	FamilyDissolve
)

// width of the soft edge, as a fraction of the pattern range
const edgeSoftness = 0.25

var bayer4 = [4][4]float32{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func (f Family) String() string {
	switch f {
	case FamilySweep:
		return "sweep"
	case FamilyIris:
		return "iris"
	case FamilyDissolve:
		return "dissolve"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sweep":
		return FamilySweep, nil
	case "iris":
		return FamilyIris, nil
	case "dissolve":
		return FamilyDissolve, nil
	}
	return FamilySweep, fmt.Errorf("unknown mask family '%s'", s)
}

// threshold returns where in the pattern a pixel arrives, in [0,1].
func (f Family) threshold(x, y, width, height uint32) float32 {
	switch f {
	case FamilyIris:
		cx := float64(width) / 2
		cy := float64(height) / 2
		dx := float64(x) + 0.5 - cx
		dy := float64(y) + 0.5 - cy
		return float32(gomath.Sqrt(dx*dx+dy*dy) / gomath.Sqrt(cx*cx+cy*cy))
	case FamilyDissolve:
		return (bayer4[y%4][x%4] + 0.5) / 16
	default:
		return (float32(x) + 0.5) / float32(width)
	}
}

// GenerateMask renders one frame of a family. Frame frames-1 is fully arrived.
func GenerateMask(family Family, frame, frames int, width, height uint32) ([]uint8, error) {
	if frames <= 0 || frames > MaxFrames {
		return nil, fmt.Errorf("frame count %d outside (0, %d]", frames, MaxFrames)
	}
	if frame < 0 || frame >= frames {
		return nil, fmt.Errorf("frame %d outside [0, %d)", frame, frames)
	}
	if _, ok := MaskLength(width, height); !ok {
		return nil, fmt.Errorf("%dx%d is not a mask resolution", width, height)
	}

	progress := float32(frame+1) / float32(frames) * (1 + edgeSoftness)
	data := make([]uint8, int(width)*int(height))
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			t := math.Clamp((progress-family.threshold(x, y, width, height))/edgeSoftness, 0, 1)
			data[y*width+x] = uint8(gomath.Round(float64(math.Lerp(0, float32(MaxFadeLevel), t))))
		}
	}
	return data, nil
}

// GenerateMasks renders every frame of a wipe type as FADE lumps.
func GenerateMasks(family Family, wipeType, frames int, width, height uint32) ([]assets.Lump, error) {
	if wipeType < 0 || wipeType >= MaxTypes {
		return nil, fmt.Errorf("wipe type %d outside [0, %d)", wipeType, MaxTypes)
	}
	if frames <= 0 || frames > MaxFrames {
		return nil, fmt.Errorf("frame count %d outside (0, %d]", frames, MaxFrames)
	}
	lumps := make([]assets.Lump, 0, frames)
	for f := 0; f < frames; f++ {
		data, err := GenerateMask(family, f, frames, width, height)
		if err != nil {
			return nil, err
		}
		lumps = append(lumps, assets.Lump{Name: LumpName(wipeType, f), Data: data})
	}
	return lumps, nil
}

// GenerateStore fills a memory store with one generated wipe per family, starting at firstType.
func GenerateStore(firstType, frames int, width, height uint32) (*assets.MemoryStore, error) {
	store := assets.NewMemoryStore()
	for i, family := range []Family{FamilySweep, FamilyIris, FamilyDissolve} {
		lumps, err := GenerateMasks(family, firstType+i, frames, width, height)
		if err != nil {
			return nil, err
		}
		for _, l := range lumps {
			if err := store.Put(l.Name, l.Data); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}
