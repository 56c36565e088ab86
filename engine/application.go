package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
)

/** @brief How the wipe pass composites its scenes. */
type CompositingVariant string

const (
	// The wipe pass samples both scenes and a colour mode.
	CompositingTwoScene CompositingVariant = "two_scene"
	// The start scene is copied first and the end scene is blended over it.
	CompositingSceneOverTarget CompositingVariant = "scene_over_target"
)

type AssetsConfig struct {
	// A WAD container holding FADE lumps.
	Wad string `toml:"wad"`
	// A directory of loose NAME.lmp files. Takes precedence over the wad.
	Directory string `toml:"directory"`
	// Pick up lump files rewritten on disk while running.
	Watch bool `toml:"watch"`
	// Generate demo masks for the types no other source provides.
	Generate bool `toml:"generate"`
	// Frames per generated wipe.
	GenerateFrames int `toml:"generate_frames"`
}

type ScenesConfig struct {
	// Directory scene images are resolved against.
	Directory string `toml:"directory"`
	// Outgoing and incoming scene images. Empty draws procedural scenes.
	Start string `toml:"start"`
	End   string `toml:"end"`
}

type OutputConfig struct {
	// Directory composited frames are written to as PNG. Empty disables output.
	Directory string  `toml:"directory"`
	Scale     float64 `toml:"scale"`
}

type CompositingConfig struct {
	Variant CompositingVariant `toml:"variant"`
	// Composite into an off-screen target and copy it to the backbuffer.
	Offscreen bool `toml:"offscreen"`
}

type WipeConfig struct {
	Type    int    `toml:"type"`
	Mode    string `toml:"mode"`
	Reverse bool   `toml:"reverse"`
	Encore  bool   `toml:"encore"`
}

type ApplicationConfig struct {
	// The application name used in logs and by the renderer.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// Output viewport.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	// Wipe frames per second. Zero runs as fast as possible.
	TicRate  uint32 `toml:"tic_rate"`
	Renderer string `toml:"renderer"`
	// Name of the entry in Wipes played on start.
	Wipe string `toml:"wipe"`

	Assets      AssetsConfig          `toml:"assets"`
	Scenes      ScenesConfig          `toml:"scenes"`
	Output      OutputConfig          `toml:"output"`
	Compositing CompositingConfig     `toml:"compositing"`
	Wipes       map[string]WipeConfig `toml:"wipes"`
}

// DefaultConfig plays a generated sweep to black at 35 tics per second.
func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "screenwipe",
		LogLevel: "info",
		Width:    320,
		Height:   200,
		TicRate:  35,
		Renderer: "software",
		Wipe:     "sweep",
		Assets: AssetsConfig{
			Generate:       true,
			GenerateFrames: 16,
		},
		Output: OutputConfig{
			Scale: 1,
		},
		Compositing: CompositingConfig{
			Variant: CompositingTwoScene,
		},
		Wipes: map[string]WipeConfig{
			"sweep": {Type: 0, Mode: "black"},
		},
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are rejected.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*ApplicationConfig, error) {
	config := DefaultConfig()
	// a file that names its own wipes replaces the default table
	config.Wipes = nil

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	if config.Wipes == nil {
		config.Wipes = DefaultConfig().Wipes
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	var errs error
	invalid := func(format string, args ...interface{}) {
		errs = errors.Join(errs, fmt.Errorf("%w: %s", core.ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		invalid("%s", err)
	}
	if _, err := renderer.ParseRendererType(c.Renderer); err != nil {
		invalid("%s", err)
	}
	if c.Width == 0 || c.Height == 0 {
		invalid("viewport %dx%d is empty", c.Width, c.Height)
	}
	if c.Assets.Wad == "" && c.Assets.Directory == "" && !c.Assets.Generate {
		invalid("no lump source: set assets.wad, assets.directory or assets.generate")
	}
	if c.Assets.Generate && (c.Assets.GenerateFrames <= 0 || c.Assets.GenerateFrames > wipe.MaxFrames) {
		invalid("assets.generate_frames must be in [1, %d]", wipe.MaxFrames)
	}
	if (c.Scenes.Start == "") != (c.Scenes.End == "") {
		invalid("scenes.start and scenes.end must be set together")
	}
	if c.Output.Scale <= 0 {
		invalid("output.scale must be positive")
	}
	switch c.Compositing.Variant {
	case CompositingTwoScene, CompositingSceneOverTarget:
	default:
		invalid("unknown compositing variant '%s'", c.Compositing.Variant)
	}
	if _, ok := c.Wipes[c.Wipe]; !ok {
		invalid("wipe '%s' is not defined", c.Wipe)
	}
	for name, w := range c.Wipes {
		if w.Type < 0 || w.Type >= wipe.MaxTypes {
			invalid("wipes.%s.type %d outside [0, %d)", name, w.Type, wipe.MaxTypes)
		}
		if _, err := wipe.ParseMode(w.Mode); err != nil {
			invalid("wipes.%s: %s", name, err)
		}
	}
	return errs
}

// Definitions converts the wipe table, sorted by name.
func (c *ApplicationConfig) Definitions() ([]wipe.Definition, error) {
	names := make([]string, 0, len(c.Wipes))
	for name := range c.Wipes {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]wipe.Definition, 0, len(names))
	for _, name := range names {
		w := c.Wipes[name]
		mode, err := wipe.ParseMode(w.Mode)
		if err != nil {
			return nil, err
		}
		defs = append(defs, wipe.Definition{
			Name:          name,
			Type:          w.Type,
			Mode:          mode,
			Reverse:       w.Reverse,
			EncoreSwizzle: w.Encore,
		})
	}
	return defs, nil
}
