package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name = "demo"
log_level = "debug"
width = 640
height = 400
tic_rate = 0
wipe = "iris"

[assets]
wad = "fades.wad"
watch = true
generate = false

[scenes]
start = "title.png"
end = "level.png"

[output]
directory = "frames"
scale = 2.0

[compositing]
variant = "scene_over_target"
offscreen = true

[wipes.iris]
type = 1
mode = "white"
reverse = true

[wipes.sweep]
type = 0
mode = "crossfade"
encore = true
`

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wipe.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", config.Name)
	assert.Equal(t, uint32(640), config.Width)
	assert.Equal(t, uint32(0), config.TicRate)
	assert.Equal(t, "fades.wad", config.Assets.Wad)
	assert.False(t, config.Assets.Generate)
	assert.Equal(t, 16, config.Assets.GenerateFrames, "default kept")
	assert.Equal(t, CompositingSceneOverTarget, config.Compositing.Variant)
	assert.True(t, config.Compositing.Offscreen)
	assert.Equal(t, 2.0, config.Output.Scale)
	assert.Len(t, config.Wipes, 2)

	defs, err := config.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, wipe.Definition{Name: "iris", Type: 1, Mode: wipe.ModeToWhite, Reverse: true}, defs[0])
	assert.Equal(t, wipe.Definition{Name: "sweep", Type: 0, Mode: wipe.ModeCrossfade, EncoreSwizzle: true}, defs[1])

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseConfigKeepsDefaultWipes(t *testing.T) {
	config, err := ParseConfig([]byte(`width = 80`))
	require.NoError(t, err)
	assert.Equal(t, uint32(80), config.Width)
	assert.Equal(t, uint32(200), config.Height)
	assert.Contains(t, config.Wipes, "sweep")
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"unknown key", `colour = "red"`},
		{"bad toml", `width = `},
		{"empty viewport", `width = 0`},
		{"log level", `log_level = "loud"`},
		{"renderer", `renderer = "vulkan"`},
		{"variant", "[compositing]\nvariant = \"stacked\""},
		{"no lump source", "[assets]\ngenerate = false"},
		{"half scenes", "[scenes]\nstart = \"a.png\""},
		{"scale", "[output]\nscale = 0.0"},
		{"undefined wipe", `wipe = "nope"`},
		{"wipe type", "[wipes.sweep]\ntype = 100"},
		{"wipe mode", "[wipes.sweep]\nmode = \"sepia\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.config))
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}
