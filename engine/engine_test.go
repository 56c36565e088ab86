package engine

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	tics   []uint64
	last   *image.RGBA
	closed bool
}

func (rs *recordingSink) WriteFrame(tic uint64, frame *image.RGBA) error {
	rs.tics = append(rs.tics, tic)
	rs.last = frame
	return nil
}

func (rs *recordingSink) Close() error {
	rs.closed = true
	return nil
}

func solid(width, height uint32, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newTestGame(config *ApplicationConfig) (*Game, *recordingSink) {
	sink := &recordingSink{}
	g := &Game{ApplicationConfig: config, Sink: sink}
	g.FnScenes = func(width, height uint32) (*metadata.Texture, *metadata.Texture, error) {
		start, err := g.SystemManager.TextureSystem.Register("start", solid(width, height, color.RGBA{R: 255, A: 255}), width, height)
		if err != nil {
			return nil, nil, err
		}
		end, err := g.SystemManager.TextureSystem.Register("end", solid(width, height, color.RGBA{B: 255, A: 255}), width, height)
		return start, end, err
	}
	return g, sink
}

func testConfig() *ApplicationConfig {
	config := DefaultConfig()
	config.Width = 32
	config.Height = 20
	config.TicRate = 0
	config.LogLevel = "error"
	config.Assets.GenerateFrames = 4
	return config
}

func TestEngineRunsWipeToCompletion(t *testing.T) {
	for _, variant := range []CompositingVariant{CompositingTwoScene, CompositingSceneOverTarget} {
		for _, offscreen := range []bool{false, true} {
			config := testConfig()
			config.Compositing.Variant = variant
			config.Compositing.Offscreen = offscreen

			g, sink := newTestGame(config)
			e, err := New(g)
			require.NoError(t, err)
			require.NoError(t, e.Initialize())
			assert.Equal(t, EngineStageInitialized, e.Stage())

			var finished int
			var lastFrame uint8
			e.Events().Register(core.EVENT_CODE_WIPE_FINISHED, &finished, func(sender, listener interface{}, ctx core.EventContext) bool {
				finished++
				if we, ok := ctx.Data.(*core.WipeEvent); ok {
					lastFrame = we.Frame
				}
				return false
			})

			require.NoError(t, e.Run(context.Background()))
			assert.Equal(t, []uint64{0, 1, 2, 3}, sink.tics, "%s offscreen=%t", variant, offscreen)
			assert.Equal(t, 1, finished)
			assert.Equal(t, uint8(3), lastFrame)
			assert.Equal(t, uint64(4), e.Tic())
			require.NotNil(t, sink.last)
			assert.Equal(t, 32, sink.last.Bounds().Dx())
			assert.Equal(t, uint64(4), e.Renderer().Metrics().TotalFrames())
			assert.NotNil(t, e.WipePass())

			require.NoError(t, e.Shutdown())
			assert.True(t, sink.closed)
			assert.Equal(t, EngineStageShutdown, e.Stage())
			assert.NoError(t, e.Shutdown())
		}
	}
}

func TestEngineRunCancelled(t *testing.T) {
	g, sink := newTestGame(testConfig())
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	assert.Empty(t, sink.tics)
}

func TestEngineQuitEvent(t *testing.T) {
	g, sink := newTestGame(testConfig())
	e, err := New(g)
	require.NoError(t, err)
	g.FnUpdate = func(tic uint64) error {
		if tic == 1 {
			e.Events().Fire(core.EVENT_CODE_APPLICATION_QUIT, g, nil)
		}
		return nil
	}
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, []uint64{0, 1}, sink.tics)
}

func TestEngineRejectsBadSetup(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	config := testConfig()
	config.Wipe = "missing"
	_, err = New(&Game{ApplicationConfig: config})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	e, err := New(&Game{ApplicationConfig: testConfig()})
	require.NoError(t, err)
	assert.Error(t, e.Initialize(), "no scenes")
	assert.Error(t, e.Run(context.Background()))
	require.NoError(t, e.Shutdown())
}

func TestEngineResize(t *testing.T) {
	g, sink := newTestGame(testConfig())
	var resized [2]uint32
	g.FnOnResize = func(width, height uint32) error {
		resized = [2]uint32{width, height}
		return nil
	}
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()
	assert.Equal(t, [2]uint32{32, 20}, resized)

	require.NoError(t, e.OnResize(64, 40))
	assert.Equal(t, [2]uint32{64, 40}, resized)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(64), w)
	assert.Equal(t, uint32(40), h)
	assert.Error(t, e.OnResize(0, 40))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 64, sink.last.Bounds().Dx())
}
