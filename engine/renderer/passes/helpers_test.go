package passes

import (
	"errors"
	"image/color"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/renderer/metadata"
	"github.com/spaghettifunk/screenwipe/engine/renderer/software"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, width, height uint32) *software.SoftwareRenderer {
	t.Helper()
	r := software.New()
	require.NoError(t, r.Initialize(&metadata.RendererBackendConfig{ApplicationName: "passes", Width: width, Height: height}))
	return r
}

// newScene creates a solid colour texture and uploads it in a frame of its own.
func newScene(t *testing.T, r *software.SoftwareRenderer, name string, width, height uint32, c color.RGBA) *metadata.Texture {
	t.Helper()
	tex, err := r.TextureCreate(metadata.TextureDesc{Name: name, Format: metadata.TextureFormatRGBA8, Width: width, Height: height})
	require.NoError(t, err)
	pixels := make([]uint8, tex.Size())
	for i := 0; i < len(pixels); i += 4 {
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = c.R, c.G, c.B, c.A
	}
	require.NoError(t, r.BeginFrame())
	ctx, err := r.BeginTransfer()
	require.NoError(t, err)
	require.NoError(t, r.TextureWriteData(ctx, tex, pixels))
	require.NoError(t, r.EndTransfer(ctx))
	require.NoError(t, r.EndFrame())
	return tex
}

func maskLevels(length int, level uint8) []byte {
	data := make([]byte, length)
	for i := range data {
		data[i] = level
	}
	return data
}

// countingStore counts store accesses.
type countingStore struct {
	assets.LumpStore
	calls int
}

func (c *countingStore) Exists(name string) bool {
	c.calls++
	return c.LumpStore.Exists(name)
}

func (c *countingStore) Length(name string) int {
	c.calls++
	return c.LumpStore.Length(name)
}

func (c *countingStore) Read(name string) ([]byte, error) {
	c.calls++
	return c.LumpStore.Read(name)
}

var errRefused = errors.New("refused")

// refusingBackend fails selected operations of the software renderer.
type refusingBackend struct {
	*software.SoftwareRenderer
	refusePipelines bool
	refuseTextures  bool
}

func (b *refusingBackend) PipelineCreate(desc *metadata.PipelineDesc) (*metadata.Pipeline, error) {
	if b.refusePipelines {
		return nil, errRefused
	}
	return b.SoftwareRenderer.PipelineCreate(desc)
}

func (b *refusingBackend) TextureWriteData(ctx *metadata.TransferContext, texture *metadata.Texture, pixels []uint8) error {
	if b.refuseTextures {
		return errRefused
	}
	return b.SoftwareRenderer.TextureWriteData(ctx, texture, pixels)
}

// recordingPass logs the phases it sees.
type recordingPass struct {
	name  string
	log   *[]string
	fail  Phase
	calls map[Phase]int
}

func newRecordingPass(name string, log *[]string) *recordingPass {
	return &recordingPass{name: name, log: log, calls: make(map[Phase]int)}
}

func (p *recordingPass) Name() string {
	return p.name
}

func (p *recordingPass) record(phase Phase) error {
	p.calls[phase]++
	*p.log = append(*p.log, p.name+":"+phase.String())
	if p.fail == phase {
		return errRefused
	}
	return nil
}

func (p *recordingPass) Prepass() error {
	return p.record(PhasePrepass)
}

func (p *recordingPass) Transfer(*metadata.TransferContext) error {
	return p.record(PhaseTransfer)
}

func (p *recordingPass) Graphics(*metadata.GraphicsContext) error {
	return p.record(PhaseGraphics)
}

func (p *recordingPass) Postpass() error {
	return p.record(PhasePostpass)
}

func (p *recordingPass) Release() {
	*p.log = append(*p.log, p.name+":release")
}

func toBlackPass(t *testing.T, r *software.SoftwareRenderer, store assets.LumpStore, params wipe.Parameters) *WipePass {
	t.Helper()
	start := newScene(t, r, "start", 320, 200, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	end := newScene(t, r, "end", 320, 200, color.RGBA{G: 255, A: 255})
	pass, err := NewWipePass(r, WipePassConfig{
		Name:     "wipe",
		Resolver: wipe.NewResolver(store),
		Source:   wipe.StaticSource(params),
		Mode:     TwoScene{Start: start, End: end},
	})
	require.NoError(t, err)
	return pass
}
