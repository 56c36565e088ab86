package wipe

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithFrames(t *testing.T, wipeType, frames int) *assets.MemoryStore {
	t.Helper()
	store := assets.NewMemoryStore()
	for f := 0; f < frames; f++ {
		require.NoError(t, store.Put(LumpName(wipeType, f), make([]byte, 4000)))
	}
	return store
}

func TestLengthCountsConsecutiveFrames(t *testing.T) {
	store := storeWithFrames(t, 5, 4)
	// a gap ends the wipe
	require.NoError(t, store.Put(LumpName(5, 6), make([]byte, 4000)))

	assert.Equal(t, 4, Length(store, 5))
	assert.Equal(t, 0, Length(store, 6))
	assert.Equal(t, 0, Length(store, 100))
	assert.True(t, Exists(store, 5))
	assert.False(t, Exists(store, 6))
	assert.False(t, Exists(nil, 5))
}

func TestSequencerPlaysEveryFrame(t *testing.T) {
	store := storeWithFrames(t, 2, 3)
	seq := NewSequencer(store)
	seq.SetViewport(320, 200)
	assert.True(t, seq.Done())

	def := Definition{Name: "intro", Type: 2, Mode: ModeToWhite, Reverse: true, EncoreSwizzle: true}
	require.NoError(t, seq.Start(def))
	assert.Equal(t, 3, seq.Length())
	assert.Equal(t, def, seq.Definition())

	var frames []int
	for {
		p := seq.Current()
		assert.Equal(t, ModeToWhite, p.Mode)
		assert.Equal(t, 2, p.Type)
		assert.True(t, p.Reverse)
		assert.True(t, p.EncoreSwizzle)
		assert.Equal(t, uint32(320), p.Width)
		frames = append(frames, p.Frame)
		if !seq.Advance() {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, frames)
	assert.True(t, seq.Done())
	assert.Equal(t, uint64(3), seq.Tic())
	assert.False(t, seq.Advance())

	idle := seq.Current()
	_, ok := NewResolver(store).ResolveParameters(idle)
	assert.False(t, ok)
}

func TestSequencerStartErrors(t *testing.T) {
	seq := NewSequencer(assets.NewMemoryStore())
	err := seq.Start(Definition{Name: "missing", Type: 9})
	assert.True(t, errors.Is(err, core.ErrLumpNotFound))

	assert.Error(t, seq.Start(Definition{Name: "bad", Type: 100}))
	assert.False(t, seq.Running())
}

func TestSequencerStop(t *testing.T) {
	seq := NewSequencer(storeWithFrames(t, 0, 5))
	require.NoError(t, seq.Start(Definition{Type: 0}))
	seq.Advance()
	seq.Stop()
	assert.True(t, seq.Done())
	assert.Equal(t, MaxTypes, seq.Current().Type)
}
