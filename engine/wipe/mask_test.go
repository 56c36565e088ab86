package wipe

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyStore records every call made to it.
type spyStore struct {
	inner   assets.LumpStore
	exists  int
	lengths int
	reads   int
	readErr error
}

func (s *spyStore) Exists(name string) bool {
	s.exists++
	return s.inner.Exists(name)
}

func (s *spyStore) Length(name string) int {
	s.lengths++
	return s.inner.Length(name)
}

func (s *spyStore) Read(name string) ([]byte, error) {
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.inner.Read(name)
}

func (s *spyStore) calls() int {
	return s.exists + s.lengths + s.reads
}

func levels(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % (MaxFadeLevel + 1))
	}
	return data
}

func TestLumpName(t *testing.T) {
	assert.Equal(t, "FADE0307", LumpName(3, 7))
	assert.Equal(t, "FADE0312", LumpName(3, 12))
	assert.Equal(t, "FADE9999", LumpName(99, 99))
	assert.Equal(t, "FADE0000", LumpName(0, 0))
}

func TestMaskDimensionsTable(t *testing.T) {
	tests := []struct {
		length int
		width  uint32
		height uint32
	}{
		{256000, 640, 400},
		{64000, 320, 200},
		{16000, 160, 100},
		{4000, 80, 50},
	}
	for _, tt := range tests {
		w, h, ok := MaskDimensions(tt.length)
		require.True(t, ok, "length %d", tt.length)
		assert.Equal(t, tt.width, w)
		assert.Equal(t, tt.height, h)

		length, ok := MaskLength(tt.width, tt.height)
		require.True(t, ok)
		assert.Equal(t, tt.length, length)
	}

	for _, length := range []int{-1, 0, 1, 3999, 4001, 64001, 128000, 255999, 512000} {
		_, _, ok := MaskDimensions(length)
		assert.False(t, ok, "length %d", length)
	}
}

func TestResolveEverySupportedLength(t *testing.T) {
	for i, length := range []int{256000, 64000, 16000, 4000} {
		store := assets.NewMemoryStore()
		require.NoError(t, store.Put(LumpName(i, 0), levels(length)))

		mask, ok := NewResolver(store).Resolve(i, 0, false)
		require.True(t, ok)
		w, h, _ := MaskDimensions(length)
		assert.Equal(t, w, mask.Width)
		assert.Equal(t, h, mask.Height)
		assert.Len(t, mask.Data, length)
		assert.Equal(t, LumpName(i, 0), mask.Name)
	}
}

func TestResolveRejectsUnknownLengths(t *testing.T) {
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put(LumpName(1, 0), []byte{}))
	require.NoError(t, store.Put(LumpName(1, 1), levels(64001)))
	require.NoError(t, store.Put(LumpName(1, 2), levels(10)))

	r := NewResolver(store)
	for frame := 0; frame < 3; frame++ {
		mask, ok := r.Resolve(1, frame, false)
		assert.False(t, ok, "frame %d", frame)
		assert.Nil(t, mask)
	}
}

func TestResolveMissingLump(t *testing.T) {
	spy := &spyStore{inner: assets.NewMemoryStore()}
	_, ok := NewResolver(spy).Resolve(4, 4, false)
	assert.False(t, ok)
	assert.Equal(t, 1, spy.exists)
	assert.Zero(t, spy.reads)
}

func TestResolveReadFailure(t *testing.T) {
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put(LumpName(2, 0), levels(4000)))
	spy := &spyStore{inner: store, readErr: errors.New("disk on fire")}

	_, ok := NewResolver(spy).Resolve(2, 0, false)
	assert.False(t, ok)
	assert.Equal(t, 1, spy.reads)
}

func TestResolveRangeRejectionSkipsStore(t *testing.T) {
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put("FADE0000", levels(4000)))
	spy := &spyStore{inner: store}
	r := NewResolver(spy)

	cases := [][2]int{{100, 0}, {0, 100}, {150, 0}, {150, 150}, {-1, 0}, {0, -1}, {1000, 5}}
	for _, c := range cases {
		mask, ok := r.Resolve(c[0], c[1], false)
		assert.False(t, ok, "type %d frame %d", c[0], c[1])
		assert.Nil(t, mask)
	}
	assert.Zero(t, spy.calls())
}

func TestResolveReverse(t *testing.T) {
	original := levels(4000)
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put(LumpName(7, 3), original))
	r := NewResolver(store)

	forward, ok := r.Resolve(7, 3, false)
	require.True(t, ok)
	assert.Equal(t, original, forward.Data)

	reversed, ok := r.Resolve(7, 3, true)
	require.True(t, ok)
	for i := range original {
		assert.Equal(t, MaxFadeLevel-original[i], reversed.Data[i])
	}

	// the store copy is untouched by the in-place reverse
	stored, err := store.Read(LumpName(7, 3))
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestReverseIsAnInvolution(t *testing.T) {
	data := levels(33 * 10)
	original := append([]byte(nil), data...)

	ReverseMask(data)
	assert.NotEqual(t, original, data)
	ReverseMask(data)
	assert.Equal(t, original, data)
}

func TestReverseSaturates(t *testing.T) {
	data := []byte{0, 32, 33, 200, 255}
	ReverseMask(data)
	assert.Equal(t, []byte{32, 0, 0, 0, 0}, data)
}

func TestResolveParameters(t *testing.T) {
	store := assets.NewMemoryStore()
	require.NoError(t, store.Put("FADE0312", levels(64000)))

	mask, ok := NewResolver(store).ResolveParameters(Parameters{Mode: ModeToBlack, Type: 3, Frame: 12})
	require.True(t, ok)
	assert.Equal(t, uint32(320), mask.Width)
	assert.Equal(t, uint32(200), mask.Height)
	assert.Equal(t, levels(64000), mask.Data)

	mask.Clear()
	assert.Empty(t, mask.Data)
}

func TestResolveNilStore(t *testing.T) {
	_, ok := NewResolver(nil).Resolve(0, 0, false)
	assert.False(t, ok)
}
