package passes

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseOrder(t *testing.T) {
	assert.Equal(t, PhasePrepass, PhaseIdle.next())
	assert.Equal(t, PhaseTransfer, PhasePrepass.next())
	assert.Equal(t, PhaseGraphics, PhaseTransfer.next())
	assert.Equal(t, PhasePostpass, PhaseGraphics.next())
	assert.Equal(t, PhasePrepass, PhasePostpass.next())
	assert.Equal(t, "graphics", PhaseGraphics.String())
}

func TestExecuteRunsPhasesInOrder(t *testing.T) {
	r := newBackend(t, 4, 4)
	var log []string
	e := NewExecutor(r, newRecordingPass("a", &log))
	require.NoError(t, e.Add(newRecordingPass("b", &log)))

	require.NoError(t, e.Execute())
	assert.Equal(t, []string{
		"a:prepass", "b:prepass",
		"a:transfer", "b:transfer",
		"a:graphics", "b:graphics",
		"a:postpass", "b:postpass",
	}, log)
	assert.Equal(t, PhasePostpass, e.Phase())
	assert.Equal(t, uint64(1), r.FrameNumber())

	require.NoError(t, e.Execute())
	assert.Equal(t, uint64(2), r.FrameNumber())
	assert.Len(t, e.Passes(), 2)

	e.Release()
	assert.Equal(t, []string{"a:release", "b:release"}, log[len(log)-2:])
}

func TestStepRejectsOutOfOrderPhases(t *testing.T) {
	r := newBackend(t, 4, 4)
	var log []string
	e := NewExecutor(r, newRecordingPass("a", &log))

	for _, phase := range []Phase{PhaseTransfer, PhaseGraphics, PhasePostpass} {
		err := e.Step(phase)
		assert.True(t, errors.Is(err, core.ErrPhaseOrder), "%s from idle", phase)
	}
	assert.Empty(t, log)

	require.NoError(t, e.Step(PhasePrepass))
	assert.True(t, errors.Is(e.Step(PhasePrepass), core.ErrPhaseOrder))
	assert.True(t, errors.Is(e.Step(PhaseGraphics), core.ErrPhaseOrder))
	assert.True(t, errors.Is(e.Execute(), core.ErrPhaseOrder))
	assert.True(t, errors.Is(e.Add(newRecordingPass("late", &log)), core.ErrPhaseOrder))

	require.NoError(t, e.Step(PhaseTransfer))
	require.NoError(t, e.Step(PhaseGraphics))
	require.NoError(t, e.Step(PhasePostpass))
	assert.Equal(t, []string{"a:prepass", "a:transfer", "a:graphics", "a:postpass"}, log)
}

func TestPostpassRunsAfterFailure(t *testing.T) {
	r := newBackend(t, 4, 4)
	var log []string
	failing := newRecordingPass("a", &log)
	failing.fail = PhaseTransfer
	other := newRecordingPass("b", &log)
	e := NewExecutor(r, failing, other)

	err := e.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errRefused))
	assert.Contains(t, err.Error(), "pass 'a' transfer")
	assert.Equal(t, 1, other.calls[PhaseTransfer], "later passes still run")
	assert.Equal(t, 1, failing.calls[PhasePostpass])
	assert.Equal(t, 1, other.calls[PhasePostpass])

	// the backend frame was closed, so the next frame starts cleanly
	failing.fail = PhaseIdle
	require.NoError(t, e.Execute())
	assert.Equal(t, 2, other.calls[PhasePostpass])
}
