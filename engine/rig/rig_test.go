package rig

import (
	"testing"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair() TrackPair {
	position := track.NewTrack(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, track.WithSpeedBounds(0, 1))
	look := track.NewTrack(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{10, 0, 5}, track.WithSpeedBounds(0, 1))
	return NewTrackPair(position, look)
}

func TestTrackPair_MirroredCheckpointEdits(t *testing.T) {
	p := newPair()

	idx := p.AddCheckpointAt(0.5)
	assert.Equal(t, 1, idx)
	assert.True(t, p.Synchronized())

	newIdx := p.MoveCheckpoint(idx, 0.8)
	assert.Equal(t, 1, newIdx)
	assert.True(t, p.Synchronized())

	p.ScaleCheckpointSpeed(newIdx, 0.25)
	assert.InDelta(t, p.Position().CheckpointSpeed(newIdx), p.Look().CheckpointSpeed(newIdx), 1e-6)

	p.DeleteCheckpoint(newIdx)
	assert.True(t, p.Synchronized())
	assert.Len(t, p.Position().Checkpoints(), 2)
	assert.Len(t, p.Look().Checkpoints(), 2)
}

func TestTrackPair_AdvanceWrapsPastOne(t *testing.T) {
	p := newPair()
	p.Position().SetCheckpointSpeed(0, 0.5)
	p.Position().SetCheckpointSpeed(1, 0.5)

	p.SetFrustumLocation(0.9)
	p.Advance(0.4) // 0.9 + 0.5*0.4 = 1.1 -> wraps to 0.1
	assert.InDelta(t, 0.1, p.FrustumLocation(), 1e-5)
}

func TestTrackPair_CameraPoseSamplesBothTracks(t *testing.T) {
	p := newPair()
	p.SetFrustumLocation(0.5)

	eye, target := p.CameraPose()
	assert.InDelta(t, 5, eye.X(), 1e-5)
	assert.InDelta(t, 0, eye.Z(), 1e-5)
	assert.InDelta(t, 5, target.X(), 1e-5)
	assert.InDelta(t, 5, target.Z(), 1e-5)
}

func TestRegistry_AddRemoveClear(t *testing.T) {
	r := NewRegistry(WithRefreshWorkers(1))

	a, b := newPair(), newPair()
	r.Add(a)
	r.Add(b)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, a.ID(), r.Pair(0).ID())

	r.Remove(0)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, b.ID(), r.Pair(0).ID())

	r.Remove(5) // silently rejected
	assert.Equal(t, 1, r.Len())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Pair(0))
}

func TestRegistry_AdvanceAllMovesEveryCursor(t *testing.T) {
	r := NewRegistry(WithRefreshWorkers(1))
	a, b := newPair(), newPair()
	for _, p := range []TrackPair{a, b} {
		p.Position().SetCheckpointSpeed(0, 0.5)
		p.Position().SetCheckpointSpeed(1, 0.5)
		r.Add(p)
	}

	r.AdvanceAll(0.1)
	assert.InDelta(t, 0.05, a.FrustumLocation(), 1e-5)
	assert.InDelta(t, 0.05, b.FrustumLocation(), 1e-5)
}

func TestRegistry_RefreshAllRebuildsCaches(t *testing.T) {
	r := NewRegistry(WithRefreshWorkers(2))
	a, b := newPair(), newPair()
	r.Add(a)
	r.Add(b)

	r.RefreshAll()

	assert.NotEmpty(t, a.Position().Polyline())
	assert.NotEmpty(t, a.Look().Polyline())
	assert.NotEmpty(t, b.Position().Polyline())
}

func TestRegistry_SaveStatesRoundTrip(t *testing.T) {
	r := NewRegistry(WithRefreshWorkers(1))
	p := newPair()
	p.AddCheckpointAt(0.4)
	r.Add(p)

	states := r.SaveStates()
	require.Len(t, states, 2)

	back := NewRegistry(WithRefreshWorkers(1))
	require.NoError(t, back.LoadSaveStates(states, track.WithSpeedBounds(0, 1)))
	require.Equal(t, 1, back.Len())

	loaded := back.Pair(0)
	assert.Equal(t, float32(0), loaded.FrustumLocation())
	assert.Equal(t, p.Position().ControlPoints(), loaded.Position().ControlPoints())
	assert.Equal(t, p.Look().ControlPoints(), loaded.Look().ControlPoints())
	assert.True(t, loaded.Synchronized())
}

func TestRegistry_LoadSaveStatesRejectsOddCount(t *testing.T) {
	r := NewRegistry(WithRefreshWorkers(1))
	err := r.LoadSaveStates([]common.TrackSaveState{{}})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}
