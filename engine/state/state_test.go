package state

import (
	"testing"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/config"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/menu"
	"github.com/Carmen-Shannon/dolly-go/engine/persist"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMenu always requests the same state.
type stubMenu struct {
	kind common.StateKind
}

func (m stubMenu) SelectFromDirection(mgl32.Vec2) common.StateKind {
	return m.kind
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return Deps{
		Menu: menu.NewRadialSelector(),
		Log:  zerolog.Nop(),
		Cfg:  cfg,
	}
}

func triggerFrame(pos mgl32.Vec3) input.Frame {
	return input.Frame{
		Dominant: input.Hand{
			RawHand:        input.RawHand{Position: pos, TriggerHeld: true},
			TriggerPressed: true,
		},
		Delta: 0.016,
	}
}

// menuExitFrame fires a recessive axis edge pointing at the menu's north
// sector (Locomotion).
func menuExitFrame() input.Frame {
	return input.Frame{
		Recessive: input.Hand{
			RawHand:        input.RawHand{Axis: mgl32.Vec2{0, 1}},
			AxisLeftCenter: true,
		},
		Delta: 0.016,
	}
}

func newTestPair(deps Deps, y float32) rig.TrackPair {
	opts := deps.Cfg.TrackOptions()
	position := track.NewTrack(mgl32.Vec3{0, y, 0}, mgl32.Vec3{10, y, 0}, opts...)
	look := track.NewTrack(mgl32.Vec3{0, y, 5}, mgl32.Vec3{10, y, 5}, opts...)
	pair := rig.NewTrackPair(position, look)
	pair.Refresh()
	return pair
}

// --- Creation ---

func TestCreation_FourPlacementsCreateOnePair(t *testing.T) {
	deps := testDeps(t)
	s := NewCreationState(deps)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))

	placements := []mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {0, 0, 5}, {10, 0, 5}}
	for _, p := range placements {
		assert.Equal(t, common.StateKindCreation, s.Tick(triggerFrame(p), reg))
	}

	require.Equal(t, 1, reg.Len())
	pair := reg.Pair(0)
	assert.Equal(t, float32(0), pair.FrustumLocation())

	posCPs := pair.Position().ControlPoints()
	assert.Equal(t, placements[0], posCPs[0])
	assert.Equal(t, placements[1], posCPs[1])
	lookCPs := pair.Look().ControlPoints()
	assert.Equal(t, placements[2], lookCPs[0])
	assert.Equal(t, placements[3], lookCPs[1])

	assert.NotEmpty(t, pair.Position().Polyline())
}

func TestCreation_ExitDiscardsPartialPlacements(t *testing.T) {
	deps := testDeps(t)
	s := NewCreationState(deps)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))

	s.Tick(triggerFrame(mgl32.Vec3{0, 0, 0}), reg)
	s.Tick(triggerFrame(mgl32.Vec3{1, 0, 0}), reg)

	assert.Equal(t, common.StateKindLocomotion, s.Tick(menuExitFrame(), reg))
	assert.Equal(t, 0, reg.Len())

	// Re-entering starts a fresh sequence: two more placements do not combine
	// with the discarded ones.
	s.Tick(triggerFrame(mgl32.Vec3{2, 0, 0}), reg)
	s.Tick(triggerFrame(mgl32.Vec3{3, 0, 0}), reg)
	assert.Equal(t, 0, reg.Len())
}

// --- Edit ---

func TestEdit_TriggerGrabsAndDragsControlPoint(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	reg.Add(newTestPair(deps, 0))

	near := mgl32.Vec3{0.05, 0, 0} // within grab radius of the first endpoint
	s.Tick(triggerFrame(near), reg)

	g := s.Held(handDominant)
	require.NotNil(t, g)
	assert.Equal(t, common.PointControl, g.Kind)
	assert.Equal(t, common.RolePosition, g.Role)
	assert.Equal(t, 0, g.Index)

	// Dragging: the point follows the hand while the trigger stays held.
	dragged := mgl32.Vec3{1, 2, 3}
	s.Tick(input.Frame{
		Dominant: input.Hand{RawHand: input.RawHand{Position: dragged, TriggerHeld: true}},
		Delta:    0.016,
	}, reg)
	assert.Equal(t, dragged, reg.Pair(0).Position().ControlPoint(0))

	// Releasing the trigger drops the hold.
	s.Tick(input.Frame{Delta: 0.016}, reg)
	assert.Nil(t, s.Held(handDominant))
}

func TestEdit_GripGrabsCheckpointAndMirrorsEdits(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	pair := newTestPair(deps, 0)
	idx := pair.AddCheckpointAt(0.5)
	pair.Refresh()
	reg.Add(pair)

	// Grip near the interior checkpoint (at x=5 on the position track).
	grab := input.Frame{
		Dominant: input.Hand{
			RawHand:     input.RawHand{Position: mgl32.Vec3{5.05, 0, 0}, GripHeld: true},
			GripPressed: true,
		},
		Delta: 0.016,
	}
	s.Tick(grab, reg)

	g := s.Held(handDominant)
	require.NotNil(t, g)
	assert.Equal(t, common.PointCheckpoint, g.Kind)
	assert.Equal(t, idx, g.Index)

	// Holding grip retargets the checkpoint toward the hand's projection and
	// mirrors the move onto the look track.
	s.Tick(input.Frame{
		Dominant: input.Hand{RawHand: input.RawHand{Position: mgl32.Vec3{8, 0, 0}, GripHeld: true}},
		Delta:    0.016,
	}, reg)

	cps := pair.Position().Checkpoints()
	assert.InDelta(t, 0.8, cps[1].T, 0.011)
	assert.True(t, pair.Synchronized())
}

func TestEdit_DeletePairClearsHoldingHand(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	pair := newTestPair(deps, 0)
	pair.AddCheckpointAt(0.5)
	pair.Refresh()
	reg.Add(pair)

	s.Tick(input.Frame{
		Dominant: input.Hand{
			RawHand:     input.RawHand{Position: mgl32.Vec3{5, 0, 0}, GripHeld: true},
			GripPressed: true,
		},
		Delta: 0.016,
	}, reg)
	require.NotNil(t, s.Held(handDominant))

	// Recessive secondary deletes the whole pair the held point belongs to.
	s.Tick(input.Frame{
		Dominant:  input.Hand{RawHand: input.RawHand{Position: mgl32.Vec3{5, 0, 0}, GripHeld: true}},
		Recessive: input.Hand{SecondaryPressed: true, RawHand: input.RawHand{SecondaryHeld: true}},
		Delta:     0.016,
	}, reg)

	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, s.Held(handDominant))
	assert.Nil(t, s.Held(handRecessive))
}

func TestEdit_DeletePointReindexesSiblingGrab(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	pair := newTestPair(deps, 0)
	pair.AddCheckpointAt(0.3)
	pair.AddCheckpointAt(0.6)
	pair.Refresh()
	reg.Add(pair)

	// Each hand grips its own interior checkpoint.
	s.Tick(input.Frame{
		Dominant: input.Hand{
			RawHand:     input.RawHand{Position: mgl32.Vec3{3.05, 0, 0}, GripHeld: true},
			GripPressed: true,
		},
		Recessive: input.Hand{
			RawHand:     input.RawHand{Position: mgl32.Vec3{6.05, 0, 0}, GripHeld: true},
			GripPressed: true,
		},
		Delta: 0.016,
	}, reg)
	require.NotNil(t, s.Held(handDominant))
	require.NotNil(t, s.Held(handRecessive))
	require.Equal(t, 1, s.Held(handDominant).Index)
	require.Equal(t, 2, s.Held(handRecessive).Index)

	// Recessive primary deletes the dominant hand's checkpoint; the
	// recessive token must slide down to the vacated slot.
	s.Tick(input.Frame{
		Dominant: input.Hand{RawHand: input.RawHand{Position: mgl32.Vec3{3, 0, 0}, GripHeld: true}},
		Recessive: input.Hand{
			RawHand:        input.RawHand{Position: mgl32.Vec3{6, 0, 0}, GripHeld: true, PrimaryHeld: true},
			PrimaryPressed: true,
		},
		Delta: 0.016,
	}, reg)

	assert.Nil(t, s.Held(handDominant))
	rg := s.Held(handRecessive)
	require.NotNil(t, rg)
	assert.Equal(t, 1, rg.Index)

	cps := pair.Position().Checkpoints()
	require.Len(t, cps, 3)
	assert.InDelta(t, 0.6, cps[1].T, 0.011)
	assert.True(t, pair.Synchronized())

	// The surviving hand's next speed scale lands on its own checkpoint, not
	// the t=1 endpoint that now occupies the stale index.
	min, max := pair.Position().SpeedBounds()
	mid := (min + max) / 2
	s.Tick(input.Frame{
		Recessive: input.Hand{
			RawHand: input.RawHand{Position: mgl32.Vec3{6, 0, 0}, GripHeld: true, Axis: mgl32.Vec2{0, 1}},
		},
		Delta: 0.5,
	}, reg)

	cps = pair.Position().Checkpoints()
	assert.InDelta(t, mid+1*deps.Cfg.SpeedSensitivity*0.5, cps[1].Speed, 1e-4)
	assert.InDelta(t, mid, cps[2].Speed, 1e-6)
}

func TestEdit_LastGrabStealsFromOtherHand(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	reg.Add(newTestPair(deps, 0))

	near := mgl32.Vec3{0.05, 0, 0}
	s.Tick(triggerFrame(near), reg)
	require.NotNil(t, s.Held(handDominant))

	// Recessive grabs the same point: ownership transfers.
	s.Tick(input.Frame{
		Dominant: input.Hand{RawHand: input.RawHand{Position: near, TriggerHeld: true}},
		Recessive: input.Hand{
			RawHand:        input.RawHand{Position: near, TriggerHeld: true},
			TriggerPressed: true,
		},
		Delta: 0.016,
	}, reg)

	assert.Nil(t, s.Held(handDominant))
	require.NotNil(t, s.Held(handRecessive))
}

func TestEdit_ExitClearsSelections(t *testing.T) {
	deps := testDeps(t)
	s := NewEditState(deps).(*editState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	reg.Add(newTestPair(deps, 0))

	s.Tick(triggerFrame(mgl32.Vec3{0.05, 0, 0}), reg)
	require.NotNil(t, s.Held(handDominant))

	assert.Equal(t, common.StateKindLocomotion, s.Tick(menuExitFrame(), reg))
	assert.Nil(t, s.Held(handDominant))
}

// --- View ---

func cycleFrame(up bool) input.Frame {
	y := float32(1)
	if !up {
		y = -1
	}
	return input.Frame{
		Dominant: input.Hand{
			RawHand:        input.RawHand{Axis: mgl32.Vec2{0, y}},
			AxisLeftCenter: true,
		},
		Delta: 0.016,
	}
}

func TestView_CyclesCircularlyThroughPairs(t *testing.T) {
	deps := testDeps(t)
	s := NewViewState(deps).(*viewState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	for i := 0; i < 3; i++ {
		reg.Add(newTestPair(deps, float32(i)))
	}

	s.Enter()
	assert.Equal(t, 0, s.Selected())

	s.Tick(cycleFrame(true), reg)
	assert.Equal(t, 1, s.Selected())
	s.Tick(cycleFrame(true), reg)
	assert.Equal(t, 2, s.Selected())
	s.Tick(cycleFrame(true), reg)
	assert.Equal(t, 0, s.Selected())

	// Backward edge from 0 wraps to the last pair.
	s.Tick(cycleFrame(false), reg)
	assert.Equal(t, 2, s.Selected())
}

func TestView_EmptyRegistryRedirectsToLocomotion(t *testing.T) {
	deps := testDeps(t)
	s := NewViewState(deps)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))

	s.Enter()
	assert.Equal(t, common.StateKindLocomotion, s.Tick(input.Frame{Delta: 0.016}, reg))
}

func TestView_PoseFollowsSelectedPair(t *testing.T) {
	deps := testDeps(t)
	s := NewViewState(deps).(*viewState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	pair := newTestPair(deps, 0)
	pair.SetFrustumLocation(0.5)
	reg.Add(pair)

	s.Enter()
	s.Tick(input.Frame{Delta: 0.016}, reg)

	eye, target, ok := s.Pose()
	require.True(t, ok)
	assert.InDelta(t, 5, eye.X(), 1e-4)
	assert.InDelta(t, 5, target.Z(), 1e-4)
}

// --- Locomotion ---

func TestLocomotion_CastGrowsAndRelocatesOnRelease(t *testing.T) {
	deps := testDeps(t)
	var relocated *mgl32.Vec3
	deps.Relocate = func(p mgl32.Vec3) { relocated = &p }

	s := NewLocomotionState(deps).(*locomotionState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))

	hold := input.Frame{
		Dominant: input.Hand{
			RawHand: input.RawHand{
				Position:    mgl32.Vec3{0, 1, 0},
				Forward:     mgl32.Vec3{0, 0, -1},
				TriggerHeld: true,
			},
			TriggerPressed: true,
		},
		Delta: 0.5,
	}
	s.Tick(hold, reg)

	marker, casting := s.Casting()
	require.True(t, casting)
	expected := float32(0.5) * deps.Cfg.CastGrowthRate
	assert.InDelta(t, -expected, marker.Z(), 1e-4)

	// Release relocates to the marker and ends the cast.
	release := hold
	release.Dominant.TriggerPressed = false
	release.Dominant.TriggerHeld = false
	s.Tick(release, reg)

	require.NotNil(t, relocated)
	assert.InDelta(t, -expected, relocated.Z(), 1e-4)
	_, casting = s.Casting()
	assert.False(t, casting)
}

func TestLocomotion_OnlyOneHandCasts(t *testing.T) {
	deps := testDeps(t)
	s := NewLocomotionState(deps).(*locomotionState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))

	both := input.Frame{
		Dominant: input.Hand{
			RawHand:        input.RawHand{Position: mgl32.Vec3{1, 0, 0}, Forward: mgl32.Vec3{0, 0, -1}, TriggerHeld: true},
			TriggerPressed: true,
		},
		Recessive: input.Hand{
			RawHand:        input.RawHand{Position: mgl32.Vec3{-1, 0, 0}, Forward: mgl32.Vec3{0, 0, -1}, TriggerHeld: true},
			TriggerPressed: true,
		},
		Delta: 0.1,
	}
	s.Tick(both, reg)
	assert.Equal(t, handDominant, s.castingHand)

	// The recessive hand stays ignored while the dominant cast is active.
	s.Tick(both, reg)
	assert.Equal(t, handDominant, s.castingHand)
}

// --- File ---

func fileDeps(t *testing.T) Deps {
	t.Helper()
	deps := testDeps(t)
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	deps.Store = store
	return deps
}

func TestFile_SaveThenLoadRoundTrip(t *testing.T) {
	deps := fileDeps(t)
	s := NewFileState(deps).(*fileState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	reg.Add(newTestPair(deps, 0))

	s.Enter()

	// Save to the synthetic slot.
	s.Tick(input.Frame{
		Dominant: input.Hand{PrimaryPressed: true, RawHand: input.RawHand{PrimaryHeld: true}},
		Delta:    0.016,
	}, reg)
	require.Len(t, s.listing, 1)

	// Mutate the registry, select the file, load it back.
	reg.Clear()
	reg.Add(newTestPair(deps, 9))
	reg.Add(newTestPair(deps, 10))

	s.Tick(cycleFrame(true), reg) // select the saved file
	require.Equal(t, 1, s.selected)

	s.Tick(input.Frame{
		Dominant: input.Hand{SecondaryPressed: true, RawHand: input.RawHand{SecondaryHeld: true}},
		Delta:    0.016,
	}, reg)

	require.Equal(t, 1, reg.Len())
	pair := reg.Pair(0)
	assert.Equal(t, float32(0), pair.FrustumLocation())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, pair.Position().ControlPoint(0))
	assert.NotEmpty(t, pair.Position().Polyline())
}

func TestFile_LoadStraightTrackWithDefaultSpeeds(t *testing.T) {
	deps := fileDeps(t)

	// A file with one pair of bare two-endpoint tracks and no interior
	// checkpoints reconstructs straight tracks with midpoint speeds.
	st := common.TrackSaveState{
		ControlPointPositions: [][3]float32{{0, 0, 0}, {4, 0, 0}},
	}
	require.NoError(t, deps.Store.Write(deps.Store.NextPath(), []common.TrackSaveState{st, st}))

	s := NewFileState(deps).(*fileState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	s.Enter()

	s.Tick(cycleFrame(true), reg)
	s.Tick(input.Frame{
		Dominant: input.Hand{SecondaryPressed: true, RawHand: input.RawHand{SecondaryHeld: true}},
		Delta:    0.016,
	}, reg)

	require.Equal(t, 1, reg.Len())
	tr := reg.Pair(0).Position()
	require.Len(t, tr.ControlPoints(), 2)
	cps := tr.Checkpoints()
	require.Len(t, cps, 2)
	min, max := tr.SpeedBounds()
	assert.InDelta(t, (min+max)/2, cps[0].Speed, 1e-6)
	assert.InDelta(t, (min+max)/2, cps[1].Speed, 1e-6)

	// Straight segment: midpoint sits halfway between the endpoints.
	mid := tr.PositionAt(0.5)
	assert.InDelta(t, 2, mid.X(), 1e-5)
}

func TestFile_DeleteRevertsSelectionToNewSlot(t *testing.T) {
	deps := fileDeps(t)
	require.NoError(t, deps.Store.Write(deps.Store.NextPath(), nil))

	s := NewFileState(deps).(*fileState)
	reg := rig.NewRegistry(rig.WithRefreshWorkers(1))
	s.Enter()
	require.Len(t, s.listing, 1)

	s.Tick(cycleFrame(true), reg)
	require.Equal(t, 1, s.selected)

	s.Tick(input.Frame{
		Recessive: input.Hand{SecondaryPressed: true, RawHand: input.RawHand{SecondaryHeld: true, GripHeld: true}},
		Delta:     0.016,
	}, reg)

	assert.Equal(t, 0, s.selected)
	assert.Empty(t, s.listing)
	assert.Empty(t, deps.Store.List())
}
