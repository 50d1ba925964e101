package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTracker_FirstUpdateReportsNoEdges(t *testing.T) {
	var tr Tracker

	f := tr.Update(RawHand{TriggerHeld: true}, RawHand{}, 0.016)
	assert.False(t, f.Dominant.TriggerPressed)
	assert.True(t, f.Dominant.TriggerHeld)
}

func TestTracker_DerivesButtonEdges(t *testing.T) {
	var tr Tracker
	tr.Update(RawHand{}, RawHand{}, 0.016)

	f := tr.Update(RawHand{TriggerHeld: true, PrimaryHeld: true}, RawHand{GripHeld: true}, 0.016)
	assert.True(t, f.Dominant.TriggerPressed)
	assert.True(t, f.Dominant.PrimaryPressed)
	assert.False(t, f.Dominant.GripPressed)
	assert.True(t, f.Recessive.GripPressed)

	// Held but not newly pressed on the next tick.
	f = tr.Update(RawHand{TriggerHeld: true, PrimaryHeld: true}, RawHand{GripHeld: true}, 0.016)
	assert.False(t, f.Dominant.TriggerPressed)
	assert.True(t, f.Dominant.TriggerHeld)
	assert.False(t, f.Recessive.GripPressed)
}

func TestTracker_AxisEdgeOnLeavingCenter(t *testing.T) {
	var tr Tracker
	tr.Update(RawHand{}, RawHand{}, 0.016)

	f := tr.Update(RawHand{}, RawHand{Axis: mgl32.Vec2{0, 1}}, 0.016)
	assert.True(t, f.Recessive.AxisLeftCenter)
	assert.False(t, f.Recessive.AxisCentered())

	// Deflection held: no new edge.
	f = tr.Update(RawHand{}, RawHand{Axis: mgl32.Vec2{0, 0.9}}, 0.016)
	assert.False(t, f.Recessive.AxisLeftCenter)

	// Back to center, then out again: new edge.
	tr.Update(RawHand{}, RawHand{}, 0.016)
	f = tr.Update(RawHand{}, RawHand{Axis: mgl32.Vec2{0.8, 0}}, 0.016)
	assert.True(t, f.Recessive.AxisLeftCenter)
}

func TestHand_AxisCenteredDeadZone(t *testing.T) {
	h := Hand{RawHand: RawHand{Axis: mgl32.Vec2{0.1, 0.1}}}
	assert.True(t, h.AxisCentered())

	h.Axis = mgl32.Vec2{0.5, 0.5}
	assert.False(t, h.AxisCentered())
}
