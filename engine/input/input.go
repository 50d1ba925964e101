// Package input defines the dual-hand snapshot contract the user states
// consume, and the sources that produce it. A source reports raw per-hand
// device state each tick; the tracker derives the "became pressed this tick"
// edges by diffing against the previous tick.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
)

// axisDeadZone is the radius below which the 2-D axis counts as centered.
const axisDeadZone float32 = 0.25

// RawHand is one hand's device state for a single tick, as reported by a
// Source: continuous axes and scalars plus boolean button states. Edge
// detection is not the source's job; the Tracker derives edges.
type RawHand struct {
	// Position is the hand's world position.
	Position mgl32.Vec3
	// Forward is the hand's pointing direction (unit length).
	Forward mgl32.Vec3
	// Axis is the 2-D thumbstick/directional input in [-1, 1]².
	Axis mgl32.Vec2
	// Trigger and Grip are the continuous squeeze scalars in [0, 1].
	Trigger float32
	Grip    float32

	// Boolean button states.
	TriggerHeld   bool
	GripHeld      bool
	PrimaryHeld   bool
	SecondaryHeld bool
}

// Hand is one hand's full snapshot for a tick: the raw state plus the derived
// just-pressed edges.
type Hand struct {
	RawHand

	// TriggerPressed is true only on the tick the trigger became held.
	TriggerPressed bool
	// GripPressed is true only on the tick the grip became held.
	GripPressed bool
	// PrimaryPressed is true only on the tick the primary button became held.
	PrimaryPressed bool
	// SecondaryPressed is true only on the tick the secondary button became held.
	SecondaryPressed bool
	// AxisLeftCenter is true only on the tick the axis left the dead zone.
	AxisLeftCenter bool
}

// AxisCentered reports whether the hand's axis currently rests inside the
// dead zone.
//
// Returns:
//   - bool: true when the axis is centered
func (h Hand) AxisCentered() bool {
	return h.Axis.Len() <= axisDeadZone
}

// Frame is the complete dual-hand input snapshot for one tick. Dominant is
// always processed before recessive by the user states.
type Frame struct {
	Dominant  Hand
	Recessive Hand
	// Delta is the elapsed time since the previous tick, in seconds.
	Delta float32
}

// Source produces one input frame per tick.
type Source interface {
	// Poll gathers the current device state and returns the edge-annotated
	// frame for this tick.
	//
	// Returns:
	//   - Frame: the dual-hand snapshot
	Poll() Frame

	// Close releases any device resources held by the source.
	Close()
}

// Tracker converts raw per-hand states into edge-annotated snapshots by
// remembering the previous tick's state per hand. Sources embed one and feed
// it their raw reads.
type Tracker struct {
	prevDominant  RawHand
	prevRecessive RawHand
	primed        bool
}

// Update derives this tick's Frame from the two raw hand states and the
// elapsed time. The first call reports no edges (nothing to diff against).
//
// Parameters:
//   - dominant: the dominant hand's raw state
//   - recessive: the recessive hand's raw state
//   - delta: elapsed time since the previous tick, in seconds
//
// Returns:
//   - Frame: the edge-annotated dual-hand snapshot
func (tr *Tracker) Update(dominant, recessive RawHand, delta float32) Frame {
	f := Frame{
		Dominant:  tr.deriveHand(dominant, tr.prevDominant),
		Recessive: tr.deriveHand(recessive, tr.prevRecessive),
		Delta:     delta,
	}
	tr.prevDominant = dominant
	tr.prevRecessive = recessive
	tr.primed = true
	return f
}

// deriveHand computes the edge flags for now against prev.
func (tr *Tracker) deriveHand(now, prev RawHand) Hand {
	h := Hand{RawHand: now}
	if !tr.primed {
		return h
	}
	h.TriggerPressed = now.TriggerHeld && !prev.TriggerHeld
	h.GripPressed = now.GripHeld && !prev.GripHeld
	h.PrimaryPressed = now.PrimaryHeld && !prev.PrimaryHeld
	h.SecondaryPressed = now.SecondaryHeld && !prev.SecondaryHeld
	h.AxisLeftCenter = now.Axis.Len() > axisDeadZone && prev.Axis.Len() <= axisDeadZone
	return h
}
