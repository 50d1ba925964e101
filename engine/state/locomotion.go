package state

import (
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
)

// Caster is the optional interface a render collaborator asserts on a State
// to draw an in-progress teleport marker.
type Caster interface {
	// Casting reports whether a cast is active and, if so, the current
	// marker position.
	//
	// Returns:
	//   - mgl32.Vec3: the marker position (zero when not casting)
	//   - bool: true while a cast is active
	Casting() (mgl32.Vec3, bool)
}

// handNone marks "no hand" in per-state hand bookkeeping.
const handNone = -1

// Hand slot indices used by states that track per-hand session data.
const (
	handDominant = iota
	handRecessive
)

// locomotionState implements trigger-cast teleportation. Only one hand may be
// casting at a time; the first hand to press its trigger wins and the other
// is ignored until the cast resolves.
type locomotionState struct {
	deps Deps

	// castingHand is the hand slot currently casting, or handNone.
	castingHand int
	// distance accumulates while the trigger stays held.
	distance float32
	// marker is the current teleport target.
	marker mgl32.Vec3
}

// Compile-time interface compliance checks
var (
	_ State  = &locomotionState{}
	_ Caster = &locomotionState{}
)

// NewLocomotionState creates the teleport locomotion state.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewLocomotionState(deps Deps) State {
	return &locomotionState{deps: deps, castingHand: handNone}
}

func (s *locomotionState) Kind() common.StateKind {
	return common.StateKindLocomotion
}

func (s *locomotionState) Enter() {}

func (s *locomotionState) Tick(frame input.Frame, _ rig.Registry) common.StateKind {
	if requested := s.deps.menuRequest(common.StateKindLocomotion, frame.Recessive); requested != common.StateKindLocomotion {
		s.reset()
		return requested
	}

	hands := [2]input.Hand{frame.Dominant, frame.Recessive}

	if s.castingHand == handNone {
		for i, h := range hands {
			if h.TriggerPressed {
				s.castingHand = i
				s.distance = 0
				break
			}
		}
	}
	if s.castingHand == handNone {
		return common.StateKindLocomotion
	}

	h := hands[s.castingHand]
	if h.TriggerHeld {
		s.distance += s.deps.Cfg.CastGrowthRate * frame.Delta
		s.marker = h.Position.Add(h.Forward.Mul(s.distance))
		return common.StateKindLocomotion
	}

	// Trigger released: relocate the reference frame to the marker.
	if s.deps.Relocate != nil {
		s.deps.Relocate(s.marker)
	}
	s.deps.Log.Debug().
		Float32("x", s.marker.X()).
		Float32("y", s.marker.Y()).
		Float32("z", s.marker.Z()).
		Msg("teleport")
	s.reset()
	return common.StateKindLocomotion
}

func (s *locomotionState) Feedback() string {
	return common.StateKindLocomotion.String()
}

func (s *locomotionState) Casting() (mgl32.Vec3, bool) {
	if s.castingHand == handNone {
		return mgl32.Vec3{}, false
	}
	return s.marker, true
}

func (s *locomotionState) reset() {
	s.castingHand = handNone
	s.distance = 0
	s.marker = mgl32.Vec3{}
}
