// Package state implements the five exclusive user interaction states plus
// the non-operational Base default. Exactly one state consumes each input
// tick; it mutates the registry, requests the next state through the shared
// radial menu, and performs its own teardown when it detects its exit.
package state

import (
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/config"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/menu"
	"github.com/Carmen-Shannon/dolly-go/engine/persist"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// State is one user interaction state. Instances live for the whole session:
// the manager creates each once and re-activates it across visits, so
// per-state session fields persist until the state clears them on exit.
type State interface {
	// Kind returns the state's identifier.
	//
	// Returns:
	//   - common.StateKind: the identifier
	Kind() common.StateKind

	// Enter prepares the state for activation. Called by the session manager
	// on every transition into the state.
	Enter()

	// Tick consumes one dual-hand input frame, applies the state's exclusive
	// edits to the registry, and returns the requested next state. Returning
	// its own kind means "stay". The state performs its teardown before
	// returning a different kind.
	//
	// Parameters:
	//   - frame: this tick's dual-hand snapshot
	//   - reg: the shared track-pair registry
	//
	// Returns:
	//   - common.StateKind: the requested next state
	Tick(frame input.Frame, reg rig.Registry) common.StateKind

	// Feedback returns the human-readable label the feedback surface shows
	// while this state is active.
	//
	// Returns:
	//   - string: the feedback label
	Feedback() string
}

// Deps bundles the collaborators shared by every state. Store may be nil for
// sessions without persistence; the File state then degrades to a no-op
// browser.
type Deps struct {
	Menu  menu.Selector
	Log   zerolog.Logger
	Cfg   *config.Config
	Store persist.Store

	// Relocate moves the user's reference frame; consumed by Locomotion.
	Relocate func(target mgl32.Vec3)
}

// menuRequest applies the shared transition trigger: when the recessive
// hand's directional input just left center and its grip is not held, the
// menu is queried and its answer becomes the requested state unconditionally.
// Otherwise the active state stays.
func (d Deps) menuRequest(self common.StateKind, recessive input.Hand) common.StateKind {
	if recessive.AxisLeftCenter && !recessive.GripHeld {
		if k := d.Menu.SelectFromDirection(recessive.Axis); k != common.StateKindBase {
			return k
		}
	}
	return self
}

// NewAll creates one instance of every state, keyed by kind.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - map[common.StateKind]State: the six state instances
func NewAll(deps Deps) map[common.StateKind]State {
	return map[common.StateKind]State{
		common.StateKindBase:       NewBaseState(deps),
		common.StateKindLocomotion: NewLocomotionState(deps),
		common.StateKindCreation:   NewCreationState(deps),
		common.StateKindEdit:       NewEditState(deps),
		common.StateKindView:       NewViewState(deps),
		common.StateKindFile:       NewFileState(deps),
	}
}

// verticalCycle reads a thumbstick edge as a forward/backward step: +1 for an
// upward deflection edge, -1 for downward, 0 when no vertical edge fired.
func verticalCycle(h input.Hand) int {
	if !h.AxisLeftCenter {
		return 0
	}
	if abs32(h.Axis.Y()) <= abs32(h.Axis.X()) {
		return 0
	}
	if h.Axis.Y() > 0 {
		return 1
	}
	return -1
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
