package state

import (
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
)

// baseState is the non-operational default: it performs no edits and only
// watches for a menu selection.
type baseState struct {
	deps Deps
}

// Compile-time interface compliance check
var _ State = &baseState{}

// NewBaseState creates the non-operational default state.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewBaseState(deps Deps) State {
	return &baseState{deps: deps}
}

func (s *baseState) Kind() common.StateKind {
	return common.StateKindBase
}

func (s *baseState) Enter() {}

func (s *baseState) Tick(frame input.Frame, _ rig.Registry) common.StateKind {
	return s.deps.menuRequest(common.StateKindBase, frame.Recessive)
}

func (s *baseState) Feedback() string {
	return common.StateKindBase.String()
}
