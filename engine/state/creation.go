package state

import (
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/go-gl/mathgl/mgl32"
)

// placementsPerPair is how many world positions a full placement sequence
// collects: position-track endpoints first, then look-track endpoints.
const placementsPerPair = 4

// creationState collects four trigger placements from either hand and turns
// them into a new track pair. Leaving the state discards partial placements.
type creationState struct {
	deps Deps

	placements []mgl32.Vec3
}

// Compile-time interface compliance check
var _ State = &creationState{}

// NewCreationState creates the track-pair creation state.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewCreationState(deps Deps) State {
	return &creationState{deps: deps}
}

func (s *creationState) Kind() common.StateKind {
	return common.StateKindCreation
}

func (s *creationState) Enter() {}

func (s *creationState) Tick(frame input.Frame, reg rig.Registry) common.StateKind {
	if requested := s.deps.menuRequest(common.StateKindCreation, frame.Recessive); requested != common.StateKindCreation {
		// Partial placements never become a pair.
		s.placements = nil
		return requested
	}

	for _, h := range [2]input.Hand{frame.Dominant, frame.Recessive} {
		if !h.TriggerPressed {
			continue
		}
		s.placements = append(s.placements, h.Position)
		if len(s.placements) < placementsPerPair {
			continue
		}

		opts := s.deps.Cfg.TrackOptions()
		position := track.NewTrack(s.placements[0], s.placements[1], opts...)
		look := track.NewTrack(s.placements[2], s.placements[3], opts...)
		pair := rig.NewTrackPair(position, look)
		pair.Refresh()
		reg.Add(pair)
		s.placements = nil

		s.deps.Log.Info().Str("pair", pair.ID().String()).Int("pairs", reg.Len()).Msg("track pair created")
	}

	return common.StateKindCreation
}

func (s *creationState) Feedback() string {
	return common.StateKindCreation.String()
}
