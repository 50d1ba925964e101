package state

import (
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
)

// editState implements point editing. Each hand can hold at most one point,
// tracked by an explicit ownership token: trigger selection grabs control
// points (drag), grip selection grabs position-track checkpoints (retarget +
// speed scale, mirrored onto the look track). Grabbing a point already held
// by the other hand transfers ownership (last grab wins).
type editState struct {
	deps Deps

	// grabs holds each hand's ownership token, indexed by hand slot.
	grabs [2]*common.Grab
}

// Compile-time interface compliance check
var _ State = &editState{}

// NewEditState creates the point-editing state.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewEditState(deps Deps) State {
	return &editState{deps: deps}
}

func (s *editState) Kind() common.StateKind {
	return common.StateKindEdit
}

func (s *editState) Enter() {}

func (s *editState) Tick(frame input.Frame, reg rig.Registry) common.StateKind {
	if requested := s.deps.menuRequest(common.StateKindEdit, frame.Recessive); requested != common.StateKindEdit {
		s.grabs[handDominant] = nil
		s.grabs[handRecessive] = nil
		return requested
	}

	hands := [2]input.Hand{frame.Dominant, frame.Recessive}
	for i, h := range hands {
		s.handleHand(i, h, reg, frame.Delta)
	}

	s.handleButtons(frame, reg)
	return common.StateKindEdit
}

func (s *editState) Feedback() string {
	return common.StateKindEdit.String()
}

// Held returns a copy of the given hand slot's ownership token, or nil.
//
// Parameters:
//   - hand: handDominant or handRecessive
//
// Returns:
//   - *common.Grab: copy of the token, or nil when the hand holds nothing
func (s *editState) Held(hand int) *common.Grab {
	if hand < 0 || hand > 1 || s.grabs[hand] == nil {
		return nil
	}
	g := *s.grabs[hand]
	return &g
}

// handleHand runs one hand's selection and drag logic for the tick.
func (s *editState) handleHand(hand int, h input.Hand, reg rig.Registry, dt float32) {
	if h.TriggerPressed && s.grabs[hand] == nil {
		if g := s.findControlPoint(h, reg); g != nil {
			s.steal(hand, g)
			s.grabs[hand] = g
		}
	}
	if h.GripPressed && s.grabs[hand] == nil {
		if g := s.findCheckpoint(h, reg); g != nil {
			s.steal(hand, g)
			s.grabs[hand] = g
		}
	}

	g := s.grabs[hand]
	if g == nil {
		return
	}

	switch g.Kind {
	case common.PointControl:
		if !h.TriggerHeld {
			s.grabs[hand] = nil
			return
		}
		pair := reg.Pair(g.PairIndex)
		if pair == nil {
			s.grabs[hand] = nil
			return
		}
		tr := pair.Track(g.Role)
		tr.SetControlPoint(g.Index, h.Position)
		tr.Refresh()

	case common.PointCheckpoint:
		if !h.GripHeld {
			s.grabs[hand] = nil
			return
		}
		pair := reg.Pair(g.PairIndex)
		if pair == nil {
			s.grabs[hand] = nil
			return
		}
		// Retarget the checkpoint to the closest-point projection of the
		// hand onto its track, mirrored onto the look track by index.
		newT := pair.Position().ClosestParameter(h.Position)
		if idx := pair.MoveCheckpoint(g.Index, newT); idx >= 0 {
			g.Index = idx
		}
		pair.ScaleCheckpointSpeed(g.Index, h.Axis.Y()*s.deps.Cfg.SpeedSensitivity*dt)
		pair.Refresh()
	}
}

// handleButtons applies the secondary button actions, which require a held
// selection: the dominant hand's buttons add geometry, the recessive hand's
// buttons delete it.
func (s *editState) handleButtons(frame input.Frame, reg rig.Registry) {
	active, activeHand := s.activeGrab()
	if active == nil {
		return
	}
	pair := reg.Pair(active.PairIndex)
	if pair == nil {
		return
	}

	if frame.Dominant.PrimaryPressed {
		// New control point at the midpoint of the track's last two points.
		tr := pair.Track(active.Role)
		cps := tr.ControlPoints()
		if len(cps) >= 2 {
			mid := cps[len(cps)-1].Add(cps[len(cps)-2]).Mul(0.5)
			tr.AddControlPoint(mid)
			tr.Refresh()
		}
	}

	if frame.Dominant.SecondaryPressed && active.Role == common.RolePosition {
		pair.AddCheckpointAt(0.5)
		pair.Refresh()
	}

	if frame.Recessive.PrimaryPressed {
		deleted := false
		if active.Kind == common.PointCheckpoint {
			before := len(pair.Position().Checkpoints())
			pair.DeleteCheckpoint(active.Index)
			deleted = len(pair.Position().Checkpoints()) < before
		} else {
			tr := pair.Track(active.Role)
			before := len(tr.ControlPoints())
			tr.DeleteControlPoint(active.Index)
			deleted = len(tr.ControlPoints()) < before
		}
		pair.Refresh()
		s.grabs[activeHand] = nil
		if deleted {
			s.shiftAfterDelete(active)
		}
		return
	}

	if frame.Recessive.SecondaryPressed {
		s.deps.Log.Info().Str("pair", pair.ID().String()).Msg("track pair deleted")
		removed := active.PairIndex
		reg.Remove(removed)
		for i, g := range s.grabs {
			if g == nil {
				continue
			}
			switch {
			case g.PairIndex == removed:
				s.grabs[i] = nil
			case g.PairIndex > removed:
				g.PairIndex--
			}
		}
	}
}

// activeGrab returns the selection the secondary buttons act on: the dominant
// hand's hold when present, else the recessive hand's.
func (s *editState) activeGrab() (*common.Grab, int) {
	if s.grabs[handDominant] != nil {
		return s.grabs[handDominant], handDominant
	}
	if s.grabs[handRecessive] != nil {
		return s.grabs[handRecessive], handRecessive
	}
	return nil, handNone
}

// shiftAfterDelete re-indexes surviving grab tokens after a point delete:
// tokens in the same list past the removed index slide down one slot, and a
// token on the removed point itself is dropped.
func (s *editState) shiftAfterDelete(removed *common.Grab) {
	for i, g := range s.grabs {
		if g == nil || g.PairIndex != removed.PairIndex || g.Kind != removed.Kind {
			continue
		}
		// Checkpoint tokens always reference the position track; control
		// point tokens only collide within their own track.
		if g.Kind == common.PointControl && g.Role != removed.Role {
			continue
		}
		switch {
		case g.Index == removed.Index:
			s.grabs[i] = nil
		case g.Index > removed.Index:
			g.Index--
		}
	}
}

// steal clears the other hand's token when it references the same point, so
// ownership transfers to the grabbing hand.
func (s *editState) steal(hand int, g *common.Grab) {
	other := 1 - hand
	og := s.grabs[other]
	if og != nil && *og == *g {
		s.grabs[other] = nil
	}
}

// findControlPoint tests trigger-selection proximity against every control
// point: all position tracks first, then all look tracks, first match wins.
func (s *editState) findControlPoint(h input.Hand, reg rig.Registry) *common.Grab {
	for _, role := range [2]common.TrackRole{common.RolePosition, common.RoleLook} {
		for i, pair := range reg.Pairs() {
			idx, dist := pair.Track(role).ClosestControlPoint(h.Position)
			if idx >= 0 && dist <= s.deps.Cfg.GrabRadius {
				return &common.Grab{PairIndex: i, Role: role, Kind: common.PointControl, Index: idx}
			}
		}
	}
	return nil
}

// findCheckpoint tests grip-selection proximity against position-track
// checkpoints only.
func (s *editState) findCheckpoint(h input.Hand, reg rig.Registry) *common.Grab {
	for i, pair := range reg.Pairs() {
		idx, dist := pair.Position().ClosestCheckpoint(h.Position)
		if idx >= 0 && dist <= s.deps.Cfg.GrabRadius {
			return &common.Grab{PairIndex: i, Role: common.RolePosition, Kind: common.PointCheckpoint, Index: idx}
		}
	}
	return nil
}
