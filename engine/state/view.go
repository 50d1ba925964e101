package state

import (
	"fmt"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
)

// Poser is the optional interface a render collaborator asserts on a State to
// read the playback camera pose.
type Poser interface {
	// Pose returns the selected pair's current camera pose.
	//
	// Returns:
	//   - eye: the camera position
	//   - target: the look target
	//   - ok: false when no pair is selected
	Pose() (eye, target mgl32.Vec3, ok bool)
}

// viewState loops playback of one selected track pair. Cursor advancement is
// the session manager's job (every pair idle-loops regardless of state); this
// state only selects which pair the camera follows. An empty registry forces
// a redirect back to Locomotion.
type viewState struct {
	deps Deps

	selected int
	lastPose struct {
		eye, target mgl32.Vec3
		ok          bool
	}
	feedback string
}

// Compile-time interface compliance checks
var (
	_ State = &viewState{}
	_ Poser = &viewState{}
)

// NewViewState creates the playback viewing state.
//
// Parameters:
//   - deps: the shared collaborators
//
// Returns:
//   - State: the newly created state
func NewViewState(deps Deps) State {
	return &viewState{deps: deps, feedback: common.StateKindView.String()}
}

func (s *viewState) Kind() common.StateKind {
	return common.StateKindView
}

// Enter resets the camera to the first pair; playback resumes from that
// pair's stored cursor.
func (s *viewState) Enter() {
	s.selected = 0
}

func (s *viewState) Tick(frame input.Frame, reg rig.Registry) common.StateKind {
	if requested := s.deps.menuRequest(common.StateKindView, frame.Recessive); requested != common.StateKindView {
		s.lastPose.ok = false
		return requested
	}

	n := reg.Len()
	if n == 0 {
		s.deps.Log.Warn().Msg("view state entered with empty registry; redirecting to locomotion")
		s.lastPose.ok = false
		return common.StateKindLocomotion
	}
	if s.selected >= n {
		s.selected = 0
	}

	// Either hand's vertical deflection edge cycles the selection circularly.
	// A recessive edge reaches this point only while its grip is held, since
	// grip-free recessive edges are menu requests.
	step := verticalCycle(frame.Dominant) + verticalCycle(frame.Recessive)
	if step != 0 {
		s.selected = common.WrapIndex(s.selected, step, n)
	}

	pair := reg.Pair(s.selected)
	s.lastPose.eye, s.lastPose.target = pair.CameraPose()
	s.lastPose.ok = true
	s.feedback = fmt.Sprintf("%s · track %d/%d", common.StateKindView, s.selected+1, n)
	return common.StateKindView
}

func (s *viewState) Feedback() string {
	return s.feedback
}

func (s *viewState) Pose() (eye, target mgl32.Vec3, ok bool) {
	return s.lastPose.eye, s.lastPose.target, s.lastPose.ok
}

// Selected returns the index of the pair the camera follows.
//
// Returns:
//   - int: the selected pair index
func (s *viewState) Selected() int {
	return s.selected
}
