package track

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Checkpoint is a parameter-space marker carrying the travel speed the
// playback cursor should have when it passes the marker.
type Checkpoint struct {
	// T is the checkpoint's position in the curve parameter domain [0, 1].
	T float32
	// Speed is the travel speed at T, in parameter units per second.
	Speed float32
}

const (
	// DefaultMinSpeed is the lower speed bound applied when no override is configured.
	DefaultMinSpeed float32 = 0.02
	// DefaultMaxSpeed is the upper speed bound applied when no override is configured.
	DefaultMaxSpeed float32 = 0.5
	// DefaultPolylineResolution is the segment count of the derived polyline cache.
	DefaultPolylineResolution = 100

	// closestParameterStep is the fixed sampling step used by ClosestParameter.
	// The result carries up to half a step of error; callers must tolerate it.
	closestParameterStep float32 = 0.01

	// interiorMin and interiorMax bound where a moved checkpoint may land, keeping
	// the two endpoint checkpoints strictly first and last after any reinsertion.
	interiorMin float32 = 0.01
	interiorMax float32 = 0.99
)

// Track models one sculpted camera curve: an ordered set of 3-D control points
// defining a single Bezier of degree len(controlPoints)-1, overlaid with a
// sorted list of speed checkpoints spanning the parameter domain [0, 1].
//
// The first and last control points are permanent endpoints and can be moved
// but never deleted; the checkpoint list always keeps fixed endpoints at t=0
// and t=1. Structural edits do not rebuild the derived caches — callers batch
// edits and invoke Refresh once when done.
// Thread-safe for concurrent access.
type Track interface {
	// PositionAt evaluates the curve at parameter t via recursive de Casteljau
	// interpolation over all control points. O(n²) in the control point count.
	//
	// Parameters:
	//   - t: curve parameter; values outside [0, 1] yield the zero vector
	//
	// Returns:
	//   - mgl32.Vec3: the point on the curve, or the zero vector for invalid t
	PositionAt(t float32) mgl32.Vec3

	// ClosestParameter samples the curve at a fixed 0.01 step and returns the
	// parameter whose sample lies nearest the target point. This is a
	// deliberate brute-force approximation, not a numerical root-find; the
	// result carries up to half a step of error.
	//
	// Parameters:
	//   - target: world position to project onto the curve
	//
	// Returns:
	//   - float32: the sampled parameter minimizing Euclidean distance
	ClosestParameter(target mgl32.Vec3) float32

	// ControlPoints returns a copy of the ordered control point list.
	//
	// Returns:
	//   - []mgl32.Vec3: copy of the control points
	ControlPoints() []mgl32.Vec3

	// ControlPoint returns the control point at index i, or the zero vector
	// if i is out of bounds.
	//
	// Parameters:
	//   - i: control point index
	//
	// Returns:
	//   - mgl32.Vec3: the control point position
	ControlPoint(i int) mgl32.Vec3

	// SetControlPoint moves the control point at index i to position p.
	// Out-of-bounds indices are ignored. Endpoints may be moved, only their
	// deletion is rejected.
	//
	// Parameters:
	//   - i: control point index
	//   - p: new world position
	SetControlPoint(i int, p mgl32.Vec3)

	// AddControlPoint inserts a new interior control point near p. The point
	// is placed adjacent to the existing control point nearest p: on the
	// interior side if that nearest point is an endpoint, otherwise on
	// whichever neighbor side lies closer to p. This is a heuristic for
	// natural curve editing, not a minimal-distortion insertion.
	//
	// Parameters:
	//   - p: world position of the new control point
	AddControlPoint(p mgl32.Vec3)

	// DeleteControlPoint removes the interior control point at index i.
	// Endpoint and out-of-bounds indices are silently rejected.
	//
	// Parameters:
	//   - i: control point index
	DeleteControlPoint(i int)

	// Checkpoints returns a copy of the checkpoint list, sorted ascending by T.
	//
	// Returns:
	//   - []Checkpoint: copy of the checkpoints
	Checkpoints() []Checkpoint

	// AddCheckpoint inserts a checkpoint at parameter t with the default speed
	// (midpoint of the speed bounds), keeping the list sorted by T. The
	// parameter is confined to the interior range so an insertion can never
	// coincide with the two fixed endpoint checkpoints, which later
	// operations identify positionally.
	//
	// Parameters:
	//   - t: checkpoint parameter, clamped into [0.01, 0.99]
	//
	// Returns:
	//   - int: the list index assigned to the new checkpoint
	AddCheckpoint(t float32) int

	// DeleteCheckpoint removes the interior checkpoint at index i. The two
	// endpoint checkpoints and out-of-bounds indices are silently rejected.
	//
	// Parameters:
	//   - i: checkpoint index
	DeleteCheckpoint(i int)

	// MoveCheckpoint retargets the checkpoint at index i to newT by removing
	// and re-inserting it, preserving its speed and the list's sort order.
	//
	// Parameters:
	//   - i: checkpoint index
	//   - newT: target parameter, clamped into [0.01, 0.99]
	//
	// Returns:
	//   - int: the checkpoint's new index; the fixed endpoint index when i
	//     addresses an endpoint; -1 when i is out of bounds
	MoveCheckpoint(i int, newT float32) int

	// SpeedAt interpolates the travel speed at parameter t from the bracketing
	// checkpoint pair. Past the final checkpoint the final speed is returned
	// verbatim; before the first, the first.
	//
	// Parameters:
	//   - t: curve parameter
	//
	// Returns:
	//   - float32: the interpolated speed
	SpeedAt(t float32) float32

	// CheckpointSpeed returns the stored speed of the checkpoint at index i,
	// or 0 if i is out of bounds.
	//
	// Parameters:
	//   - i: checkpoint index
	//
	// Returns:
	//   - float32: the checkpoint's speed
	CheckpointSpeed(i int) float32

	// SetCheckpointSpeed stores a new speed for the checkpoint at index i,
	// clamped into the track's speed bounds. Out-of-bounds indices are ignored.
	//
	// Parameters:
	//   - i: checkpoint index
	//   - speed: new speed, clamped into [minSpeed, maxSpeed]
	SetCheckpointSpeed(i int, speed float32)

	// SpeedBounds returns the track's configured [minSpeed, maxSpeed] range.
	//
	// Returns:
	//   - min: lower speed bound
	//   - max: upper speed bound
	SpeedBounds() (min, max float32)

	// ClosestControlPoint finds the control point nearest to p.
	//
	// Parameters:
	//   - p: world position to test
	//
	// Returns:
	//   - int: index of the nearest control point, or -1 if the track is empty
	//   - float32: distance to that control point
	ClosestControlPoint(p mgl32.Vec3) (int, float32)

	// ClosestCheckpoint finds the checkpoint whose curve position is nearest
	// to p. Requires a prior Refresh for up-to-date checkpoint positions.
	//
	// Parameters:
	//   - p: world position to test
	//
	// Returns:
	//   - int: index of the nearest checkpoint, or -1 if none
	//   - float32: distance to that checkpoint's curve position
	ClosestCheckpoint(p mgl32.Vec3) (int, float32)

	// Refresh rebuilds the derived caches: the sampled polyline and the world
	// positions of every checkpoint. Callers are responsible for invoking it
	// after structural edits; it is not automatic so multiple edits can be
	// batched before one rebuild.
	Refresh()

	// Polyline returns a copy of the cached curve polyline built by the last
	// Refresh. Empty until the first Refresh.
	//
	// Returns:
	//   - []mgl32.Vec3: copy of the polyline samples
	Polyline() []mgl32.Vec3

	// CheckpointPositions returns a copy of the cached checkpoint world
	// positions built by the last Refresh. Empty until the first Refresh.
	//
	// Returns:
	//   - []mgl32.Vec3: copy of the checkpoint world positions
	CheckpointPositions() []mgl32.Vec3

	// SaveState captures a serializable snapshot sufficient to exactly
	// reconstruct the track (modulo floating rounding).
	//
	// Returns:
	//   - common.TrackSaveState: the snapshot
	SaveState() common.TrackSaveState

	// Destroy releases the track's derived caches and point lists. The track
	// must not be used afterwards.
	Destroy()
}

// trackImpl is the single implementation of Track.
type trackImpl struct {
	mu *sync.Mutex

	controlPoints []mgl32.Vec3
	checkpoints   []Checkpoint

	minSpeed float32
	maxSpeed float32

	polylineResolution int

	// derived caches, rebuilt only by Refresh
	polyline            []mgl32.Vec3
	checkpointPositions []mgl32.Vec3
}

// Compile-time interface compliance check
var _ Track = &trackImpl{}

// NewTrack creates a track with the two permanent endpoints and the two fixed
// endpoint checkpoints at t=0 and t=1, both carrying the default (midpoint)
// speed. Derived caches start empty; call Refresh before reading them.
//
// Parameters:
//   - start: position of the first permanent endpoint
//   - end: position of the last permanent endpoint
//   - options: functional options to configure the track
//
// Returns:
//   - Track: the newly created track
func NewTrack(start, end mgl32.Vec3, options ...TrackBuilderOption) Track {
	t := &trackImpl{
		mu:                 &sync.Mutex{},
		controlPoints:      []mgl32.Vec3{start, end},
		minSpeed:           DefaultMinSpeed,
		maxSpeed:           DefaultMaxSpeed,
		polylineResolution: DefaultPolylineResolution,
	}

	for _, option := range options {
		option(t)
	}

	mid := (t.minSpeed + t.maxSpeed) / 2
	t.checkpoints = []Checkpoint{{T: 0, Speed: mid}, {T: 1, Speed: mid}}

	return t
}

// NewTrackFromSaveState reconstructs a track from a persisted snapshot.
// Snapshots with fewer than two control points are padded with zero vectors
// so the endpoint invariant holds; missing or short speed lists fall back to
// the default midpoint speed. Endpoint checkpoints at t=0 and t=1 are
// restored (or synthesized if the snapshot predates them).
//
// Parameters:
//   - st: the persisted snapshot
//   - options: functional options to configure the track
//
// Returns:
//   - Track: the reconstructed track
func NewTrackFromSaveState(st common.TrackSaveState, options ...TrackBuilderOption) Track {
	t := &trackImpl{
		mu:                 &sync.Mutex{},
		minSpeed:           DefaultMinSpeed,
		maxSpeed:           DefaultMaxSpeed,
		polylineResolution: DefaultPolylineResolution,
	}

	for _, option := range options {
		option(t)
	}

	t.controlPoints = make([]mgl32.Vec3, 0, len(st.ControlPointPositions))
	for _, p := range st.ControlPointPositions {
		t.controlPoints = append(t.controlPoints, mgl32.Vec3{p[0], p[1], p[2]})
	}
	for len(t.controlPoints) < 2 {
		t.controlPoints = append(t.controlPoints, mgl32.Vec3{})
	}

	mid := (t.minSpeed + t.maxSpeed) / 2
	t.checkpoints = make([]Checkpoint, 0, len(st.CheckpointTValues))
	for i, tv := range st.CheckpointTValues {
		speed := mid
		if i < len(st.CheckpointSpeeds) {
			speed = common.Clamp(st.CheckpointSpeeds[i], t.minSpeed, t.maxSpeed)
		}
		t.checkpoints = append(t.checkpoints, Checkpoint{T: tv, Speed: speed})
	}
	if len(t.checkpoints) == 0 || t.checkpoints[0].T != 0 {
		t.checkpoints = append([]Checkpoint{{T: 0, Speed: mid}}, t.checkpoints...)
	}
	if t.checkpoints[len(t.checkpoints)-1].T != 1 {
		t.checkpoints = append(t.checkpoints, Checkpoint{T: 1, Speed: mid})
	}

	return t
}

// --- internal helpers ---

// positionAtLocked evaluates the curve by recursive linear interpolation
// (de Casteljau) over all control points. Caller must hold the mutex.
func (t *trackImpl) positionAtLocked(u float32) mgl32.Vec3 {
	if u < 0 || u > 1 || len(t.controlPoints) == 0 {
		return mgl32.Vec3{}
	}

	pts := make([]mgl32.Vec3, len(t.controlPoints))
	copy(pts, t.controlPoints)
	for n := len(pts); n > 1; n-- {
		for i := 0; i < n-1; i++ {
			pts[i] = pts[i].Mul(1 - u).Add(pts[i+1].Mul(u))
		}
	}
	return pts[0]
}

// insertCheckpointLocked inserts cp keeping the list sorted ascending by T
// and returns the index it landed at. Caller must hold the mutex.
func (t *trackImpl) insertCheckpointLocked(cp Checkpoint) int {
	idx := len(t.checkpoints)
	for i, existing := range t.checkpoints {
		if existing.T > cp.T {
			idx = i
			break
		}
	}
	t.checkpoints = append(t.checkpoints, Checkpoint{})
	copy(t.checkpoints[idx+1:], t.checkpoints[idx:])
	t.checkpoints[idx] = cp
	return idx
}

// --- Track implementation ---

func (t *trackImpl) PositionAt(u float32) mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positionAtLocked(u)
}

func (t *trackImpl) ClosestParameter(target mgl32.Vec3) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := float32(0)
	bestDist := float32(math.MaxFloat32)
	for u := float32(0); u <= 1; u += closestParameterStep {
		d := t.positionAtLocked(u).Sub(target).Len()
		if d < bestDist {
			bestDist = d
			best = u
		}
	}
	return best
}

func (t *trackImpl) ControlPoints() []mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]mgl32.Vec3, len(t.controlPoints))
	copy(cp, t.controlPoints)
	return cp
}

func (t *trackImpl) ControlPoint(i int) mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.controlPoints) {
		return mgl32.Vec3{}
	}
	return t.controlPoints[i]
}

func (t *trackImpl) SetControlPoint(i int, p mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.controlPoints) {
		return
	}
	t.controlPoints[i] = p
}

func (t *trackImpl) AddControlPoint(p mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()

	nearest := -1
	nearestDist := float32(math.MaxFloat32)
	for i, cp := range t.controlPoints {
		if d := cp.Sub(p).Len(); d < nearestDist {
			nearestDist = d
			nearest = i
		}
	}
	if nearest < 0 {
		return
	}

	last := len(t.controlPoints) - 1
	var insertAt int
	switch nearest {
	case 0:
		// Endpoint: insert adjacent on the interior side.
		insertAt = 1
	case last:
		insertAt = last
	default:
		// Interior: insert on whichever neighbor side lies closer to p.
		leftDist := t.controlPoints[nearest-1].Sub(p).Len()
		rightDist := t.controlPoints[nearest+1].Sub(p).Len()
		if leftDist < rightDist {
			insertAt = nearest
		} else {
			insertAt = nearest + 1
		}
	}

	t.controlPoints = append(t.controlPoints, mgl32.Vec3{})
	copy(t.controlPoints[insertAt+1:], t.controlPoints[insertAt:])
	t.controlPoints[insertAt] = p
}

func (t *trackImpl) DeleteControlPoint(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i <= 0 || i >= len(t.controlPoints)-1 {
		return
	}
	t.controlPoints = append(t.controlPoints[:i], t.controlPoints[i+1:]...)
}

func (t *trackImpl) Checkpoints() []Checkpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	cps := make([]Checkpoint, len(t.checkpoints))
	copy(cps, t.checkpoints)
	return cps
}

func (t *trackImpl) AddCheckpoint(at float32) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := Checkpoint{
		T:     common.Clamp(at, interiorMin, interiorMax),
		Speed: (t.minSpeed + t.maxSpeed) / 2,
	}
	return t.insertCheckpointLocked(cp)
}

func (t *trackImpl) DeleteCheckpoint(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i <= 0 || i >= len(t.checkpoints)-1 {
		return
	}
	t.checkpoints = append(t.checkpoints[:i], t.checkpoints[i+1:]...)
}

func (t *trackImpl) MoveCheckpoint(i int, newT float32) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.checkpoints) {
		return -1
	}
	if i == 0 || i == len(t.checkpoints)-1 {
		// Endpoints are fixed at t=0 and t=1.
		return i
	}

	cp := t.checkpoints[i]
	cp.T = common.Clamp(newT, interiorMin, interiorMax)
	t.checkpoints = append(t.checkpoints[:i], t.checkpoints[i+1:]...)
	return t.insertCheckpointLocked(cp)
}

func (t *trackImpl) SpeedAt(at float32) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.checkpoints) == 0 {
		return (t.minSpeed + t.maxSpeed) / 2
	}
	if at <= t.checkpoints[0].T {
		return t.checkpoints[0].Speed
	}
	last := t.checkpoints[len(t.checkpoints)-1]
	if at >= last.T {
		return last.Speed
	}

	for i := 0; i < len(t.checkpoints)-1; i++ {
		lo, hi := t.checkpoints[i], t.checkpoints[i+1]
		if lo.T <= at && hi.T > at {
			f := (at - lo.T) / (hi.T - lo.T)
			return common.Lerp(lo.Speed, hi.Speed, f)
		}
	}
	return last.Speed
}

func (t *trackImpl) CheckpointSpeed(i int) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.checkpoints) {
		return 0
	}
	return t.checkpoints[i].Speed
}

func (t *trackImpl) SetCheckpointSpeed(i int, speed float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.checkpoints) {
		return
	}
	t.checkpoints[i].Speed = common.Clamp(speed, t.minSpeed, t.maxSpeed)
}

func (t *trackImpl) SpeedBounds() (min, max float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minSpeed, t.maxSpeed
}

func (t *trackImpl) ClosestControlPoint(p mgl32.Vec3) (int, float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := -1
	bestDist := float32(math.MaxFloat32)
	for i, cp := range t.controlPoints {
		if d := cp.Sub(p).Len(); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}

func (t *trackImpl) ClosestCheckpoint(p mgl32.Vec3) (int, float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := -1
	bestDist := float32(math.MaxFloat32)
	for i, pos := range t.checkpointPositions {
		if d := pos.Sub(p).Len(); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}

func (t *trackImpl) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := t.polylineResolution
	if res < 1 {
		res = 1
	}
	t.polyline = make([]mgl32.Vec3, 0, res+1)
	for i := 0; i <= res; i++ {
		t.polyline = append(t.polyline, t.positionAtLocked(float32(i)/float32(res)))
	}

	t.checkpointPositions = make([]mgl32.Vec3, 0, len(t.checkpoints))
	for _, cp := range t.checkpoints {
		t.checkpointPositions = append(t.checkpointPositions, t.positionAtLocked(cp.T))
	}
}

func (t *trackImpl) Polyline() []mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	pl := make([]mgl32.Vec3, len(t.polyline))
	copy(pl, t.polyline)
	return pl
}

func (t *trackImpl) CheckpointPositions() []mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	cps := make([]mgl32.Vec3, len(t.checkpointPositions))
	copy(cps, t.checkpointPositions)
	return cps
}

func (t *trackImpl) SaveState() common.TrackSaveState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := common.TrackSaveState{
		ControlPointPositions: make([][3]float32, 0, len(t.controlPoints)),
		CheckpointTValues:     make([]float32, 0, len(t.checkpoints)),
		CheckpointSpeeds:      make([]float32, 0, len(t.checkpoints)),
	}
	for _, p := range t.controlPoints {
		st.ControlPointPositions = append(st.ControlPointPositions, [3]float32{p.X(), p.Y(), p.Z()})
	}
	for _, cp := range t.checkpoints {
		st.CheckpointTValues = append(st.CheckpointTValues, cp.T)
		st.CheckpointSpeeds = append(st.CheckpointSpeeds, cp.Speed)
	}
	return st
}

func (t *trackImpl) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.polyline = nil
	t.checkpointPositions = nil
	t.controlPoints = nil
	t.checkpoints = nil
}
