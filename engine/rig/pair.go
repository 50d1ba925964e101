package rig

import (
	"sync"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// TrackPair binds a camera-position track to a camera-look track sharing a
// synchronized checkpoint timeline, plus the pair's autonomous playback
// cursor (the frustum location). The pair-level checkpoint operations are the
// only write path user states use; each mirrors the edit from the position
// track onto the look track by index so speed transitions stay synchronized.
// Thread-safe for concurrent access.
type TrackPair interface {
	// ID returns the pair's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the pair ID
	ID() uuid.UUID

	// Position returns the camera-position track.
	//
	// Returns:
	//   - track.Track: the position track
	Position() track.Track

	// Look returns the camera-look-target track.
	//
	// Returns:
	//   - track.Track: the look track
	Look() track.Track

	// Track returns the track filling the given role.
	//
	// Parameters:
	//   - role: RolePosition or RoleLook
	//
	// Returns:
	//   - track.Track: the requested track
	Track(role common.TrackRole) track.Track

	// FrustumLocation returns the pair's current playback cursor in [0, 1).
	//
	// Returns:
	//   - float32: the playback cursor
	FrustumLocation() float32

	// SetFrustumLocation stores a new playback cursor, wrapped into [0, 1).
	//
	// Parameters:
	//   - t: the new cursor value
	SetFrustumLocation(t float32)

	// Advance moves the playback cursor by the position track's current speed
	// scaled by dt, wrapping past 1 back to 0 (loop, not clamp).
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// CameraPose samples both tracks at the playback cursor.
	//
	// Returns:
	//   - eye: the camera position on the position track
	//   - target: the look target on the look track
	CameraPose() (eye, target mgl32.Vec3)

	// AddCheckpointAt inserts a checkpoint at parameter t on the position
	// track and mirrors it onto the look track at the same index.
	//
	// Parameters:
	//   - t: checkpoint parameter
	//
	// Returns:
	//   - int: the index assigned on both tracks
	AddCheckpointAt(t float32) int

	// DeleteCheckpoint removes the interior checkpoint at index i from both
	// tracks. Endpoint and out-of-bounds indices are silently rejected.
	//
	// Parameters:
	//   - i: checkpoint index
	DeleteCheckpoint(i int)

	// MoveCheckpoint retargets the checkpoint at index i to newT on both
	// tracks.
	//
	// Parameters:
	//   - i: checkpoint index
	//   - newT: target parameter
	//
	// Returns:
	//   - int: the checkpoint's new index on both tracks; the fixed endpoint
	//     index for endpoints; -1 when out of bounds
	MoveCheckpoint(i int, newT float32) int

	// ScaleCheckpointSpeed adds delta to the checkpoint's speed on both
	// tracks, clamped into the speed bounds.
	//
	// Parameters:
	//   - i: checkpoint index
	//   - delta: signed speed change
	ScaleCheckpointSpeed(i int, delta float32)

	// Synchronized reports whether both tracks carry identical checkpoint
	// parameter sets. Used by tests and debug checks; the pair-level write
	// path keeps this true structurally.
	//
	// Returns:
	//   - bool: true when the checkpoint timelines match
	Synchronized() bool

	// Refresh rebuilds the derived caches of both tracks.
	Refresh()

	// Destroy releases both tracks' resources. The pair must not be used
	// afterwards.
	Destroy()
}

// trackPair is the single implementation of TrackPair.
type trackPair struct {
	mu *sync.Mutex

	id       uuid.UUID
	position track.Track
	look     track.Track

	// frustumLocation is the autonomous playback cursor in [0, 1).
	frustumLocation float32
}

// Compile-time interface compliance check
var _ TrackPair = &trackPair{}

// NewTrackPair creates a pair from an existing position and look track with
// the playback cursor at 0. Both tracks must be non-nil; NewTrackPair panics
// otherwise.
//
// Parameters:
//   - position: the camera-position track (must not be nil)
//   - look: the camera-look-target track (must not be nil)
//
// Returns:
//   - TrackPair: the newly created pair
func NewTrackPair(position, look track.Track) TrackPair {
	if position == nil {
		panic("rig: NewTrackPair requires a non-nil position track")
	}
	if look == nil {
		panic("rig: NewTrackPair requires a non-nil look track")
	}
	return &trackPair{
		mu:       &sync.Mutex{},
		id:       uuid.New(),
		position: position,
		look:     look,
	}
}

func (p *trackPair) ID() uuid.UUID {
	return p.id
}

func (p *trackPair) Position() track.Track {
	return p.position
}

func (p *trackPair) Look() track.Track {
	return p.look
}

func (p *trackPair) Track(role common.TrackRole) track.Track {
	if role == common.RoleLook {
		return p.look
	}
	return p.position
}

func (p *trackPair) FrustumLocation() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frustumLocation
}

func (p *trackPair) SetFrustumLocation(t float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frustumLocation = common.Wrap01(t)
}

func (p *trackPair) Advance(dt float32) {
	speed := p.position.SpeedAt(p.FrustumLocation())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.frustumLocation = common.Wrap01(p.frustumLocation + speed*dt)
}

func (p *trackPair) CameraPose() (eye, target mgl32.Vec3) {
	at := p.FrustumLocation()
	return p.position.PositionAt(at), p.look.PositionAt(at)
}

func (p *trackPair) AddCheckpointAt(t float32) int {
	idx := p.position.AddCheckpoint(t)
	p.look.AddCheckpoint(t)
	return idx
}

func (p *trackPair) DeleteCheckpoint(i int) {
	p.position.DeleteCheckpoint(i)
	p.look.DeleteCheckpoint(i)
}

func (p *trackPair) MoveCheckpoint(i int, newT float32) int {
	idx := p.position.MoveCheckpoint(i, newT)
	p.look.MoveCheckpoint(i, newT)
	return idx
}

func (p *trackPair) ScaleCheckpointSpeed(i int, delta float32) {
	speed := p.position.CheckpointSpeed(i) + delta
	p.position.SetCheckpointSpeed(i, speed)
	p.look.SetCheckpointSpeed(i, speed)
}

func (p *trackPair) Synchronized() bool {
	pos := p.position.Checkpoints()
	look := p.look.Checkpoints()
	if len(pos) != len(look) {
		return false
	}
	for i := range pos {
		if pos[i].T != look[i].T {
			return false
		}
	}
	return true
}

func (p *trackPair) Refresh() {
	p.position.Refresh()
	p.look.Refresh()
}

func (p *trackPair) Destroy() {
	p.position.Destroy()
	p.look.Destroy()
}
