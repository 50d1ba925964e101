// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// StateKind identifies one of the user interaction states managed by the
// session manager. StateKindBase is the non-operational default.
type StateKind int

const (
	StateKindBase StateKind = iota
	StateKindLocomotion
	StateKindCreation
	StateKindEdit
	StateKindView
	StateKindFile
)

// String returns the human-readable state name used by the feedback surface.
func (k StateKind) String() string {
	switch k {
	case StateKindLocomotion:
		return "Locomotion"
	case StateKindCreation:
		return "Creation"
	case StateKindEdit:
		return "Edit"
	case StateKindView:
		return "View"
	case StateKindFile:
		return "File"
	default:
		return "Base"
	}
}

// PointKind distinguishes the two grabbable point types on a track.
type PointKind int

const (
	// PointControl is a curve-shaping control point.
	PointControl PointKind = iota
	// PointCheckpoint is a parameter-space speed marker.
	PointCheckpoint
)

// TrackRole distinguishes the two tracks of a pair.
type TrackRole int

const (
	// RolePosition is the camera-position curve of a pair.
	RolePosition TrackRole = iota
	// RoleLook is the camera-look-target curve of a pair.
	RoleLook
)

// Grab is the ownership token for a point held by one hand. Exactly one hand
// may hold a given point at a time; re-grabbing from the other hand transfers
// the token (last grab wins).
type Grab struct {
	// PairIndex is the registry index of the pair the point belongs to.
	PairIndex int
	// Role names the track within the pair that owns the point.
	Role TrackRole
	// Kind is the point type; checkpoint grabs always reference the
	// position track and are mirrored onto the look track by index.
	Kind PointKind
	// Index is the point's current index within its owning list.
	Index int
}

// TrackSaveState is the serializable snapshot of a single track: enough to
// exactly reconstruct it modulo floating rounding. Coordinates are stored as
// [x, y, z] triples so the on-disk document stays a plain nested-array JSON
// structure.
type TrackSaveState struct {
	// ControlPointPositions holds every control point in order.
	ControlPointPositions [][3]float32 `json:"controlPointPositions"`
	// CheckpointTValues holds every checkpoint parameter in ascending order.
	CheckpointTValues []float32 `json:"checkpointTValues"`
	// CheckpointSpeeds holds the speed for each checkpoint, index-aligned
	// with CheckpointTValues.
	CheckpointSpeeds []float32 `json:"checkpointSpeeds"`
}
