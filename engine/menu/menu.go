// Package menu provides the radial selection collaborator: it maps a 2-D
// directional input to the user state the direction points at. The widget's
// rendering lives elsewhere; this is only the direction-to-state mapping the
// interaction core consumes.
package menu

import (
	"math"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Selector maps a directional input to a requested next state.
type Selector interface {
	// SelectFromDirection returns the state whose menu sector contains the
	// given direction. A centered (zero-length) direction selects nothing and
	// returns StateKindBase.
	//
	// Parameters:
	//   - axis: the 2-D directional input
	//
	// Returns:
	//   - common.StateKind: the requested state
	SelectFromDirection(axis mgl32.Vec2) common.StateKind
}

// radialSelector is the single implementation of Selector. Five equal sectors
// are laid out clockwise starting at north.
type radialSelector struct {
	order []common.StateKind
}

// Compile-time interface compliance check
var _ Selector = &radialSelector{}

// NewRadialSelector creates the default five-sector radial selector with
// Locomotion at north, then Creation, Edit, View, File clockwise.
//
// Returns:
//   - Selector: the newly created selector
func NewRadialSelector() Selector {
	return &radialSelector{
		order: []common.StateKind{
			common.StateKindLocomotion,
			common.StateKindCreation,
			common.StateKindEdit,
			common.StateKindView,
			common.StateKindFile,
		},
	}
}

func (s *radialSelector) SelectFromDirection(axis mgl32.Vec2) common.StateKind {
	if axis.Len() == 0 {
		return common.StateKindBase
	}

	// Clockwise angle from north in [0, 2π).
	angle := math.Atan2(float64(axis.X()), float64(axis.Y()))
	if angle < 0 {
		angle += 2 * math.Pi
	}

	sector := 2 * math.Pi / float64(len(s.order))
	// Sector boundaries straddle each direction: north is the middle of
	// sector 0, not its left edge.
	idx := int((angle+sector/2)/sector) % len(s.order)
	return s.order[idx]
}
