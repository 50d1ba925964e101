package menu

import (
	"testing"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRadialSelector_SectorMapping(t *testing.T) {
	s := NewRadialSelector()

	cases := []struct {
		name string
		axis mgl32.Vec2
		want common.StateKind
	}{
		{"north", mgl32.Vec2{0, 1}, common.StateKindLocomotion},
		{"east (72 deg clockwise)", mgl32.Vec2{1, 0.2}, common.StateKindCreation},
		{"south-east", mgl32.Vec2{0.7, -0.8}, common.StateKindEdit},
		{"south-west", mgl32.Vec2{-0.7, -0.8}, common.StateKindView},
		{"west", mgl32.Vec2{-1, 0.2}, common.StateKindFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.SelectFromDirection(tc.axis))
		})
	}
}

func TestRadialSelector_CenterSelectsNothing(t *testing.T) {
	s := NewRadialSelector()
	assert.Equal(t, common.StateKindBase, s.SelectFromDirection(mgl32.Vec2{}))
}
