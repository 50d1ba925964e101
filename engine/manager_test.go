package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/config"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

// menuFrame fires a grip-free recessive axis edge toward the given direction.
func menuFrame(axis mgl32.Vec2) input.Frame {
	return input.Frame{
		Recessive: input.Hand{
			RawHand:        input.RawHand{Axis: axis},
			AxisLeftCenter: true,
		},
		Delta: 0.016,
	}
}

func addPair(t *testing.T, cfg *config.Config, reg rig.Registry) rig.TrackPair {
	t.Helper()
	opts := cfg.TrackOptions()
	pair := rig.NewTrackPair(
		track.NewTrack(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, opts...),
		track.NewTrack(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{10, 0, 5}, opts...),
	)
	pair.Refresh()
	reg.Add(pair)
	return pair
}

func TestNewManager_RequiresConfig(t *testing.T) {
	assert.Panics(t, func() { NewManager(nil) })
}

func TestManager_StartsInBaseState(t *testing.T) {
	m := NewManager(testConfig(t))
	assert.Equal(t, common.StateKindBase, m.ActiveState())
}

func TestManager_MenuTransitions(t *testing.T) {
	m := NewManager(testConfig(t))

	// North selects Locomotion.
	m.Tick(menuFrame(mgl32.Vec2{0, 1}))
	assert.Equal(t, common.StateKindLocomotion, m.ActiveState())

	// 144° clockwise selects Edit.
	m.Tick(menuFrame(mgl32.Vec2{0.59, -0.81}))
	assert.Equal(t, common.StateKindEdit, m.ActiveState())

	// Grip held suppresses the menu: the edge stays with the active state.
	held := menuFrame(mgl32.Vec2{0, 1})
	held.Recessive.GripHeld = true
	m.Tick(held)
	assert.Equal(t, common.StateKindEdit, m.ActiveState())
}

func TestManager_AdvancesCursorsEveryTick(t *testing.T) {
	cfg := testConfig(t)
	m := NewManager(cfg)
	pair := addPair(t, cfg, m.Registry())

	// Base state edits nothing, yet playback still advances.
	m.Tick(input.Frame{Delta: 1.0})

	expected := (cfg.MinSpeed + cfg.MaxSpeed) / 2
	assert.InDelta(t, expected, pair.FrustumLocation(), 1e-5)
	assert.Equal(t, common.StateKindBase, m.ActiveState())
}

func TestManager_FeedbackFiresOnChangeOnly(t *testing.T) {
	var labels []string
	m := NewManager(testConfig(t), WithFeedbackCallback(func(label string) {
		labels = append(labels, label)
	}))

	m.Tick(input.Frame{Delta: 0.016})
	m.Tick(input.Frame{Delta: 0.016})
	require.Equal(t, []string{common.StateKindBase.String()}, labels)

	m.Tick(menuFrame(mgl32.Vec2{0, 1}))
	m.Tick(input.Frame{Delta: 0.016})
	assert.Equal(t, []string{
		common.StateKindBase.String(),
		common.StateKindLocomotion.String(),
	}, labels)
}

func TestManager_StateExposesSessionInstances(t *testing.T) {
	m := NewManager(testConfig(t))
	for _, kind := range []common.StateKind{
		common.StateKindBase,
		common.StateKindLocomotion,
		common.StateKindCreation,
		common.StateKindEdit,
		common.StateKindView,
		common.StateKindFile,
	} {
		s := m.State(kind)
		require.NotNil(t, s, kind.String())
		assert.Equal(t, kind, s.Kind())
	}
}

func TestManager_FractionalTickRate(t *testing.T) {
	cfg := testConfig(t)
	cfg.TickRate = 59.5
	m := NewManager(cfg).(*manager)

	// 59.5 tps must land between the 59 and 60 tps intervals rather than
	// truncating to one of them.
	assert.Greater(t, m.tickRate, time.Second/60)
	assert.Less(t, m.tickRate, time.Second/59)

	m.SetTickRate(0.5)
	assert.Equal(t, 2*time.Second, m.tickRate)
}

func TestManager_RunStopsOnQuit(t *testing.T) {
	m := NewManager(testConfig(t))

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	m.Quit()
	m.Quit() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after Quit")
	}
}
