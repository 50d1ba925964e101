package input

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// desktopSource emulates two tracked hands with keyboard and mouse through a
// GLFW window, for sculpting sessions without a headset. The window exists
// only to receive input focus; no graphics context is created.
//
// Mapping, dominant hand: WASD/QE translate the hand, the cursor steers its
// forward direction, left/right mouse buttons are trigger/grip, Z/X are
// primary/secondary, IJKL is the thumbstick. Recessive hand: arrow keys are
// the thumbstick, Space/LeftShift are trigger/grip, C/V are primary/secondary.
type desktopSource struct {
	window  *glfw.Window
	tracker Tracker

	title  string
	width  int
	height int

	// moveSpeed is the dominant hand's translation speed in units per second.
	moveSpeed float32

	dominantPos  mgl32.Vec3
	recessivePos mgl32.Vec3

	lastPoll time.Time
}

// Compile-time interface compliance check
var _ Source = &desktopSource{}

// NewDesktopSource creates the GLFW-backed desktop input source. Must be
// called from the main goroutine; the OS thread is locked for GLFW's sake.
//
// GLFW reference: https://www.glfw.org/docs/latest/input_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
//
// Parameters:
//   - options: functional options to configure the source
//
// Returns:
//   - Source: the newly created source
//   - error: error if GLFW initialization or window creation fails
func NewDesktopSource(options ...DesktopSourceOption) (Source, error) {
	runtime.LockOSThread()

	s := &desktopSource{
		title:        "dolly - desktop session",
		width:        960,
		height:       540,
		moveSpeed:    2.0,
		dominantPos:  mgl32.Vec3{0.3, 1.2, 0},
		recessivePos: mgl32.Vec3{-0.3, 1.2, 0},
		lastPoll:     time.Now(),
	}
	for _, option := range options {
		option(s)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// No rendering happens here, so skip OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(s.width, s.height, s.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %v", err)
	}
	s.window = win

	return s, nil
}

func (s *desktopSource) Poll() Frame {
	glfw.PollEvents()

	now := time.Now()
	dt := float32(now.Sub(s.lastPoll).Seconds())
	s.lastPoll = now

	s.translateDominant(dt)

	dominant := RawHand{
		Position:      s.dominantPos,
		Forward:       s.cursorForward(),
		Axis:          keyAxis(s.window, glfw.KeyL, glfw.KeyJ, glfw.KeyI, glfw.KeyK),
		TriggerHeld:   s.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press,
		GripHeld:      s.window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press,
		PrimaryHeld:   s.window.GetKey(glfw.KeyZ) == glfw.Press,
		SecondaryHeld: s.window.GetKey(glfw.KeyX) == glfw.Press,
	}
	dominant.Trigger = pressedScalar(dominant.TriggerHeld)
	dominant.Grip = pressedScalar(dominant.GripHeld)

	recessive := RawHand{
		Position:      s.recessivePos,
		Forward:       mgl32.Vec3{0, 0, -1},
		Axis:          keyAxis(s.window, glfw.KeyRight, glfw.KeyLeft, glfw.KeyUp, glfw.KeyDown),
		TriggerHeld:   s.window.GetKey(glfw.KeySpace) == glfw.Press,
		GripHeld:      s.window.GetKey(glfw.KeyLeftShift) == glfw.Press,
		PrimaryHeld:   s.window.GetKey(glfw.KeyC) == glfw.Press,
		SecondaryHeld: s.window.GetKey(glfw.KeyV) == glfw.Press,
	}
	recessive.Trigger = pressedScalar(recessive.TriggerHeld)
	recessive.Grip = pressedScalar(recessive.GripHeld)

	return s.tracker.Update(dominant, recessive, dt)
}

func (s *desktopSource) Close() {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	glfw.Terminate()
}

// translateDominant applies WASD/QE movement to the dominant hand position.
func (s *desktopSource) translateDominant(dt float32) {
	step := s.moveSpeed * dt
	var delta mgl32.Vec3
	if s.window.GetKey(glfw.KeyW) == glfw.Press {
		delta[2] -= step
	}
	if s.window.GetKey(glfw.KeyS) == glfw.Press {
		delta[2] += step
	}
	if s.window.GetKey(glfw.KeyA) == glfw.Press {
		delta[0] -= step
	}
	if s.window.GetKey(glfw.KeyD) == glfw.Press {
		delta[0] += step
	}
	if s.window.GetKey(glfw.KeyE) == glfw.Press {
		delta[1] += step
	}
	if s.window.GetKey(glfw.KeyQ) == glfw.Press {
		delta[1] -= step
	}
	s.dominantPos = s.dominantPos.Add(delta)
	s.recessivePos = s.recessivePos.Add(delta)
}

// cursorForward maps the cursor's offset from the window center to a forward
// direction: centered cursor looks down -Z, edges yaw/pitch away from it.
func (s *desktopSource) cursorForward() mgl32.Vec3 {
	x, y := s.window.GetCursorPos()
	w, h := s.window.GetSize()
	if w == 0 || h == 0 {
		return mgl32.Vec3{0, 0, -1}
	}

	nx := float32(x)/float32(w)*2 - 1
	ny := 1 - float32(y)/float32(h)*2
	f := mgl32.Vec3{nx, ny, -1}
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// keyAxis builds a 2-D axis from four keys (positive X, negative X, positive
// Y, negative Y).
func keyAxis(win *glfw.Window, posX, negX, posY, negY glfw.Key) mgl32.Vec2 {
	var axis mgl32.Vec2
	if win.GetKey(posX) == glfw.Press {
		axis[0] += 1
	}
	if win.GetKey(negX) == glfw.Press {
		axis[0] -= 1
	}
	if win.GetKey(posY) == glfw.Press {
		axis[1] += 1
	}
	if win.GetKey(negY) == glfw.Press {
		axis[1] -= 1
	}
	return axis
}

// pressedScalar collapses a boolean hold into the continuous scalar contract.
func pressedScalar(held bool) float32 {
	if held {
		return 1
	}
	return 0
}
