package input

import (
	"github.com/Carmen-Shannon/dolly-go/common"
)

// DesktopSourceOption is a functional option for configuring the desktop source.
// Use the With* functions to create options that are applied directly to the source instance.
type DesktopSourceOption func(*desktopSource)

// WithWindowTitle sets the input window's title. An empty title keeps the
// default.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - DesktopSourceOption: option function to apply
func WithWindowTitle(title string) DesktopSourceOption {
	return func(s *desktopSource) {
		s.title = common.Coalesce(title, s.title)
	}
}

// WithWindowSize sets the input window's dimensions. Non-positive values are ignored.
//
// Parameters:
//   - width: window width in pixels
//   - height: window height in pixels
//
// Returns:
//   - DesktopSourceOption: option function to apply
func WithWindowSize(width, height int) DesktopSourceOption {
	return func(s *desktopSource) {
		if width <= 0 || height <= 0 {
			return
		}
		s.width = width
		s.height = height
	}
}

// WithMoveSpeed sets the dominant hand's keyboard translation speed.
//
// Parameters:
//   - speed: translation speed in units per second
//
// Returns:
//   - DesktopSourceOption: option function to apply
func WithMoveSpeed(speed float32) DesktopSourceOption {
	return func(s *desktopSource) {
		if speed <= 0 {
			return
		}
		s.moveSpeed = speed
	}
}
