package engine

import (
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/persist"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
// Use the With* functions to create options that are applied directly to the
// manager instance.
type ManagerBuilderOption func(*manager)

// WithLogger sets the session's structured logger. Defaults to a no-op
// logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithLogger(log zerolog.Logger) ManagerBuilderOption {
	return func(m *manager) {
		m.log = log
	}
}

// WithSource sets the input source the tick loop polls. Without a source the
// loop runs on empty frames, which is useful for headless playback.
//
// Parameters:
//   - s: the input source
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithSource(s input.Source) ManagerBuilderOption {
	return func(m *manager) {
		m.source = s
	}
}

// WithStore sets the save-file store backing the File state. Without a store
// the File state degrades to a no-op browser.
//
// Parameters:
//   - s: the store
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithStore(s persist.Store) ManagerBuilderOption {
	return func(m *manager) {
		m.store = s
	}
}

// WithRegistry sets a pre-populated track-pair registry rather than allowing
// the manager to create an empty one.
//
// Parameters:
//   - r: the registry to use
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithRegistry(r rig.Registry) ManagerBuilderOption {
	return func(m *manager) {
		m.registry = r
	}
}

// WithRelocate sets the hook the Locomotion state calls to move the user's
// reference frame.
//
// Parameters:
//   - fn: the relocation hook
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithRelocate(fn func(target mgl32.Vec3)) ManagerBuilderOption {
	return func(m *manager) {
		m.relocate = fn
	}
}

// WithFeedbackCallback sets the function called whenever the active state's
// feedback label changes.
//
// Parameters:
//   - fn: callback receiving the new label
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithFeedbackCallback(fn func(label string)) ManagerBuilderOption {
	return func(m *manager) {
		m.feedbackCallback = fn
	}
}

// WithProfiling enables or disables periodic performance output.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithProfiling(enabled bool) ManagerBuilderOption {
	return func(m *manager) {
		m.profilingEnabled = enabled
	}
}
