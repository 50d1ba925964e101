// Package engine runs the sculpting session: a fixed-rate tick loop that
// polls the input source, dispatches the frame to the single active user
// state, applies the requested state transition, and idle-advances every
// track pair's playback cursor.
package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/config"
	"github.com/Carmen-Shannon/dolly-go/engine/input"
	"github.com/Carmen-Shannon/dolly-go/engine/menu"
	"github.com/Carmen-Shannon/dolly-go/engine/persist"
	"github.com/Carmen-Shannon/dolly-go/engine/profiler"
	"github.com/Carmen-Shannon/dolly-go/engine/rig"
	"github.com/Carmen-Shannon/dolly-go/engine/state"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// manager implements the Manager interface.
// Coordinates the tick loop, state dispatch, and cursor advancement.
type manager struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	log    zerolog.Logger
	cfg    *config.Config
	source input.Source
	store  persist.Store

	registry rig.Registry
	states   map[common.StateKind]state.State
	active   state.State

	relocate func(mgl32.Vec3)

	feedbackCallback func(label string)
	lastFeedback     string

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate time.Duration
}

// Manager is the main entry point for a sculpting session. It owns the
// track-pair registry and the six user states, and drives them from a
// fixed-rate tick loop.
type Manager interface {
	// Registry returns the shared track-pair registry.
	//
	// Returns:
	//   - rig.Registry: the registry instance
	Registry() rig.Registry

	// ActiveState returns the kind of the state currently consuming input.
	//
	// Returns:
	//   - common.StateKind: the active state's identifier
	ActiveState() common.StateKind

	// State retrieves the session's instance of the given state, for
	// collaborators that assert its optional interfaces.
	//
	// Parameters:
	//   - kind: the state identifier
	//
	// Returns:
	//   - state.State: the state instance, or nil if unknown
	State(kind common.StateKind) state.State

	// EnableProfiler enables periodic performance output to the log.
	EnableProfiler()

	// DisableProfiler disables performance output.
	DisableProfiler()

	// SetTickRate sets the session tick rate in ticks per second.
	// If the session is running, the change takes effect immediately.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 90 if <= 0)
	SetTickRate(tps float64)

	// Tick processes one input frame: the active state consumes it, the
	// requested transition is applied, and every pair's playback cursor
	// advances by the frame's delta regardless of the active state.
	//
	// Parameters:
	//   - frame: the dual-hand snapshot for this tick
	Tick(frame input.Frame)

	// Run starts the tick loop on the calling goroutine (blocks until Quit).
	// Input sources are typically thread-affine, so Run must be called from
	// the goroutine that created the source.
	Run()

	// Quit signals the tick loop to stop and closes the input source and
	// store. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// Compile-time interface compliance check
var _ Manager = &manager{}

// tickInterval converts a ticks-per-second rate into a ticker interval
// without truncating fractional rates.
func tickInterval(tps float64) time.Duration {
	return time.Duration(float64(time.Second) / tps)
}

// NewManager creates a session manager with the provided options. The
// configuration is required; the input source, store, and relocation hook are
// optional collaborators supplied through options.
//
// Parameters:
//   - cfg: the session configuration
//   - options: functional options for manager configuration
//
// Returns:
//   - Manager: the newly created manager
func NewManager(cfg *config.Config, options ...ManagerBuilderOption) Manager {
	if cfg == nil {
		panic("engine: config is required")
	}

	m := &manager{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		log:             zerolog.Nop(),
		cfg:             cfg,
		tickRate:        time.Second / 90,
	}
	if cfg.TickRate > 0 {
		m.tickRate = tickInterval(cfg.TickRate)
	}

	for _, opt := range options {
		opt(m)
	}

	if m.registry == nil {
		m.registry = rig.NewRegistry()
	}
	m.profiler = profiler.NewProfiler(m.log)

	m.states = state.NewAll(state.Deps{
		Menu:     menu.NewRadialSelector(),
		Log:      m.log,
		Cfg:      cfg,
		Store:    m.store,
		Relocate: m.relocate,
	})
	m.active = m.states[common.StateKindBase]
	m.active.Enter()

	return m
}

func (m *manager) Registry() rig.Registry {
	return m.registry
}

func (m *manager) ActiveState() common.StateKind {
	return m.active.Kind()
}

func (m *manager) State(kind common.StateKind) state.State {
	return m.states[kind]
}

func (m *manager) Tick(frame input.Frame) {
	requested := m.active.Tick(frame, m.registry)
	if requested != m.active.Kind() {
		next, ok := m.states[requested]
		if !ok {
			m.log.Warn().Str("state", requested.String()).Msg("unknown state requested; staying")
		} else {
			m.log.Debug().
				Str("from", m.active.Kind().String()).
				Str("to", requested.String()).
				Msg("state transition")
			m.active = next
			m.active.Enter()
		}
	}

	// Idle-loop playback: every pair's cursor advances every tick, whatever
	// state is active.
	m.registry.AdvanceAll(frame.Delta)

	if fb := m.active.Feedback(); fb != m.lastFeedback {
		m.lastFeedback = fb
		if m.feedbackCallback != nil {
			m.feedbackCallback(fb)
		}
	}
}

func (m *manager) Run() {
	m.running = true

	ticker := time.NewTicker(m.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-m.quitChannel:
			return
		case <-ticker.C:
			var frame input.Frame
			if m.source != nil {
				frame = m.source.Poll()
			} else {
				now := time.Now()
				frame.Delta = float32(now.Sub(lastTick).Seconds())
				lastTick = now
			}

			m.Tick(frame)

			if m.profilingEnabled && m.profiler != nil {
				m.profiler.Tick()
			}
		case newRate := <-m.tickRateChannel:
			ticker.Reset(newRate)
			m.tickRate = newRate
		}
	}
}

// Quit signals the tick loop to stop and releases the session's resources.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (m *manager) Quit() {
	m.quitOnce.Do(func() {
		m.running = false
		close(m.quitChannel)
		if m.source != nil {
			m.source.Close()
		}
		if m.store != nil {
			m.store.Close()
		}
	})
}

// EnableProfiler enables periodic performance output to the log.
func (m *manager) EnableProfiler() {
	m.profilingEnabled = true
}

// DisableProfiler disables performance output.
func (m *manager) DisableProfiler() {
	m.profilingEnabled = false
}

// SetTickRate sets the session tick rate in ticks per second.
// If the session is running, the change takes effect immediately.
func (m *manager) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 90
	}
	newRate := tickInterval(tps)

	if m.running {
		// Non-blocking send - if the channel is full, replace the pending value
		select {
		case m.tickRateChannel <- newRate:
		default:
			select {
			case <-m.tickRateChannel:
			default:
			}
			m.tickRateChannel <- newRate
		}
	} else {
		m.tickRate = newRate
	}
}
