package rig

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/dolly-go/common"
	"github.com/Carmen-Shannon/dolly-go/engine/track"
)

// Registry is the ordered collection of track pairs a session works on.
// Exactly one user state mutates it per tick, but the session manager reads
// it concurrently for feedback, so access is mutex-guarded.
type Registry interface {
	// Add appends a pair to the registry.
	//
	// Parameters:
	//   - p: the pair to append
	Add(p TrackPair)

	// Pair returns the pair at index i, or nil if i is out of bounds.
	//
	// Parameters:
	//   - i: pair index
	//
	// Returns:
	//   - TrackPair: the pair, or nil
	Pair(i int) TrackPair

	// Pairs returns a copy of the ordered pair list.
	//
	// Returns:
	//   - []TrackPair: copy of the pair list
	Pairs() []TrackPair

	// Len returns the number of pairs.
	//
	// Returns:
	//   - int: pair count
	Len() int

	// Remove destroys the pair at index i and drops it from the registry.
	// Out-of-bounds indices are silently rejected.
	//
	// Parameters:
	//   - i: pair index
	Remove(i int)

	// Clear destroys every pair and empties the registry.
	Clear()

	// AdvanceAll moves every pair's playback cursor by its own current speed
	// scaled by dt. Called by the session manager each tick regardless of the
	// active state, so idle pairs keep loop-animating during edits.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	AdvanceAll(dt float32)

	// RefreshAll rebuilds every pair's derived caches, fanning the work out
	// through the registry's worker pool. Blocks until all rebuilds finish.
	RefreshAll()

	// SaveStates serializes every pair into a flat save-state list: two
	// entries per pair, position track first.
	//
	// Returns:
	//   - []common.TrackSaveState: the snapshots, two per pair
	SaveStates() []common.TrackSaveState

	// LoadSaveStates reconstructs pairs from a flat save-state list produced
	// by SaveStates, appending them with fresh zero playback cursors. The
	// caller decides whether to Clear first.
	//
	// Parameters:
	//   - states: the snapshots, two per pair
	//   - options: track options applied to every reconstructed track
	//
	// Returns:
	//   - error: error when the list length is odd (corrupt snapshot)
	LoadSaveStates(states []common.TrackSaveState, options ...track.TrackBuilderOption) error
}

// registry is the single implementation of Registry.
type registry struct {
	mu *sync.Mutex

	pairs []TrackPair

	// refreshPool manages a bounded set of reusable goroutines for the batched
	// cache rebuild in RefreshAll. Workers persist across calls, avoiding
	// per-call goroutine spawn/teardown overhead.
	refreshPool    worker.DynamicWorkerPool
	refreshWorkers int
}

// Compile-time interface compliance check
var _ Registry = &registry{}

// NewRegistry creates an empty registry.
//
// Parameters:
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		mu:             &sync.Mutex{},
		refreshWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(r)
	}

	// Initialize the pool after options so WithRefreshWorkers can override the
	// default. Queue size of 64 accommodates typical pair counts with headroom.
	r.refreshPool = worker.NewDynamicWorkerPool(r.refreshWorkers, 64, 1*time.Second)

	return r
}

func (r *registry) Add(p TrackPair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = append(r.pairs, p)
}

func (r *registry) Pair(i int) TrackPair {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.pairs) {
		return nil
	}
	return r.pairs[i]
}

func (r *registry) Pairs() []TrackPair {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]TrackPair, len(r.pairs))
	copy(cp, r.pairs)
	return cp
}

func (r *registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pairs)
}

func (r *registry) Remove(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.pairs) {
		return
	}
	r.pairs[i].Destroy()
	r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
}

func (r *registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pairs {
		p.Destroy()
	}
	r.pairs = nil
}

func (r *registry) AdvanceAll(dt float32) {
	for _, p := range r.Pairs() {
		p.Advance(dt)
	}
}

func (r *registry) RefreshAll() {
	pairs := r.Pairs()

	// Fan the rebuilds out to the pool with a WaitGroup barrier; pool.Wait()
	// blocks until workers idle-exit, which is unsuitable for interactive use.
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		pCap := p // capture for closure
		r.refreshPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				pCap.Refresh()
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (r *registry) SaveStates() []common.TrackSaveState {
	pairs := r.Pairs()
	states := make([]common.TrackSaveState, 0, len(pairs)*2)
	for _, p := range pairs {
		states = append(states, p.Position().SaveState(), p.Look().SaveState())
	}
	return states
}

func (r *registry) LoadSaveStates(states []common.TrackSaveState, options ...track.TrackBuilderOption) error {
	if len(states)%2 != 0 {
		return fmt.Errorf("rig: save-state list holds %d entries, want an even count (two per pair)", len(states))
	}

	for i := 0; i < len(states); i += 2 {
		position := track.NewTrackFromSaveState(states[i], options...)
		look := track.NewTrackFromSaveState(states[i+1], options...)
		r.Add(NewTrackPair(position, look))
	}
	return nil
}
