// Package profiler tracks the session's tick rate and memory statistics and
// emits them through the structured log at a fixed interval.
package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Profiler counts ticks and samples runtime memory statistics, logging a
// summary once per update interval.
type Profiler struct {
	log zerolog.Logger

	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a profiler reporting through log. The update interval
// defaults to 1 second.
//
// Parameters:
//   - log: the logger receiving the periodic summaries
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(log zerolog.Logger) *Profiler {
	return &Profiler{
		log:            log,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per session tick. When the update interval has
// elapsed it logs the achieved tick rate, heap usage, allocation rate, and GC
// pause statistics.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.tickCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	tps := float64(p.tickCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.log.Debug().
		Float64("tps", tps).
		Float64("heapMB", allocMB).
		Float64("allocRateMBs", allocRateMB).
		Uint32("gcCount", gcCount).
		Uint64("gcLastPauseUs", lastPauseUs).
		Uint64("gcMaxPauseUs", maxPauseUs).
		Float64("sysMB", sysMB).
		Msg("profiler")

	p.tickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
