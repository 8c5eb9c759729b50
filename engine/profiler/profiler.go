package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/resource"
)

// Sample is one interval's worth of frame rate, memory and resource cache statistics.
type Sample struct {
	FPS float64
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is heap allocation churn per second over the interval.
	AllocRateMB float64
	GCCount     uint32
	// MaxPause is the longest GC pause during the interval.
	MaxPause  time.Duration
	SysMB     float64
	Resources resource.Stats
}

func (s Sample) String() string {
	return fmt.Sprintf("FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause: %s) | Sys: %.2f MB | Layouts: %d | Shaders: %d",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPause, s.SysMB, s.Resources.BindGroupLayouts, s.Resources.ShaderModules)
}

// Profiler counts frames and logs a Sample every interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	resources      resource.Manager

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Sample
}

// NewProfiler creates a Profiler. The interval defaults to one second.
//
// Parameters:
//   - options: a variadic list of options to configure the profiler
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick records one frame. When the interval has elapsed a Sample is taken and logged.
//
// Returns:
//   - bool: true if a sample was logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.last = p.sample(elapsed)
	log.Printf("[Profiler] %s", p.last)

	p.frameCount = 0
	p.lastTime = now
	return true
}

// Last returns the most recently logged Sample.
func (p *Profiler) Last() Sample {
	return p.last
}

func (p *Profiler) sample(elapsed time.Duration) Sample {
	seconds := max(elapsed.Seconds(), 1e-9)
	runtime.ReadMemStats(&p.memStats)

	s := Sample{
		FPS:         float64(p.frameCount) / seconds,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a ring of the last 256 pauses.
	first := p.lastGCCount
	if s.GCCount-first > 256 {
		first = s.GCCount - 256
	}
	for i := first; i < s.GCCount; i++ {
		s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
	}

	if p.resources != nil {
		s.Resources = p.resources.Stats()
	}

	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
