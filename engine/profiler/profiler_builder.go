package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/resource"
)

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a sample is logged.
//
// Parameters:
//   - interval: the logging interval
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the interval
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithResources includes the cache sizes of a resource manager in every sample.
//
// Parameters:
//   - resources: the resource manager to report on
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the resource manager
func WithResources(resources resource.Manager) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.resources = resources
	}
}
