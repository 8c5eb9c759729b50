package gpu

import (
	"github.com/Carmen-Shannon/oxy-gpu/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// GpuBuilderOption is a functional option used to configure a Gpu during construction.
type GpuBuilderOption func(*gpu)

// WithLabel sets the debug label of the device.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - GpuBuilderOption: a function that sets the label
func WithLabel(label string) GpuBuilderOption {
	return func(g *gpu) {
		g.label = label
	}
}

// WithPowerPreference sets the adapter power preference. Defaults to high performance.
//
// Parameters:
//   - preference: the power preference
//
// Returns:
//   - GpuBuilderOption: a function that sets the power preference
func WithPowerPreference(preference wgpu.PowerPreference) GpuBuilderOption {
	return func(g *gpu) {
		g.powerPreference = preference
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - GpuBuilderOption: a function that sets the fallback flag
func WithForceFallbackAdapter(force bool) GpuBuilderOption {
	return func(g *gpu) {
		g.forceFallbackAdapter = force
	}
}

// WithPresentMode sets the preferred present mode. Defaults to immediate, which does not wait for
// vertical sync. Unsupported modes fall back to the closest supported one.
//
// Parameters:
//   - mode: the preferred present mode
//
// Returns:
//   - GpuBuilderOption: a function that sets the present mode
func WithPresentMode(mode wgpu.PresentMode) GpuBuilderOption {
	return func(g *gpu) {
		g.presentMode = mode
	}
}

// WithResources uses an existing resource manager instead of creating one.
//
// Parameters:
//   - resources: the resource manager
//
// Returns:
//   - GpuBuilderOption: a function that sets the resource manager
func WithResources(resources resource.Manager) GpuBuilderOption {
	return func(g *gpu) {
		g.resources = resources
	}
}

// WithDecodeWorkers sets how many image files NewTexturesFromFiles decodes concurrently.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - GpuBuilderOption: a function that sets the worker count
func WithDecodeWorkers(n int) GpuBuilderOption {
	return func(g *gpu) {
		g.decodeWorkers = max(n, 1)
	}
}
