package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gpu/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithWindow uses an existing window instead of creating one.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions sets the options used when the engine creates its own window.
//
// Parameters:
//   - options: window options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithGpu uses an existing Gpu instead of creating one for the window.
//
// Parameters:
//   - g: the Gpu, which must present into the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGpu(g gpu.Gpu) EngineBuilderOption {
	return func(e *engine) {
		e.gpu = g
	}
}

// WithGpuOptions sets the options used when the engine creates its own Gpu.
//
// Parameters:
//   - options: Gpu options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGpuOptions(options ...gpu.GpuBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.gpuOptions = append(e.gpuOptions, options...)
	}
}

// WithProfiling enables or disables the profiler log.
//
// Parameters:
//   - enabled: if true, a sample is logged every second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets a custom profiler and enables profiling.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
		e.profilingEnabled = p != nil
	}
}

// WithTickRate sets the tick callback rate in ticks per second. Values <= 0 mean 60.
//
// Parameters:
//   - fps: ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = rateToDuration(fps, time.Second/60)
	}
}

// WithRenderFrameLimit caps the render loop in frames per second. 0 leaves it uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = rateToDuration(fps, 0)
	}
}

// WithClearColor sets the color frames are cleared to when no render callback is set.
func WithClearColor(color wgpu.Color) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = color
	}
}

func rateToDuration(fps float64, fallback time.Duration) time.Duration {
	if fps <= 0 {
		return fallback
	}
	return time.Duration(float64(time.Second) / fps)
}
