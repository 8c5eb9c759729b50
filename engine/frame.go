package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Frame is handed to the render callback once per rendered frame. Commands recorded into Encoder
// are submitted after the callback returns and the surface is presented.
type Frame struct {
	// Index counts rendered frames starting at zero.
	Index uint64
	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float32

	Gpu     gpu.Gpu
	View    *texture.TextureView
	Encoder *wgpu.CommandEncoder
}

// BeginPass begins a render pass drawing into the surface view, cleared to clear.
// The caller must End the returned pass before the callback returns.
//
// Parameters:
//   - clear: the clear color
//
// Returns:
//   - *wgpu.RenderPassEncoder: the render pass
func (f *Frame) BeginPass(clear wgpu.Color) *wgpu.RenderPassEncoder {
	attachment := f.View.Attachment()
	attachment.ClearValue = clear
	return f.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            fmt.Sprintf("Frame %d", f.Index),
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})
}

// Clear records a pass that only clears the surface.
//
// Parameters:
//   - clear: the clear color
func (f *Frame) Clear(clear wgpu.Color) {
	pass := f.BeginPass(clear)
	pass.End()
	pass.Release()
}
