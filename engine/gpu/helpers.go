package gpu

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gpu/engine/bind_group"
	"github.com/Carmen-Shannon/oxy-gpu/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	uniformBufferUsage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	storageBufferUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

	// copyBufferAlignment is the granularity of queue buffer writes.
	copyBufferAlignment = 4
)

// textureUsage returns the usage flags for a texture created by NewTexture.
func textureUsage(renderable bool) wgpu.TextureUsage {
	if renderable {
		return wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	}
	return wgpu.TextureUsageCopyDst | wgpu.TextureUsageTextureBinding
}

// chooseSurfaceFormat picks the first sRGB format the surface supports, falling back to the
// surface's preferred format.
func chooseSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if texture.IsSRGB(f) {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return wgpu.TextureFormatBGRA8UnormSrgb
}

// surfaceViewFormats lists the extra view formats the surface must allow so that views can be
// created in view, which differs from format only when the surface has no sRGB format.
func surfaceViewFormats(format, view wgpu.TextureFormat) []wgpu.TextureFormat {
	if view == format {
		return nil
	}
	return []wgpu.TextureFormat{view}
}

// choosePresentMode returns preferred when the surface supports it. Otherwise the first supported
// of immediate, mailbox and fifo is used, fifo being guaranteed.
func choosePresentMode(preferred wgpu.PresentMode, supported []wgpu.PresentMode) wgpu.PresentMode {
	if slices.Contains(supported, preferred) {
		return preferred
	}
	for _, m := range []wgpu.PresentMode{wgpu.PresentModeImmediate, wgpu.PresentModeMailbox} {
		if slices.Contains(supported, m) {
			return m
		}
	}
	return wgpu.PresentModeFifo
}

// requiredLimits raises the texture dimension and buffer size limits of base to what the adapter supports.
func requiredLimits(base, adapter wgpu.Limits) wgpu.Limits {
	base.MaxTextureDimension1D = max(base.MaxTextureDimension1D, adapter.MaxTextureDimension1D)
	base.MaxTextureDimension2D = max(base.MaxTextureDimension2D, adapter.MaxTextureDimension2D)
	base.MaxTextureDimension3D = max(base.MaxTextureDimension3D, adapter.MaxTextureDimension3D)
	base.MaxBufferSize = max(base.MaxBufferSize, adapter.MaxBufferSize)
	base.MaxStorageBufferBindingSize = max(base.MaxStorageBufferBindingSize, adapter.MaxStorageBufferBindingSize)
	return base
}

func clampSize(width, height int) (uint32, uint32) {
	return uint32(max(width, 1)), uint32(max(height, 1))
}

func alignSize(size, alignment uint64) uint64 {
	return (size + alignment - 1) / alignment * alignment
}

// uniformBytes returns the in-memory bytes of value, zero padded to the buffer write alignment.
func uniformBytes[T any](value T) []byte {
	raw := wgpu.ToBytes([]T{value})
	out := make([]byte, alignSize(uint64(len(raw)), copyBufferAlignment))
	copy(out, raw)
	return out
}

// groupLayouts resolves the cached layout of every group in order.
func groupLayouts(cache bind_group.LayoutCache, groups []*bind_group.BindGroup) ([]*wgpu.BindGroupLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, 0, len(groups))
	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("bind group %d is nil", i)
		}
		layout, ok := cache.BindGroupLayout(g.Entries)
		if !ok {
			return nil, fmt.Errorf("no cached layout for bind group %d %q with entries %s", i, g.Label, g.Entries)
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}
