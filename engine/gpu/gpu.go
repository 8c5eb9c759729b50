package gpu

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/bind_group"
	"github.com/Carmen-Shannon/oxy-gpu/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gpu/engine/resource"
	"github.com/Carmen-Shannon/oxy-gpu/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpu is the implementation of the Gpu interface.
type gpu struct {
	mu *sync.Mutex

	label string

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	viewFormat    wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	width         uint32
	height        uint32

	powerPreference      wgpu.PowerPreference
	forceFallbackAdapter bool

	// frameSurface is the swapchain texture acquired by CurrentSurfaceTexture, held until Present.
	frameSurface *wgpu.Texture

	resources resource.Manager

	// decodeWorkers bounds how many files NewTexturesFromFiles decodes at once.
	decodeWorkers int
	decodePool    worker.DynamicWorkerPool
}

// Gpu bundles the WebGPU instance, adapter, device, queue and the configured window surface.
// It is the factory for buffers, textures and bind groups, and owns the resource manager that
// caches bind group layouts and shader modules.
type Gpu interface {
	// Device returns the logical device.
	Device() *wgpu.Device

	// Queue returns the device queue.
	Queue() *wgpu.Queue

	// Adapter returns the physical adapter the device was requested from.
	Adapter() *wgpu.Adapter

	// Surface returns the window surface.
	Surface() *wgpu.Surface

	// SurfaceFormat returns the format of the views created by SurfaceView. It is always sRGB when
	// the surface format has an sRGB variant, and is the format render pipelines must target.
	SurfaceFormat() wgpu.TextureFormat

	// Size returns the current surface size in pixels.
	Size() (width, height uint32)

	// Resources returns the resource manager owned by this Gpu.
	Resources() resource.Manager

	// Resize reconfigures the surface for a new window size. Sizes below 1 are clamped to 1.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// NewBindGroup returns an empty bind group builder compiling against this device.
	// Finish it with Resources() so the layout is shared.
	//
	// Parameters:
	//   - options: options forwarded to the builder
	//
	// Returns:
	//   - *bind_group.Builder: the builder
	NewBindGroup(options ...bind_group.BuilderOption) *bind_group.Builder

	// NewPipelineLayout creates a pipeline layout from the cached layouts of the given bind groups,
	// in group index order.
	//
	// Parameters:
	//   - label: the debug label for the pipeline layout
	//   - groups: the bind groups, group 0 first
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the pipeline layout
	//   - error: an error if a group's layout is not cached or the device failed to create the layout
	NewPipelineLayout(label string, groups ...*bind_group.BindGroup) (*wgpu.PipelineLayout, error)

	// ShaderModule returns the cached shader module for the WGSL file at path.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetches
	//   - path: a file path or http(s) URL
	//
	// Returns:
	//   - *wgpu.ShaderModule: the shader module
	//   - error: an error if the shader could not be loaded or compiled
	ShaderModule(ctx context.Context, path string) (*wgpu.ShaderModule, error)

	// NewBuffer creates a buffer from a raw descriptor.
	//
	// Parameters:
	//   - desc: the buffer descriptor
	//
	// Returns:
	//   - buffer.Buffer: the buffer
	//   - error: an error if the device failed to create the buffer
	NewBuffer(desc wgpu.BufferDescriptor) (buffer.Buffer, error)

	// NewStorageBuffer creates a storage buffer that can be written to and copied from.
	//
	// Parameters:
	//   - size: the buffer size in bytes
	//   - label: the debug label
	//
	// Returns:
	//   - buffer.Buffer: the buffer
	//   - error: an error if the device failed to create the buffer
	NewStorageBuffer(size uint64, label string) (buffer.Buffer, error)

	// WriteBuffer uploads data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset into buf
	//   - data: the bytes to upload
	//
	// Returns:
	//   - error: an error if the queue rejected the write
	WriteBuffer(buf buffer.Buffer, offset uint64, data []byte) error

	// ReadBuffer copies the contents of buf into a temporary mappable buffer and reads it back.
	// buf must have copy-src usage.
	//
	// Parameters:
	//   - buf: the buffer to read
	//
	// Returns:
	//   - []byte: a copy of the buffer contents
	//   - error: an error if the copy or mapping failed
	ReadBuffer(buf buffer.Buffer) ([]byte, error)

	// NewTexture creates an empty 2D texture with one view. Renderable textures can be drawn into
	// and sampled, the others can be written by the queue and sampled.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	//   - format: the texel format
	//   - renderable: true if the texture is used as a render target
	//
	// Returns:
	//   - texture.Texture: the texture labelled with its DefaultLabel
	//   - error: an error if the device failed to create the texture or its view
	NewTexture(width, height uint32, format wgpu.TextureFormat, renderable bool) (texture.Texture, error)

	// NewTextureFromFile reads an image file or URL, decodes it and uploads it into a new texture.
	// Errors are *texture.TextureError values.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetch
	//   - path: a file path or http(s) URL of a PNG, JPEG, GIF, BMP, TIFF or WebP image
	//
	// Returns:
	//   - texture.Texture: the texture
	//   - error: a *texture.TextureError if reading, decoding or uploading failed
	NewTextureFromFile(ctx context.Context, path string) (texture.Texture, error)

	// NewTexturesFromFiles is NewTextureFromFile for many files. Files are read and decoded in
	// parallel, uploads happen in order on the calling goroutine.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetches
	//   - paths: the image paths
	//
	// Returns:
	//   - []texture.Texture: the textures in path order
	//   - error: the joined errors of every failed path; textures of failed paths are nil
	NewTexturesFromFiles(ctx context.Context, paths ...string) ([]texture.Texture, error)

	// CurrentSurfaceTexture acquires the next swapchain texture. It is held until Present.
	//
	// Returns:
	//   - *wgpu.Texture: the swapchain texture
	//   - error: an error if the previous texture was not presented or acquisition failed
	CurrentSurfaceTexture() (*wgpu.Texture, error)

	// SurfaceView creates a view of a swapchain texture in the surface format.
	//
	// Parameters:
	//   - surfaceTexture: the texture returned by CurrentSurfaceTexture
	//
	// Returns:
	//   - *texture.TextureView: the view
	//   - error: an error if the view could not be created
	SurfaceView(surfaceTexture *wgpu.Texture) (*texture.TextureView, error)

	// Present presents the acquired swapchain texture and releases it. No-op if none is held.
	Present()

	// Release releases every GPU object owned by the Gpu, including cached resources.
	Release()
}

var _ Gpu = &gpu{}

// NewGpu creates the instance, surface, adapter and device and configures the surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor of the window
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: a variadic list of options to configure the Gpu
//
// Returns:
//   - Gpu: the Gpu
//   - error: an error if no adapter or device could be acquired
func NewGpu(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...GpuBuilderOption) (Gpu, error) {
	g := &gpu{
		mu:              &sync.Mutex{},
		label:           "Main Device",
		presentMode:     wgpu.PresentModeImmediate,
		powerPreference: wgpu.PowerPreferenceHighPerformance,
		decodeWorkers:   max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.resources == nil {
		g.resources = resource.NewManager()
	}

	g.instance = wgpu.CreateInstance(nil)
	g.surface = g.instance.CreateSurface(surfaceDescriptor)

	adapter, err := g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      g.powerPreference,
		ForceFallbackAdapter: g.forceFallbackAdapter,
		CompatibleSurface:    g.surface,
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	g.adapter = adapter

	limits := requiredLimits(wgpu.DefaultLimits(), adapter.GetLimits().Limits)
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: g.label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	g.device = device
	g.queue = device.GetQueue()

	capabilities := g.surface.GetCapabilities(g.adapter)
	g.surfaceFormat = chooseSurfaceFormat(capabilities.Formats)
	g.viewFormat = texture.SRGBVariant(g.surfaceFormat)
	g.presentMode = choosePresentMode(g.presentMode, capabilities.PresentModes)
	if len(capabilities.AlphaModes) > 0 {
		g.alphaMode = capabilities.AlphaModes[0]
	}

	g.decodePool = worker.NewDynamicWorkerPool(g.decodeWorkers, 64, 1*time.Second)

	g.Resize(width, height)
	return g, nil
}

func (g *gpu) Device() *wgpu.Device {
	return g.device
}

func (g *gpu) Queue() *wgpu.Queue {
	return g.queue
}

func (g *gpu) Adapter() *wgpu.Adapter {
	return g.adapter
}

func (g *gpu) Surface() *wgpu.Surface {
	return g.surface
}

func (g *gpu) SurfaceFormat() wgpu.TextureFormat {
	return g.viewFormat
}

func (g *gpu) Size() (uint32, uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height
}

func (g *gpu) Resources() resource.Manager {
	return g.resources
}

func (g *gpu) Resize(width, height int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.width, g.height = clampSize(width, height)
	g.surface.Configure(g.adapter, g.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      g.surfaceFormat,
		Width:       g.width,
		Height:      g.height,
		PresentMode: g.presentMode,
		AlphaMode:   g.alphaMode,
		ViewFormats: surfaceViewFormats(g.surfaceFormat, g.viewFormat),
	})
}

func (g *gpu) NewBindGroup(options ...bind_group.BuilderOption) *bind_group.Builder {
	return bind_group.NewBuilder(g.device, options...)
}

func (g *gpu) NewPipelineLayout(label string, groups ...*bind_group.BindGroup) (*wgpu.PipelineLayout, error) {
	layouts, err := groupLayouts(g.resources, groups)
	if err != nil {
		return nil, err
	}
	label = common.Coalesce(label, "Pipeline Layout")
	layout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout %q: %w", label, err)
	}
	return layout, nil
}

func (g *gpu) ShaderModule(ctx context.Context, path string) (*wgpu.ShaderModule, error) {
	return g.resources.ShaderModule(ctx, g.device, path)
}

func (g *gpu) NewBuffer(desc wgpu.BufferDescriptor) (buffer.Buffer, error) {
	raw, err := g.device.CreateBuffer(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", desc.Label, err)
	}
	return buffer.NewBuffer(raw, buffer.WithDescriptor(desc)), nil
}

func (g *gpu) NewStorageBuffer(size uint64, label string) (buffer.Buffer, error) {
	return g.NewBuffer(wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: storageBufferUsage,
	})
}

func (g *gpu) WriteBuffer(buf buffer.Buffer, offset uint64, data []byte) error {
	return buf.Write(g.queue, offset, data)
}

func (g *gpu) ReadBuffer(buf buffer.Buffer) ([]byte, error) {
	if buf.Usage()&wgpu.BufferUsageCopySrc == 0 {
		return nil, fmt.Errorf("buffer %q was created without copy-src usage", buf.Label())
	}
	size := buf.Size()

	staging, err := g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback of " + common.Coalesce(buf.Label(), "buffer"),
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readback buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()
	encoder.CopyBufferToBuffer(buf.Raw(), 0, staging, 0, size)

	commands, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to finish readback commands: %w", err)
	}
	defer commands.Release()
	g.queue.Submit(commands)

	var status wgpu.BufferMapAsyncStatus
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map readback buffer: %w", err)
	}
	g.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("failed to map readback buffer: status %v", status)
	}

	out := make([]byte, size)
	copy(out, staging.GetMappedRange(0, uint(size)))
	staging.Unmap()
	return out, nil
}

func (g *gpu) CurrentSurfaceTexture() (*wgpu.Texture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frameSurface != nil {
		return nil, errors.New("previous frame surface not yet presented")
	}
	surfaceTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	g.frameSurface = surfaceTexture
	return surfaceTexture, nil
}

func (g *gpu) SurfaceView(surfaceTexture *wgpu.Texture) (*texture.TextureView, error) {
	desc := wgpu.TextureViewDescriptor{
		Label:           "Surface View",
		Format:          g.viewFormat,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	}
	raw, err := surfaceTexture.CreateView(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	return texture.NewTextureView(raw, desc), nil
}

func (g *gpu) Present() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frameSurface == nil {
		return
	}
	g.surface.Present()
	g.frameSurface.Release()
	g.frameSurface = nil
}

func (g *gpu) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frameSurface != nil {
		g.frameSurface.Release()
		g.frameSurface = nil
	}
	if g.resources != nil {
		g.resources.Release()
	}
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
}
