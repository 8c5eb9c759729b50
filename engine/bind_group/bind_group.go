package bind_group

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-gpu/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gpu/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device is the subset of *wgpu.Device needed to compile bind group layouts and bind groups.
type Device interface {
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
}

// LayoutCache stores compiled bind group layouts keyed by their entries.
type LayoutCache interface {
	// BindGroupLayout returns the cached layout for entries.
	//
	// Parameters:
	//   - entries: the layout entries to look up
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the cached layout or nil
	//   - bool: true if the layout was found
	BindGroupLayout(entries LayoutEntries) (*wgpu.BindGroupLayout, bool)

	// InsertBindGroupLayout stores a compiled layout for entries. An existing layout is never replaced.
	//
	// Parameters:
	//   - entries: the layout entries used as the key
	//   - layout: the compiled layout
	//
	// Returns:
	//   - bool: true if the layout was stored, false if one already existed for entries
	InsertBindGroupLayout(entries LayoutEntries, layout *wgpu.BindGroupLayout) bool

	// BindGroupLayoutOrCreate returns the cached layout for entries, calling create on a miss and
	// storing its result. Concurrent callers with equal entries share a single call to create.
	//
	// Parameters:
	//   - entries: the layout entries used as the key
	//   - create: compiles the layout on a miss
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the cached or newly compiled layout
	//   - error: the error returned by create
	BindGroupLayoutOrCreate(entries LayoutEntries, create func() (*wgpu.BindGroupLayout, error)) (*wgpu.BindGroupLayout, error)
}

// BindGroup is a compiled bind group together with the layout entries it was compiled against.
// The entries are needed to look the shared layout back up when building a pipeline layout.
type BindGroup struct {
	Label string
	Raw   *wgpu.BindGroup
	// Entries is a copy of the layout entries the bind group was compiled against.
	Entries LayoutEntries
}

// Release releases the GPU bind group. The shared layout stays in its cache.
func (g *BindGroup) Release() {
	if g.Raw != nil {
		g.Raw.Release()
		g.Raw = nil
	}
}

// Builder accumulates bindings one at a time and compiles them into a BindGroup.
// Binding indices are assigned in call order starting at zero.
type Builder struct {
	device        Device
	label         string
	layoutEntries []wgpu.BindGroupLayoutEntry
	entries       []wgpu.BindGroupEntry
}

// NewBuilder creates an empty Builder compiling against device.
//
// Parameters:
//   - device: the device used to compile layouts and bind groups
//   - options: a variadic list of options to configure the builder
//
// Returns:
//   - *Builder: the builder
func NewBuilder(device Device, options ...BuilderOption) *Builder {
	b := &Builder{
		device:        device,
		layoutEntries: make([]wgpu.BindGroupLayoutEntry, 0, 4),
		entries:       make([]wgpu.BindGroupEntry, 0, 4),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// WithBuffer appends a buffer binding. The slot kind follows the buffer's usage: uniform usage
// yields a uniform slot, storage usage a read-write storage slot. Panics if the buffer has neither usage.
//
// Parameters:
//   - view: the buffer range to bind
//   - visibility: the shader stages that may access the binding
//
// Returns:
//   - *Builder: the builder for chaining
func (b *Builder) WithBuffer(view buffer.BufferView, visibility wgpu.ShaderStage) *Builder {
	usage := view.Buffer.Usage()

	var ty wgpu.BufferBindingType
	switch {
	case usage&wgpu.BufferUsageUniform != 0:
		ty = wgpu.BufferBindingTypeUniform
	case usage&wgpu.BufferUsageStorage != 0:
		ty = wgpu.BufferBindingTypeStorage
	default:
		panic(fmt.Sprintf("bind_group: invalid usage %v for buffer %q: expected uniform or storage", usage, view.Buffer.Label()))
	}
	return b.appendBuffer(view, visibility, ty)
}

// WithReadOnlyBuffer appends a read-only storage binding, for shaders declaring `var<storage, read>`.
// Panics if the buffer was created without storage usage.
//
// Parameters:
//   - view: the buffer range to bind
//   - visibility: the shader stages that may access the binding
//
// Returns:
//   - *Builder: the builder for chaining
func (b *Builder) WithReadOnlyBuffer(view buffer.BufferView, visibility wgpu.ShaderStage) *Builder {
	if usage := view.Buffer.Usage(); usage&wgpu.BufferUsageStorage == 0 {
		panic(fmt.Sprintf("bind_group: invalid usage %v for buffer %q: expected storage", usage, view.Buffer.Label()))
	}
	return b.appendBuffer(view, visibility, wgpu.BufferBindingTypeReadOnlyStorage)
}

func (b *Builder) appendBuffer(view buffer.BufferView, visibility wgpu.ShaderStage, ty wgpu.BufferBindingType) *Builder {
	binding := uint32(len(b.layoutEntries))
	b.layoutEntries = append(b.layoutEntries, wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:             ty,
			HasDynamicOffset: false,
			MinBindingSize:   0,
		},
	})
	b.entries = append(b.entries, view.Entry(binding))
	return b
}

// WithTexture appends a sampled texture binding using the texture's whole view. The sample type
// is derived from the texture format and the view dimension from the texture. Panics if the
// texture has no view or was created without texture binding usage.
//
// Parameters:
//   - tex: the texture to bind
//   - visibility: the shader stages that may access the binding
//
// Returns:
//   - *Builder: the builder for chaining
func (b *Builder) WithTexture(tex texture.Texture, visibility wgpu.ShaderStage) *Builder {
	if usage := tex.Usage(); usage != 0 && usage&wgpu.TextureUsageTextureBinding == 0 {
		panic(fmt.Sprintf("bind_group: texture %q was created without texture binding usage", tex.Label()))
	}
	view := tex.ViewAll()
	if view == nil {
		panic(fmt.Sprintf("bind_group: texture %q has no view to bind", tex.Label()))
	}

	binding := uint32(len(b.layoutEntries))
	b.layoutEntries = append(b.layoutEntries, wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    tex.SampleType(),
			ViewDimension: tex.Dimension(),
			Multisampled:  false,
		},
	})
	b.entries = append(b.entries, wgpu.BindGroupEntry{
		Binding:     binding,
		TextureView: view.Raw,
	})
	return b
}

// LayoutEntries returns the layout entries accumulated so far.
//
// Returns:
//   - LayoutEntries: a snapshot of the entries
func (b *Builder) LayoutEntries() LayoutEntries {
	return NewLayoutEntries(b.layoutEntries...)
}

// Finish compiles the accumulated bindings. The layout is taken from cache, or compiled and
// inserted on a miss, and the bind group is compiled against that shared layout.
// Panics if the layout cannot be found directly after insertion.
//
// Parameters:
//   - cache: the layout cache shared by every builder of the owning resource manager
//
// Returns:
//   - *BindGroup: the compiled bind group and a copy of its layout entries
//   - error: an error if the device failed to compile the layout or bind group
func (b *Builder) Finish(cache LayoutCache) (*BindGroup, error) {
	key := b.LayoutEntries()

	_, err := cache.BindGroupLayoutOrCreate(key, func() (*wgpu.BindGroupLayout, error) {
		desc := key.Descriptor(b.label)
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("failed to create bind group layout: %w", err)
		}
		log.Printf("[BindGroup] created new bind group layout with %d entries", key.Len())
		return layout, nil
	})
	if err != nil {
		return nil, err
	}

	layout, ok := cache.BindGroupLayout(key)
	if !ok {
		panic("bind_group: layout lookup failed after insertion")
	}

	entries := make([]wgpu.BindGroupEntry, len(b.entries))
	copy(entries, b.entries)

	raw, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   b.label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group: %w", err)
	}

	return &BindGroup{
		Label:   b.label,
		Raw:     raw,
		Entries: key,
	}, nil
}
