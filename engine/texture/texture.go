package texture

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// texture is the unexported implementation of Texture.
type texture struct {
	// label is a debug label, also used to name the views created from this texture.
	label string

	// raw is the GPU texture, or nil for textures that have not been allocated.
	raw *wgpu.Texture

	format             wgpu.TextureFormat
	usage              wgpu.TextureUsage
	width              uint32
	height             uint32
	depthOrArrayLayers uint32
	mipLevelCount      uint32

	// dimension is the view dimension used when the texture is bound into a bind group.
	dimension wgpu.TextureViewDimension

	// views holds every view created from this texture; views[0] covers the whole texture.
	views []*TextureView
}

// Texture wraps a GPU texture together with the metadata it was created with and the views
// created from it.
type Texture interface {
	// Raw returns the underlying GPU texture.
	//
	// Returns:
	//   - *wgpu.Texture: the GPU texture or nil if none was attached
	Raw() *wgpu.Texture

	// Label returns the debug label of the texture.
	//
	// Returns:
	//   - string: the label, empty if unset
	Label() string

	// SetLabel changes the debug label. Views created afterwards are named after the new label.
	//
	// Parameters:
	//   - label: the new label
	SetLabel(label string)

	// Format returns the texel format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format
	Format() wgpu.TextureFormat

	// Usage returns the usage flags the texture was created with.
	//
	// Returns:
	//   - wgpu.TextureUsage: the usage flags
	Usage() wgpu.TextureUsage

	// Size returns the texture extent.
	//
	// Returns:
	//   - wgpu.Extent3D: width, height and depth or array layer count
	Size() wgpu.Extent3D

	// Dimension returns the view dimension used when the texture is bound.
	//
	// Returns:
	//   - wgpu.TextureViewDimension: the view dimension
	Dimension() wgpu.TextureViewDimension

	// SampleType returns the sample type shaders use to read this texture.
	//
	// Returns:
	//   - wgpu.TextureSampleType: the sample type derived from the format
	SampleType() wgpu.TextureSampleType

	// DefaultLabel describes the texture by channel count, texel size and extent,
	// e.g. "4 channel, 4 bytes per pixel, 512 by 512 by 1 texture".
	//
	// Returns:
	//   - string: the generated label
	DefaultLabel() string

	// ViewAll returns the view covering the whole texture, or nil if no view has been created yet.
	//
	// Returns:
	//   - *TextureView: the first view
	ViewAll() *TextureView

	// Views returns every view created from this texture in creation order.
	//
	// Returns:
	//   - []*TextureView: the views
	Views() []*TextureView

	// NewView creates a whole-texture 2D view and appends it to the texture's views.
	// The view is labelled "View of <label>" when the texture has a label.
	//
	// Returns:
	//   - *TextureView: the new view
	//   - error: an error if the view could not be created
	NewView() (*TextureView, error)

	// Release releases every view and the GPU texture.
	Release()
}

var _ Texture = &texture{}

// NewTexture wraps a GPU texture. The options should describe the descriptor the texture was created with.
// No view is created; call NewView to create the whole-texture view.
//
// Parameters:
//   - raw: the GPU texture to wrap
//   - options: a variadic list of options describing the texture
//
// Returns:
//   - Texture: the wrapped texture
func NewTexture(raw *wgpu.Texture, options ...TextureBuilderOption) Texture {
	t := &texture{
		raw:                raw,
		format:             wgpu.TextureFormatRGBA8UnormSrgb,
		width:              1,
		height:             1,
		depthOrArrayLayers: 1,
		mipLevelCount:      1,
		dimension:          wgpu.TextureViewDimension2D,
		views:              make([]*TextureView, 0, 1),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *texture) Raw() *wgpu.Texture {
	return t.raw
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) SetLabel(label string) {
	t.label = label
}

func (t *texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *texture) Usage() wgpu.TextureUsage {
	return t.usage
}

func (t *texture) Size() wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              t.width,
		Height:             t.height,
		DepthOrArrayLayers: t.depthOrArrayLayers,
	}
}

func (t *texture) Dimension() wgpu.TextureViewDimension {
	return t.dimension
}

func (t *texture) SampleType() wgpu.TextureSampleType {
	return SampleType(t.format)
}

func (t *texture) DefaultLabel() string {
	return fmt.Sprintf("%d channel, %d bytes per pixel, %d by %d by %d texture",
		Components(t.format),
		BytesPerPixel(t.format),
		t.width,
		t.height,
		t.depthOrArrayLayers,
	)
}

func (t *texture) ViewAll() *TextureView {
	if len(t.views) == 0 {
		return nil
	}
	return t.views[0]
}

func (t *texture) Views() []*TextureView {
	return t.views
}

func (t *texture) NewView() (*TextureView, error) {
	if t.raw == nil {
		return nil, fmt.Errorf("texture %q has no GPU texture to create a view from", t.label)
	}

	desc := &wgpu.TextureViewDescriptor{
		Format:          t.format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   t.mipLevelCount,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	}
	if t.label != "" {
		desc.Label = "View of " + t.label
	}

	raw, err := t.raw.CreateView(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create view of texture %q: %w", t.label, err)
	}

	view := newTextureView(raw, desc)
	t.views = append(t.views, view)
	return view, nil
}

func (t *texture) Release() {
	for _, v := range t.views {
		v.Release()
	}
	t.views = t.views[:0]
	if t.raw != nil {
		t.raw.Release()
		t.raw = nil
	}
}

// TextureView wraps a GPU texture view and the range of the texture it covers.
type TextureView struct {
	Raw             *wgpu.TextureView
	Format          wgpu.TextureFormat
	Dimension       wgpu.TextureViewDimension
	Aspect          wgpu.TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// NewTextureView wraps an existing GPU texture view described by desc.
//
// Parameters:
//   - raw: the GPU texture view
//   - desc: the descriptor the view was created with
//
// Returns:
//   - *TextureView: the wrapped view
func NewTextureView(raw *wgpu.TextureView, desc wgpu.TextureViewDescriptor) *TextureView {
	return newTextureView(raw, &desc)
}

func newTextureView(raw *wgpu.TextureView, desc *wgpu.TextureViewDescriptor) *TextureView {
	return &TextureView{
		Raw:             raw,
		Format:          desc.Format,
		Dimension:       desc.Dimension,
		Aspect:          desc.Aspect,
		BaseMipLevel:    desc.BaseMipLevel,
		MipLevelCount:   desc.MipLevelCount,
		BaseArrayLayer:  desc.BaseArrayLayer,
		ArrayLayerCount: desc.ArrayLayerCount,
	}
}

// Attachment returns a color attachment rendering into this view that clears to opaque black
// and stores the result.
//
// Returns:
//   - wgpu.RenderPassColorAttachment: the color attachment
func (v *TextureView) Attachment() wgpu.RenderPassColorAttachment {
	return wgpu.RenderPassColorAttachment{
		View:    v.Raw,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: 0, G: 0, B: 0, A: 1,
		},
	}
}

// Release releases the GPU texture view.
func (v *TextureView) Release() {
	if v.Raw != nil {
		v.Raw.Release()
		v.Raw = nil
	}
}
