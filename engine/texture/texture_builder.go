package texture

import "github.com/cogentcore/webgpu/wgpu"

// TextureBuilderOption is a functional option used to describe a Texture during construction.
type TextureBuilderOption func(*texture)

// WithLabel sets the debug label of the texture.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - TextureBuilderOption: a function that sets the label
func WithLabel(label string) TextureBuilderOption {
	return func(t *texture) {
		t.label = label
	}
}

// WithFormat sets the texel format of the texture.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - TextureBuilderOption: a function that sets the format
func WithFormat(format wgpu.TextureFormat) TextureBuilderOption {
	return func(t *texture) {
		t.format = format
	}
}

// WithSize sets the extent of the texture.
//
// Parameters:
//   - size: width, height and depth or array layer count
//
// Returns:
//   - TextureBuilderOption: a function that sets the extent
func WithSize(size wgpu.Extent3D) TextureBuilderOption {
	return func(t *texture) {
		t.width = size.Width
		t.height = size.Height
		t.depthOrArrayLayers = size.DepthOrArrayLayers
	}
}

// WithDimension sets the view dimension used when the texture is bound.
//
// Parameters:
//   - dimension: the view dimension
//
// Returns:
//   - TextureBuilderOption: a function that sets the view dimension
func WithDimension(dimension wgpu.TextureViewDimension) TextureBuilderOption {
	return func(t *texture) {
		t.dimension = dimension
	}
}

// WithDescriptor copies label, format, extent, usage and mip count from the descriptor the texture was created with.
//
// Parameters:
//   - desc: the descriptor used to create the texture
//
// Returns:
//   - TextureBuilderOption: a function that applies the descriptor fields
func WithDescriptor(desc wgpu.TextureDescriptor) TextureBuilderOption {
	return func(t *texture) {
		t.label = desc.Label
		t.format = desc.Format
		t.usage = desc.Usage
		t.width = desc.Size.Width
		t.height = desc.Size.Height
		t.depthOrArrayLayers = desc.Size.DepthOrArrayLayers
		if desc.MipLevelCount > 0 {
			t.mipLevelCount = desc.MipLevelCount
		}
	}
}

// WithView appends an already created view to the texture.
//
// Parameters:
//   - view: the view to append
//
// Returns:
//   - TextureBuilderOption: a function that appends the view
func WithView(view *TextureView) TextureBuilderOption {
	return func(t *texture) {
		t.views = append(t.views, view)
	}
}
