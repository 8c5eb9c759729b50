package texture

import "github.com/cogentcore/webgpu/wgpu"

// SampleType returns the sample type a shader uses to read a texture of the given format.
// 32-bit float formats are reported as unfilterable, depth formats as depth, and integer
// formats as signed or unsigned integers. Unknown formats fall back to filterable float.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - wgpu.TextureSampleType: the sample type for texture bindings of this format
func SampleType(format wgpu.TextureFormat) wgpu.TextureSampleType {
	switch format {
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatRG32Float, wgpu.TextureFormatRGBA32Float:
		return wgpu.TextureSampleTypeUnfilterableFloat
	case wgpu.TextureFormatDepth16Unorm, wgpu.TextureFormatDepth24Plus,
		wgpu.TextureFormatDepth24PlusStencil8, wgpu.TextureFormatDepth32Float:
		return wgpu.TextureSampleTypeDepth
	case wgpu.TextureFormatR8Uint, wgpu.TextureFormatR16Uint, wgpu.TextureFormatRG8Uint,
		wgpu.TextureFormatR32Uint, wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRGBA8Uint,
		wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA32Uint,
		wgpu.TextureFormatStencil8:
		return wgpu.TextureSampleTypeUint
	case wgpu.TextureFormatR8Sint, wgpu.TextureFormatR16Sint, wgpu.TextureFormatRG8Sint,
		wgpu.TextureFormatR32Sint, wgpu.TextureFormatRG16Sint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatRG32Sint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatRGBA32Sint:
		return wgpu.TextureSampleTypeSint
	}
	return wgpu.TextureSampleTypeFloat
}

// Components returns the number of channels in a texture format, or 0 if the format is unknown.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - int: the channel count
func Components(format wgpu.TextureFormat) int {
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Snorm, wgpu.TextureFormatR8Uint, wgpu.TextureFormatR8Sint,
		wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint, wgpu.TextureFormatR16Float,
		wgpu.TextureFormatR32Float, wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint,
		wgpu.TextureFormatDepth16Unorm, wgpu.TextureFormatDepth24Plus, wgpu.TextureFormatDepth32Float,
		wgpu.TextureFormatStencil8:
		return 1
	case wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRG8Snorm, wgpu.TextureFormatRG8Uint, wgpu.TextureFormatRG8Sint,
		wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRG16Sint, wgpu.TextureFormatRG16Float,
		wgpu.TextureFormatRG32Float, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatDepth24PlusStencil8:
		return 2
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Snorm,
		wgpu.TextureFormatRGBA8Uint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatRGBA16Float,
		wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA32Sint:
		return 4
	}
	return 0
}

// BytesPerPixel returns the size of one texel of a color format in bytes.
// Depth, stencil and unknown formats have no fixed CPU-side size and return 0.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - uint32: the texel size in bytes
func BytesPerPixel(format wgpu.TextureFormat) uint32 {
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Snorm, wgpu.TextureFormatR8Uint, wgpu.TextureFormatR8Sint:
		return 1
	case wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint, wgpu.TextureFormatR16Float,
		wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRG8Snorm, wgpu.TextureFormatRG8Uint, wgpu.TextureFormatRG8Sint:
		return 2
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint,
		wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRG16Sint, wgpu.TextureFormatRG16Float,
		wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Snorm,
		wgpu.TextureFormatRGBA8Uint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
		return 4
	case wgpu.TextureFormatRG32Float, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatRGBA16Float:
		return 8
	case wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA32Sint:
		return 16
	}
	return 0
}

// IsSRGB reports whether the format stores color in the sRGB transfer function.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - bool: true for sRGB formats
func IsSRGB(format wgpu.TextureFormat) bool {
	return format == wgpu.TextureFormatRGBA8UnormSrgb || format == wgpu.TextureFormatBGRA8UnormSrgb
}

// SRGBVariant returns the sRGB counterpart of a linear 8-bit color format, or the format itself
// when it has none.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - wgpu.TextureFormat: the sRGB variant
func SRGBVariant(format wgpu.TextureFormat) wgpu.TextureFormat {
	switch format {
	case wgpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8UnormSrgb
	}
	return format
}
