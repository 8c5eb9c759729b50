package texture

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestSampleType(t *testing.T) {
	cases := map[wgpu.TextureFormat]wgpu.TextureSampleType{
		wgpu.TextureFormatRGBA8UnormSrgb:     wgpu.TextureSampleTypeFloat,
		wgpu.TextureFormatR8Unorm:            wgpu.TextureSampleTypeFloat,
		wgpu.TextureFormatRGBA16Float:        wgpu.TextureSampleTypeFloat,
		wgpu.TextureFormatR32Float:           wgpu.TextureSampleTypeUnfilterableFloat,
		wgpu.TextureFormatRGBA32Float:        wgpu.TextureSampleTypeUnfilterableFloat,
		wgpu.TextureFormatDepth32Float:       wgpu.TextureSampleTypeDepth,
		wgpu.TextureFormatDepth24PlusStencil8: wgpu.TextureSampleTypeDepth,
		wgpu.TextureFormatR32Uint:            wgpu.TextureSampleTypeUint,
		wgpu.TextureFormatRGBA8Sint:          wgpu.TextureSampleTypeSint,
	}
	for format, want := range cases {
		assert.Equal(t, want, SampleType(format), "format %v", format)
	}
}

func TestComponentsAndBytesPerPixel(t *testing.T) {
	assert.Equal(t, 1, Components(wgpu.TextureFormatR8Unorm))
	assert.Equal(t, uint32(1), BytesPerPixel(wgpu.TextureFormatR8Unorm))

	assert.Equal(t, 2, Components(wgpu.TextureFormatRG8Unorm))
	assert.Equal(t, uint32(2), BytesPerPixel(wgpu.TextureFormatRG8Unorm))

	assert.Equal(t, 4, Components(wgpu.TextureFormatBGRA8UnormSrgb))
	assert.Equal(t, uint32(4), BytesPerPixel(wgpu.TextureFormatBGRA8UnormSrgb))

	assert.Equal(t, 4, Components(wgpu.TextureFormatRGBA16Float))
	assert.Equal(t, uint32(8), BytesPerPixel(wgpu.TextureFormatRGBA16Float))

	assert.Equal(t, uint32(16), BytesPerPixel(wgpu.TextureFormatRGBA32Float))
	assert.Equal(t, uint32(0), BytesPerPixel(wgpu.TextureFormatDepth24Plus))
}

func TestSRGB(t *testing.T) {
	assert.True(t, IsSRGB(wgpu.TextureFormatBGRA8UnormSrgb))
	assert.False(t, IsSRGB(wgpu.TextureFormatBGRA8Unorm))

	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, SRGBVariant(wgpu.TextureFormatBGRA8Unorm))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, SRGBVariant(wgpu.TextureFormatRGBA8Unorm))
	assert.Equal(t, wgpu.TextureFormatR32Float, SRGBVariant(wgpu.TextureFormatR32Float))
}
