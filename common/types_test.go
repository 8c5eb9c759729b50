package common

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeGrayImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 10)
	}

	data, err := DecodeTextureStagingDataBytes(encodePNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, wgpu.TextureFormatR8Unorm, data.Format)
	assert.Equal(t, uint32(1), data.BytesPerPixel)
	assert.Equal(t, uint32(3), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, uint32(3), data.BytesPerRow())
	assert.Equal(t, []byte{0, 10, 20, 30, 40, 50}, data.Pixels)
}

func TestDecodeGray16Image(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0})
	img.SetGray16(1, 0, color.Gray16{Y: math.MaxUint16})

	data, err := DecodeTextureStagingDataBytes(encodePNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, wgpu.TextureFormatR32Float, data.Format)
	assert.Equal(t, uint32(4), data.BytesPerPixel)
	require.Len(t, data.Pixels, 8)
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(data.Pixels[0:4])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data.Pixels[4:8])))
}

func TestDecodeColorImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 128})

	data, err := DecodeTextureStagingDataBytes(encodePNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, data.Format)
	assert.Equal(t, uint32(4), data.BytesPerPixel)
	assert.Equal(t, uint32(8), data.BytesPerRow())
	require.Len(t, data.Pixels, 16)
	assert.Equal(t, []byte{255, 0, 0, 255}, data.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 128}, data.Pixels[12:16])
}

func TestStagingDataFromOffsetImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	data := StagingDataFromImage(sub)
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, []byte{5, 6, 9, 10}, data.Pixels)
}

func TestDecodeInvalidImage(t *testing.T) {
	_, err := DecodeTextureStagingDataBytes([]byte("not an image"))
	assert.Error(t, err)
}
