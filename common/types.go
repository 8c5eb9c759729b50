// package common contains small helpers and plain data types shared by the engine packages. They are not interface-wrapped structs,
// just plain structs and functions that express commonly used data.
package common

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds decoded pixel data pending upload into a GPU texture.
type TextureStagingData struct {
	// Pixels is the tightly packed, row-major pixel data.
	Pixels []byte
	// Width is the width of the image in pixels.
	Width uint32
	// Height is the height of the image in pixels.
	Height uint32
	// Format is the texture format the pixel data is laid out in.
	Format wgpu.TextureFormat
	// BytesPerPixel is the size of one texel of Format in bytes.
	BytesPerPixel uint32
}

// BytesPerRow returns the row pitch of the staged pixel data.
//
// Returns:
//   - uint32: the number of bytes in one row of pixels
func (d TextureStagingData) BytesPerRow() uint32 {
	return d.Width * d.BytesPerPixel
}

// DecodeTextureStagingData decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP) into staging data.
//
// The texture format is picked from the decoded pixel layout:
//   - 8-bit grayscale maps to R8Unorm (1 byte per pixel)
//   - 16-bit grayscale maps to R32Float (4 bytes per pixel)
//   - 16-bit color maps to RGBA32Float (16 bytes per pixel)
//   - everything else is converted to non-premultiplied RGBA8UnormSrgb (4 bytes per pixel)
//
// Parameters:
//   - r: the reader providing the encoded image bytes
//
// Returns:
//   - TextureStagingData: the decoded pixels and their format
//   - error: an error if the image could not be decoded
func DecodeTextureStagingData(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return StagingDataFromImage(img), nil
}

// DecodeTextureStagingDataBytes is DecodeTextureStagingData for an in-memory encoded image.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - TextureStagingData: the decoded pixels and their format
//   - error: an error if the image could not be decoded
func DecodeTextureStagingDataBytes(data []byte) (TextureStagingData, error) {
	return DecodeTextureStagingData(bytes.NewReader(data))
}

// StagingDataFromImage converts an already decoded image into staging data.
//
// Parameters:
//   - img: the decoded image
//
// Returns:
//   - TextureStagingData: the packed pixels and their format
func StagingDataFromImage(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]byte, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := src.PixOffset(bounds.Min.X, y)
			pix = append(pix, src.Pix[off:off+width]...)
		}
		return TextureStagingData{
			Pixels:        pix,
			Width:         uint32(width),
			Height:        uint32(height),
			Format:        wgpu.TextureFormatR8Unorm,
			BytesPerPixel: 1,
		}
	case *image.Gray16:
		pix := make([]byte, 0, width*height*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				pix = appendFloat32(pix, float32(src.Gray16At(x, y).Y)/math.MaxUint16)
			}
		}
		return TextureStagingData{
			Pixels:        pix,
			Width:         uint32(width),
			Height:        uint32(height),
			Format:        wgpu.TextureFormatR32Float,
			BytesPerPixel: 4,
		}
	case *image.RGBA64, *image.NRGBA64:
		nrgba := image.NewNRGBA64(bounds)
		draw.Draw(nrgba, bounds, src, bounds.Min, draw.Src)
		pix := make([]byte, 0, width*height*16)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := nrgba.NRGBA64At(x, y)
				pix = appendFloat32(pix, float32(c.R)/math.MaxUint16)
				pix = appendFloat32(pix, float32(c.G)/math.MaxUint16)
				pix = appendFloat32(pix, float32(c.B)/math.MaxUint16)
				pix = appendFloat32(pix, float32(c.A)/math.MaxUint16)
			}
		}
		return TextureStagingData{
			Pixels:        pix,
			Width:         uint32(width),
			Height:        uint32(height),
			Format:        wgpu.TextureFormatRGBA32Float,
			BytesPerPixel: 16,
		}
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return TextureStagingData{
		Pixels:        nrgba.Pix,
		Width:         uint32(width),
		Height:        uint32(height),
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		BytesPerPixel: 4,
	}
}

func appendFloat32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}
