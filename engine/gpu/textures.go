package gpu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

func (g *gpu) NewTexture(width, height uint32, format wgpu.TextureFormat, renderable bool) (texture.Texture, error) {
	tex, err := g.newTexture(width, height, format, textureUsage(renderable))
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (g *gpu) NewTextureFromFile(ctx context.Context, path string) (texture.Texture, error) {
	staging, err := loadStagingData(ctx, path)
	if err != nil {
		return nil, err
	}
	return g.uploadTexture(path, staging)
}

func (g *gpu) NewTexturesFromFiles(ctx context.Context, paths ...string) ([]texture.Texture, error) {
	staged, errs := decodeAll(ctx, g.decodePool, paths)

	textures := make([]texture.Texture, len(paths))
	for i, path := range paths {
		if errs[i] != nil {
			continue
		}
		textures[i], errs[i] = g.uploadTexture(path, staged[i])
	}
	return textures, errors.Join(errs...)
}

// decodeAll loads and decodes every path on pool. Results and errors are indexed like paths.
func decodeAll(ctx context.Context, pool worker.DynamicWorkerPool, paths []string) ([]common.TextureStagingData, []error) {
	staged := make([]common.TextureStagingData, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				staged[i], errs[i] = loadStagingData(ctx, path)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()
	return staged, errs
}

// loadStagingData reads and decodes one image file.
func loadStagingData(ctx context.Context, path string) (common.TextureStagingData, error) {
	raw, err := common.FetchBytes(ctx, path)
	if err != nil {
		return common.TextureStagingData{}, texture.NewTextureError(texture.TextureErrorIO, err)
	}
	staging, err := common.DecodeTextureStagingDataBytes(raw)
	if err != nil {
		return common.TextureStagingData{}, texture.NewTextureError(texture.TextureErrorImage, fmt.Errorf("%s: %w", path, err))
	}
	return staging, nil
}

// uploadTexture creates a sampled texture matching staging and writes its pixels.
func (g *gpu) uploadTexture(path string, staging common.TextureStagingData) (texture.Texture, error) {
	tex, err := g.newTexture(staging.Width, staging.Height, staging.Format, textureUsage(false))
	if err != nil {
		return nil, texture.NewTextureError(texture.TextureErrorOther, fmt.Errorf("%s: %w", path, err))
	}

	g.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.Raw(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.BytesPerRow(),
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)
	return tex, nil
}

// newTexture creates a 2D texture with a single mip level and its first view, labelled with
// the texture's DefaultLabel.
func (g *gpu) newTexture(width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (texture.Texture, error) {
	desc := wgpu.TextureDescriptor{
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              max(width, 1),
			Height:             max(height, 1),
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	}
	desc.Label = texture.NewTexture(nil, texture.WithDescriptor(desc)).DefaultLabel()

	raw, err := g.device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	tex := texture.NewTexture(raw, texture.WithDescriptor(desc))
	if _, err := tex.NewView(); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}
