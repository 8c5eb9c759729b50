package bind_group

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func uniformEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	}
}

func TestLayoutEntriesEquality(t *testing.T) {
	a := NewLayoutEntries(uniformEntry(0, wgpu.ShaderStageVertex), uniformEntry(1, wgpu.ShaderStageFragment))
	b := NewLayoutEntries(uniformEntry(0, wgpu.ShaderStageVertex), uniformEntry(1, wgpu.ShaderStageFragment))
	swapped := NewLayoutEntries(uniformEntry(0, wgpu.ShaderStageFragment), uniformEntry(1, wgpu.ShaderStageVertex))
	shorter := NewLayoutEntries(uniformEntry(0, wgpu.ShaderStageVertex))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(swapped))
	assert.False(t, a.Equal(shorter))
	assert.Equal(t, 2, a.Len())
}

func TestLayoutEntriesEveryFieldMatters(t *testing.T) {
	base := uniformEntry(0, wgpu.ShaderStageCompute)

	dynamic := base
	dynamic.Buffer.HasDynamicOffset = true

	minSize := base
	minSize.Buffer.MinBindingSize = 16

	storage := base
	storage.Buffer.Type = wgpu.BufferBindingTypeStorage

	multisampled := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageCompute,
		Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D, Multisampled: true},
	}
	single := multisampled
	single.Texture.Multisampled = false

	keys := map[string]bool{}
	for _, e := range []wgpu.BindGroupLayoutEntry{base, dynamic, minSize, storage, multisampled, single} {
		keys[NewLayoutEntries(e).Key()] = true
	}
	assert.Len(t, keys, 6)
}

func TestLayoutEntriesAreImmutable(t *testing.T) {
	src := []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}
	l := NewLayoutEntries(src...)
	key := l.Key()

	src[0].Visibility = wgpu.ShaderStageFragment
	out := l.Entries()
	out[0].Binding = 9

	assert.Equal(t, key, l.Key())
	assert.Equal(t, wgpu.ShaderStageVertex, l.Entries()[0].Visibility)
	assert.Equal(t, uint32(0), l.Entries()[0].Binding)

	desc := l.Descriptor("globals")
	assert.Equal(t, "globals", desc.Label)
	assert.Len(t, desc.Entries, 1)
}
