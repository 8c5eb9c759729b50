package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/bind_group"
	"github.com/Carmen-Shannon/oxy-gpu/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gpu/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu      sync.Mutex
	layouts int
	groups  int
	shaders []string
	err     error
	// compile is how long each CreateBindGroupLayout call takes.
	compile time.Duration
}

func (d *fakeDevice) CreateBindGroupLayout(*wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	time.Sleep(d.compile)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts++
	// zero-value handles must never reach Release, and nil layouts are valid cache values
	return nil, nil
}

func (d *fakeDevice) CreateBindGroup(*wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups++
	return &wgpu.BindGroup{}, nil
}

func (d *fakeDevice) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	d.shaders = append(d.shaders, desc.WGSLDescriptor.Code)
	return &wgpu.ShaderModule{}, nil
}

func uniformEntries(visibility wgpu.ShaderStage) bind_group.LayoutEntries {
	return bind_group.NewLayoutEntries(wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: visibility,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	})
}

func memLoader(files map[string]string) shader.Loader {
	return shader.NewLoader(shader.WithFetcher(func(_ context.Context, path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
		}
		return []byte(src), nil
	}))
}

func TestInsertNeverReplaces(t *testing.T) {
	m := NewManager()
	first := &wgpu.BindGroupLayout{}
	second := &wgpu.BindGroupLayout{}

	_, ok := m.BindGroupLayout(uniformEntries(wgpu.ShaderStageVertex))
	assert.False(t, ok)

	assert.True(t, m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageVertex), first))
	assert.False(t, m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageVertex), second))

	got, ok := m.BindGroupLayout(uniformEntries(wgpu.ShaderStageVertex))
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, m.BindGroupLayoutCount())

	assert.True(t, m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageFragment), second))
	assert.Equal(t, Stats{BindGroupLayouts: 2}, m.Stats())
}

func TestBuildersShareLayouts(t *testing.T) {
	m := NewManager()
	dev := &fakeDevice{compile: time.Millisecond}
	uniform := buffer.NewBuffer(nil, buffer.WithSize(64), buffer.WithUsage(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bind_group.NewBuilder(dev).WithBuffer(uniform.ViewAll(), wgpu.ShaderStageVertex).Finish(m)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.BindGroupLayoutCount())
	assert.Equal(t, 1, dev.layouts)
	assert.Equal(t, 16, dev.groups)
}

func TestBindGroupLayoutOrCreate(t *testing.T) {
	m := NewManager()
	entries := uniformEntries(wgpu.ShaderStageFragment)
	boom := errors.New("out of memory")

	_, err := m.BindGroupLayoutOrCreate(entries, func() (*wgpu.BindGroupLayout, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.BindGroupLayoutCount())

	layout := &wgpu.BindGroupLayout{}
	calls := 0
	create := func() (*wgpu.BindGroupLayout, error) {
		calls++
		return layout, nil
	}
	got, err := m.BindGroupLayoutOrCreate(entries, create)
	require.NoError(t, err)
	assert.Same(t, layout, got)
	got, err = m.BindGroupLayoutOrCreate(entries, create)
	require.NoError(t, err)
	assert.Same(t, layout, got)
	assert.Equal(t, 1, calls)
}

func TestLayoutLookupNotBlockedByShaderLoad(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	loader := shader.NewLoader(shader.WithFetcher(func(ctx context.Context, path string) ([]byte, error) {
		close(started)
		<-unblock
		return []byte("fn main() {}"), nil
	}))
	m := NewManager(WithShaderLoader(loader))

	loaded := make(chan error, 1)
	go func() {
		_, err := m.ShaderModule(context.Background(), &fakeDevice{}, "slow.wgsl")
		loaded <- err
	}()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageVertex), nil)
		m.BindGroupLayout(uniformEntries(wgpu.ShaderStageVertex))
		m.Stats()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("layout cache blocked behind a shader load")
	}

	close(unblock)
	require.NoError(t, <-loaded)
	assert.Equal(t, Stats{BindGroupLayouts: 1, ShaderModules: 1}, m.Stats())
}

func TestShaderModuleLoadedOnceConcurrently(t *testing.T) {
	var mu sync.Mutex
	reads := 0
	m := NewManager(WithShaderLoader(shader.NewLoader(shader.WithFetcher(func(context.Context, string) ([]byte, error) {
		mu.Lock()
		reads++
		mu.Unlock()
		time.Sleep(time.Millisecond)
		return []byte("fn main() {}"), nil
	}))))
	dev := &fakeDevice{}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.ShaderModule(context.Background(), dev, "main.wgsl")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, dev.shaders, 1)
	assert.Equal(t, 1, reads)
}

func TestShaderModuleCached(t *testing.T) {
	m := NewManager(WithShaderLoader(memLoader(map[string]string{
		"main.wgsl": "@import \"lib.wgsl\"\nfn main() {}",
		"lib.wgsl":  "fn lib() {}",
	})))
	dev := &fakeDevice{}

	a, err := m.ShaderModule(context.Background(), dev, "main.wgsl")
	require.NoError(t, err)
	b, err := m.ShaderModule(context.Background(), dev, "main.wgsl")
	require.NoError(t, err)

	assert.Same(t, a, b)
	require.Len(t, dev.shaders, 1)
	assert.Equal(t, "fn lib() {}\nfn main() {}", dev.shaders[0])
	assert.Equal(t, 1, m.ShaderModuleCount())
	assert.Equal(t, 1, m.Loader().Len())
}

func TestShaderModuleErrors(t *testing.T) {
	m := NewManager(WithShaderLoader(memLoader(map[string]string{"ok.wgsl": "fn main() {}"})))

	_, err := m.ShaderModule(context.Background(), &fakeDevice{}, "missing.wgsl")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	boom := errors.New("invalid shader")
	_, err = m.ShaderModule(context.Background(), &fakeDevice{err: boom}, "ok.wgsl")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.ShaderModuleCount())
}

func TestReleaseEmptiesCaches(t *testing.T) {
	m := NewManager()
	m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageVertex), nil)
	m.InsertBindGroupLayout(uniformEntries(wgpu.ShaderStageCompute), nil)
	require.Equal(t, 2, m.BindGroupLayoutCount())

	m.Release()
	assert.Equal(t, Stats{}, m.Stats())
	_, ok := m.BindGroupLayout(uniformEntries(wgpu.ShaderStageVertex))
	assert.False(t, ok)
}
