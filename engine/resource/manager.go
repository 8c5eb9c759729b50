package resource

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpu/engine/bind_group"
	"github.com/Carmen-Shannon/oxy-gpu/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/sync/singleflight"
)

// ShaderDevice is the subset of *wgpu.Device needed to compile shader modules.
type ShaderDevice interface {
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
}

// Stats is a point in time snapshot of the manager's cache sizes.
type Stats struct {
	BindGroupLayouts int
	ShaderModules    int
}

type layoutEntry struct {
	entries bind_group.LayoutEntries
	layout  *wgpu.BindGroupLayout
}

// manager is the implementation of the Manager interface.
type manager struct {
	layoutMu sync.RWMutex

	// layouts holds compiled bind group layouts keyed by LayoutEntries.Key.
	layouts map[string]layoutEntry

	// layoutFlight collapses concurrent compiles of one layout key into a single device call.
	layoutFlight singleflight.Group

	shaderMu sync.RWMutex

	// shaders holds compiled shader modules keyed by the path they were loaded from.
	shaders map[string]*wgpu.ShaderModule

	// shaderFlight collapses concurrent loads of one path. Loads run without holding shaderMu.
	shaderFlight singleflight.Group

	// loader reads and preprocesses WGSL sources for ShaderModule.
	loader shader.Loader
}

// Manager owns GPU objects that are shared between many users and must only be compiled once.
//
// Bind group layouts are keyed by their full entry list, so two bind groups with the same binding
// structure always share one layout. Entries are never replaced or removed until Release.
type Manager interface {
	bind_group.LayoutCache

	// BindGroupLayoutCount returns the number of distinct layouts compiled so far.
	BindGroupLayoutCount() int

	// ShaderModule returns the compiled shader module for the WGSL file at path, loading,
	// preprocessing and compiling it on first use.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetches
	//   - device: the device used to compile the module
	//   - path: a file path or http(s) URL of the shader
	//
	// Returns:
	//   - *wgpu.ShaderModule: the shared shader module
	//   - error: an error if the source could not be loaded or compiled
	ShaderModule(ctx context.Context, device ShaderDevice, path string) (*wgpu.ShaderModule, error)

	// ShaderModuleCount returns the number of cached shader modules.
	ShaderModuleCount() int

	// Loader returns the shader loader used by ShaderModule.
	Loader() shader.Loader

	// Stats returns the current cache sizes.
	Stats() Stats

	// Release releases every cached layout and shader module and empties the caches.
	Release()
}

var _ Manager = &manager{}

// NewManager creates an empty Manager.
//
// Parameters:
//   - options: a variadic list of options to configure the manager
//
// Returns:
//   - Manager: the manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		layouts: make(map[string]layoutEntry),
		shaders: make(map[string]*wgpu.ShaderModule),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.loader == nil {
		m.loader = shader.NewLoader()
	}
	return m
}

func (m *manager) BindGroupLayout(entries bind_group.LayoutEntries) (*wgpu.BindGroupLayout, bool) {
	m.layoutMu.RLock()
	defer m.layoutMu.RUnlock()

	e, ok := m.layouts[entries.Key()]
	if !ok {
		return nil, false
	}
	return e.layout, true
}

func (m *manager) InsertBindGroupLayout(entries bind_group.LayoutEntries, layout *wgpu.BindGroupLayout) bool {
	m.layoutMu.Lock()
	defer m.layoutMu.Unlock()

	if _, ok := m.layouts[entries.Key()]; ok {
		return false
	}
	m.layouts[entries.Key()] = layoutEntry{entries: entries, layout: layout}
	return true
}

func (m *manager) BindGroupLayoutOrCreate(entries bind_group.LayoutEntries, create func() (*wgpu.BindGroupLayout, error)) (*wgpu.BindGroupLayout, error) {
	if layout, ok := m.BindGroupLayout(entries); ok {
		return layout, nil
	}

	v, err, _ := m.layoutFlight.Do(entries.Key(), func() (any, error) {
		// an earlier flight for this key may have finished since the lookup above
		if layout, ok := m.BindGroupLayout(entries); ok {
			return layout, nil
		}
		layout, err := create()
		if err != nil {
			return nil, err
		}
		if !m.InsertBindGroupLayout(entries, layout) {
			// stored through InsertBindGroupLayout meanwhile, keep that one
			if layout != nil {
				layout.Release()
			}
			layout, _ = m.BindGroupLayout(entries)
		}
		return layout, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*wgpu.BindGroupLayout), nil
}

func (m *manager) BindGroupLayoutCount() int {
	m.layoutMu.RLock()
	defer m.layoutMu.RUnlock()
	return len(m.layouts)
}

func (m *manager) ShaderModule(ctx context.Context, device ShaderDevice, path string) (*wgpu.ShaderModule, error) {
	if module, ok := m.cachedShaderModule(path); ok {
		return module, nil
	}

	v, err, _ := m.shaderFlight.Do(path, func() (any, error) {
		if module, ok := m.cachedShaderModule(path); ok {
			return module, nil
		}

		src, err := m.loader.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load shader %s: %w", path, err)
		}

		module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: path,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: src,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create shader module %s: %w", path, err)
		}

		m.shaderMu.Lock()
		m.shaders[path] = module
		m.shaderMu.Unlock()
		log.Printf("[Resource] compiled shader module %s", path)
		return module, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*wgpu.ShaderModule), nil
}

func (m *manager) cachedShaderModule(path string) (*wgpu.ShaderModule, bool) {
	m.shaderMu.RLock()
	defer m.shaderMu.RUnlock()
	module, ok := m.shaders[path]
	return module, ok
}

func (m *manager) ShaderModuleCount() int {
	m.shaderMu.RLock()
	defer m.shaderMu.RUnlock()
	return len(m.shaders)
}

func (m *manager) Loader() shader.Loader {
	return m.loader
}

func (m *manager) Stats() Stats {
	return Stats{
		BindGroupLayouts: m.BindGroupLayoutCount(),
		ShaderModules:    m.ShaderModuleCount(),
	}
}

func (m *manager) Release() {
	m.layoutMu.Lock()
	for key, e := range m.layouts {
		if e.layout != nil {
			e.layout.Release()
		}
		delete(m.layouts, key)
	}
	m.layoutMu.Unlock()

	m.shaderMu.Lock()
	defer m.shaderMu.Unlock()
	for path, module := range m.shaders {
		if module != nil {
			module.Release()
		}
		m.loader.Invalidate(path)
		delete(m.shaders, path)
	}
}
