package resource

import "github.com/Carmen-Shannon/oxy-gpu/engine/shader"

// ManagerBuilderOption is a functional option used to configure a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithShaderLoader sets the loader used to read shader sources.
//
// Parameters:
//   - loader: the shader loader
//
// Returns:
//   - ManagerBuilderOption: a function that sets the loader
func WithShaderLoader(loader shader.Loader) ManagerBuilderOption {
	return func(m *manager) {
		m.loader = loader
	}
}
