package buffer

import "github.com/cogentcore/webgpu/wgpu"

// BufferBuilderOption is a functional option used to configure a Buffer during construction.
type BufferBuilderOption func(*buffer)

// WithLabel sets the debug label of the buffer.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - BufferBuilderOption: a function that sets the label
func WithLabel(label string) BufferBuilderOption {
	return func(b *buffer) {
		b.label = label
	}
}

// WithSize records the size in bytes the buffer was created with.
//
// Parameters:
//   - size: the buffer size in bytes
//
// Returns:
//   - BufferBuilderOption: a function that sets the size
func WithSize(size uint64) BufferBuilderOption {
	return func(b *buffer) {
		b.size = size
	}
}

// WithUsage records the usage flags the buffer was created with.
//
// Parameters:
//   - usage: the buffer usage flags
//
// Returns:
//   - BufferBuilderOption: a function that sets the usage
func WithUsage(usage wgpu.BufferUsage) BufferBuilderOption {
	return func(b *buffer) {
		b.usage = usage
	}
}

// WithDescriptor copies label, size and usage from the descriptor the buffer was created with.
//
// Parameters:
//   - desc: the descriptor used to create the buffer
//
// Returns:
//   - BufferBuilderOption: a function that applies the descriptor fields
func WithDescriptor(desc wgpu.BufferDescriptor) BufferBuilderOption {
	return func(b *buffer) {
		b.label = desc.Label
		b.size = desc.Size
		b.usage = desc.Usage
	}
}
