package gpu

import (
	"fmt"
	"reflect"

	"github.com/Carmen-Shannon/oxy-gpu/engine/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// NewUniformBuffer creates a uniform buffer sized for value and writes value into it.
// T must be a plain value type laid out the way the shader expects it.
//
// Parameters:
//   - g: the Gpu creating the buffer
//   - value: the initial contents
//
// Returns:
//   - buffer.Buffer: the buffer
//   - error: an error if the buffer could not be created or written
func NewUniformBuffer[T any](g Gpu, value T) (buffer.Buffer, error) {
	data := uniformBytes(value)
	buf, err := g.NewBuffer(wgpu.BufferDescriptor{
		Label: fmt.Sprintf("Uniform %s", reflect.TypeFor[T]()),
		Size:  uint64(len(data)),
		Usage: uniformBufferUsage,
	})
	if err != nil {
		return nil, err
	}
	if err := g.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, fmt.Errorf("failed to write uniform buffer: %w", err)
	}
	return buf, nil
}

// WriteUniform overwrites the contents of a uniform buffer created by NewUniformBuffer.
//
// Parameters:
//   - g: the Gpu owning the buffer
//   - buf: the uniform buffer
//   - value: the new contents
//
// Returns:
//   - error: an error if value does not fit or the write failed
func WriteUniform[T any](g Gpu, buf buffer.Buffer, value T) error {
	data := uniformBytes(value)
	if uint64(len(data)) > buf.Size() {
		return fmt.Errorf("value of %d bytes does not fit uniform buffer %q of %d bytes", len(data), buf.Label(), buf.Size())
	}
	return g.WriteBuffer(buf, 0, data)
}

// NewStorageBufferFrom creates a storage buffer holding a copy of values.
//
// Parameters:
//   - g: the Gpu creating the buffer
//   - label: the debug label
//   - values: the initial contents
//
// Returns:
//   - buffer.Buffer: the buffer
//   - error: an error if the buffer could not be created or written
func NewStorageBufferFrom[T any](g Gpu, label string, values []T) (buffer.Buffer, error) {
	if len(values) == 0 {
		return g.NewStorageBuffer(copyBufferAlignment, label)
	}
	data := wgpu.ToBytes(values)
	size := alignSize(uint64(len(data)), copyBufferAlignment)
	buf, err := g.NewStorageBuffer(size, label)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, size)
	copy(padded, data)
	if err := g.WriteBuffer(buf, 0, padded); err != nil {
		buf.Release()
		return nil, fmt.Errorf("failed to write storage buffer: %w", err)
	}
	return buf, nil
}
