package buffer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// QueueWriter is the subset of *wgpu.Queue used to upload buffer contents.
type QueueWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// buffer is the unexported implementation of Buffer.
type buffer struct {
	// label is a debug label added for convenience.
	label string
	// raw is the GPU buffer this wrapper owns, or nil for buffers that have not been allocated.
	raw *wgpu.Buffer
	// size is the buffer size in bytes as requested at creation.
	size uint64
	// usage is the usage the buffer was created with.
	usage wgpu.BufferUsage
}

// Buffer wraps a GPU buffer together with the size and usage it was created with.
// The declared usage decides which kind of bind group slot a view of the buffer produces.
type Buffer interface {
	// Raw returns the underlying GPU buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the GPU buffer or nil if none was attached
	Raw() *wgpu.Buffer

	// Label returns the debug label for this buffer.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Size returns the size of the buffer in bytes.
	//
	// Returns:
	//   - uint64: the buffer size
	Size() uint64

	// Usage returns the usage flags the buffer was created with.
	//
	// Returns:
	//   - wgpu.BufferUsage: the usage flags
	Usage() wgpu.BufferUsage

	// View returns a read-write view over a byte range of the buffer.
	//
	// Parameters:
	//   - offset: the byte offset where the view starts
	//   - size: the length of the view in bytes, 0 meaning the rest of the buffer
	//
	// Returns:
	//   - BufferView: the view
	View(offset, size uint64) BufferView

	// ViewAll returns a read-write view over the whole buffer.
	//
	// Returns:
	//   - BufferView: the view
	ViewAll() BufferView

	// ViewRead returns a view over a byte range of the buffer marked read-only. The mark does not
	// change the binding kind a bind group builder picks for the view.
	//
	// Parameters:
	//   - offset: the byte offset where the view starts
	//   - size: the length of the view in bytes, 0 meaning the rest of the buffer
	//
	// Returns:
	//   - BufferView: the read-only view
	ViewRead(offset, size uint64) BufferView

	// Write uploads data into the buffer at the given byte offset.
	//
	// Parameters:
	//   - queue: the queue used for the upload
	//   - offset: the byte offset to write at
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write was rejected
	Write(queue QueueWriter, offset uint64, data []byte) error

	// Release releases the GPU buffer held by this wrapper.
	Release()
}

var _ Buffer = &buffer{}

// NewBuffer wraps a GPU buffer. Size and usage should match the descriptor the buffer was created with.
//
// Parameters:
//   - raw: the GPU buffer to wrap
//   - options: a variadic list of options setting label, size and usage
//
// Returns:
//   - Buffer: the wrapped buffer
func NewBuffer(raw *wgpu.Buffer, options ...BufferBuilderOption) Buffer {
	b := &buffer{
		raw: raw,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *buffer) Raw() *wgpu.Buffer {
	return b.raw
}

func (b *buffer) Label() string {
	return b.label
}

func (b *buffer) Size() uint64 {
	return b.size
}

func (b *buffer) Usage() wgpu.BufferUsage {
	return b.usage
}

func (b *buffer) View(offset, size uint64) BufferView {
	return BufferView{Buffer: b, Offset: offset, Size: size}
}

func (b *buffer) ViewAll() BufferView {
	return BufferView{Buffer: b, Offset: 0, Size: b.size}
}

func (b *buffer) ViewRead(offset, size uint64) BufferView {
	return BufferView{Buffer: b, Offset: offset, Size: size, ReadOnly: true}
}

func (b *buffer) Write(queue QueueWriter, offset uint64, data []byte) error {
	return queue.WriteBuffer(b.raw, offset, data)
}

func (b *buffer) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

// BufferView is a byte range of a Buffer that can be bound into a bind group.
type BufferView struct {
	Buffer   Buffer
	Offset   uint64
	Size     uint64
	ReadOnly bool
}

// Entry builds the bind group entry binding this view at the given binding index.
// A zero Size binds everything from Offset to the end of the buffer.
//
// Parameters:
//   - binding: the binding index for the entry
//
// Returns:
//   - wgpu.BindGroupEntry: the entry referencing this view's buffer range
func (v BufferView) Entry(binding uint32) wgpu.BindGroupEntry {
	size := v.Size
	if size == 0 {
		size = wgpu.WholeSize
	}
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  v.Buffer.Raw(),
		Offset:  v.Offset,
		Size:    size,
	}
}
