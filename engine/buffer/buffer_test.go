package buffer

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	offset uint64
	data   []byte
	err    error
}

func (q *recordingQueue) WriteBuffer(_ *wgpu.Buffer, offset uint64, data []byte) error {
	q.offset = offset
	q.data = append([]byte(nil), data...)
	return q.err
}

func TestNewBufferOptions(t *testing.T) {
	b := NewBuffer(nil,
		WithLabel("camera"),
		WithSize(64),
		WithUsage(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst),
	)

	assert.Equal(t, "camera", b.Label())
	assert.Equal(t, uint64(64), b.Size())
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, b.Usage())
	assert.Nil(t, b.Raw())
}

func TestWithDescriptor(t *testing.T) {
	b := NewBuffer(nil, WithDescriptor(wgpu.BufferDescriptor{
		Label: "particles",
		Size:  4096,
		Usage: wgpu.BufferUsageStorage,
	}))

	assert.Equal(t, "particles", b.Label())
	assert.Equal(t, uint64(4096), b.Size())
	assert.Equal(t, wgpu.BufferUsageStorage, b.Usage())
}

func TestViews(t *testing.T) {
	b := NewBuffer(nil, WithSize(256))

	all := b.ViewAll()
	assert.Equal(t, uint64(0), all.Offset)
	assert.Equal(t, uint64(256), all.Size)
	assert.False(t, all.ReadOnly)
	assert.Same(t, b, all.Buffer)

	part := b.View(16, 32)
	assert.Equal(t, uint64(16), part.Offset)
	assert.Equal(t, uint64(32), part.Size)
	assert.False(t, part.ReadOnly)

	ro := b.ViewRead(8, 8)
	assert.Equal(t, uint64(8), ro.Offset)
	assert.True(t, ro.ReadOnly)
}

func TestViewEntry(t *testing.T) {
	b := NewBuffer(nil, WithSize(128))

	entry := b.View(32, 64).Entry(3)
	assert.Equal(t, uint32(3), entry.Binding)
	assert.Equal(t, uint64(32), entry.Offset)
	assert.Equal(t, uint64(64), entry.Size)

	whole := b.View(32, 0).Entry(0)
	assert.Equal(t, uint64(wgpu.WholeSize), whole.Size)
}

func TestWrite(t *testing.T) {
	b := NewBuffer(nil, WithSize(8))
	q := &recordingQueue{}

	require.NoError(t, b.Write(q, 4, []byte{1, 2, 3, 4}))
	assert.Equal(t, uint64(4), q.offset)
	assert.Equal(t, []byte{1, 2, 3, 4}, q.data)

	q.err = errors.New("rejected")
	assert.EqualError(t, b.Write(q, 0, []byte{1}), "rejected")
}

func TestReleaseWithoutGPUBuffer(t *testing.T) {
	b := NewBuffer(nil)
	assert.NotPanics(t, b.Release)
}
