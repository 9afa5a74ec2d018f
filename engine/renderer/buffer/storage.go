package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Storage is a fixed-length array of T in a STORAGE|COPY_DST buffer.
// Its size never changes after construction.
type Storage[T any] struct {
	queue gpu.Queue
	buf   gpu.Buffer
	size  uint64
}

// NewStorage allocates room for size elements. Panics if size is zero.
//
// Parameters:
//   - device: the device to allocate on
//   - size: the element count
//   - options: functional options (label, extra usage)
//
// Returns:
//   - *Storage[T]: the wrapper
//   - error: device error, if any
func NewStorage[T any](device gpu.Device, size uint64, options ...BufferBuilderOption) (*Storage[T], error) {
	if size == 0 {
		panic("buffer: storage buffer size must be non-zero")
	}
	cfg := newBufferConfig("storage", wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, options)
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: cfg.label,
		Size:  size * common.SizeOf[T](),
		Usage: cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage buffer %q: %w", cfg.label, err)
	}
	return &Storage[T]{queue: device.Queue(), buf: buf, size: size}, nil
}

// NewStorageInit allocates a buffer sized and filled by data. Panics if data is empty.
func NewStorageInit[T any](device gpu.Device, data []T, options ...BufferBuilderOption) (*Storage[T], error) {
	if len(data) == 0 {
		panic("buffer: storage buffer size must be non-zero")
	}
	cfg := newBufferConfig("storage", wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, options)
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label,
		Contents: common.SliceToBytes(data),
		Usage:    cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage buffer %q: %w", cfg.label, err)
	}
	return &Storage[T]{queue: device.Queue(), buf: buf, size: uint64(len(data))}, nil
}

// Size returns the element count.
func (s *Storage[T]) Size() uint64 {
	return s.size
}

// Write writes data starting at element 0.
func (s *Storage[T]) Write(data []T) error {
	return s.WriteAtOffset(data, 0)
}

// WriteAtOffset writes data starting at element offset.
// Panics iff offset+len(data) exceeds the buffer size.
//
// Parameters:
//   - data: the elements to write
//   - offset: the first element index
//
// Returns:
//   - error: queue error, if any
func (s *Storage[T]) WriteAtOffset(data []T, offset uint64) error {
	if offset > s.size || uint64(len(data)) > s.size-offset {
		panic(fmt.Sprintf("buffer: offset (%d) + data len (%d) larger than buffer size (%d)", offset, len(data), s.size))
	}
	return s.queue.WriteBuffer(s.buf, offset*common.SizeOf[T](), common.SliceToBytes(data))
}

// SetAtOffset writes a single element. Panics iff offset is not below the buffer size.
func (s *Storage[T]) SetAtOffset(value T, offset uint64) error {
	if offset >= s.size {
		panic(fmt.Sprintf("buffer: offset (%d) larger than or equal to buffer size (%d)", offset, s.size))
	}
	return s.queue.WriteBuffer(s.buf, offset*common.SizeOf[T](), common.StructToBytes(&value))
}

// Buffer returns the device buffer.
func (s *Storage[T]) Buffer() gpu.Buffer {
	return s.buf
}

// Release frees the device buffer.
func (s *Storage[T]) Release() {
	s.buf.Release()
}
