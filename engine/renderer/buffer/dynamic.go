package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Dynamic is a growable array of T inside a storage buffer of fixed capacity.
// Size tracks the logical element count; MaxSize is the capacity.
type Dynamic[T any] struct {
	queue   gpu.Queue
	buf     gpu.Buffer
	size    uint64
	maxSize uint64
}

// NewDynamic allocates capacity for maxSize elements with a logical size of 0.
// Panics if maxSize is zero.
//
// Parameters:
//   - device: the device to allocate on
//   - maxSize: the element capacity
//   - options: functional options (label, extra usage)
//
// Returns:
//   - *Dynamic[T]: the wrapper
//   - error: device error, if any
func NewDynamic[T any](device gpu.Device, maxSize uint64, options ...BufferBuilderOption) (*Dynamic[T], error) {
	if maxSize == 0 {
		panic("buffer: dynamic buffer max size must be non-zero")
	}
	cfg := newBufferConfig("dynamic", wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, options)
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: cfg.label,
		Size:  maxSize * common.SizeOf[T](),
		Usage: cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic buffer %q: %w", cfg.label, err)
	}
	return &Dynamic[T]{queue: device.Queue(), buf: buf, maxSize: maxSize}, nil
}

// NewDynamicInit allocates capacity for maxSize elements holding data. A maxSize of 0
// uses len(data) as the capacity. Panics if data does not fit or the capacity is zero.
//
// Parameters:
//   - device: the device to allocate on
//   - data: the initial elements
//   - maxSize: the element capacity, or 0 for len(data)
//   - options: functional options (label, extra usage)
//
// Returns:
//   - *Dynamic[T]: the wrapper with Size() == len(data)
//   - error: device error, if any
func NewDynamicInit[T any](device gpu.Device, data []T, maxSize uint64, options ...BufferBuilderOption) (*Dynamic[T], error) {
	if maxSize == 0 {
		maxSize = uint64(len(data))
	}
	if maxSize == 0 {
		panic("buffer: dynamic buffer max size must be non-zero")
	}
	if uint64(len(data)) > maxSize {
		panic(fmt.Sprintf("buffer: data len (%d) larger than max size (%d)", len(data), maxSize))
	}

	cfg := newBufferConfig("dynamic", wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, options)
	contents := make([]byte, maxSize*common.SizeOf[T]())
	copy(contents, common.SliceToBytes(data))

	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label,
		Contents: contents,
		Usage:    cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic buffer %q: %w", cfg.label, err)
	}
	return &Dynamic[T]{queue: device.Queue(), buf: buf, size: uint64(len(data)), maxSize: maxSize}, nil
}

// Size returns the logical element count.
func (d *Dynamic[T]) Size() uint64 {
	return d.size
}

// MaxSize returns the element capacity.
func (d *Dynamic[T]) MaxSize() uint64 {
	return d.maxSize
}

// Write replaces the contents with data and sets the size to len(data).
// Panics if data exceeds the capacity.
func (d *Dynamic[T]) Write(data []T) error {
	if uint64(len(data)) > d.maxSize {
		panic(fmt.Sprintf("buffer: data len (%d) larger than max size (%d)", len(data), d.maxSize))
	}
	d.size = uint64(len(data))
	return d.queue.WriteBuffer(d.buf, 0, common.SliceToBytes(data))
}

// WriteAtOffset writes data at element offset and sets the size to offset+len(data).
// Panics if offset is past the current size or the write exceeds the capacity.
//
// Parameters:
//   - data: the elements to write
//   - offset: the first element index, at most Size()
//
// Returns:
//   - error: queue error, if any
func (d *Dynamic[T]) WriteAtOffset(data []T, offset uint64) error {
	if offset > d.size {
		panic(fmt.Sprintf("buffer: offset (%d) larger than current size (%d)", offset, d.size))
	}
	if offset+uint64(len(data)) > d.maxSize {
		panic(fmt.Sprintf("buffer: offset (%d) + data len (%d) larger than max size (%d)", offset, len(data), d.maxSize))
	}
	d.size = offset + uint64(len(data))
	return d.queue.WriteBuffer(d.buf, offset*common.SizeOf[T](), common.SliceToBytes(data))
}

// SetAtOffset overwrites one existing element. Panics iff offset is not below Size().
func (d *Dynamic[T]) SetAtOffset(value T, offset uint64) error {
	if offset >= d.size {
		panic(fmt.Sprintf("buffer: offset (%d) larger than or equal to current size (%d)", offset, d.size))
	}
	return d.queue.WriteBuffer(d.buf, offset*common.SizeOf[T](), common.StructToBytes(&value))
}

// Buffer returns the device buffer.
func (d *Dynamic[T]) Buffer() gpu.Buffer {
	return d.buf
}

// Release frees the device buffer.
func (d *Dynamic[T]) Release() {
	d.buf.Release()
}
