// Package buffer provides typed wrappers over device buffers. Offsets and sizes are
// counted in elements of T, never bytes; bounds violations panic.
package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Uniform is a buffer holding exactly one T, usable as a uniform binding.
type Uniform[T any] struct {
	queue gpu.Queue
	buf   gpu.Buffer
}

// NewUniform allocates an uninitialized uniform buffer of sizeof(T) bytes with usage UNIFORM|COPY_DST.
//
// Parameters:
//   - device: the device to allocate on
//   - options: functional options (label, extra usage)
//
// Returns:
//   - *Uniform[T]: the wrapper
//   - error: device error, if any
func NewUniform[T any](device gpu.Device, options ...BufferBuilderOption) (*Uniform[T], error) {
	cfg := newBufferConfig("uniform", wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, options)
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: cfg.label,
		Size:  common.SizeOf[T](),
		Usage: cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %q: %w", cfg.label, err)
	}
	return &Uniform[T]{queue: device.Queue(), buf: buf}, nil
}

// NewUniformInit allocates a uniform buffer holding value.
//
// Parameters:
//   - device: the device to allocate on
//   - value: the initial contents
//   - options: functional options (label, extra usage)
//
// Returns:
//   - *Uniform[T]: the wrapper
//   - error: device error, if any
func NewUniformInit[T any](device gpu.Device, value T, options ...BufferBuilderOption) (*Uniform[T], error) {
	cfg := newBufferConfig("uniform", wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, options)
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label,
		Contents: common.StructToBytes(&value),
		Usage:    cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %q: %w", cfg.label, err)
	}
	return &Uniform[T]{queue: device.Queue(), buf: buf}, nil
}

// Write replaces the buffer contents. The write is visible to work submitted after it.
func (u *Uniform[T]) Write(value T) error {
	return u.queue.WriteBuffer(u.buf, 0, common.StructToBytes(&value))
}

// Buffer returns the device buffer.
func (u *Uniform[T]) Buffer() gpu.Buffer {
	return u.buf
}

// Release frees the device buffer.
func (u *Uniform[T]) Release() {
	u.buf.Release()
}
