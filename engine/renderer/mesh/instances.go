package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// InstanceBuffer is what a session binds at a per-instance slot.
type InstanceBuffer interface {
	// Schema returns the attribute schema of one instance.
	Schema() *vertex.Schema

	// Buffer returns the device buffer.
	Buffer() gpu.Buffer

	// Len returns the number of live instances.
	Len() uint32
}

var _ InstanceBuffer = &Instances[struct{}]{}

// Instances is a VERTEX|COPY_DST buffer of per-instance data. Its capacity is fixed at
// construction and Write changes the live count.
type Instances[T any] struct {
	queue    gpu.Queue
	schema   *vertex.Schema
	buf      gpu.Buffer
	len      uint32
	capacity uint32
}

// NewInstances uploads data into an instance buffer. The capacity is len(data) unless
// WithCapacity asks for more. Panics if the capacity is zero or the size of T differs
// from the schema stride.
//
// Parameters:
//   - device: the device to allocate on
//   - schema: the attribute schema of T
//   - data: the initial instances
//   - options: functional options (label, capacity)
//
// Returns:
//   - *Instances[T]: the instance buffer
//   - error: device error, if any
func NewInstances[T any](device gpu.Device, schema *vertex.Schema, data []T, options ...MeshBuilderOption) (*Instances[T], error) {
	size := common.SizeOf[T]()
	if size != schema.Stride() {
		panic(fmt.Sprintf("mesh: instance size %d does not match schema %s stride %d", size, schema.Name(), schema.Stride()))
	}
	cfg := newMeshConfig("instances", options)
	capacity := max(cfg.capacity, len(data))
	if capacity == 0 {
		panic("mesh: instance buffer capacity must be non-zero")
	}

	contents := make([]byte, uint64(capacity)*size)
	copy(contents, common.SliceToBytes(data))
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label,
		Contents: contents,
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst | cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create instance buffer %q: %w", cfg.label, err)
	}
	return &Instances[T]{
		queue:    device.Queue(),
		schema:   schema,
		buf:      buf,
		len:      uint32(len(data)),
		capacity: uint32(capacity),
	}, nil
}

// Write replaces the instances. Panics if data exceeds the capacity.
func (i *Instances[T]) Write(data []T) error {
	if uint32(len(data)) > i.capacity {
		panic(fmt.Sprintf("mesh: %d instances exceed capacity %d", len(data), i.capacity))
	}
	if len(data) > 0 {
		if err := i.queue.WriteBuffer(i.buf, 0, common.SliceToBytes(data)); err != nil {
			return fmt.Errorf("failed to write instances: %w", err)
		}
	}
	i.len = uint32(len(data))
	return nil
}

// Schema returns the attribute schema of one instance.
func (i *Instances[T]) Schema() *vertex.Schema { return i.schema }

// Buffer returns the device buffer.
func (i *Instances[T]) Buffer() gpu.Buffer { return i.buf }

// Len returns the number of live instances.
func (i *Instances[T]) Len() uint32 { return i.len }

// Capacity returns the maximum number of instances.
func (i *Instances[T]) Capacity() uint32 { return i.capacity }

// Release frees the device buffer.
func (i *Instances[T]) Release() {
	if i.buf != nil {
		i.buf.Release()
		i.buf = nil
	}
}
