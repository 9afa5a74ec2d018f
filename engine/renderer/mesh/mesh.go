// Package mesh holds the draw targets a render session consumes: indexed meshes whose
// vertex buffers are tagged with the vertex schema they hold, and instance buffers.
package mesh

import (
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// Index is the element type of an index buffer.
type Index interface {
	~uint16 | ~uint32
}

// IndexFormat returns the device index format for I.
func IndexFormat[I Index]() wgpu.IndexFormat {
	var zero I
	if unsafe.Sizeof(zero) == 2 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// VertexBuffer is a VERTEX buffer tagged with the schema of its elements.
type VertexBuffer struct {
	schema *vertex.Schema
	buf    gpu.Buffer
	count  uint32
}

// NewVertexBuffer uploads data into a VERTEX buffer. Panics if the size of V differs from
// the schema stride.
//
// Parameters:
//   - device: the device to allocate on
//   - schema: the attribute schema of V
//   - data: the vertices
//   - options: functional options (label)
//
// Returns:
//   - *VertexBuffer: the buffer
//   - error: device error, if any
func NewVertexBuffer[V any](device gpu.Device, schema *vertex.Schema, data []V, options ...MeshBuilderOption) (*VertexBuffer, error) {
	if size := common.SizeOf[V](); size != schema.Stride() {
		panic(fmt.Sprintf("mesh: element size %d does not match schema %s stride %d", size, schema.Name(), schema.Stride()))
	}
	cfg := newMeshConfig("vertices", options)
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label,
		Contents: common.SliceToBytes(data),
		Usage:    wgpu.BufferUsageVertex | cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer %q: %w", cfg.label, err)
	}
	return &VertexBuffer{schema: schema, buf: buf, count: uint32(len(data))}, nil
}

// Schema returns the schema of the elements.
func (v *VertexBuffer) Schema() *vertex.Schema { return v.schema }

// Buffer returns the device buffer.
func (v *VertexBuffer) Buffer() gpu.Buffer { return v.buf }

// Len returns the vertex count.
func (v *VertexBuffer) Len() uint32 { return v.count }

// Release frees the device buffer.
func (v *VertexBuffer) Release() {
	if v.buf != nil {
		v.buf.Release()
		v.buf = nil
	}
}

// Mesh is an indexed draw target. Its requirements name the vertex buffer slots and schemas
// it fills; a session only draws it with a layout whose per-vertex requirements are identical.
type Mesh struct {
	label       string
	req         []vertex.Slot
	vertices    []*VertexBuffer
	index       gpu.Buffer
	indexFormat wgpu.IndexFormat
	indexCount  uint32
}

// New creates a mesh from vertex buffers and indices. vertices[i] is bound at req[i].Index.
// Panics if the buffers do not match the requirements one to one.
//
// Parameters:
//   - device: the device to allocate the index buffer on
//   - req: the per-vertex requirements of the layout the mesh is drawn with
//   - vertices: one buffer per requirement slot
//   - indices: the index data
//   - options: functional options (label)
//
// Returns:
//   - *Mesh: the mesh
//   - error: device error, if any
func New[I Index](device gpu.Device, req []vertex.Slot, vertices []*VertexBuffer, indices []I, options ...MeshBuilderOption) (*Mesh, error) {
	if len(req) != len(vertices) {
		panic(fmt.Sprintf("mesh: %d vertex buffers for %d requirement slots", len(vertices), len(req)))
	}
	for i, slot := range req {
		if !slot.Schema.Equal(vertices[i].Schema()) {
			panic(fmt.Sprintf("mesh: vertex buffer %d holds %s, slot %d requires %s", i, vertices[i].Schema(), slot.Index, slot.Schema))
		}
	}

	cfg := newMeshConfig("mesh", options)
	index, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    cfg.label + "-indices",
		Contents: common.SliceToBytes(indices),
		Usage:    wgpu.BufferUsageIndex | cfg.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index buffer for mesh %q: %w", cfg.label, err)
	}

	common.Logger().Debug("mesh created", "label", cfg.label, "indices", len(indices), "vertexBuffers", len(vertices))
	return &Mesh{
		label:       cfg.label,
		req:         append([]vertex.Slot(nil), req...),
		vertices:    append([]*VertexBuffer(nil), vertices...),
		index:       index,
		indexFormat: IndexFormat[I](),
		indexCount:  uint32(len(indices)),
	}, nil
}

// FromData builds a single-buffer mesh whose vertices sit at slot 0.
//
// Parameters:
//   - device: the device to allocate on
//   - schema: the attribute schema of V
//   - vertices: the vertex data
//   - indices: the index data
//   - options: functional options (label)
//
// Returns:
//   - *Mesh: the mesh
//   - error: device error, if any
func FromData[V any, I Index](device gpu.Device, schema *vertex.Schema, vertices []V, indices []I, options ...MeshBuilderOption) (*Mesh, error) {
	vb, err := NewVertexBuffer(device, schema, vertices, options...)
	if err != nil {
		return nil, err
	}
	m, err := New(device, []vertex.Slot{{Index: 0, Schema: schema}}, []*VertexBuffer{vb}, indices, options...)
	if err != nil {
		vb.Release()
		return nil, err
	}
	return m, nil
}

// Label returns the debug label.
func (m *Mesh) Label() string { return m.label }

// Requirements returns the vertex buffer slots the mesh fills.
func (m *Mesh) Requirements() []vertex.Slot { return m.req }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() uint32 { return m.indexCount }

// IndexFormat returns the index element format.
func (m *Mesh) IndexFormat() wgpu.IndexFormat { return m.indexFormat }

// Draw binds the mesh's vertex and index buffers and draws one instance.
func (m *Mesh) Draw(pass gpu.RenderPassEncoder) {
	m.DrawInstanced(pass, 1)
}

// DrawInstanced binds the mesh's buffers and draws instances 0..n.
func (m *Mesh) DrawInstanced(pass gpu.RenderPassEncoder, n uint32) {
	for i, slot := range m.req {
		pass.SetVertexBuffer(slot.Index, m.vertices[i].buf, 0, wgpu.WholeSize)
	}
	pass.SetIndexBuffer(m.index, m.indexFormat, 0, wgpu.WholeSize)
	pass.DrawIndexed(m.indexCount, n, 0, 0, 0)
}

// Release frees the index buffer and every vertex buffer.
func (m *Mesh) Release() {
	for _, v := range m.vertices {
		v.Release()
	}
	if m.index != nil {
		m.index.Release()
		m.index = nil
	}
}
