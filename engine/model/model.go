// Package model pairs meshes with the shader they are drawn with and carries the sample
// vertex types and geometry used by the examples.
package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
)

// ShaderApplier is a render pass state that can take a shader: a layout-bound pass or a
// pass that already drew with another shader of the same layout.
type ShaderApplier interface {
	ApplyShaderInstance(h pipeline.ShaderHandle) *session.SettingsPass
}

var (
	_ ShaderApplier = &session.LayoutPass{}
	_ ShaderApplier = &session.SettingsPass{}
)

// model is the implementation of the Model interface.
type model struct {
	mu     sync.RWMutex
	name   string
	mesh   *mesh.Mesh
	shader pipeline.ShaderHandle
}

// Model is a mesh together with the shader it is drawn with.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh returns the draw target.
	Mesh() *mesh.Mesh

	// Shader returns the shader handle the model is drawn with.
	Shader() pipeline.ShaderHandle

	// SetShader swaps the shader handle, e.g. after a hot reload rebuilt the pipeline.
	//
	// Parameters:
	//   - h: the new shader handle
	SetShader(h pipeline.ShaderHandle)

	// Draw applies the model's shader with its current settings and draws the mesh.
	// The pass must be bound to the shader's layout.
	//
	// Parameters:
	//   - pass: a layout-bound pass or a pass from a previous Draw
	//
	// Returns:
	//   - *session.SettingsPass: the pass to continue recording on
	Draw(pass ShaderApplier) *session.SettingsPass

	// Release frees the mesh.
	Release()
}

var _ Model = &model{}

// NewModel wraps an existing mesh.
//
// Parameters:
//   - m: the mesh
//   - shader: the shader handle the mesh is drawn with
//   - options: functional options (name)
//
// Returns:
//   - Model: the model
func NewModel(m *mesh.Mesh, shader pipeline.ShaderHandle, options ...ModelBuilderOption) Model {
	md := &model{name: m.Label(), mesh: m, shader: shader}
	for _, opt := range options {
		opt(md)
	}
	return md
}

// FromData builds a single-buffer mesh from vertex and index data and wraps it.
// The mesh is labelled with the model name.
//
// Parameters:
//   - device: the device to allocate on
//   - schema: the attribute schema of V
//   - vertices: the vertex data
//   - indices: the index data
//   - shader: the shader handle the mesh is drawn with
//   - options: functional options (name)
//
// Returns:
//   - Model: the model
//   - error: device error, if any
func FromData[V any, I mesh.Index](device gpu.Device, schema *vertex.Schema, vertices []V, indices []I, shader pipeline.ShaderHandle, options ...ModelBuilderOption) (Model, error) {
	md := &model{name: "model", shader: shader}
	for _, opt := range options {
		opt(md)
	}
	m, err := mesh.FromData(device, schema, vertices, indices, mesh.WithLabel(md.name))
	if err != nil {
		return nil, err
	}
	md.mesh = m
	return md, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *mesh.Mesh {
	return m.mesh
}

func (m *model) Shader() pipeline.ShaderHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shader
}

func (m *model) SetShader(h pipeline.ShaderHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shader = h
}

func (m *model) Draw(pass ShaderApplier) *session.SettingsPass {
	sp := pass.ApplyShaderInstance(m.Shader())
	sp.DrawMesh(m.mesh)
	return sp
}

func (m *model) Release() {
	m.mesh.Release()
}
