package session

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// pass holds the methods valid in every render state. Each state type embeds it.
type pass struct {
	token
}

// SetSharedData binds the shared data groups of layout at indices 0..len(shared) and
// moves to the layout-bound state. Panics if shared does not conform to the layout.
//
// Parameters:
//   - layout: the pipeline layout subsequent shaders must belong to
//   - shared: one bind per shared layout, in order
//
// Returns:
//   - *LayoutPass: the layout-bound pass
func (p *pass) SetSharedData(layout *pipeline.Layout, shared ...*bind.Bind) *LayoutPass {
	p.live()
	if !layout.SharedMatches(shared) {
		panic(fmt.Sprintf("session: shared data %v does not match layout %q shared layouts %v",
			pipeline.LayoutLabels(shared), layout.Label(), pipeline.Labels(layout.SharedLayouts())))
	}
	t := p.take()
	setBinds(t.rec.render, 0, shared)
	return &LayoutPass{bound{pass{t}, layout}}
}

// Wipe discards the state tag and returns the empty state on the same recording.
// Groups and pipeline already set on the device pass stay set.
func (p *pass) Wipe() *RenderPass {
	return &RenderPass{pass{p.take()}}
}

// CoerceLayout re-tags the pass as bound to layout without recording anything. The caller
// is responsible for the device pass actually holding layout's shared data.
func (p *pass) CoerceLayout(layout *pipeline.Layout) *LayoutPass {
	return &LayoutPass{bound{pass{p.take()}, layout}}
}

// CoerceShader re-tags the pass as having s applied without recording anything.
func (p *pass) CoerceShader(s *pipeline.Shader) *ShaderPass {
	return &ShaderPass{shaded{bound{pass{p.take()}, s.Layout()}, s}}
}

// CoerceSettings re-tags the pass as having s and its settings applied without recording anything.
func (p *pass) CoerceSettings(s *pipeline.Shader) *SettingsPass {
	return &SettingsPass{shaded{bound{pass{p.take()}, s.Layout()}, s}}
}

// CoerceInstanced re-tags the pass as having n instances bound without recording anything.
func (p *pass) CoerceInstanced(s *pipeline.Shader, n uint32) *InstancedPass {
	return &InstancedPass{pass: pass{p.take()}, layout: s.Layout(), shader: s, n: n}
}

// Inner returns the raw device pass. Commands recorded on it are invisible to the state
// tag; the caller is responsible for keeping the two consistent.
func (p *pass) Inner() gpu.RenderPassEncoder {
	return p.live().render
}

// End closes the device pass. The value and everything derived from the same recording
// cannot be used afterwards.
func (p *pass) End() {
	t := p.take()
	t.rec.end()
}

// RenderPass is a render pass with nothing bound.
type RenderPass struct {
	pass
}

// bound holds the methods valid once a layout's shared data is bound.
type bound struct {
	pass
	layout *pipeline.Layout
}

// Layout returns the bound pipeline layout.
func (b *bound) Layout() *pipeline.Layout {
	return b.layout
}

func (b *bound) checkShader(s *pipeline.Shader) {
	if s.Layout() != b.layout {
		panic(fmt.Sprintf("session: shader %q belongs to layout %q, pass is bound to layout %q",
			s.Label(), s.Layout().Label(), b.layout.Label()))
	}
}

// ApplyShader sets the pipeline of s. Panics if s was not created from the bound layout.
//
// Parameters:
//   - s: the shader to apply
//
// Returns:
//   - *ShaderPass: the shader-bound pass, still needing settings before a mesh draw
func (b *bound) ApplyShader(s *pipeline.Shader) *ShaderPass {
	b.live()
	b.checkShader(s)
	t := b.take()
	t.rec.render.SetPipeline(s.Pipeline())
	return &ShaderPass{shaded{bound{pass{t}, b.layout}, s}}
}

// ApplyShaderWith sets the pipeline of s and its settings in one step.
//
// Parameters:
//   - s: the shader to apply
//   - settings: one bind per settings layout, in order
//
// Returns:
//   - *SettingsPass: the pass ready for mesh draws
func (b *bound) ApplyShaderWith(s *pipeline.Shader, settings ...*bind.Bind) *SettingsPass {
	b.live()
	b.checkShader(s)
	checkSettings(b.layout, settings)
	t := b.take()
	t.rec.render.SetPipeline(s.Pipeline())
	setBinds(t.rec.render, len(b.layout.SharedLayouts()), settings)
	return &SettingsPass{shaded{bound{pass{t}, b.layout}, s}}
}

// ApplyShaderInstance applies the shader of h with its current settings.
func (b *bound) ApplyShaderInstance(h pipeline.ShaderHandle) *SettingsPass {
	return b.ApplyShaderWith(h.Shader(), h.CurrentSettings()...)
}

// DrawScreenQuad draws one instance of three vertices, the full-screen triangle.
// Panics if the layout has per-vertex input.
func (b *bound) DrawScreenQuad() {
	rec := b.live()
	vl := b.layout.VertexLayout()
	if vl.HasVertexInput() {
		panic(fmt.Sprintf("session: layout %q has vertex input %s, a screen quad needs none",
			b.layout.Label(), vertex.FormatSlots(vl.VertexRequirements())))
	}
	rec.render.Draw(3, 1, 0, 0)
}

// LayoutPass is a render pass whose shared data is bound.
type LayoutPass struct {
	bound
}

// shaded holds the methods valid once a shader is applied.
type shaded struct {
	bound
	shader *pipeline.Shader
}

// Shader returns the applied shader.
func (s *shaded) Shader() *pipeline.Shader {
	return s.shader
}

// ApplySettings binds the settings groups after the shared data.
// Panics if settings do not conform to the layout.
//
// Parameters:
//   - settings: one bind per settings layout, in order
//
// Returns:
//   - *SettingsPass: the pass ready for mesh draws
func (s *shaded) ApplySettings(settings ...*bind.Bind) *SettingsPass {
	s.live()
	checkSettings(s.layout, settings)
	t := s.take()
	setBinds(t.rec.render, len(s.layout.SharedLayouts()), settings)
	return &SettingsPass{shaded{bound{pass{t}, s.layout}, s.shader}}
}

// DefaultSettings moves to the settings-applied state for layouts without settings groups.
// Panics if the layout declares any.
func (s *shaded) DefaultSettings() *SettingsPass {
	s.live()
	if n := len(s.layout.SettingsLayouts()); n > 0 {
		panic(fmt.Sprintf("session: layout %q needs settings %v, DefaultSettings applies none",
			s.layout.Label(), pipeline.Labels(s.layout.SettingsLayouts())))
	}
	return &SettingsPass{shaded{bound{pass{s.take()}, s.layout}, s.shader}}
}

// ShaderPass is a render pass with a shader applied but no settings yet.
type ShaderPass struct {
	shaded
}

// SettingsPass is a render pass with a shader and its settings applied. Meshes are drawn here.
type SettingsPass struct {
	shaded
}

// DrawMesh draws one instance of m. The pass stays in the same state so more meshes can
// follow. Panics if m's vertex buffers do not match the layout's per-vertex requirements.
func (s *SettingsPass) DrawMesh(m *mesh.Mesh) {
	rec := s.live()
	checkMesh(s.layout, m)
	m.Draw(rec.render)
}

// SetInstances binds instance buffers at the layout's per-instance slots and moves to the
// instanced state with the common instance count. Panics if the layout has no per-instance
// input, if the buffers do not match its requirements, or if their lengths differ.
//
// Parameters:
//   - instances: one buffer per per-instance slot, in slot order
//
// Returns:
//   - *InstancedPass: the pass ready for instanced draws
func (s *SettingsPass) SetInstances(instances ...mesh.InstanceBuffer) *InstancedPass {
	s.live()
	req := s.layout.VertexLayout().InstanceRequirements()
	if len(req) == 0 {
		panic(fmt.Sprintf("session: layout %q has no per-instance input", s.layout.Label()))
	}
	if len(instances) != len(req) {
		panic(fmt.Sprintf("session: %d instance buffers for %d instance slots of layout %q",
			len(instances), len(req), s.layout.Label()))
	}
	n := instances[0].Len()
	for i, slot := range req {
		if !slot.Schema.Equal(instances[i].Schema()) {
			panic(fmt.Sprintf("session: instance buffer %d holds %s, slot %d requires %s",
				i, instances[i].Schema(), slot.Index, slot.Schema))
		}
		if instances[i].Len() != n {
			panic(fmt.Sprintf("session: instance buffer %d holds %d instances, buffer 0 holds %d",
				i, instances[i].Len(), n))
		}
	}

	t := s.take()
	for i, slot := range req {
		t.rec.render.SetVertexBuffer(slot.Index, instances[i].Buffer(), 0, wgpu.WholeSize)
	}
	return &InstancedPass{pass: pass{t}, layout: s.layout, shader: s.shader, n: n}
}

// InstancedPass is a render pass with instance buffers bound.
type InstancedPass struct {
	pass
	layout *pipeline.Layout
	shader *pipeline.Shader
	n      uint32
}

// InstanceCount returns the number of instances each draw covers.
func (p *InstancedPass) InstanceCount() uint32 {
	return p.n
}

// Shader returns the applied shader.
func (p *InstancedPass) Shader() *pipeline.Shader {
	return p.shader
}

// DrawMeshInstanced draws instances 0..InstanceCount of m.
// Panics if m's vertex buffers do not match the layout's per-vertex requirements.
func (p *InstancedPass) DrawMeshInstanced(m *mesh.Mesh) {
	rec := p.live()
	checkMesh(p.layout, m)
	m.DrawInstanced(rec.render, p.n)
}

func checkSettings(layout *pipeline.Layout, settings []*bind.Bind) {
	if !layout.SettingsMatches(settings) {
		panic(fmt.Sprintf("session: settings %v do not match layout %q settings layouts %v",
			pipeline.LayoutLabels(settings), layout.Label(), pipeline.Labels(layout.SettingsLayouts())))
	}
}

func checkMesh(layout *pipeline.Layout, m *mesh.Mesh) {
	want := layout.VertexLayout().VertexRequirements()
	if !vertex.SlotsMatch(want, m.Requirements()) {
		panic(fmt.Sprintf("session: mesh %q provides %s, layout %q requires %s",
			m.Label(), vertex.FormatSlots(m.Requirements()), layout.Label(), vertex.FormatSlots(want)))
	}
}
