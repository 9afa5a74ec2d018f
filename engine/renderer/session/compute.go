package session

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
)

// computeBase holds the methods valid in every compute state.
type computeBase struct {
	token
}

// SetSharedData binds the shared data groups of layout and moves to the layout-bound state.
// Panics if shared does not conform to the layout.
//
// Parameters:
//   - layout: the compute layout subsequent shaders must belong to
//   - shared: one bind per shared layout, in order
//
// Returns:
//   - *ComputeLayoutPass: the layout-bound pass
func (c *computeBase) SetSharedData(layout *pipeline.ComputeLayout, shared ...*bind.Bind) *ComputeLayoutPass {
	c.live()
	if !layout.SharedMatches(shared) {
		panic(fmt.Sprintf("session: shared data %v does not match compute layout %q shared layouts %v",
			pipeline.LayoutLabels(shared), layout.Label(), pipeline.Labels(layout.SharedLayouts())))
	}
	t := c.take()
	setBinds(t.rec.compute, 0, shared)
	return &ComputeLayoutPass{computeBase: computeBase{t}, layout: layout}
}

// Wipe discards the state tag and returns the empty state on the same recording.
func (c *computeBase) Wipe() *ComputePass {
	return &ComputePass{computeBase{c.take()}}
}

// CoerceLayout re-tags the pass as bound to layout without recording anything.
func (c *computeBase) CoerceLayout(layout *pipeline.ComputeLayout) *ComputeLayoutPass {
	return &ComputeLayoutPass{computeBase: computeBase{c.take()}, layout: layout}
}

// Inner returns the raw device pass.
func (c *computeBase) Inner() gpu.ComputePassEncoder {
	return c.live().compute
}

// End closes the device pass.
func (c *computeBase) End() {
	t := c.take()
	t.rec.end()
}

// ComputePass is a compute pass with nothing bound.
type ComputePass struct {
	computeBase
}

// ComputeLayoutPass is a compute pass whose shared data is bound. Shaders and dispatches
// do not change its state, so calls chain on the same value.
type ComputeLayoutPass struct {
	computeBase
	layout *pipeline.ComputeLayout
	shader *pipeline.ComputeShader
}

// Layout returns the bound compute layout.
func (c *ComputeLayoutPass) Layout() *pipeline.ComputeLayout {
	return c.layout
}

// ApplyComputeShader sets the pipeline of h and binds its settings after the shared data.
// Panics if the shader was not created from the bound layout or its settings do not conform.
//
// Parameters:
//   - h: the compute shader or instance
//
// Returns:
//   - *ComputeLayoutPass: c, for chaining
func (c *ComputeLayoutPass) ApplyComputeShader(h pipeline.ComputeShaderHandle) *ComputeLayoutPass {
	rec := c.live()
	s := h.ComputeShader()
	if s.Layout() != c.layout {
		panic(fmt.Sprintf("session: compute shader %q belongs to layout %q, pass is bound to layout %q",
			s.Label(), s.Layout().Label(), c.layout.Label()))
	}
	settings := h.CurrentSettings()
	if !c.layout.SettingsMatches(settings) {
		panic(fmt.Sprintf("session: settings %v do not match compute layout %q settings layouts %v",
			pipeline.LayoutLabels(settings), c.layout.Label(), pipeline.Labels(c.layout.SettingsLayouts())))
	}
	rec.compute.SetPipeline(s.Pipeline())
	setBinds(rec.compute, len(c.layout.SharedLayouts()), settings)
	c.shader = s
	return c
}

// DispatchWorkgroups dispatches x*y*z workgroups of the applied shader.
// Panics if no compute shader has been applied.
func (c *ComputeLayoutPass) DispatchWorkgroups(x, y, z uint32) *ComputeLayoutPass {
	rec := c.live()
	if c.shader == nil {
		panic(fmt.Sprintf("session: dispatch on compute layout %q before a compute shader is applied", c.layout.Label()))
	}
	rec.compute.DispatchWorkgroups(x, y, z)
	return c
}
