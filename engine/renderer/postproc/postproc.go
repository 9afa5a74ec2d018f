// Package postproc provides offscreen render targets that a later pass samples through
// a texture and sampler bind, drawn with a full-screen triangle.
package postproc

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Schema is the binding table of a post processing target: the rendered texture at
// slot 0 and its sampler at slot 1, both visible to the fragment stage.
func Schema() *bind.Schema {
	return bind.NewSchema(
		bind.Texture2DEntry("render", 0, wgpu.ShaderStageFragment),
		bind.FilteringSamplerEntry("sampler", 1, wgpu.ShaderStageFragment),
	)
}

// NewBindLayout creates the bind group layout for Schema.
func NewBindLayout(device gpu.Device) (*bind.Layout, error) {
	return bind.NewLayout(device, Schema(), bind.WithLayoutLabel("post-proc"))
}

// NewLayout creates a pipeline layout whose only shared group is bindLayout and which
// has no vertex input, for shaders drawn with DrawScreenQuad.
//
// Parameters:
//   - device: the device to create the layout on
//   - bindLayout: the layout returned by NewBindLayout or PostProc.BindLayout
//   - options: further layout options such as the target format or settings layouts
//
// Returns:
//   - *pipeline.Layout: the layout
//   - error: device error, if any
func NewLayout(device gpu.Device, bindLayout *bind.Layout, options ...pipeline.LayoutBuilderOption) (*pipeline.Layout, error) {
	opts := append([]pipeline.LayoutBuilderOption{
		pipeline.WithLayoutLabel("post-proc"),
		pipeline.WithSharedLayouts(bindLayout),
	}, options...)
	return pipeline.NewLayout(device, opts...)
}

// CreateShader compiles a screen-quad pipeline on layout without a depth attachment.
func CreateShader(device gpu.Device, layout *pipeline.Layout, module gpu.ShaderModule, options ...pipeline.ShaderBuilderOption) (*pipeline.Shader, error) {
	opts := append([]pipeline.ShaderBuilderOption{pipeline.WithoutDepth(), pipeline.WithCullMode(wgpu.CullModeNone)}, options...)
	return layout.CreatePipeline(device, module, opts...)
}

// PostProc is an offscreen render target bound as a texture and sampler.
type PostProc struct {
	tex        *texture.Texture
	bindLayout *bind.Layout
	ownsLayout bool
	bind       *bind.Bind
}

// New creates a render target of width x height usable as a render attachment and a
// sampled texture, plus any extra usage, and binds it.
//
// Parameters:
//   - device: the device to allocate on
//   - width: the target width
//   - height: the target height
//   - usage: extra texture usage, e.g. wgpu.TextureUsageCopySrc
//   - options: functional options (label, format, sampler, shared bind layout)
//
// Returns:
//   - *PostProc: the target
//   - error: device error, if any
func New(device gpu.Device, width, height uint32, usage wgpu.TextureUsage, options ...PostProcBuilderOption) (*PostProc, error) {
	cfg := newPostProcConfig(options)
	raw, err := texture.New(device,
		wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		texture.WithLabel(cfg.label),
		texture.WithFormat(cfg.format),
		texture.WithUsage(wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding|usage),
	)
	if err != nil {
		return nil, err
	}
	sampler, err := texture.NewSampler(device, cfg.sampler)
	if err != nil {
		raw.Release()
		return nil, err
	}
	p, err := NewWith(device, &texture.Texture{Raw: raw, Sampler: sampler}, options...)
	if err != nil {
		raw.Release()
		sampler.Release()
		return nil, err
	}
	return p, nil
}

// NewWith binds an existing texture and sampler as a post processing target.
func NewWith(device gpu.Device, tex *texture.Texture, options ...PostProcBuilderOption) (*PostProc, error) {
	cfg := newPostProcConfig(options)
	p := &PostProc{tex: tex, bindLayout: cfg.bindLayout}
	if p.bindLayout == nil {
		l, err := NewBindLayout(device)
		if err != nil {
			return nil, err
		}
		p.bindLayout, p.ownsLayout = l, true
	}
	b, err := bind.New(device, p.bindLayout, bind.FromTextureView(tex.Raw), bind.FromSampler(tex.Sampler))
	if err != nil {
		if p.ownsLayout {
			p.bindLayout.Release()
		}
		return nil, fmt.Errorf("failed to bind post processing target %q: %w", cfg.label, err)
	}
	p.bind = b
	return p, nil
}

// Bind returns the texture and sampler bind.
func (p *PostProc) Bind() *bind.Bind { return p.bind }

// BindLayout returns the layout of Bind.
func (p *PostProc) BindLayout() *bind.Layout { return p.bindLayout }

// Texture returns the render target.
func (p *PostProc) Texture() *texture.RawTexture { return p.tex.Raw }

// Sampler returns the sampler the target is read through.
func (p *PostProc) Sampler() *texture.Sampler { return p.tex.Sampler }

// View returns the current view of the render target.
func (p *PostProc) View() gpu.TextureView { return p.tex.Raw.View() }

// Resize recreates the render target and rebuilds the bind around the new view.
//
// Parameters:
//   - device: the device to allocate on
//   - width: the new width
//   - height: the new height
//
// Returns:
//   - error: device error, if any
func (p *PostProc) Resize(device gpu.Device, width, height uint32) error {
	if err := p.tex.Raw.Resize(device, wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}); err != nil {
		return err
	}
	return p.bind.Refresh(device)
}

// RenderPass begins a render pass on enc that draws into the target.
func (p *PostProc) RenderPass(enc *session.CommandEncoder, load *session.LoadOp, depth *gpu.DepthAttachment) *session.RenderPass {
	return enc.RenderPass(p.View(), load, depth)
}

// Release frees the bind, the target, the sampler and the bind layout if PostProc created it.
func (p *PostProc) Release() {
	p.bind.Release()
	p.tex.Release()
	if p.ownsLayout {
		p.bindLayout.Release()
	}
}
