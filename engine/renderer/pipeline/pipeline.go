// Package pipeline combines bind group layouts and a vertex layout into device pipeline
// layouts and compiles shader modules against them into render and compute pipelines.
package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Config is the fixed-function state a render pipeline is compiled with.
// DefaultConfig documents the defaults; ShaderBuilderOption functions override them.
type Config struct {
	Label         string
	VertexEntry   string
	FragmentEntry string
	Primitive     wgpu.PrimitiveState
	// DepthStencil is nil for pipelines that render without a depth attachment.
	DepthStencil *wgpu.DepthStencilState
	Multisample  wgpu.MultisampleState
	Multiview    uint32
	// Blend is nil to write colors without blending.
	Blend     *wgpu.BlendState
	WriteMask wgpu.ColorWriteMask

	reflection *shader.Reflection
}

// DefaultConfig returns the defaults: entry points "vs" and "fs", triangle list with CCW
// front faces and back-face culling, Depth32Float depth test Less with writes, a single
// sample with all mask bits, replace blending and all color channels written.
func DefaultConfig() Config {
	blend := wgpu.BlendStateReplace
	return Config{
		VertexEntry:   "vs",
		FragmentEntry: "fs",
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Blend:     &blend,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
}

// Shader is a render pipeline compiled against a Layout. Sessions only accept a Shader
// on a pass whose bound layout is the shader's own.
type Shader struct {
	label    string
	layout   *Layout
	pipeline gpu.RenderPipeline
}

// CreatePipeline compiles module's vertex and fragment entry points against the layout.
// With WithReflection the reflected WGSL interface is checked against the layout first and
// a mismatch is returned as an error without touching the device.
//
// Parameters:
//   - device: the device to compile on
//   - module: the shader module holding both entry points
//   - options: functional options overriding DefaultConfig
//
// Returns:
//   - *Shader: the compiled shader
//   - error: a reflection mismatch or device error
func (l *Layout) CreatePipeline(device gpu.Device, module gpu.ShaderModule, options ...ShaderBuilderOption) (*Shader, error) {
	cfg := DefaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.Label == "" {
		cfg.Label = l.label + "-shader"
	}

	if cfg.reflection != nil {
		if err := cfg.reflection.Validate(bindGroupEntries(l.shared, l.settings), l.vertex.Buffers()); err != nil {
			return nil, fmt.Errorf("shader %q does not match layout %q: %w", cfg.Label, l.label, err)
		}
	}

	target := wgpu.ColorTargetState{
		Format:    l.format,
		Blend:     cfg.Blend,
		WriteMask: cfg.WriteMask,
	}

	raw, err := device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
		Label:       cfg.Label,
		Layout:      l.raw,
		Module:      module,
		VertexEntry: cfg.VertexEntry,
		Buffers:     l.vertex.Buffers(),
		Fragment: &gpu.FragmentState{
			EntryPoint: cfg.FragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive:    cfg.Primitive,
		DepthStencil: cfg.DepthStencil,
		Multisample:  cfg.Multisample,
		Multiview:    cfg.Multiview,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", cfg.Label, err)
	}

	common.Logger().Debug("render pipeline compiled", "label", cfg.Label, "layout", l.label)
	return &Shader{label: cfg.Label, layout: l, pipeline: raw}, nil
}

// Label returns the debug label.
func (s *Shader) Label() string { return s.label }

// Layout returns the layout the shader was compiled against.
func (s *Shader) Layout() *Layout { return s.layout }

// Pipeline returns the device render pipeline.
func (s *Shader) Pipeline() gpu.RenderPipeline { return s.pipeline }

// Shader returns s, so a bare Shader is a ShaderHandle for layouts without settings.
func (s *Shader) Shader() *Shader { return s }

// CurrentSettings returns nil; a bare Shader carries no settings.
func (s *Shader) CurrentSettings() []*bind.Bind { return nil }

// Release frees the device pipeline.
func (s *Shader) Release() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
}
