package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderBuilderOption is a functional option used to configure a render pipeline during CreatePipeline.
type ShaderBuilderOption func(*Config)

// WithLabel sets the debug label of the pipeline.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - ShaderBuilderOption: a function that sets the label
func WithLabel(label string) ShaderBuilderOption {
	return func(c *Config) {
		c.Label = label
	}
}

// WithVertexEntry sets the vertex entry point name.
//
// Parameters:
//   - entry: the WGSL function name of the vertex stage
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex entry point
func WithVertexEntry(entry string) ShaderBuilderOption {
	return func(c *Config) {
		c.VertexEntry = entry
	}
}

// WithFragmentEntry sets the fragment entry point name.
//
// Parameters:
//   - entry: the WGSL function name of the fragment stage
//
// Returns:
//   - ShaderBuilderOption: a function that sets the fragment entry point
func WithFragmentEntry(entry string) ShaderBuilderOption {
	return func(c *Config) {
		c.FragmentEntry = entry
	}
}

// WithPrimitive replaces the whole primitive state.
//
// Parameters:
//   - primitive: the primitive state to compile with
//
// Returns:
//   - ShaderBuilderOption: a function that sets the primitive state
func WithPrimitive(primitive wgpu.PrimitiveState) ShaderBuilderOption {
	return func(c *Config) {
		c.Primitive = primitive
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - ShaderBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) ShaderBuilderOption {
	return func(c *Config) {
		c.Primitive.CullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyLineList)
//
// Returns:
//   - ShaderBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) ShaderBuilderOption {
	return func(c *Config) {
		c.Primitive.Topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - ShaderBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) ShaderBuilderOption {
	return func(c *Config) {
		c.Primitive.FrontFace = frontFace
	}
}

// WithDepthStencil replaces the depth-stencil state. A nil state is equivalent to WithoutDepth.
//
// Parameters:
//   - state: the depth-stencil state to compile with
//
// Returns:
//   - ShaderBuilderOption: a function that sets the depth-stencil state
func WithDepthStencil(state *wgpu.DepthStencilState) ShaderBuilderOption {
	return func(c *Config) {
		c.DepthStencil = state
	}
}

// WithoutDepth compiles the pipeline for passes without a depth attachment.
func WithoutDepth() ShaderBuilderOption {
	return func(c *Config) {
		c.DepthStencil = nil
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled. No effect after WithoutDepth.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - ShaderBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) ShaderBuilderOption {
	return func(c *Config) {
		if c.DepthStencil != nil {
			c.DepthStencil.DepthWriteEnabled = enabled
		}
	}
}

// WithDepthCompare sets the depth comparison function. No effect after WithoutDepth.
//
// Parameters:
//   - compare: the comparison, e.g. wgpu.CompareFunctionLessEqual for skyboxes
//
// Returns:
//   - ShaderBuilderOption: a function that sets the depth compare function
func WithDepthCompare(compare wgpu.CompareFunction) ShaderBuilderOption {
	return func(c *Config) {
		if c.DepthStencil != nil {
			c.DepthStencil.DepthCompare = compare
		}
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline. No effect after WithoutDepth.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - ShaderBuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias int32, slopeScale float32) ShaderBuilderOption {
	return func(c *Config) {
		if c.DepthStencil != nil {
			c.DepthStencil.DepthBias = bias
			c.DepthStencil.DepthBiasSlopeScale = slopeScale
		}
	}
}

// WithMultisample replaces the multisample state.
//
// Parameters:
//   - state: the multisample state, e.g. Count 4 for MSAA targets
//
// Returns:
//   - ShaderBuilderOption: a function that sets the multisample state
func WithMultisample(state wgpu.MultisampleState) ShaderBuilderOption {
	return func(c *Config) {
		c.Multisample = state
	}
}

// WithMultiview sets the number of array layers rendered in one pass; 0 disables multiview.
func WithMultiview(views uint32) ShaderBuilderOption {
	return func(c *Config) {
		c.Multiview = views
	}
}

// WithBlendState sets the blend state for this pipeline. nil disables blending.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - ShaderBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) ShaderBuilderOption {
	return func(c *Config) {
		c.Blend = blendState
	}
}

// WithAlphaBlending enables standard source-over alpha blending.
func WithAlphaBlending() ShaderBuilderOption {
	return WithBlendState(&wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	})
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask to use for this pipeline (e.g., wgpu.ColorWriteMaskAll)
//
// Returns:
//   - ShaderBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) ShaderBuilderOption {
	return func(c *Config) {
		c.WriteMask = writeMask
	}
}

// WithReflection checks the reflected WGSL interface against the layout before compiling.
//
// Parameters:
//   - r: the reflection of the shader source, from shader.Reflect
//
// Returns:
//   - ShaderBuilderOption: a function that enables the check
func WithReflection(r *shader.Reflection) ShaderBuilderOption {
	return func(c *Config) {
		c.reflection = r
	}
}
