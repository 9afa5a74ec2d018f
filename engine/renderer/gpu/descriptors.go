package gpu

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupEntry maps one resource handle to a binding slot. Exactly one of
// Buffer, TextureView or Sampler is set.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      Buffer
	Offset      uint64
	Size        uint64
	TextureView TextureView
	Sampler     Sampler
}

// BindGroupDescriptor describes a bind group to realize against Layout.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// PipelineLayoutDescriptor lists bind group layouts in group-index order.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
}

// FragmentState is the fragment stage of a render pipeline.
type FragmentState struct {
	EntryPoint string
	Targets    []wgpu.ColorTargetState
}

// RenderPipelineDescriptor describes a render pipeline. Vertex and fragment stages share Module.
type RenderPipelineDescriptor struct {
	Label        string
	Layout       PipelineLayout
	Module       ShaderModule
	VertexEntry  string
	Buffers      []wgpu.VertexBufferLayout
	Fragment     *FragmentState
	Primitive    wgpu.PrimitiveState
	DepthStencil *wgpu.DepthStencilState
	Multisample  wgpu.MultisampleState
	Multiview    uint32
}

// ComputePipelineDescriptor describes a compute pipeline.
type ComputePipelineDescriptor struct {
	Label      string
	Layout     PipelineLayout
	Module     ShaderModule
	EntryPoint string
}

// ShaderModuleDescriptor carries WGSL source text. The source is opaque to this package.
type ShaderModuleDescriptor struct {
	Label string
	WGSL  string
}

// ColorAttachment is one color target of a render pass.
type ColorAttachment struct {
	View          TextureView
	ResolveTarget TextureView
	LoadOp        wgpu.LoadOp
	StoreOp       wgpu.StoreOp
	ClearValue    wgpu.Color
}

// DepthAttachment is the depth target of a render pass.
type DepthAttachment struct {
	View            TextureView
	DepthLoadOp     wgpu.LoadOp
	DepthStoreOp    wgpu.StoreOp
	DepthClearValue float32
	DepthReadOnly   bool
}

// RenderPassDescriptor describes the attachments of a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
	DepthAttachment  *DepthAttachment
}

// TextureCopy addresses a texture for queue writes and texture copies.
type TextureCopy struct {
	Texture  Texture
	MipLevel uint32
	Origin   wgpu.Origin3D
	Aspect   wgpu.TextureAspect
}
