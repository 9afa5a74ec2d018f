// Package gpu describes the device collaborator the binding layer records against.
// Every handle is an interface so the same schema and session code can drive the
// wgpu-backed device at runtime and the recording device in gputest during tests.
package gpu

import "github.com/cogentcore/webgpu/wgpu"

// Releasable is implemented by every device object.
type Releasable interface {
	// Release frees the underlying device object. Using the handle afterwards is undefined.
	Release()
}

// Buffer is a device buffer handle.
type Buffer interface {
	Releasable

	// Size returns the allocation size in bytes.
	Size() uint64

	// Usage returns the usage flags the buffer was created with.
	Usage() wgpu.BufferUsage
}

// Texture is a device texture handle.
type Texture interface {
	Releasable

	// CreateView creates a default view covering the whole texture.
	//
	// Returns:
	//   - TextureView: the new view
	//   - error: device error, if any
	CreateView() (TextureView, error)

	// Size returns the texture extent.
	Size() wgpu.Extent3D
}

// TextureView is a view onto a texture, bindable as a texture resource or render attachment.
type TextureView interface{ Releasable }

// Sampler is a device sampler handle.
type Sampler interface{ Releasable }

// BindGroupLayout is the device form of a binding schema.
type BindGroupLayout interface{ Releasable }

// BindGroup is a realized set of resources matching a BindGroupLayout.
type BindGroup interface{ Releasable }

// PipelineLayout combines bind group layouts for pipeline creation.
type PipelineLayout interface{ Releasable }

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface{ Releasable }

// ComputePipeline is a compiled compute pipeline.
type ComputePipeline interface{ Releasable }

// ShaderModule is a compiled shader module.
type ShaderModule interface{ Releasable }

// CommandBuffer is a finished, submittable command recording.
type CommandBuffer interface{ Releasable }

// Device creates device objects and exposes the submission queue.
// Implementations must be safe to share between goroutines; command encoders are not.
type Device interface {
	// CreateBuffer allocates an uninitialized buffer.
	CreateBuffer(desc *wgpu.BufferDescriptor) (Buffer, error)

	// CreateBufferInit allocates a buffer and fills it with desc.Contents.
	CreateBufferInit(desc *wgpu.BufferInitDescriptor) (Buffer, error)

	// CreateBindGroupLayout compiles a binding layout.
	CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error)

	// CreateBindGroup realizes a bind group from resource handles.
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)

	// CreatePipelineLayout combines bind group layouts.
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error)

	// CreateRenderPipeline compiles a render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateComputePipeline compiles a compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipeline, error)

	// CreateTexture allocates a texture.
	CreateTexture(desc *wgpu.TextureDescriptor) (Texture, error)

	// CreateSampler creates a sampler.
	CreateSampler(desc *wgpu.SamplerDescriptor) (Sampler, error)

	// CreateShaderModule hands shader source to the device for compilation.
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)

	// CreateCommandEncoder starts a new command recording.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Queue returns the device's submission queue.
	Queue() Queue
}

// Queue uploads data and submits command buffers. Writes are ordered before any
// command buffer submitted after them but do not block for completion.
type Queue interface {
	// WriteBuffer copies data into buf at a byte offset.
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// WriteTexture copies texel data into a texture.
	WriteTexture(dst *TextureCopy, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) error

	// Submit schedules command buffers for execution in order.
	Submit(buffers ...CommandBuffer)
}

// CommandEncoder records passes and copies into a CommandBuffer.
type CommandEncoder interface {
	Releasable

	// BeginRenderPass starts recording a render pass.
	BeginRenderPass(desc *RenderPassDescriptor) RenderPassEncoder

	// BeginComputePass starts recording a compute pass.
	BeginComputePass(label string) ComputePassEncoder

	// CopyTextureToTexture records a copy between textures.
	CopyTextureToTexture(src, dst *TextureCopy, size wgpu.Extent3D)

	// Finish ends recording.
	Finish() (CommandBuffer, error)
}

// RenderPassEncoder is the raw recording of a single render pass.
type RenderPassEncoder interface {
	SetPipeline(pipeline RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buf Buffer, offset, size uint64)
	SetIndexBuffer(buf Buffer, format wgpu.IndexFormat, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)

	// End closes the pass. No further commands may be recorded on it.
	End()
}

// ComputePassEncoder is the raw recording of a single compute pass.
type ComputePassEncoder interface {
	SetPipeline(pipeline ComputePipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	DispatchWorkgroups(x, y, z uint32)

	// End closes the pass.
	End()
}
