package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice adapts a *wgpu.Device and its queue to the Device interface.
type wgpuDevice struct {
	device *wgpu.Device
	queue  *wgpuQueue
}

var _ Device = &wgpuDevice{}

// WrapDevice adapts a raw wgpu device so the binding layer can record against it.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the device's queue
//
// Returns:
//   - Device: the adapted device
func WrapDevice(device *wgpu.Device, queue *wgpu.Queue) Device {
	return &wgpuDevice{device: device, queue: &wgpuQueue{queue: queue}}
}

type wgpuBuffer struct {
	raw   *wgpu.Buffer
	size  uint64
	usage wgpu.BufferUsage
}

func (b *wgpuBuffer) Release()                { b.raw.Release() }
func (b *wgpuBuffer) Size() uint64            { return b.size }
func (b *wgpuBuffer) Usage() wgpu.BufferUsage { return b.usage }

type wgpuTexture struct {
	raw  *wgpu.Texture
	size wgpu.Extent3D
}

func (t *wgpuTexture) Release()            { t.raw.Release() }
func (t *wgpuTexture) Size() wgpu.Extent3D { return t.size }

func (t *wgpuTexture) CreateView() (TextureView, error) {
	view, err := t.raw.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture view: %w", err)
	}
	return &wgpuTextureView{raw: view}, nil
}

type wgpuTextureView struct{ raw *wgpu.TextureView }

func (v *wgpuTextureView) Release() { v.raw.Release() }

type wgpuSampler struct{ raw *wgpu.Sampler }

func (s *wgpuSampler) Release() { s.raw.Release() }

type wgpuBindGroupLayout struct{ raw *wgpu.BindGroupLayout }

func (l *wgpuBindGroupLayout) Release() { l.raw.Release() }

type wgpuBindGroup struct{ raw *wgpu.BindGroup }

func (g *wgpuBindGroup) Release() { g.raw.Release() }

type wgpuPipelineLayout struct{ raw *wgpu.PipelineLayout }

func (l *wgpuPipelineLayout) Release() { l.raw.Release() }

type wgpuRenderPipeline struct{ raw *wgpu.RenderPipeline }

func (p *wgpuRenderPipeline) Release() { p.raw.Release() }

type wgpuComputePipeline struct{ raw *wgpu.ComputePipeline }

func (p *wgpuComputePipeline) Release() { p.raw.Release() }

type wgpuShaderModule struct{ raw *wgpu.ShaderModule }

func (m *wgpuShaderModule) Release() { m.raw.Release() }

type wgpuCommandBuffer struct{ raw *wgpu.CommandBuffer }

func (c *wgpuCommandBuffer) Release() { c.raw.Release() }

// WrapTexture adapts a texture created outside this package, such as a surface texture.
//
// Parameters:
//   - tex: the raw texture
//   - size: the texture extent
//
// Returns:
//   - Texture: the adapted texture
func WrapTexture(tex *wgpu.Texture, size wgpu.Extent3D) Texture {
	return &wgpuTexture{raw: tex, size: size}
}

// WrapTextureView adapts a texture view created outside this package.
func WrapTextureView(view *wgpu.TextureView) TextureView {
	return &wgpuTextureView{raw: view}
}

func (d *wgpuDevice) Queue() Queue {
	return d.queue
}

func (d *wgpuDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (Buffer, error) {
	buf, err := d.device.CreateBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", desc.Label, err)
	}
	return &wgpuBuffer{raw: buf, size: desc.Size, usage: desc.Usage}, nil
}

func (d *wgpuDevice) CreateBufferInit(desc *wgpu.BufferInitDescriptor) (Buffer, error) {
	buf, err := d.device.CreateBufferInit(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", desc.Label, err)
	}
	return &wgpuBuffer{raw: buf, size: uint64(len(desc.Contents)), usage: desc.Usage}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	layout, err := d.device.CreateBindGroupLayout(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	return &wgpuBindGroupLayout{raw: layout}, nil
}

func (d *wgpuDevice) CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error) {
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entry := wgpu.BindGroupEntry{Binding: e.Binding, Offset: e.Offset, Size: e.Size}
		switch {
		case e.Buffer != nil:
			entry.Buffer = rawBuffer(e.Buffer)
		case e.TextureView != nil:
			entry.TextureView = e.TextureView.(*wgpuTextureView).raw
		case e.Sampler != nil:
			entry.Sampler = e.Sampler.(*wgpuSampler).raw
		}
		entries[i] = entry
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  desc.Layout.(*wgpuBindGroupLayout).raw,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", desc.Label, err)
	}
	return &wgpuBindGroup{raw: group}, nil
}

func (d *wgpuDevice) CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		layouts[i] = l.(*wgpuBindGroupLayout).raw
	}
	layout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout %q: %w", desc.Label, err)
	}
	return &wgpuPipelineLayout{raw: layout}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	module := desc.Module.(*wgpuShaderModule).raw

	rd := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: desc.Layout.(*wgpuPipelineLayout).raw,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.Buffers,
		},
		Primitive:    desc.Primitive,
		DepthStencil: desc.DepthStencil,
		Multisample:  desc.Multisample,
	}
	if desc.Fragment != nil {
		rd.Fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    desc.Fragment.Targets,
		}
	}

	pipeline, err := d.device.CreateRenderPipeline(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", desc.Label, err)
	}
	return &wgpuRenderPipeline{raw: pipeline}, nil
}

func (d *wgpuDevice) CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipeline, error) {
	pipeline, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: desc.Layout.(*wgpuPipelineLayout).raw,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     desc.Module.(*wgpuShaderModule).raw,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compute pipeline %q: %w", desc.Label, err)
	}
	return &wgpuComputePipeline{raw: pipeline}, nil
}

func (d *wgpuDevice) CreateTexture(desc *wgpu.TextureDescriptor) (Texture, error) {
	tex, err := d.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", desc.Label, err)
	}
	return &wgpuTexture{raw: tex, size: desc.Size}, nil
}

func (d *wgpuDevice) CreateSampler(desc *wgpu.SamplerDescriptor) (Sampler, error) {
	sampler, err := d.device.CreateSampler(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", desc.Label, err)
	}
	return &wgpuSampler{raw: sampler}, nil
}

func (d *wgpuDevice) CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module %q: %w", desc.Label, err)
	}
	return &wgpuShaderModule{raw: module}, nil
}

func (d *wgpuDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder %q: %w", label, err)
	}
	return &wgpuCommandEncoder{raw: encoder}, nil
}

// rawBuffer unwraps a Buffer created by a wgpuDevice.
func rawBuffer(b Buffer) *wgpu.Buffer {
	return b.(*wgpuBuffer).raw
}

type wgpuQueue struct{ queue *wgpu.Queue }

func (q *wgpuQueue) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	if err := q.queue.WriteBuffer(rawBuffer(buf), offset, data); err != nil {
		return fmt.Errorf("failed to write %d bytes at offset %d: %w", len(data), offset, err)
	}
	return nil
}

func (q *wgpuQueue) WriteTexture(dst *TextureCopy, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) error {
	q.queue.WriteTexture(imageCopy(dst), data, layout, size)
	return nil
}

func (q *wgpuQueue) Submit(buffers ...CommandBuffer) {
	for _, b := range buffers {
		q.queue.Submit(b.(*wgpuCommandBuffer).raw)
	}
}

func imageCopy(c *TextureCopy) *wgpu.ImageCopyTexture {
	return &wgpu.ImageCopyTexture{
		Texture:  c.Texture.(*wgpuTexture).raw,
		MipLevel: c.MipLevel,
		Origin:   c.Origin,
		Aspect:   c.Aspect,
	}
}

type wgpuCommandEncoder struct{ raw *wgpu.CommandEncoder }

func (e *wgpuCommandEncoder) Release() { e.raw.Release() }

func (e *wgpuCommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) RenderPassEncoder {
	rd := &wgpu.RenderPassDescriptor{Label: desc.Label}
	for _, c := range desc.ColorAttachments {
		att := wgpu.RenderPassColorAttachment{
			View:       c.View.(*wgpuTextureView).raw,
			LoadOp:     c.LoadOp,
			StoreOp:    c.StoreOp,
			ClearValue: c.ClearValue,
		}
		if c.ResolveTarget != nil {
			att.ResolveTarget = c.ResolveTarget.(*wgpuTextureView).raw
		}
		rd.ColorAttachments = append(rd.ColorAttachments, att)
	}
	if d := desc.DepthAttachment; d != nil {
		rd.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            d.View.(*wgpuTextureView).raw,
			DepthLoadOp:     d.DepthLoadOp,
			DepthStoreOp:    d.DepthStoreOp,
			DepthClearValue: d.DepthClearValue,
			DepthReadOnly:   d.DepthReadOnly,
		}
	}
	return &wgpuRenderPass{raw: e.raw.BeginRenderPass(rd)}
}

func (e *wgpuCommandEncoder) BeginComputePass(string) ComputePassEncoder {
	return &wgpuComputePass{raw: e.raw.BeginComputePass(nil)}
}

func (e *wgpuCommandEncoder) CopyTextureToTexture(src, dst *TextureCopy, size wgpu.Extent3D) {
	e.raw.CopyTextureToTexture(imageCopy(src), imageCopy(dst), &size)
}

func (e *wgpuCommandEncoder) Finish() (CommandBuffer, error) {
	buf, err := e.raw.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to finish command encoder: %w", err)
	}
	return &wgpuCommandBuffer{raw: buf}, nil
}

type wgpuRenderPass struct{ raw *wgpu.RenderPassEncoder }

func (p *wgpuRenderPass) SetPipeline(pipeline RenderPipeline) {
	p.raw.SetPipeline(pipeline.(*wgpuRenderPipeline).raw)
}

func (p *wgpuRenderPass) SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32) {
	p.raw.SetBindGroup(index, group.(*wgpuBindGroup).raw, dynamicOffsets)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf Buffer, offset, size uint64) {
	p.raw.SetVertexBuffer(slot, rawBuffer(buf), offset, size)
}

func (p *wgpuRenderPass) SetIndexBuffer(buf Buffer, format wgpu.IndexFormat, offset, size uint64) {
	p.raw.SetIndexBuffer(rawBuffer(buf), format, offset, size)
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *wgpuRenderPass) End() {
	p.raw.End()
	p.raw.Release()
}

type wgpuComputePass struct{ raw *wgpu.ComputePassEncoder }

func (p *wgpuComputePass) SetPipeline(pipeline ComputePipeline) {
	p.raw.SetPipeline(pipeline.(*wgpuComputePipeline).raw)
}

func (p *wgpuComputePass) SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32) {
	p.raw.SetBindGroup(index, group.(*wgpuBindGroup).raw, dynamicOffsets)
}

func (p *wgpuComputePass) DispatchWorkgroups(x, y, z uint32) {
	p.raw.DispatchWorkgroups(x, y, z)
}

func (p *wgpuComputePass) End() {
	p.raw.End()
	p.raw.Release()
}
