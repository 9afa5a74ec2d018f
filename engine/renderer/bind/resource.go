package bind

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferProvider is implemented by typed buffer wrappers that can be bound directly.
type BufferProvider interface {
	Buffer() gpu.Buffer
}

// TextureViewProvider is implemented by texture wrappers whose view may change over their lifetime.
type TextureViewProvider interface {
	View() gpu.TextureView
}

// TextureUsageReporter is implemented by texture wrappers that know their usage flags.
// New checks a reporting provider against the kind of the slot it is bound to.
type TextureUsageReporter interface {
	Usage() wgpu.TextureUsage
}

// SamplerProvider is implemented by sampler wrappers.
type SamplerProvider interface {
	Sampler() gpu.Sampler
}

// Resource is one handle bound to a schema slot. A Resource built from a provider
// re-resolves the handle on every Bind refresh, which is how a resized texture's new
// view reaches the bind group.
type Resource struct {
	class resourceClass

	buffer         gpu.Buffer
	bufferProvider BufferProvider
	offset         uint64
	size           uint64

	view         gpu.TextureView
	viewProvider TextureViewProvider

	sampler         gpu.Sampler
	samplerProvider SamplerProvider
}

// Buffer binds a whole buffer.
func Buffer(buf gpu.Buffer) Resource {
	return Resource{class: classBuffer, buffer: buf, size: wgpu.WholeSize}
}

// BufferRange binds size bytes of buf starting at offset.
//
// Parameters:
//   - buf: the buffer
//   - offset: the byte offset of the range
//   - size: the byte size of the range
//
// Returns:
//   - Resource: the resource
func BufferRange(buf gpu.Buffer, offset, size uint64) Resource {
	return Resource{class: classBuffer, buffer: buf, offset: offset, size: size}
}

// FromBuffer binds the whole buffer of a typed wrapper.
func FromBuffer(p BufferProvider) Resource {
	return Resource{class: classBuffer, bufferProvider: p, size: wgpu.WholeSize}
}

// TextureView binds a fixed texture view.
func TextureView(view gpu.TextureView) Resource {
	return Resource{class: classTextureView, view: view}
}

// FromTextureView binds the current view of a texture wrapper.
func FromTextureView(p TextureViewProvider) Resource {
	return Resource{class: classTextureView, viewProvider: p}
}

// Sampler binds a fixed sampler.
func Sampler(s gpu.Sampler) Resource {
	return Resource{class: classSampler, sampler: s}
}

// FromSampler binds the sampler of a sampler wrapper.
func FromSampler(p SamplerProvider) Resource {
	return Resource{class: classSampler, samplerProvider: p}
}

// BufferHandle resolves the current buffer, or nil for non-buffer resources.
func (r Resource) BufferHandle() gpu.Buffer {
	if r.bufferProvider != nil {
		return r.bufferProvider.Buffer()
	}
	return r.buffer
}

// TextureViewHandle resolves the current texture view, or nil for non-texture resources.
func (r Resource) TextureViewHandle() gpu.TextureView {
	if r.viewProvider != nil {
		return r.viewProvider.View()
	}
	return r.view
}

// SamplerHandle resolves the current sampler, or nil for non-sampler resources.
func (r Resource) SamplerHandle() gpu.Sampler {
	if r.samplerProvider != nil {
		return r.samplerProvider.Sampler()
	}
	return r.sampler
}

func (r Resource) entry(slot uint32) gpu.BindGroupEntry {
	e := gpu.BindGroupEntry{Binding: slot}
	switch r.class {
	case classBuffer:
		e.Buffer = r.BufferHandle()
		e.Offset = r.offset
		e.Size = r.size
	case classTextureView:
		e.TextureView = r.TextureViewHandle()
	case classSampler:
		e.Sampler = r.SamplerHandle()
	}
	return e
}
