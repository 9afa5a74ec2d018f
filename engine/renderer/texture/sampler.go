package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Sampler owns a device sampler and remembers the descriptor it was created from.
type Sampler struct {
	raw  gpu.Sampler
	desc wgpu.SamplerDescriptor
}

// DefaultSamplerDescriptor samples linearly and clamps to the edge.
func DefaultSamplerDescriptor() wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         "sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// NewSampler creates a sampler. A nil descriptor uses DefaultSamplerDescriptor.
// A zero LodMaxClamp or MaxAnisotropy is raised to 32 and 1.
//
// Parameters:
//   - device: the device to allocate on
//   - desc: the sampler descriptor, or nil
//
// Returns:
//   - *Sampler: the sampler
//   - error: device error, if any
func NewSampler(device gpu.Device, desc *wgpu.SamplerDescriptor) (*Sampler, error) {
	d := DefaultSamplerDescriptor()
	if desc != nil {
		d = *desc
		d.Label = common.Coalesce(d.Label, "sampler")
		d.LodMaxClamp = common.Coalesce(d.LodMaxClamp, 32)
		d.MaxAnisotropy = common.Coalesce(d.MaxAnisotropy, 1)
	}
	raw, err := device.CreateSampler(&d)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", d.Label, err)
	}
	return &Sampler{raw: raw, desc: d}, nil
}

// Sampler returns the device sampler.
func (s *Sampler) Sampler() gpu.Sampler { return s.raw }

// Descriptor returns the descriptor the sampler was created from.
func (s *Sampler) Descriptor() wgpu.SamplerDescriptor { return s.desc }

// Release frees the device sampler.
func (s *Sampler) Release() {
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}
