package postproc

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// HdrFormat is the format of Hdr render targets.
const HdrFormat = wgpu.TextureFormatRGBA16Float

// Hdr is a floating point post processing target sampled with nearest magnification.
type Hdr struct {
	*PostProc
}

// NewHdr creates an RGBA16Float target of width x height.
//
// Parameters:
//   - device: the device to allocate on
//   - width: the target width
//   - height: the target height
//   - options: functional options; the format is always HdrFormat
//
// Returns:
//   - *Hdr: the target
//   - error: device error, if any
func NewHdr(device gpu.Device, width, height uint32, options ...PostProcBuilderOption) (*Hdr, error) {
	sampler := wgpu.SamplerDescriptor{
		Label:         "hdr-sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	}
	opts := append([]PostProcBuilderOption{WithLabel("hdr"), WithSampler(sampler)}, options...)
	opts = append(opts, WithFormat(HdrFormat))
	p, err := New(device, width, height, 0, opts...)
	if err != nil {
		return nil, err
	}
	return &Hdr{p}, nil
}
