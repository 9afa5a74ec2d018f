package texture

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the format of depth textures created by NewDepthTexture.
const DepthFormat = wgpu.TextureFormatDepth32Float

// Texture pairs a texture with the sampler it is read through.
type Texture struct {
	Raw     *RawTexture
	Sampler *Sampler
}

// NewDepthTexture creates a Depth32Float render attachment that can also be sampled,
// with a LessEqual comparison sampler.
//
// Parameters:
//   - device: the device to allocate on
//   - width: the width in texels, raised to 1 if zero
//   - height: the height in texels, raised to 1 if zero
//
// Returns:
//   - *Texture: the depth texture and its comparison sampler
//   - error: device error, if any
func NewDepthTexture(device gpu.Device, width, height uint32) (*Texture, error) {
	raw, err := New(device,
		wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		WithLabel("depth-texture"),
		WithFormat(DepthFormat),
		WithUsage(wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding),
	)
	if err != nil {
		return nil, err
	}
	sampler, err := NewSampler(device, &wgpu.SamplerDescriptor{
		Label:         "depth-sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLessEqual,
		LodMinClamp:   0,
		LodMaxClamp:   100,
		MaxAnisotropy: 1,
	})
	if err != nil {
		raw.Release()
		return nil, err
	}
	return &Texture{Raw: raw, Sampler: sampler}, nil
}

// View returns the current view of the texture.
func (t *Texture) View() gpu.TextureView { return t.Raw.View() }

// Resize recreates the texture at width x height. The sampler is kept.
func (t *Texture) Resize(device gpu.Device, width, height uint32) error {
	return t.Raw.Resize(device, wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1})
}

// DepthAttachment returns an attachment that clears to 1.0 and stores the result.
func (t *Texture) DepthAttachment() *gpu.DepthAttachment {
	return &gpu.DepthAttachment{
		View:            t.Raw.View(),
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1,
	}
}

// Release frees the texture and the sampler.
func (t *Texture) Release() {
	t.Raw.Release()
	t.Sampler.Release()
}
