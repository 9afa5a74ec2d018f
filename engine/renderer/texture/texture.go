// Package texture wraps device textures and samplers so they can be bound by a
// bind.Bind and recreated on resize without the holder tracking raw handles.
package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// RawTexture owns a device texture and its default view.
type RawTexture struct {
	cfg   Config
	queue gpu.Queue
	tex   gpu.Texture
	view  gpu.TextureView
	size  wgpu.Extent3D
}

// New creates a texture and its default view.
//
// Parameters:
//   - device: the device to allocate on
//   - size: the texture extent; zero components are raised to 1
//   - options: functional options (label, format, usage, mips, samples, dimension)
//
// Returns:
//   - *RawTexture: the texture
//   - error: device error, if any
func New(device gpu.Device, size wgpu.Extent3D, options ...TextureBuilderOption) (*RawTexture, error) {
	t := &RawTexture{cfg: newConfig(options), queue: device.Queue()}
	if err := t.create(device, size); err != nil {
		return nil, err
	}
	return t, nil
}

func normalize(size wgpu.Extent3D) wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              max(size.Width, 1),
		Height:             max(size.Height, 1),
		DepthOrArrayLayers: max(size.DepthOrArrayLayers, 1),
	}
}

func (t *RawTexture) create(device gpu.Device, size wgpu.Extent3D) error {
	size = normalize(size)
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         t.cfg.Label,
		Usage:         t.cfg.Usage,
		Dimension:     t.cfg.Dimension,
		Size:          size,
		Format:        t.cfg.Format,
		MipLevelCount: t.cfg.MipLevels,
		SampleCount:   t.cfg.SampleCount,
	})
	if err != nil {
		return fmt.Errorf("failed to create texture %q: %w", t.cfg.Label, err)
	}
	view, err := tex.CreateView()
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create view for texture %q: %w", t.cfg.Label, err)
	}
	t.tex, t.view, t.size = tex, view, size
	common.Logger().Debug("texture created", "label", t.cfg.Label, "width", size.Width, "height", size.Height)
	return nil
}

// Resize replaces the texture and view with new ones of the given size. Format, usage,
// mip levels and sample count are unchanged. Binds holding the texture must Refresh to
// pick up the new view.
//
// Parameters:
//   - device: the device to allocate on
//   - size: the new extent
//
// Returns:
//   - error: device error, if any; the old texture is kept on failure
func (t *RawTexture) Resize(device gpu.Device, size wgpu.Extent3D) error {
	oldTex, oldView := t.tex, t.view
	if err := t.create(device, size); err != nil {
		return err
	}
	oldView.Release()
	oldTex.Release()
	return nil
}

// WriteData uploads texel data covering the whole texture. bytesPerPixel of 0 means 4.
// Panics if data is shorter than the texture.
//
// Parameters:
//   - data: tightly packed rows of texels
//   - bytesPerPixel: the size of one texel
//
// Returns:
//   - error: queue error, if any
func (t *RawTexture) WriteData(data []byte, bytesPerPixel uint32) error {
	bpp := common.Coalesce(bytesPerPixel, 4)
	bytesPerRow := bpp * t.size.Width
	need := int(bytesPerRow) * int(t.size.Height) * int(t.size.DepthOrArrayLayers)
	if len(data) < need {
		panic(fmt.Sprintf("texture: %d bytes for %dx%dx%d texels at %d bytes per pixel", len(data), t.size.Width, t.size.Height, t.size.DepthOrArrayLayers, bpp))
	}
	size := t.size
	err := t.queue.WriteTexture(
		&gpu.TextureCopy{Texture: t.tex, Aspect: wgpu.TextureAspectAll},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: t.size.Height,
		},
		&size,
	)
	if err != nil {
		return fmt.Errorf("failed to write texture %q: %w", t.cfg.Label, err)
	}
	return nil
}

// CopyTo records a copy of the full extent of t into dst.
func (t *RawTexture) CopyTo(encoder gpu.CommandEncoder, dst *RawTexture) {
	encoder.CopyTextureToTexture(
		&gpu.TextureCopy{Texture: t.tex, Aspect: wgpu.TextureAspectAll},
		&gpu.TextureCopy{Texture: dst.tex, Aspect: wgpu.TextureAspectAll},
		t.size,
	)
}

// View returns the current default view. It changes on Resize.
func (t *RawTexture) View() gpu.TextureView { return t.view }

// Texture returns the current device texture.
func (t *RawTexture) Texture() gpu.Texture { return t.tex }

// Size returns the current extent.
func (t *RawTexture) Size() wgpu.Extent3D { return t.size }

// Format returns the texel format.
func (t *RawTexture) Format() wgpu.TextureFormat { return t.cfg.Format }

// Usage returns the usage flags.
func (t *RawTexture) Usage() wgpu.TextureUsage { return t.cfg.Usage }

// Config returns the creation configuration.
func (t *RawTexture) Config() Config { return t.cfg }

// Release frees the view and the texture.
func (t *RawTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}
