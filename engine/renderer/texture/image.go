package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file and uploads it as an
// RGBA8UnormSrgb texture. The label defaults to the file's base name.
//
// Parameters:
//   - device: the device to allocate on
//   - path: the image path, relative to WithFS when set
//   - options: functional options (label, format, usage, filesystem, scale)
//
// Returns:
//   - *RawTexture: the uploaded texture
//   - error: read, decode or device error
func LoadImage(device gpu.Device, path string, options ...TextureBuilderOption) (*RawTexture, error) {
	cfg := newConfig(options)

	var r io.ReadCloser
	var err error
	if cfg.fsys != nil {
		r, err = cfg.fsys.Open(path)
	} else {
		r, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", path, err)
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	opts := append([]TextureBuilderOption{WithLabel(label)}, options...)
	t, err := FromImage(device, img, opts...)
	if err != nil {
		return nil, err
	}
	common.Logger().Debug("image loaded", "path", path, "format", format, "width", t.Size().Width, "height", t.Size().Height)
	return t, nil
}

// FromImage converts img to RGBA, optionally rescales it, and uploads it as an
// RGBA8UnormSrgb texture unless WithFormat says otherwise.
//
// Parameters:
//   - device: the device to allocate on
//   - img: the source image
//   - options: functional options (label, format, usage, scale)
//
// Returns:
//   - *RawTexture: the uploaded texture
//   - error: device error, if any
func FromImage(device gpu.Device, img image.Image, options ...TextureBuilderOption) (*RawTexture, error) {
	opts := append([]TextureBuilderOption{WithLabel("image"), WithFormat(wgpu.TextureFormatRGBA8UnormSrgb)}, options...)
	cfg := newConfig(opts)

	rgba := toRGBA(img, cfg.scaleW, cfg.scaleH)
	bounds := rgba.Bounds()
	t, err := New(device, wgpu.Extent3D{
		Width:              uint32(bounds.Dx()),
		Height:             uint32(bounds.Dy()),
		DepthOrArrayLayers: 1,
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.WriteData(rgba.Pix, 4); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// toRGBA returns img as a tightly packed RGBA image, resampled with CatmullRom when
// a positive target size is given.
func toRGBA(img image.Image, width, height int) *image.RGBA {
	src := img.Bounds()
	if width > 0 && height > 0 && (width != src.Dx() || height != src.Dy()) {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*src.Dx() && src.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst
}
