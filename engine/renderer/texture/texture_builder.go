package texture

import (
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// Config is the creation configuration of a RawTexture. Resize reuses it unchanged.
type Config struct {
	Label       string
	Format      wgpu.TextureFormat
	Usage       wgpu.TextureUsage
	MipLevels   uint32
	SampleCount uint32
	Dimension   wgpu.TextureDimension

	fsys           fs.FS
	scaleW, scaleH int
}

// TextureBuilderOption is a functional option used to configure a texture during construction.
type TextureBuilderOption func(*Config)

// WithLabel sets the debug label.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - TextureBuilderOption: a function that sets the label
func WithLabel(label string) TextureBuilderOption {
	return func(c *Config) {
		c.Label = label
	}
}

// WithFormat sets the texel format.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - TextureBuilderOption: a function that sets the format
func WithFormat(format wgpu.TextureFormat) TextureBuilderOption {
	return func(c *Config) {
		c.Format = format
	}
}

// WithUsage replaces the usage flags.
//
// Parameters:
//   - usage: the texture usage flags
//
// Returns:
//   - TextureBuilderOption: a function that sets the usage
func WithUsage(usage wgpu.TextureUsage) TextureBuilderOption {
	return func(c *Config) {
		c.Usage = usage
	}
}

// WithMipLevels sets the mip level count.
func WithMipLevels(levels uint32) TextureBuilderOption {
	return func(c *Config) {
		c.MipLevels = levels
	}
}

// WithSampleCount sets the multisample count.
func WithSampleCount(count uint32) TextureBuilderOption {
	return func(c *Config) {
		c.SampleCount = count
	}
}

// WithDimension sets the texture dimension.
func WithDimension(dimension wgpu.TextureDimension) TextureBuilderOption {
	return func(c *Config) {
		c.Dimension = dimension
	}
}

// WithFS makes LoadImage read from fsys instead of the OS filesystem.
//
// Parameters:
//   - fsys: the filesystem to read images from
//
// Returns:
//   - TextureBuilderOption: a function that sets the filesystem
func WithFS(fsys fs.FS) TextureBuilderOption {
	return func(c *Config) {
		c.fsys = fsys
	}
}

// WithScale resamples decoded images to width x height before upload.
// Only LoadImage and FromImage read it.
//
// Parameters:
//   - width: the target width in texels
//   - height: the target height in texels
//
// Returns:
//   - TextureBuilderOption: a function that sets the target size
func WithScale(width, height int) TextureBuilderOption {
	return func(c *Config) {
		c.scaleW, c.scaleH = width, height
	}
}

func newConfig(options []TextureBuilderOption) Config {
	c := Config{
		Label:       "texture",
		Format:      wgpu.TextureFormatBGRA8UnormSrgb,
		Usage:       wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		MipLevels:   1,
		SampleCount: 1,
		Dimension:   wgpu.TextureDimension2D,
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}
