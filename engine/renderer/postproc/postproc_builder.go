package postproc

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/cogentcore/webgpu/wgpu"
)

type postProcConfig struct {
	label      string
	format     wgpu.TextureFormat
	sampler    *wgpu.SamplerDescriptor
	bindLayout *bind.Layout
}

// PostProcBuilderOption is a functional option used to configure a PostProc during construction.
type PostProcBuilderOption func(*postProcConfig)

// WithLabel sets the label of the render target and its bind.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - PostProcBuilderOption: a function that sets the label
func WithLabel(label string) PostProcBuilderOption {
	return func(c *postProcConfig) {
		c.label = label
	}
}

// WithFormat sets the format of the render target.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - PostProcBuilderOption: a function that sets the format
func WithFormat(format wgpu.TextureFormat) PostProcBuilderOption {
	return func(c *postProcConfig) {
		c.format = format
	}
}

// WithSampler sets the descriptor of the sampler the target is read through.
//
// Parameters:
//   - desc: the sampler descriptor
//
// Returns:
//   - PostProcBuilderOption: a function that sets the sampler descriptor
func WithSampler(desc wgpu.SamplerDescriptor) PostProcBuilderOption {
	return func(c *postProcConfig) {
		c.sampler = &desc
	}
}

// WithBindLayout reuses a layout from NewBindLayout instead of creating one, so several
// targets can be bound through the same pipeline layout.
//
// Parameters:
//   - layout: the post processing bind layout
//
// Returns:
//   - PostProcBuilderOption: a function that sets the bind layout
func WithBindLayout(layout *bind.Layout) PostProcBuilderOption {
	return func(c *postProcConfig) {
		c.bindLayout = layout
	}
}

func newPostProcConfig(options []PostProcBuilderOption) *postProcConfig {
	c := &postProcConfig{label: "post-proc", format: wgpu.TextureFormatBGRA8UnormSrgb}
	for _, opt := range options {
		opt(c)
	}
	return c
}
