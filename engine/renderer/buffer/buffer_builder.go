package buffer

import "github.com/cogentcore/webgpu/wgpu"

// bufferConfig holds the options shared by every buffer wrapper.
type bufferConfig struct {
	label string
	usage wgpu.BufferUsage
}

// BufferBuilderOption is a functional option used to configure a buffer wrapper during construction.
type BufferBuilderOption func(*bufferConfig)

// WithLabel sets the debug label of the device buffer.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - BufferBuilderOption: a function that sets the label
func WithLabel(label string) BufferBuilderOption {
	return func(c *bufferConfig) {
		c.label = label
	}
}

// WithUsage adds usage flags on top of the wrapper's required usage, e.g. wgpu.BufferUsageCopySrc
// for read-back or wgpu.BufferUsageVertex to feed a storage buffer into a vertex stage.
//
// Parameters:
//   - usage: the additional usage flags
//
// Returns:
//   - BufferBuilderOption: a function that adds the usage flags
func WithUsage(usage wgpu.BufferUsage) BufferBuilderOption {
	return func(c *bufferConfig) {
		c.usage |= usage
	}
}

func newBufferConfig(kind string, base wgpu.BufferUsage, options []BufferBuilderOption) *bufferConfig {
	c := &bufferConfig{usage: base}
	for _, opt := range options {
		opt(c)
	}
	if c.label == "" {
		c.label = kind
	}
	return c
}
