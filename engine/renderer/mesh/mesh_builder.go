package mesh

import "github.com/cogentcore/webgpu/wgpu"

// meshConfig holds the options shared by meshes, vertex buffers and instance buffers.
type meshConfig struct {
	label    string
	usage    wgpu.BufferUsage
	capacity int
}

// MeshBuilderOption is a functional option used to configure mesh buffers during construction.
type MeshBuilderOption func(*meshConfig)

// WithLabel sets the debug label.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - MeshBuilderOption: a function that sets the label
func WithLabel(label string) MeshBuilderOption {
	return func(c *meshConfig) {
		c.label = label
	}
}

// WithUsage adds usage flags to the created buffers, e.g. wgpu.BufferUsageStorage so a compute
// pass can write the vertices.
//
// Parameters:
//   - usage: additional usage flags
//
// Returns:
//   - MeshBuilderOption: a function that adds the usage flags
func WithUsage(usage wgpu.BufferUsage) MeshBuilderOption {
	return func(c *meshConfig) {
		c.usage |= usage
	}
}

// WithCapacity reserves room for more instances than the initial data holds.
// Only NewInstances reads it.
//
// Parameters:
//   - capacity: the instance capacity
//
// Returns:
//   - MeshBuilderOption: a function that sets the capacity
func WithCapacity(capacity int) MeshBuilderOption {
	return func(c *meshConfig) {
		c.capacity = capacity
	}
}

func newMeshConfig(kind string, options []MeshBuilderOption) *meshConfig {
	c := &meshConfig{}
	for _, opt := range options {
		opt(c)
	}
	if c.label == "" {
		c.label = kind
	}
	return c
}
