package gpu

import "github.com/cogentcore/webgpu/wgpu"

// RenderContextBuilderOption configures NewRenderContext.
type RenderContextBuilderOption func(*renderContextConfig)

// WithSurfaceDescriptor creates a presentation surface and requests an adapter compatible with it.
//
// Parameters:
//   - desc: platform surface descriptor, e.g. from window.Window.SurfaceDescriptor
//
// Returns:
//   - RenderContextBuilderOption: the option
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) RenderContextBuilderOption {
	return func(c *renderContextConfig) {
		c.surfaceDescriptor = desc
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
func WithForceFallbackAdapter(force bool) RenderContextBuilderOption {
	return func(c *renderContextConfig) {
		c.forceFallbackAdapter = force
	}
}

// WithMaxBindGroups raises the device's bind group limit above the WebGPU default of 4.
func WithMaxBindGroups(n uint32) RenderContextBuilderOption {
	return func(c *renderContextConfig) {
		c.maxBindGroups = n
	}
}

// WithDeviceLabel sets the device debug label.
func WithDeviceLabel(label string) RenderContextBuilderOption {
	return func(c *renderContextConfig) {
		c.label = label
	}
}
