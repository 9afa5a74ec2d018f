package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// LayoutBuilderOption is a functional option used to configure a Layout or ComputeLayout during construction.
type LayoutBuilderOption func(*layoutConfig)

// WithLayoutLabel sets the debug label of the pipeline layout.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - LayoutBuilderOption: a function that sets the label
func WithLayoutLabel(label string) LayoutBuilderOption {
	return func(c *layoutConfig) {
		c.label = label
	}
}

// WithSharedLayouts sets the bind group layouts bound once per pass through SetSharedData.
// They occupy the first bind group indices.
//
// Parameters:
//   - layouts: the shared data layouts in group-index order
//
// Returns:
//   - LayoutBuilderOption: a function that sets the shared layouts
func WithSharedLayouts(layouts ...*bind.Layout) LayoutBuilderOption {
	return func(c *layoutConfig) {
		c.shared = append([]*bind.Layout(nil), layouts...)
	}
}

// WithSettingsLayouts sets the bind group layouts a shader instance supplies as its settings.
// They follow the shared layouts in group-index order.
//
// Parameters:
//   - layouts: the settings layouts in group-index order
//
// Returns:
//   - LayoutBuilderOption: a function that sets the settings layouts
func WithSettingsLayouts(layouts ...*bind.Layout) LayoutBuilderOption {
	return func(c *layoutConfig) {
		c.settings = append([]*bind.Layout(nil), layouts...)
	}
}

// WithVertexLayout sets the vertex input layout. Ignored by compute layouts.
//
// Parameters:
//   - layout: the composed vertex layout
//
// Returns:
//   - LayoutBuilderOption: a function that sets the vertex layout
func WithVertexLayout(layout *vertex.Layout) LayoutBuilderOption {
	return func(c *layoutConfig) {
		c.vertex = layout
	}
}

// WithTargetFormat sets the color target format. Ignored by compute layouts.
//
// Parameters:
//   - format: the color attachment format pipelines render into
//
// Returns:
//   - LayoutBuilderOption: a function that sets the target format
func WithTargetFormat(format wgpu.TextureFormat) LayoutBuilderOption {
	return func(c *layoutConfig) {
		c.format = format
	}
}
