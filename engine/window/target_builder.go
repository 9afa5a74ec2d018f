package window

import "github.com/cogentcore/webgpu/wgpu"

// TargetBuilderOption is a functional option for configuring a Target via NewTarget.
type TargetBuilderOption func(*Target)

// WithSize sets the initial surface size in pixels.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - TargetBuilderOption: option function to apply
func WithSize(width, height int) TargetBuilderOption {
	return func(t *Target) {
		t.width = uint32(max(width, 1))
		t.height = uint32(max(height, 1))
	}
}

// WithClearColor sets the color render passes clear to when no load operation is given.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - TargetBuilderOption: option function to apply
func WithClearColor(color wgpu.Color) TargetBuilderOption {
	return func(t *Target) {
		t.clear = color
	}
}

// WithTargetLabel sets the label prefix of command encoders created by the target.
func WithTargetLabel(label string) TargetBuilderOption {
	return func(t *Target) {
		t.label = label
	}
}
