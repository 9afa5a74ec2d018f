package camera

import "github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"

type CameraBuilderOption func(*cameraImpl)

// WithProjection sets the camera's projection.
//
// Parameters:
//   - p: the projection
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = p
	}
}

// WithViewport sets the default projection with the aspect of a width x height viewport.
//
// Parameters:
//   - width: viewport width
//   - height: viewport height
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithViewport(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection.Resize(width, height)
	}
}

// WithTransform sets the camera's initial transform.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - CameraBuilderOption: a function that sets the transform
func WithTransform(t Transform) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform = t
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera takes its initial transform from the controller.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithBindLayout binds the camera against an existing layout from NewBindLayout instead of
// creating its own. The camera does not release a layout passed this way.
//
// Parameters:
//   - layout: the camera bind layout
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind layout
func WithBindLayout(layout *bind.Layout) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.layout = layout
	}
}

// WithLabel sets the debug label prefix of the camera buffer.
func WithLabel(label string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.label = label
	}
}
