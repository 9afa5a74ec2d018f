package camera

import "github.com/Carmen-Shannon/oxy-bind/common"

// GroundedControllerOption is a functional option for configuring a GroundedController.
type GroundedControllerOption func(*groundedControllerImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - x: X coordinate
//   - y: Y coordinate
//   - z: Z coordinate
//
// Returns:
//   - GroundedControllerOption: functional option to set the position
func WithPosition(x, y, z float32) GroundedControllerOption {
	return func(g *groundedControllerImpl) {
		g.position = common.Vec3{x, y, z}
	}
}

// WithUp sets the yaw axis.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - GroundedControllerOption: functional option to set the up axis
func WithUp(x, y, z float32) GroundedControllerOption {
	return func(g *groundedControllerImpl) {
		g.up = common.Vec3{x, y, z}
	}
}

// WithYaw sets the initial angle around the up axis in radians.
func WithYaw(yaw float32) GroundedControllerOption {
	return func(g *groundedControllerImpl) {
		g.yaw = yaw
	}
}

// WithPitch sets the initial angle around the X axis in radians. It is clamped to [MinPitch, MaxPitch].
func WithPitch(pitch float32) GroundedControllerOption {
	return func(g *groundedControllerImpl) {
		g.pitch = pitch
	}
}

// WithRoll sets the initial angle around the Z axis in radians.
func WithRoll(roll float32) GroundedControllerOption {
	return func(g *groundedControllerImpl) {
		g.roll = roll
	}
}
