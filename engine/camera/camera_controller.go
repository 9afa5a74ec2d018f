package camera

// CameraController produces the camera transform each frame. Camera.Update reads it.
type CameraController interface {
	// Transform returns the transform the camera should use.
	//
	// Returns:
	//   - Transform: position, rotation and unit scale
	Transform() Transform
}

// GroundedController is a controller that keeps roll around a fixed up axis: the rotation
// is yaw around Up, then roll around Z, then pitch around X.
type GroundedController interface {
	CameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Translate moves the camera by the given offset.
	//
	// Parameters:
	//   - dx, dy, dz: world-space offset
	Translate(dx, dy, dz float32)

	// Up returns the yaw axis.
	Up() (x, y, z float32)

	// Yaw returns the angle around the up axis in radians.
	Yaw() float32

	// SetYaw sets the angle around the up axis in radians.
	SetYaw(yaw float32)

	// AddYaw turns the camera around the up axis by delta radians.
	AddYaw(delta float32)

	// Pitch returns the angle around the X axis in radians.
	Pitch() float32

	// SetPitch sets the angle around the X axis, clamped to [MinPitch, MaxPitch].
	//
	// Parameters:
	//   - pitch: the angle in radians
	SetPitch(pitch float32)

	// Roll returns the angle around the Z axis in radians.
	Roll() float32

	// SetRoll sets the angle around the Z axis in radians.
	SetRoll(roll float32)
}
