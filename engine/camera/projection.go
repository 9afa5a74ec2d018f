package camera

import "github.com/Carmen-Shannon/oxy-bind/common"

// Projection holds perspective settings.
type Projection struct {
	// Aspect is viewport width / height.
	Aspect float32

	// FovY is the vertical field of view in radians.
	FovY float32

	// Near and Far are the clipping plane distances.
	Near float32
	Far  float32
}

// DefaultProjection returns an 85 degree projection with aspect 1, near 0.1 and far 100.
func DefaultProjection() Projection {
	return Projection{
		Aspect: 1,
		FovY:   common.Radians(85),
		Near:   0.1,
		Far:    100,
	}
}

// NewProjection returns the default projection with the aspect of a width x height viewport.
//
// Parameters:
//   - width: viewport width
//   - height: viewport height
//
// Returns:
//   - Projection: the projection
func NewProjection(width, height float32) Projection {
	p := DefaultProjection()
	p.Resize(width, height)
	return p
}

// Resize updates the aspect for a width x height viewport. A zero height leaves the aspect unchanged.
func (p *Projection) Resize(width, height float32) {
	if height == 0 {
		return
	}
	p.Aspect = width / height
}

// Matrix returns the perspective matrix with depth remapped into the WebGPU [0, 1] range.
func (p Projection) Matrix() common.Mat4 {
	return common.OpenGLToWGPU.Mul(common.Perspective(p.FovY, p.Aspect, p.Near, p.Far))
}

// Transform places the camera: the uniform is projection * translate * rotate * scale.
type Transform struct {
	Position common.Vec3
	Rotation common.Quat
	Scale    float32
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Rotation: common.QuatIdentity(), Scale: 1}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() common.Mat4 {
	return common.Translation(t.Position).
		Mul(t.Rotation.Mat4()).
		Mul(common.UniformScale(t.Scale))
}
