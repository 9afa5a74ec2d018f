package camera

import (
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
)

// UniformSource is the WGSL definition of the CameraUniform struct. It matches Uniform
// exactly (64 bytes) and is registered with the default shader pre-processor as "camera",
// so shaders can declare the binding with
//
//	//@oxy:group 0 0 uniform camera camera
const UniformSource = `struct CameraUniform {
    matrix: mat4x4<f32>,
};`

func init() {
	shader.Register("camera", "CameraUniform", UniformSource)
}

// Uniform is the GPU representation of the camera: the projection matrix multiplied by
// the camera transform, stored as four columns.
type Uniform struct {
	Matrix [4][4]float32
}

// Mat4 returns the uniform matrix in the flat column-major form used by common.
func (u Uniform) Mat4() common.Mat4 {
	var m common.Mat4
	for c := 0; c < 4; c++ {
		copy(m[c*4:c*4+4], u.Matrix[c][:])
	}
	return m
}
