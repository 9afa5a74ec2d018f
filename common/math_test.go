package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestMat4MulIdentity(t *testing.T) {
	m := Translation(Vec3{1, 2, 3})
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}

func TestTranslationThenScale(t *testing.T) {
	m := Translation(Vec3{1, 2, 3}).Mul(UniformScale(2))
	assert.Equal(t, float32(2), m[0])
	assert.Equal(t, float32(2), m[5])
	assert.Equal(t, float32(2), m[10])
	assert.Equal(t, Vec3{1, 2, 3}, Vec3{m[12], m[13], m[14]})
}

func TestQuatAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 0, 2}, math32.Pi/2)
	m := q.Mat4()
	// x axis rotated 90 degrees around z lands on y.
	assert.InDelta(t, 0, m[0], 1e-6)
	assert.InDelta(t, 1, m[1], 1e-6)
	assert.Equal(t, QuatIdentity(), QuatFromAxisAngle(Vec3{}, 1))
	assert.Equal(t, Identity(), QuatIdentity().Mat4())
}

func TestQuatMulComposes(t *testing.T) {
	quarter := QuatFromAxisAngle(Vec3{0, 1, 0}, math32.Pi/2)
	half := quarter.Mul(quarter)
	want := QuatFromAxisAngle(Vec3{0, 1, 0}, math32.Pi)
	for i := range half {
		assert.InDelta(t, want[i], half[i], 1e-6)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := OpenGLToWGPU.Mul(Perspective(Radians(90), 1, 0.1, 100))
	// A point on the near plane maps to depth 0, on the far plane to depth 1.
	depth := func(z float32) float32 {
		clipZ := p[10]*z + p[14]
		clipW := p[11]*z + p[15]
		return clipZ / clipW
	}
	assert.InDelta(t, 0, depth(-0.1), 1e-4)
	assert.InDelta(t, 1, depth(-100), 1e-4)
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 1, 3))
	assert.Equal(t, 1, Clamp(-2, 1, 3))
	assert.Equal(t, float32(2.5), Clamp(float32(2.5), 1, 3))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
