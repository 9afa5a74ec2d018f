package camera

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// project applies m to the point p and returns the clip-space coordinates divided by w.
func project(m common.Mat4, p common.Vec3) common.Vec3 {
	v := [4]float32{p[0], p[1], p[2], 1}
	var out [4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r] += m[c*4+r] * v[c]
		}
	}
	return common.Vec3{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
}

func TestDefaultProjection(t *testing.T) {
	p := DefaultProjection()
	assert.Equal(t, float32(1), p.Aspect)
	assert.InDelta(t, 85*math32.Pi/180, p.FovY, 1e-6)
	assert.Equal(t, float32(0.1), p.Near)
	assert.Equal(t, float32(100), p.Far)

	p = NewProjection(800, 600)
	assert.InDelta(t, 4.0/3.0, p.Aspect, 1e-6)
	p.Resize(10, 0)
	assert.InDelta(t, 4.0/3.0, p.Aspect, 1e-6)
}

func TestProjectionDepthRange(t *testing.T) {
	m := DefaultProjection().Matrix()

	near := project(m, common.Vec3{0, 0, -0.1})
	far := project(m, common.Vec3{0, 0, -100})
	mid := project(m, common.Vec3{0, 0, -1})

	assert.InDelta(t, 0, near[2], 1e-4)
	assert.InDelta(t, 1, far[2], 1e-4)
	assert.Greater(t, mid[2], float32(0))
	assert.Less(t, mid[2], float32(1))
}

func TestTransformMatrix(t *testing.T) {
	assert.Equal(t, common.Identity(), NewTransform().Matrix())

	tr := Transform{
		Position: common.Vec3{1, 2, 3},
		Rotation: common.QuatFromAxisAngle(common.Vec3{0, 1, 0}, math32.Pi/2),
		Scale:    2,
	}
	p := project(tr.Matrix(), common.Vec3{1, 0, 0})
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 1, p[2], 1e-5)
}

func TestNewCameraBindsUniform(t *testing.T) {
	dev := gputest.New()
	cam, err := NewCamera(dev, WithViewport(1920, 1080))
	require.NoError(t, err)

	require.Len(t, dev.BindGroupLayouts, 1)
	entries := dev.BindGroupLayouts[0].Desc.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex, entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)

	require.Len(t, dev.Buffers, 1)
	assert.Equal(t, uint64(64), dev.Buffers[0].Size())
	assert.Equal(t, "camera-uniform", dev.Buffers[0].Label)
	assert.Equal(t, common.StructToBytes(&Uniform{Matrix: cam.ProjectionMatrix().Rows()}), dev.Buffers[0].Data)

	require.Len(t, dev.BindGroups, 1)
	assert.Equal(t, dev.Buffers[0], dev.BindGroups[0].Desc.Entries[0].Buffer)
	assert.Same(t, cam.Layout(), cam.Bind().Layout())
	assert.InDelta(t, 1920.0/1080.0, cam.Projection().Aspect, 1e-6)
}

func TestCameraTransformAndWrite(t *testing.T) {
	dev := gputest.New()
	cam, err := NewCamera(dev)
	require.NoError(t, err)

	tr := NewTransform()
	tr.Position = common.Vec3{0, 0, -3}
	cam.SetTransform(tr)
	want := cam.ProjectionMatrix().Mul(tr.Matrix())
	assert.Equal(t, want, cam.Uniform().Mat4())

	require.NoError(t, cam.WriteBuffer())
	require.Len(t, dev.BufferWrites, 1)
	assert.Equal(t, uint64(0), dev.BufferWrites[0].Offset)
	assert.Equal(t, common.SliceToBytes(want[:]), dev.BufferWrites[0].Data)

	cam.Resize(200, 100)
	assert.InDelta(t, 2, cam.Projection().Aspect, 1e-6)
	assert.Equal(t, cam.ProjectionMatrix().Mul(tr.Matrix()), cam.Uniform().Mat4())
}

func TestSharedBindLayout(t *testing.T) {
	dev := gputest.New()
	layout, err := NewBindLayout(dev)
	require.NoError(t, err)

	a, err := NewCamera(dev, WithBindLayout(layout))
	require.NoError(t, err)
	b, err := NewCamera(dev, WithBindLayout(layout), WithLabel("minimap"))
	require.NoError(t, err)

	assert.Len(t, dev.BindGroupLayouts, 1)
	assert.Same(t, layout, a.Layout())
	assert.Same(t, layout, b.Layout())
	assert.Equal(t, "minimap-uniform", dev.Buffers[1].Label)

	a.Release()
	assert.True(t, dev.Buffers[0].Released)
	assert.False(t, dev.BindGroupLayouts[0].Released)
}

func TestNewCameraDeviceError(t *testing.T) {
	dev := gputest.New()
	boom := errors.New("boom")
	dev.FailNext(boom)

	_, err := NewCamera(dev)
	assert.ErrorIs(t, err, boom)
}

func TestControllerDrivesCamera(t *testing.T) {
	dev := gputest.New()
	ctrl := NewGroundedController(WithPosition(0, 0, -3), WithPitch(10))
	assert.Equal(t, MaxPitch, ctrl.Pitch())

	cam, err := NewCamera(dev, WithController(ctrl))
	require.NoError(t, err)
	assert.Equal(t, common.Vec3{0, 0, -3}, cam.Transform().Position)

	ctrl.SetPitch(0)
	ctrl.AddYaw(math32.Pi / 2)
	ctrl.Translate(1, 0, 0)
	cam.Update()

	tr := cam.Transform()
	assert.Equal(t, common.Vec3{1, 0, -3}, tr.Position)
	x := project(tr.Rotation.Mat4(), common.Vec3{1, 0, 0})
	assert.InDelta(t, 0, x[0], 1e-5)
	assert.InDelta(t, -1, x[2], 1e-5)

	cam.SetController(nil)
	ctrl.Translate(5, 0, 0)
	cam.Update()
	assert.Equal(t, common.Vec3{1, 0, -3}, cam.Transform().Position)
}

func TestUniformSourceRegistered(t *testing.T) {
	src, err := shader.Parse("flat", "//@oxy:group 0 0 uniform camera camera\n@vertex\nfn vs() {}")
	require.NoError(t, err)
	assert.Contains(t, src.Code(), "struct CameraUniform")
	assert.Contains(t, src.Code(), "var<uniform> camera: CameraUniform;")
}
