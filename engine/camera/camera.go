// Package camera provides a perspective camera bound as a single uniform at slot 0,
// visible to the vertex stage.
package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Schema is the binding table of a camera: one uniform at slot 0 for the vertex stage.
func Schema() *bind.Schema {
	return bind.NewSchema(bind.UniformEntry("uniform", 0, wgpu.ShaderStageVertex))
}

// NewBindLayout creates the bind group layout for Schema. Pipelines that take the camera
// as shared data list this layout, and cameras built WithBindLayout bind against it.
func NewBindLayout(device gpu.Device) (*bind.Layout, error) {
	return bind.NewLayout(device, Schema(), bind.WithLayoutLabel("camera"))
}

type cameraImpl struct {
	mu *sync.Mutex

	transform  Transform
	projection Projection
	projMatrix common.Mat4
	uniform    Uniform

	controller CameraController

	label      string
	layout     *bind.Layout
	ownsLayout bool
	buffer     *buffer.Uniform[Uniform]
	bind       *bind.Bind
}

// Camera holds a projection and a transform and keeps the uniform they produce on the GPU.
type Camera interface {
	// Transform returns the current camera transform.
	Transform() Transform

	// SetTransform replaces the transform and recomputes the uniform.
	// The buffer is not written until WriteBuffer.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// Projection returns the current projection settings.
	Projection() Projection

	// SetProjection replaces the projection and recomputes the projection matrix and the uniform.
	//
	// Parameters:
	//   - p: the new projection
	SetProjection(p Projection)

	// Resize updates the projection aspect for a width x height viewport.
	//
	// Parameters:
	//   - width: viewport width
	//   - height: viewport height
	Resize(width, height float32)

	// ProjectionMatrix returns the cached projection matrix.
	//
	// Returns:
	//   - common.Mat4: the depth-corrected perspective matrix
	ProjectionMatrix() common.Mat4

	// Uniform returns the value WriteBuffer uploads.
	//
	// Returns:
	//   - Uniform: projection * transform
	Uniform() Uniform

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// SetController attaches a controller read by Update.
	//
	// Parameters:
	//   - ctrl: the controller, or nil to detach
	SetController(ctrl CameraController)

	// Update copies the controller's transform into the camera. It does nothing without a controller.
	Update()

	// WriteBuffer uploads the uniform.
	//
	// Returns:
	//   - error: queue error, if any
	WriteBuffer() error

	// Bind returns the uniform bind, passed to SetSharedData.
	Bind() *bind.Bind

	// Layout returns the layout Bind was built against.
	Layout() *bind.Layout

	// Release frees the buffer, the bind and the layout if the camera created it.
	Release()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera, its uniform buffer and its bind. The buffer is initialized
// with the uniform of the configured projection and transform.
//
// Parameters:
//   - device: the device to allocate on
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the camera
//   - error: device error, if any
func NewCamera(device gpu.Device, options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		transform:  NewTransform(),
		projection: DefaultProjection(),
		label:      "camera",
	}
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.transform = c.controller.Transform()
	}
	c.updateProjection()

	if c.layout == nil {
		l, err := NewBindLayout(device)
		if err != nil {
			return nil, err
		}
		c.layout, c.ownsLayout = l, true
	}
	buf, err := buffer.NewUniformInit(device, c.uniform, buffer.WithLabel(c.label+"-uniform"))
	if err != nil {
		c.releaseLayout()
		return nil, err
	}
	b, err := bind.New(device, c.layout, bind.FromBuffer(buf))
	if err != nil {
		buf.Release()
		c.releaseLayout()
		return nil, fmt.Errorf("failed to bind camera %q: %w", c.label, err)
	}
	c.buffer, c.bind = buf, b
	return c, nil
}

func (c *cameraImpl) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

func (c *cameraImpl) SetTransform(t Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform = t
	c.updateUniform()
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.updateProjection()
}

func (c *cameraImpl) Resize(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.Resize(width, height)
	c.updateProjection()
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projMatrix
}

func (c *cameraImpl) Uniform() Uniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.transform = c.controller.Transform()
	c.updateUniform()
}

func (c *cameraImpl) WriteBuffer() error {
	c.mu.Lock()
	u := c.uniform
	c.mu.Unlock()
	if err := c.buffer.Write(u); err != nil {
		return fmt.Errorf("failed to write camera %q: %w", c.label, err)
	}
	return nil
}

func (c *cameraImpl) Bind() *bind.Bind {
	return c.bind
}

func (c *cameraImpl) Layout() *bind.Layout {
	return c.layout
}

func (c *cameraImpl) Release() {
	c.bind.Release()
	c.buffer.Release()
	c.releaseLayout()
}

func (c *cameraImpl) releaseLayout() {
	if c.ownsLayout {
		c.layout.Release()
	}
}

// updateProjection recomputes the cached projection matrix and the uniform.
// Caller must hold the mutex, except during construction.
func (c *cameraImpl) updateProjection() {
	c.projMatrix = c.projection.Matrix()
	c.updateUniform()
}

// updateUniform recomputes the uniform from the cached projection matrix and the transform.
func (c *cameraImpl) updateUniform() {
	c.uniform = Uniform{Matrix: c.projMatrix.Mul(c.transform.Matrix()).Rows()}
}
