package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Target owns the window surface and the depth texture sized with it, and hands out one
// WindowCommandEncoder per frame.
type Target struct {
	device  gpu.Device
	surface Surface
	depth   *texture.Texture

	label  string
	clear  wgpu.Color
	width  uint32
	height uint32
}

// NewTarget configures surface and allocates a matching depth texture.
//
// Parameters:
//   - device: the device to allocate on
//   - surface: the surface to present to
//   - options: functional options (size, clear color, label)
//
// Returns:
//   - *Target: the target
//   - error: surface or device error, if any
func NewTarget(device gpu.Device, surface Surface, options ...TargetBuilderOption) (*Target, error) {
	t := &Target{
		device:  device,
		surface: surface,
		label:   "frame",
		clear:   wgpu.Color{A: 1},
		width:   1,
		height:  1,
	}
	for _, opt := range options {
		opt(t)
	}
	if err := surface.Configure(t.width, t.height); err != nil {
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}
	depth, err := texture.NewDepthTexture(device, t.width, t.height)
	if err != nil {
		return nil, fmt.Errorf("failed to create depth texture: %w", err)
	}
	t.depth = depth
	return t, nil
}

// Resize reconfigures the surface and recreates the depth texture. A zero dimension,
// as reported for a minimized window, is ignored.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
//
// Returns:
//   - error: surface or device error, if any
func (t *Target) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	t.width, t.height = uint32(width), uint32(height)
	if err := t.surface.Configure(t.width, t.height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}
	if err := t.depth.Resize(t.device, t.width, t.height); err != nil {
		return fmt.Errorf("failed to resize depth texture: %w", err)
	}
	return nil
}

// Size returns the surface size in pixels.
func (t *Target) Size() (uint32, uint32) {
	return t.width, t.height
}

// Format returns the surface texture format.
func (t *Target) Format() wgpu.TextureFormat {
	return t.surface.Format()
}

// Depth returns the depth texture.
func (t *Target) Depth() *texture.Texture {
	return t.depth
}

// SetClearColor sets the default clear color of encoders created afterwards.
func (t *Target) SetClearColor(color wgpu.Color) {
	t.clear = color
}

// CommandEncoder acquires the next surface image and starts recording a frame into it.
//
// Returns:
//   - *WindowCommandEncoder: the frame encoder
//   - error: wraps gpu.ErrSurfaceLost when the surface must be reconfigured
func (t *Target) CommandEncoder() (*WindowCommandEncoder, error) {
	frame, err := t.surface.Acquire()
	if err != nil {
		return nil, err
	}
	enc, err := session.NewCommandEncoder(t.device, session.WithLabel(t.label))
	if err != nil {
		frame.Release()
		return nil, err
	}
	return &WindowCommandEncoder{
		CommandEncoder: enc,
		surface:        t.surface,
		frame:          frame,
		depth:          t.depth,
		clear:          t.clear,
		depthLoad:      wgpu.LoadOpClear,
		depthStore:     wgpu.StoreOpStore,
		depthClear:     1,
	}, nil
}

// Release frees the depth texture. The surface belongs to the render context.
func (t *Target) Release() {
	t.depth.Release()
}
