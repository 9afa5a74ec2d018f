package gpu

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoAdapter is returned when no adapter satisfies the requested options.
var ErrNoAdapter = errors.New("gpu: no compatible adapter found")

// ErrSurfaceLost is returned when the presentation surface can no longer produce textures.
var ErrSurfaceLost = errors.New("gpu: surface lost")

// RenderContext owns the device and queue every other package records against.
// It is immutable after construction and may be shared by pointer between goroutines;
// only command encoding is single-threaded.
type RenderContext struct {
	device Device

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	raw      *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
}

// renderContextConfig collects options applied by RenderContextBuilderOption.
type renderContextConfig struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	maxBindGroups        uint32
	label                string
}

// NewRenderContext acquires an adapter, device and queue. Acquisition failure is not
// recoverable and panics, matching how a missing GPU is surfaced at startup.
//
// Parameters:
//   - options: functional options (surface, fallback adapter, limits)
//
// Returns:
//   - *RenderContext: the ready context
func NewRenderContext(options ...RenderContextBuilderOption) *RenderContext {
	ctx, err := RequestRenderContext(options...)
	if err != nil {
		common.Logger().Error("device acquisition failed", "err", err)
		panic(fmt.Sprintf("gpu: %v", err))
	}
	return ctx
}

// RequestRenderContext is NewRenderContext without the panic.
//
// Parameters:
//   - options: functional options (surface, fallback adapter, limits)
//
// Returns:
//   - *RenderContext: the ready context
//   - error: ErrNoAdapter or the device request error
func RequestRenderContext(options ...RenderContextBuilderOption) (*RenderContext, error) {
	cfg := &renderContextConfig{label: "oxy-bind device"}
	for _, opt := range options {
		opt(cfg)
	}

	runtime.LockOSThread()

	ctx := &RenderContext{instance: wgpu.CreateInstance(nil)}
	if cfg.surfaceDescriptor != nil {
		ctx.surface = ctx.instance.CreateSurface(cfg.surfaceDescriptor)
	}

	adapter, err := ctx.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    ctx.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if adapter == nil {
		return nil, ErrNoAdapter
	}
	ctx.adapter = adapter

	limits := wgpu.DefaultLimits()
	if cfg.maxBindGroups > 0 {
		limits.MaxBindGroups = cfg.maxBindGroups
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          cfg.label,
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	ctx.raw = device
	ctx.queue = device.GetQueue()
	ctx.device = WrapDevice(device, ctx.queue)

	common.Logger().Info("render context ready", "label", cfg.label, "surface", ctx.surface != nil)
	return ctx, nil
}

// NewContextFromDevice wraps an existing Device. Raw accessors return nil on such a context.
// Tests use it with the recording device from gputest.
//
// Parameters:
//   - device: the device to record against
//
// Returns:
//   - *RenderContext: a context exposing only Device and Queue
func NewContextFromDevice(device Device) *RenderContext {
	return &RenderContext{device: device}
}

// Device returns the device collaborator.
func (c *RenderContext) Device() Device {
	return c.device
}

// Queue returns the submission queue.
func (c *RenderContext) Queue() Queue {
	return c.device.Queue()
}

// Instance returns the raw wgpu instance. The caller becomes responsible for keeping
// anything it creates consistent with the wrapped device.
func (c *RenderContext) Instance() *wgpu.Instance {
	return c.instance
}

// Adapter returns the raw wgpu adapter.
func (c *RenderContext) Adapter() *wgpu.Adapter {
	return c.adapter
}

// RawDevice returns the raw wgpu device, bypassing the Device wrapper.
func (c *RenderContext) RawDevice() *wgpu.Device {
	return c.raw
}

// Surface returns the presentation surface created from WithSurfaceDescriptor, or nil.
func (c *RenderContext) Surface() *wgpu.Surface {
	return c.surface
}

// Release frees the device, adapter, surface and instance, in that order.
func (c *RenderContext) Release() {
	if c.raw != nil {
		c.raw.Release()
	}
	if c.adapter != nil {
		c.adapter.Release()
	}
	if c.surface != nil {
		c.surface.Release()
	}
	if c.instance != nil {
		c.instance.Release()
	}
}
