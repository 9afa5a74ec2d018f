package window

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// Frame is one acquired surface texture and a view of it.
type Frame struct {
	Texture gpu.Texture
	View    gpu.TextureView
}

// Release frees the view and the texture reference.
func (f *Frame) Release() {
	if f.View != nil {
		f.View.Release()
	}
	if f.Texture != nil {
		f.Texture.Release()
	}
}

// Surface is the presentable image chain of a window.
type Surface interface {
	// Configure (re)creates the image chain at width x height.
	//
	// Returns:
	//   - error: error if the surface was never created
	Configure(width, height uint32) error

	// Acquire returns the next image to draw into.
	//
	// Returns:
	//   - *Frame: the acquired frame
	//   - error: wraps gpu.ErrSurfaceLost when no image can be produced
	Acquire() (*Frame, error)

	// Present shows the last acquired image.
	Present()

	// Format returns the texture format of acquired images.
	Format() wgpu.TextureFormat
}

// wgpuSurface presents through a wgpu.Surface created by the render context.
type wgpuSurface struct {
	mu      sync.Mutex
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device

	mode   wgpu.PresentMode
	format wgpu.TextureFormat
	width  uint32
	height uint32
}

var _ Surface = &wgpuSurface{}

// NewSurface wraps the surface held by ctx. The context must have been created with
// gpu.WithSurfaceDescriptor. The surface is configured on the first Configure call.
//
// Parameters:
//   - ctx: the render context owning the surface
//   - mode: the present mode
//
// Returns:
//   - Surface: the surface
//   - error: error if ctx has no surface
func NewSurface(ctx *gpu.RenderContext, mode PresentMode) (Surface, error) {
	if ctx.Surface() == nil {
		return nil, fmt.Errorf("render context has no surface")
	}
	s := &wgpuSurface{
		surface: ctx.Surface(),
		adapter: ctx.Adapter(),
		device:  ctx.RawDevice(),
		mode:    wgpu.PresentModeImmediate,
	}
	if mode == PresentModeVSync {
		s.mode = wgpu.PresentModeFifo
	}
	return s, nil
}

func (s *wgpuSurface) Configure(width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caps := s.surface.GetCapabilities(s.adapter)
	if len(caps.Formats) == 0 {
		return fmt.Errorf("%w: adapter reports no surface formats", gpu.ErrSurfaceLost)
	}
	s.format = caps.Formats[0]
	if slices.Contains(caps.Formats, wgpu.TextureFormatBGRA8UnormSrgb) {
		s.format = wgpu.TextureFormatBGRA8UnormSrgb
	}
	mode := s.mode
	if !slices.Contains(caps.PresentModes, mode) {
		mode = wgpu.PresentModeFifo
	}
	s.width, s.height = max(width, 1), max(height, 1)

	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Format:      s.format,
		Width:       s.width,
		Height:      s.height,
		PresentMode: mode,
		AlphaMode:   caps.AlphaModes[0],
	})
	common.Logger().Debug("surface configured", "width", s.width, "height", s.height, "format", s.format)
	return nil
}

func (s *wgpuSurface) Acquire() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gpu.ErrSurfaceLost, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}
	size := wgpu.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1}
	return &Frame{Texture: gpu.WrapTexture(tex, size), View: gpu.WrapTextureView(view)}, nil
}

func (s *wgpuSurface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Present()
}

func (s *wgpuSurface) Format() wgpu.TextureFormat {
	return s.format
}
