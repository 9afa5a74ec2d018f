package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options that are applied directly to the app instance.
type AppBuilderOption func(*app)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = enabled
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithFrameLimit(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			a.frameLimit = 0
			return
		}
		a.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets a window for the app to use rather than creating one in Run.
// The caller keeps ownership and closes it.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWindow(w window.Window) AppBuilderOption {
	return func(a *app) {
		a.window = w
	}
}

// WithWindowOptions sets the options of the window created in Run.
func WithWindowOptions(options ...window.WindowBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.windowOptions = append(a.windowOptions, options...)
	}
}

// WithRenderContext sets the render context rather than requesting one in Run.
// The caller keeps ownership and releases it.
func WithRenderContext(ctx *gpu.RenderContext) AppBuilderOption {
	return func(a *app) {
		a.ctx = ctx
	}
}

// WithRenderContextOptions sets the options of the render context requested in Run.
// The surface descriptor of the window is always added.
func WithRenderContextOptions(options ...gpu.RenderContextBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.contextOptions = append(a.contextOptions, options...)
	}
}

// WithSurface sets the surface rather than wrapping the render context's one in Run.
func WithSurface(s window.Surface) AppBuilderOption {
	return func(a *app) {
		a.surface = s
	}
}

// WithPresentMode sets the present mode of the surface created in Run.
func WithPresentMode(mode window.PresentMode) AppBuilderOption {
	return func(a *app) {
		a.presentMode = mode
	}
}

// WithClearColor sets the default clear color of frame encoders.
func WithClearColor(color wgpu.Color) AppBuilderOption {
	return func(a *app) {
		a.clear = color
	}
}

// WithWorkers sets the worker count of the Prepare pool. Values <= 0 keep the default of 4.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWorkers(n int) AppBuilderOption {
	return func(a *app) {
		if n > 0 {
			a.workers = n
		}
	}
}
