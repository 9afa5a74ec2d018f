// Package engine runs the frame loop: it owns the window, the render context and the
// surface target, and drives user callbacks once per frame.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// App is the main entry point. It creates the window and GPU objects on Run and calls the
// registered callbacks from the goroutine that called Run.
type App interface {
	// Window returns the window, or nil before Run.
	Window() window.Window

	// Context returns the render context, or nil before Run.
	Context() *gpu.RenderContext

	// Device returns the device of the render context, or nil before Run.
	Device() gpu.Device

	// Target returns the surface target, or nil before Run.
	Target() *window.Target

	// EnableProfiler enables frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetStartCallback registers the function called once after the GPU objects exist.
	// An error aborts Run.
	//
	// Parameters:
	//   - callback: function receiving the app
	SetStartCallback(callback func(app App) error)

	// SetUpdateCallback registers the function called at the start of each frame.
	//
	// Parameters:
	//   - callback: function receiving the frame delta in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function that records the frame. The frame is
	// presented after the callback unless the callback presented it.
	//
	// Parameters:
	//   - callback: function receiving the frame encoder and delta in seconds
	SetRenderCallback(callback func(enc *window.WindowCommandEncoder, deltaTime float32) error)

	// SetResizeCallback registers the function called after the target was resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetCloseCallback registers the function called once when the loop exits, before
	// GPU objects are released.
	SetCloseCallback(callback func())

	// SetFrameLimit caps the frame rate. 0 uncaps it.
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetFrameLimit(fps float64)

	// Prepare runs tasks on the worker pool and waits for all of them. The pool is stopped
	// when Run returns, so Prepare is only valid before then.
	//
	// Parameters:
	//   - tasks: the per-frame CPU work
	//
	// Returns:
	//   - error: the joined task errors, if any
	Prepare(tasks ...func() error) error

	// Run creates what was not supplied through options and runs the loop until the window
	// closes or Quit is called. Must be called from the main goroutine.
	//
	// Returns:
	//   - error: setup, start callback or frame error
	Run() error

	// Quit stops the loop after the current frame. Safe to call from any goroutine.
	Quit()
}

// app implements the App interface.
type app struct {
	window  window.Window
	ctx     *gpu.RenderContext
	surface window.Surface
	target  *window.Target

	// Objects the app created and must release.
	ownsWindow  bool
	ownsContext bool

	windowOptions  []window.WindowBuilderOption
	contextOptions []gpu.RenderContextBuilderOption
	presentMode    window.PresentMode
	clear          wgpu.Color

	pool    worker.DynamicWorkerPool
	workers int
	taskID  atomic.Int64

	profiler         *profiler.Profiler
	profilingEnabled bool
	frameLimit       time.Duration

	quit     atomic.Bool
	closeOne sync.Once

	onStart  func(App) error
	onUpdate func(float32)
	onRender func(*window.WindowCommandEncoder, float32) error
	onResize func(int, int)
	onClose  func()
}

var _ App = &app{}

// NewApp creates an App. Nothing touches the platform or the GPU until Run.
//
// Parameters:
//   - options: functional options (window, context, surface, profiling, frame limit)
//
// Returns:
//   - App: the app
func NewApp(options ...AppBuilderOption) App {
	a := &app{
		profiler:    profiler.NewProfiler(),
		workers:     4,
		presentMode: window.PresentModeVSync,
		clear:       wgpu.Color{A: 1},
	}
	for _, opt := range options {
		opt(a)
	}
	a.pool = worker.NewDynamicWorkerPool(a.workers, 256, time.Second)
	return a
}

func (a *app) Window() window.Window { return a.window }

func (a *app) Context() *gpu.RenderContext { return a.ctx }

func (a *app) Device() gpu.Device {
	if a.ctx == nil {
		return nil
	}
	return a.ctx.Device()
}

func (a *app) Target() *window.Target { return a.target }

func (a *app) EnableProfiler() { a.profilingEnabled = true }

func (a *app) DisableProfiler() { a.profilingEnabled = false }

func (a *app) SetStartCallback(callback func(app App) error) { a.onStart = callback }

func (a *app) SetUpdateCallback(callback func(deltaTime float32)) { a.onUpdate = callback }

func (a *app) SetRenderCallback(callback func(enc *window.WindowCommandEncoder, deltaTime float32) error) {
	a.onRender = callback
}

func (a *app) SetResizeCallback(callback func(width, height int)) { a.onResize = callback }

func (a *app) SetCloseCallback(callback func()) { a.onClose = callback }

func (a *app) SetFrameLimit(fps float64) {
	if fps <= 0 {
		a.frameLimit = 0
		return
	}
	a.frameLimit = time.Duration(float64(time.Second) / fps)
}

func (a *app) Quit() { a.quit.Store(true) }

// Prepare fans tasks out on the pool with a WaitGroup as the per-frame barrier.
func (a *app) Prepare(tasks ...func() error) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, task := range tasks {
		wg.Add(1)
		a.pool.SubmitTask(worker.Task{
			ID: int(a.taskID.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				if err := task(); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (a *app) Run() error {
	if err := a.setup(); err != nil {
		a.shutdown()
		return err
	}
	defer a.shutdown()

	if a.onStart != nil {
		if err := a.onStart(a); err != nil {
			return fmt.Errorf("start callback failed: %w", err)
		}
	}

	last := time.Now()
	for !a.quit.Load() && a.window.PollEvents() {
		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		if err := a.frame(dt); err != nil {
			return err
		}

		if a.frameLimit > 0 {
			if remaining := a.frameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

// setup creates the window, render context, surface and target that options did not supply.
func (a *app) setup() error {
	if a.window == nil {
		w, err := window.NewWindow(a.windowOptions...)
		if err != nil {
			return err
		}
		a.window = w
		a.ownsWindow = true
	}
	if a.ctx == nil {
		opts := append([]gpu.RenderContextBuilderOption{
			gpu.WithSurfaceDescriptor(a.window.SurfaceDescriptor()),
		}, a.contextOptions...)
		ctx, err := gpu.RequestRenderContext(opts...)
		if err != nil {
			return err
		}
		a.ctx = ctx
		a.ownsContext = true
	}
	if a.surface == nil {
		s, err := window.NewSurface(a.ctx, a.presentMode)
		if err != nil {
			return err
		}
		a.surface = s
	}
	target, err := window.NewTarget(a.ctx.Device(), a.surface,
		window.WithSize(a.window.Width(), a.window.Height()),
		window.WithClearColor(a.clear),
	)
	if err != nil {
		return err
	}
	a.target = target

	a.window.SetResizeCallback(a.resize)
	common.Logger().Info("app started", "width", a.window.Width(), "height", a.window.Height())
	return nil
}

func (a *app) resize(width, height int) {
	if err := a.target.Resize(width, height); err != nil {
		common.Logger().Error("resize failed", "err", err)
		return
	}
	if width > 0 && height > 0 && a.onResize != nil {
		a.onResize(width, height)
	}
}

// frame runs one update and render. A lost surface is reconfigured and the frame skipped.
func (a *app) frame(dt float32) error {
	if a.onUpdate != nil {
		a.onUpdate(dt)
	}

	enc, err := a.target.CommandEncoder()
	if errors.Is(err, gpu.ErrSurfaceLost) {
		common.Logger().Warn("surface lost, reconfiguring", "err", err)
		return a.target.Resize(a.window.Width(), a.window.Height())
	}
	if err != nil {
		return err
	}

	if a.onRender != nil {
		if err := a.onRender(enc, dt); err != nil {
			if !enc.Presented() {
				enc.Frame().Release()
			}
			return fmt.Errorf("render callback failed: %w", err)
		}
	}
	if !enc.Presented() {
		if err := enc.Present(); err != nil {
			return err
		}
	}

	if a.profilingEnabled {
		a.profiler.Tick()
	}
	return nil
}

// shutdown runs the close callback, stops the worker pool and releases owned objects once.
func (a *app) shutdown() {
	a.closeOne.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
		a.pool.Stop()
		if a.target != nil {
			a.target.Release()
		}
		if a.ownsContext && a.ctx != nil {
			a.ctx.Release()
		}
		if a.ownsWindow && a.window != nil {
			if err := a.window.Close(); err != nil {
				common.Logger().Warn("window close failed", "err", err)
			}
		}
	})
}
