package engine

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-bind/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs for a fixed number of polls.
type fakeWindow struct {
	frames   int
	polls    int
	width    int
	height   int
	closed   bool
	onResize func(int, int)
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32)) {}
func (w *fakeWindow) SetKeyCallback(func(keyCode uint32, down bool)) {}
func (w *fakeWindow) SetMouseButtonCallback(func(button int, down bool, x, y int32)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.polls < w.frames }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) PollEvents() bool {
	running := w.IsRunning()
	w.polls++
	return running
}

type fakeSurface struct {
	dev       *gputest.Device
	width     uint32
	height    uint32
	presented int
	lost      int
}

func (s *fakeSurface) Configure(width, height uint32) error {
	s.width, s.height = width, height
	return nil
}

func (s *fakeSurface) Acquire() (*window.Frame, error) {
	if s.lost > 0 {
		s.lost--
		return nil, gpu.ErrSurfaceLost
	}
	tex, err := s.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "surface",
		Size:  wgpu.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView()
	if err != nil {
		return nil, err
	}
	return &window.Frame{Texture: tex, View: view}, nil
}

func (s *fakeSurface) Present() { s.presented++ }

func (s *fakeSurface) Format() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8UnormSrgb }

// countingPool counts Stop calls on the wrapped pool.
type countingPool struct {
	worker.DynamicWorkerPool
	stops int
}

func (p *countingPool) Stop() {
	p.stops++
	p.DynamicWorkerPool.Stop()
}

func newTestApp(frames int, options ...AppBuilderOption) (App, *fakeWindow, *fakeSurface, *gputest.Device) {
	ctx, dev := gputest.NewContext()
	w := &fakeWindow{frames: frames, width: 640, height: 480}
	s := &fakeSurface{dev: dev}
	opts := append([]AppBuilderOption{WithWindow(w), WithRenderContext(ctx), WithSurface(s)}, options...)
	return NewApp(opts...), w, s, dev
}

func TestRunDrivesCallbacks(t *testing.T) {
	a, w, s, dev := newTestApp(3, WithProfiling(true))

	var events []string
	a.SetStartCallback(func(app App) error {
		assert.NotNil(t, app.Target())
		assert.NotNil(t, app.Device())
		events = append(events, "start")
		return nil
	})
	a.SetUpdateCallback(func(float32) { events = append(events, "update") })
	a.SetRenderCallback(func(enc *window.WindowCommandEncoder, _ float32) error {
		events = append(events, "render")
		enc.RenderPass(nil, true)
		return nil
	})
	a.SetCloseCallback(func() { events = append(events, "close") })

	require.NoError(t, a.Run())
	assert.Equal(t, []string{
		"start",
		"update", "render",
		"update", "render",
		"update", "render",
		"close",
	}, events)
	assert.Equal(t, 3, s.presented)
	assert.Equal(t, 3, dev.Submitted)
	assert.Equal(t, uint32(640), s.width)
	assert.False(t, w.closed)
}

func TestRenderCallbackMayPresent(t *testing.T) {
	a, _, s, _ := newTestApp(2)
	a.SetRenderCallback(func(enc *window.WindowCommandEncoder, _ float32) error {
		return enc.Present()
	})
	require.NoError(t, a.Run())
	assert.Equal(t, 2, s.presented)
}

func TestResizeForwarded(t *testing.T) {
	a, w, s, dev := newTestApp(1)
	var got [2]int
	a.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	a.SetUpdateCallback(func(float32) {
		w.onResize(1024, 768)
		w.onResize(0, 0)
	})
	require.NoError(t, a.Run())

	assert.Equal(t, [2]int{1024, 768}, got)
	assert.Equal(t, uint32(1024), s.width)
	width, height := a.Target().Size()
	assert.Equal(t, uint32(1024), width)
	assert.Equal(t, uint32(768), height)
	assert.True(t, dev.Textures[0].Released)
}

func TestSurfaceLostSkipsFrame(t *testing.T) {
	a, _, s, _ := newTestApp(3)
	s.lost = 1
	renders := 0
	a.SetRenderCallback(func(*window.WindowCommandEncoder, float32) error {
		renders++
		return nil
	})
	require.NoError(t, a.Run())
	assert.Equal(t, 2, renders)
	assert.Equal(t, 2, s.presented)
}

func TestStartErrorAborts(t *testing.T) {
	a, _, _, _ := newTestApp(3)
	boom := errors.New("boom")
	closed := false
	a.SetStartCallback(func(App) error { return boom })
	a.SetUpdateCallback(func(float32) { t.Fatal("update after failed start") })
	a.SetCloseCallback(func() { closed = true })

	err := a.Run()
	assert.ErrorIs(t, err, boom)
	assert.True(t, closed)
}

func TestRenderErrorStopsLoop(t *testing.T) {
	a, _, s, _ := newTestApp(3)
	boom := errors.New("boom")
	renders := 0
	a.SetRenderCallback(func(*window.WindowCommandEncoder, float32) error {
		renders++
		return boom
	})
	assert.ErrorIs(t, a.Run(), boom)
	assert.Equal(t, 1, renders)
	assert.Zero(t, s.presented)
}

func TestQuit(t *testing.T) {
	a, _, s, _ := newTestApp(100)
	updates := 0
	a.SetUpdateCallback(func(float32) {
		updates++
		if updates == 2 {
			a.Quit()
		}
	})
	require.NoError(t, a.Run())
	assert.Equal(t, 2, updates)
	assert.Equal(t, 2, s.presented)
}

func TestPrepare(t *testing.T) {
	a := NewApp(WithWorkers(2))
	var n atomic.Int32
	tasks := make([]func() error, 10)
	for i := range tasks {
		tasks[i] = func() error {
			n.Add(1)
			return nil
		}
	}
	require.NoError(t, a.Prepare(tasks...))
	assert.Equal(t, int32(10), n.Load())

	boom := errors.New("boom")
	err := a.Prepare(func() error { return boom }, func() error { return nil })
	assert.ErrorIs(t, err, boom)
}

func TestSetFrameLimit(t *testing.T) {
	a := NewApp(WithFrameLimit(60)).(*app)
	assert.Equal(t, int64(16666666), a.frameLimit.Nanoseconds())
	a.SetFrameLimit(0)
	assert.Zero(t, a.frameLimit)
}

func TestRunStopsWorkerPool(t *testing.T) {
	a, _, _, _ := newTestApp(2)
	pool := &countingPool{DynamicWorkerPool: a.(*app).pool}
	a.(*app).pool = pool
	require.NoError(t, a.Prepare(func() error { return nil }))

	require.NoError(t, a.Run())
	assert.Equal(t, 1, pool.stops)

	a.(*app).shutdown()
	assert.Equal(t, 1, pool.stops)
}

func TestFailedStartStopsWorkerPool(t *testing.T) {
	a, _, _, _ := newTestApp(2)
	pool := &countingPool{DynamicWorkerPool: a.(*app).pool}
	a.(*app).pool = pool
	a.SetStartCallback(func(App) error { return errors.New("boom") })

	require.Error(t, a.Run())
	assert.Equal(t, 1, pool.stops)
}
