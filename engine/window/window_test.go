package window

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface hands out textures allocated on the recording device.
type fakeSurface struct {
	dev        *gputest.Device
	width      uint32
	height     uint32
	configured int
	presented  int
	lost       bool
}

func (s *fakeSurface) Configure(width, height uint32) error {
	s.width, s.height = width, height
	s.configured++
	return nil
}

func (s *fakeSurface) Acquire() (*Frame, error) {
	if s.lost {
		return nil, gpu.ErrSurfaceLost
	}
	tex, err := s.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:  "surface",
		Size:   wgpu.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
		Format: s.Format(),
		Usage:  wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView()
	if err != nil {
		return nil, err
	}
	return &Frame{Texture: tex, View: view}, nil
}

func (s *fakeSurface) Present() { s.presented++ }

func (s *fakeSurface) Format() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8UnormSrgb }

func newTarget(t *testing.T) (*Target, *fakeSurface, *gputest.Device) {
	t.Helper()
	dev := gputest.New()
	surface := &fakeSurface{dev: dev}
	target, err := NewTarget(dev, surface, WithSize(800, 600), WithClearColor(wgpu.Color{R: 0.1, A: 1}))
	require.NoError(t, err)
	return target, surface, dev
}

func TestNewTargetConfiguresSurfaceAndDepth(t *testing.T) {
	target, surface, dev := newTarget(t)

	assert.Equal(t, 1, surface.configured)
	w, h := target.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, target.Format())

	require.Len(t, dev.Textures, 1)
	assert.Equal(t, texture.DepthFormat, dev.Textures[0].Desc.Format)
	assert.Equal(t, uint32(800), dev.Textures[0].Desc.Size.Width)
}

func TestResizeRecreatesDepth(t *testing.T) {
	target, surface, dev := newTarget(t)

	require.NoError(t, target.Resize(1024, 768))
	assert.Equal(t, 2, surface.configured)
	assert.Equal(t, uint32(1024), surface.width)
	require.Len(t, dev.Textures, 2)
	assert.True(t, dev.Textures[0].Released)
	assert.Equal(t, uint32(768), dev.Textures[1].Desc.Size.Height)

	require.NoError(t, target.Resize(0, 768))
	assert.Equal(t, 2, surface.configured)
	w, _ := target.Size()
	assert.Equal(t, uint32(1024), w)
}

func TestFrameRenderPassUsesClearAndDepth(t *testing.T) {
	target, surface, dev := newTarget(t)

	enc, err := target.CommandEncoder()
	require.NoError(t, err)
	enc.RenderPass(nil, true)
	enc.SetClear(wgpu.Color{G: 1, A: 1})
	enc.SetDepthOps(wgpu.LoadOpLoad, wgpu.StoreOpDiscard, 0)
	enc.RenderPass(session.LoadExisting(), true)
	enc.RenderPass(nil, false)
	require.NoError(t, enc.Present())

	require.Len(t, dev.RenderPasses, 3)
	first := dev.RenderPasses[0]
	assert.Equal(t, wgpu.LoadOpClear, first.ColorAttachments[0].LoadOp)
	assert.Equal(t, wgpu.Color{R: 0.1, A: 1}, first.ColorAttachments[0].ClearValue)
	assert.Same(t, enc.Frame().View, first.ColorAttachments[0].View)
	require.NotNil(t, first.DepthAttachment)
	assert.Equal(t, wgpu.LoadOpClear, first.DepthAttachment.DepthLoadOp)
	assert.Equal(t, float32(1), first.DepthAttachment.DepthClearValue)
	assert.Same(t, target.Depth().View(), first.DepthAttachment.View)

	second := dev.RenderPasses[1]
	assert.Equal(t, wgpu.LoadOpLoad, second.ColorAttachments[0].LoadOp)
	assert.Equal(t, wgpu.LoadOpLoad, second.DepthAttachment.DepthLoadOp)
	assert.Equal(t, wgpu.StoreOpDiscard, second.DepthAttachment.DepthStoreOp)

	third := dev.RenderPasses[2]
	assert.Equal(t, wgpu.Color{G: 1, A: 1}, third.ColorAttachments[0].ClearValue)
	assert.Nil(t, third.DepthAttachment)

	assert.Equal(t, 1, dev.Submitted)
	assert.Equal(t, 1, surface.presented)
	assert.True(t, dev.Textures[1].Released)
}

func TestRenderPassWithOffscreenView(t *testing.T) {
	target, _, dev := newTarget(t)
	off, err := texture.New(dev, wgpu.Extent3D{Width: 800, Height: 600},
		texture.WithLabel("offscreen"),
		texture.WithUsage(wgpu.TextureUsageRenderAttachment))
	require.NoError(t, err)

	enc, err := target.CommandEncoder()
	require.NoError(t, err)
	enc.RenderPassWith(off.View(), nil, true)
	require.NoError(t, enc.Submit())
	require.NoError(t, enc.Present())

	require.Len(t, dev.RenderPasses, 1)
	assert.Same(t, off.View(), dev.RenderPasses[0].ColorAttachments[0].View)
	assert.Equal(t, 1, dev.Submitted)
}

func TestCopyFromOutput(t *testing.T) {
	target, _, dev := newTarget(t)
	dst, err := texture.New(dev, wgpu.Extent3D{Width: 800, Height: 600},
		texture.WithLabel("capture"),
		texture.WithUsage(wgpu.TextureUsageCopyDst))
	require.NoError(t, err)

	enc, err := target.CommandEncoder()
	require.NoError(t, err)
	enc.RenderPass(nil, false)
	enc.CopyFromOutput(dst)
	require.NoError(t, enc.Present())

	assert.Equal(t, []gputest.Op{
		gputest.OpBeginRenderPass,
		gputest.OpEnd,
		gputest.OpCopyTexture,
		gputest.OpFinish,
		gputest.OpSubmit,
	}, dev.Ops())
	copies := dev.CommandsOf(gputest.OpCopyTexture)
	assert.Equal(t, uint32(800), copies[0].X)
	assert.Equal(t, uint32(600), copies[0].Y)
}

func TestPresentTwicePanics(t *testing.T) {
	target, _, _ := newTarget(t)
	enc, err := target.CommandEncoder()
	require.NoError(t, err)
	require.NoError(t, enc.Present())
	assert.PanicsWithValue(t, "window: frame presented twice", func() { _ = enc.Present() })
}

func TestCommandEncoderSurfaceLost(t *testing.T) {
	target, surface, _ := newTarget(t)
	surface.lost = true
	_, err := target.CommandEncoder()
	assert.True(t, errors.Is(err, gpu.ErrSurfaceLost))
}
