package postproc

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindsTextureAndSampler(t *testing.T) {
	dev := gputest.New()
	p, err := New(dev, 320, 240, wgpu.TextureUsageCopySrc)
	require.NoError(t, err)

	require.Len(t, dev.Textures, 1)
	desc := dev.Textures[0].Desc
	assert.Equal(t, "post-proc", desc.Label)
	assert.Equal(t, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopySrc, desc.Usage)
	assert.Equal(t, wgpu.Extent3D{Width: 320, Height: 240, DepthOrArrayLayers: 1}, p.Texture().Size())

	require.Len(t, dev.BindGroupLayouts, 1)
	entries := dev.BindGroupLayouts[0].Desc.Entries
	require.Len(t, entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[1].Visibility)

	require.Len(t, dev.BindGroups, 1)
	group := dev.BindGroups[0].Desc
	assert.Equal(t, p.View(), group.Entries[0].TextureView)
	assert.Equal(t, p.Sampler().Sampler(), group.Entries[1].Sampler)
	assert.Equal(t, "sampler", p.Sampler().Descriptor().Label)
}

func TestResizeRebuildsBind(t *testing.T) {
	dev := gputest.New()
	p, err := New(dev, 4, 4, 0)
	require.NoError(t, err)
	old := p.View()

	require.NoError(t, p.Resize(dev, 8, 2))
	assert.True(t, old.(*gputest.TextureView).Released)
	require.Len(t, dev.BindGroups, 2)
	assert.Equal(t, p.View(), dev.BindGroups[1].Desc.Entries[0].TextureView)
	assert.Equal(t, wgpu.Extent3D{Width: 8, Height: 2, DepthOrArrayLayers: 1}, p.Texture().Size())
}

func TestSharedBindLayout(t *testing.T) {
	dev := gputest.New()
	layout, err := NewBindLayout(dev)
	require.NoError(t, err)

	a, err := New(dev, 2, 2, 0, WithBindLayout(layout), WithLabel("a"))
	require.NoError(t, err)
	h, err := NewHdr(dev, 2, 2, WithBindLayout(layout))
	require.NoError(t, err)

	assert.Len(t, dev.BindGroupLayouts, 1)
	assert.Same(t, layout, a.BindLayout())
	assert.Same(t, layout, h.BindLayout())

	a.Release()
	assert.False(t, dev.BindGroupLayouts[0].Released)
	assert.True(t, dev.Textures[0].Released)
}

func TestHdr(t *testing.T) {
	dev := gputest.New()
	h, err := NewHdr(dev, 16, 9, WithFormat(wgpu.TextureFormatRGBA8Unorm))
	require.NoError(t, err)

	assert.Equal(t, HdrFormat, h.Texture().Format())
	assert.Equal(t, "hdr", dev.Textures[0].Desc.Label)
	require.Len(t, dev.Samplers, 1)
	assert.Equal(t, wgpu.FilterModeNearest, dev.Samplers[0].Desc.MagFilter)
	assert.Equal(t, "hdr-sampler", dev.Samplers[0].Desc.Label)
}

func TestNewDeviceError(t *testing.T) {
	dev := gputest.New()
	boom := errors.New("boom")
	dev.FailNext(boom)

	_, err := New(dev, 4, 4, 0)
	assert.ErrorIs(t, err, boom)
}

func TestScreenQuadPass(t *testing.T) {
	dev := gputest.New()
	target, err := NewHdr(dev, 64, 64)
	require.NoError(t, err)
	layout, err := NewLayout(dev, target.BindLayout())
	require.NoError(t, err)
	module, err := dev.CreateShaderModule(&gpu.ShaderModuleDescriptor{Label: "tonemap"})
	require.NoError(t, err)
	shader, err := CreateShader(dev, layout, module)
	require.NoError(t, err)

	require.Len(t, dev.RenderPipelines, 1)
	assert.Nil(t, dev.RenderPipelines[0].Desc.DepthStencil)
	assert.Empty(t, dev.RenderPipelines[0].Desc.Buffers)
	assert.Equal(t, wgpu.CullModeNone, dev.RenderPipelines[0].Desc.Primitive.CullMode)

	out, err := New(dev, 64, 64, 0)
	require.NoError(t, err)
	enc, err := session.NewCommandEncoder(dev)
	require.NoError(t, err)
	dev.Reset()

	out.RenderPass(enc, nil, nil).
		SetSharedData(layout, target.Bind()).
		ApplyShader(shader).
		DefaultSettings().
		DrawScreenQuad()
	require.NoError(t, enc.Submit())

	require.Len(t, dev.RenderPasses, 1)
	assert.Equal(t, out.View(), dev.RenderPasses[0].ColorAttachments[0].View)
	draws := dev.CommandsOf(gputest.OpDraw)
	require.Len(t, draws, 1)
	assert.Equal(t, "Draw(3, 1, 0, 0)", draws[0].String())
}
