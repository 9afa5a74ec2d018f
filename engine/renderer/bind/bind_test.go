package bind_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferOf(t *testing.T, dev *gputest.Device, size uint64, usage wgpu.BufferUsage) gpu.Buffer {
	t.Helper()
	buf, err := dev.CreateBuffer(&wgpu.BufferDescriptor{Label: "test", Size: size, Usage: usage})
	require.NoError(t, err)
	return buf
}

// swappableView stands in for a texture wrapper whose view is recreated on resize.
type swappableView struct {
	tex  gpu.Texture
	view gpu.TextureView
}

func (s *swappableView) View() gpu.TextureView { return s.view }

// reportingView is a texture wrapper that also reports its usage flags.
type reportingView struct {
	swappableView
	usage wgpu.TextureUsage
}

func (r *reportingView) Usage() wgpu.TextureUsage { return r.usage }

func (s *swappableView) recreate(t *testing.T) {
	t.Helper()
	v, err := s.tex.CreateView()
	require.NoError(t, err)
	s.view = v
}

func TestSchemaDescriptorKeepsDeclaredOrder(t *testing.T) {
	schema := bind.NewSchema(
		bind.DynamicStorageEntry("lights", 3, wgpu.ShaderStageFragment),
		bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex),
		bind.Texture2DEntry("albedo", 1, wgpu.ShaderStageFragment),
		bind.FilteringSamplerEntry("albedo_sampler", 2, wgpu.ShaderStageFragment),
	)

	desc := schema.Descriptor("scene")
	require.Len(t, desc.Entries, 4)
	assert.Equal(t, "scene", desc.Label)

	assert.Equal(t, uint32(3), desc.Entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, desc.Entries[0].Buffer.Type)
	assert.True(t, desc.Entries[0].Buffer.HasDynamicOffset)

	assert.Equal(t, uint32(0), desc.Entries[1].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[1].Buffer.Type)
	assert.False(t, desc.Entries[1].Buffer.HasDynamicOffset)
	assert.Equal(t, wgpu.ShaderStageVertex, desc.Entries[1].Visibility)

	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[2].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[2].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[3].Sampler.Type)

	assert.Equal(t, desc, schema.Descriptor("scene"))
}

func TestSchemaRejectsDuplicates(t *testing.T) {
	assert.PanicsWithValue(t, `bind: duplicate binding slot 0 ("a" and "b")`, func() {
		bind.NewSchema(
			bind.UniformEntry("a", 0, wgpu.ShaderStageVertex),
			bind.StorageEntry("b", 0, wgpu.ShaderStageVertex),
		)
	})
	assert.PanicsWithValue(t, `bind: duplicate binding name "a"`, func() {
		bind.NewSchema(
			bind.UniformEntry("a", 0, wgpu.ShaderStageVertex),
			bind.UniformEntry("a", 1, wgpu.ShaderStageVertex),
		)
	})
	assert.Panics(t, func() {
		bind.NewSchema(bind.UniformEntry("", 0, wgpu.ShaderStageVertex))
	})
}

func TestNewIssuesOneCreationPerCall(t *testing.T) {
	dev := gputest.New()
	schema := bind.NewSchema(bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex))

	layout, err := bind.NewLayout(dev, schema, bind.WithLayoutLabel("camera"))
	require.NoError(t, err)
	require.Len(t, dev.BindGroupLayouts, 1)
	assert.Equal(t, "camera", dev.BindGroupLayouts[0].Desc.Label)

	buf := bufferOf(t, dev, 64, wgpu.BufferUsageUniform)
	b, err := bind.New(dev, layout, bind.Buffer(buf))
	require.NoError(t, err)
	require.Len(t, dev.BindGroups, 1)
	assert.Len(t, dev.BindGroupLayouts, 1)

	entries := dev.BindGroups[0].Desc.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Same(t, buf, entries[0].Buffer)
	assert.Equal(t, uint64(wgpu.WholeSize), entries[0].Size)
	assert.Same(t, buf, b.Buffer("camera"))
	assert.Same(t, layout, b.Layout())
}

func TestNewRejectsMismatchedResources(t *testing.T) {
	dev := gputest.New()
	schema := bind.NewSchema(
		bind.Texture2DEntry("color", 0, wgpu.ShaderStageFragment),
		bind.FilteringSamplerEntry("color_sampler", 1, wgpu.ShaderStageFragment),
	)
	layout, err := bind.NewLayout(dev, schema, bind.WithLayoutLabel("post"))
	require.NoError(t, err)

	buf := bufferOf(t, dev, 16, wgpu.BufferUsageUniform)

	assert.PanicsWithValue(t, `bind: expected 2 resources for layout "post", got 1`, func() {
		_, _ = bind.New(dev, layout, bind.Buffer(buf))
	})
	assert.PanicsWithValue(t, `bind: slot 0 ("color") expects texture view resource, got buffer`, func() {
		_, _ = bind.New(dev, layout, bind.Buffer(buf), bind.Buffer(buf))
	})
	assert.Empty(t, dev.BindGroups)
}

func TestNewRejectsBuffersWithoutKindUsage(t *testing.T) {
	dev := gputest.New()
	uniform, err := bind.NewLayout(dev, bind.NewSchema(bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex)), bind.WithLayoutLabel("camera"))
	require.NoError(t, err)
	storage, err := bind.NewLayout(dev, bind.NewSchema(
		bind.StorageEntry("particles", 0, wgpu.ShaderStageCompute),
		bind.ReadOnlyStorageEntry("forces", 1, wgpu.ShaderStageCompute),
		bind.DynamicStorageEntry("lights", 2, wgpu.ShaderStageCompute),
	), bind.WithLayoutLabel("sim"))
	require.NoError(t, err)

	particles, err := buffer.NewStorage[float32](dev, 16)
	require.NoError(t, err)
	camera, err := buffer.NewUniform[[16]float32](dev)
	require.NoError(t, err)

	assert.PanicsWithValue(t, `bind: slot 0 ("camera") expects uniform resource, got buffer without uniform usage`, func() {
		_, _ = bind.New(dev, uniform, bind.FromBuffer(particles))
	})
	assert.PanicsWithValue(t, `bind: slot 0 ("particles") expects storage resource, got buffer without storage usage`, func() {
		_, _ = bind.New(dev, storage, bind.FromBuffer(camera), bind.FromBuffer(particles), bind.FromBuffer(particles))
	})
	assert.PanicsWithValue(t, `bind: slot 1 ("forces") expects read-only storage resource, got buffer without storage usage`, func() {
		_, _ = bind.New(dev, storage, bind.FromBuffer(particles), bind.FromBuffer(camera), bind.FromBuffer(particles))
	})
	assert.PanicsWithValue(t, `bind: slot 2 ("lights") expects dynamic storage resource, got buffer without storage usage`, func() {
		_, _ = bind.New(dev, storage, bind.FromBuffer(particles), bind.FromBuffer(particles), bind.FromBuffer(camera))
	})
	assert.Empty(t, dev.BindGroups)

	_, err = bind.New(dev, uniform, bind.FromBuffer(camera))
	require.NoError(t, err)
	_, err = bind.New(dev, storage, bind.FromBuffer(particles), bind.FromBuffer(particles), bind.FromBuffer(particles))
	require.NoError(t, err)
	assert.Len(t, dev.BindGroups, 2)
}

func TestNewRejectsTexturesWithoutKindUsage(t *testing.T) {
	dev := gputest.New()
	sampled, err := bind.NewLayout(dev, bind.NewSchema(bind.Texture2DEntry("color", 0, wgpu.ShaderStageFragment)))
	require.NoError(t, err)
	written, err := bind.NewLayout(dev, bind.NewSchema(bind.StorageTextureEntry("out", 0, wgpu.ShaderStageCompute,
		wgpu.TextureFormatRGBA8Unorm, wgpu.StorageTextureAccessWriteOnly, wgpu.TextureViewDimension2D)))
	require.NoError(t, err)

	tex, err := dev.CreateTexture(&wgpu.TextureDescriptor{Label: "target", Size: wgpu.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	require.NoError(t, err)
	sampledOnly := &reportingView{swappableView: swappableView{tex: tex}, usage: wgpu.TextureUsageTextureBinding}
	sampledOnly.recreate(t)
	storageOnly := &reportingView{swappableView: swappableView{tex: tex}, usage: wgpu.TextureUsageStorageBinding}
	storageOnly.recreate(t)

	assert.PanicsWithValue(t, `bind: slot 0 ("out") expects storage texture resource, got texture without storage binding usage`, func() {
		_, _ = bind.New(dev, written, bind.FromTextureView(sampledOnly))
	})
	assert.PanicsWithValue(t, `bind: slot 0 ("color") expects texture resource, got texture without texture binding usage`, func() {
		_, _ = bind.New(dev, sampled, bind.FromTextureView(storageOnly))
	})

	_, err = bind.New(dev, written, bind.FromTextureView(storageOnly))
	require.NoError(t, err)
	_, err = bind.New(dev, sampled, bind.FromTextureView(sampledOnly))
	require.NoError(t, err)
	assert.Len(t, dev.BindGroups, 2)
}

func TestRefreshIsIdempotent(t *testing.T) {
	dev := gputest.New()
	schema := bind.NewSchema(
		bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex),
		bind.StorageEntry("models", 1, wgpu.ShaderStageVertex),
	)
	layout, err := bind.NewLayout(dev, schema)
	require.NoError(t, err)

	camera := bufferOf(t, dev, 64, wgpu.BufferUsageUniform)
	models := bufferOf(t, dev, 256, wgpu.BufferUsageStorage)
	b, err := bind.New(dev, layout, bind.Buffer(camera), bind.BufferRange(models, 64, 128))
	require.NoError(t, err)

	first := b.BindGroup()
	require.NoError(t, b.Refresh(dev))
	require.Len(t, dev.BindGroups, 2)

	assert.NotSame(t, first, b.BindGroup())
	assert.True(t, dev.BindGroups[0].Released)
	assert.Equal(t, dev.BindGroups[0].Desc.Entries, dev.BindGroups[1].Desc.Entries)
	assert.Same(t, dev.BindGroups[0].Desc.Layout, dev.BindGroups[1].Desc.Layout)
}

func TestRefreshPicksUpRecreatedView(t *testing.T) {
	dev := gputest.New()
	schema := bind.NewSchema(
		bind.Texture2DEntry("color", 0, wgpu.ShaderStageFragment),
		bind.FilteringSamplerEntry("color_sampler", 1, wgpu.ShaderStageFragment),
	)
	layout, err := bind.NewLayout(dev, schema)
	require.NoError(t, err)

	tex, err := dev.CreateTexture(&wgpu.TextureDescriptor{Label: "target", Size: wgpu.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	require.NoError(t, err)
	sampler, err := dev.CreateSampler(&wgpu.SamplerDescriptor{Label: "linear"})
	require.NoError(t, err)

	target := &swappableView{tex: tex}
	target.recreate(t)
	oldView := target.View()

	b, err := bind.New(dev, layout, bind.FromTextureView(target), bind.Sampler(sampler))
	require.NoError(t, err)

	target.recreate(t)
	require.NoError(t, b.Refresh(dev))

	require.Len(t, dev.BindGroups, 2)
	assert.Len(t, dev.BindGroupLayouts, 1)
	assert.Same(t, layout, b.Layout())
	assert.Same(t, oldView, dev.BindGroups[0].Desc.Entries[0].TextureView)
	assert.Same(t, target.View(), dev.BindGroups[1].Desc.Entries[0].TextureView)
	assert.NotSame(t, oldView, b.TextureView("color"))
	assert.Same(t, sampler, dev.BindGroups[1].Desc.Entries[1].Sampler)
}

func TestSetChecksKindAndWaitsForRefresh(t *testing.T) {
	dev := gputest.New()
	layout, err := bind.NewLayout(dev, bind.NewSchema(bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex)))
	require.NoError(t, err)

	a := bufferOf(t, dev, 64, wgpu.BufferUsageUniform)
	b := bufferOf(t, dev, 64, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	bg, err := bind.New(dev, layout, bind.Buffer(a))
	require.NoError(t, err)

	bg.Set("camera", bind.Buffer(b))
	assert.Same(t, b, bg.Buffer("camera"))
	assert.Len(t, dev.BindGroups, 1)

	assert.Panics(t, func() { bg.Set("camera", bind.TextureView(nil)) })
	assert.Panics(t, func() { bg.Set("camera", bind.Buffer(bufferOf(t, dev, 64, wgpu.BufferUsageStorage))) })
	assert.Panics(t, func() { bg.Set("missing", bind.Buffer(b)) })
	assert.Panics(t, func() { bg.Sampler("camera") })
}

func TestDeviceErrorsAreWrapped(t *testing.T) {
	dev := gputest.New()
	boom := errors.New("out of memory")

	dev.FailNext(boom)
	_, err := bind.NewLayout(dev, bind.NewSchema(bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex)), bind.WithLayoutLabel("camera"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"camera"`)
}

func TestOffsetsCoverDynamicEntries(t *testing.T) {
	dev := gputest.New()
	layout, err := bind.NewLayout(dev, bind.NewSchema(
		bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex),
		bind.DynamicStorageEntry("lights", 1, wgpu.ShaderStageFragment),
	), bind.WithLayoutLabel("lit"))
	require.NoError(t, err)

	b, err := bind.New(dev, layout, bind.Buffer(bufferOf(t, dev, 64, wgpu.BufferUsageUniform)), bind.Buffer(bufferOf(t, dev, 1024, wgpu.BufferUsageStorage)))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, b.Offsets())

	b.SetOffsets(256)
	assert.Equal(t, []uint32{256}, b.Offsets())
	assert.PanicsWithValue(t, `bind: layout "lit" has 1 dynamic entries, got 2 offsets`, func() { b.SetOffsets(0, 256) })

	b.SetOffset("lights", 512)
	assert.Equal(t, []uint32{512}, b.Offsets())
	assert.PanicsWithValue(t, `bind: layout "lit" has no dynamic binding named "camera"`, func() { b.SetOffset("camera", 0) })
}

func TestOffsetsFollowSlotOrder(t *testing.T) {
	dev := gputest.New()
	layout, err := bind.NewLayout(dev, bind.NewSchema(
		bind.DynamicStorageEntry("shadows", 3, wgpu.ShaderStageFragment),
		bind.UniformEntry("camera", 0, wgpu.ShaderStageVertex),
		bind.DynamicStorageEntry("lights", 1, wgpu.ShaderStageFragment),
	), bind.WithLayoutLabel("lit"))
	require.NoError(t, err)

	b, err := bind.New(dev, layout,
		bind.Buffer(bufferOf(t, dev, 1024, wgpu.BufferUsageStorage)),
		bind.Buffer(bufferOf(t, dev, 64, wgpu.BufferUsageUniform)),
		bind.Buffer(bufferOf(t, dev, 1024, wgpu.BufferUsageStorage)),
	)
	require.NoError(t, err)

	b.SetOffset("shadows", 768)
	b.SetOffset("lights", 256)
	assert.Equal(t, []uint32{256, 768}, b.Offsets())

	b.SetOffsets(0, 512)
	assert.Equal(t, []uint32{0, 512}, b.Offsets())
}
