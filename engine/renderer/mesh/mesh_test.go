package mesh

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position [3]float32

type offset struct {
	X, Y float32
}

var (
	positionSchema = vertex.NewSchema("position", wgpu.VertexFormatFloat32x3)
	weightSchema   = vertex.NewSchema("weight", wgpu.VertexFormatFloat32)
	offsetSchema   = vertex.NewSchema("offset", wgpu.VertexFormatFloat32x2)
)

func beginPass(t *testing.T, dev *gputest.Device) gpu.RenderPassEncoder {
	t.Helper()
	enc, err := dev.CreateCommandEncoder("test")
	require.NoError(t, err)
	return enc.BeginRenderPass(&gpu.RenderPassDescriptor{})
}

func TestIndexFormat(t *testing.T) {
	type index16 uint16
	assert.Equal(t, wgpu.IndexFormatUint16, IndexFormat[uint16]())
	assert.Equal(t, wgpu.IndexFormatUint16, IndexFormat[index16]())
	assert.Equal(t, wgpu.IndexFormatUint32, IndexFormat[uint32]())
}

func TestFromDataDraw(t *testing.T) {
	dev := gputest.New()
	m, err := FromData(dev, positionSchema, []position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint16{0, 1, 2}, WithLabel("tri"))
	require.NoError(t, err)

	assert.Equal(t, "tri", m.Label())
	assert.Equal(t, uint32(3), m.IndexCount())
	assert.Equal(t, wgpu.IndexFormatUint16, m.IndexFormat())
	require.Len(t, m.Requirements(), 1)
	assert.Equal(t, uint32(0), m.Requirements()[0].Index)

	require.Len(t, dev.Buffers, 2)
	assert.Len(t, dev.Buffers[0].Data, 36)
	assert.Equal(t, wgpu.BufferUsageVertex, dev.Buffers[0].Usage())
	assert.Len(t, dev.Buffers[1].Data, 6)
	assert.Equal(t, wgpu.BufferUsageIndex, dev.Buffers[1].Usage())

	m.Draw(beginPass(t, dev))
	assert.Equal(t, []gputest.Op{
		gputest.OpBeginRenderPass, gputest.OpSetVertexBuffer, gputest.OpSetIndexBuffer, gputest.OpDrawIndexed,
	}, dev.Ops())

	draw := dev.CommandsOf(gputest.OpDrawIndexed)[0]
	assert.Equal(t, "DrawIndexed(3, 1, 0, 0, 0)", draw.String())
	assert.Equal(t, wgpu.IndexFormatUint16, dev.CommandsOf(gputest.OpSetIndexBuffer)[0].IndexFormat)

	m.Release()
	assert.True(t, dev.Buffers[0].Released)
	assert.True(t, dev.Buffers[1].Released)
}

func TestNewBindsRequirementSlots(t *testing.T) {
	dev := gputest.New()
	layout := vertex.NewLayout(
		vertex.PerVertexPart(positionSchema),
		vertex.PerInstancePart(offsetSchema),
		vertex.PerVertexPart(weightSchema),
	)

	positions, err := NewVertexBuffer(dev, positionSchema, []position{{}, {}, {}})
	require.NoError(t, err)
	weights, err := NewVertexBuffer(dev, weightSchema, []float32{1, 1, 1})
	require.NoError(t, err)

	m, err := New(dev, layout.VertexRequirements(), []*VertexBuffer{positions, weights}, []uint32{0, 1, 2})
	require.NoError(t, err)

	m.DrawInstanced(beginPass(t, dev), 4)
	vbs := dev.CommandsOf(gputest.OpSetVertexBuffer)
	require.Len(t, vbs, 2)
	assert.Equal(t, uint32(0), vbs[0].Index)
	assert.Equal(t, positions.Buffer(), vbs[0].Buffer)
	assert.Equal(t, uint32(2), vbs[1].Index)
	assert.Equal(t, weights.Buffer(), vbs[1].Buffer)
	assert.Equal(t, "DrawIndexed(3, 4, 0, 0, 0)", dev.CommandsOf(gputest.OpDrawIndexed)[0].String())
	assert.Equal(t, wgpu.IndexFormatUint32, dev.CommandsOf(gputest.OpSetIndexBuffer)[0].IndexFormat)
}

func TestNewPanics(t *testing.T) {
	dev := gputest.New()
	positions, err := NewVertexBuffer(dev, positionSchema, []position{{}})
	require.NoError(t, err)
	req := []vertex.Slot{{Index: 0, Schema: weightSchema}}

	assert.Panics(t, func() { _, _ = New(dev, req, []*VertexBuffer{positions}, []uint16{0}) })
	assert.Panics(t, func() { _, _ = New(dev, req, nil, []uint16{0}) })
	assert.PanicsWithValue(t,
		"mesh: element size 8 does not match schema position stride 12",
		func() { _, _ = NewVertexBuffer(dev, positionSchema, []offset{{}}) })
}

func TestFromDataDeviceError(t *testing.T) {
	dev := gputest.New()
	boom := errors.New("boom")
	dev.FailNext(boom)

	_, err := FromData(dev, positionSchema, []position{{}}, []uint16{0})
	assert.ErrorIs(t, err, boom)
}

func TestInstances(t *testing.T) {
	dev := gputest.New()
	inst, err := NewInstances(dev, offsetSchema, []offset{{1, 2}, {3, 4}}, WithCapacity(4))
	require.NoError(t, err)

	assert.Equal(t, uint32(2), inst.Len())
	assert.Equal(t, uint32(4), inst.Capacity())
	assert.Same(t, offsetSchema, inst.Schema())
	require.Len(t, dev.Buffers, 1)
	assert.Len(t, dev.Buffers[0].Data, 32)
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, dev.Buffers[0].Usage())

	require.NoError(t, inst.Write([]offset{{5, 6}, {7, 8}, {9, 10}}))
	assert.Equal(t, uint32(3), inst.Len())
	require.Len(t, dev.BufferWrites, 1)
	assert.Len(t, dev.BufferWrites[0].Data, 24)

	require.NoError(t, inst.Write(nil))
	assert.Equal(t, uint32(0), inst.Len())

	assert.PanicsWithValue(t, "mesh: 5 instances exceed capacity 4", func() {
		_ = inst.Write(make([]offset, 5))
	})
	assert.Panics(t, func() { _, _ = NewInstances[offset](dev, offsetSchema, nil) })
}
