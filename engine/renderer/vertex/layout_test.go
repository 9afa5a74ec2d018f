package vertex_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testVertex struct {
	Pos   [3]float32
	Color [4]float32
}

type testVertexExtra struct {
	Vibe float32
}

type testInstance struct {
	Pos [2]float32
	Rot float32
}

var (
	vertexSchema   = vertex.SchemaOf[testVertex]("Vertex", wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4)
	extraSchema    = vertex.SchemaOf[testVertexExtra]("VertexExtra", wgpu.VertexFormatFloat32)
	instanceSchema = vertex.SchemaOf[testInstance]("Instance", wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32)
)

func TestComposedLayoutMatchesHandWritten(t *testing.T) {
	layout := vertex.NewLayout(
		vertex.PerVertexPart(vertexSchema),
		vertex.PerInstancePart(instanceSchema),
		vertex.PerVertexPart(extraSchema),
	)

	expected := []wgpu.VertexBufferLayout{
		{
			ArrayStride: 28,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32, Offset: 8, ShaderLocation: 3},
			},
		},
		{
			ArrayStride: 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: 4},
			},
		},
	}

	assert.Equal(t, expected, layout.Buffers())
	assert.Equal(t, uint32(5), layout.Locations())
}

func TestRequirementsSplitByStepMode(t *testing.T) {
	layout := vertex.NewLayout(
		vertex.PerVertexPart(vertexSchema),
		vertex.PerInstancePart(instanceSchema),
		vertex.PerVertexPart(extraSchema),
	)

	req := layout.Requirements()
	require.Len(t, req.Vertex, 2)
	require.Len(t, req.Instance, 1)
	assert.Equal(t, uint32(0), req.Vertex[0].Index)
	assert.Equal(t, uint32(2), req.Vertex[1].Index)
	assert.Equal(t, uint32(1), req.Instance[0].Index)
	assert.True(t, layout.HasVertexInput())

	hand := vertex.Requirements{
		Vertex: []vertex.Slot{
			{Index: 0, Schema: vertex.NewSchema("Vertex", wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4)},
			{Index: 2, Schema: vertex.NewSchema("VertexExtra", wgpu.VertexFormatFloat32)},
		},
		Instance: []vertex.Slot{
			{Index: 1, Schema: vertex.NewSchema("Instance", wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32)},
		},
	}
	assert.True(t, req.Matches(hand))

	swapped := vertex.NewLayout(
		vertex.PerVertexPart(extraSchema),
		vertex.PerInstancePart(instanceSchema),
		vertex.PerVertexPart(vertexSchema),
	)
	assert.False(t, req.Matches(swapped.Requirements()))
}

func TestEmptyLayoutHasNoVertexInput(t *testing.T) {
	empty := vertex.Empty()
	assert.False(t, empty.HasVertexInput())
	assert.Empty(t, empty.Buffers())
	assert.True(t, empty.Requirements().Matches(vertex.Requirements{}))

	instancedOnly := vertex.NewLayout(vertex.PerInstancePart(instanceSchema))
	assert.False(t, instancedOnly.HasVertexInput())
}

func TestSchemaStride(t *testing.T) {
	padded := vertex.SchemaOf[[8]float32]("Padded", wgpu.VertexFormatFloat32x3)
	assert.Equal(t, uint64(32), padded.Stride())
	assert.Equal(t, uint64(12), vertex.NewSchema("Packed", wgpu.VertexFormatFloat32x3).Stride())
	assert.Equal(t, uint64(64), padded.WithStride(64).Stride())
	assert.Equal(t, uint64(32), padded.Stride())

	assert.Panics(t, func() { vertex.SchemaOf[float32]("Small", wgpu.VertexFormatFloat32x4) })
	assert.Panics(t, func() { vertex.NewSchema("None") })
}
