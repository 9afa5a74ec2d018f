package model

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// PosVertex is a vertex carrying only a position (12 bytes).
type PosVertex struct {
	Position [3]float32 // location 0
}

// RGBVertex is a vertex with a position and an RGB color (24 bytes).
type RGBVertex struct {
	Position [3]float32 // location 0
	Color    [3]float32 // location 1
}

// RGBAVertex is a vertex with a position and an RGBA color (28 bytes).
type RGBAVertex struct {
	Position [3]float32 // location 0
	Color    [4]float32 // location 1
}

// UVVertex is a vertex with a position and texture coordinates (20 bytes).
type UVVertex struct {
	Position  [3]float32 // location 0
	TexCoords [2]float32 // location 1
}

// Attribute schemas of the sample vertex types. Layouts and meshes built from the same
// schema value are compatible.
var (
	PosVertexSchema  = vertex.SchemaOf[PosVertex]("PosVertex", wgpu.VertexFormatFloat32x3)
	RGBVertexSchema  = vertex.SchemaOf[RGBVertex]("RGBVertex", wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x3)
	RGBAVertexSchema = vertex.SchemaOf[RGBAVertex]("RGBAVertex", wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4)
	UVVertexSchema   = vertex.SchemaOf[UVVertex]("UVVertex", wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x2)
)
