package model

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pipeline"
)

// PentagonVertices are the corners of a colored pentagon two units in front of the origin.
var PentagonVertices = []RGBVertex{
	{Position: [3]float32{-0.0868241, 0.49240386, -2.0}, Color: [3]float32{1, 0, 0}},
	{Position: [3]float32{-0.49513406, 0.06958647, -2.0}, Color: [3]float32{1, 1, 0}},
	{Position: [3]float32{-0.21918549, -0.44939706, -2.0}, Color: [3]float32{0, 1, 0}},
	{Position: [3]float32{0.35966998, -0.3473291, -2.0}, Color: [3]float32{0, 0, 1}},
	{Position: [3]float32{0.44147372, 0.2347359, -2.0}, Color: [3]float32{1, 0, 1}},
}

// PentagonIndices triangulate PentagonVertices counter-clockwise.
var PentagonIndices = []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4}

// NewPentagon uploads the pentagon as an RGBVertex mesh drawn with shader.
func NewPentagon(device gpu.Device, shader pipeline.ShaderHandle) (Model, error) {
	return FromData(device, RGBVertexSchema, PentagonVertices, PentagonIndices, shader, WithName("pentagon"))
}
