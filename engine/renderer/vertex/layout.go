package vertex

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Part is one struct of a composed layout together with its step mode.
type Part struct {
	Schema   *Schema
	StepMode wgpu.VertexStepMode
}

// PerVertexPart steps the schema once per vertex.
func PerVertexPart(s *Schema) Part {
	return Part{Schema: s, StepMode: wgpu.VertexStepModeVertex}
}

// PerInstancePart steps the schema once per instance.
func PerInstancePart(s *Schema) Part {
	return Part{Schema: s, StepMode: wgpu.VertexStepModeInstance}
}

// Slot pairs a vertex buffer slot with the schema expected in it.
type Slot struct {
	Index  uint32
	Schema *Schema
}

// Requirements is the compatibility tag of a layout: which schema each per-vertex and
// per-instance buffer slot expects. Meshes carry the Vertex half, instance buffers the Instance half.
type Requirements struct {
	Vertex   []Slot
	Instance []Slot
}

// Matches reports whether both halves agree slot by slot.
func (r Requirements) Matches(o Requirements) bool {
	return SlotsMatch(r.Vertex, o.Vertex) && SlotsMatch(r.Instance, o.Instance)
}

// SlotsMatch reports whether two slot lists name the same slots with equal schemas in the same order.
func SlotsMatch(a, b []Slot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Index != b[i].Index || !a[i].Schema.Equal(b[i].Schema) {
			return false
		}
	}
	return true
}

// FormatSlots renders a slot list for panic messages.
func FormatSlots(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = fmt.Sprintf("%d:%s", s.Index, s.Schema)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Layout is the composed vertex input of a pipeline. It is immutable.
type Layout struct {
	parts     []Part
	buffers   []wgpu.VertexBufferLayout
	req       Requirements
	locations uint32
}

// NewLayout composes parts left to right. Part i is bound at vertex buffer slot i and
// its attributes take shader locations from a running counter that advances by the
// schema's Size after each part, regardless of step mode.
//
// Parameters:
//   - parts: the per-vertex and per-instance structs in buffer slot order
//
// Returns:
//   - *Layout: the composed layout
func NewLayout(parts ...Part) *Layout {
	l := &Layout{
		parts:   append([]Part(nil), parts...),
		buffers: make([]wgpu.VertexBufferLayout, len(parts)),
	}

	var location uint32
	for i, p := range parts {
		if p.Schema == nil {
			panic(fmt.Sprintf("vertex: layout part %d has no schema", i))
		}
		l.buffers[i] = wgpu.VertexBufferLayout{
			ArrayStride: p.Schema.Stride(),
			StepMode:    p.StepMode,
			Attributes:  p.Schema.Attributes(location),
		}
		location += p.Schema.Size()

		slot := Slot{Index: uint32(i), Schema: p.Schema}
		if p.StepMode == wgpu.VertexStepModeInstance {
			l.req.Instance = append(l.req.Instance, slot)
		} else {
			l.req.Vertex = append(l.req.Vertex, slot)
		}
	}
	l.locations = location
	return l
}

// Empty returns the layout with no vertex input, as used by screen-quad pipelines.
func Empty() *Layout {
	return NewLayout()
}

// Buffers returns the vertex buffer layouts for pipeline creation.
func (l *Layout) Buffers() []wgpu.VertexBufferLayout {
	return l.buffers
}

// Parts returns the composed parts in slot order.
func (l *Layout) Parts() []Part {
	return append([]Part(nil), l.parts...)
}

// Requirements returns the full compatibility tag.
func (l *Layout) Requirements() Requirements {
	return l.req
}

// VertexRequirements returns the per-vertex slots a mesh must fill.
func (l *Layout) VertexRequirements() []Slot {
	return l.req.Vertex
}

// InstanceRequirements returns the per-instance slots instance buffers must fill.
func (l *Layout) InstanceRequirements() []Slot {
	return l.req.Instance
}

// HasVertexInput reports whether any per-vertex buffer is required.
func (l *Layout) HasVertexInput() bool {
	return len(l.req.Vertex) > 0
}

// Locations returns the number of shader locations the layout consumes.
func (l *Layout) Locations() uint32 {
	return l.locations
}
