// Package vertex describes per-struct vertex attribute tables and composes them into
// the vertex buffer layouts and compatibility requirements that pipelines, meshes and
// instance buffers are checked against.
package vertex

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Schema is the attribute table of one vertex or instance struct.
// Attributes are packed in declared order; each consumes one shader location.
type Schema struct {
	name    string
	formats []wgpu.VertexFormat
	stride  uint64
}

// NewSchema declares a struct whose stride is the packed sum of its attribute sizes.
//
// Parameters:
//   - name: identifies the struct in requirement checks
//   - formats: the attribute formats in field order
//
// Returns:
//   - *Schema: the schema
func NewSchema(name string, formats ...wgpu.VertexFormat) *Schema {
	if len(formats) == 0 {
		panic(fmt.Sprintf("vertex: schema %q declares no attributes", name))
	}
	var stride uint64
	for _, f := range formats {
		stride += FormatSize(f)
	}
	return &Schema{name: name, formats: slices.Clone(formats), stride: stride}
}

// SchemaOf declares a struct whose stride is the in-memory size of T, so padding in T is respected.
func SchemaOf[T any](name string, formats ...wgpu.VertexFormat) *Schema {
	s := NewSchema(name, formats...)
	size := common.SizeOf[T]()
	if size < s.stride {
		panic(fmt.Sprintf("vertex: schema %q attributes need %d bytes but the struct holds %d", name, s.stride, size))
	}
	s.stride = size
	return s
}

// WithStride returns a copy of the schema using an explicit array stride.
func (s *Schema) WithStride(stride uint64) *Schema {
	out := *s
	out.formats = slices.Clone(s.formats)
	out.stride = stride
	return &out
}

// Name returns the struct name.
func (s *Schema) Name() string { return s.name }

// Formats returns a copy of the attribute formats.
func (s *Schema) Formats() []wgpu.VertexFormat { return slices.Clone(s.formats) }

// Stride returns the array stride in bytes.
func (s *Schema) Stride() uint64 { return s.stride }

// Size returns the number of shader locations the struct consumes.
func (s *Schema) Size() uint32 { return uint32(len(s.formats)) }

// Attributes returns the attribute descriptors with shader locations starting at base
// and byte offsets as the running sum of the preceding formats.
//
// Parameters:
//   - base: the first shader location
//
// Returns:
//   - []wgpu.VertexAttribute: one attribute per format
func (s *Schema) Attributes(base uint32) []wgpu.VertexAttribute {
	attrs := make([]wgpu.VertexAttribute, len(s.formats))
	var offset uint64
	for i, f := range s.formats {
		attrs[i] = wgpu.VertexAttribute{
			Format:         f,
			Offset:         offset,
			ShaderLocation: base + uint32(i),
		}
		offset += FormatSize(f)
	}
	return attrs
}

// Equal reports whether two schemas describe the same struct layout.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.name == o.name && s.stride == o.stride && slices.Equal(s.formats, o.formats)
}

// String renders the schema for panic messages.
func (s *Schema) String() string {
	return fmt.Sprintf("%s%v/%d", s.name, s.formats, s.stride)
}

// FormatSize returns the byte size of a vertex format. Panics on formats this package does not know.
func FormatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormatFloat16x2, wgpu.VertexFormatFloat32, wgpu.VertexFormatUint32, wgpu.VertexFormatSint32:
		return 4
	case wgpu.VertexFormatFloat16x4, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatUint32x2, wgpu.VertexFormatSint32x2:
		return 8
	case wgpu.VertexFormatFloat32x3, wgpu.VertexFormatUint32x3, wgpu.VertexFormatSint32x3:
		return 12
	case wgpu.VertexFormatFloat32x4, wgpu.VertexFormatUint32x4, wgpu.VertexFormatSint32x4:
		return 16
	default:
		panic(fmt.Sprintf("vertex: unsupported vertex format %v", f))
	}
}
