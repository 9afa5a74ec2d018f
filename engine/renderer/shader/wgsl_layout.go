package shader

import (
	"strconv"
	"strings"
)

// typeLayout is the byte size and alignment of a host-shareable WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive elements of an array of the type.
func (l typeLayout) stride() uint64 {
	return alignTo(l.align, l.size)
}

// alignTo rounds value up to a power-of-two alignment.
func alignTo(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

var scalarSizes = map[string]uint64{
	"f32":  4,
	"i32":  4,
	"u32":  4,
	"bool": 4,
	"f16":  2,
}

// shorthandScalars maps the suffix of aliases like vec3f or mat4x4h to the component type.
var shorthandScalars = map[byte]string{
	'f': "f32",
	'i': "i32",
	'u': "u32",
	'h': "f16",
}

func scalarLayout(name string) (typeLayout, bool) {
	size, ok := scalarSizes[strings.TrimSpace(name)]
	return typeLayout{size, size}, ok
}

// vectorLayout lays out an n-component vector. Three-component vectors align like four.
func vectorLayout(n int, scalar typeLayout) typeLayout {
	align := scalar.size * 4
	if n == 2 {
		align = scalar.size * 2
	}
	return typeLayout{uint64(n) * scalar.size, align}
}

// shaped splits "vec3<f32>", "vec3f", "mat4x3<f32>" or "mat4x3f" after prefix into the
// dimension text and the component type.
func shaped(typeName, prefix string) (dims string, scalar string, ok bool) {
	rest, ok := strings.CutPrefix(typeName, prefix)
	if !ok {
		return "", "", false
	}
	if base, param := typeParams(rest); param != "" {
		return base, param, true
	}
	if n := len(rest); n > 1 {
		if s, ok := shorthandScalars[rest[n-1]]; ok {
			return rest[:n-1], s, true
		}
	}
	return "", "", false
}

func dimension(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	return n, err == nil && n >= 2 && n <= 4
}

// vectorOrMatrixLayout handles vecN and matCxR types. A matrix is C columns of vecR.
func vectorOrMatrixLayout(typeName string) (typeLayout, bool) {
	if dims, scalar, ok := shaped(typeName, "vec"); ok {
		n, okN := dimension(dims)
		s, okS := scalarLayout(scalar)
		if okN && okS {
			return vectorLayout(n, s), true
		}
	}
	if dims, scalar, ok := shaped(typeName, "mat"); ok {
		c, r, _ := strings.Cut(dims, "x")
		cols, okC := dimension(c)
		rows, okR := dimension(r)
		s, okS := scalarLayout(scalar)
		if okC && okR && okS {
			column := vectorLayout(rows, s)
			return typeLayout{uint64(cols) * column.stride(), column.align}, true
		}
	}
	return typeLayout{}, false
}

// layoutResolver computes buffer layouts for the structs of one source. Struct layouts are
// memoised and recursive references resolve to unknown.
type layoutResolver struct {
	structs map[string]wgslStruct
	done    map[string]typeLayout
	pending map[string]bool
}

func newLayoutResolver(structs map[string]wgslStruct) *layoutResolver {
	return &layoutResolver{
		structs: structs,
		done:    make(map[string]typeLayout, len(structs)),
		pending: make(map[string]bool),
	}
}

// layout resolves a WGSL type to its size and alignment. Runtime-sized arrays count as one
// element, which is the smallest buffer that can be bound to them.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "f32", "CameraUniform", "array<Light, 6>"
//
// Returns:
//   - typeLayout: the layout
//   - bool: false for opaque or unknown types
func (r *layoutResolver) layout(typeName string) (typeLayout, bool) {
	typeName = strings.TrimSpace(typeName)
	if l, ok := scalarLayout(typeName); ok {
		return l, true
	}
	if l, ok := vectorOrMatrixLayout(typeName); ok {
		return l, true
	}

	base, param := typeParams(typeName)
	switch base {
	case "atomic":
		return scalarLayout(param)
	case "array":
		return r.arrayLayout(param)
	}
	return r.structLayout(typeName)
}

func (r *layoutResolver) arrayLayout(params string) (typeLayout, bool) {
	args := splitTopLevel(params, ',')
	elem, ok := r.layout(args[0])
	if !ok {
		return typeLayout{}, false
	}

	count := uint64(1)
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		n, err := strconv.ParseUint(strings.TrimSpace(args[1]), 10, 64)
		if err != nil || n == 0 {
			// override-sized
			return typeLayout{}, false
		}
		count = n
	}
	return typeLayout{count * elem.stride(), elem.align}, true
}

func (r *layoutResolver) structLayout(name string) (typeLayout, bool) {
	if l, ok := r.done[name]; ok {
		return l, true
	}
	s, ok := r.structs[name]
	if !ok || r.pending[name] {
		return typeLayout{}, false
	}
	r.pending[name] = true
	defer delete(r.pending, name)

	var offset uint64
	align := uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := r.layout(f.typeName)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignTo(l.align, offset) + l.size
		align = max(align, l.align)
	}

	l := typeLayout{alignTo(align, offset), align}
	r.done[name] = l
	return l, true
}
