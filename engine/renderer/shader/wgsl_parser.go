package shader

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Binding is a resource variable declared with @group(N) @binding(M) in WGSL source.
type Binding struct {
	// Group is the @group index.
	Group uint32

	// Slot is the @binding index.
	Slot uint32

	// Name is the WGSL variable name.
	Name string

	// Type is the declared WGSL type, e.g. "CameraUniform" or "texture_2d<f32>".
	Type string

	// Entry is the layout entry the declaration implies. Visibility is left unset
	// because a single source may serve several stages.
	Entry wgpu.BindGroupLayoutEntry
}

// VertexInput is a location-annotated input the vertex stage reads.
type VertexInput struct {
	// Location is the @location index.
	Location uint32

	// Name is the parameter or struct field name.
	Name string

	// Format is the vertex format matching the WGSL type.
	Format wgpu.VertexFormat
}

// wgslField is a struct member or function parameter. location is -1 without @location.
type wgslField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []wgslField
}

// entryPoint is a function carrying a stage attribute.
type entryPoint struct {
	stage      string
	name       string
	attributes string
	params     string
}

var (
	structRegex    = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	attributeRegex = regexp.MustCompile(`@\w+\s*(?:\([^)]*\))?`)
	locationRegex  = regexp.MustCompile(`@location\s*\(\s*(\d+)\s*\)`)

	// entryRegex captures the stage, the attributes between it and fn, and the name. The
	// match ends on the opening parenthesis of the parameter list.
	entryRegex = regexp.MustCompile(`@(vertex|fragment|compute)\b([^{;]*?)\bfn\s+(\w+)\s*\(`)

	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?,?\s*\)`)

	// bindingRegex matches declarations like
	// @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseMember reads "@location(0) name: type" style declarations.
func parseMember(text string) (wgslField, bool) {
	f := wgslField{location: -1, builtin: strings.Contains(text, "@builtin")}
	if m := locationRegex.FindStringSubmatch(text); m != nil {
		if loc, err := strconv.Atoi(m[1]); err == nil {
			f.location = loc
		}
	}

	name, typeName, ok := strings.Cut(attributeRegex.ReplaceAllString(text, ""), ":")
	if !ok {
		return f, false
	}
	f.name = strings.TrimSpace(name)
	f.typeName = strings.TrimSpace(typeName)
	return f, f.name != "" && f.typeName != ""
}

// parseStructs indexes every struct block by name.
func parseStructs(cleaned string) map[string]wgslStruct {
	matches := structRegex.FindAllStringSubmatch(cleaned, -1)
	structs := make(map[string]wgslStruct, len(matches))
	for _, m := range matches {
		s := wgslStruct{name: m[1]}
		for _, member := range splitTopLevel(m[2], ',') {
			if f, ok := parseMember(member); ok {
				s.fields = append(s.fields, f)
			}
		}
		structs[s.name] = s
	}
	return structs
}

// parseEntryPoints lists the stage functions in source order.
func parseEntryPoints(cleaned string) []entryPoint {
	var entries []entryPoint
	for _, loc := range entryRegex.FindAllStringSubmatchIndex(cleaned, -1) {
		params, _ := enclosed(cleaned, loc[1]-1, '(', ')')
		entries = append(entries, entryPoint{
			stage:      cleaned[loc[2]:loc[3]],
			attributes: cleaned[loc[4]:loc[5]],
			name:       cleaned[loc[6]:loc[7]],
			params:     params,
		})
	}
	return entries
}

func firstEntry(entries []entryPoint, stage string) (entryPoint, bool) {
	for _, e := range entries {
		if e.stage == stage {
			return e, true
		}
	}
	return entryPoint{}, false
}

// parseBindings extracts every @group/@binding declaration. Buffer bindings get their
// MinBindingSize from the layout of the bound type when it resolves.
//
// Parameters:
//   - cleaned: WGSL source with comments stripped
//   - layouts: resolver over the structs of the same source
//
// Returns:
//   - []Binding: declarations sorted by group then slot
func parseBindings(cleaned string, layouts *layoutResolver) []Binding {
	matches := bindingRegex.FindAllStringSubmatch(cleaned, -1)
	bindings := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.ParseUint(m[1], 10, 32)
		slot, _ := strconv.ParseUint(m[2], 10, 32)
		typeName := strings.TrimSpace(m[5])

		entry := classifyResource(uint32(slot), strings.TrimSpace(m[3]), typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := layouts.layout(typeName); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}

		bindings = append(bindings, Binding{
			Group: uint32(group),
			Slot:  uint32(slot),
			Name:  m[4],
			Type:  typeName,
			Entry: entry,
		})
	}

	slices.SortFunc(bindings, func(a, b Binding) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Slot, b.Slot))
	})
	return bindings
}

// parseVertexInputs collects the @location inputs of a vertex entry point, either declared
// directly as parameters or as fields of a struct parameter. Inputs whose type has no vertex
// format are skipped, and a repeated location keeps its first declaration.
//
// Parameters:
//   - entry: the vertex entry point
//   - structs: the structs of the same source
//
// Returns:
//   - []VertexInput: the inputs sorted by location
func parseVertexInputs(entry entryPoint, structs map[string]wgslStruct) []VertexInput {
	var inputs []VertexInput
	seen := make(map[int]bool)
	add := func(f wgslField) {
		if f.location < 0 || seen[f.location] {
			return
		}
		format, ok := vertexFormat(f.typeName)
		if !ok {
			return
		}
		seen[f.location] = true
		inputs = append(inputs, VertexInput{Location: uint32(f.location), Name: f.name, Format: format})
	}

	for _, param := range splitTopLevel(entry.params, ',') {
		f, ok := parseMember(param)
		if !ok {
			continue
		}
		if s, ok := structs[f.typeName]; ok && f.location < 0 {
			for _, field := range s.fields {
				add(field)
			}
			continue
		}
		add(f)
	}

	slices.SortFunc(inputs, func(a, b VertexInput) int {
		return cmp.Compare(a.Location, b.Location)
	})
	return inputs
}

// parseWorkgroupSize reads @workgroup_size(x[, y[, z]]). Omitted dimensions are 1.
func parseWorkgroupSize(text string) [3]uint32 {
	size := [3]uint32{1, 1, 1}
	m := workgroupSizeRegex.FindStringSubmatch(text)
	if m == nil {
		return size
	}
	for i, dim := range m[1:] {
		if v, err := strconv.ParseUint(dim, 10, 32); err == nil {
			size[i] = uint32(v)
		}
	}
	return size
}
