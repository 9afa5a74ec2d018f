package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is wrapped by every error Validate returns.
var ErrLayoutMismatch = errors.New("shader: layout does not match shader source")

// Reflection is the resource interface a WGSL source declares: its bindings, vertex inputs,
// entry points and compute workgroup size. It is extracted with regular expressions and is
// not a compiler; anything it cannot recognise is left out rather than rejected.
type Reflection struct {
	// Bindings are the @group/@binding declarations sorted by group then slot.
	Bindings []Binding

	// VertexInputs are the location-annotated inputs of the vertex entry point, sorted by
	// location.
	VertexInputs []VertexInput

	// VertexEntry, FragmentEntry and ComputeEntry are the first function names carrying
	// the matching stage attribute, or empty.
	VertexEntry   string
	FragmentEntry string
	ComputeEntry  string

	// WorkgroupSize is the @workgroup_size of the compute entry, [1, 1, 1] when absent.
	// Omitted dimensions are 1.
	WorkgroupSize [3]uint32
}

// Reflect extracts the resource interface of a WGSL source.
//
// Parameters:
//   - source: WGSL source, after pre-processing
//
// Returns:
//   - *Reflection: the reflected interface
func Reflect(source string) *Reflection {
	cleaned := stripComments(source)
	structs := parseStructs(cleaned)
	entries := parseEntryPoints(cleaned)

	r := &Reflection{
		Bindings:      parseBindings(cleaned, newLayoutResolver(structs)),
		WorkgroupSize: [3]uint32{1, 1, 1},
	}
	if e, ok := firstEntry(entries, "vertex"); ok {
		r.VertexEntry = e.name
		r.VertexInputs = parseVertexInputs(e, structs)
	}
	if e, ok := firstEntry(entries, "fragment"); ok {
		r.FragmentEntry = e.name
	}
	if e, ok := firstEntry(entries, "compute"); ok {
		r.ComputeEntry = e.name
		r.WorkgroupSize = parseWorkgroupSize(e.attributes)
	}
	return r
}

// Groups returns the bindings of each group index, indexed by group. Groups the source
// does not declare are empty.
//
// Returns:
//   - [][]Binding: bindings per group
func (r *Reflection) Groups() [][]Binding {
	if len(r.Bindings) == 0 {
		return nil
	}
	groups := make([][]Binding, r.Bindings[len(r.Bindings)-1].Group+1)
	for _, b := range r.Bindings {
		groups[b.Group] = append(groups[b.Group], b)
	}
	return groups
}

// Binding looks up a declaration by variable name.
//
// Parameters:
//   - name: the WGSL variable name
//
// Returns:
//   - Binding: the declaration
//   - bool: false if no binding has that name
func (r *Reflection) Binding(name string) (Binding, bool) {
	for _, b := range r.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Validate checks that a pipeline layout can serve this source. Every declared binding must be
// present in the group at the same index with a compatible resource type, and every vertex
// input location must be provided by one of the vertex buffers with the same format.
// Layout entries the source does not use are allowed. A nil buffers slice skips the vertex check.
//
// Parameters:
//   - groups: the layout entries of each bind group, in group order
//   - buffers: the vertex buffer layouts of the pipeline
//
// Returns:
//   - error: every mismatch joined, each wrapping ErrLayoutMismatch, or nil
func (r *Reflection) Validate(groups [][]wgpu.BindGroupLayoutEntry, buffers []wgpu.VertexBufferLayout) error {
	var errs []error

	for _, b := range r.Bindings {
		if int(b.Group) >= len(groups) {
			errs = append(errs, fmt.Errorf("%w: %q uses group %d but the layout has %d groups", ErrLayoutMismatch, b.Name, b.Group, len(groups)))
			continue
		}
		entry, ok := findEntry(groups[b.Group], b.Slot)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q at group %d binding %d has no layout entry", ErrLayoutMismatch, b.Name, b.Group, b.Slot))
			continue
		}
		if reason := entryMismatch(b.Entry, entry); reason != "" {
			errs = append(errs, fmt.Errorf("%w: %q at group %d binding %d: %v", ErrLayoutMismatch, b.Name, b.Group, b.Slot, reason))
		}
	}

	if buffers != nil {
		provided := make(map[uint32]wgpu.VertexFormat)
		for _, buf := range buffers {
			for _, attr := range buf.Attributes {
				provided[attr.ShaderLocation] = attr.Format
			}
		}
		for _, in := range r.VertexInputs {
			format, ok := provided[in.Location]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%w: vertex input %q at location %d is not provided", ErrLayoutMismatch, in.Name, in.Location))
			case format != in.Format:
				errs = append(errs, fmt.Errorf("%w: vertex input %q at location %d expects %v, layout provides %v", ErrLayoutMismatch, in.Name, in.Location, in.Format, format))
			}
		}
	}

	return errors.Join(errs...)
}

func findEntry(entries []wgpu.BindGroupLayoutEntry, slot uint32) (wgpu.BindGroupLayoutEntry, bool) {
	for _, e := range entries {
		if e.Binding == slot {
			return e, true
		}
	}
	return wgpu.BindGroupLayoutEntry{}, false
}

// entryMismatch describes why a layout entry cannot serve a declaration, or returns "".
func entryMismatch(want, got wgpu.BindGroupLayoutEntry) string {
	switch {
	case want.Buffer.Type != wgpu.BufferBindingTypeUndefined:
		if got.Buffer.Type != want.Buffer.Type {
			return fmt.Sprintf("expects %v buffer, layout has %v", want.Buffer.Type, describeEntry(got))
		}
		if got.Buffer.MinBindingSize != 0 && want.Buffer.MinBindingSize > got.Buffer.MinBindingSize {
			return fmt.Sprintf("expects at least %d bytes, layout allows %d", want.Buffer.MinBindingSize, got.Buffer.MinBindingSize)
		}
	case want.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		if got.Sampler.Type == wgpu.SamplerBindingTypeUndefined {
			return fmt.Sprintf("expects sampler, layout has %v", describeEntry(got))
		}
		if (want.Sampler.Type == wgpu.SamplerBindingTypeComparison) != (got.Sampler.Type == wgpu.SamplerBindingTypeComparison) {
			return fmt.Sprintf("expects %v sampler, layout has %v", want.Sampler.Type, got.Sampler.Type)
		}
	case want.StorageTexture.Access != wgpu.StorageTextureAccessUndefined:
		if got.StorageTexture.Access == wgpu.StorageTextureAccessUndefined {
			return fmt.Sprintf("expects storage texture, layout has %v", describeEntry(got))
		}
		if got.StorageTexture.Format != want.StorageTexture.Format {
			return fmt.Sprintf("expects format %v, layout has %v", want.StorageTexture.Format, got.StorageTexture.Format)
		}
		if got.StorageTexture.Access != want.StorageTexture.Access {
			return fmt.Sprintf("expects access %v, layout has %v", want.StorageTexture.Access, got.StorageTexture.Access)
		}
		if got.StorageTexture.ViewDimension != want.StorageTexture.ViewDimension {
			return fmt.Sprintf("expects dimension %v, layout has %v", want.StorageTexture.ViewDimension, got.StorageTexture.ViewDimension)
		}
	case want.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		if got.Texture.SampleType == wgpu.TextureSampleTypeUndefined {
			return fmt.Sprintf("expects texture, layout has %v", describeEntry(got))
		}
		if !sampleTypeCompatible(want.Texture.SampleType, got.Texture.SampleType) {
			return fmt.Sprintf("expects sample type %v, layout has %v", want.Texture.SampleType, got.Texture.SampleType)
		}
		if got.Texture.ViewDimension != want.Texture.ViewDimension {
			return fmt.Sprintf("expects dimension %v, layout has %v", want.Texture.ViewDimension, got.Texture.ViewDimension)
		}
		if got.Texture.Multisampled != want.Texture.Multisampled {
			return fmt.Sprintf("expects multisampled=%t, layout has %t", want.Texture.Multisampled, got.Texture.Multisampled)
		}
	}
	return ""
}

// sampleTypeCompatible accepts an unfilterable float layout for a float texture.
func sampleTypeCompatible(want, got wgpu.TextureSampleType) bool {
	if want == got {
		return true
	}
	return want == wgpu.TextureSampleTypeFloat && got == wgpu.TextureSampleTypeUnfilterableFloat
}

func describeEntry(e wgpu.BindGroupLayoutEntry) string {
	switch {
	case e.Buffer.Type != wgpu.BufferBindingTypeUndefined:
		return fmt.Sprintf("%v buffer", e.Buffer.Type)
	case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		return "sampler"
	case e.StorageTexture.Access != wgpu.StorageTextureAccessUndefined:
		return "storage texture"
	case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		return "texture"
	}
	return "nothing"
}
