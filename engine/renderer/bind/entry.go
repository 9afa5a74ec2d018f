package bind

import "github.com/cogentcore/webgpu/wgpu"

// Entry declares one binding slot of a Schema.
type Entry struct {
	// Name identifies the resource for accessors on Bind.
	Name string
	// Slot is the binding index within the group.
	Slot uint32
	// Visibility is the set of shader stages that may access the resource.
	Visibility wgpu.ShaderStage
	// Kind selects the resource type.
	Kind Kind
	// Count is the binding array length, nil for a single resource.
	Count *uint32

	// MinBindingSize applies to buffer kinds. Zero leaves the size unchecked by the device.
	MinBindingSize uint64

	// SampleType, ViewDimension and Multisampled apply to KindTexture.
	SampleType    wgpu.TextureSampleType
	ViewDimension wgpu.TextureViewDimension
	Multisampled  bool

	// Format and Access apply to KindStorageTexture. ViewDimension is shared with KindTexture.
	Format wgpu.TextureFormat
	Access wgpu.StorageTextureAccess

	// SamplerType applies to KindSampler.
	SamplerType wgpu.SamplerBindingType
}

// UniformEntry declares a uniform buffer binding.
//
// Parameters:
//   - name: the resource name
//   - slot: the binding index
//   - visibility: the shader stages that read it
//
// Returns:
//   - Entry: the entry
func UniformEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return Entry{Name: name, Slot: slot, Visibility: visibility, Kind: KindUniform}
}

// StorageEntry declares a read-write storage buffer binding.
func StorageEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return Entry{Name: name, Slot: slot, Visibility: visibility, Kind: KindStorage}
}

// ReadOnlyStorageEntry declares a read-only storage buffer binding.
func ReadOnlyStorageEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return Entry{Name: name, Slot: slot, Visibility: visibility, Kind: KindReadOnlyStorage}
}

// DynamicStorageEntry declares a storage buffer binding with a dynamic offset.
func DynamicStorageEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return Entry{Name: name, Slot: slot, Visibility: visibility, Kind: KindDynamicStorage}
}

// TextureEntry declares a sampled texture binding.
//
// Parameters:
//   - name: the resource name
//   - slot: the binding index
//   - visibility: the shader stages that sample it
//   - sampleType: the texel sample type, usually wgpu.TextureSampleTypeFloat
//   - dimension: the view dimension, usually wgpu.TextureViewDimension2D
//
// Returns:
//   - Entry: the entry
func TextureEntry(name string, slot uint32, visibility wgpu.ShaderStage, sampleType wgpu.TextureSampleType, dimension wgpu.TextureViewDimension) Entry {
	return Entry{
		Name:          name,
		Slot:          slot,
		Visibility:    visibility,
		Kind:          KindTexture,
		SampleType:    sampleType,
		ViewDimension: dimension,
	}
}

// StorageTextureEntry declares a storage texture binding.
//
// Parameters:
//   - name: the resource name
//   - slot: the binding index
//   - visibility: the shader stages that access it
//   - format: the texel format
//   - access: read, write or read-write access
//   - dimension: the view dimension
//
// Returns:
//   - Entry: the entry
func StorageTextureEntry(name string, slot uint32, visibility wgpu.ShaderStage, format wgpu.TextureFormat, access wgpu.StorageTextureAccess, dimension wgpu.TextureViewDimension) Entry {
	return Entry{
		Name:          name,
		Slot:          slot,
		Visibility:    visibility,
		Kind:          KindStorageTexture,
		Format:        format,
		Access:        access,
		ViewDimension: dimension,
	}
}

// SamplerEntry declares a sampler binding.
func SamplerEntry(name string, slot uint32, visibility wgpu.ShaderStage, samplerType wgpu.SamplerBindingType) Entry {
	return Entry{Name: name, Slot: slot, Visibility: visibility, Kind: KindSampler, SamplerType: samplerType}
}

// layoutEntry converts the declaration into its device layout form.
func (e Entry) layoutEntry() wgpu.BindGroupLayoutEntry {
	out := wgpu.BindGroupLayoutEntry{
		Binding:    e.Slot,
		Visibility: e.Visibility,
	}

	switch e.Kind {
	case KindUniform:
		out.Buffer.Type = wgpu.BufferBindingTypeUniform
		out.Buffer.MinBindingSize = e.MinBindingSize
	case KindStorage:
		out.Buffer.Type = wgpu.BufferBindingTypeStorage
		out.Buffer.MinBindingSize = e.MinBindingSize
	case KindReadOnlyStorage:
		out.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		out.Buffer.MinBindingSize = e.MinBindingSize
	case KindDynamicStorage:
		out.Buffer.Type = wgpu.BufferBindingTypeStorage
		out.Buffer.HasDynamicOffset = true
		out.Buffer.MinBindingSize = e.MinBindingSize
	case KindTexture:
		out.Texture.SampleType = e.SampleType
		out.Texture.ViewDimension = e.ViewDimension
		out.Texture.Multisampled = e.Multisampled
	case KindStorageTexture:
		out.StorageTexture.Access = e.Access
		out.StorageTexture.Format = e.Format
		out.StorageTexture.ViewDimension = e.ViewDimension
	case KindSampler:
		out.Sampler.Type = e.SamplerType
	}
	return out
}

// Texture2DEntry declares a filterable float 2D texture binding, the common case for sampled color targets.
func Texture2DEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return TextureEntry(name, slot, visibility, wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D)
}

// FilteringSamplerEntry declares a filtering sampler binding.
func FilteringSamplerEntry(name string, slot uint32, visibility wgpu.ShaderStage) Entry {
	return SamplerEntry(name, slot, visibility, wgpu.SamplerBindingTypeFiltering)
}
