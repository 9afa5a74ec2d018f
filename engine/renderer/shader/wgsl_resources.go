package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// textureShape is what a texture type name says about the view it binds.
type textureShape struct {
	dimension    wgpu.TextureViewDimension
	multisampled bool
	depth        bool
}

// textureShapes is keyed by sampled and depth texture names. Storage textures reuse the
// entry of the name with "storage_" removed.
var textureShapes = map[string]textureShape{
	"texture_1d":                    {dimension: wgpu.TextureViewDimension1D},
	"texture_2d":                    {dimension: wgpu.TextureViewDimension2D},
	"texture_2d_array":              {dimension: wgpu.TextureViewDimension2DArray},
	"texture_3d":                    {dimension: wgpu.TextureViewDimension3D},
	"texture_cube":                  {dimension: wgpu.TextureViewDimensionCube},
	"texture_cube_array":            {dimension: wgpu.TextureViewDimensionCubeArray},
	"texture_multisampled_2d":       {dimension: wgpu.TextureViewDimension2D, multisampled: true},
	"texture_depth_2d":              {dimension: wgpu.TextureViewDimension2D, depth: true},
	"texture_depth_2d_array":        {dimension: wgpu.TextureViewDimension2DArray, depth: true},
	"texture_depth_cube":            {dimension: wgpu.TextureViewDimensionCube, depth: true},
	"texture_depth_cube_array":      {dimension: wgpu.TextureViewDimensionCubeArray, depth: true},
	"texture_depth_multisampled_2d": {dimension: wgpu.TextureViewDimension2D, multisampled: true, depth: true},
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var storageAccess = map[string]wgpu.StorageTextureAccess{
	"write":      wgpu.StorageTextureAccessWriteOnly,
	"read":       wgpu.StorageTextureAccessReadOnly,
	"read_write": wgpu.StorageTextureAccessReadWrite,
}

// texelFormats are the formats WGSL allows for storage textures.
var texelFormats = map[string]wgpu.TextureFormat{
	"rgba8unorm":  wgpu.TextureFormatRGBA8Unorm,
	"rgba8snorm":  wgpu.TextureFormatRGBA8Snorm,
	"rgba8uint":   wgpu.TextureFormatRGBA8Uint,
	"rgba8sint":   wgpu.TextureFormatRGBA8Sint,
	"rgba16uint":  wgpu.TextureFormatRGBA16Uint,
	"rgba16sint":  wgpu.TextureFormatRGBA16Sint,
	"rgba16float": wgpu.TextureFormatRGBA16Float,
	"r32uint":     wgpu.TextureFormatR32Uint,
	"r32sint":     wgpu.TextureFormatR32Sint,
	"r32float":    wgpu.TextureFormatR32Float,
	"rg32uint":    wgpu.TextureFormatRG32Uint,
	"rg32sint":    wgpu.TextureFormatRG32Sint,
	"rg32float":   wgpu.TextureFormatRG32Float,
	"rgba32uint":  wgpu.TextureFormatRGBA32Uint,
	"rgba32sint":  wgpu.TextureFormatRGBA32Sint,
	"rgba32float": wgpu.TextureFormatRGBA32Float,
	"bgra8unorm":  wgpu.TextureFormatBGRA8Unorm,
}

// vertexFormats is indexed by component type, then component count. Combinations without
// a vertex format are left undefined.
var vertexFormats = map[string][5]wgpu.VertexFormat{
	"f32": {1: wgpu.VertexFormatFloat32, 2: wgpu.VertexFormatFloat32x2, 3: wgpu.VertexFormatFloat32x3, 4: wgpu.VertexFormatFloat32x4},
	"i32": {1: wgpu.VertexFormatSint32, 2: wgpu.VertexFormatSint32x2, 3: wgpu.VertexFormatSint32x3, 4: wgpu.VertexFormatSint32x4},
	"u32": {1: wgpu.VertexFormatUint32, 2: wgpu.VertexFormatUint32x2, 3: wgpu.VertexFormatUint32x3, 4: wgpu.VertexFormatUint32x4},
	"f16": {2: wgpu.VertexFormatFloat16x2, 4: wgpu.VertexFormatFloat16x4},
}

// vertexFormat maps a scalar or vector WGSL type to the vertex format that feeds it.
func vertexFormat(typeName string) (wgpu.VertexFormat, bool) {
	scalar, n := typeName, 1
	if dims, s, ok := shaped(typeName, "vec"); ok {
		if v, ok := dimension(dims); ok {
			scalar, n = s, v
		}
	}
	formats, ok := vertexFormats[scalar]
	if !ok || formats[n] == wgpu.VertexFormatUndefined {
		return wgpu.VertexFormatUndefined, false
	}
	return formats[n], true
}

// classifyResource builds the layout entry a resource declaration implies. Buffers are told
// apart by address space and handle types by name. Visibility is left unset.
//
// Parameters:
//   - slot: the @binding index
//   - addressSpace: the var<...> qualifier, e.g. "uniform" or "storage, read_write", empty for handles
//   - typeName: the declared type, e.g. "CameraUniform", "texture_2d<f32>", "sampler"
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the implied entry
func classifyResource(slot uint32, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: slot}
	if addressSpace != "" {
		entry.Buffer.Type = bufferBindingType(addressSpace)
		return entry
	}

	base, params := typeParams(typeName)
	switch {
	case base == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case base == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(base, "texture_storage_"):
		shape := textureShapes["texture_"+strings.TrimPrefix(base, "texture_storage_")]
		args := splitTopLevel(params, ',')
		entry.StorageTexture.ViewDimension = shape.dimension
		entry.StorageTexture.Format = texelFormats[strings.TrimSpace(args[0])]
		if len(args) > 1 {
			entry.StorageTexture.Access = storageAccess[strings.TrimSpace(args[1])]
		}
	default:
		shape, ok := textureShapes[base]
		if !ok {
			break
		}
		entry.Texture.ViewDimension = shape.dimension
		entry.Texture.Multisampled = shape.multisampled
		if shape.depth {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else {
			entry.Texture.SampleType = sampleTypes[params]
		}
	}
	return entry
}

func bufferBindingType(addressSpace string) wgpu.BufferBindingType {
	space, access, _ := strings.Cut(addressSpace, ",")
	switch strings.TrimSpace(space) {
	case "uniform":
		return wgpu.BufferBindingTypeUniform
	case "storage":
		if strings.TrimSpace(access) == "read_write" {
			return wgpu.BufferBindingTypeStorage
		}
		return wgpu.BufferBindingTypeReadOnlyStorage
	}
	return wgpu.BufferBindingTypeUndefined
}
