package bind

import "github.com/cogentcore/webgpu/wgpu"

// Kind is the resource kind declared for a binding slot.
type Kind int

const (
	KindUniform Kind = iota
	KindStorage
	KindReadOnlyStorage
	KindDynamicStorage
	KindTexture
	KindStorageTexture
	KindSampler
)

// String returns the lower-case kind name used in panic messages.
func (k Kind) String() string {
	switch k {
	case KindUniform:
		return "uniform"
	case KindStorage:
		return "storage"
	case KindReadOnlyStorage:
		return "read-only storage"
	case KindDynamicStorage:
		return "dynamic storage"
	case KindTexture:
		return "texture"
	case KindStorageTexture:
		return "storage texture"
	case KindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// resourceClass is the handle category a kind accepts.
type resourceClass int

const (
	classBuffer resourceClass = iota
	classTextureView
	classSampler
)

func (c resourceClass) String() string {
	switch c {
	case classBuffer:
		return "buffer"
	case classTextureView:
		return "texture view"
	default:
		return "sampler"
	}
}

func (k Kind) class() resourceClass {
	switch k {
	case KindTexture, KindStorageTexture:
		return classTextureView
	case KindSampler:
		return classSampler
	default:
		return classBuffer
	}
}

// requiredUsage returns the usage flag a handle bound to the kind must carry, and its name
// for panic messages. Samplers require nothing.
func (k Kind) requiredUsage() (wgpu.BufferUsage, wgpu.TextureUsage, string) {
	switch k {
	case KindUniform:
		return wgpu.BufferUsageUniform, 0, "uniform"
	case KindStorage, KindReadOnlyStorage, KindDynamicStorage:
		return wgpu.BufferUsageStorage, 0, "storage"
	case KindTexture:
		return 0, wgpu.TextureUsageTextureBinding, "texture binding"
	case KindStorageTexture:
		return 0, wgpu.TextureUsageStorageBinding, "storage binding"
	default:
		return 0, 0, ""
	}
}
