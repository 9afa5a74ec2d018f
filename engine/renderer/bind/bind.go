// Package bind turns declarative binding tables into device bind group layouts and
// realizes concrete bind groups from resource handles matching those tables.
package bind

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
)

// Bind holds resource handles in 1:1 correspondence with its layout's schema plus the
// bind group realized from them. A Bind is exclusively owned; it is changed only through
// Set and Refresh and is not safe for concurrent mutation.
type Bind struct {
	layout    *Layout
	resources []Resource
	group     gpu.BindGroup
	offsets   []uint32
	dynamic   []string
}

// New realizes a bind group for layout from resources given in schema order.
// It issues exactly one CreateBindGroup call.
//
// Panics when the resource count differs from the schema length or a resource does not
// fit its slot's kind. Buffers must carry the uniform or storage usage the kind needs, and
// texture providers that report usage must carry the sampled or storage binding usage.
//
// Parameters:
//   - device: the device to create the bind group on
//   - layout: the layout the resources conform to
//   - resources: one resource per schema entry, in declaration order
//
// Returns:
//   - *Bind: the bind
//   - error: device error, if any
func New(device gpu.Device, layout *Layout, resources ...Resource) (*Bind, error) {
	schema := layout.Schema()
	if len(resources) != schema.Len() {
		panic(fmt.Sprintf("bind: expected %d resources for layout %q, got %d", schema.Len(), layout.Label(), len(resources)))
	}
	for i, r := range resources {
		checkKind(schema.EntryAt(i), r)
	}

	dynamic := schema.dynamicSlots()
	b := &Bind{
		layout:    layout,
		resources: append([]Resource(nil), resources...),
		offsets:   make([]uint32, len(dynamic)),
		dynamic:   dynamic,
	}
	group, err := b.build(device)
	if err != nil {
		return nil, err
	}
	b.group = group
	return b, nil
}

func checkKind(e Entry, r Resource) {
	if e.Kind.class() != r.class {
		panic(fmt.Sprintf("bind: slot %d (%q) expects %s resource, got %s", e.Slot, e.Name, e.Kind.class(), r.class))
	}

	bufferUsage, textureUsage, usage := e.Kind.requiredUsage()
	switch r.class {
	case classBuffer:
		if buf := r.BufferHandle(); buf != nil && buf.Usage()&bufferUsage == 0 {
			panic(fmt.Sprintf("bind: slot %d (%q) expects %s resource, got buffer without %s usage", e.Slot, e.Name, e.Kind, usage))
		}
	case classTextureView:
		if tex, ok := r.viewProvider.(TextureUsageReporter); ok && tex.Usage()&textureUsage == 0 {
			panic(fmt.Sprintf("bind: slot %d (%q) expects %s resource, got texture without %s usage", e.Slot, e.Name, e.Kind, usage))
		}
	}
}

func (b *Bind) build(device gpu.Device) (gpu.BindGroup, error) {
	schema := b.layout.Schema()
	entries := make([]gpu.BindGroupEntry, len(b.resources))
	for i, r := range b.resources {
		entries[i] = r.entry(schema.EntryAt(i).Slot)
	}

	label := b.layout.Label() + "-bind"
	group, err := device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:   label,
		Layout:  b.layout.Raw(),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", label, err)
	}
	common.Logger().Debug("bind group built", "label", label, "entries", len(entries))
	return group, nil
}

// Refresh rebuilds the bind group from the current resource handles and releases the
// previous group. Providers are resolved again, so a texture recreated by a resize is
// picked up. The layout is unchanged.
//
// Parameters:
//   - device: the device to create the new bind group on
//
// Returns:
//   - error: device error, if any; the previous group stays active on failure
func (b *Bind) Refresh(device gpu.Device) error {
	group, err := b.build(device)
	if err != nil {
		return err
	}
	if b.group != nil {
		b.group.Release()
	}
	b.group = group
	return nil
}

// Set replaces the resource bound to name without rebuilding. Call Refresh afterwards.
//
// Parameters:
//   - name: the schema entry name
//   - resource: the replacement, which must match the entry's kind
func (b *Bind) Set(name string, resource Resource) {
	i := b.index(name)
	checkKind(b.layout.Schema().EntryAt(i), resource)
	b.resources[i] = resource
}

// SetOffsets sets the byte offsets applied to the dynamic entries the next time the bind is
// set on a pass. Offsets are given in ascending binding slot order, not declaration order.
// Panics if the count differs from the number of dynamic entries.
func (b *Bind) SetOffsets(offsets ...uint32) {
	if len(offsets) != len(b.offsets) {
		panic(fmt.Sprintf("bind: layout %q has %d dynamic entries, got %d offsets", b.layout.Label(), len(b.offsets), len(offsets)))
	}
	copy(b.offsets, offsets)
}

// SetOffset sets the byte offset of one dynamic entry by name.
//
// Parameters:
//   - name: the dynamic entry name
//   - offset: the byte offset into the bound buffer
func (b *Bind) SetOffset(name string, offset uint32) {
	i := slices.Index(b.dynamic, name)
	if i < 0 {
		panic(fmt.Sprintf("bind: layout %q has no dynamic binding named %q", b.layout.Label(), name))
	}
	b.offsets[i] = offset
}

// Offsets returns the dynamic offsets to pass alongside the bind group, in ascending slot
// order. It is empty when the layout has no dynamic entries.
func (b *Bind) Offsets() []uint32 {
	return b.offsets
}

// Layout returns the layout this bind conforms to.
func (b *Bind) Layout() *Layout {
	return b.layout
}

// BindGroup returns the current device bind group.
func (b *Bind) BindGroup() gpu.BindGroup {
	return b.group
}

// Resource returns the resource bound to name.
func (b *Bind) Resource(name string) Resource {
	return b.resources[b.index(name)]
}

// ResourceAt returns the resource at declaration index i.
func (b *Bind) ResourceAt(i int) Resource {
	return b.resources[i]
}

// Buffer returns the buffer bound to name. Panics if name is not a buffer entry.
func (b *Bind) Buffer(name string) gpu.Buffer {
	return b.typed(name, classBuffer).BufferHandle()
}

// TextureView returns the texture view bound to name. Panics if name is not a texture entry.
func (b *Bind) TextureView(name string) gpu.TextureView {
	return b.typed(name, classTextureView).TextureViewHandle()
}

// Sampler returns the sampler bound to name. Panics if name is not a sampler entry.
func (b *Bind) Sampler(name string) gpu.Sampler {
	return b.typed(name, classSampler).SamplerHandle()
}

// Release frees the bind group. The bound resources are owned by the caller.
func (b *Bind) Release() {
	if b.group != nil {
		b.group.Release()
		b.group = nil
	}
}

func (b *Bind) index(name string) int {
	i, ok := b.layout.Schema().Index(name)
	if !ok {
		panic(fmt.Sprintf("bind: layout %q has no binding named %q", b.layout.Label(), name))
	}
	return i
}

func (b *Bind) typed(name string, class resourceClass) Resource {
	i := b.index(name)
	e := b.layout.Schema().EntryAt(i)
	if e.Kind.class() != class {
		panic(fmt.Sprintf("bind: binding %q is a %s, not a %s", name, e.Kind, class))
	}
	return b.resources[i]
}
