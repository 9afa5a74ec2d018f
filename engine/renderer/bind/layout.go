package bind

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
)

// Layout is a device bind group layout compiled from a Schema. It is immutable and
// is shared by pointer among every Bind built against it; pointer identity is what
// render sessions compare when checking shared data and settings.
type Layout struct {
	label  string
	schema *Schema
	raw    gpu.BindGroupLayout
}

// NewLayout compiles schema into a device layout with exactly one CreateBindGroupLayout call.
//
// Parameters:
//   - device: the device to create the layout on
//   - schema: the validated binding schema
//   - options: functional options (label)
//
// Returns:
//   - *Layout: the layout
//   - error: device error, if any
func NewLayout(device gpu.Device, schema *Schema, options ...LayoutBuilderOption) (*Layout, error) {
	l := &Layout{schema: schema}
	for _, opt := range options {
		opt(l)
	}
	if l.label == "" {
		l.label = common.NewLabel("bind-group-layout")
	}

	raw, err := device.CreateBindGroupLayout(schema.Descriptor(l.label))
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", l.label, err)
	}
	l.raw = raw

	common.Logger().Debug("bind group layout created", "label", l.label, "entries", schema.Len())
	return l, nil
}

// Label returns the debug label.
func (l *Layout) Label() string {
	return l.label
}

// Schema returns the schema the layout was compiled from.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Raw returns the device layout handle.
func (l *Layout) Raw() gpu.BindGroupLayout {
	return l.raw
}

// Release frees the device layout. Binds built on it must be released first.
func (l *Layout) Release() {
	if l.raw != nil {
		l.raw.Release()
		l.raw = nil
	}
}
