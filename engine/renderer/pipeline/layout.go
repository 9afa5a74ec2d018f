package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/vertex"
	"github.com/cogentcore/webgpu/wgpu"
)

// layoutConfig collects the options shared by render and compute layouts.
type layoutConfig struct {
	label    string
	shared   []*bind.Layout
	settings []*bind.Layout
	vertex   *vertex.Layout
	format   wgpu.TextureFormat
}

// Layout is a device pipeline layout plus the bind group and vertex layouts it was
// built from. Bind group indices 0..len(shared) hold shared data bound once per pass;
// the remaining indices hold shader settings. Layout is immutable and shared by pointer.
type Layout struct {
	label    string
	shared   []*bind.Layout
	settings []*bind.Layout
	vertex   *vertex.Layout
	format   wgpu.TextureFormat
	raw      gpu.PipelineLayout
}

// NewLayout creates a pipeline layout with exactly one CreatePipelineLayout call.
// Without WithVertexLayout the layout has no vertex input; without WithTargetFormat the
// color target is wgpu.TextureFormatBGRA8UnormSrgb.
//
// Parameters:
//   - device: the device to create the layout on
//   - options: functional options (shared layouts, settings layouts, vertex layout, format, label)
//
// Returns:
//   - *Layout: the layout
//   - error: device error, if any
func NewLayout(device gpu.Device, options ...LayoutBuilderOption) (*Layout, error) {
	cfg := newLayoutConfig("pipeline-layout", options)
	if cfg.vertex == nil {
		cfg.vertex = vertex.Empty()
	}

	raw, err := createPipelineLayout(device, cfg)
	if err != nil {
		return nil, err
	}

	common.Logger().Debug("pipeline layout created",
		"label", cfg.label,
		"shared", len(cfg.shared),
		"settings", len(cfg.settings),
		"vertexBuffers", len(cfg.vertex.Buffers()))

	return &Layout{
		label:    cfg.label,
		shared:   cfg.shared,
		settings: cfg.settings,
		vertex:   cfg.vertex,
		format:   cfg.format,
		raw:      raw,
	}, nil
}

func newLayoutConfig(kind string, options []LayoutBuilderOption) *layoutConfig {
	cfg := &layoutConfig{format: wgpu.TextureFormatBGRA8UnormSrgb}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.label == "" {
		cfg.label = common.NewLabel(kind)
	}
	return cfg
}

func createPipelineLayout(device gpu.Device, cfg *layoutConfig) (gpu.PipelineLayout, error) {
	groups := make([]gpu.BindGroupLayout, 0, len(cfg.shared)+len(cfg.settings))
	for _, l := range cfg.shared {
		groups = append(groups, l.Raw())
	}
	for _, l := range cfg.settings {
		groups = append(groups, l.Raw())
	}

	raw, err := device.CreatePipelineLayout(&gpu.PipelineLayoutDescriptor{
		Label:            cfg.label,
		BindGroupLayouts: groups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout %q: %w", cfg.label, err)
	}
	return raw, nil
}

// Label returns the debug label.
func (l *Layout) Label() string { return l.label }

// SharedLayouts returns the bind group layouts of the shared data groups.
func (l *Layout) SharedLayouts() []*bind.Layout { return l.shared }

// SettingsLayouts returns the bind group layouts of the settings groups.
func (l *Layout) SettingsLayouts() []*bind.Layout { return l.settings }

// VertexLayout returns the vertex input layout.
func (l *Layout) VertexLayout() *vertex.Layout { return l.vertex }

// Format returns the color target format pipelines are compiled for.
func (l *Layout) Format() wgpu.TextureFormat { return l.format }

// Raw returns the device pipeline layout.
func (l *Layout) Raw() gpu.PipelineLayout { return l.raw }

// SharedMatches reports whether binds conform to the shared data layouts, in order.
func (l *Layout) SharedMatches(binds []*bind.Bind) bool {
	return bindsMatch(l.shared, binds)
}

// SettingsMatches reports whether binds conform to the settings layouts, in order.
func (l *Layout) SettingsMatches(binds []*bind.Bind) bool {
	return bindsMatch(l.settings, binds)
}

// Release frees the device pipeline layout.
func (l *Layout) Release() {
	if l.raw != nil {
		l.raw.Release()
		l.raw = nil
	}
}

// bindGroupEntries lists the layout entries of every bind group in group-index order.
func bindGroupEntries(shared, settings []*bind.Layout) [][]wgpu.BindGroupLayoutEntry {
	out := make([][]wgpu.BindGroupLayoutEntry, 0, len(shared)+len(settings))
	for _, l := range shared {
		out = append(out, l.Schema().Descriptor(l.Label()).Entries)
	}
	for _, l := range settings {
		out = append(out, l.Schema().Descriptor(l.Label()).Entries)
	}
	return out
}

func bindsMatch(layouts []*bind.Layout, binds []*bind.Bind) bool {
	if len(layouts) != len(binds) {
		return false
	}
	for i, b := range binds {
		if b == nil || b.Layout() != layouts[i] {
			return false
		}
	}
	return true
}

// LayoutLabels renders the labels of binds' layouts for panic messages.
func LayoutLabels(binds []*bind.Bind) []string {
	out := make([]string, len(binds))
	for i, b := range binds {
		if b == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = b.Layout().Label()
	}
	return out
}

// Labels renders the labels of layouts for panic messages.
func Labels(layouts []*bind.Layout) []string {
	out := make([]string, len(layouts))
	for i, l := range layouts {
		out[i] = l.Label()
	}
	return out
}
