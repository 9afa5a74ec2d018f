package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/shader"
)

// ComputeLayout is the compute counterpart of Layout: shared data groups followed by
// settings groups, with no vertex input or color target.
type ComputeLayout struct {
	label    string
	shared   []*bind.Layout
	settings []*bind.Layout
	raw      gpu.PipelineLayout
}

// NewComputeLayout creates a compute pipeline layout with exactly one CreatePipelineLayout call.
// WithVertexLayout and WithTargetFormat are ignored.
//
// Parameters:
//   - device: the device to create the layout on
//   - options: functional options (shared layouts, settings layouts, label)
//
// Returns:
//   - *ComputeLayout: the layout
//   - error: device error, if any
func NewComputeLayout(device gpu.Device, options ...LayoutBuilderOption) (*ComputeLayout, error) {
	cfg := newLayoutConfig("compute-layout", options)
	raw, err := createPipelineLayout(device, cfg)
	if err != nil {
		return nil, err
	}
	return &ComputeLayout{label: cfg.label, shared: cfg.shared, settings: cfg.settings, raw: raw}, nil
}

// Label returns the debug label.
func (l *ComputeLayout) Label() string { return l.label }

// SharedLayouts returns the bind group layouts of the shared data groups.
func (l *ComputeLayout) SharedLayouts() []*bind.Layout { return l.shared }

// SettingsLayouts returns the bind group layouts of the settings groups.
func (l *ComputeLayout) SettingsLayouts() []*bind.Layout { return l.settings }

// Raw returns the device pipeline layout.
func (l *ComputeLayout) Raw() gpu.PipelineLayout { return l.raw }

// SharedMatches reports whether binds conform to the shared data layouts, in order.
func (l *ComputeLayout) SharedMatches(binds []*bind.Bind) bool {
	return bindsMatch(l.shared, binds)
}

// SettingsMatches reports whether binds conform to the settings layouts, in order.
func (l *ComputeLayout) SettingsMatches(binds []*bind.Bind) bool {
	return bindsMatch(l.settings, binds)
}

// Release frees the device pipeline layout.
func (l *ComputeLayout) Release() {
	if l.raw != nil {
		l.raw.Release()
		l.raw = nil
	}
}

// ComputeConfig is the compute pipeline configuration.
type ComputeConfig struct {
	Label      string
	EntryPoint string

	reflection *shader.Reflection
}

// ComputeShaderBuilderOption is a functional option used to configure a compute pipeline during CreateComputePipeline.
type ComputeShaderBuilderOption func(*ComputeConfig)

// WithComputeLabel sets the debug label of the compute pipeline.
func WithComputeLabel(label string) ComputeShaderBuilderOption {
	return func(c *ComputeConfig) {
		c.Label = label
	}
}

// WithComputeEntry sets the compute entry point name. The default is "cs".
func WithComputeEntry(entry string) ComputeShaderBuilderOption {
	return func(c *ComputeConfig) {
		c.EntryPoint = entry
	}
}

// WithComputeReflection checks the reflected WGSL bindings against the layout before compiling.
func WithComputeReflection(r *shader.Reflection) ComputeShaderBuilderOption {
	return func(c *ComputeConfig) {
		c.reflection = r
	}
}

// ComputeShader is a compute pipeline compiled against a ComputeLayout.
type ComputeShader struct {
	label    string
	layout   *ComputeLayout
	pipeline gpu.ComputePipeline
}

// CreateComputePipeline compiles module's compute entry point against the layout.
//
// Parameters:
//   - device: the device to compile on
//   - module: the shader module
//   - options: functional options (label, entry point, reflection)
//
// Returns:
//   - *ComputeShader: the compiled shader
//   - error: a reflection mismatch or device error
func (l *ComputeLayout) CreateComputePipeline(device gpu.Device, module gpu.ShaderModule, options ...ComputeShaderBuilderOption) (*ComputeShader, error) {
	cfg := ComputeConfig{EntryPoint: "cs"}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.Label == "" {
		cfg.Label = l.label + "-compute"
	}

	if cfg.reflection != nil {
		if err := cfg.reflection.Validate(bindGroupEntries(l.shared, l.settings), nil); err != nil {
			return nil, fmt.Errorf("compute shader %q does not match layout %q: %w", cfg.Label, l.label, err)
		}
	}

	raw, err := device.CreateComputePipeline(&gpu.ComputePipelineDescriptor{
		Label:      cfg.Label,
		Layout:     l.raw,
		Module:     module,
		EntryPoint: cfg.EntryPoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compute pipeline %q: %w", cfg.Label, err)
	}

	common.Logger().Debug("compute pipeline compiled", "label", cfg.Label, "layout", l.label)
	return &ComputeShader{label: cfg.Label, layout: l, pipeline: raw}, nil
}

// Label returns the debug label.
func (s *ComputeShader) Label() string { return s.label }

// Layout returns the layout the shader was compiled against.
func (s *ComputeShader) Layout() *ComputeLayout { return s.layout }

// Pipeline returns the device compute pipeline.
func (s *ComputeShader) Pipeline() gpu.ComputePipeline { return s.pipeline }

// ComputeShader returns s, so a bare ComputeShader is a ComputeShaderHandle for layouts without settings.
func (s *ComputeShader) ComputeShader() *ComputeShader { return s }

// CurrentSettings returns nil.
func (s *ComputeShader) CurrentSettings() []*bind.Bind { return nil }

// Release frees the device pipeline.
func (s *ComputeShader) Release() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
}

// ComputeShaderHandle is anything a compute pass can apply.
type ComputeShaderHandle interface {
	ComputeShader() *ComputeShader
	CurrentSettings() []*bind.Bind
}

var (
	_ ComputeShaderHandle = &ComputeShader{}
	_ ComputeShaderHandle = &ComputeShaderInstance{}
)

// ComputeShaderInstance pairs a compute shader with swappable settings.
type ComputeShaderInstance struct {
	shader *ComputeShader

	mu       sync.RWMutex
	settings []*bind.Bind
}

// NewComputeShaderInstance creates an instance. Panics if settings do not conform to the layout.
func NewComputeShaderInstance(s *ComputeShader, settings ...*bind.Bind) *ComputeShaderInstance {
	checkComputeSettings(s.layout, settings)
	return &ComputeShaderInstance{shader: s, settings: append([]*bind.Bind(nil), settings...)}
}

// ComputeShader returns the shader.
func (i *ComputeShaderInstance) ComputeShader() *ComputeShader {
	return i.shader
}

// CurrentSettings returns a copy of the current settings.
func (i *ComputeShaderInstance) CurrentSettings() []*bind.Bind {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]*bind.Bind(nil), i.settings...)
}

// SetSettings replaces the settings. Panics if they do not conform to the layout.
func (i *ComputeShaderInstance) SetSettings(settings ...*bind.Bind) {
	checkComputeSettings(i.shader.layout, settings)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.settings = append([]*bind.Bind(nil), settings...)
}

func checkComputeSettings(l *ComputeLayout, settings []*bind.Bind) {
	if !l.SettingsMatches(settings) {
		panic(fmt.Sprintf("pipeline: settings %v do not match compute layout %q settings %v",
			LayoutLabels(settings), l.label, Labels(l.settings)))
	}
}
