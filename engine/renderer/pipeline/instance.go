package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
)

// ShaderHandle is anything a render session can apply: a shader plus the settings binds
// to set at the bind group indices after the shared data.
type ShaderHandle interface {
	Shader() *Shader
	CurrentSettings() []*bind.Bind
}

var (
	_ ShaderHandle = &Shader{}
	_ ShaderHandle = &ShaderInstance{}
	_ ShaderHandle = &StaticShaderInstance{}
)

// ShaderInstance pairs a shader with settings that may be swapped while other goroutines
// record passes with it.
type ShaderInstance struct {
	shader *Shader

	mu       sync.RWMutex
	settings []*bind.Bind
}

// NewShaderInstance creates an instance with the given settings.
// Panics if settings do not conform to the shader layout's settings layouts.
//
// Parameters:
//   - s: the shader
//   - settings: one bind per settings layout, in order
//
// Returns:
//   - *ShaderInstance: the instance
func NewShaderInstance(s *Shader, settings ...*bind.Bind) *ShaderInstance {
	checkSettings(s.layout, settings)
	return &ShaderInstance{shader: s, settings: append([]*bind.Bind(nil), settings...)}
}

// Shader returns the shader.
func (i *ShaderInstance) Shader() *Shader {
	return i.shader
}

// Settings returns a copy of the current settings.
func (i *ShaderInstance) Settings() []*bind.Bind {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]*bind.Bind(nil), i.settings...)
}

// CurrentSettings returns a copy of the current settings.
func (i *ShaderInstance) CurrentSettings() []*bind.Bind {
	return i.Settings()
}

// SetSettings replaces the settings. Panics if they do not conform to the layout.
func (i *ShaderInstance) SetSettings(settings ...*bind.Bind) {
	checkSettings(i.shader.layout, settings)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.settings = append([]*bind.Bind(nil), settings...)
}

// StaticShaderInstance pairs a shader with settings fixed at construction.
type StaticShaderInstance struct {
	shader   *Shader
	settings []*bind.Bind
}

// NewStaticShaderInstance creates an instance whose settings never change.
// Panics if settings do not conform to the shader layout's settings layouts.
func NewStaticShaderInstance(s *Shader, settings ...*bind.Bind) *StaticShaderInstance {
	checkSettings(s.layout, settings)
	return &StaticShaderInstance{shader: s, settings: append([]*bind.Bind(nil), settings...)}
}

// Shader returns the shader.
func (i *StaticShaderInstance) Shader() *Shader {
	return i.shader
}

// CurrentSettings returns the fixed settings.
func (i *StaticShaderInstance) CurrentSettings() []*bind.Bind {
	return i.settings
}

func checkSettings(l *Layout, settings []*bind.Bind) {
	if !l.SettingsMatches(settings) {
		panic(fmt.Sprintf("pipeline: settings %v do not match layout %q settings %v",
			LayoutLabels(settings), l.label, Labels(l.settings)))
	}
}
