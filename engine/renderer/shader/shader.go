// Package shader loads WGSL sources, expands @oxy: annotations, reflects the resource
// interface a source declares and compiles sources into device shader modules.
package shader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
)

// source is the implementation of the Source interface.
type source struct {
	label        string
	path         string
	code         string
	reflection   *Reflection
	declarations []Annotation
}

// Source is a pre-processed WGSL shader source together with its reflection.
type Source interface {
	// Label returns the debug label used for the shader module.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Path returns the file the source was loaded from, or an empty string for sources
	// built with Parse.
	//
	// Returns:
	//   - string: the path
	Path() string

	// Code returns the expanded WGSL text.
	//
	// Returns:
	//   - string: the WGSL code handed to the device
	Code() string

	// Reflection returns the resource interface of the expanded code.
	//
	// Returns:
	//   - *Reflection: the reflection
	Reflection() *Reflection

	// Declarations returns the @oxy:group annotations of the original text.
	//
	// Returns:
	//   - []Annotation: group annotations in source order
	Declarations() []Annotation

	// Descriptor returns the module descriptor for the device.
	//
	// Returns:
	//   - *gpu.ShaderModuleDescriptor: the descriptor
	Descriptor() *gpu.ShaderModuleDescriptor
}

var _ Source = &source{}

// Parse pre-processes and reflects WGSL text.
//
// Parameters:
//   - label: the debug label for the module
//   - code: the WGSL text, possibly containing @oxy: annotations
//   - options: functional options (pre-processor)
//
// Returns:
//   - Source: the processed source
//   - error: an annotation error
func Parse(label, code string, options ...SourceBuilderOption) (Source, error) {
	cfg := newSourceConfig(options...)
	return parse(cfg, label, "", code)
}

// Load reads a WGSL file and parses it. The label defaults to the file name without extension.
//
// Parameters:
//   - path: the file to read, relative to the configured file system when WithFS is used
//   - options: functional options (label, file system, pre-processor)
//
// Returns:
//   - Source: the processed source
//   - error: a read or annotation error
func Load(path string, options ...SourceBuilderOption) (Source, error) {
	cfg := newSourceConfig(options...)

	var data []byte
	var err error
	if cfg.fsys != nil {
		data, err = fs.ReadFile(cfg.fsys, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("shader: read %q: %w", path, err)
	}

	label := cfg.label
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return parse(cfg, label, path, string(data))
}

// MustLoad is Load that panics on error, for sources embedded in the binary.
func MustLoad(path string, options ...SourceBuilderOption) Source {
	s, err := Load(path, options...)
	if err != nil {
		panic(err.Error())
	}
	return s
}

func parse(cfg *sourceConfig, label, path, code string) (Source, error) {
	expanded, declarations, err := cfg.pp.Process(code)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("shader: pre-process %q: %w", path, err)
		}
		return nil, fmt.Errorf("shader: pre-process %q: %w", label, err)
	}
	return &source{
		label:        label,
		path:         path,
		code:         expanded,
		reflection:   Reflect(expanded),
		declarations: declarations,
	}, nil
}

// Compile hands a source to the device.
//
// Parameters:
//   - device: the device that compiles the module
//   - src: the source to compile
//
// Returns:
//   - gpu.ShaderModule: the compiled module
//   - error: the device error, wrapped
func Compile(device gpu.Device, src Source) (gpu.ShaderModule, error) {
	module, err := device.CreateShaderModule(src.Descriptor())
	if err != nil {
		return nil, fmt.Errorf("shader: compile %q: %w", src.Label(), err)
	}
	common.Logger().Debug("shader module compiled", "label", src.Label(), "bindings", len(src.Reflection().Bindings))
	return module, nil
}

func (s *source) Label() string {
	return s.label
}

func (s *source) Path() string {
	return s.path
}

func (s *source) Code() string {
	return s.code
}

func (s *source) Reflection() *Reflection {
	return s.reflection
}

func (s *source) Declarations() []Annotation {
	return s.declarations
}

func (s *source) Descriptor() *gpu.ShaderModuleDescriptor {
	return &gpu.ShaderModuleDescriptor{
		Label: s.label,
		WGSL:  s.code,
	}
}
