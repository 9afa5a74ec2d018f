package shader

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownInclude is wrapped when an annotation names a source that was never registered.
var ErrUnknownInclude = errors.New("shader: unknown include")

// registryEntry pairs a WGSL snippet with the struct type name it defines.
type registryEntry struct {
	// Source is the WGSL text pasted by @oxy:include.
	Source string

	// Type is the WGSL type name emitted by @oxy:group, e.g. "CameraUniform".
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	mu       sync.RWMutex
	registry map[string]registryEntry
}

// PreProcessor expands @oxy: annotations in WGSL source using a registry of named snippets.
// It is safe for concurrent use.
type PreProcessor interface {
	// Register stores a WGSL snippet under a name. Registering a name again replaces it.
	//
	// Parameters:
	//   - name: the name used by annotations, e.g. "camera"
	//   - typeName: the WGSL struct the snippet defines, e.g. "CameraUniform"
	//   - source: the WGSL snippet
	Register(name, typeName, source string)

	// Process replaces every annotation with its WGSL expansion. A name included more than
	// once is pasted only the first time, and a group annotation whose type was not included
	// explicitly pulls its snippet in ahead of the declaration.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded source
	//   - []Annotation: the group annotations in source order
	//   - error: a malformed annotation or an unregistered name (wrapping ErrUnknownInclude)
	Process(source string) (string, []Annotation, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor with an empty registry.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{registry: make(map[string]registryEntry)}
}

var defaultPreProcessor = NewPreProcessor()

// DefaultPreProcessor returns the process-wide pre-processor used when a source is loaded
// without WithPreProcessor. Packages that define GPU structs register their WGSL here.
func DefaultPreProcessor() PreProcessor {
	return defaultPreProcessor
}

// Register stores a snippet in the default pre-processor.
func Register(name, typeName, source string) {
	defaultPreProcessor.Register(name, typeName, source)
}

func (p *preProcessor) Register(name, typeName, source string) {
	if name == "" {
		panic("shader: include name must not be empty")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registry[name] = registryEntry{Source: source, Type: typeName}
}

func (p *preProcessor) lookup(name string) (registryEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.registry[name]
	return e, ok
}

func (p *preProcessor) Process(source string) (string, []Annotation, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[string]bool)
	var declarations []Annotation

	include := func(name string, line int) (registryEntry, error) {
		entry, ok := p.lookup(name)
		if !ok {
			return registryEntry{}, fmt.Errorf("line %d: %w %q", line, ErrUnknownInclude, name)
		}
		if !included[name] {
			included[name] = true
			out = append(out, entry.Source)
		}
		return entry, nil
	}

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", nil, err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			if _, err := include(a.Args[0], a.Line); err != nil {
				return "", nil, err
			}
		case AnnotationTypeGroup:
			typeArg := a.Args[2]
			inner, isArray := strings.CutPrefix(typeArg, "array<")
			if isArray {
				typeArg = strings.TrimSuffix(inner, ">")
			}
			entry, err := include(typeArg, a.Line)
			if err != nil {
				return "", nil, err
			}
			wgslType := entry.Type
			if isArray {
				wgslType = "array<" + wgslType + ">"
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], wgslType))
			declarations = append(declarations, *a)
		}
	}
	return strings.Join(out, "\n"), declarations, nil
}
