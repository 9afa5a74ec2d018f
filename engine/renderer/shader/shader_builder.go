package shader

import "io/fs"

// sourceConfig holds the options applied by Load and Parse.
type sourceConfig struct {
	label string
	fsys  fs.FS
	pp    PreProcessor
}

// SourceBuilderOption is a functional option for Load, Parse and Watcher.Watch.
type SourceBuilderOption func(*sourceConfig)

func newSourceConfig(options ...SourceBuilderOption) *sourceConfig {
	cfg := &sourceConfig{pp: defaultPreProcessor}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// WithLabel overrides the module label, which otherwise comes from the file name.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - SourceBuilderOption: a function that applies the label
func WithLabel(label string) SourceBuilderOption {
	return func(c *sourceConfig) {
		c.label = label
	}
}

// WithFS reads sources from a file system, such as an embed.FS, instead of the OS.
//
// Parameters:
//   - fsys: the file system
//
// Returns:
//   - SourceBuilderOption: a function that applies the file system
func WithFS(fsys fs.FS) SourceBuilderOption {
	return func(c *sourceConfig) {
		c.fsys = fsys
	}
}

// WithPreProcessor expands annotations with pp instead of the default pre-processor.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - SourceBuilderOption: a function that applies the pre-processor
func WithPreProcessor(pp PreProcessor) SourceBuilderOption {
	return func(c *sourceConfig) {
		if pp != nil {
			c.pp = pp
		}
	}
}
