package session

// encoderConfig holds the options of a CommandEncoder.
type encoderConfig struct {
	label string
}

// EncoderBuilderOption is a functional option used to configure a CommandEncoder.
type EncoderBuilderOption func(*encoderConfig)

// WithLabel sets the debug label of the encoder and the passes it begins.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - EncoderBuilderOption: a function that sets the label
func WithLabel(label string) EncoderBuilderOption {
	return func(c *encoderConfig) {
		c.label = label
	}
}

func newEncoderConfig(options []EncoderBuilderOption) *encoderConfig {
	c := &encoderConfig{label: "frame"}
	for _, opt := range options {
		opt(c)
	}
	return c
}
