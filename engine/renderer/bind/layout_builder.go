package bind

// LayoutBuilderOption is a functional option used to configure a Layout during construction.
type LayoutBuilderOption func(*Layout)

// WithLayoutLabel sets the debug label of the layout. Binds built on the layout derive
// their bind group labels from it.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - LayoutBuilderOption: a function that sets the label
func WithLayoutLabel(label string) LayoutBuilderOption {
	return func(l *Layout) {
		l.label = label
	}
}
