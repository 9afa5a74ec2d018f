package window

// WindowBuilderOption is a functional option for configuring a window created by NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the requested framebuffer width. The platform may grant a different size;
// Width reports the actual one.
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = max(width, 1)
	}
}

// WithHeight sets the requested framebuffer height.
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = max(height, 1)
	}
}

// WithMinWidth sets the smallest width the user can resize the window to.
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the smallest height the user can resize the window to.
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithMaxWidth sets the largest width the user can resize the window to.
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = maxWidth
	}
}

// WithMaxHeight sets the largest height the user can resize the window to.
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxHeight = maxHeight
	}
}
