package common

// Virtual key codes delivered by the window's key callbacks.
// Printable keys use their ASCII value; the rest follow GLFW numbering.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	KeyP = 80 // P key (ASCII)
	KeyR = 82 // R key (ASCII)
)
