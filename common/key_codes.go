package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyM     = 77  // M key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
)

// Modifier bit flags reported alongside pointer events.
// These values match GLFW modifier flags.
const (
	ModShift   = 0x0001
	ModControl = 0x0002
	ModAlt     = 0x0004
)
