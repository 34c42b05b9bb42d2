package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyQ     = 81 // Q key (ASCII)
	KeyE     = 69 // E key (ASCII)
	KeyB     = 66 // B key (ASCII)
	KeyC     = 67 // C key (ASCII)
	KeyL     = 76 // L key (ASCII)
	KeyM     = 77 // M key (ASCII)
	KeyN     = 78 // N key (ASCII)
	KeyP     = 80 // P key (ASCII)
	KeyR     = 82 // R key (ASCII)
	KeyT     = 84 // T key (ASCII)
	KeyY     = 89 // Y key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
)

// Additional non-printable keys
const (
	KeyEsc        = 256 // Escape key (GLFW)
	KeyF1         = 290 // F1 (GLFW)
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)

	// KeyLast is the highest key code tracked by the input layer.
	KeyLast = 348
)
