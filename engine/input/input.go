// Package input buffers raw keyboard, mouse and scroll state between window callbacks and the frame update.
package input

import "github.com/Carmen-Shannon/voidstar-go/common"

// InputHandler holds the key table and pending mouse/scroll deltas for one window.
// Deltas accumulate between frames and are cleared when consumed.
type InputHandler interface {
	// OnKey records a key press or release.
	//
	// Parameters:
	//   - key: the virtual key code
	//   - pressed: true on press, false on release
	OnKey(key uint32, pressed bool)

	// IsKeyDown reports whether the key is currently held.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true while the key is held
	IsKeyDown(key uint32) bool

	// ConsumeKeyPress reports whether the key went down since the last call for that key.
	// Holding a key reports true only once.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true if a new press was pending
	ConsumeKeyPress(key uint32) bool

	// OnMouseScroll accumulates a vertical scroll offset.
	//
	// Parameters:
	//   - yOffset: scroll amount, positive away from the user
	OnMouseScroll(yOffset float32)

	// ConsumeScroll returns the accumulated scroll and resets it.
	//
	// Returns:
	//   - float32: scroll since the previous call
	ConsumeScroll() float32

	// OnMouseMovement records a new cursor position and accumulates the delta from the previous one.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	OnMouseMovement(x, y float64)

	// SetInitialMouseXY sets the reference cursor position without producing a delta.
	// Call it after capturing the cursor so the first movement is not a jump.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	SetInitialMouseXY(x, y float64)

	// ConsumeMouseDelta returns the accumulated mouse movement and resets it.
	//
	// Returns:
	//   - float32: horizontal delta in pixels
	//   - float32: vertical delta in pixels
	ConsumeMouseDelta() (float32, float32)
}

type inputHandler struct {
	keyDown    [common.KeyLast + 1]bool
	keyPressed [common.KeyLast + 1]bool

	scroll float32

	hasPosition bool
	lastX       float64
	lastY       float64
	deltaX      float64
	deltaY      float64
}

var _ InputHandler = &inputHandler{}

// NewInputHandler creates an empty InputHandler with no keys held.
func NewInputHandler() InputHandler {
	return &inputHandler{}
}

func (h *inputHandler) OnKey(key uint32, pressed bool) {
	if key > common.KeyLast {
		return
	}
	if pressed && !h.keyDown[key] {
		h.keyPressed[key] = true
	}
	h.keyDown[key] = pressed
}

func (h *inputHandler) IsKeyDown(key uint32) bool {
	if key > common.KeyLast {
		return false
	}
	return h.keyDown[key]
}

func (h *inputHandler) ConsumeKeyPress(key uint32) bool {
	if key > common.KeyLast {
		return false
	}
	p := h.keyPressed[key]
	h.keyPressed[key] = false
	return p
}

func (h *inputHandler) OnMouseScroll(yOffset float32) {
	h.scroll += yOffset
}

func (h *inputHandler) ConsumeScroll() float32 {
	s := h.scroll
	h.scroll = 0
	return s
}

func (h *inputHandler) OnMouseMovement(x, y float64) {
	if !h.hasPosition {
		h.SetInitialMouseXY(x, y)
		return
	}
	h.deltaX += x - h.lastX
	h.deltaY += y - h.lastY
	h.lastX = x
	h.lastY = y
}

func (h *inputHandler) SetInitialMouseXY(x, y float64) {
	h.hasPosition = true
	h.lastX = x
	h.lastY = y
	h.deltaX = 0
	h.deltaY = 0
}

func (h *inputHandler) ConsumeMouseDelta() (float32, float32) {
	dx, dy := float32(h.deltaX), float32(h.deltaY)
	h.deltaX = 0
	h.deltaY = 0
	return dx, dy
}
