package renderer

import "github.com/cogentcore/webgpu/wgpu"

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	label    string
	width    int
	height   int
	textures []*wgpu.Texture
	views    []*wgpu.TextureView
}

// RenderTarget is an offscreen framebuffer with one or more RGBA16F colour attachments. Every
// attachment can be rendered into and sampled from, which is how the bright-pass output feeds the
// blur passes and the blur output feeds the composite pass.
//
// Render targets are treated as values: a resize releases the old target and creates a new one
// rather than resizing in place.
type RenderTarget interface {
	// Label returns the debug label the target was created with.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Width returns the width of every attachment in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the height of every attachment in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int

	// AttachmentCount returns the number of colour attachments.
	//
	// Returns:
	//   - int: the attachment count
	AttachmentCount() int

	// View returns the texture view of an attachment, used both as a pass output and as a bind
	// group input.
	//
	// Parameters:
	//   - attachment: the attachment index
	//
	// Returns:
	//   - *wgpu.TextureView: the view, or nil if the index is out of range
	View(attachment int) *wgpu.TextureView

	// Format returns the texture format shared by all attachments.
	//
	// Returns:
	//   - wgpu.TextureFormat: the attachment format
	Format() wgpu.TextureFormat

	// Release releases every attachment texture and view. Bind groups that sample the target
	// must be rebuilt afterwards.
	Release()
}

var _ RenderTarget = &renderTarget{}

func (t *renderTarget) Label() string {
	return t.label
}

func (t *renderTarget) Width() int {
	return t.width
}

func (t *renderTarget) Height() int {
	return t.height
}

func (t *renderTarget) AttachmentCount() int {
	return len(t.views)
}

func (t *renderTarget) View(attachment int) *wgpu.TextureView {
	if attachment < 0 || attachment >= len(t.views) {
		return nil
	}
	return t.views[attachment]
}

func (t *renderTarget) Format() wgpu.TextureFormat {
	return RenderTargetFormat
}

func (t *renderTarget) Release() {
	for i, v := range t.views {
		if v != nil {
			v.Release()
		}
		t.views[i] = nil
	}
	for i, tex := range t.textures {
		if tex != nil {
			tex.Release()
		}
		t.textures[i] = nil
	}
	t.views = nil
	t.textures = nil
}

// clampExtent keeps render target dimensions valid while the window is minimized.
func clampExtent(width, height int) (uint32, uint32) {
	return uint32(max(width, 1)), uint32(max(height, 1))
}
