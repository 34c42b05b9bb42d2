package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RenderTargetFormat is the format of every offscreen attachment. Lensing output and bloom are
// HDR, so the attachments keep values above 1 until the composite pass tone maps them.
const RenderTargetFormat = wgpu.TextureFormatRGBA16Float

// ErrSurfaceUnavailable is returned by BeginFrame while the surface has no area, such as when
// the window is minimized. Callers skip the frame.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// preferredSurfaceFormat picks the first non-sRGB 8-bit format the surface supports, falling back
// to the first reported format. The composite pass applies gamma itself, so an sRGB surface would
// encode twice.
//
// Parameters:
//   - formats: the formats reported by the surface capabilities
//
// Returns:
//   - wgpu.TextureFormat: the format to configure the surface with
func preferredSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return formats[0]
}
