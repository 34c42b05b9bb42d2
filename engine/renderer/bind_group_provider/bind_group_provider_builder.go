package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBorrowedTextureView binds a texture view the provider does not own, such as a render
// target attachment. The provider never releases it.
//
// Parameters:
//   - binding: the binding index for this view
//   - tv: the texture view to reference
//
// Returns:
//   - BindGroupProviderOption: a function that stores the borrowed view for the specified binding
func WithBorrowedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
		p.borrowed[binding] = true
	}
}
