package render_target

import "github.com/cogentcore/webgpu/wgpu"

// RenderTargetBuilderOption is a functional option used to configure a RenderTarget before allocation.
type RenderTargetBuilderOption func(*renderTarget)

// WithColorFormats sets the colour attachment formats, one attachment per format, in order.
//
// Parameters:
//   - formats: the colour formats
//
// Returns:
//   - RenderTargetBuilderOption: option function to apply
func WithColorFormats(formats ...wgpu.TextureFormat) RenderTargetBuilderOption {
	return func(rt *renderTarget) {
		rt.colorFormats = append([]wgpu.TextureFormat(nil), formats...)
	}
}

// WithDepthFormat adds a depth attachment of the given format.
//
// Parameters:
//   - format: the depth format, e.g. wgpu.TextureFormatDepth32Float
//
// Returns:
//   - RenderTargetBuilderOption: option function to apply
func WithDepthFormat(format wgpu.TextureFormat) RenderTargetBuilderOption {
	return func(rt *renderTarget) {
		rt.depthFormat = format
	}
}

// WithUsage overrides the texture usage applied to every attachment.
// The default is RenderAttachment | TextureBinding.
//
// Parameters:
//   - usage: the texture usage flags
//
// Returns:
//   - RenderTargetBuilderOption: option function to apply
func WithUsage(usage wgpu.TextureUsage) RenderTargetBuilderOption {
	return func(rt *renderTarget) {
		rt.usage = usage
	}
}
