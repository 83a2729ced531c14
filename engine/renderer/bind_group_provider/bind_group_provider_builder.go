package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexFormat sets the element type used when the provider's index buffer is bound.
//
// Parameters:
//   - format: the index format, e.g. wgpu.IndexFormatUint16
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index format for this provider
func WithIndexFormat(format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.mesh.IndexFormat = format
	}
}
