package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MeshBuffers is the vertex and index buffer pair bound for an indexed draw.
type MeshBuffers struct {
	Vertex *wgpu.Buffer
	Index  *wgpu.Buffer
	// IndexCount is the number of indices drawn; padding in the index buffer is not counted.
	IndexCount  int
	IndexFormat wgpu.IndexFormat
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label string

	// GPU handles below are filled in by the renderer and released by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler
	// borrowed marks texture view bindings owned by a render target; Release skips them.
	borrowed map[int]bool

	mesh MeshBuffers
}

// BindGroupProvider holds the GPU resources of one bind group, or of one mesh.
// The camera, each world transform, the lighting inputs and each debug quad own one; so does every
// mesh. The renderer creates the resources into it and reads them back when recording draws.
//
// Usage pattern:
//  1. Owner creates a BindGroupProvider with a label
//  2. Renderer.InitTextureView / InitSampler attach views and samplers
//  3. Renderer.InitBindGroup creates the uniform buffers and the bind group
//  4. Per-frame uniform data is written through BufferWrite values targeting this provider
//  5. Draw recording reads BindGroup() and Mesh()
type BindGroupProvider interface {
	// Release releases the GPU resources held by this provider, except borrowed texture views.
	// Mesh draw metadata (index count and format) is kept.
	Release()

	// Label returns the debug label, also used for GPU object labels.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform or storage buffer at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// TextureViews returns every texture view keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.TextureView: the texture views
	TextureViews() map[int]*wgpu.TextureView

	// Sampler returns the sampler at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// Mesh returns the vertex and index buffers set by InitMeshBuffers.
	//
	// Returns:
	//   - MeshBuffers: the mesh buffers (zero buffers before InitMeshBuffers)
	Mesh() MeshBuffers

	// SetBindGroup stores the bind group. Called by Renderer.InitBindGroup.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the bind group layout. Called by Renderer.InitBindGroup.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer for binding. Called by Renderer.InitBindGroup.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a texture view this provider owns.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetBorrowedTextureView stores a texture view owned elsewhere. Release will not release it.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to reference
	SetBorrowedTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores the sampler for binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the mesh buffers. Called by Renderer.InitMeshBuffers.
	// A zero IndexFormat keeps the provider's current format.
	//
	// Parameters:
	//   - mesh: the created buffers and draw metadata
	SetMesh(mesh MeshBuffers)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
// Meshes default to 16-bit indices.
//
// Parameters:
//   - label: debug label, also used for GPU object labels
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		borrowed:     make(map[int]bool),
		mesh:         MeshBuffers{IndexFormat: wgpu.IndexFormatUint16},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) TextureViews() map[int]*wgpu.TextureView {
	return p.textureViews
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) Mesh() MeshBuffers {
	return p.mesh
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	delete(p.borrowed, binding)
}

func (p *bindGroupProvider) SetBorrowedTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	p.borrowed[binding] = true
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetMesh(mesh MeshBuffers) {
	if mesh.IndexFormat == 0 {
		mesh.IndexFormat = p.mesh.IndexFormat
	}
	p.mesh = mesh
}

func (p *bindGroupProvider) Release() {
	// the bind group references views, samplers and buffers, so it goes first
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil && !p.borrowed[i] {
			tv.Release()
		}
	}
	clear(p.textureViews)
	clear(p.borrowed)
	for _, s := range p.samplers {
		if s != nil {
			s.Release()
		}
	}
	clear(p.samplers)
	for _, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
	}
	clear(p.buffers)

	if p.mesh.Vertex != nil {
		p.mesh.Vertex.Release()
		p.mesh.Vertex = nil
	}
	if p.mesh.Index != nil {
		p.mesh.Index.Release()
		p.mesh.Index = nil
	}
}
