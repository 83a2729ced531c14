package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/Carmen-Shannon/oxy-deferred/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPipelineKeyConflict is returned when a different Pipeline is registered under a key already in use.
var ErrPipelineKeyConflict = errors.New("pipeline key already registered")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer defines the interface for the rendering system.
//
// Resources (pipelines, attachments, mesh buffers, bind groups) are created up front through the
// Init*/Register*/Create* methods. Each frame the caller records a CommandList and hands it to
// Submit, then calls Present. The Renderer also implements render_target.Allocator so render
// targets can be allocated directly against it.
type Renderer interface {
	render_target.Allocator

	// Pipeline retrieves the registered Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline and caches it by PipelineKey.
	// Registering the same Pipeline twice is a no-op. A different Pipeline under a registered key is
	// rejected with ErrPipelineKeyConflict.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: a *common.ResourceCreationError naming the first pipeline that failed
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SurfaceFormat returns the texture format of the presentable surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU, length a multiple of 4
	//   - indexCount: the number of indices, used for draw calls
	//   - format: the element type of indexData
	//
	// Returns:
	//   - error: a *common.ResourceCreationError if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error

	// InitBindGroup creates uniform buffers and the bind group described by descriptor and stores them
	// on the provider. Textures and samplers must be initialized via InitTextureView and InitSampler first.
	// Use the pipeline's merged descriptor so the bind group matches the pipeline layout.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: a *common.ResourceCreationError if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView binds an attachment's view at the given binding. The attachment keeps ownership.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the view on
	//   - binding: the binding index for this texture
	//   - attachment: the attachment to sample
	//
	// Returns:
	//   - error: a *common.ResourceCreationError if the attachment has no view
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, attachment render_target.Attachment) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - binding: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: a *common.ResourceCreationError if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes buffer data outside of a frame submission.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// Submit validates the list, writes its uniforms and encodes every pass into one submission.
	//
	// Parameters:
	//   - list: the frame's passes
	//
	// Returns:
	//   - error: a validation error or a per-frame GPU error; neither is fatal
	Submit(list CommandList) error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after Submit.
	Present()

	// Release frees the registered pipelines, then the GPU device and surface.
	// Other resources created through the renderer must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type bound to the window's surface.
// The surface is configured once at the window's drawable size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and drawable size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
		}
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if cached, exists := r.pipelineCache[key]; exists {
			if cached != p {
				return common.NewResourceCreationError(fmt.Sprintf("pipeline %q", key), ErrPipelineKeyConflict)
			}
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return common.NewResourceCreationError(fmt.Sprintf("pipeline %q", key), err)
		}
		r.pipelineCache[key] = p
	}
	common.Logger().Info("pipelines registered", "count", len(r.pipelineCache))
	return nil
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) CreateAttachment(desc render_target.AttachmentDescriptor) (render_target.Attachment, error) {
	a, err := r.backend.CreateAttachment(desc)
	if err != nil {
		return nil, common.NewResourceCreationError(desc.Label, err)
	}
	return a, nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error {
	return common.NewResourceCreationError(provider.Label()+" mesh buffers",
		r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount, format))
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return common.NewResourceCreationError(provider.Label()+" bind group",
		r.backend.InitBindGroup(provider, descriptor))
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, attachment render_target.Attachment) error {
	return common.NewResourceCreationError(fmt.Sprintf("%s texture view %d", provider.Label(), binding),
		r.backend.InitTextureView(provider, binding, attachment))
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	return common.NewResourceCreationError(provider.Label()+" sampler",
		r.backend.InitSampler(provider, binding, samplerStagingData))
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) Submit(list CommandList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid command list: %w", err)
	}

	r.mu.Lock()
	pipelines := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		pipelines[k] = p
	}
	r.mu.Unlock()

	return r.backend.Submit(list, pipelines)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()

	r.backend.Release()
}
