package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	surfaceWidth  int
	surfaceHeight int

	// Surface image acquired by Submit and held until Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
	//
	// Parameters:
	//   - width: the width of the surface in pixels
	//   - height: the height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the texture format of the configured surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout and
	// render pipeline for p, and stores the result on p.
	//
	// Parameters:
	//   - p: the pipeline holding the program and fixed-function state
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// CreateAttachment allocates a 2D texture and its default view.
	//
	// Parameters:
	//   - desc: the attachment description
	//
	// Returns:
	//   - render_target.Attachment: the allocated attachment
	//   - error: an error if the texture or view could not be created
	CreateAttachment(desc render_target.AttachmentDescriptor) (render_target.Attachment, error)

	// InitMeshBuffers creates and fills the vertex and index buffers for a mesh and stores them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw index bytes, length a multiple of 4
	//   - indexCount: the number of indices drawn
	//   - format: the element type of indexData
	//
	// Returns:
	//   - error: an error if the buffers could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error

	// InitBindGroup creates uniform buffers for every buffer entry of descriptor and the bind group itself.
	// Texture and sampler entries must already be populated on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the layout the bind group must match
	//
	// Returns:
	//   - error: an error if any resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView references an attachment's view at a binding. The provider does not take ownership.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the view on
	//   - binding: the binding index
	//   - attachment: the attachment whose view is bound
	//
	// Returns:
	//   - error: an error if the attachment has no view
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, attachment render_target.Attachment) error

	// InitSampler creates a GPU sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - binding: the binding index
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: the writes to apply
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// Submit writes the list's uniforms, encodes every pass into one command encoder and submits it.
	// The surface image is acquired when a pass targets it and held until Present.
	//
	// Parameters:
	//   - list: the frame's passes
	//   - pipelines: registered pipelines keyed by PipelineKey
	//
	// Returns:
	//   - error: an error if the surface could not be acquired or encoding failed
	Submit(list CommandList, pipelines map[string]pipeline.Pipeline) error

	// Present presents the acquired surface image, if any, and releases it.
	Present()

	// Release frees the device-level objects.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	common.Logger().Info("gpu device ready", "fallbackAdapter", forceFallbackAdapter)
	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configureSurfaceLocked(width, height)
}

func (b *wgpuRendererBackendImpl) configureSurfaceLocked(width, height int) {
	b.surfaceWidth, b.surfaceHeight = width, height

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	common.Logger().Debug("surface configured", "width", width, "height", height, "format", b.surfaceFormat)
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("vertex module %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("fragment module %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	layouts := p.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range layouts {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		desc, ok := layouts[g]
		if !ok {
			return fmt.Errorf("bind group %d is not declared by either stage", g)
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		defer layout.Release()
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(vertexShader.VertexLayouts()))
	for i := range vertexShader.VertexLayouts() {
		vertexLayouts = append(vertexLayouts, vertexShader.VertexLayout(i)...)
	}

	targets := make([]wgpu.ColorTargetState, 0, len(p.ColorFormats()))
	for _, format := range p.ColorFormats() {
		if format == wgpu.TextureFormatUndefined {
			format = b.surfaceFormat
		}
		state := wgpu.ColorTargetState{
			Format:    format,
			WriteMask: p.WriteMask(),
		}
		if p.BlendEnabled() {
			state.Blend = p.BlendState()
		}
		targets = append(targets, state)
	}

	var depthStencil *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		depthStencil = &wgpu.DepthStencilState{
			Format:            p.DepthFormat(),
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	common.Logger().Debug("render pipeline created", "pipeline", p.PipelineKey(), "targets", len(targets), "depth", depthStencil != nil)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateAttachment(desc render_target.AttachmentDescriptor) (render_target.Attachment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return render_target.NewAttachment(desc, tex, view), nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	mesh := bind_group_provider.MeshBuffers{IndexCount: indexCount, IndexFormat: format}
	var err error
	if mesh.Vertex, err = b.uploadBuffer(provider.Label()+" Vertex Buffer", wgpu.BufferUsageVertex, vertexData); err != nil {
		return err
	}
	if mesh.Index, err = b.uploadBuffer(provider.Label()+" Index Buffer", wgpu.BufferUsageIndex, indexData); err != nil {
		if mesh.Vertex != nil {
			mesh.Vertex.Release()
		}
		return err
	}
	provider.SetMesh(mesh)
	return nil
}

// uploadBuffer creates a buffer holding data, or returns nil for empty data.
func (b *wgpuRendererBackendImpl) uploadBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		switch {
		case isTexture:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view, call InitTextureView first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		case isSampler:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler, call InitSampler first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				if entry.Buffer.MinBindingSize == 0 {
					return fmt.Errorf("buffer binding %d has no resolvable size", binding)
				}
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
					Size:  entry.Buffer.MinBindingSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, attachment render_target.Attachment) error {
	if attachment == nil || attachment.View() == nil {
		return fmt.Errorf("binding %d: attachment has no view", binding)
	}
	provider.SetBorrowedTextureView(binding, attachment.View())
	return nil
}

// InitSampler passes filter and address modes through unchanged; zero means nearest and repeat.
func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  samplerStagingData.AddressModeU,
		AddressModeV:  samplerStagingData.AddressModeV,
		AddressModeW:  samplerStagingData.AddressModeW,
		MagFilter:     samplerStagingData.MagFilter,
		MinFilter:     samplerStagingData.MinFilter,
		MipmapFilter:  samplerStagingData.MipmapFilter,
		LodMinClamp:   samplerStagingData.LodMinClamp,
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
		Compare:       samplerStagingData.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(binding, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeBuffersLocked(writes)
}

func (b *wgpuRendererBackendImpl) writeBuffersLocked(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			common.Logger().Warn("uniform write dropped, no buffer", "uniform", w.Name, "provider", w.Provider.Label(), "binding", w.Binding)
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) Submit(list CommandList, pipelines map[string]pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if list.UsesSurface() && b.frameSurface == nil {
		surfaceTexture, err := acquireOrReconfigure(b.surface.GetCurrentTexture, func() {
			b.configureSurfaceLocked(b.surfaceWidth, b.surfaceHeight)
		})
		if err != nil {
			return err
		}
		view, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return fmt.Errorf("create surface view: %w", err)
		}
		b.frameSurface = surfaceTexture
		b.frameView = view
	}

	b.writeBuffersLocked(list.Writes())

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame Encoder"})
	if err != nil {
		return err
	}
	defer encoder.Release()

	for _, pc := range list.Passes {
		desc, err := b.passDescriptor(pc)
		if err != nil {
			return err
		}
		pass := encoder.BeginRenderPass(desc)
		for _, d := range pc.Draws {
			p, ok := pipelines[d.PipelineKey]
			if !ok || p.RenderPipeline() == nil {
				pass.End()
				pass.Release()
				return fmt.Errorf("%s: render pipeline %q not registered", pc.Name, d.PipelineKey)
			}
			pass.SetPipeline(p.RenderPipeline())
			for g, bg := range d.BindGroups {
				pass.SetBindGroup(uint32(g), bg.BindGroup(), nil)
			}
			mesh := d.Mesh.Mesh()
			pass.SetVertexBuffer(0, mesh.Vertex, 0, wgpu.WholeSize)
			pass.SetIndexBuffer(mesh.Index, mesh.IndexFormat, 0, wgpu.WholeSize)
			pass.DrawIndexed(uint32(mesh.IndexCount), 1, 0, 0, 0)
		}
		pass.End()
		pass.Release()
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}

// acquireOrReconfigure gets the next surface image. When that fails (surface outdated or lost) the
// surface is reconfigured once so the next frame can acquire again; this frame is still dropped.
func acquireOrReconfigure(acquire func() (*wgpu.Texture, error), reconfigure func()) (*wgpu.Texture, error) {
	texture, err := acquire()
	if err != nil {
		common.Logger().Warn("surface unavailable, reconfiguring", "error", err)
		reconfigure()
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	return texture, nil
}

// passDescriptor builds the render pass descriptor for one pass. A nil target renders to the
// surface image acquired for this frame and has no depth attachment.
func (b *wgpuRendererBackendImpl) passDescriptor(pc PassCommand) (*wgpu.RenderPassDescriptor, error) {
	loadOp := wgpu.LoadOpClear
	if pc.Load {
		loadOp = wgpu.LoadOpLoad
	}

	if pc.Target == nil {
		if b.frameView == nil {
			return nil, fmt.Errorf("%s: no surface image acquired", pc.Name)
		}
		return &wgpu.RenderPassDescriptor{
			Label: pc.Name,
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:       b.frameView,
					LoadOp:     loadOp,
					StoreOp:    wgpu.StoreOpStore,
					ClearValue: pc.ClearColor,
				},
			},
		}, nil
	}

	colors := make([]wgpu.RenderPassColorAttachment, 0, len(pc.Target.ColorAttachments()))
	for _, a := range pc.Target.ColorAttachments() {
		colors = append(colors, wgpu.RenderPassColorAttachment{
			View:       a.View(),
			LoadOp:     loadOp,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: pc.ClearColor,
		})
	}
	desc := &wgpu.RenderPassDescriptor{
		Label:            pc.Name,
		ColorAttachments: colors,
	}
	if depth := pc.Target.DepthAttachment(); depth != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.View(),
			DepthLoadOp:     loadOp,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: pc.ClearDepth,
		}
	}
	return desc, nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
