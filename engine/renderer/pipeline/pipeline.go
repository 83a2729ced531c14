package pipeline

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Slot addresses a single resource binding inside a pipeline's layout.
type Slot struct {
	Group   int
	Binding int
}

// String formats the slot as group/binding for logs.
func (s Slot) String() string {
	return fmt.Sprintf("@group(%d) @binding(%d)", s.Group, s.Binding)
}

// pipeline is the implementation of the Pipeline interface.
// It holds the program (vertex + fragment shader pair), the resolved uniform slots, the merged
// bind group layouts and the fixed-function state used when the GPU pipeline is created.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set once the backend has created the GPU object
	renderPipeline *wgpu.RenderPipeline

	// uniformNames lists the names requested with WithUniforms, in request order
	uniformNames []string
	// uniforms maps each resolved name to its slot; unresolved names are absent
	uniforms map[string]Slot
	// layouts holds the vertex and fragment bind group layouts merged per group index
	layouts map[int]wgpu.BindGroupLayoutDescriptor

	// colorFormats lists one format per color attachment. wgpu.TextureFormatUndefined stands
	// for the surface format and is resolved by the backend.
	colorFormats []wgpu.TextureFormat
	// depthFormat is wgpu.TextureFormatUndefined when the pipeline has no depth-stencil state
	depthFormat wgpu.TextureFormat

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a linked GPU program: a vertex and fragment shader pair,
// the fixed-function state used to create the render pipeline, and the uniform slots resolved
// once at construction so the per-frame path never searches by name.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline object, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU render pipeline, if one was created. Safe to call more than once.
	Release()

	// Uniform returns the slot a named uniform resolved to.
	//
	// Parameters:
	//   - name: the uniform name as declared in WGSL
	//
	// Returns:
	//   - Slot: the group and binding of the uniform
	//   - bool: false if the name was not requested or did not resolve
	Uniform(name string) (Slot, bool)

	// UniformNames returns the names requested with WithUniforms, in request order.
	//
	// Returns:
	//   - []string: the requested uniform names
	UniformNames() []string

	// BindGroupLayoutDescriptor returns the layout for a group with vertex and fragment entries merged.
	// Bind groups created from this descriptor are compatible with the pipeline layout.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the merged descriptor, empty if no stage declares the group
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns all merged layouts keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// ColorFormats returns one format per color target. wgpu.TextureFormatUndefined means the surface format.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the color target formats
	ColorFormats() []wgpu.TextureFormat

	// DepthFormat returns the depth attachment format, or wgpu.TextureFormatUndefined for none.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, only applied when blending is enabled
	BlendState() *wgpu.BlendState
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. Shaders and state are supplied through options; once they
// are applied the requested uniform names are resolved against the vertex shader first and then the
// fragment shader. A name that resolves in neither is logged and left unresolved.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		uniforms:          make(map[string]Slot),
		colorFormats:      []wgpu.TextureFormat{wgpu.TextureFormatUndefined},
		depthFormat:       wgpu.TextureFormatUndefined,
		depthTestEnabled:  false,
		depthWriteEnabled: false,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertexLayouts = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragmentLayouts = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	p.layouts = mergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
	for g, desc := range p.layouts {
		desc.Label = fmt.Sprintf("%s_group%d", pipelineKey, g)
		p.layouts[g] = desc
	}

	p.resolveUniforms()
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

func (p *pipeline) Uniform(name string) (Slot, bool) {
	s, ok := p.uniforms[name]
	return s, ok
}

func (p *pipeline) UniformNames() []string {
	return p.uniformNames
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.layouts[group]
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.layouts
}

func (p *pipeline) ColorFormats() []wgpu.TextureFormat {
	return p.colorFormats
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

// resolveUniforms looks each requested name up in the vertex stage, then the fragment stage.
func (p *pipeline) resolveUniforms() {
	for _, name := range p.uniformNames {
		resolved := false
		for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
			if s == nil {
				continue
			}
			if g, b, ok := s.ResolveVarName(name); ok {
				p.uniforms[name] = Slot{Group: g, Binding: b}
				resolved = true
				break
			}
		}
		if !resolved {
			common.Logger().Warn("uniform not found in program", "pipeline", p.pipelineKey, "uniform", name)
		}
	}
}

// mergeBindGroupLayouts merges the bind group layout descriptors from a vertex and fragment shader.
// Groups declared by only one stage are used as-is. Groups declared by both are merged by binding
// number, OR-ing the visibility of bindings that appear in both stages.
//
// Parameters:
//   - vertexLayouts: bind group layouts parsed from the vertex shader
//   - fragmentLayouts: bind group layouts parsed from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group index
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groupIndices := make(map[int]bool)
	for g := range vertexLayouts {
		groupIndices[g] = true
	}
	for g := range fragmentLayouts {
		groupIndices[g] = true
	}

	for g := range groupIndices {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
		}
	}

	return merged
}
