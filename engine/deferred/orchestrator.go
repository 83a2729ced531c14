package deferred

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/camera"
	"github.com/Carmen-Shannon/oxy-deferred/engine/light"
	"github.com/Carmen-Shannon/oxy-deferred/engine/model"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DebugQuadCount is the number of GBuffer attachments shown by the debug overlay.
const DebugQuadCount = 2

// ErrUnresolvedUniform is returned when a program does not declare a uniform the passes feed.
var ErrUnresolvedUniform = errors.New("uniform not declared by program")

// Backend is the subset of renderer.Renderer the orchestrator drives.
type Backend interface {
	render_target.Allocator
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, attachment render_target.Attachment) error
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error
	Submit(list renderer.CommandList) error
	Present()
}

var _ Backend = renderer.Renderer(nil)

// sceneObject is one mesh drawn by the geometry pass with its own world uniform.
type sceneObject struct {
	mesh   model.Model
	world  bind_group_provider.BindGroupProvider
	offset mgl32.Vec3
	spins  bool
}

// orchestrator is the implementation of the Orchestrator interface.
type orchestrator struct {
	backend       Backend
	width, height int

	camera       camera.Camera
	light        light.Light
	programs     []ProgramSource
	debugOverlay bool

	pipelines map[string]pipeline.Pipeline
	slots     map[string]pipeline.Slot

	gbuffer       render_target.GBuffer
	objects       []sceneObject
	fullScreen    model.Model
	debugQuad     model.Model
	lightingGroup bind_group_provider.BindGroupProvider
	debugGroups   []bind_group_provider.BindGroupProvider

	released bool
}

// Orchestrator runs the deferred pipeline: a geometry pass into the GBuffer, a full-screen
// lighting pass onto the surface and an optional overlay of the GBuffer attachments.
//
// Everything is created by NewOrchestrator. Each frame records one CommandList whose passes are
// ordered geometry, lighting, debug, and submits it in a single batch.
type Orchestrator interface {
	// Frame advances the animation to timestampMillis, records the frame and presents it.
	// A submission error is returned with the advanced state; the next frame can still run.
	//
	// Parameters:
	//   - state: the previous frame state
	//   - timestampMillis: the host refresh timestamp in milliseconds
	//
	// Returns:
	//   - FrameState: the advanced state
	//   - error: a per-frame submission error
	Frame(state FrameState, timestampMillis float64) (FrameState, error)

	// BuildFrame records the passes for state without touching the GPU.
	//
	// Parameters:
	//   - state: the frame state to draw
	//
	// Returns:
	//   - renderer.CommandList: the geometry, lighting and (optional) debug passes
	BuildFrame(state FrameState) renderer.CommandList

	// GBuffer returns the intermediate render target.
	//
	// Returns:
	//   - render_target.GBuffer: the GBuffer
	GBuffer() render_target.GBuffer

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Light returns the scene light.
	//
	// Returns:
	//   - light.Light: the light
	Light() light.Light

	// Release frees every GPU resource the orchestrator created. Safe to call more than once.
	Release()
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator compiles and registers the programs, allocates the GBuffer, uploads the meshes
// and creates every bind group. Any failure releases what was already created.
//
// Parameters:
//   - backend: the renderer to create resources with and submit to
//   - width: drawable width in pixels
//   - height: drawable height in pixels
//   - options: variadic OrchestratorBuilderOption functions
//
// Returns:
//   - Orchestrator: the ready orchestrator
//   - error: a *common.ResourceCreationError (or several joined) describing the failure
func NewOrchestrator(backend Backend, width, height int, options ...OrchestratorBuilderOption) (Orchestrator, error) {
	o := &orchestrator{
		backend:      backend,
		width:        width,
		height:       height,
		debugOverlay: true,
		pipelines:    make(map[string]pipeline.Pipeline),
		slots:        make(map[string]pipeline.Slot),
	}
	for _, opt := range options {
		opt(o)
	}
	if o.programs == nil {
		o.programs = DefaultPrograms()
	}
	if o.camera == nil {
		aspect := float32(1)
		if height > 0 {
			aspect = float32(width) / float32(height)
		}
		o.camera = camera.NewCamera(camera.WithAspect(aspect))
	}
	if o.light == nil {
		o.light = light.NewLight()
	}

	if err := o.init(); err != nil {
		o.Release()
		return nil, err
	}
	common.Logger().Info("deferred pipeline ready",
		"width", width,
		"height", height,
		"objects", len(o.objects),
		"debugOverlay", o.debugOverlay)
	return o, nil
}

func (o *orchestrator) init() error {
	if err := o.initPrograms(); err != nil {
		return err
	}

	gb, err := render_target.NewGBuffer(o.backend, o.width, o.height)
	if err != nil {
		return err
	}
	o.gbuffer = gb

	if err := o.initMeshes(); err != nil {
		return err
	}
	if err := o.initGeometryGroups(); err != nil {
		return err
	}
	if err := o.initLightingGroup(); err != nil {
		return err
	}
	return o.initDebugGroups()
}

func (o *orchestrator) initPrograms() error {
	compiled, err := CompilePrograms(o.programs)
	if err != nil {
		return err
	}
	if err := o.backend.RegisterPipelines(compiled...); err != nil {
		return err
	}
	for i, p := range compiled {
		o.pipelines[p.PipelineKey()] = p
		for _, name := range o.programs[i].Uniforms {
			slot, ok := p.Uniform(name)
			if !ok {
				return common.NewResourceCreationError(
					fmt.Sprintf("program %q uniform %q", p.PipelineKey(), name), ErrUnresolvedUniform)
			}
			o.slots[p.PipelineKey()+"."+name] = slot
		}
	}
	for _, key := range []string{GeometryProgram, LightingProgram, DebugProgram} {
		if o.pipelines[key] == nil {
			return common.NewResourceCreationError(fmt.Sprintf("program %q", key), errors.New("not configured"))
		}
	}
	return nil
}

func (o *orchestrator) slot(program, name string) pipeline.Slot {
	return o.slots[program+"."+name]
}

func (o *orchestrator) newMesh(name string, geometry model.Geometry) (model.Model, error) {
	m, err := model.NewModel(model.WithName(name), model.WithGeometry(geometry))
	if err != nil {
		return nil, err
	}
	if err := o.backend.InitMeshBuffers(m.MeshProvider(), m.VertexData(), m.IndexData(), m.IndexCount(), model.GPUIndexFormat); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

func (o *orchestrator) initMeshes() error {
	// draw order: both boxes, then the floor
	scene := []struct {
		name     string
		geometry model.Geometry
		offset   mgl32.Vec3
		spins    bool
	}{
		{"box_flat", model.BoxFlatGeometry(), BoxFlatOffset, true},
		{"box_smooth", model.BoxSmoothGeometry(), BoxSmoothOffset, true},
		{"floor", model.FloorGeometry(), mgl32.Vec3{}, false},
	}
	for _, s := range scene {
		m, err := o.newMesh(s.name, s.geometry)
		if err != nil {
			return err
		}
		o.objects = append(o.objects, sceneObject{
			mesh:   m,
			world:  bind_group_provider.NewBindGroupProvider(s.name + "_world"),
			offset: s.offset,
			spins:  s.spins,
		})
	}

	var err error
	if o.fullScreen, err = o.newMesh("full_screen_triangle", model.FullScreenTriangleGeometry()); err != nil {
		return err
	}
	if o.debugQuad, err = o.newMesh("debug_quad", model.DebugQuadGeometry()); err != nil {
		return err
	}
	return nil
}

func (o *orchestrator) initGeometryGroups() error {
	geometry := o.pipelines[GeometryProgram]
	viewProj := o.slot(GeometryProgram, "viewProj")
	if err := o.backend.InitBindGroup(o.camera.BindGroupProvider(), geometry.BindGroupLayoutDescriptor(viewProj.Group)); err != nil {
		return err
	}

	world := o.slot(GeometryProgram, "world")
	for _, obj := range o.objects {
		if err := o.backend.InitBindGroup(obj.world, geometry.BindGroupLayoutDescriptor(world.Group)); err != nil {
			return err
		}
	}
	return nil
}

func (o *orchestrator) initLightingGroup() error {
	lighting := o.pipelines[LightingProgram]
	albedo := o.slot(LightingProgram, "albedoTexture")
	normal := o.slot(LightingProgram, "normalTexture")
	sampler := o.slot(LightingProgram, "gbufferSampler")
	uniform := o.slot(LightingProgram, "lighting")
	for _, s := range []pipeline.Slot{normal, sampler, uniform} {
		if s.Group != albedo.Group {
			return common.NewResourceCreationError("lighting bind group",
				fmt.Errorf("binding %s is not in group %d", s, albedo.Group))
		}
	}

	p := bind_group_provider.NewBindGroupProvider("lighting")
	o.lightingGroup = p
	if err := o.backend.InitTextureView(p, albedo.Binding, o.gbuffer.Albedo()); err != nil {
		return err
	}
	if err := o.backend.InitTextureView(p, normal.Binding, o.gbuffer.Normal()); err != nil {
		return err
	}
	if err := o.backend.InitSampler(p, sampler.Binding, o.gbuffer.Sampler()); err != nil {
		return err
	}
	return o.backend.InitBindGroup(p, lighting.BindGroupLayoutDescriptor(albedo.Group))
}

func (o *orchestrator) initDebugGroups() error {
	if !o.debugOverlay {
		return nil
	}
	debug := o.pipelines[DebugProgram]
	transform := o.slot(DebugProgram, "transform")
	texture := o.slot(DebugProgram, "debugTexture")
	sampler := o.slot(DebugProgram, "debugSampler")
	if texture.Group != transform.Group || sampler.Group != transform.Group {
		return common.NewResourceCreationError("debug bind group",
			fmt.Errorf("bindings %s, %s and %s must share a group", transform, texture, sampler))
	}

	for i, att := range []render_target.Attachment{o.gbuffer.Albedo(), o.gbuffer.Normal()} {
		p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("debug_%d", i))
		o.debugGroups = append(o.debugGroups, p)
		if err := o.backend.InitTextureView(p, texture.Binding, att); err != nil {
			return err
		}
		if err := o.backend.InitSampler(p, sampler.Binding, o.gbuffer.Sampler()); err != nil {
			return err
		}
		if err := o.backend.InitBindGroup(p, debug.BindGroupLayoutDescriptor(transform.Group)); err != nil {
			return err
		}
	}
	return nil
}

// DebugOffset returns the clip-space translation of debug quad i.
//
// Parameters:
//   - i: the quad index, 0 for albedo and 1 for normal
//
// Returns:
//   - mgl32.Vec3: (i*0.5, 0, 0)
func DebugOffset(i int) mgl32.Vec3 {
	return mgl32.Vec3{float32(i) * 0.5, 0, 0}
}

func (o *orchestrator) Frame(state FrameState, timestampMillis float64) (FrameState, error) {
	next := Advance(state, timestampMillis)
	if o.released {
		return next, errors.New("orchestrator released")
	}
	if err := o.backend.Submit(o.BuildFrame(next)); err != nil {
		return next, fmt.Errorf("submit frame: %w", err)
	}
	o.backend.Present()
	return next, nil
}

func (o *orchestrator) BuildFrame(state FrameState) renderer.CommandList {
	var list renderer.CommandList
	list.AddPass(o.geometryPass(state))
	list.AddPass(o.lightingPass())
	if o.debugOverlay {
		list.AddPass(o.debugPass())
	}
	return list
}

func (o *orchestrator) geometryPass(state FrameState) renderer.PassCommand {
	viewProj := o.slot(GeometryProgram, "viewProj")
	worldSlot := o.slot(GeometryProgram, "world")
	frame := o.camera.BindGroupProvider()

	pass := renderer.PassCommand{
		Name:       "geometry",
		Target:     o.gbuffer,
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
		ClearDepth: 1,
		Uniforms: []bind_group_provider.BufferWrite{{
			Name:     "viewProj",
			Provider: frame,
			Binding:  viewProj.Binding,
			Data:     common.MatrixBytes(o.camera.ViewProjectionMatrix()),
		}},
		Draws: make([]renderer.DrawCommand, 0, len(o.objects)),
	}

	for _, obj := range o.objects {
		world := mgl32.Ident4()
		if obj.spins {
			world = WorldMatrix(obj.offset, TiltAxis, SpinAxis, state.Angle)
		}
		groups := make([]bind_group_provider.BindGroupProvider, max(viewProj.Group, worldSlot.Group)+1)
		groups[viewProj.Group] = frame
		groups[worldSlot.Group] = obj.world

		pass.Draws = append(pass.Draws, renderer.DrawCommand{
			PipelineKey: GeometryProgram,
			Mesh:        obj.mesh.MeshProvider(),
			BindGroups:  groups,
			Uniforms: []bind_group_provider.BufferWrite{{
				Name:     "world",
				Provider: obj.world,
				Binding:  worldSlot.Binding,
				Data:     common.MatrixBytes(world),
			}},
		})
	}
	return pass
}

func (o *orchestrator) lightingPass() renderer.PassCommand {
	uniform := o.light.Uniform(o.camera.ViewDirection())
	return renderer.PassCommand{
		Name:       "lighting",
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		Uniforms: []bind_group_provider.BufferWrite{{
			Name:     "lighting",
			Provider: o.lightingGroup,
			Binding:  o.slot(LightingProgram, "lighting").Binding,
			Data:     uniform.Marshal(),
		}},
		Draws: []renderer.DrawCommand{{
			PipelineKey: LightingProgram,
			Mesh:        o.fullScreen.MeshProvider(),
			BindGroups:  []bind_group_provider.BindGroupProvider{o.lightingGroup},
		}},
	}
}

func (o *orchestrator) debugPass() renderer.PassCommand {
	transform := o.slot(DebugProgram, "transform")
	pass := renderer.PassCommand{
		Name:  "debug",
		Load:  true,
		Draws: make([]renderer.DrawCommand, 0, len(o.debugGroups)),
	}
	for i, g := range o.debugGroups {
		pass.Draws = append(pass.Draws, renderer.DrawCommand{
			PipelineKey: DebugProgram,
			Mesh:        o.debugQuad.MeshProvider(),
			BindGroups:  []bind_group_provider.BindGroupProvider{g},
			Uniforms: []bind_group_provider.BufferWrite{{
				Name:     "transform",
				Provider: g,
				Binding:  transform.Binding,
				Data:     common.MatrixBytes(common.Translate(DebugOffset(i))),
			}},
		})
	}
	return pass
}

func (o *orchestrator) GBuffer() render_target.GBuffer {
	return o.gbuffer
}

func (o *orchestrator) Camera() camera.Camera {
	return o.camera
}

func (o *orchestrator) Light() light.Light {
	return o.light
}

func (o *orchestrator) Release() {
	if o.released {
		return
	}
	o.released = true

	// bind groups first: they reference GBuffer views and uniform buffers
	for _, g := range o.debugGroups {
		g.Release()
	}
	if o.lightingGroup != nil {
		o.lightingGroup.Release()
	}
	for _, obj := range o.objects {
		obj.world.Release()
		obj.mesh.Release()
	}
	if o.camera != nil {
		o.camera.BindGroupProvider().Release()
	}
	if o.fullScreen != nil {
		o.fullScreen.Release()
	}
	if o.debugQuad != nil {
		o.debugQuad.Release()
	}
	if o.gbuffer != nil {
		o.gbuffer.Release()
	}
	common.Logger().Debug("deferred pipeline released")
}
