package deferred

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeBackend struct {
	registered   []string
	attachments  int
	meshes       map[string]int
	bindGroups   map[string]int
	textureViews map[string][]string
	samplers     int
	submitted    []renderer.CommandList
	presented    int

	failAttachment int
	submitErr      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		meshes:       make(map[string]int),
		bindGroups:   make(map[string]int),
		textureViews: make(map[string][]string),
	}
}

func (f *fakeBackend) CreateAttachment(desc render_target.AttachmentDescriptor) (render_target.Attachment, error) {
	f.attachments++
	if f.failAttachment == f.attachments {
		return nil, errors.New("out of memory")
	}
	return render_target.NewAttachment(desc, nil, nil), nil
}

func (f *fakeBackend) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.registered = append(f.registered, p.PipelineKey())
	}
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, indexData []byte, indexCount int, format wgpu.IndexFormat) error {
	if len(indexData)%4 != 0 {
		return errors.New("index data not 4-byte aligned")
	}
	provider.SetMesh(bind_group_provider.MeshBuffers{IndexCount: indexCount, IndexFormat: format})
	f.meshes[provider.Label()] = indexCount
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups[provider.Label()] = len(descriptor.Entries)
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, _ int, attachment render_target.Attachment) error {
	f.textureViews[provider.Label()] = append(f.textureViews[provider.Label()], attachment.Label())
	return nil
}

func (f *fakeBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	f.samplers++
	return nil
}

func (f *fakeBackend) Submit(list renderer.CommandList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, list)
	return nil
}

func (f *fakeBackend) Present() {
	f.presented++
}

func newTestOrchestrator(t *testing.T, b *fakeBackend, opts ...OrchestratorBuilderOption) Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(b, 512, 512, opts...)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	t.Cleanup(o.Release)
	return o
}

func matrixFromBytes(data []byte) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return m
}

func TestNewOrchestratorCreatesResources(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrchestrator(t, b)

	if len(b.registered) != 3 {
		t.Errorf("registered %v, want geometry, lighting and debug", b.registered)
	}
	if b.attachments != 3 {
		t.Errorf("created %d attachments, want 2 colour + 1 depth", b.attachments)
	}
	gb := o.GBuffer()
	if gb.Width() != 512 || gb.Height() != 512 || len(gb.ColorAttachments()) != 2 || gb.DepthAttachment() == nil {
		t.Errorf("unexpected GBuffer shape")
	}

	wantMeshes := map[string]int{"box_flat": 36, "box_smooth": 36, "floor": 6, "full_screen_triangle": 3, "debug_quad": 6}
	for name, count := range wantMeshes {
		if b.meshes[name] != count {
			t.Errorf("mesh %q index count = %d, want %d", name, b.meshes[name], count)
		}
	}

	wantGroups := map[string]int{"camera": 1, "box_flat_world": 1, "box_smooth_world": 1, "floor_world": 1, "lighting": 4, "debug_0": 3, "debug_1": 3}
	for name, entries := range wantGroups {
		if b.bindGroups[name] != entries {
			t.Errorf("bind group %q has %d entries, want %d", name, b.bindGroups[name], entries)
		}
	}

	if got := b.textureViews["lighting"]; len(got) != 2 || got[0] != "gbuffer_color0" || got[1] != "gbuffer_color1" {
		t.Errorf("lighting textures = %v, want albedo then normal", got)
	}
	if b.textureViews["debug_0"][0] != "gbuffer_color0" || b.textureViews["debug_1"][0] != "gbuffer_color1" {
		t.Errorf("debug quads must show albedo then normal")
	}
	if b.samplers != 3 {
		t.Errorf("created %d samplers, want 3", b.samplers)
	}
}

func TestNewOrchestratorFailsOnAttachment(t *testing.T) {
	b := newFakeBackend()
	b.failAttachment = 2

	o, err := NewOrchestrator(b, 512, 512)
	if o != nil {
		t.Errorf("orchestrator returned on failure")
	}
	var rce *common.ResourceCreationError
	if !errors.As(err, &rce) {
		t.Fatalf("err = %v, want ResourceCreationError", err)
	}
	if len(b.meshes) != 0 {
		t.Errorf("meshes uploaded after GBuffer failure: %v", b.meshes)
	}
}

func TestNewOrchestratorRejectsMissingUniform(t *testing.T) {
	programs := DefaultPrograms()
	programs[2].Uniforms = append(programs[2].Uniforms, "tint")

	_, err := NewOrchestrator(newFakeBackend(), 512, 512, WithPrograms(programs...))
	if !errors.Is(err, ErrUnresolvedUniform) {
		t.Errorf("err = %v, want ErrUnresolvedUniform", err)
	}
}

func TestBuildFramePassOrder(t *testing.T) {
	o := newTestOrchestrator(t, newFakeBackend())
	list := o.BuildFrame(FrameState{Angle: 0.25, HasTimestamp: true})

	if err := list.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(list.Passes) != 3 {
		t.Fatalf("got %d passes, want 3", len(list.Passes))
	}
	for i, want := range []string{"geometry", "lighting", "debug"} {
		if list.Passes[i].Name != want {
			t.Errorf("pass %d = %q, want %q", i, list.Passes[i].Name, want)
		}
	}
	if list.DrawCount() != 3+1+2 {
		t.Errorf("DrawCount() = %d, want 6", list.DrawCount())
	}
}

func TestGeometryPass(t *testing.T) {
	o := newTestOrchestrator(t, newFakeBackend())
	state := FrameState{Angle: 0.3, HasTimestamp: true}
	geo := o.BuildFrame(state).Passes[0]

	if geo.Target != o.GBuffer() {
		t.Errorf("geometry pass must target the GBuffer")
	}
	if geo.Load || geo.ClearColor != (wgpu.Color{}) || geo.ClearDepth != 1 {
		t.Errorf("geometry pass must clear to (0,0,0,0) and depth 1, got %+v %v", geo.ClearColor, geo.ClearDepth)
	}
	if len(geo.Uniforms) != 1 || geo.Uniforms[0].Name != "viewProj" {
		t.Fatalf("pass uniforms = %+v, want one viewProj write", geo.Uniforms)
	}
	if vp := matrixFromBytes(geo.Uniforms[0].Data); !vp.ApproxEqualThreshold(o.Camera().ViewProjectionMatrix(), 1e-6) {
		t.Errorf("viewProj data does not match the camera")
	}

	wantWorlds := []mgl32.Mat4{
		WorldMatrix(BoxFlatOffset, TiltAxis, SpinAxis, state.Angle),
		WorldMatrix(BoxSmoothOffset, TiltAxis, SpinAxis, state.Angle),
		mgl32.Ident4(),
	}
	wantMeshes := []string{"box_flat", "box_smooth", "floor"}
	if len(geo.Draws) != len(wantWorlds) {
		t.Fatalf("got %d draws, want %d", len(geo.Draws), len(wantWorlds))
	}
	for i, d := range geo.Draws {
		if d.PipelineKey != GeometryProgram {
			t.Errorf("draw %d pipeline = %q", i, d.PipelineKey)
		}
		if d.Mesh.Label() != wantMeshes[i] {
			t.Errorf("draw %d mesh = %q, want %q", i, d.Mesh.Label(), wantMeshes[i])
		}
		if len(d.Uniforms) != 1 || d.Uniforms[0].Name != "world" {
			t.Fatalf("draw %d uniforms = %+v, want exactly its world", i, d.Uniforms)
		}
		if got := matrixFromBytes(d.Uniforms[0].Data); !got.ApproxEqualThreshold(wantWorlds[i], 1e-6) {
			t.Errorf("draw %d world = %v, want %v", i, got, wantWorlds[i])
		}
		if len(d.BindGroups) != 2 || d.BindGroups[0] != o.Camera().BindGroupProvider() || d.BindGroups[1] != d.Uniforms[0].Provider {
			t.Errorf("draw %d bind groups must be [camera, own world]", i)
		}
	}
}

func TestLightingPass(t *testing.T) {
	o := newTestOrchestrator(t, newFakeBackend())
	lit := o.BuildFrame(FrameState{}).Passes[1]

	if lit.Target != nil {
		t.Errorf("lighting pass must target the surface")
	}
	if lit.Load {
		t.Errorf("lighting pass must clear the surface")
	}
	if len(lit.Draws) != 1 || lit.Draws[0].PipelineKey != LightingProgram || lit.Draws[0].Mesh.Mesh().IndexCount != 3 {
		t.Fatalf("want one full-screen triangle draw, got %+v", lit.Draws)
	}
	if len(lit.Uniforms) != 1 || len(lit.Uniforms[0].Data) != 48 {
		t.Fatalf("want one 48-byte lighting uniform, got %+v", lit.Uniforms)
	}
	ambient := math.Float32frombits(binary.LittleEndian.Uint32(lit.Uniforms[0].Data[12:]))
	if ambient != 0.2 {
		t.Errorf("ambient = %v, want 0.2", ambient)
	}
}

func TestDebugPass(t *testing.T) {
	o := newTestOrchestrator(t, newFakeBackend())
	for _, angle := range []float64{0, 0.5, 0.99} {
		dbg := o.BuildFrame(FrameState{Angle: angle}).Passes[2]
		if dbg.Target != nil || !dbg.Load {
			t.Errorf("debug pass must load the surface")
		}
		if len(dbg.Draws) != DebugQuadCount {
			t.Fatalf("got %d debug quads, want %d", len(dbg.Draws), DebugQuadCount)
		}
		for i, d := range dbg.Draws {
			if d.Mesh.Mesh().IndexCount != 6 {
				t.Errorf("quad %d index count = %d", i, d.Mesh.Mesh().IndexCount)
			}
			m := matrixFromBytes(d.Uniforms[0].Data)
			if x := m.Col(3).X(); x != float32(i)*0.5 {
				t.Errorf("quad %d x offset = %v, want %v", i, x, float32(i)*0.5)
			}
		}
	}
}

func TestDebugOverlayDisabled(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrchestrator(t, b, WithDebugOverlay(false))
	list := o.BuildFrame(FrameState{})
	if len(list.Passes) != 2 {
		t.Errorf("got %d passes, want geometry and lighting only", len(list.Passes))
	}
	if _, ok := b.bindGroups["debug_0"]; ok {
		t.Errorf("debug bind groups created with the overlay off")
	}
}

func TestFrame(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrchestrator(t, b)

	s, err := o.Frame(FrameState{}, 1000)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	s, err = o.Frame(s, 1010)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if math.Abs(s.Angle-0.001) > 1e-9 {
		t.Errorf("Angle = %v, want 0.001", s.Angle)
	}
	if len(b.submitted) != 2 || b.presented != 2 {
		t.Errorf("submitted %d, presented %d, want 2 and 2", len(b.submitted), b.presented)
	}

	b.submitErr = errors.New("surface lost")
	next, err := o.Frame(s, 1020)
	if err == nil {
		t.Fatalf("want the submit error")
	}
	if next.LastTimestamp != 1020 {
		t.Errorf("state must advance even when the frame is dropped")
	}
	if b.presented != 2 {
		t.Errorf("dropped frame must not be presented")
	}
}
