package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const vertexSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> transform: mat4x4<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = transform * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}
`

const fragmentSource = `
@group(0) @binding(1) var debugTexture: texture_2d<f32>;
@group(0) @binding(2) var debugSampler: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(debugTexture, debugSampler, uv);
}
`

func newTestPipeline(t *testing.T, opts ...PipelineBuilderOption) Pipeline {
	t.Helper()
	vs, err := shader.NewShader("debug_vs", shader.ShaderTypeVertex, vertexSource)
	if err != nil {
		t.Fatalf("vertex shader: %v", err)
	}
	fs, err := shader.NewShader("debug_fs", shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		t.Fatalf("fragment shader: %v", err)
	}
	opts = append([]PipelineBuilderOption{WithVertexShader(vs), WithFragmentShader(fs)}, opts...)
	return NewPipeline("debug", opts...)
}

func TestUniformResolution(t *testing.T) {
	p := newTestPipeline(t, WithUniforms("transform", "debugTexture", "missing"))

	if got := p.UniformNames(); len(got) != 3 {
		t.Fatalf("UniformNames() = %v, want 3 names", got)
	}
	if s, ok := p.Uniform("transform"); !ok || s != (Slot{Group: 0, Binding: 0}) {
		t.Errorf("transform = %v, %v", s, ok)
	}
	if s, ok := p.Uniform("debugTexture"); !ok || s != (Slot{Group: 0, Binding: 1}) {
		t.Errorf("debugTexture = %v, %v", s, ok)
	}
	if _, ok := p.Uniform("missing"); ok {
		t.Errorf("missing uniform should not resolve")
	}
}

func TestMergedLayout(t *testing.T) {
	p := newTestPipeline(t)

	desc := p.BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 3 {
		t.Fatalf("group 0 has %d entries, want 3", len(desc.Entries))
	}
	for i, e := range desc.Entries {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d has binding %d", i, e.Binding)
		}
	}
	if desc.Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Errorf("transform visibility = %v, want vertex", desc.Entries[0].Visibility)
	}
	if desc.Entries[1].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("texture visibility = %v, want fragment", desc.Entries[1].Visibility)
	}
	if desc.Label != "debug_group0" {
		t.Errorf("label = %q", desc.Label)
	}
}

func TestMergeSharedBinding(t *testing.T) {
	entry := wgpu.BindGroupLayoutEntry{Binding: 0}
	v := entry
	v.Visibility = wgpu.ShaderStageVertex
	f := entry
	f.Visibility = wgpu.ShaderStageFragment

	merged := mergeBindGroupLayouts(
		map[int]wgpu.BindGroupLayoutDescriptor{0: {Entries: []wgpu.BindGroupLayoutEntry{v}}},
		map[int]wgpu.BindGroupLayoutDescriptor{0: {Entries: []wgpu.BindGroupLayoutEntry{f}}},
	)
	got := merged[0].Entries
	if len(got) != 1 || got[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("merged entries = %+v", got)
	}
}

func TestTargetDefaults(t *testing.T) {
	p := newTestPipeline(t)
	if f := p.ColorFormats(); len(f) != 1 || f[0] != wgpu.TextureFormatUndefined {
		t.Errorf("default color targets = %v, want surface", f)
	}
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		t.Errorf("default pipeline should have no depth state")
	}

	g := newTestPipeline(t,
		WithColorTargets(wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8Unorm),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
		WithDepthTestEnabled(true),
		WithDepthWriteEnabled(true),
	)
	if len(g.ColorFormats()) != 2 || g.DepthFormat() != wgpu.TextureFormatDepth32Float {
		t.Errorf("targets = %v depth = %v", g.ColorFormats(), g.DepthFormat())
	}
	if !g.DepthTestEnabled() || !g.DepthWriteEnabled() {
		t.Errorf("depth test/write not applied")
	}
}
