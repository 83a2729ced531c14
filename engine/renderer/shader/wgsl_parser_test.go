package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const layoutSource = `
struct Inner {
    a: vec2<f32>,
    b: f32,
};

struct Outer {
    x: f32,
    inner: Inner,
};

struct Loop {
    next: Loop,
};
`

func TestTypeLayouts(t *testing.T) {
	r := newLayoutResolver(reflectModule(layoutSource))
	tests := []struct {
		typeName string
		want     typeLayout
		wantOK   bool
	}{
		{"f32", typeLayout{4, 4}, true},
		{"vec3f", typeLayout{12, 16}, true},
		{"vec3<f32>", typeLayout{12, 16}, true},
		{"vec2h", typeLayout{4, 4}, true},
		{"mat4x4<f32>", typeLayout{64, 16}, true},
		{"mat3x3f", typeLayout{48, 16}, true},
		{"mat2x2<f32>", typeLayout{16, 8}, true},
		{"array<vec3<f32>,4>", typeLayout{64, 16}, true},
		{"array<f32>", typeLayout{4, 4}, true},
		{"atomic<u32>", typeLayout{4, 4}, true},
		{"Inner", typeLayout{16, 8}, true},
		{"Outer", typeLayout{24, 8}, true},
		{"Loop", typeLayout{}, false},
		{"Missing", typeLayout{}, false},
		{"array<f32,0>", typeLayout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := r.layout(tt.typeName)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("layout(%q) = %+v, %v; want %+v, %v", tt.typeName, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReflectModuleIgnoresComments(t *testing.T) {
	info := reflectModule(`
// @group(0) @binding(0) var<uniform> stale: f32;
/* @vertex fn old_main() {} /* nested */ still comment */
@group(0) @binding(1) var<uniform> live: f32;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`)
	if len(info.resources) != 1 || info.resources[0].name != "live" {
		t.Errorf("resources = %+v, want only live", info.resources)
	}
	if got := info.entryPoints[ShaderTypeVertex]; got != "vs_main" {
		t.Errorf("vertex entry = %q, want vs_main", got)
	}
}

func TestLayoutEntryClassification(t *testing.T) {
	tests := []struct {
		name  string
		decl  string
		check func(wgpu.BindGroupLayoutEntry) bool
	}{
		{"uniform", "var<uniform> u: vec4<f32>;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Buffer.Type == wgpu.BufferBindingTypeUniform && e.Buffer.MinBindingSize == 16
		}},
		{"read-only storage", "var<storage, read> s: array<f32>;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Buffer.Type == wgpu.BufferBindingTypeReadOnlyStorage
		}},
		{"read-write storage", "var<storage, read_write> s: array<u32>;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Buffer.Type == wgpu.BufferBindingTypeStorage
		}},
		{"sampler", "var smp: sampler;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Sampler.Type == wgpu.SamplerBindingTypeFiltering
		}},
		{"float texture", "var tex: texture_2d<f32>;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Texture.SampleType == wgpu.TextureSampleTypeFloat && e.Texture.ViewDimension == wgpu.TextureViewDimension2D
		}},
		{"depth texture", "var depth: texture_depth_2d;", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Texture.SampleType == wgpu.TextureSampleTypeDepth
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := reflectModule("@group(0) @binding(0) " + tt.decl)
			desc, _ := bindGroupLayouts(info, wgpu.ShaderStageFragment)
			if len(desc[0].Entries) != 1 || !tt.check(desc[0].Entries[0]) {
				t.Errorf("%s classified as %+v", tt.decl, desc[0].Entries)
			}
		})
	}
}

func TestVertexLayoutSkipsUnmappableStruct(t *testing.T) {
	info := reflectModule(`
struct Flags {
    @location(0) on: bool,
};
struct Input {
    @location(0) position: vec3f,
    @location(1) uv: vec2f,
};
`)
	layouts := vertexBufferLayouts(info)
	if len(layouts) != 1 {
		t.Fatalf("got %d layouts, want 1", len(layouts))
	}
	if stride := layouts[0][0].ArrayStride; stride != 20 {
		t.Errorf("ArrayStride = %d, want 20", stride)
	}
}
