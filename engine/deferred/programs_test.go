package deferred

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestCompileDefaultPrograms(t *testing.T) {
	sources := DefaultPrograms()
	pipelines, err := CompilePrograms(sources)
	if err != nil {
		t.Fatalf("CompilePrograms: %v", err)
	}
	if len(pipelines) != len(sources) {
		t.Fatalf("got %d pipelines, want %d", len(pipelines), len(sources))
	}
	for i, p := range pipelines {
		if p.PipelineKey() != sources[i].Key {
			t.Errorf("pipeline %d key = %q, want %q (input order)", i, p.PipelineKey(), sources[i].Key)
		}
	}

	tests := []struct {
		program int
		uniform string
		want    pipeline.Slot
	}{
		{0, "viewProj", pipeline.Slot{Group: 0, Binding: 0}},
		{0, "world", pipeline.Slot{Group: 1, Binding: 0}},
		{1, "albedoTexture", pipeline.Slot{Group: 0, Binding: 0}},
		{1, "normalTexture", pipeline.Slot{Group: 0, Binding: 1}},
		{1, "gbufferSampler", pipeline.Slot{Group: 0, Binding: 2}},
		{1, "lighting", pipeline.Slot{Group: 0, Binding: 3}},
		{2, "transform", pipeline.Slot{Group: 0, Binding: 0}},
		{2, "debugTexture", pipeline.Slot{Group: 0, Binding: 1}},
		{2, "debugSampler", pipeline.Slot{Group: 0, Binding: 2}},
	}
	for _, tt := range tests {
		got, ok := pipelines[tt.program].Uniform(tt.uniform)
		if !ok || got != tt.want {
			t.Errorf("%s.%s = %v (%v), want %v", sources[tt.program].Key, tt.uniform, got, ok, tt.want)
		}
	}
}

func TestGeometryProgramState(t *testing.T) {
	pipelines, err := CompilePrograms(DefaultPrograms()[:1])
	if err != nil {
		t.Fatalf("CompilePrograms: %v", err)
	}
	g := pipelines[0]
	if len(g.ColorFormats()) != 2 {
		t.Errorf("ColorFormats() = %v, want two GBuffer targets", g.ColorFormats())
	}
	if g.DepthFormat() != wgpu.TextureFormatDepth32Float || !g.DepthTestEnabled() || !g.DepthWriteEnabled() {
		t.Errorf("geometry pass needs depth test and write")
	}
	if g.CullMode() != wgpu.CullModeBack {
		t.Errorf("CullMode() = %v, want back", g.CullMode())
	}

	vs := g.Shader(shader.ShaderTypeVertex)
	if stride := vs.VertexLayout(0)[0].ArrayStride; stride != 36 {
		t.Errorf("vertex stride = %d, want 36", stride)
	}
}

func TestLightingUniformSize(t *testing.T) {
	pipelines, err := CompilePrograms(DefaultPrograms()[1:2])
	if err != nil {
		t.Fatalf("CompilePrograms: %v", err)
	}
	desc := pipelines[0].BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 4 {
		t.Fatalf("lighting group has %d entries, want 4", len(desc.Entries))
	}
	if got := desc.Entries[3].Buffer.MinBindingSize; got != 48 {
		t.Errorf("lighting uniform size = %d, want 48", got)
	}
}

func TestCompileProgramsReportsEveryFailure(t *testing.T) {
	sources := DefaultPrograms()
	sources[0].Vertex = "// empty"
	sources[2].Fragment = ""

	pipelines, err := CompilePrograms(sources)
	if pipelines != nil {
		t.Errorf("pipelines returned alongside an error")
	}
	var rce *common.ResourceCreationError
	if !errors.As(err, &rce) {
		t.Fatalf("err = %v, want ResourceCreationError", err)
	}
	if !errors.Is(err, shader.ErrNoEntryPoint) {
		t.Errorf("err = %v, want it to wrap ErrNoEntryPoint", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("want both failures reported, got %v", err)
	}
}

func TestCompileProgramsEmpty(t *testing.T) {
	pipelines, err := CompilePrograms(nil)
	if err != nil || pipelines != nil {
		t.Errorf("CompilePrograms(nil) = %v, %v", pipelines, err)
	}
}

// The lighting shader and light.Shade implement the same formula; a change to one must reach the other.
func TestLightingShaderMatchesShade(t *testing.T) {
	for _, line := range []string{
		"let n = normalize(encoded.xyz * 2.0 - 1.0);",
		"let diffuse = albedo.rgb * (lighting.ambient + max(dot(n, l), 0.0) * lighting.diffuse);",
		"let r = reflect(-v, n);",
		"let specular = lighting.specular * pow(max(dot(r, l), 0.0), lighting.shininess);",
		"return vec4<f32>(diffuse + vec3<f32>(specular), 1.0);",
	} {
		if !strings.Contains(lightingFragmentSource, line) {
			t.Errorf("lighting shader no longer contains %q; update light.Shade to match", line)
		}
	}
}
