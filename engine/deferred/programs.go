package deferred

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys.
const (
	GeometryProgram = "geometry"
	LightingProgram = "lighting"
	DebugProgram    = "debug"
)

var (
	//go:embed assets/gbuffer_vert.wgsl
	gbufferVertexSource string
	//go:embed assets/gbuffer_frag.wgsl
	gbufferFragmentSource string
	//go:embed assets/lighting_vert.wgsl
	lightingVertexSource string
	//go:embed assets/lighting_frag.wgsl
	lightingFragmentSource string
	//go:embed assets/debug_vert.wgsl
	debugVertexSource string
	//go:embed assets/debug_frag.wgsl
	debugFragmentSource string
)

// ProgramSource is everything needed to build one Pipeline from WGSL.
type ProgramSource struct {
	// Key is the pipeline key.
	Key string
	// Vertex and Fragment are WGSL sources, one entry point each.
	Vertex, Fragment string
	// Uniforms are the variable names resolved to slots.
	Uniforms []string
	// Options configure targets, depth and rasterization.
	Options []pipeline.PipelineBuilderOption
}

// DefaultPrograms returns the geometry, lighting and debug programs.
//
// Returns:
//   - []ProgramSource: the three program sources in pass order
func DefaultPrograms() []ProgramSource {
	return []ProgramSource{
		{
			Key:      GeometryProgram,
			Vertex:   gbufferVertexSource,
			Fragment: gbufferFragmentSource,
			Uniforms: []string{"viewProj", "world"},
			Options: []pipeline.PipelineBuilderOption{
				pipeline.WithColorTargets(render_target.GBufferColorFormat, render_target.GBufferColorFormat),
				pipeline.WithDepthFormat(render_target.GBufferDepthFormat),
				pipeline.WithDepthTestEnabled(true),
				pipeline.WithDepthWriteEnabled(true),
				pipeline.WithCullMode(wgpu.CullModeBack),
				pipeline.WithFrontFace(wgpu.FrontFaceCCW),
			},
		},
		{
			Key:      LightingProgram,
			Vertex:   lightingVertexSource,
			Fragment: lightingFragmentSource,
			Uniforms: []string{"albedoTexture", "normalTexture", "gbufferSampler", "lighting"},
		},
		{
			Key:      DebugProgram,
			Vertex:   debugVertexSource,
			Fragment: debugFragmentSource,
			Uniforms: []string{"transform", "debugTexture", "debugSampler"},
		},
	}
}

// CompilePrograms parses every source and builds its Pipeline. Sources are parsed in parallel on a
// worker pool; the call returns once all of them are done. No GPU objects are created here.
//
// Parameters:
//   - sources: the programs to build
//
// Returns:
//   - []pipeline.Pipeline: one pipeline per source, in input order
//   - error: every parse failure joined, each a *common.ResourceCreationError
func CompilePrograms(sources []ProgramSource) ([]pipeline.Pipeline, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	pool := worker.NewDynamicWorkerPool(min(len(sources), runtime.NumCPU()), len(sources), 1*time.Second)
	defer pool.Stop()

	out := make([]pipeline.Pipeline, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				p, err := compileProgram(src)
				if err != nil {
					errs[i] = common.NewResourceCreationError(fmt.Sprintf("program %q", src.Key), err)
					return nil, errs[i]
				}
				out[i] = p
				return p, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	common.Logger().Debug("programs compiled", "count", len(out))
	return out, nil
}

func compileProgram(src ProgramSource) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(src.Key+"_vs", shader.ShaderTypeVertex, src.Vertex)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := shader.NewShader(src.Key+"_fs", shader.ShaderTypeFragment, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}

	opts := make([]pipeline.PipelineBuilderOption, 0, len(src.Options)+3)
	opts = append(opts,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithUniforms(src.Uniforms...),
	)
	opts = append(opts, src.Options...)
	return pipeline.NewPipeline(src.Key, opts...), nil
}
