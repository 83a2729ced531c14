package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/render_target"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawCommand is one indexed draw over the full index range of Mesh.
type DrawCommand struct {
	// PipelineKey selects a registered pipeline.
	PipelineKey string
	// Mesh holds the vertex and index buffers.
	Mesh bind_group_provider.BindGroupProvider
	// BindGroups are bound in order; index i is set at @group(i).
	BindGroups []bind_group_provider.BindGroupProvider
	// Uniforms are written before the frame is submitted and belong to this draw only.
	Uniforms []bind_group_provider.BufferWrite
}

// PassCommand is one render pass: a target, how it is loaded, and the draws recorded into it.
type PassCommand struct {
	// Name labels the pass in GPU debuggers and logs.
	Name string
	// Target is the offscreen target, or nil for the presentable surface.
	Target render_target.RenderTarget
	// Load keeps the existing contents of the target instead of clearing them.
	Load bool
	// ClearColor is applied to every colour attachment when Load is false.
	ClearColor wgpu.Color
	// ClearDepth is applied to the depth attachment, if any, when Load is false.
	ClearDepth float32
	// Uniforms are shared by every draw in the pass.
	Uniforms []bind_group_provider.BufferWrite
	// Draws are recorded in order.
	Draws []DrawCommand
}

// CommandList is everything the GPU does for one frame. Passes are encoded in order into a
// single command encoder and submitted once, so a pass always observes the writes of the
// passes before it.
type CommandList struct {
	Passes []PassCommand
}

// AddPass appends a pass.
//
// Parameters:
//   - pass: the pass to append
func (l *CommandList) AddPass(pass PassCommand) {
	l.Passes = append(l.Passes, pass)
}

// DrawCount returns the total number of draws across all passes.
//
// Returns:
//   - int: the number of draws
func (l *CommandList) DrawCount() int {
	n := 0
	for _, p := range l.Passes {
		n += len(p.Draws)
	}
	return n
}

// UsesSurface reports whether any pass renders to the presentable surface.
//
// Returns:
//   - bool: true if a pass has a nil Target
func (l *CommandList) UsesSurface() bool {
	for _, p := range l.Passes {
		if p.Target == nil {
			return true
		}
	}
	return false
}

type writeTarget struct {
	provider bind_group_provider.BindGroupProvider
	binding  int
	offset   uint64
}

// Validate checks the list before any GPU work is recorded. Every draw needs a pipeline key and
// a mesh. All uniform writes land in buffers before the single submission, so two writes to the
// same buffer region would make the earlier draw read the later value; that is rejected too.
//
// Returns:
//   - error: the first problem found, or nil
func (l *CommandList) Validate() error {
	seen := make(map[writeTarget]string)
	check := func(where string, writes []bind_group_provider.BufferWrite) error {
		for _, w := range writes {
			if w.Provider == nil {
				return fmt.Errorf("%s: uniform %q has no provider", where, w.Name)
			}
			key := writeTarget{provider: w.Provider, binding: w.Binding, offset: w.Offset}
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("%s: uniform %q overwrites %s in the same submission", where, w.Name, prev)
			}
			seen[key] = fmt.Sprintf("%s/%s", where, w.Name)
		}
		return nil
	}

	for pi, p := range l.Passes {
		where := p.Name
		if where == "" {
			where = fmt.Sprintf("pass %d", pi)
		}
		if err := check(where, p.Uniforms); err != nil {
			return err
		}
		for di, d := range p.Draws {
			drawWhere := fmt.Sprintf("%s draw %d", where, di)
			if d.PipelineKey == "" {
				return fmt.Errorf("%s: %w", drawWhere, errors.New("no pipeline key"))
			}
			if d.Mesh == nil {
				return fmt.Errorf("%s: %w", drawWhere, errors.New("no mesh"))
			}
			if err := check(drawWhere, d.Uniforms); err != nil {
				return err
			}
		}
	}
	return nil
}

// Writes returns every uniform write in recording order: each pass's own writes, then its draws'.
//
// Returns:
//   - []bind_group_provider.BufferWrite: the writes
func (l *CommandList) Writes() []bind_group_provider.BufferWrite {
	var out []bind_group_provider.BufferWrite
	for _, p := range l.Passes {
		out = append(out, p.Uniforms...)
		for _, d := range p.Draws {
			out = append(out, d.Uniforms...)
		}
	}
	return out
}
