package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// scalars maps WGSL scalar names to their size and the vertex formats of their 1..4 component vectors.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var scalars = map[string]scalarInfo{
	"f32":  {4, [5]wgpu.VertexFormat{1: wgpu.VertexFormatFloat32, 2: wgpu.VertexFormatFloat32x2, 3: wgpu.VertexFormatFloat32x3, 4: wgpu.VertexFormatFloat32x4}},
	"i32":  {4, [5]wgpu.VertexFormat{1: wgpu.VertexFormatSint32, 2: wgpu.VertexFormatSint32x2, 3: wgpu.VertexFormatSint32x3, 4: wgpu.VertexFormatSint32x4}},
	"u32":  {4, [5]wgpu.VertexFormat{1: wgpu.VertexFormatUint32, 2: wgpu.VertexFormatUint32x2, 3: wgpu.VertexFormatUint32x3, 4: wgpu.VertexFormatUint32x4}},
	"f16":  {2, [5]wgpu.VertexFormat{2: wgpu.VertexFormatFloat16x2, 4: wgpu.VertexFormatFloat16x4}},
	"bool": {4, [5]wgpu.VertexFormat{}},
}

// shorthandScalars maps the vec/mat alias suffix (vec3f, mat4x4h) to its scalar.
var shorthandScalars = map[string]string{"f": "f32", "i": "i32", "u": "u32", "h": "f16"}

var (
	vectorRegex = regexp.MustCompile(`^vec([234])(?:<(\w+)>|([fiuh]))$`)
	matrixRegex = regexp.MustCompile(`^mat([234])x([234])(?:<(\w+)>|([fh]))$`)
)

// sampledDimensions maps texture base names to their view dimension.
var sampledDimensions = map[string]wgpu.TextureViewDimension{
	"texture_1d":                    wgpu.TextureViewDimension1D,
	"texture_2d":                    wgpu.TextureViewDimension2D,
	"texture_2d_array":              wgpu.TextureViewDimension2DArray,
	"texture_3d":                    wgpu.TextureViewDimension3D,
	"texture_cube":                  wgpu.TextureViewDimensionCube,
	"texture_cube_array":            wgpu.TextureViewDimensionCubeArray,
	"texture_multisampled_2d":       wgpu.TextureViewDimension2D,
	"texture_depth_2d":              wgpu.TextureViewDimension2D,
	"texture_depth_2d_array":        wgpu.TextureViewDimension2DArray,
	"texture_depth_cube":            wgpu.TextureViewDimensionCube,
	"texture_depth_cube_array":      wgpu.TextureViewDimensionCubeArray,
	"texture_depth_multisampled_2d": wgpu.TextureViewDimension2D,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// roundUpAlign rounds value up to the next multiple of alignment (a power of two).
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// vectorType parses vecN<T> and its shorthand forms.
func vectorType(typeName string) (n int, scalar string, ok bool) {
	m := vectorRegex.FindStringSubmatch(typeName)
	if m == nil {
		return 0, "", false
	}
	n, _ = strconv.Atoi(m[1])
	scalar = m[2]
	if scalar == "" {
		scalar = shorthandScalars[m[3]]
	}
	_, ok = scalars[scalar]
	return n, scalar, ok
}

func vectorLayout(n int, scalar string) typeLayout {
	size := scalars[scalar].size
	alignN := uint64(n)
	if n == 3 {
		alignN = 4
	}
	return typeLayout{size: uint64(n) * size, align: alignN * size}
}

// layoutResolver computes type layouts for one module, memoising struct results.
type layoutResolver struct {
	module   moduleInfo
	resolved map[string]typeLayout
	visiting map[string]bool
}

func newLayoutResolver(module moduleInfo) *layoutResolver {
	return &layoutResolver{
		module:   module,
		resolved: make(map[string]typeLayout),
		visiting: make(map[string]bool),
	}
}

// layout returns the size and alignment of typeName. Runtime-sized arrays count as one element,
// which is the minimum binding size WebGPU accepts for them.
func (r *layoutResolver) layout(typeName string) (typeLayout, bool) {
	if s, ok := scalars[typeName]; ok {
		return typeLayout{s.size, s.size}, true
	}
	if n, scalar, ok := vectorType(typeName); ok {
		return vectorLayout(n, scalar), true
	}
	if m := matrixRegex.FindStringSubmatch(typeName); m != nil {
		cols, _ := strconv.Atoi(m[1])
		rows, _ := strconv.Atoi(m[2])
		scalar := m[3]
		if scalar == "" {
			scalar = shorthandScalars[m[4]]
		}
		if _, ok := scalars[scalar]; !ok {
			return typeLayout{}, false
		}
		column := vectorLayout(rows, scalar)
		return typeLayout{size: uint64(cols) * column.stride(), align: column.align}, true
	}
	if inner, ok := strings.CutPrefix(typeName, "atomic<"); ok {
		return r.layout(strings.TrimSuffix(inner, ">"))
	}
	if inner, ok := strings.CutPrefix(typeName, "array<"); ok {
		return r.arrayLayout(strings.TrimSuffix(inner, ">"))
	}
	return r.structLayout(typeName)
}

func (r *layoutResolver) arrayLayout(params string) (typeLayout, bool) {
	parts := splitAtTopLevelCommas(params)
	elem, ok := r.layout(parts[0])
	if !ok {
		return typeLayout{}, false
	}
	count := uint64(1)
	if len(parts) == 2 {
		n, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil || n == 0 {
			return typeLayout{}, false
		}
		count = n
	}
	return typeLayout{size: count * elem.stride(), align: elem.align}, true
}

// structLayout places each member at its next aligned offset and rounds the total up to the
// largest member alignment.
func (r *layoutResolver) structLayout(name string) (typeLayout, bool) {
	if l, ok := r.resolved[name]; ok {
		return l, true
	}
	decl, ok := r.module.structByName(name)
	if !ok || r.visiting[name] {
		return typeLayout{}, false
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	var offset uint64
	align := uint64(1)
	for _, m := range decl.members {
		if m.builtin {
			continue
		}
		ml, ok := r.layout(m.typeName)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUpAlign(ml.align, offset) + ml.size
		align = max(align, ml.align)
	}
	l := typeLayout{size: roundUpAlign(align, offset), align: align}
	r.resolved[name] = l
	return l, true
}

// vertexBufferLayouts builds one layout per pure vertex input struct: at least one @location
// member and no @builtin member. Output structs mix the two, so they are skipped. A struct with a
// member that has no vertex format is skipped as well.
//
// Parameters:
//   - module: the reflected vertex-stage module
//
// Returns:
//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by declaration order
func vertexBufferLayouts(module moduleInfo) map[int][]wgpu.VertexBufferLayout {
	result := make(map[int][]wgpu.VertexBufferLayout)
	for _, s := range module.structs {
		layout, ok := vertexBufferLayout(s)
		if !ok {
			continue
		}
		result[len(result)] = []wgpu.VertexBufferLayout{layout}
	}
	return result
}

func vertexBufferLayout(s structDecl) (wgpu.VertexBufferLayout, bool) {
	if len(s.members) == 0 {
		return wgpu.VertexBufferLayout{}, false
	}
	attrs := make([]wgpu.VertexAttribute, 0, len(s.members))
	var offset uint64
	for _, m := range s.members {
		if m.builtin || m.location < 0 {
			return wgpu.VertexBufferLayout{}, false
		}
		n, scalar := 1, m.typeName
		if vn, vs, ok := vectorType(m.typeName); ok {
			n, scalar = vn, vs
		}
		info, ok := scalars[scalar]
		if !ok || info.vertexFormats[n] == 0 {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.vertexFormats[n],
			Offset:         offset,
			ShaderLocation: uint32(m.location),
		})
		offset += uint64(n) * info.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// bindGroupLayouts turns the module's resource declarations into layout descriptors keyed by
// group, entries sorted by binding, every entry visible to visibility. Buffer entries get their
// MinBindingSize from the bound type.
//
// Parameters:
//   - module: the reflected module
//   - visibility: the stage that declared the resources
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group then binding
func bindGroupLayouts(module moduleInfo, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	resolver := newLayoutResolver(module)
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)

	for _, res := range module.resources {
		entry := layoutEntry(res, visibility)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolver.layout(res.typeName); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		entries[res.group] = append(entries[res.group], entry)
		if names[res.group] == nil {
			names[res.group] = make(map[int]string)
		}
		names[res.group][res.binding] = res.name
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, e := range entries {
		sort.Slice(e, func(i, j int) bool { return e[i].Binding < e[j].Binding })
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: e}
	}
	return result, names
}

// layoutEntry classifies one declaration as a buffer, sampler or sampled texture.
// Storage textures are not classified and produce an entry with no resource set.
func layoutEntry(res resourceDecl, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(res.binding),
		Visibility: visibility,
	}

	switch {
	case res.space == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case res.space == "storage,read_write":
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(res.space, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case res.typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case res.typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		base, param, _ := strings.Cut(strings.TrimSuffix(res.typeName, ">"), "<")
		dim, ok := sampledDimensions[base]
		if !ok {
			break
		}
		entry.Texture.ViewDimension = dim
		entry.Texture.Multisampled = strings.Contains(base, "multisampled")
		if strings.HasPrefix(base, "texture_depth_") {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else {
			entry.Texture.SampleType = sampleTypes[param]
		}
	}
	return entry
}
