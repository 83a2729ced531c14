package shader

import "github.com/cogentcore/webgpu/wgpu"

// typeLayout is the host-shareable size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive elements of this type in an array.
func (l typeLayout) stride() uint64 {
	return roundUpAlign(l.align, l.size)
}

// scalarInfo describes a WGSL scalar and the vertex format its vectors map to.
type scalarInfo struct {
	size uint64
	// vertexFormats is indexed by component count; a zero entry has no vertex format.
	vertexFormats [5]wgpu.VertexFormat
}

// structMember is one field of a WGSL struct.
type structMember struct {
	name     string
	typeName string
	location int // -1 when the member has no @location
	builtin  bool
}

// structDecl is a WGSL struct declaration.
type structDecl struct {
	name    string
	members []structMember
}

// resourceDecl is a module-scope `@group(g) @binding(b) var<space> name: type;` declaration.
type resourceDecl struct {
	group    int
	binding  int
	space    string
	name     string
	typeName string
}

// moduleInfo is everything NewShader needs from a WGSL source, extracted in one pass.
type moduleInfo struct {
	structs     []structDecl
	resources   []resourceDecl
	entryPoints map[ShaderType]string
}

// structByName returns the declaration named name.
func (m moduleInfo) structByName(name string) (structDecl, bool) {
	for _, s := range m.structs {
		if s.name == name {
			return s, true
		}
	}
	return structDecl{}, false
}
