package model

// MaxVertices is the largest vertex count a mesh may have. Indices are stored as uint8 on the CPU side.
const MaxVertices = 256

// VertexLayout describes an interleaved float32 vertex format.
type VertexLayout struct {
	// Name identifies the layout in errors and logs.
	Name string

	// Stride is the number of float32 components per vertex.
	Stride int
}

var (
	// SceneLayout is [position3, color3, normal3], used by the geometry pass.
	SceneLayout = VertexLayout{Name: "scene", Stride: 9}

	// DebugLayout is [position3, uv2], used by the debug overlay quad.
	DebugLayout = VertexLayout{Name: "debug", Stride: 5}

	// PositionLayout is [position3], used by the full-screen triangle.
	PositionLayout = VertexLayout{Name: "position", Stride: 3}
)

// ByteStride returns the vertex stride in bytes.
//
// Returns:
//   - int: Stride * 4
func (l VertexLayout) ByteStride() int {
	return l.Stride * 4
}

// Geometry is CPU-side mesh data: interleaved vertices in Layout plus a triangle list of indices.
type Geometry struct {
	// Layout is the vertex format of Vertices.
	Layout VertexLayout

	// Vertices holds len(Vertices)/Layout.Stride vertices.
	Vertices []float32

	// Indices is a triangle list. Every entry must be below the vertex count.
	Indices []uint8
}

// VertexCount returns the number of whole vertices in the geometry.
//
// Returns:
//   - int: the vertex count, or 0 if the layout has no stride
func (g Geometry) VertexCount() int {
	if g.Layout.Stride == 0 {
		return 0
	}
	return len(g.Vertices) / g.Layout.Stride
}
