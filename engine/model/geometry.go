package model

const invSqrt3 = 0.57735026

// FloorGeometry returns the 10x10 gray floor plane at y = -1, facing +Y.
//
// Returns:
//   - Geometry: 4 vertices in SceneLayout, 6 indices
func FloorGeometry() Geometry {
	return Geometry{
		Layout: SceneLayout,
		Vertices: []float32{
			5, -1, 5, 0.5, 0.5, 0.5, 0, 1, 0,
			5, -1, -5, 0.5, 0.5, 0.5, 0, 1, 0,
			-5, -1, 5, 0.5, 0.5, 0.5, 0, 1, 0,
			-5, -1, -5, 0.5, 0.5, 0.5, 0, 1, 0,
		},
		Indices: []uint8{0, 1, 2, 3, 2, 1},
	}
}

// BoxFlatGeometry returns a unit box with one solid color and one normal per face.
// Faces are -X red, -Y green, -Z blue, +X cyan, +Y magenta and +Z yellow.
//
// Returns:
//   - Geometry: 24 vertices in SceneLayout, 36 indices
func BoxFlatGeometry() Geometry {
	type face struct {
		color, normal [3]float32
		corners       [4][3]float32
	}
	faces := [6]face{
		{[3]float32{1, 0, 0}, [3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1}}},
		{[3]float32{0, 1, 0}, [3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {-1, -1, 1}, {1, -1, 1}}},
		{[3]float32{0, 0, 1}, [3]float32{0, 0, -1}, [4][3]float32{{-1, -1, -1}, {-1, 1, -1}, {1, -1, -1}, {1, 1, -1}}},
		{[3]float32{0, 1, 1}, [3]float32{1, 0, 0}, [4][3]float32{{1, -1, -1}, {1, 1, -1}, {1, -1, 1}, {1, 1, 1}}},
		{[3]float32{1, 0, 1}, [3]float32{0, 1, 0}, [4][3]float32{{-1, 1, -1}, {-1, 1, 1}, {1, 1, -1}, {1, 1, 1}}},
		{[3]float32{1, 1, 0}, [3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1}}},
	}

	g := Geometry{
		Layout:   SceneLayout,
		Vertices: make([]float32, 0, 24*SceneLayout.Stride),
		Indices:  make([]uint8, 0, 36),
	}
	for f, fc := range faces {
		for _, p := range fc.corners {
			g.Vertices = append(g.Vertices, p[0], p[1], p[2])
			g.Vertices = append(g.Vertices, fc.color[:]...)
			g.Vertices = append(g.Vertices, fc.normal[:]...)
		}
		base := uint8(f * 4)
		g.Indices = append(g.Indices, base, base+1, base+2, base+3, base+2, base+1)
	}
	return g
}

// BoxSmoothGeometry returns a unit box with shared corners. Each corner is colored by its
// position remapped to [0, 1] and carries the normalized diagonal as its normal.
//
// Returns:
//   - Geometry: 8 vertices in SceneLayout, 36 indices
func BoxSmoothGeometry() Geometry {
	corners := [8][3]float32{
		{-1, -1, -1},
		{1, -1, -1},
		{-1, 1, -1},
		{-1, -1, 1},
		{-1, 1, 1},
		{1, -1, 1},
		{1, 1, -1},
		{1, 1, 1},
	}

	g := Geometry{
		Layout:   SceneLayout,
		Vertices: make([]float32, 0, 8*SceneLayout.Stride),
		Indices: []uint8{
			3, 4, 0, 2, 0, 4,
			5, 3, 1, 0, 1, 3,
			2, 6, 0, 1, 0, 6,
			7, 5, 6, 1, 6, 5,
			4, 7, 2, 6, 2, 7,
			3, 5, 4, 7, 4, 5,
		},
	}
	for _, p := range corners {
		g.Vertices = append(g.Vertices, p[0], p[1], p[2])
		g.Vertices = append(g.Vertices, (p[0]+1)/2, (p[1]+1)/2, (p[2]+1)/2)
		g.Vertices = append(g.Vertices, p[0]*invSqrt3, p[1]*invSqrt3, p[2]*invSqrt3)
	}
	return g
}

// FullScreenTriangleGeometry returns one oversized clip-space triangle covering the viewport.
//
// Returns:
//   - Geometry: 3 vertices in PositionLayout, 3 indices
func FullScreenTriangleGeometry() Geometry {
	return Geometry{
		Layout: PositionLayout,
		Vertices: []float32{
			-1, -1, 0,
			3, -1, 0,
			-1, 3, 0,
		},
		Indices: []uint8{0, 1, 2},
	}
}

// DebugQuadGeometry returns the quarter-screen quad in the top-left corner of clip space.
// Translating it by (0.5, 0, 0) moves it one slot to the right.
//
// Returns:
//   - Geometry: 4 vertices in DebugLayout, 6 indices
func DebugQuadGeometry() Geometry {
	return Geometry{
		Layout: DebugLayout,
		Vertices: []float32{
			-0.5, 0.5, 0, 1, 0,
			-0.5, 1, 0, 1, 1,
			-1, 0.5, 0, 0, 0,
			-1, 1, 0, 0, 1,
		},
		Indices: []uint8{0, 1, 2, 3, 2, 1},
	}
}
