package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
)

var (
	// ErrEmptyGeometry is returned when a mesh has no vertices or no indices.
	ErrEmptyGeometry = errors.New("geometry has no vertices or indices")

	// ErrTooManyVertices is returned when a mesh exceeds MaxVertices.
	ErrTooManyVertices = fmt.Errorf("geometry exceeds %d vertices", MaxVertices)
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	geometry              Geometry
	meshProvider          bind_group_provider.BindGroupProvider
	vertexData, indexData []byte
}

// Model is an immutable mesh: validated geometry, its GPU-ready byte encodings and the
// BindGroupProvider that receives the vertex and index buffers.
//
// Upload the buffers once with the renderer:
//
//	r.InitMeshBuffers(m.MeshProvider(), m.VertexData(), m.IndexData(), m.IndexCount(), model.GPUIndexFormat)
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Layout returns the vertex format of the mesh.
	//
	// Returns:
	//   - VertexLayout: the layout
	Layout() VertexLayout

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// VertexData returns the little-endian float32 vertex bytes.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the indices widened to GPUIndexFormat, padded to 4-byte alignment.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices drawn. Padding is not counted.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Release frees the GPU buffers held by the mesh provider.
	Release()
}

var _ Model = &model{}

// NewModel validates the configured geometry and encodes it for upload.
// A BindGroupProvider named after the model is created unless one is supplied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the validated model
//   - error: a *common.ResourceCreationError if the geometry is empty, malformed or over MaxVertices
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	if err := validateGeometry(m.geometry); err != nil {
		return nil, common.NewResourceCreationError(fmt.Sprintf("mesh %q", m.name), err)
	}

	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name)
	}
	m.vertexData = marshalVertices(m.geometry.Vertices)
	m.indexData = marshalIndices(m.geometry.Indices)

	common.Logger().Debug("mesh created",
		"name", m.name,
		"layout", m.geometry.Layout.Name,
		"vertices", m.geometry.VertexCount(),
		"indices", len(m.geometry.Indices))
	return m, nil
}

func validateGeometry(g Geometry) error {
	if g.Layout.Stride <= 0 {
		return fmt.Errorf("layout %q has no stride", g.Layout.Name)
	}
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return ErrEmptyGeometry
	}
	if len(g.Vertices)%g.Layout.Stride != 0 {
		return fmt.Errorf("%d components is not a multiple of stride %d", len(g.Vertices), g.Layout.Stride)
	}
	count := g.VertexCount()
	if count > MaxVertices {
		return fmt.Errorf("%w: has %d", ErrTooManyVertices, count)
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form whole triangles", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= count {
			return fmt.Errorf("index %d at position %d out of range for %d vertices", idx, i, count)
		}
	}
	return nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Layout() VertexLayout {
	return m.geometry.Layout
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexCount() int {
	return m.geometry.VertexCount()
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.geometry.Indices)
}

func (m *model) Release() {
	if m.meshProvider != nil {
		m.meshProvider.Release()
	}
}
