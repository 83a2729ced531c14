package model

import (
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer/bind_group_provider"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithGeometry is an option builder that sets the CPU-side mesh data.
//
// Parameters:
//   - geometry: the vertices, indices and layout to validate and encode
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometry option to a model
func WithGeometry(geometry Geometry) ModelBuilderOption {
	return func(m *model) {
		m.geometry = geometry
	}
}

// WithMeshProvider is an option builder that sets the BindGroupProvider for mesh GPU resources.
//
// Parameters:
//   - provider: the BindGroupProvider that will hold the vertex/index buffers
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}
