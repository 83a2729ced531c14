package deferred

import (
	"github.com/Carmen-Shannon/oxy-deferred/engine/camera"
	"github.com/Carmen-Shannon/oxy-deferred/engine/light"
)

// OrchestratorBuilderOption is a functional option applied to an orchestrator during NewOrchestrator.
type OrchestratorBuilderOption func(*orchestrator)

// WithCamera replaces the default camera.
//
// Parameters:
//   - c: the camera whose view-projection feeds the geometry pass
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the camera
func WithCamera(c camera.Camera) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.camera = c
	}
}

// WithLight replaces the default light.
//
// Parameters:
//   - l: the light evaluated by the lighting pass
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the light
func WithLight(l light.Light) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.light = l
	}
}

// WithDebugOverlay toggles the pass that draws the GBuffer attachments over the lit image. Defaults to on.
//
// Parameters:
//   - enabled: false to skip the debug pass and its bind groups
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the overlay flag
func WithDebugOverlay(enabled bool) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.debugOverlay = enabled
	}
}

// WithPrograms replaces the WGSL programs. The keys GeometryProgram, LightingProgram and DebugProgram
// must all be present and declare the same uniform names as DefaultPrograms.
//
// Parameters:
//   - programs: the program sources
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the programs
func WithPrograms(programs ...ProgramSource) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.programs = programs
	}
}
