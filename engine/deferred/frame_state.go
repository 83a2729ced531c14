package deferred

import (
	"math"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/go-gl/mathgl/mgl32"
)

// AngleRate is the spin speed in turns per millisecond.
const AngleRate = 0.0001

var (
	// TiltAxis is the fixed axis both boxes are tilted about by -45 degrees.
	TiltAxis = mgl32.Vec3{0.7, 0, -0.7}

	// SpinAxis is the axis both boxes spin about.
	SpinAxis = mgl32.Vec3{0.577, 0.577, 0.577}

	// BoxFlatOffset places the flat-shaded box left of the origin.
	BoxFlatOffset = mgl32.Vec3{-2, 0.7, 0}

	// BoxSmoothOffset places the smooth-shaded box right of the origin.
	BoxSmoothOffset = mgl32.Vec3{2, 0.7, 0}
)

// FrameState is the animation state carried between frames.
type FrameState struct {
	// Angle is the spin progress in turns, always in [0, 1).
	Angle float64

	// LastTimestamp is the timestamp of the previous frame in milliseconds. Valid when HasTimestamp is set.
	LastTimestamp float64

	// HasTimestamp is false until the first frame has been advanced.
	HasTimestamp bool
}

// Advance moves the state to timestamp. The first frame has zero elapsed time and a timestamp
// earlier than the previous one counts as zero.
//
// Parameters:
//   - state: the previous frame state
//   - timestampMillis: the current frame time in milliseconds
//
// Returns:
//   - FrameState: the next state
func Advance(state FrameState, timestampMillis float64) FrameState {
	elapsed := 0.0
	if state.HasTimestamp {
		elapsed = max(timestampMillis-state.LastTimestamp, 0)
	}
	return FrameState{
		Angle:         wrapTurns(state.Angle + AngleRate*elapsed),
		LastTimestamp: timestampMillis,
		HasTimestamp:  true,
	}
}

// wrapTurns reduces a into [0, 1).
func wrapTurns(a float64) float64 {
	a = math.Mod(a, 1)
	if a < 0 {
		a++
	}
	if a >= 1 {
		a = 0
	}
	return a
}

// WorldMatrix composes translate(offset) · rotate(-π/4, tiltAxis) · rotate(2π·angle, spinAxis).
// Both axes are normalized.
//
// Parameters:
//   - offset: the object position
//   - tiltAxis: the fixed tilt axis
//   - spinAxis: the spin axis
//   - angle: spin progress in turns
//
// Returns:
//   - mgl32.Mat4: the world matrix (column-major)
func WorldMatrix(offset, tiltAxis, spinAxis mgl32.Vec3, angle float64) mgl32.Mat4 {
	tilt := common.Rotate(-math.Pi/4, tiltAxis)
	spin := common.Rotate(float32(2*math.Pi*angle), spinAxis)
	return common.Translate(offset).Mul4(tilt).Mul4(spin)
}
