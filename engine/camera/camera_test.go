package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// near compares with an absolute tolerance; mgl32's comparators are relative and collapse near zero.
func near(got, want, tolerance float32) bool {
	return math.Abs(float64(got-want)) <= float64(tolerance)
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if !c.Eye().ApproxEqual(mgl32.Vec3{0, 6, 20}) {
		t.Errorf("Eye() = %v", c.Eye())
	}
	if !c.Target().ApproxEqual(mgl32.Vec3{}) {
		t.Errorf("Target() = %v", c.Target())
	}
	if !near(c.Fov(), mgl32.DegToRad(40), 1e-6) {
		t.Errorf("Fov() = %v, want 40 degrees", c.Fov())
	}
	if c.Near() != 0.01 || c.Far() != 40 {
		t.Errorf("Near/Far = %v/%v", c.Near(), c.Far())
	}
	if c.BindGroupProvider() == nil {
		t.Errorf("BindGroupProvider() is nil")
	}
}

func TestViewDirection(t *testing.T) {
	c := NewCamera()
	want := mgl32.Vec3{0, 6, 20}.Normalize()
	if !c.ViewDirection().ApproxEqual(want) {
		t.Errorf("ViewDirection() = %v, want %v", c.ViewDirection(), want)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	c := NewCamera()
	p := c.ProjectionMatrix()

	tests := []struct {
		name  string
		viewZ float32
		wantZ float32
	}{
		{"near plane", -0.01, 0},
		{"far plane", -40, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := p.Mul4x1(mgl32.Vec4{0, 0, tt.viewZ, 1})
			if got := clip.Z() / clip.W(); !near(got, tt.wantZ, 1e-4) {
				t.Errorf("ndc z = %v, want %v", got, tt.wantZ)
			}
		})
	}
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	c := NewCamera(WithAspect(2))
	want := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	if !c.ViewProjectionMatrix().ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("ViewProjectionMatrix() != Projection·View")
	}

	// the target projects to the center of the screen
	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(clip.X()/clip.W(), 0, 1e-5) || !near(clip.Y()/clip.W(), 0, 1e-5) {
		t.Errorf("target projects to (%v, %v)", clip.X()/clip.W(), clip.Y()/clip.W())
	}
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetAspect(2)
	after := c.ProjectionMatrix()
	if !near(after[0], before[0]/2, 1e-6) {
		t.Errorf("x scale = %v, want %v", after[0], before[0]/2)
	}
}
