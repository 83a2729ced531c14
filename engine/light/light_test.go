package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestShadeUpFacingWhite(t *testing.T) {
	l := NewLight()
	view := mgl32.Vec3{0, 6, 20}.Normalize()

	got := l.Shade(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 0}, view)
	// 0.2 + (1/sqrt(3)) * 0.6; the reflected view ray points away from the light
	want := float32(0.2 + 0.6/math.Sqrt(3))
	for i := range 3 {
		if !mgl32.FloatEqualThreshold(got[i], want, 1e-4) {
			t.Errorf("channel %d = %v, want %v", i, got[i], want)
		}
	}
	if !mgl32.FloatEqualThreshold(want, 0.546, 1e-3) {
		t.Errorf("reference diffuse %v drifted from 0.546", want)
	}
}

func TestShadeCases(t *testing.T) {
	l := NewLight()
	dir := l.Direction()

	tests := []struct {
		name    string
		albedo  mgl32.Vec3
		normal  mgl32.Vec3
		view    mgl32.Vec3
		want    mgl32.Vec3
		epsilon float32
	}{
		{
			name:   "facing away gets ambient only",
			albedo: mgl32.Vec3{1, 0.5, 0},
			normal: dir.Mul(-1),
			view:   dir.Mul(-1),
			want:   mgl32.Vec3{0.2, 0.1, 0},
		},
		{
			name:   "mirror direction peaks the highlight",
			albedo: mgl32.Vec3{0, 0, 0},
			normal: dir,
			view:   dir,
			want:   mgl32.Vec3{0.8, 0.8, 0.8},
		},
		{
			name:   "normal length does not matter",
			albedo: mgl32.Vec3{1, 1, 1},
			normal: mgl32.Vec3{0, 5, 0},
			view:   mgl32.Vec3{0, 6, 20}.Normalize(),
			want:   mgl32.Vec3{0.54641, 0.54641, 0.54641},
		},
		{
			name:   "zero normal is black",
			albedo: mgl32.Vec3{1, 1, 1},
			view:   mgl32.Vec3{0, 0, 1},
			want:   mgl32.Vec3{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Shade(tt.albedo, tt.normal, tt.view)
			if !got.ApproxEqualThreshold(tt.want, 1e-4) {
				t.Errorf("Shade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	l := NewLight(
		WithDirection(mgl32.Vec3{0, 2, 0}),
		WithAmbient(0.1),
		WithDiffuse(0.5),
		WithSpecular(0),
		WithShininess(8),
	)
	if !l.Direction().ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Direction() = %v, want normalized", l.Direction())
	}
	if l.Ambient() != 0.1 || l.Diffuse() != 0.5 || l.Specular() != 0 || l.Shininess() != 8 {
		t.Errorf("factors not applied")
	}

	kept := NewLight(WithDirection(mgl32.Vec3{}))
	if !kept.Direction().ApproxEqual(mgl32.Vec3{1, 1, 1}.Normalize()) {
		t.Errorf("zero direction should keep the default")
	}
}

func TestLightingUniformLayout(t *testing.T) {
	u := NewLight().Uniform(mgl32.Vec3{0, 0, 1})
	if u.Size() != 48 {
		t.Fatalf("Size() = %d, want 48", u.Size())
	}
	buf := u.Marshal()
	if len(buf) != 48 {
		t.Fatalf("len(Marshal()) = %d", len(buf))
	}

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{"ambient", 12, 0.2},
		{"view z", 24, 1},
		{"diffuse", 28, 0.6},
		{"specular", 32, 0.8},
		{"shininess", 36, 30},
		{"pad", 40, 0},
	}
	for _, tt := range tests {
		if got := f(tt.offset); got != tt.want {
			t.Errorf("%s at %d = %v, want %v", tt.name, tt.offset, got, tt.want)
		}
	}
}
