package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction mgl32.Vec3
	ambient   float32
	diffuse   float32
	specular  float32
	shininess float32
}

// Light is the single directional light evaluated by the lighting pass.
//
// The lighting model is ambient plus Lambert diffuse, both modulating the surface albedo,
// plus an untinted Phong specular term:
//
//	diffuse  = albedo * (ambient + max(dot(n, l), 0) * diffuseFactor)
//	specular = specularFactor * pow(max(dot(reflect(-v, n), l), 0), shininess)
//
// The same formula runs in the lighting fragment shader; Shade is its CPU reference.
type Light interface {
	// Direction returns the unit vector pointing from surfaces toward the light.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized light direction
	Direction() mgl32.Vec3

	// Ambient returns the constant term added to the diffuse factor.
	//
	// Returns:
	//   - float32: the ambient factor
	Ambient() float32

	// Diffuse returns the Lambert scale.
	//
	// Returns:
	//   - float32: the diffuse factor
	Diffuse() float32

	// Specular returns the highlight scale.
	//
	// Returns:
	//   - float32: the specular factor
	Specular() float32

	// Shininess returns the Phong exponent.
	//
	// Returns:
	//   - float32: the specular exponent
	Shininess() float32

	// Uniform packs the light and the view direction for the lighting shader.
	//
	// Parameters:
	//   - viewDir: the unit direction from the scene toward the viewer
	//
	// Returns:
	//   - GPULightingUniform: the uniform block
	Uniform(viewDir mgl32.Vec3) GPULightingUniform

	// Shade evaluates the lighting model for one surface sample. It is the CPU copy of
	// engine/deferred/assets/lighting_frag.wgsl and must change together with it.
	//
	// Parameters:
	//   - albedo: the surface color
	//   - normal: the world-space surface normal, any non-zero length
	//   - viewDir: the unit direction from the surface toward the viewer
	//
	// Returns:
	//   - mgl32.Vec3: the lit color before clamping
	Shade(albedo, normal, viewDir mgl32.Vec3) mgl32.Vec3
}

var _ Light = &lightImpl{}

// NewLight creates a directional light toward normalize(1, 1, 1) with ambient 0.2,
// diffuse 0.6, specular 0.8 and shininess 30.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: mgl32.Vec3{1, 1, 1}.Normalize(),
		ambient:   0.2,
		diffuse:   0.6,
		specular:  0.8,
		shininess: 30,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) Diffuse() float32 {
	return l.diffuse
}

func (l *lightImpl) Specular() float32 {
	return l.specular
}

func (l *lightImpl) Shininess() float32 {
	return l.shininess
}

func (l *lightImpl) Uniform(viewDir mgl32.Vec3) GPULightingUniform {
	return GPULightingUniform{
		LightDir:  l.direction,
		Ambient:   l.ambient,
		ViewDir:   viewDir,
		Diffuse:   l.diffuse,
		Specular:  l.specular,
		Shininess: l.shininess,
	}
}

func (l *lightImpl) Shade(albedo, normal, viewDir mgl32.Vec3) mgl32.Vec3 {
	if normal.Len() == 0 {
		return mgl32.Vec3{}
	}
	n := normal.Normalize()
	nDotL := max(n.Dot(l.direction), 0)
	diffuse := albedo.Mul(l.ambient + nDotL*l.diffuse)

	r := reflect(viewDir.Mul(-1), n)
	rDotL := max(r.Dot(l.direction), 0)
	spec := l.specular * float32(math.Pow(float64(rDotL), float64(l.shininess)))

	return diffuse.Add(mgl32.Vec3{spec, spec, spec})
}

// reflect mirrors incident about the unit normal n.
func reflect(incident, n mgl32.Vec3) mgl32.Vec3 {
	return incident.Sub(n.Mul(2 * n.Dot(incident)))
}
