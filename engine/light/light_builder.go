package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction toward the light.
// The direction is normalized before storing; a zero vector is ignored.
//
// Parameters:
//   - dir: the direction toward the light
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(dir mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if dir.Len() == 0 {
			return
		}
		l.direction = dir.Normalize()
	}
}

// WithAmbient is an option builder that sets the ambient factor.
//
// Parameters:
//   - ambient: the constant term added to the diffuse factor
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(ambient float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = ambient
	}
}

// WithDiffuse is an option builder that sets the Lambert scale.
//
// Parameters:
//   - diffuse: the diffuse factor
//
// Returns:
//   - LightBuilderOption: a function that applies the diffuse option to a lightImpl
func WithDiffuse(diffuse float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuse = diffuse
	}
}

// WithSpecular is an option builder that sets the highlight scale.
//
// Parameters:
//   - specular: the specular factor
//
// Returns:
//   - LightBuilderOption: a function that applies the specular option to a lightImpl
func WithSpecular(specular float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.specular = specular
	}
}

// WithShininess is an option builder that sets the Phong exponent.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - LightBuilderOption: a function that applies the shininess option to a lightImpl
func WithShininess(shininess float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shininess = shininess
	}
}
