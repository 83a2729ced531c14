package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPULightingUniform is the GPU-aligned representation of the lighting pass uniform.
// Matches the WGSL LightingUniform struct in the lighting fragment shader.
// Size: 48 bytes (vec3 fields are 16-byte aligned, the scalars fill their tails).
type GPULightingUniform struct {
	LightDir  mgl32.Vec3 // offset  0: unit direction toward the light
	Ambient   float32    // offset 12: ambient factor
	ViewDir   mgl32.Vec3 // offset 16: unit direction toward the viewer
	Diffuse   float32    // offset 28: diffuse factor
	Specular  float32    // offset 32: specular factor
	Shininess float32    // offset 36: specular exponent
	_pad      [2]float32 // offset 40: padding to 48 bytes
}

// Size returns the size of the GPULightingUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULightingUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightingUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULightingUniform) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.LightDir[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.LightDir[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.LightDir[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Ambient))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.ViewDir[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.ViewDir[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.ViewDir[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Diffuse))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Specular))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Shininess))
	return buf
}
