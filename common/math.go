package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipSpaceCorrection remaps OpenGL-style clip space (z in [-w, w]) to the WebGPU
// convention (z in [0, w]). Premultiply it onto any projection built with mgl32.
var ClipSpaceCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Translate builds a translation-only matrix.
//
// Parameters:
//   - v: the translation vector
//
// Returns:
//   - mgl32.Mat4: the translation matrix (column-major)
func Translate(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v.X(), v.Y(), v.Z())
}

// Rotate builds a rotation of angle radians about axis. The axis is normalized first;
// a zero axis yields the identity.
//
// Parameters:
//   - angle: rotation angle in radians
//   - axis: rotation axis, any non-zero length
//
// Returns:
//   - mgl32.Mat4: the rotation matrix (column-major)
func Rotate(angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(angle, axis.Normalize())
}

// Perspective creates a perspective projection matrix for WebGPU clip space [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	return ClipSpaceCorrection.Mul4(mgl32.Perspective(fovY, aspect, near, far))
}

// LookAt creates a view matrix that positions and orients the camera.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, up)
}

// MatrixBytes serializes a column-major matrix for a mat4x4<f32> uniform.
func MatrixBytes(m mgl32.Mat4) []byte {
	out := make([]byte, 64)
	copy(out, SliceToBytes(m[:]))
	return out
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}
