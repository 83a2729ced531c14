package model

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUIndexFormat is the index element type uploaded to the GPU. WebGPU has no 8-bit index
// format, so uint8 indices are widened on upload.
const GPUIndexFormat = wgpu.IndexFormatUint16

// marshalVertices serializes interleaved float32 vertices little-endian for GPU upload.
//
// Parameters:
//   - vertices: the interleaved vertex components
//
// Returns:
//   - []byte: len(vertices)*4 bytes
func marshalVertices(vertices []float32) []byte {
	buf := make([]byte, len(vertices)*4)
	for i, v := range vertices {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// marshalIndices widens uint8 indices to uint16 and pads the result to a multiple of 4 bytes,
// the alignment required for buffer writes.
//
// Parameters:
//   - indices: the CPU-side indices
//
// Returns:
//   - []byte: the padded uint16 index buffer
func marshalIndices(indices []uint8) []byte {
	size := len(indices) * 2
	size = (size + 3) &^ 3
	buf := make([]byte, size)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(idx))
	}
	return buf
}
