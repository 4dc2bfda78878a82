package mesh

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see the shader package).
// Size: 40 bytes, tightly packed, no padding required.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	Color    [4]float32 // offset 24: per-vertex RGBA color (16 bytes)
}

// GPUVertexSize is the byte stride of one GPUVertex in a vertex buffer.
const GPUVertexSize = 40

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 40-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUVertex into buf, which must be at least 40 bytes.
// Avoids per-vertex allocations when packing whole meshes.
//
// Parameters:
//   - buf: destination buffer (at least 40 bytes)
func (g *GPUVertex) MarshalTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Color[3]))
}

// ComputeBoundingRadius calculates the bounding sphere radius of a mesh around
// the origin: the maximum vertex distance from (0, 0, 0). Used to place the
// default camera so the whole model is in view.
//
// Parameters:
//   - m: the mesh to measure
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(m Mesh) float32 {
	var maxDistSq float32
	for _, v := range m.Vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
