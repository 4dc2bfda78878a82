package scene

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/facet-go/common"
)

// GPUFrameData is the GPU-aligned per-frame uniform block shared by every draw
// call: camera matrices plus the lighting environment. Matches the WGSL
// FrameData struct layout exactly (see the shader package).
// Size: 176 bytes, 16-byte aligned throughout, no implicit padding.
type GPUFrameData struct {
	View       common.Mat4 // offset   0: world-to-camera matrix (64 bytes)
	Projection common.Mat4 // offset  64: camera-to-clip matrix, WebGPU depth range (64 bytes)

	// LightDirection is the normalized world-space light direction in xyz with
	// the light intensity in w. A w of 0 disables the diffuse term.
	LightDirection [4]float32 // offset 128 (16 bytes)
	// LightColor is the light RGB in xyz; w is unused padding.
	LightColor [4]float32 // offset 144 (16 bytes)
	// Ambient is the flat ambient RGB in xyz; w is unused padding.
	Ambient [4]float32 // offset 160 (16 bytes)
}

// GPUFrameDataSize is the byte size of the marshaled GPUFrameData block.
const GPUFrameDataSize = 176

// Size returns the size of the GPUFrameData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUFrameData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameData struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 176-byte buffer ready for GPU upload.
func (g *GPUFrameData) Marshal() []byte {
	buf := make([]byte, GPUFrameDataSize)
	o := 0
	for _, f := range g.View {
		binary.LittleEndian.PutUint32(buf[o:], math.Float32bits(f))
		o += 4
	}
	for _, f := range g.Projection {
		binary.LittleEndian.PutUint32(buf[o:], math.Float32bits(f))
		o += 4
	}
	for _, v := range [][4]float32{g.LightDirection, g.LightColor, g.Ambient} {
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[o:], math.Float32bits(f))
			o += 4
		}
	}
	return buf
}

// GPUModelData is the GPU-aligned per-model uniform block: the model-to-world
// matrix. Matches the WGSL ModelData struct layout exactly.
// Size: 64 bytes.
type GPUModelData struct {
	Model common.Mat4 // offset 0: model-to-world matrix (64 bytes)
}

// GPUModelDataSize is the byte size of the marshaled GPUModelData block.
const GPUModelDataSize = 64

// Size returns the size of the GPUModelData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUModelData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUModelData struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUModelData) Marshal() []byte {
	buf := make([]byte, GPUModelDataSize)
	for i, f := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
