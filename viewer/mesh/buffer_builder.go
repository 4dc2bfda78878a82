package mesh

import "encoding/binary"

// BufferLayout is the GPU-ready byte layout of one mesh: a flat, tightly
// packed vertex byte sequence matching the GPUVertex schema plus a uint32
// little-endian index byte sequence, both sized exactly to content. Building
// a layout is a pure transform; it never touches GPU handles.
type BufferLayout struct {
	// VertexData is the packed vertex bytes, GPUVertexSize bytes per vertex.
	VertexData []byte
	// IndexData is the packed little-endian uint32 index bytes.
	IndexData []byte
	// IndexCount is the number of indices, used for draw calls.
	IndexCount int
	// EdgeIndexData is the packed line-list index bytes for wireframe overlay
	// rendering: 3 edges (6 indices) per triangle, referencing the same vertex
	// buffer as IndexData.
	EdgeIndexData []byte
	// EdgeIndexCount is the number of line-list indices in EdgeIndexData.
	EdgeIndexCount int
}

// Build converts a validated mesh into its GPU buffer layout.
// For a mesh with N triangles the result has exactly 3N entries in the index
// buffer and len(Vertices) packed vertices; every referenced index is covered.
//
// Parameters:
//   - m: the mesh to convert; must satisfy Mesh.Validate
//
// Returns:
//   - BufferLayout: the packed vertex/index byte layout
//   - error: an ErrInvalidMesh-wrapped error if validation fails
func Build(m Mesh) (BufferLayout, error) {
	if err := m.Validate(); err != nil {
		return BufferLayout{}, err
	}

	vertexData := make([]byte, len(m.Vertices)*GPUVertexSize)
	for i, v := range m.Vertices {
		gv := GPUVertex{Position: v.Position, Normal: v.Normal, Color: v.Color}
		gv.MarshalTo(vertexData[i*GPUVertexSize:])
	}

	indexData := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(indexData[i*4:], idx)
	}

	// Line-list indices for the wireframe overlay: each triangle (a, b, c)
	// contributes edges a-b, b-c, c-a. Shared edges are emitted twice; the
	// duplicate draw cost is negligible next to deduplication bookkeeping.
	edgeData := make([]byte, m.TriangleCount()*6*4)
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		o := t * 24
		binary.LittleEndian.PutUint32(edgeData[o:], a)
		binary.LittleEndian.PutUint32(edgeData[o+4:], b)
		binary.LittleEndian.PutUint32(edgeData[o+8:], b)
		binary.LittleEndian.PutUint32(edgeData[o+12:], c)
		binary.LittleEndian.PutUint32(edgeData[o+16:], c)
		binary.LittleEndian.PutUint32(edgeData[o+20:], a)
	}

	return BufferLayout{
		VertexData:     vertexData,
		IndexData:      indexData,
		IndexCount:     len(m.Indices),
		EdgeIndexData:  edgeData,
		EdgeIndexCount: m.TriangleCount() * 6,
	}, nil
}
