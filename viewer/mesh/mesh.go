// package mesh holds the CPU-side triangle mesh data model and the builder that
// converts meshes into GPU-ready buffer layouts. Meshes arrive from an external
// geometry pipeline (or from OBJ text for standalone loading) and are validated
// here before anything touches the GPU layer.
package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidMesh is returned when ingested geometry is malformed: empty vertex
// or index data, an index count that is not a multiple of 3, or an index that
// references a vertex past the end of the vertex slice.
var ErrInvalidMesh = errors.New("invalid mesh")

// Vertex is a single mesh vertex: position, normal, and RGBA color in 0..1.
// Normals are expected to be unit length; the viewer never renormalizes them.
// That is a documented precondition on mesh producers, not an enforced check.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// Mesh is a triangulated surface: a vertex sequence plus a triangle index
// sequence where every 3 consecutive indices form one triangle. Meshes are
// replaced wholesale when the displayed geometry changes, never mutated in place.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles described by the index sequence.
//
// Returns:
//   - int: index count / 3
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the mesh invariants: non-empty vertex and index sequences,
// index count divisible by 3, and every index < vertex count.
//
// Returns:
//   - error: an ErrInvalidMesh-wrapped error describing the first violation, or nil
func (m Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	if len(m.Indices) == 0 {
		return fmt.Errorf("%w: no indices", ErrInvalidMesh)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at position %d exceeds vertex count %d", ErrInvalidMesh, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// UnitCube builds an axis-aligned cube spanning [-0.5, 0.5] on each axis with
// 8 shared vertices and 12 triangles. Vertex normals point outward from the
// cube center (normalized corner directions), which is the cheapest normal set
// for a shared-vertex cube. Used as a render test fixture.
//
// Parameters:
//   - color: RGBA color applied to every vertex
//
// Returns:
//   - Mesh: the cube mesh
func UnitCube(color [4]float32) Mesh {
	corners := [8][3]float32{
		{-0.5, -0.5, -0.5},
		{0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5},
		{-0.5, 0.5, 0.5},
	}

	// 1/sqrt(3): each corner normal is the normalized corner direction.
	const n = 0.5773503

	vertices := make([]Vertex, 8)
	for i, c := range corners {
		vertices[i] = Vertex{
			Position: c,
			Normal:   [3]float32{sign(c[0]) * n, sign(c[1]) * n, sign(c[2]) * n},
			Color:    color,
		}
	}

	// CCW winding viewed from outside.
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 7, 6, 3, 6, 2, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}

	return Mesh{Vertices: vertices, Indices: indices}
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
