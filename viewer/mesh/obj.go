package mesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultColor is the vertex color assigned to OBJ geometry, which carries no
// color information of its own.
var DefaultColor = [4]float32{0.7, 0.7, 0.7, 1.0}

// LoadOBJ parses OBJ-format text into a Mesh. Supported records are `v`
// (position), `vn` (normal), and `f` (face); everything else (`vt`, `o`, `g`,
// `s`, `mtllib`, `usemtl`, comments) is ignored. Face vertices may use any of
// the `v`, `v/vt`, `v//vn`, and `v/vt/vn` forms, with 1-based or negative
// (relative) indices per the OBJ convention. Faces with more than 3 vertices
// are fan-triangulated around their first vertex. When a face vertex has no
// normal reference, the flat face normal is used instead.
//
// Parameters:
//   - r: the OBJ text source
//
// Returns:
//   - Mesh: the parsed mesh with DefaultColor vertices
//   - error: an ErrInvalidMesh-wrapped error for malformed records
func LoadOBJ(r io.Reader) (Mesh, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		out       Mesh
	)

	// Deduplicate output vertices by (position index, normal index) pair so
	// shared corners stay shared in the GPU buffer. Faces that fall back to a
	// flat normal always get fresh vertices (normalIdx -1 entries are unique
	// per face, keyed by a synthetic decreasing id).
	type vertexKey struct{ pos, norm int }
	seen := make(map[vertexKey]uint32)
	syntheticNorm := -1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloat3(fields[1:])
			if err != nil {
				return Mesh{}, fmt.Errorf("%w: line %d: bad vertex record: %v", ErrInvalidMesh, lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseFloat3(fields[1:])
			if err != nil {
				return Mesh{}, fmt.Errorf("%w: line %d: bad normal record: %v", ErrInvalidMesh, lineNo, err)
			}
			normals = append(normals, n)

		case "f":
			if len(fields) < 4 {
				return Mesh{}, fmt.Errorf("%w: line %d: face with fewer than 3 vertices", ErrInvalidMesh, lineNo)
			}

			// Resolve every corner of the face first.
			type corner struct{ pos, norm int }
			corners := make([]corner, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				posIdx, normIdx, err := parseFaceRef(ref, len(positions), len(normals))
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: line %d: %v", ErrInvalidMesh, lineNo, err)
				}
				corners = append(corners, corner{pos: posIdx, norm: normIdx})
			}

			// Flat face normal fallback for corners without a vn reference.
			var flat [3]float32
			needFlat := false
			for _, c := range corners {
				if c.norm < 0 {
					needFlat = true
					break
				}
			}
			if needFlat {
				flat = faceNormal(positions[corners[0].pos], positions[corners[1].pos], positions[corners[2].pos])
			}

			emit := func(c corner) uint32 {
				key := vertexKey{pos: c.pos, norm: c.norm}
				if c.norm < 0 {
					// Flat-shaded corners are never shared across faces.
					key.norm = syntheticNorm
				}
				if idx, ok := seen[key]; ok {
					return idx
				}
				n := flat
				if c.norm >= 0 {
					n = normals[c.norm]
				}
				out.Vertices = append(out.Vertices, Vertex{
					Position: positions[c.pos],
					Normal:   n,
					Color:    DefaultColor,
				})
				idx := uint32(len(out.Vertices) - 1)
				seen[key] = idx
				return idx
			}

			// Fan triangulation around the first corner.
			for i := 2; i < len(corners); i++ {
				out.Indices = append(out.Indices,
					emit(corners[0]), emit(corners[i-1]), emit(corners[i]))
			}
			if needFlat {
				syntheticNorm--
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, fmt.Errorf("reading obj: %w", err)
	}

	if err := out.Validate(); err != nil {
		return Mesh{}, err
	}
	return out, nil
}

// LoadOBJFile opens path and parses it with LoadOBJ.
//
// Parameters:
//   - path: filesystem path to the OBJ file
//
// Returns:
//   - Mesh: the parsed mesh
//   - error: file open or parse error
func LoadOBJFile(path string) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mesh{}, fmt.Errorf("opening obj file: %w", err)
	}
	defer f.Close()
	return LoadOBJ(f)
}

// parseFloat3 parses the first 3 fields as float32s.
func parseFloat3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("component %q: %v", fields[i], err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceRef parses one face vertex reference (`v`, `v/vt`, `v//vn`, or
// `v/vt/vn`) into zero-based position and normal indices. The normal index is
// -1 when the reference carries no normal. OBJ indices are 1-based; negative
// indices count back from the current end of the respective list.
func parseFaceRef(ref string, posCount, normCount int) (posIdx, normIdx int, err error) {
	parts := strings.Split(ref, "/")
	normIdx = -1

	posIdx, err = resolveIndex(parts[0], posCount)
	if err != nil {
		return 0, 0, fmt.Errorf("face vertex %q: %v", ref, err)
	}

	if len(parts) == 3 && parts[2] != "" {
		normIdx, err = resolveIndex(parts[2], normCount)
		if err != nil {
			return 0, 0, fmt.Errorf("face normal %q: %v", ref, err)
		}
	}
	return posIdx, normIdx, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a zero-based
// index, validating the result against count.
func resolveIndex(s string, count int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index %q: %v", s, err)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v = count + v
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if v < 0 || v >= count {
		return 0, fmt.Errorf("index %s out of range (count %d)", s, count)
	}
	return v, nil
}

// faceNormal computes the normalized flat normal of the triangle (a, b, c)
// using the right-hand rule.
func faceNormal(a, b, c [3]float32) [3]float32 {
	ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	l := float32(0)
	if s := nx*nx + ny*ny + nz*nz; s > 0 {
		l = 1.0 / float32(math.Sqrt(float64(s)))
	}
	return [3]float32{nx * l, ny * l, nz * l}
}
