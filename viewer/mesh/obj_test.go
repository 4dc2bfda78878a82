package mesh

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = `
# simple triangle with explicit normals
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestLoadOBJTriangleWithNormals(t *testing.T) {
	m, err := LoadOBJ(strings.NewReader(triangleOBJ))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 3)
	require.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[1].Position)
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
		assert.Equal(t, DefaultColor, v.Color)
	}
}

func TestLoadOBJQuadIsFanTriangulated(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
}

func TestLoadOBJFlatNormalFallback(t *testing.T) {
	// Faces without vn references get the flat face normal.
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 3)
	for _, v := range m.Vertices {
		assert.InDelta(t, 0, float64(v.Normal[0]), 1e-5)
		assert.InDelta(t, 0, float64(v.Normal[1]), 1e-5)
		assert.InDelta(t, 1, float64(v.Normal[2]), 1e-5)
	}
}

func TestLoadOBJFlatShadedFacesAreNotShared(t *testing.T) {
	// Two flat-shaded faces sharing positions must not share output vertices,
	// otherwise the first face's normal would bleed into the second.
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f 1 2 4
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 6)
}

func TestLoadOBJSharedCornersAreDeduplicated(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
}

func TestLoadOBJNegativeAndTextureIndices(t *testing.T) {
	// Negative indices count back from the current list end; vt references are
	// ignored.
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f -3/1/-1 -2/1/-1 -1/1/-1
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 3)
	assert.Equal(t, [3]float32{0, 1, 0}, m.Vertices[2].Position)
	assert.Equal(t, [3]float32{0, 0, 1}, m.Vertices[0].Normal)
}

func TestLoadOBJIgnoresUnsupportedRecords(t *testing.T) {
	src := `
mtllib scene.mtl
o triangle
g default
usemtl steel
s off
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	m, err := LoadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 3)
}

func TestLoadOBJRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad vertex component", "v 0 x 0\n"},
		{"face before vertices", "f 1 2 3\n"},
		{"face with 2 vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"empty input", "# nothing here\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOBJ(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMesh)
		})
	}
}

func TestLoadOBJBuildsRenderableLayout(t *testing.T) {
	m, err := LoadOBJ(strings.NewReader(triangleOBJ))
	require.NoError(t, err)

	layout, err := Build(m)
	require.NoError(t, err)
	assert.Equal(t, 3, layout.IndexCount)
	assert.Equal(t, 6, layout.EdgeIndexCount)
}

func TestFaceNormalIsUnitLength(t *testing.T) {
	n := faceNormal([3]float32{0, 0, 0}, [3]float32{2, 0, 0}, [3]float32{0, 2, 0})
	length := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
	assert.InDelta(t, 1.0, length, 1e-5)
	assert.InDelta(t, 1.0, float64(n[2]), 1e-5)
}
