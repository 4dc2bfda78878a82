package scene

import (
	"testing"

	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/camera"
	"github.com/Carmen-Shannon/facet-go/viewer/light"
	"github.com/Carmen-Shannon/facet-go/viewer/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = [4]float32{1, 1, 1, 1}

func TestSetModelRejectsInvalidMeshAndKeepsPrevious(t *testing.T) {
	s := NewScene()

	good := mesh.UnitCube(white)
	require.NoError(t, s.SetModel("part", good))

	gen0, ok := s.Generation("part")
	require.True(t, ok)
	assert.Equal(t, uint64(1), gen0)

	// A malformed replacement must leave the existing model untouched.
	bad := mesh.Mesh{
		Vertices: good.Vertices,
		Indices:  []uint32{0, 1}, // not a multiple of 3
	}
	err := s.SetModel("part", bad)
	require.ErrorIs(t, err, mesh.ErrInvalidMesh)

	snap, ok := s.Model("part")
	require.True(t, ok)
	assert.Equal(t, good.TriangleCount(), snap.Mesh.TriangleCount())
	assert.Equal(t, uint64(1), snap.Generation, "failed replacement must not bump the generation")
}

func TestSetModelReplacementBumpsGeneration(t *testing.T) {
	s := NewScene()

	require.NoError(t, s.SetModel("part", mesh.UnitCube(white)))
	require.NoError(t, s.SetModel("part", mesh.UnitCube([4]float32{1, 0, 0, 1})))

	gen, ok := s.Generation("part")
	require.True(t, ok)
	assert.Equal(t, uint64(2), gen)
	assert.Equal(t, 1, s.Count())
}

func TestModelsOrderedByID(t *testing.T) {
	s := NewScene()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.SetModel(id, mesh.UnitCube(white)))
	}

	models := s.Models()
	require.Len(t, models, 3)
	assert.Equal(t, "a", models[0].ID)
	assert.Equal(t, "b", models[1].ID)
	assert.Equal(t, "c", models[2].ID)
}

func TestBuildLayouts(t *testing.T) {
	s := NewScene(WithLayoutWorkers(2))
	require.NoError(t, s.SetModel("cube", mesh.UnitCube(white)))
	require.NoError(t, s.SetModel("cube2", mesh.UnitCube(white)))

	results, err := s.BuildLayouts()
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "cube", results[0].ID)
	assert.Equal(t, 36, results[0].Layout.IndexCount, "a cube renders as 12 triangles")
	assert.Equal(t, 8*mesh.GPUVertexSize, len(results[0].Layout.VertexData))
	assert.Equal(t, uint64(1), results[0].Generation)

	_, err = s.BuildLayouts("missing")
	assert.Error(t, err)
}

func TestFrameDataHeadlightTracksCamera(t *testing.T) {
	ctrl := camera.NewCameraController(camera.WithRadius(5), camera.WithElevation(0), camera.WithAzimuth(0))
	cam := camera.NewCamera(camera.WithController(ctrl))
	s := NewScene(WithCamera(cam), WithLight(light.NewLight(light.WithHeadlight(true))))

	// Camera sits at (0, 0, 5) looking at the origin: the headlight must
	// shine down -Z.
	frame := s.FrameData()
	assert.InDelta(t, 0.0, frame.LightDirection[0], 1e-5)
	assert.InDelta(t, 0.0, frame.LightDirection[1], 1e-5)
	assert.InDelta(t, -1.0, frame.LightDirection[2], 1e-5)
	assert.Equal(t, float32(1), frame.LightDirection[3], "w carries the intensity")

	assert.Equal(t, cam.ViewMatrix(), frame.View)
	assert.Equal(t, cam.ProjectionMatrix(), frame.Projection)
}

func TestFrameDataHeadlightWithoutControllerKeepsDirection(t *testing.T) {
	s := NewScene(WithLight(light.NewLight(light.WithDirection(0, -1, 0))))
	s.SetCamera(camera.NewCamera()) // no controller attached

	frame := s.FrameData()
	assert.Equal(t, float32(0), frame.LightDirection[0])
	assert.Equal(t, float32(-1), frame.LightDirection[1])
	assert.Equal(t, float32(0), frame.LightDirection[2])
}

func TestFrameDataDisabledLight(t *testing.T) {
	s := NewScene(WithLight(light.NewLight(light.WithEnabled(false))), WithAmbientColor(0.2, 0.3, 0.4))

	frame := s.FrameData()
	assert.Equal(t, [4]float32{}, frame.LightDirection)
	assert.Equal(t, [4]float32{}, frame.LightColor)
	assert.Equal(t, [4]float32{0.2, 0.3, 0.4, 0}, frame.Ambient)
}

func TestModelDataUsesTransform(t *testing.T) {
	s := NewScene()
	require.NoError(t, s.SetModel("part", mesh.UnitCube(white)))
	require.NoError(t, s.SetTransform("part", Transform{
		Position: common.Vec3{1, 2, 3},
		Scale:    2,
	}))

	data, ok := s.ModelData("part")
	require.True(t, ok)
	assert.Equal(t, float32(2), data.Model[0], "uniform scale on the diagonal")
	assert.Equal(t, float32(1), data.Model[12])
	assert.Equal(t, float32(2), data.Model[13])
	assert.Equal(t, float32(3), data.Model[14])

	assert.Error(t, s.SetTransform("missing", IdentityTransform()))
}

func TestBoundingRadius(t *testing.T) {
	s := NewScene()
	assert.Equal(t, float32(0), s.BoundingRadius())

	require.NoError(t, s.SetModel("cube", mesh.UnitCube(white)))
	base := s.BoundingRadius()
	assert.InDelta(t, 0.866, float64(base), 1e-3, "unit cube corner distance")

	require.NoError(t, s.SetTransform("cube", Transform{Position: common.Vec3{10, 0, 0}, Scale: 1}))
	assert.InDelta(t, 10.866, float64(s.BoundingRadius()), 1e-3)
}

func TestFrameDataMarshalSize(t *testing.T) {
	s := NewScene()
	frame := s.FrameData()
	assert.Len(t, frame.Marshal(), GPUFrameDataSize)

	model := GPUModelData{Model: common.Identity4()}
	assert.Len(t, model.Marshal(), GPUModelDataSize)
}
