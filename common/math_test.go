package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4InDelta(t *testing.T, expected, actual Mat4, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, float64(expected[i]), float64(actual[i]), delta, "element %d", i)
	}
}

func TestVec3Operations(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, float32(32), a.Dot(b))
	assert.Equal(t, Vec3{-3, 6, -3}, a.Cross(b))
	assert.InDelta(t, math.Sqrt(14), float64(a.Len()), 1e-6)
}

func TestVec3NormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())

	n := Vec3{3, 0, 4}.Normalize()
	assert.InDelta(t, 1.0, float64(n.Len()), 1e-6)
	assert.InDelta(t, 0.6, float64(n[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(n[2]), 1e-6)
}

func TestMul4Identity(t *testing.T) {
	m := RigidTransform(Vec3{1, 2, 3}, Vec3{0.5, 0.25, 0.75}, 2)

	assertMat4InDelta(t, m, Mul4(Identity4(), m), 1e-6)
	assertMat4InDelta(t, m, Mul4(m, Identity4()), 1e-6)
}

func TestMulVec4AppliesTranslation(t *testing.T) {
	m := RigidTransform(Vec3{10, 20, 30}, Vec3{}, 1)
	out := MulVec4(m, [4]float32{1, 1, 1, 1})
	assert.InDelta(t, 11, float64(out[0]), 1e-6)
	assert.InDelta(t, 21, float64(out[1]), 1e-6)
	assert.InDelta(t, 31, float64(out[2]), 1e-6)

	// Direction vectors (w = 0) ignore translation.
	dir := MulVec4(m, [4]float32{1, 0, 0, 0})
	assert.InDelta(t, 1, float64(dir[0]), 1e-6)
	assert.InDelta(t, 0, float64(dir[1]), 1e-6)
}

func TestPerspectiveMapsDepthToWebGPURange(t *testing.T) {
	near, far := float32(0.1), float32(100.0)
	p := Perspective(float32(math.Pi)/4, 16.0/9.0, near, far)

	// A point on the near plane lands at clip depth 0 after perspective divide,
	// a point on the far plane at 1. Camera looks down -z.
	nearClip := MulVec4(p, [4]float32{0, 0, -near, 1})
	assert.InDelta(t, 0, float64(nearClip[2]/nearClip[3]), 1e-5)

	farClip := MulVec4(p, [4]float32{0, 0, -far, 1})
	assert.InDelta(t, 1, float64(farClip[2]/farClip[3]), 1e-4)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 5}
	view := LookAt(eye, Vec3{0, 0, 0}, Vec3{0, 1, 0})

	out := MulVec4(view, [4]float32{eye[0], eye[1], eye[2], 1})
	assert.InDelta(t, 0, float64(out[0]), 1e-5)
	assert.InDelta(t, 0, float64(out[1]), 1e-5)
	assert.InDelta(t, 0, float64(out[2]), 1e-5)

	// The target sits straight ahead on the camera -z axis.
	target := MulVec4(view, [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, float64(target[0]), 1e-5)
	assert.InDelta(t, 0, float64(target[1]), 1e-5)
	assert.InDelta(t, -float64(eye.Len()), float64(target[2]), 1e-4)
}

func TestRigidTransformScaleAndTranslation(t *testing.T) {
	m := RigidTransform(Vec3{5, 0, 0}, Vec3{}, 3)
	out := MulVec4(m, [4]float32{1, 1, 1, 1})
	assert.InDelta(t, 8, float64(out[0]), 1e-6)
	assert.InDelta(t, 3, float64(out[1]), 1e-6)
	assert.InDelta(t, 3, float64(out[2]), 1e-6)
}

func TestRigidTransformRotationPreservesLength(t *testing.T) {
	m := RigidTransform(Vec3{}, Vec3{0.3, 1.2, -0.7}, 1)
	out := MulVec4(m, [4]float32{1, 2, 3, 0})
	length := math.Sqrt(float64(out[0]*out[0] + out[1]*out[1] + out[2]*out[2]))
	assert.InDelta(t, math.Sqrt(14), length, 1e-5)
}

func TestInvert4RoundTrip(t *testing.T) {
	m := RigidTransform(Vec3{1, -2, 3}, Vec3{0.4, -0.9, 0.2}, 2)

	inv, ok := Invert4(m)
	require.True(t, ok)
	assertMat4InDelta(t, Identity4(), Mul4(m, inv), 1e-5)
	assertMat4InDelta(t, Identity4(), Mul4(inv, m), 1e-5)
}

func TestInvert4Singular(t *testing.T) {
	_, ok := Invert4(Mat4{}) // zero matrix
	assert.False(t, ok)
}
