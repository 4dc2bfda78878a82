package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestOrbitKeepsRadius(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithControllerTarget(1, 2, 3))

	for i := 0; i < 50; i++ {
		cc.Orbit(0.3, 0.1)
	}

	px, py, pz := cc.Position()
	tx, ty, tz := cc.Target()
	dx, dy, dz := px-tx, py-ty, pz-tz
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	assert.InDelta(t, 10.0, dist, tol, "orbit must preserve distance to target")
	assert.Equal(t, float32(1), tx)
	assert.Equal(t, float32(2), ty)
	assert.Equal(t, float32(3), tz)
}

func TestOrbitElevationClampIsIdempotent(t *testing.T) {
	cc := NewCameraController()

	cc.Orbit(0, 100) // way past the pole
	first := cc.Elevation()
	cc.Orbit(0, 100)
	second := cc.Elevation()

	assert.Equal(t, cc.MaxElevation(), first)
	assert.Equal(t, first, second, "clamped elevation must not drift on repeated input")

	cc.Orbit(0, -200)
	assert.Equal(t, cc.MinElevation(), cc.Elevation())
}

func TestOrbitAzimuthWraps(t *testing.T) {
	cc := NewCameraController(WithRadius(5))

	px0, py0, pz0 := cc.Position()
	cc.Orbit(float32(2*math.Pi), 0) // full revolution
	px1, py1, pz1 := cc.Position()

	assert.InDelta(t, px0, px1, 1e-4)
	assert.InDelta(t, py0, py1, 1e-4)
	assert.InDelta(t, pz0, pz1, 1e-4)
}

func TestZoomIsMultiplicativeAndClamped(t *testing.T) {
	cc := NewCameraController(WithRadius(8), WithZoomBase(2), WithRadiusBounds(1, 100))

	cc.Zoom(1)
	assert.InDelta(t, 4.0, cc.Radius(), tol, "one zoom-in step at base 2 halves the radius")
	cc.Zoom(-1)
	assert.InDelta(t, 8.0, cc.Radius(), tol)

	cc.Zoom(-1000)
	assert.Equal(t, cc.MaxRadius(), cc.Radius())
}

func TestZoomConvergesOnMinimumRadius(t *testing.T) {
	cc := NewCameraController(WithRadius(8), WithZoomBase(2), WithRadiusBounds(1, 100))

	prev := cc.Radius()
	for i := 0; i < 12; i++ {
		cc.Zoom(1)
		r := cc.Radius()
		assert.Greater(t, r, cc.MinRadius(), "zooming in must not pin the radius to the minimum")
		assert.Less(t, r, prev)
		prev = r
	}
	assert.InDelta(t, float64(cc.MinRadius()), float64(cc.Radius()), 0.01)
}

func TestPanPreservesOrbitOffset(t *testing.T) {
	cc := NewCameraController(WithRadius(6), WithElevation(0.4), WithAzimuth(1.2))

	px0, py0, pz0 := cc.Position()
	tx0, ty0, tz0 := cc.Target()

	cc.Pan(0.25, -0.5)

	px1, py1, pz1 := cc.Position()
	tx1, ty1, tz1 := cc.Target()

	// The position-target offset is untouched by panning.
	assert.InDelta(t, px0-tx0, px1-tx1, tol)
	assert.InDelta(t, py0-ty0, py1-ty1, tol)
	assert.InDelta(t, pz0-tz0, pz1-tz1, tol)
	assert.InDelta(t, 6.0, float64(cc.Radius()), tol)

	// And the target actually moved.
	moved := (tx1-tx0)*(tx1-tx0) + (ty1-ty0)*(ty1-ty0) + (tz1-tz0)*(tz1-tz0)
	assert.Positive(t, moved)
}

func TestPanScalesWithRadius(t *testing.T) {
	near := NewCameraController(WithRadius(2))
	far := NewCameraController(WithRadius(20))

	near.Pan(1, 0)
	far.Pan(1, 0)

	nx, _, nz := near.Target()
	fx, _, fz := far.Target()

	nearDist := math.Sqrt(float64(nx*nx + nz*nz))
	farDist := math.Sqrt(float64(fx*fx + fz*fz))
	assert.InDelta(t, 10.0, farDist/nearDist, 1e-3, "pan distance must be proportional to radius")
}

func TestCameraMatricesFollowController(t *testing.T) {
	cc := NewCameraController(WithRadius(5), WithElevation(0), WithAzimuth(0))
	cam := NewCamera(WithController(cc), WithAspect(4.0/3.0))

	// azimuth 0, elevation 0 puts the camera at (0, 0, radius) looking down -Z.
	view := cam.ViewMatrix()
	origin := [4]float32{0, 0, 0, 1}
	out := mulVec4(view, origin)
	assert.InDelta(t, 0.0, out[0], tol)
	assert.InDelta(t, 0.0, out[1], tol)
	assert.InDelta(t, -5.0, out[2], tol, "target should sit 5 units in front of the camera")

	// Moving the controller and calling Update must change the matrices.
	cc.Orbit(0.7, 0.2)
	cam.Update()
	assert.NotEqual(t, view, cam.ViewMatrix())
}

func TestProjectionDepthRange(t *testing.T) {
	cam := NewCamera(WithFov(float32(math.Pi/3)), WithAspect(1), WithNear(1), WithFar(101))
	proj := cam.ProjectionMatrix()

	// A point on the near plane maps to depth 0, on the far plane to depth 1
	// (WebGPU clip space, not the OpenGL -1..1 range).
	nearClip := mulVec4(proj, [4]float32{0, 0, -1, 1})
	assert.InDelta(t, 0.0, nearClip[2]/nearClip[3], tol)

	farClip := mulVec4(proj, [4]float32{0, 0, -101, 1})
	assert.InDelta(t, 1.0, farClip[2]/farClip[3], tol)
}

func TestFocusOnFramesSphere(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc))

	cam.FocusOn(3, -1, 2, 10)

	tx, ty, tz := cc.Target()
	assert.Equal(t, float32(3), tx)
	assert.Equal(t, float32(-1), ty)
	assert.Equal(t, float32(2), tz)

	// The whole sphere must be inside the view frustum depth-wise.
	require.Less(t, cam.Near(), cc.Radius()-10)
	require.Greater(t, cam.Far(), cc.Radius()+10)
	assert.Positive(t, cam.Near())

	// Zero and negative radii are ignored.
	before := cc.Radius()
	cam.FocusOn(0, 0, 0, 0)
	assert.Equal(t, before, cc.Radius())
}

// mulVec4 applies a column-major matrix to a vector, kept local so the tests
// do not depend on the math helpers they indirectly verify.
func mulVec4(m [16]float32, v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[0*4+r]*v[0] + m[1*4+r]*v[1] + m[2*4+r]*v[2] + m[3*4+r]*v[3]
	}
	return out
}
