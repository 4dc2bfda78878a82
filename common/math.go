package common

import "math"

// Vec3 is a 3-component float32 vector.
type Vec3 [3]float32

// Mat4 is a 4x4 float32 matrix stored in column-major order (WebGPU/OpenGL
// convention). Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Dot returns the dot product v . o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. A zero vector is returned
// unchanged rather than producing NaNs.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return v
	}
	return v.Scale(1.0 / l)
}

// Mul4 multiplies two 4x4 column-major matrices.
// Result: out = a * b (apply b first, then a).
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product a * b
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of b
		for j := 0; j < 4; j++ { // row of a
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// MulVec4 transforms a 4-component vector by m.
//
// Parameters:
//   - m: the transform matrix
//   - v: the vector (x, y, z, w)
//
// Returns:
//   - [4]float32: the transformed vector m * v
func MulVec4(m Mat4, v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[0*4+r]*v[0] + m[1*4+r]*v[1] + m[2*4+r]*v[2] + m[3*4+r]*v[3]
	}
	return out
}

// Perspective creates a perspective projection matrix targeting WebGPU clip
// space (depth range [0, 1], y up).
//
// Parameters:
//   - fovY: vertical field of view in radians, must be in (0, pi)
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt creates a view matrix that transforms world coordinates to camera
// space, with the camera at eye looking toward center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera roll (typically {0, 1, 0})
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center).Normalize() // backward
	x := up.Cross(z).Normalize()     // right
	y := z.Cross(x)                  // true up

	var out Mat4
	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -x.Dot(eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -y.Dot(eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -z.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
	return out
}

// RigidTransform constructs a model matrix from translation, Euler rotation,
// and a uniform scale factor. Rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - translation: world-space translation
//   - rotation: rotation angles in radians around x, y, z
//   - scale: uniform scale factor
//
// Returns:
//   - Mat4: the model-to-world matrix
func RigidTransform(translation, rotation Vec3, scale float32) Mat4 {
	cx := float32(math.Cos(float64(rotation[0])))
	sx := float32(math.Sin(float64(rotation[0])))
	cy := float32(math.Cos(float64(rotation[1])))
	sy := float32(math.Sin(float64(rotation[1])))
	cz := float32(math.Cos(float64(rotation[2])))
	sz := float32(math.Sin(float64(rotation[2])))

	var out Mat4

	// R = Ry * Rx * Rz, column-major
	out[0] = (cy*cz + sy*sx*sz) * scale
	out[1] = (cx * sz) * scale
	out[2] = (-sy*cz + cy*sx*sz) * scale

	out[4] = (cy*-sz + sy*sx*cz) * scale
	out[5] = (cx * cz) * scale
	out[6] = (sy*sz + cy*sx*cz) * scale

	out[8] = (sy * cx) * scale
	out[9] = (-sx) * scale
	out[10] = (cy * cx) * scale

	out[12] = translation[0]
	out[13] = translation[1]
	out[14] = translation[2]
	out[15] = 1
	return out
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - Mat4: the inverse, or the zero matrix if m is singular
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m Mat4) (Mat4, bool) {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, false
	}

	invDet := 1.0 / det
	var out Mat4

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return out, true
}
