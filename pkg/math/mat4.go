package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
// Callers must guard against a zero aspect (minimised windows).
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1.0 / math.Tan(float64(fovY)/2.0))
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Ortho returns an orthographic projection matrix, used by the 2D overlay.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformVec3 transforms a point by this matrix (w=1), with perspective divide.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	p := m.MulVec4(Vec4{v.X, v.Y, v.Z, 1})
	if p[3] != 0 && p[3] != 1 {
		return Vec3{p[0] / p[3], p[1] / p[3], p[2] / p[3]}
	}
	return Vec3{p[0], p[1], p[2]}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Inverse returns the inverse of the matrix. ok is false when the matrix is
// singular, as a projection with zero aspect would be.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	// 2x2 sub-determinants of the top and bottom column pairs.
	s0 := m[0]*m[5] - m[1]*m[4]
	s1 := m[0]*m[6] - m[2]*m[4]
	s2 := m[0]*m[7] - m[3]*m[4]
	s3 := m[1]*m[6] - m[2]*m[5]
	s4 := m[1]*m[7] - m[3]*m[5]
	s5 := m[2]*m[7] - m[3]*m[6]

	c0 := m[8]*m[13] - m[9]*m[12]
	c1 := m[8]*m[14] - m[10]*m[12]
	c2 := m[8]*m[15] - m[11]*m[12]
	c3 := m[9]*m[14] - m[10]*m[13]
	c4 := m[9]*m[15] - m[11]*m[13]
	c5 := m[10]*m[15] - m[11]*m[14]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 || math.IsNaN(float64(det)) {
		return Mat4{}, false
	}
	d := 1 / det

	return Mat4{
		(m[5]*c5 - m[6]*c4 + m[7]*c3) * d,
		(m[2]*c4 - m[1]*c5 - m[3]*c3) * d,
		(m[13]*s5 - m[14]*s4 + m[15]*s3) * d,
		(m[10]*s4 - m[9]*s5 - m[11]*s3) * d,

		(m[6]*c2 - m[4]*c5 - m[7]*c1) * d,
		(m[0]*c5 - m[2]*c2 + m[3]*c1) * d,
		(m[14]*s2 - m[12]*s5 - m[15]*s1) * d,
		(m[8]*s5 - m[10]*s2 + m[11]*s1) * d,

		(m[4]*c4 - m[5]*c2 + m[7]*c0) * d,
		(m[1]*c2 - m[0]*c4 - m[3]*c0) * d,
		(m[12]*s4 - m[13]*s2 + m[15]*s0) * d,
		(m[9]*s2 - m[8]*s4 - m[11]*s0) * d,

		(m[5]*c1 - m[4]*c3 - m[6]*c0) * d,
		(m[0]*c3 - m[1]*c1 + m[2]*c0) * d,
		(m[13]*s1 - m[12]*s3 - m[14]*s0) * d,
		(m[8]*s3 - m[9]*s1 + m[10]*s0) * d,
	}, true
}
