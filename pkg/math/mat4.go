package math

import "errors"

// ErrDegenerateProjection is returned by Perspective for inputs that would
// divide by zero.
var ErrDegenerateProjection = errors.New("degenerate perspective projection")

// Mat4 is a 4x4 matrix stored row-major: m[row][col].
// Vectors are columns and are multiplied on the right (M * v), so the
// translation lives in column 3. Upload to OpenGL with transpose enabled.
type Mat4[T Number] [4][4]T

// Identity returns an identity matrix.
func Identity[T Number]() Mat4[T] {
	return Mat4[T]{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate returns a translation matrix.
func Translate[T Number](v Vec3[T]) Mat4[T] {
	m := Identity[T]()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// Scale returns a scale matrix.
func Scale[T Number](v Vec3[T]) Mat4[T] {
	m := Identity[T]()
	m[0][0] = v.X
	m[1][1] = v.Y
	m[2][2] = v.Z
	return m
}

// Rotate returns a rotation of angle radians around axis (Rodrigues' formula).
// axis should be normalized.
func Rotate[T Number](axis Vec3[T], angle T) Mat4[T] {
	c := cos(angle)
	s := sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4[T]{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		{t*y*x + s*z, t*y*y + c, t*y*z - s*x, 0},
		{t*z*x - s*y, t*z*y + s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// LookAt returns a right-handed view matrix looking from eye towards target.
// The camera basis is built by Gram-Schmidt: the backward axis points from
// target to eye, right = up x backward, and the orthogonal up = backward x right.
func LookAt[T Number](eye, target, up Vec3[T]) Mat4[T] {
	back := eye.Sub(target).Normalize()
	right := up.Cross(back).Normalize()
	camUp := back.Cross(right)

	basis := Identity[T]()
	basis[0] = [4]T{right.X, right.Y, right.Z, 0}
	basis[1] = [4]T{camUp.X, camUp.Y, camUp.Z, 0}
	basis[2] = [4]T{back.X, back.Y, back.Z, 0}

	return basis.Mul(Translate(eye.Neg()))
}

// Perspective returns a right-handed OpenGL projection matrix.
// fovY is the vertical field of view in degrees. After the perspective
// divide, points on the near plane map to z = -1 and points on the far plane
// to z = +1.
func Perspective[T Number](fovY, aspect, near, far T) (Mat4[T], error) {
	tanHalf := tan(Radians(fovY) / 2)
	if near == far || aspect == 0 || tanHalf == 0 {
		return Mat4[T]{}, ErrDegenerateProjection
	}

	var m Mat4[T]
	m[0][0] = 1 / (aspect * tanHalf)
	m[1][1] = 1 / tanHalf
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -(2 * far * near) / (far - near)
	m[3][2] = -1
	return m, nil
}

// Mul returns m * other.
func (m Mat4[T]) Mul(other Mat4[T]) Mat4[T] {
	var result Mat4[T]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum T
			for k := 0; k < 4; k++ {
				sum += m[row][k] * other[k][col]
			}
			result[row][col] = sum
		}
	}
	return result
}

// MulVec4 returns m * v.
func (m Mat4[T]) MulVec4(v Vec4[T]) Vec4[T] {
	return Vec4[T]{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// TransformPoint transforms a point (w=1) and applies the perspective divide
// when the resulting w is neither 0 nor 1.
func (m Mat4[T]) TransformPoint(p Vec3[T]) Vec3[T] {
	r := m.MulVec4(p.Extend(1))
	if r.W != 0 && r.W != 1 {
		return r.PerspectiveDivide()
	}
	return r.XYZ()
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4[T]) TransformDirection(d Vec3[T]) Vec3[T] {
	return m.MulVec4(d.Extend(0)).XYZ()
}

// Transpose returns the transposed matrix.
func (m Mat4[T]) Transpose() Mat4[T] {
	var t Mat4[T]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			t[col][row] = m[row][col]
		}
	}
	return t
}

// Array returns the components in row-major order.
func (m Mat4[T]) Array() [16]T {
	var a [16]T
	for row := 0; row < 4; row++ {
		copy(a[row*4:row*4+4], m[row][:])
	}
	return a
}
