package math

// Vec4 is a homogeneous 4-component vector.
type Vec4[T Number] struct {
	X, Y, Z, W T
}

// Add returns v + other.
func (v Vec4[T]) Add(other Vec4[T]) Vec4[T] {
	return Vec4[T]{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Sub returns v - other.
func (v Vec4[T]) Sub(other Vec4[T]) Vec4[T] {
	return Vec4[T]{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Scale returns v * s.
func (v Vec4[T]) Scale(s T) Vec4[T] {
	return Vec4[T]{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Div returns v / s.
func (v Vec4[T]) Div(s T) Vec4[T] {
	return Vec4[T]{v.X / s, v.Y / s, v.Z / s, v.W / s}
}

// Neg returns -v.
func (v Vec4[T]) Neg() Vec4[T] {
	return Vec4[T]{-v.X, -v.Y, -v.Z, -v.W}
}

// Dot returns the dot product.
func (v Vec4[T]) Dot(other Vec4[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// Norm2 returns the squared length.
func (v Vec4[T]) Norm2() T {
	return v.Dot(v)
}

// Norm returns the length.
func (v Vec4[T]) Norm() T {
	return sqrt(v.Norm2())
}

// Normalize returns a unit vector, or the zero vector for a zero-length input.
func (v Vec4[T]) Normalize() Vec4[T] {
	l := v.Norm()
	if l == 0 {
		return Vec4[T]{}
	}
	return v.Div(l)
}

// XYZ drops the W component.
func (v Vec4[T]) XYZ() Vec3[T] {
	return Vec3[T]{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns (x/w, y/w, z/w).
func (v Vec4[T]) PerspectiveDivide() Vec3[T] {
	return Vec3[T]{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// At returns component i (0=X .. 3=W).
func (v Vec4[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	panic("math: Vec4 index out of range")
}
