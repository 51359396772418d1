package math

// Vec3 is a 3D vector.
type Vec3[T Number] struct {
	X, Y, Z T
}

// Add returns v + other.
func (v Vec3[T]) Add(other Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3[T]) Sub(other Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul returns the component-wise product.
func (v Vec3[T]) Mul(other Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Scale returns v * s.
func (v Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v / s.
func (v Vec3[T]) Div(s T) Vec3[T] {
	return Vec3[T]{v.X / s, v.Y / s, v.Z / s}
}

// Neg returns -v.
func (v Vec3[T]) Neg() Vec3[T] {
	return Vec3[T]{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3[T]) Dot(other Vec3[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3[T]) Cross(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Norm2 returns the squared length.
func (v Vec3[T]) Norm2() T {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Norm returns the length.
func (v Vec3[T]) Norm() T {
	return sqrt(v.Norm2())
}

// Normalize returns a unit vector, or the zero vector for a zero-length input.
func (v Vec3[T]) Normalize() Vec3[T] {
	l := v.Norm()
	if l == 0 {
		return Vec3[T]{}
	}
	return v.Div(l)
}

// Distance returns the distance to another point.
func (v Vec3[T]) Distance(other Vec3[T]) T {
	return v.Sub(other).Norm()
}

// Min returns the component-wise minimum.
func (v Vec3[T]) Min(other Vec3[T]) Vec3[T] {
	return Vec3[T]{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3[T]) Max(other Vec3[T]) Vec3[T] {
	return Vec3[T]{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// XZ returns the XZ components as Vec2.
func (v Vec3[T]) XZ() Vec2[T] {
	return Vec2[T]{v.X, v.Z}
}

// Extend returns the homogeneous vector (x, y, z, w).
func (v Vec3[T]) Extend(w T) Vec4[T] {
	return Vec4[T]{v.X, v.Y, v.Z, w}
}

// At returns component i (0=X, 1=Y, 2=Z).
func (v Vec3[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("math: Vec3 index out of range")
}
