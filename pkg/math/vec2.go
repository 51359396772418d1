package math

// Vec2 is a 2D vector.
type Vec2[T Number] struct {
	X, Y T
}

// Add returns v + other.
func (v Vec2[T]) Add(other Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2[T]) Sub(other Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{v.X * s, v.Y * s}
}

// Div returns v / s.
func (v Vec2[T]) Div(s T) Vec2[T] {
	return Vec2[T]{v.X / s, v.Y / s}
}

// Neg returns -v.
func (v Vec2[T]) Neg() Vec2[T] {
	return Vec2[T]{-v.X, -v.Y}
}

// Dot returns the dot product.
func (v Vec2[T]) Dot(other Vec2[T]) T {
	return v.X*other.X + v.Y*other.Y
}

// Norm2 returns the squared length.
func (v Vec2[T]) Norm2() T {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the length.
func (v Vec2[T]) Norm() T {
	return sqrt(v.Norm2())
}

// Normalize returns a unit vector, or the zero vector for a zero-length input.
func (v Vec2[T]) Normalize() Vec2[T] {
	l := v.Norm()
	if l == 0 {
		return Vec2[T]{}
	}
	return v.Div(l)
}

// Distance returns the distance to another point.
func (v Vec2[T]) Distance(other Vec2[T]) T {
	return v.Sub(other).Norm()
}
