// Package math provides the vector and matrix types shared by the OBJ loader
// and the renderers.
package math

import "math"

// Number is the scalar constraint for vectors and matrices.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~float32 | ~float64
}

// sqrt computes the square root through float64, truncating for integers.
func sqrt[T Number](x T) T {
	return T(math.Sqrt(float64(x)))
}

func cos[T Number](x T) T {
	return T(math.Cos(float64(x)))
}

func sin[T Number](x T) T {
	return T(math.Sin(float64(x)))
}

func tan[T Number](x T) T {
	return T(math.Tan(float64(x)))
}

// Radians converts degrees to radians.
func Radians[T Number](deg T) T {
	return T(float64(deg) * math.Pi / 180)
}
