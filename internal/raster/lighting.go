package raster

import (
	gomath "math"

	"github.com/Faultbox/scop/pkg/math"
)

// Light is a single directional light with an ambient floor.
type Light struct {
	Dir     math.Vec3[float32] // towards the light, world space
	Ambient float64
	Direct  float64
}

// DefaultLight returns a key light from the upper front right.
func DefaultLight() Light {
	return Light{
		Dir:     math.Vec3[float32]{X: 0.4, Y: 0.8, Z: 0.6}.Normalize(),
		Ambient: 0.35,
		Direct:  0.65,
	}
}

// Shade returns the flat shading factor for a face normal. Faces are
// lit from both sides since OBJ winding is not reliable.
func (l Light) Shade(normal math.Vec3[float32]) float64 {
	ndl := gomath.Abs(float64(normal.Dot(l.Dir)))
	return l.Ambient + ndl*l.Direct
}
