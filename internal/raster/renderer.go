// Package raster renders OBJ models to images without a GPU, for thumbnails
// and headless previews.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

// Options controls a headless render.
type Options struct {
	Size       int     // output is Size x Size pixels
	Distance   float32 // camera distance from the model center, model fitted to a unit sphere
	FOV        float32 // vertical, degrees
	Yaw        float32 // radians around Y
	Pitch      float32 // radians around X
	Background color.NRGBA
	Texture    *image.NRGBA // optional; vertex colors are used when nil
	Light      Light
}

// DefaultOptions returns a three-quarter view at the viewer's default projection.
func DefaultOptions() Options {
	return Options{
		Size:       512,
		Distance:   3,
		FOV:        45,
		Yaw:        0.6,
		Pitch:      0.4,
		Background: color.NRGBA{R: 0x33, G: 0x4d, B: 0x4d, A: 255},
		Light:      DefaultLight(),
	}
}

// baseColor is used for vertices without a color.
var baseColor = math.Vec3[float32]{X: 0.8, Y: 0.8, Z: 0.8}

const (
	nearPlane = 0.1
	farPlane  = 100
)

// ModelMatrix scales a centered model into the unit sphere and applies
// pitch after yaw.
func ModelMatrix(model *formats.Model, yaw, pitch float32) math.Mat4[float32] {
	lo, hi := model.Bounds()
	s := float32(1)
	if d := hi.Sub(lo).Norm(); d > 0 {
		s = 2 / d
	}
	return math.Rotate(math.Vec3[float32]{X: 1}, pitch).
		Mul(math.Rotate(math.Vec3[float32]{Y: 1}, yaw)).
		Mul(math.Scale(math.Vec3[float32]{X: s, Y: s, Z: s}))
}

// Render rasterizes model into a new square image.
func Render(model *formats.Model, opts Options) (*image.NRGBA, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("raster: invalid size %d", opts.Size)
	}
	proj, err := math.Perspective(opts.FOV, 1, nearPlane, farPlane)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	if opts.Light == (Light{}) {
		opts.Light = DefaultLight()
	}

	eye := math.Vec3[float32]{Z: opts.Distance}
	view := math.LookAt(eye, math.Vec3[float32]{}, math.Vec3[float32]{Y: 1})
	world := ModelMatrix(model, opts.Yaw, opts.Pitch)
	mvp := proj.Mul(view).Mul(world)

	fb := NewFrameBuffer(opts.Size, opts.Size)
	fb.Clear(opts.Background)

	size := float64(opts.Size)
	screen := make([]ScreenVertex, len(model.Vertices))
	visible := make([]bool, len(model.Vertices))
	for i, v := range model.Vertices {
		clip := mvp.MulVec4(v.Position.Extend(1))
		// Behind or on the eye plane
		if clip.W <= 1e-6 {
			continue
		}
		ndc := clip.PerspectiveDivide()

		c := v.Color
		if c == (math.Vec3[float32]{}) {
			c = baseColor
		}
		screen[i] = ScreenVertex{
			X: (float64(ndc.X) + 1) * 0.5 * size,
			Y: (1 - float64(ndc.Y)) * 0.5 * size,
			Z: float64(ndc.Z),
			U: float64(v.TexCoords.X),
			V: float64(v.TexCoords.Y),
			R: float64(c.X),
			G: float64(c.Y),
			B: float64(c.Z),
		}
		visible[i] = true
	}

	for _, tri := range model.Triangles() {
		if !visible[tri[0]] || !visible[tri[1]] || !visible[tri[2]] {
			continue
		}
		// world is a rotation with uniform scale, so it maps normals as directions.
		a := model.Vertices[tri[0]].Position
		b := model.Vertices[tri[1]].Position
		c := model.Vertices[tri[2]].Position
		normal := world.TransformDirection(b.Sub(a).Cross(c.Sub(a))).Normalize()

		RasterizeTriangle(fb,
			[3]ScreenVertex{screen[tri[0]], screen[tri[1]], screen[tri[2]]},
			opts.Texture,
			opts.Light.Shade(normal),
		)
	}

	return fb.Image(), nil
}
