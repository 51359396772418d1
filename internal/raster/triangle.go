package raster

import (
	"image"
	gomath "math"
)

// ScreenVertex is a projected vertex: pixel coordinates, NDC depth and the
// attributes interpolated across the triangle.
type ScreenVertex struct {
	X, Y, Z float64
	U, V    float64
	R, G, B float64 // 0..1
}

// RasterizeTriangle fills a triangle with depth testing (smaller z wins).
// Texels are taken from tex when it is non-nil, otherwise the interpolated
// vertex color is used. shade scales the final color.
func RasterizeTriangle(fb *FrameBuffer, tri [3]ScreenVertex, tex *image.NRGBA, shade float64) {
	x0, y0, z0 := tri[0].X, tri[0].Y, tri[0].Z
	x1, y1, z1 := tri[1].X, tri[1].Y, tri[1].Z
	x2, y2, z2 := tri[2].X, tri[2].Y, tri[2].Z

	// Bounding box
	minX := max(int(gomath.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(gomath.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(gomath.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(gomath.Ceil(max(y0, y1, y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		// Sample at pixel centers
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			if z < -1 || z > 1 {
				continue
			}
			zIdx := rowOff + sx
			if z >= fb.Depth[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if tex != nil {
				u := w0*tri[0].U + w1*tri[1].U + w2*tri[2].U
				v := w0*tri[0].V + w1*tri[1].V + w2*tri[2].V
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			} else {
				cr = clamp255((w0*tri[0].R + w1*tri[1].R + w2*tri[2].R) * 255)
				cg = clamp255((w0*tri[0].G + w1*tri[1].G + w2*tri[2].G) * 255)
				cb = clamp255((w0*tri[0].B + w1*tri[1].B + w2*tri[2].B) * 255)
				ca = 255
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.Depth[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(float64(cr) * shade)
			fb.Color[pxIdx+1] = clamp255(float64(cg) * shade)
			fb.Color[pxIdx+2] = clamp255(float64(cb) * shade)
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
