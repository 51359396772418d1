package raster

import (
	"image"
	"image/color"
	gomath "math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float64 // NDC depth per pixel, len = W*H, initialized to +inf
}

// NewFrameBuffer allocates a transparent color buffer and a cleared depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		Depth:  make([]float64, w*h),
	}
	fb.ClearDepth()
	return fb
}

// Clear fills the color buffer with c and resets depth.
func (fb *FrameBuffer) Clear(c color.NRGBA) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = c.R
		fb.Color[i+1] = c.G
		fb.Color[i+2] = c.B
		fb.Color[i+3] = c.A
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth sample to +inf.
func (fb *FrameBuffer) ClearDepth() {
	inf := gomath.Inf(1)
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// Image wraps the color buffer without copying.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Covered returns the number of pixels written by at least one triangle.
func (fb *FrameBuffer) Covered() int {
	n := 0
	for _, z := range fb.Depth {
		if !gomath.IsInf(z, 1) {
			n++
		}
	}
	return n
}
