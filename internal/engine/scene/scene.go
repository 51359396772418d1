// Package scene holds the viewer's frame-independent model state.
package scene

import (
	"github.com/Faultbox/scop/internal/config"
	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

// Scale limits and rates for the keypad zoom.
const (
	MinScale  float32 = 0.1
	MaxScale  float32 = 10
	ScaleRate float32 = 1.5 // factor per second

	// TextureFadeRate is how fast textureMix moves toward its target, per second.
	TextureFadeRate float32 = 1
)

// State is the frame-independent part of the viewer.
type State struct {
	Angle      float32 // model rotation around Y, radians
	Scale      float32
	TextureMix float32 // 0 = vertex colors, 1 = textures
	ShowBBox   bool
	Paused     bool

	mixTarget float32
	center    math.Vec3[float32]
	fit       float32
}

// NewState fits the model into the unit sphere around the origin.
func NewState(model *formats.Model) *State {
	lo, hi := model.Bounds()
	fit := float32(1)
	if d := hi.Sub(lo).Norm(); d > 0 {
		fit = 2 / d
	}
	return &State{
		Scale:  1,
		center: lo.Add(hi).Scale(0.5),
		fit:    fit,
	}
}

// ToggleTexture starts a fade between vertex colors and textures.
func (s *State) ToggleTexture() {
	if s.mixTarget > 0.5 {
		s.mixTarget = 0
	} else {
		s.mixTarget = 1
	}
}

// Zoom grows (dir > 0) or shrinks (dir < 0) the model.
func (s *State) Zoom(dir, dt float32) {
	if dir == 0 {
		return
	}
	factor := float32(1) + (ScaleRate-1)*dt
	if dir < 0 {
		factor = 1 / factor
	}
	s.Scale = clamp(s.Scale*factor, MinScale, MaxScale)
}

// Update advances the rotation and the texture fade.
func (s *State) Update(dt, rotationSpeed float32) {
	if !s.Paused {
		s.Angle += rotationSpeed * dt
	}
	step := TextureFadeRate * dt
	switch {
	case s.TextureMix < s.mixTarget:
		s.TextureMix = min(s.TextureMix+step, s.mixTarget)
	case s.TextureMix > s.mixTarget:
		s.TextureMix = max(s.TextureMix-step, s.mixTarget)
	}
}

// Reset restores scale, rotation and display toggles.
func (s *State) Reset() {
	s.Angle = 0
	s.Scale = 1
	s.TextureMix = 0
	s.mixTarget = 0
	s.ShowBBox = false
	s.Paused = false
}

// ModelMatrix centers the model, fits and scales it, then spins it around Y.
func (s *State) ModelMatrix() math.Mat4[float32] {
	k := s.Scale * s.fit
	return math.Rotate(math.Vec3[float32]{Y: 1}, s.Angle).
		Mul(math.Scale(math.Vec3[float32]{X: k, Y: k, Z: k})).
		Mul(math.Translate(s.center.Neg()))
}

// Projection builds the viewer projection for a framebuffer size.
func Projection(cfg config.ViewerConfig, width, height int) (math.Mat4[float32], error) {
	if height <= 0 {
		height = 1
	}
	return math.Perspective(cfg.FOV, float32(width)/float32(height), cfg.Near, cfg.Far)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
