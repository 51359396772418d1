// Package camera provides the viewer's free-fly camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/scop/pkg/math"
)

// FreeCamera moves freely and looks along yaw/pitch.
// Yaw 0 and pitch 0 look down -Z.
type FreeCamera struct {
	Position math.Vec3[float32]
	Yaw      float32 // radians, positive turns right
	Pitch    float32 // radians, positive looks up

	// Constraints
	MaxPitch float32

	// Sensitivity
	MoveSpeed       float32 // units per second
	TurnSensitivity float32 // radians per mouse pixel

	home math.Vec3[float32]
}

// New creates a camera at position looking down -Z.
func New(position math.Vec3[float32], moveSpeed float32) *FreeCamera {
	return &FreeCamera{
		Position:        position,
		MaxPitch:        1.55,
		MoveSpeed:       moveSpeed,
		TurnSensitivity: 0.003,
		home:            position,
	}
}

var worldUp = math.Vec3[float32]{Y: 1}

// Front returns the unit view direction.
func (c *FreeCamera) Front() math.Vec3[float32] {
	cp := gomath.Cos(float64(c.Pitch))
	return math.Vec3[float32]{
		X: float32(gomath.Sin(float64(c.Yaw)) * cp),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: float32(-gomath.Cos(float64(c.Yaw)) * cp),
	}.Normalize()
}

// Right returns the unit strafe direction on the XZ plane.
func (c *FreeCamera) Right() math.Vec3[float32] {
	return math.Vec3[float32]{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: float32(gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FreeCamera) ViewMatrix() math.Mat4[float32] {
	return math.LookAt(c.Position, c.Position.Add(c.Front()), worldUp)
}

// Move translates the camera. forward and right follow the view direction,
// up follows the world Y axis; each is typically -1, 0 or 1. dt is in seconds.
func (c *FreeCamera) Move(forward, right, up, dt float32) {
	step := c.MoveSpeed * dt
	delta := c.Front().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(worldUp.Scale(up))
	c.Position = c.Position.Add(delta.Scale(step))
}

// Turn rotates the view by a mouse delta in pixels.
func (c *FreeCamera) Turn(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.TurnSensitivity
	c.Pitch -= deltaY * c.TurnSensitivity

	// Clamp pitch short of straight up/down, where LookAt degenerates
	c.Pitch = max(-c.MaxPitch, min(c.MaxPitch, c.Pitch))
}

// Reset returns to the starting position and orientation.
func (c *FreeCamera) Reset() {
	c.Position = c.home
	c.Yaw = 0
	c.Pitch = 0
}
