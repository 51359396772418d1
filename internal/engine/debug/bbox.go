package debug

import (
	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding expands the box slightly so it does not z-fight with the model.
const DefaultBBoxPadding = 0.01

// GenerateBBoxWireframeVertices creates line-list vertices for the edges of
// the box lo..hi. The vertices use the model vertex layout so the model
// shader can draw them with texturing blended out.
func GenerateBBoxWireframeVertices(lo, hi math.Vec3[float32], padding float32, color math.Vec3[float32]) []formats.Vertex {
	pad := math.Vec3[float32]{X: padding, Y: padding, Z: padding}
	lo, hi = lo.Min(hi).Sub(pad), hi.Max(lo).Add(pad)

	corner := func(x, y, z float32) formats.Vertex {
		return formats.Vertex{Position: math.Vec3[float32]{X: x, Y: y, Z: z}, Color: color}
	}
	return []formats.Vertex{
		// Bottom face (4 edges)
		corner(lo.X, lo.Y, lo.Z), corner(hi.X, lo.Y, lo.Z),
		corner(hi.X, lo.Y, lo.Z), corner(hi.X, lo.Y, hi.Z),
		corner(hi.X, lo.Y, hi.Z), corner(lo.X, lo.Y, hi.Z),
		corner(lo.X, lo.Y, hi.Z), corner(lo.X, lo.Y, lo.Z),
		// Top face (4 edges)
		corner(lo.X, hi.Y, lo.Z), corner(hi.X, hi.Y, lo.Z),
		corner(hi.X, hi.Y, lo.Z), corner(hi.X, hi.Y, hi.Z),
		corner(hi.X, hi.Y, hi.Z), corner(lo.X, hi.Y, hi.Z),
		corner(lo.X, hi.Y, hi.Z), corner(lo.X, hi.Y, lo.Z),
		// Vertical edges (4 edges)
		corner(lo.X, lo.Y, lo.Z), corner(lo.X, hi.Y, lo.Z),
		corner(hi.X, lo.Y, lo.Z), corner(hi.X, hi.Y, lo.Z),
		corner(hi.X, lo.Y, hi.Z), corner(hi.X, hi.Y, hi.Z),
		corner(lo.X, lo.Y, hi.Z), corner(lo.X, hi.Y, hi.Z),
	}
}

// ModelBBoxWireframe outlines a model's bounds.
func ModelBBoxWireframe(model *formats.Model, color math.Vec3[float32]) []formats.Vertex {
	lo, hi := model.Bounds()
	return GenerateBBoxWireframeVertices(lo, hi, DefaultBBoxPadding, color)
}
